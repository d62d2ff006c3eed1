package draw

import (
	"fmt"
	"sort"

	"github.com/mpetrenko/secret-santa-api/internal/domain"
)

// graph is the bipartite candidate graph: allowed[g][r] reports whether the
// giver at index g may draw the receiver at index r. Indexes follow ids,
// which is sorted so a given seed always walks the same order regardless of
// how the caller ordered the slice.
type graph struct {
	ids     []uint
	names   map[uint]string
	index   map[uint]int
	allowed [][]bool
}

func buildGraph(participants []domain.Participant, exclusions []domain.Exclusion) (*graph, error) {
	if len(participants) < 2 {
		return nil, fmt.Errorf("need at least 2 participants, got %d -> %w", len(participants), ErrInvalidInput)
	}

	g := &graph{
		ids:   make([]uint, 0, len(participants)),
		names: make(map[uint]string, len(participants)),
		index: make(map[uint]int, len(participants)),
	}

	for _, p := range participants {
		if _, ok := g.names[p.ID]; ok {
			return nil, fmt.Errorf("duplicate participant %d -> %w", p.ID, ErrInvalidInput)
		}
		g.names[p.ID] = p.Name
		g.ids = append(g.ids, p.ID)
	}

	sort.Slice(g.ids, func(i, j int) bool { return g.ids[i] < g.ids[j] })
	for i, id := range g.ids {
		g.index[id] = i
	}

	n := len(g.ids)
	g.allowed = make([][]bool, n)
	for i := range g.allowed {
		g.allowed[i] = make([]bool, n)
		for j := range g.allowed[i] {
			g.allowed[i][j] = i != j
		}
	}

	for _, e := range exclusions {
		gi, ok := g.index[e.GiverID]
		if !ok {
			return nil, fmt.Errorf("exclusion references unknown participant %d -> %w", e.GiverID, ErrInvalidInput)
		}
		ri, ok := g.index[e.ReceiverID]
		if !ok {
			return nil, fmt.Errorf("exclusion references unknown participant %d -> %w", e.ReceiverID, ErrInvalidInput)
		}

		g.allowed[gi][ri] = false
		if e.Mutual {
			g.allowed[ri][gi] = false
		}
	}

	// Cheap necessity check before any search: a giver with an empty row or
	// a receiver with an empty column already proves infeasibility.
	for i := 0; i < n; i++ {
		giverOK, receiverOK := false, false
		for j := 0; j < n; j++ {
			giverOK = giverOK || g.allowed[i][j]
			receiverOK = receiverOK || g.allowed[j][i]
		}
		if !giverOK {
			return nil, fmt.Errorf("participant %v has no valid receiver -> %w", g.name(i), ErrInfeasible)
		}
		if !receiverOK {
			return nil, fmt.Errorf("participant %v cannot receive from anyone -> %w", g.name(i), ErrInfeasible)
		}
	}

	return g, nil
}

func (g *graph) name(i int) string {
	if n := g.names[g.ids[i]]; n != "" {
		return n
	}

	return fmt.Sprintf("#%d", g.ids[i])
}

func (g *graph) size() int {
	return len(g.ids)
}

// valid reports whether perm is a complete conflict-free assignment.
func (g *graph) valid(perm []int) bool {
	for gi, ri := range perm {
		if !g.allowed[gi][ri] {
			return false
		}
	}

	return true
}
