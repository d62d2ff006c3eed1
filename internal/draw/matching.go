package draw

import (
	"fmt"
	"math/rand"
)

// matching is the exact fallback: Kuhn's augmenting-path search for a perfect
// matching on the candidate graph. It either constructs a valid assignment or
// proves none exists, in O(V*E) time, so a pathological exclusion set cannot
// stall a draw. Candidate order is shuffled with the draw's RNG so the exact
// path stays seed-deterministic without always yielding the same permutation.
type matching struct{}

func (s *matching) solve(g *graph, rng *rand.Rand) ([]int, error) {
	n := g.size()

	candidates := make([][]int, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if g.allowed[i][j] {
				candidates[i] = append(candidates[i], j)
			}
		}
		rng.Shuffle(len(candidates[i]), func(a, b int) {
			candidates[i][a], candidates[i][b] = candidates[i][b], candidates[i][a]
		})
	}

	// matchedGiver[r] is the giver currently matched to receiver r.
	matchedGiver := make([]int, n)
	for i := range matchedGiver {
		matchedGiver[i] = -1
	}

	var visited []bool
	var augment func(giver int) bool
	augment = func(giver int) bool {
		for _, r := range candidates[giver] {
			if visited[r] {
				continue
			}
			visited[r] = true

			if matchedGiver[r] == -1 || augment(matchedGiver[r]) {
				matchedGiver[r] = giver
				return true
			}
		}

		return false
	}

	for giver := 0; giver < n; giver++ {
		visited = make([]bool, n)
		if !augment(giver) {
			return nil, fmt.Errorf("no valid receiver remains for participant %v -> %w", g.name(giver), ErrInfeasible)
		}
	}

	perm := make([]int, n)
	for r, giver := range matchedGiver {
		perm[giver] = r
	}

	return perm, nil
}
