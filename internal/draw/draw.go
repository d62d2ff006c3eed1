// Package draw implements the gift-exchange assignment engine: given the
// participants of a group and a set of exclusion rules it produces a random
// giver -> receiver mapping that is a bijection with no self-assignments and
// no excluded pairs, or proves that no such mapping exists.
//
// The engine is a pure function of its inputs plus an optional seed. It does
// no I/O and holds no shared state, so independent draws may run concurrently.
package draw

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/mpetrenko/secret-santa-api/internal/domain"
)

var (
	// ErrInvalidInput marks caller errors: too few participants, duplicate
	// IDs, exclusions referencing unknown participants.
	ErrInvalidInput = errors.New("invalid draw input")

	// ErrInfeasible marks a proven dead end: the constraint set admits no
	// valid assignment. Only the exact matching step produces it, never an
	// exhausted retry budget.
	ErrInfeasible = errors.New("no valid assignment exists")

	// ErrInternal marks an engine invariant violation and should never occur.
	ErrInternal = errors.New("draw engine invariant violated")
)

// DefaultMaxAttempts bounds the randomized phase before the engine escalates
// to the exact matching fallback.
const DefaultMaxAttempts = 1000

// Config carries per-draw knobs. Passed explicitly so the engine reads no
// ambient state.
type Config struct {
	// MaxAttempts caps randomized shuffle attempts. Zero means
	// DefaultMaxAttempts.
	MaxAttempts int

	// Seed makes the draw reproducible. Nil draws a seed from the clock.
	Seed *int64
}

// A strategy tries to find a complete valid assignment over the candidate
// graph. It returns the permutation on success, (nil, nil) when it gives up
// without a verdict, or (nil, error) when it proves infeasibility.
type strategy interface {
	solve(g *graph, rng *rand.Rand) ([]int, error)
}

// Assign produces a valid assignment for the given participants, or reports
// why none can be made. The returned seed is the one actually used, so a
// round drawn without an explicit seed can still be replayed and audited.
func Assign(participants []domain.Participant, exclusions []domain.Exclusion, cfg Config) (map[uint]uint, int64, error) {
	g, err := buildGraph(participants, exclusions)
	if err != nil {
		return nil, 0, err
	}

	seed := time.Now().UnixNano()
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	rng := rand.New(rand.NewSource(seed))

	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	strategies := []strategy{
		&randomized{maxAttempts: maxAttempts},
		&matching{},
	}

	for _, s := range strategies {
		perm, err := s.solve(g, rng)
		if err != nil {
			return nil, 0, err
		}
		if perm == nil {
			continue
		}

		pairs := make(map[uint]uint, len(perm))
		for gi, ri := range perm {
			pairs[g.ids[gi]] = g.ids[ri]
		}

		// Never hand back an unverified result.
		if err := Validate(participants, exclusions, pairs); err != nil {
			return nil, 0, fmt.Errorf("strategy returned an invalid assignment: %v -> %w", err, ErrInternal)
		}

		return pairs, seed, nil
	}

	// The matching strategy is decisive, so the loop cannot fall through.
	return nil, 0, fmt.Errorf("all strategies exhausted without a verdict -> %w", ErrInternal)
}

// Validate checks that pairs is a bijection over the participants with no
// self-assignment and no excluded pair. It accepts exactly the assignments
// Assign may return.
func Validate(participants []domain.Participant, exclusions []domain.Exclusion, pairs map[uint]uint) error {
	if len(pairs) != len(participants) {
		return fmt.Errorf("assignment has %d pairs for %d participants", len(pairs), len(participants))
	}

	known := make(map[uint]string, len(participants))
	for _, p := range participants {
		known[p.ID] = p.Name
	}

	seen := make(map[uint]bool, len(pairs))
	for giver, receiver := range pairs {
		if _, ok := known[giver]; !ok {
			return fmt.Errorf("unknown giver %d", giver)
		}
		if _, ok := known[receiver]; !ok {
			return fmt.Errorf("unknown receiver %d", receiver)
		}
		if giver == receiver {
			return fmt.Errorf("%v is assigned to themselves", known[giver])
		}
		if seen[receiver] {
			return fmt.Errorf("%v receives more than once", known[receiver])
		}
		seen[receiver] = true
	}

	for _, e := range exclusions {
		if pairs[e.GiverID] == e.ReceiverID {
			return fmt.Errorf("%v is excluded from giving to %v", known[e.GiverID], known[e.ReceiverID])
		}
		if e.Mutual && pairs[e.ReceiverID] == e.GiverID {
			return fmt.Errorf("%v is excluded from giving to %v", known[e.ReceiverID], known[e.GiverID])
		}
	}

	return nil
}
