package draw

import "math/rand"

// randomized is the fast common-case strategy: shuffle the receivers, then
// repair local conflicts by swapping with another giver whose receiver fits.
// It never proves infeasibility; it hands over to the exact fallback once the
// attempt budget runs out.
type randomized struct {
	maxAttempts int
}

func (s *randomized) solve(g *graph, rng *rand.Rand) ([]int, error) {
	n := g.size()
	perm := make([]int, n)

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		for i := range perm {
			perm[i] = i
		}
		rng.Shuffle(n, func(i, j int) {
			perm[i], perm[j] = perm[j], perm[i]
		})

		s.repair(g, perm)

		if g.valid(perm) {
			return perm, nil
		}
	}

	return nil, nil
}

// repair runs one pass of cyclic swaps: each conflicting giver trades
// receivers with the first giver for whom the trade leaves both valid.
func (s *randomized) repair(g *graph, perm []int) {
	n := len(perm)
	for i := 0; i < n; i++ {
		if g.allowed[i][perm[i]] {
			continue
		}

		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			if g.allowed[i][perm[j]] && g.allowed[j][perm[i]] {
				perm[i], perm[j] = perm[j], perm[i]
				break
			}
		}
	}
}
