// Package policy ships built-in decision providers. The server runs with
// the heuristic provider by default so a simulation works without any
// external policy attached; scripted providers back deterministic tests.
package policy

import (
	"math/rand"

	"gridlife.ai/internal/sim/episode"
)

// Heuristic is a personality-biased random provider: cooperative agents
// lean toward social actions, aggressive agents toward movement and
// stealing, neutral agents toward plain movement. It reads the
// personality one-hot from the observation vector and is deterministic
// under a fixed seed (agents are visited in ascending id order).
type Heuristic struct {
	rng *rand.Rand
}

func NewHeuristic(seed int64) *Heuristic {
	return &Heuristic{rng: rand.New(rand.NewSource(seed))}
}

var (
	cooperativeActions = []int{0, 1, 2, 3, 4, 5, 7, 8}
	cooperativeWeights = []int{20, 15, 15, 15, 15, 10, 5, 5}

	aggressiveActions = []int{0, 1, 2, 3, 4, 6}
	aggressiveWeights = []int{10, 20, 20, 20, 20, 10}

	neutralActions = []int{0, 1, 2, 3, 4}
	neutralWeights = []int{20, 20, 20, 20, 20}
)

func (h *Heuristic) SelectActionIndices(obs map[int][]float64, live []int) map[int]int {
	out := make(map[int]int, len(live))
	for _, id := range live {
		v := obs[id]
		switch {
		case len(v) > 7 && v[6] == 1:
			out[id] = weightedPick(h.rng, cooperativeActions, cooperativeWeights)
		case len(v) > 7 && v[7] == 1:
			out[id] = weightedPick(h.rng, aggressiveActions, aggressiveWeights)
		default:
			out[id] = weightedPick(h.rng, neutralActions, neutralWeights)
		}
	}
	return out
}

func weightedPick(rng *rand.Rand, actions, weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	r := rng.Intn(total)
	for i, w := range weights {
		if r < w {
			return actions[i]
		}
		r -= w
	}
	return actions[len(actions)-1]
}

var _ episode.IndexProvider = (*Heuristic)(nil)
