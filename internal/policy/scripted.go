package policy

import (
	"gridlife.ai/internal/sim/episode"
	"gridlife.ai/internal/sim/world"
)

// Scripted replays a fixed per-agent action sequence, one entry per call.
// Agents without a script (or past the end of theirs) idle. Intended for
// tests and replays.
type Scripted struct {
	scripts map[int][]world.Action
	cursor  map[int]int
}

func NewScripted(scripts map[int][]world.Action) *Scripted {
	return &Scripted{scripts: scripts, cursor: map[int]int{}}
}

func (s *Scripted) SelectActions(obs map[int][]float64, live []int) map[int]world.Action {
	out := make(map[int]world.Action, len(live))
	for _, id := range live {
		seq := s.scripts[id]
		i := s.cursor[id]
		if i < len(seq) {
			out[id] = seq[i]
			s.cursor[id] = i + 1
		} else {
			out[id] = world.Idle
		}
	}
	return out
}

var _ episode.DecisionProvider = (*Scripted)(nil)
