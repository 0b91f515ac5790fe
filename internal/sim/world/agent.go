package world

// Personality is fixed at agent creation. The resolver never branches on
// it; it only biases the external decision provider and shows up in
// observations and metrics.
type Personality int

const (
	Cooperative Personality = iota
	Aggressive
	Neutral
)

func (p Personality) String() string {
	switch p {
	case Cooperative:
		return "cooperative"
	case Aggressive:
		return "aggressive"
	case Neutral:
		return "neutral"
	}
	return "unknown"
}

// Signal is a one-tick communication flag. It is cleared at the start of
// the next tick's resolution unless reasserted, so a signal raised in tick
// T is visible in neighbors' observations for tick T+1 only.
type Signal int

const (
	SignalNone Signal = iota
	SignalHelp
	SignalFood
	SignalDanger
)

func (s Signal) String() string {
	switch s {
	case SignalNone:
		return "none"
	case SignalHelp:
		return "help"
	case SignalFood:
		return "food"
	case SignalDanger:
		return "danger"
	}
	return "unknown"
}

// Agent holds per-agent mutable state. All mutation happens inside the
// resolver, once per tick. AllianceID is a weak reference owned by the
// alliance ledger (0 = none).
type Agent struct {
	ID          int
	Pos         Cell
	Health      float64
	Inventory   int
	Personality Personality
	AllianceID  int
	Signal      Signal
	Score       float64

	// Alive flips to false when health reaches 0. Incapacitated agents are
	// excluded from action resolution but stay in the registry for metrics.
	Alive bool
}

// applyHealthDelta clamps to [0, max]. Incapacitation is settled by the
// resolver (settleHealth) so alliance dissolution can be recorded as an
// event.
func (w *World) applyHealthDelta(a *Agent, d float64) {
	a.Health += d
	if a.Health > w.cfg.Health.Max {
		a.Health = w.cfg.Health.Max
	}
	if a.Health < 0 {
		a.Health = 0
	}
}

func (w *World) applyReward(a *Agent, r float64, rewards map[int]float64) {
	rewards[a.ID] += r
	a.Score += r
}

// LiveAgentIDs returns the ids of non-incapacitated agents in ascending
// order.
func (w *World) LiveAgentIDs() []int {
	ids := make([]int, 0, len(w.agents))
	for _, a := range w.agents {
		if a.Alive {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// Agent returns the agent with the given id, or nil.
func (w *World) Agent(id int) *Agent {
	if id < 0 || id >= len(w.agents) {
		return nil
	}
	return w.agents[id]
}
