package world

// Event kinds recorded in step results.
const (
	EventShare             = "share"
	EventSteal             = "steal"
	EventAllianceFormed    = "alliance_formed"
	EventAllianceDissolved = "alliance_dissolved"
)

type Event struct {
	Tick       int    `json:"tick"`
	Kind       string `json:"kind"`
	Actor      int    `json:"actor"`
	Target     int    `json:"target,omitempty"`
	AllianceID int    `json:"alliance_id,omitempty"`
}

// StepResult is the outcome of one tick: the per-agent reward for this
// tick and the social events that occurred.
type StepResult struct {
	Tick    int
	Rewards map[int]float64
	Events  []Event
}

// Step resolves one tick. Every live agent contributes exactly one action;
// missing entries count as Idle. Phases run in a fixed order and iterate
// agents by ascending id, with all cross-agent reads taken from phase-start
// snapshots, so the outcome is independent of map iteration order.
func (w *World) Step(actions map[int]Action) StepResult {
	tick := w.tick
	rewards := make(map[int]float64, len(w.agents))
	var events []Event

	// Signals raised last tick were visible in this tick's observations;
	// they lapse now unless reasserted in phase 8.
	for _, a := range w.agents {
		a.Signal = SignalNone
	}

	// Inventories as of tick start. Steal eligibility and outcomes resolve
	// against these, independent of same-tick transfers.
	preInv := make([]int, len(w.agents))
	for i, a := range w.agents {
		preInv[i] = a.Inventory
	}

	act := func(a *Agent) Action {
		if ac, ok := actions[a.ID]; ok {
			return ac
		}
		return Idle
	}

	// Phase 1: movement. Destinations are clamped to the grid edge (an
	// edge move degrades to a stay at step cost) and checked against the
	// (static) obstacle set; stacking on other agents is allowed.
	for _, a := range w.agents {
		if !a.Alive {
			continue
		}
		k := act(a).Kind
		if !k.movement() {
			continue
		}
		dx, dy := k.delta()
		dest := Cell{
			X: clampInt(a.Pos.X+dx, 0, w.grid.W-1),
			Y: clampInt(a.Pos.Y+dy, 0, w.grid.H-1),
		}
		if w.grid.Obstacle(dest) {
			w.applyReward(a, w.cfg.Rewards.ObstacleCollision, rewards)
			w.applyHealthDelta(a, -w.cfg.Health.CollisionLoss)
			w.settleHealth(a, &events)
			continue
		}
		a.Pos = dest
		w.applyReward(a, w.cfg.Rewards.Step, rewards)
	}

	// Phase 2: collect. Automatic for any live agent standing on food.
	// Every collection schedules exactly one replacement spawn, on a cell
	// other than the one just emptied.
	for _, a := range w.agents {
		if !a.Alive {
			continue
		}
		got := w.grid.CollectFoodAt(a.Pos)
		if got == 0 {
			continue
		}
		a.Inventory += got
		w.totals.FoodCollected += got
		w.applyReward(a, w.cfg.Rewards.Collect, rewards)
		w.applyHealthDelta(a, w.cfg.Health.CollectGain)
		w.grid.SpawnFoodExcluding(w.rng, a.Pos)
	}

	// Phase 3: share. Source needs inventory; target is the nearest
	// adjacent live Cooperative agent (ties to the lowest id). Transfers
	// are selected first, then committed, so one share never changes
	// another's target choice.
	type transfer struct{ src, dst *Agent }
	var shares []transfer
	for _, a := range w.agents {
		if !a.Alive || act(a).Kind != ActionShare || a.Inventory <= 0 {
			continue
		}
		dst := w.nearestAdjacent(a, func(b *Agent) bool {
			return b.Personality == Cooperative
		})
		if dst == nil {
			continue
		}
		shares = append(shares, transfer{src: a, dst: dst})
	}
	for _, tr := range shares {
		tr.src.Inventory--
		tr.dst.Inventory++
		w.applyReward(tr.src, w.cfg.Rewards.Share, rewards)
		w.applyReward(tr.dst, w.cfg.Rewards.Share, rewards)
		w.totals.CooperationEvents++
		events = append(events, Event{Tick: tick, Kind: EventShare, Actor: tr.src.ID, Target: tr.dst.ID})
	}

	// Phase 4: steal. Victim selection and success use pre-tick
	// inventories, so simultaneous thieves resolve independently; the
	// victim's actual inventory floors at 0.
	for _, a := range w.agents {
		if !a.Alive || act(a).Kind != ActionSteal {
			continue
		}
		victim := w.nearestAdjacent(a, func(b *Agent) bool {
			return preInv[b.ID] > 0
		})
		if victim == nil {
			continue
		}
		if victim.Inventory > 0 {
			victim.Inventory--
		}
		a.Inventory++
		w.applyReward(a, w.cfg.Rewards.StealThief, rewards)
		w.applyReward(victim, w.cfg.Rewards.StealVictim, rewards)
		w.totals.TheftEvents++
		events = append(events, Event{Tick: tick, Kind: EventSteal, Actor: a.ID, Target: victim.ID})
	}

	// Phase 5: alliance formation. Mutual consent: both agents chose the
	// alliance action, both unaffiliated, adjacent, and each is the
	// other's nearest eligible candidate. Candidates are computed up
	// front; mutual-nearest pairs are disjoint, so pairing order cannot
	// matter.
	proposer := map[int]bool{}
	for _, a := range w.agents {
		if a.Alive && a.AllianceID == 0 && act(a).Kind == ActionAlliance {
			proposer[a.ID] = true
		}
	}
	candidate := map[int]*Agent{}
	for id := range proposer {
		a := w.agents[id]
		candidate[id] = w.nearestAdjacent(a, func(b *Agent) bool {
			return proposer[b.ID]
		})
	}
	for _, a := range w.agents {
		if !proposer[a.ID] {
			continue
		}
		b := candidate[a.ID]
		if b == nil || b.ID < a.ID || candidate[b.ID] != a {
			continue
		}
		al := w.formAlliance(a, b, tick)
		w.totals.AlliancesFormed++
		w.totals.CooperationEvents++
		w.applyReward(a, w.cfg.Rewards.FormAlliance, rewards)
		w.applyReward(b, w.cfg.Rewards.FormAlliance, rewards)
		events = append(events, Event{Tick: tick, Kind: EventAllianceFormed, Actor: a.ID, Target: b.ID, AllianceID: al.ID})
	}

	// Phase 6: maintain. The alliance action from a current member resets
	// its alliance's maintenance timer. (Members of an alliance formed
	// this very tick already have the timer at the current tick.)
	for _, a := range w.agents {
		if !a.Alive || act(a).Kind != ActionAlliance {
			continue
		}
		w.maintainAlliance(a, tick)
	}

	// Phase 7: leave. No-op for non-members.
	for _, a := range w.agents {
		if !a.Alive || act(a).Kind != ActionLeaveAlliance {
			continue
		}
		if al := w.removeFromAlliance(a); al != nil {
			events = append(events, Event{Tick: tick, Kind: EventAllianceDissolved, Actor: a.ID, AllianceID: al.ID})
		}
	}

	// Phase 8: signal. One-tick lifetime; visible in next tick's
	// observations. Providers that don't pick a signal get one derived
	// from the agent's state. A signaler in an alliance pays out the
	// signal reward to itself and to each fellow member within the
	// signal radius.
	for _, a := range w.agents {
		if !a.Alive || act(a).Kind != ActionSignal {
			continue
		}
		s := act(a).Signal
		if s == SignalNone {
			s = deriveSignal(a)
		}
		a.Signal = s

		if a.AllianceID == 0 || w.cfg.Rewards.Signal == 0 {
			continue
		}
		rr := w.cfg.SignalRadius * w.cfg.SignalRadius
		for _, m := range w.agents {
			if m.ID == a.ID || !m.Alive || m.AllianceID != a.AllianceID {
				continue
			}
			if euclidSq(a.Pos, m.Pos) > rr {
				continue
			}
			w.applyReward(a, w.cfg.Rewards.Signal, rewards)
			w.applyReward(m, w.cfg.Rewards.Signal, rewards)
		}
	}

	// Phase 9 (idle) has no effect beyond the passive pass below.

	// Passive effects: universal decay, plus the alliance bonus while the
	// alliance has been maintained within the window.
	for _, a := range w.agents {
		if !a.Alive {
			continue
		}
		d := -w.cfg.Health.Decay
		if a.AllianceID != 0 && w.allianceOf(a).maintainedWithin(tick, w.cfg.MaintenanceWindowTicks) {
			d += w.cfg.Health.AllianceBonus
		}
		w.applyHealthDelta(a, d)
		w.settleHealth(a, &events)
	}

	w.tick++
	return StepResult{Tick: tick, Rewards: rewards, Events: events}
}

// settleHealth incapacitates an agent whose health reached 0: it stops
// acting, its score freezes, and it leaves its alliance (possibly
// dissolving it) in the same tick.
func (w *World) settleHealth(a *Agent, events *[]Event) {
	if !a.Alive || a.Health > 0 {
		return
	}
	a.Alive = false
	a.Signal = SignalNone
	if a.AllianceID != 0 {
		if al := w.removeFromAlliance(a); al != nil {
			*events = append(*events, Event{Tick: w.tick, Kind: EventAllianceDissolved, Actor: a.ID, AllianceID: al.ID})
		}
	}
}

// nearestAdjacent picks among live agents within Chebyshev distance 1 of a
// (stacked agents included, a itself excluded) the one matching pred that
// is nearest by Euclidean distance, ties broken by lowest id. Scanning by
// ascending id makes the tie-break explicit rather than an artifact of
// iteration order.
func (w *World) nearestAdjacent(a *Agent, pred func(*Agent) bool) *Agent {
	var best *Agent
	bestDist := -1
	for _, b := range w.agents {
		if b.ID == a.ID || !b.Alive {
			continue
		}
		if chebyshev(a.Pos, b.Pos) > 1 || !pred(b) {
			continue
		}
		d := euclidSq(a.Pos, b.Pos)
		if best == nil || d < bestDist {
			best = b
			bestDist = d
		}
	}
	return best
}

func deriveSignal(a *Agent) Signal {
	switch {
	case a.Health < 30:
		return SignalHelp
	case a.Inventory > 0:
		return SignalFood
	}
	return SignalDanger
}

func chebyshev(a, b Cell) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	if dx > dy {
		return dx
	}
	return dy
}

func euclidSq(a, b Cell) int {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
