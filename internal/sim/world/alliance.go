package world

import "fmt"

// Alliance life cycle: absent -> active (mutual form) -> active (maintain
// resets the timer) -> dissolved (membership below 2). Dissolution is
// terminal and ids are never reused.
type Alliance struct {
	ID                 int
	Members            map[int]bool
	FormedTick         int
	LastMaintainedTick int

	DissolvedTick int // -1 while active
}

func (al *Alliance) Active() bool { return al.DissolvedTick < 0 }

// Lifetime reports how many ticks the alliance was (or has been) active.
// For a still-active alliance, now is the current tick.
func (al *Alliance) Lifetime(now int) int {
	if al.Active() {
		return now - al.FormedTick
	}
	return al.DissolvedTick - al.FormedTick
}

// formAlliance creates a new two-member alliance. Both agents must be
// unaffiliated; anything else is a resolver bug.
func (w *World) formAlliance(a, b *Agent, tick int) *Alliance {
	if a.AllianceID != 0 || b.AllianceID != 0 {
		panic(fmt.Sprintf("alliance: duplicate membership for agents %d/%d", a.ID, b.ID))
	}
	w.nextAllianceID++
	al := &Alliance{
		ID:                 w.nextAllianceID,
		Members:            map[int]bool{a.ID: true, b.ID: true},
		FormedTick:         tick,
		LastMaintainedTick: tick,
		DissolvedTick:      -1,
	}
	w.alliances[al.ID] = al
	a.AllianceID = al.ID
	b.AllianceID = al.ID
	return al
}

// maintainAlliance resets the maintenance timer of the agent's alliance.
// Returns false when the agent is not in one.
func (w *World) maintainAlliance(a *Agent, tick int) bool {
	al := w.allianceOf(a)
	if al == nil {
		return false
	}
	al.LastMaintainedTick = tick
	return true
}

// removeFromAlliance detaches the agent; the alliance dissolves when its
// membership drops below 2, clearing the remaining member's reference in
// the same tick.
func (w *World) removeFromAlliance(a *Agent) (dissolved *Alliance) {
	al := w.allianceOf(a)
	if al == nil {
		return nil
	}
	delete(al.Members, a.ID)
	a.AllianceID = 0
	if len(al.Members) >= 2 {
		return nil
	}
	al.DissolvedTick = w.tick
	for id := range al.Members {
		m := w.agents[id]
		delete(al.Members, id)
		m.AllianceID = 0
	}
	return al
}

func (w *World) allianceOf(a *Agent) *Alliance {
	if a.AllianceID == 0 {
		return nil
	}
	al := w.alliances[a.AllianceID]
	if al == nil || !al.Active() {
		panic(fmt.Sprintf("alliance: agent %d references dead alliance %d", a.ID, a.AllianceID))
	}
	if !al.Members[a.ID] {
		panic(fmt.Sprintf("alliance: agent %d missing from member set of %d", a.ID, al.ID))
	}
	return al
}

// maintainedWithin reports whether the alliance earns the passive health
// bonus at the given tick.
func (al *Alliance) maintainedWithin(tick, window int) bool {
	return tick-al.LastMaintainedTick <= window
}

// ActiveAlliances counts alliances currently in the active state.
func (w *World) ActiveAlliances() int {
	n := 0
	for _, al := range w.alliances {
		if al.Active() {
			n++
		}
	}
	return n
}
