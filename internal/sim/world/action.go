package world

// ActionKind enumerates everything the resolver knows how to apply. The
// provider-facing wire space is the first nine kinds (indices 0..8,
// matching the original 5-movement + 4-social layout); LeaveAlliance and
// Idle are reachable through the typed API, and Idle doubles as the
// fallback for malformed provider output.
type ActionKind int

const (
	ActionStay ActionKind = iota
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionShare
	ActionSteal
	ActionAlliance // form when unaffiliated, maintain when a member
	ActionSignal
	ActionLeaveAlliance
	ActionIdle
)

// NumWireActions is the size of the provider-facing action space.
const NumWireActions = 9

func (k ActionKind) String() string {
	switch k {
	case ActionStay:
		return "stay"
	case ActionUp:
		return "up"
	case ActionDown:
		return "down"
	case ActionLeft:
		return "left"
	case ActionRight:
		return "right"
	case ActionShare:
		return "share"
	case ActionSteal:
		return "steal"
	case ActionAlliance:
		return "alliance"
	case ActionSignal:
		return "signal"
	case ActionLeaveAlliance:
		return "leave_alliance"
	case ActionIdle:
		return "idle"
	}
	return "unknown"
}

// Action is one agent's choice for one tick. Signal is honored only for
// ActionSignal; when left as SignalNone the resolver derives the signal
// from the agent's state.
type Action struct {
	Kind   ActionKind
	Signal Signal
}

// Idle is the action applied for malformed or missing provider output.
var Idle = Action{Kind: ActionIdle}

// DecodeIndex maps a wire action index (0..8) to an Action. ok is false
// for out-of-range indices.
func DecodeIndex(idx int) (Action, bool) {
	if idx < 0 || idx >= NumWireActions {
		return Idle, false
	}
	return Action{Kind: ActionKind(idx)}, true
}

func (k ActionKind) movement() bool { return k >= ActionStay && k <= ActionRight }

func (k ActionKind) delta() (dx, dy int) {
	switch k {
	case ActionUp:
		return 0, -1
	case ActionDown:
		return 0, 1
	case ActionLeft:
		return -1, 0
	case ActionRight:
		return 1, 0
	}
	return 0, 0
}
