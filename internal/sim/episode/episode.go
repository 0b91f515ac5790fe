// Package episode drives complete simulation episodes: it owns the world
// for the episode's lifetime, asks the decision provider for one action
// per live agent per tick, invokes the resolver, and fans results out to
// emitters and loggers. Emission is fire-and-forget; nothing downstream
// can stall or fail a tick.
package episode

import (
	"gridlife.ai/internal/protocol"
	"gridlife.ai/internal/sim/world"
)

// DecisionProvider maps per-agent observations to actions. Implementations
// must be deterministic per agent given the same observations (batching
// across agents is fine). Missing or malformed entries default to Idle.
type DecisionProvider interface {
	SelectActions(obs map[int][]float64, live []int) map[int]world.Action
}

// IndexProvider is the raw wire form of a decision provider: action
// indices 0..8. Wrap with FromIndices.
type IndexProvider interface {
	SelectActionIndices(obs map[int][]float64, live []int) map[int]int
}

// Emitter receives episode lifecycle payloads. Implementations must never
// block; a stalled consumer is the transport layer's problem.
type Emitter interface {
	EmitEpisodeStart(protocol.EpisodeStartMsg)
	EmitSnapshot(protocol.SnapshotMsg)
	EmitSummary(protocol.SummaryMsg)
}

// TickLogger records one entry per committed tick (may be nil).
type TickLogger interface {
	WriteTick(TickLogEntry) error
}

// HistoryRecorder persists episode summaries (may be nil).
type HistoryRecorder interface {
	RecordSummary(protocol.SummaryMsg) error
}

type TickLogEntry struct {
	RunID      string        `json:"run_id"`
	Episode    int           `json:"episode"`
	Tick       int           `json:"tick"`
	LiveAgents int           `json:"live_agents"`
	RewardSum  float64       `json:"reward_sum"`
	Events     []world.Event `json:"events,omitempty"`
}
