package protocol

// SUBSCRIBE (viewer -> server)
type SubscribeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	// Viewers that only care about end-of-episode summaries can skip the
	// per-tick snapshot stream.
	SnapshotStream bool `json:"snapshot_stream"`
}

// WELCOME (server -> viewer)
type WelcomeMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	SessionID       string      `json:"session_id"`
	RunID           string      `json:"run_id"`
	WorldParams     WorldParams `json:"world_params"`
}

type WorldParams struct {
	GridWidth    int   `json:"grid_width"`
	GridHeight   int   `json:"grid_height"`
	NumAgents    int   `json:"num_agents"`
	NumFood      int   `json:"num_food"`
	NumObstacles int   `json:"num_obstacles"`
	EpisodeTicks int   `json:"episode_ticks"`
	Seed         int64 `json:"seed"`
}

// EPISODE_START (server -> viewer), one per episode.
type EpisodeStartMsg struct {
	Type            string           `json:"type"`
	ProtocolVersion string           `json:"protocol_version"`
	RunID           string           `json:"run_id"`
	Episode         int              `json:"episode"`
	Personalities   PersonalityCount `json:"personalities"`
}

type PersonalityCount struct {
	Cooperative int `json:"cooperative"`
	Aggressive  int `json:"aggressive"`
	Neutral     int `json:"neutral"`
}

// SNAPSHOT (server -> viewer), emitted every snapshot interval.
// The schema is identical for every tick within an episode: obstacle cells
// are constant per episode but are repeated so viewers never need to join
// against earlier frames.
type SnapshotMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	RunID           string `json:"run_id"`
	Episode         int    `json:"episode"`
	Tick            int    `json:"tick"`
	MaxTicks        int    `json:"max_ticks"`

	Agents    []AgentState `json:"agents"`
	Food      [][2]int     `json:"food"`
	Obstacles [][2]int     `json:"obstacles"`

	Totals RunningTotals `json:"totals"`
}

type AgentState struct {
	ID          int     `json:"id"`
	Pos         [2]int  `json:"pos"`
	Health      float64 `json:"health"`
	Inventory   int     `json:"inventory"`
	Personality string  `json:"personality"`
	AllianceID  int     `json:"alliance_id"` // 0 = none
	Signal      string  `json:"signal"`
	Score       float64 `json:"score"`
	Alive       bool    `json:"alive"`
}

type RunningTotals struct {
	CooperationEvents int     `json:"cooperation_events"`
	TheftEvents       int     `json:"theft_events"`
	ActiveAlliances   int     `json:"active_alliances"`
	SurvivalRate      float64 `json:"survival_rate"`
	AvgHealth         float64 `json:"avg_health"`
}

// SUMMARY (server -> viewer), one per completed episode.
type SummaryMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	RunID           string `json:"run_id"`
	Episode         int    `json:"episode"`

	SurvivalRate       float64 `json:"survival_rate"`
	AvgHealth          float64 `json:"avg_health"`
	TotalFoodCollected int     `json:"total_food_collected"`
	CooperationEvents  int     `json:"cooperation_events"`
	TheftEvents        int     `json:"theft_events"`
	AlliancesFormed    int     `json:"alliances_formed"`
	StableAlliances    int     `json:"stable_alliances"`

	PersonalityScores PersonalityScores `json:"personality_scores"`
}

type PersonalityScores struct {
	Cooperative float64 `json:"cooperative"`
	Aggressive  float64 `json:"aggressive"`
	Neutral     float64 `json:"neutral"`
}
