package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	GridWidth  int `yaml:"grid_width"`
	GridHeight int `yaml:"grid_height"`

	NumAgents    int `yaml:"num_agents"`
	NumFood      int `yaml:"num_food"`
	NumObstacles int `yaml:"num_obstacles"`

	EpisodeTicks       int `yaml:"episode_ticks"`
	SnapshotEveryTicks int `yaml:"snapshot_every_ticks"`

	// Personality mix, in percent of the population. Remainder is Neutral.
	CooperativePct int `yaml:"cooperative_pct"`
	AggressivePct  int `yaml:"aggressive_pct"`

	Rewards Rewards `yaml:"rewards"`
	Health  Health  `yaml:"health"`

	// Members keep the passive alliance health bonus while the alliance's
	// last_maintained_tick is within this many ticks of the current tick.
	MaintenanceWindowTicks int `yaml:"maintenance_window_ticks"`

	// Minimum lifetime for an alliance to count as "stable" in summaries.
	StableAllianceTicks int `yaml:"stable_alliance_ticks"`

	// Euclidean radius for observation neighbor counts.
	ObsNeighborRadius int `yaml:"obs_neighbor_radius"`

	// Euclidean radius within which a signal reaches fellow alliance
	// members for the signal reward.
	SignalRadius int `yaml:"signal_radius"`
}

type Rewards struct {
	Step              float64 `yaml:"step"`
	ObstacleCollision float64 `yaml:"obstacle_collision"`
	Collect           float64 `yaml:"collect"`
	Share             float64 `yaml:"share"`
	StealThief        float64 `yaml:"steal_thief"`
	StealVictim       float64 `yaml:"steal_victim"`
	FormAlliance      float64 `yaml:"form_alliance"`
	// Paid to a signaling alliance member and to each nearby member.
	Signal float64 `yaml:"signal"`
}

type Health struct {
	Start         float64 `yaml:"start"`
	Max           float64 `yaml:"max"`
	Decay         float64 `yaml:"decay"`
	CollisionLoss float64 `yaml:"collision_loss"`
	CollectGain   float64 `yaml:"collect_gain"`
	AllianceBonus float64 `yaml:"alliance_bonus"`
}

// Load reads a tuning file on top of Defaults, so partial files only
// override the keys they name.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func Defaults() Tuning {
	return Tuning{
		GridWidth:  20,
		GridHeight: 20,

		NumAgents:    100,
		NumFood:      30,
		NumObstacles: 50,

		EpisodeTicks:       500,
		SnapshotEveryTicks: 10,

		CooperativePct: 40,
		AggressivePct:  30,

		Rewards: Rewards{
			Step:              -1,
			ObstacleCollision: -5,
			Collect:           15,
			Share:             5,
			StealThief:        10,
			StealVictim:       -10,
			FormAlliance:      3,
			Signal:            2,
		},
		Health: Health{
			Start:         100,
			Max:           100,
			Decay:         0.2,
			CollisionLoss: 2,
			CollectGain:   10,
			AllianceBonus: 0.1,
		},

		MaintenanceWindowTicks: 5,
		StableAllianceTicks:    50,
		ObsNeighborRadius:      3,
		SignalRadius:           2,
	}
}
