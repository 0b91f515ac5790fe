package world

import (
	"encoding/json"
	"math/rand"

	"gridlife.ai/internal/protocol"
	"gridlife.ai/internal/sim/tuning"
)

// Test helpers: hand-built worlds with fixed placement, so scenarios do
// not depend on the randomized construction in New.

func testConfig() tuning.Tuning {
	cfg := tuning.Defaults()
	cfg.GridWidth = 6
	cfg.GridHeight = 6
	cfg.NumAgents = 0
	cfg.NumFood = 0
	cfg.NumObstacles = 0
	return cfg
}

func newTestWorld(cfg tuning.Tuning) *World {
	return &World{
		cfg:       cfg,
		seed:      1,
		rng:       rand.New(rand.NewSource(1)),
		grid:      NewGrid(cfg.GridWidth, cfg.GridHeight),
		alliances: map[int]*Alliance{},
	}
}

// addAgent appends an agent; ids must be assigned densely in call order.
func addAgent(w *World, pos Cell, p Personality) *Agent {
	a := &Agent{
		ID:          len(w.agents),
		Pos:         pos,
		Health:      w.cfg.Health.Start,
		Personality: p,
		Alive:       true,
	}
	w.agents = append(w.agents, a)
	return a
}

func step(w *World, actions map[int]Action) StepResult {
	return w.Step(actions)
}

func snapDigest(snap protocol.SnapshotMsg) string {
	b, err := json.Marshal(snap)
	if err != nil {
		panic(err)
	}
	return string(b)
}

func countEvents(events []Event, kind string) int {
	n := 0
	for _, e := range events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
