package world

import (
	"fmt"
	"math/rand"

	"gridlife.ai/internal/sim/tuning"
)

// World is the authoritative per-episode state: grid, agent registry and
// alliance ledger. It is single-threaded; the episode controller owns it
// exclusively and drives it one Step at a time. Nothing in here survives
// across episodes.
type World struct {
	cfg  tuning.Tuning
	seed int64
	rng  *rand.Rand

	tick int
	grid *Grid

	agents []*Agent

	alliances      map[int]*Alliance
	nextAllianceID int

	totals Totals
}

// Totals are the running episode counters surfaced in snapshots.
// CooperationEvents counts shares and alliance formations together.
type Totals struct {
	CooperationEvents int
	TheftEvents       int
	FoodCollected     int
	AlliancesFormed   int
}

// New builds a fresh world with randomized non-overlapping placement of
// obstacles, food and agents. The same cfg and seed always produce the
// same world.
func New(cfg tuning.Tuning, seed int64) (*World, error) {
	cells := cfg.GridWidth * cfg.GridHeight
	if cfg.NumObstacles+cfg.NumFood+cfg.NumAgents > cells {
		return nil, fmt.Errorf("world: %d obstacles + %d food + %d agents exceed %d cells",
			cfg.NumObstacles, cfg.NumFood, cfg.NumAgents, cells)
	}

	w := &World{
		cfg:       cfg,
		seed:      seed,
		rng:       rand.New(rand.NewSource(seed)),
		grid:      NewGrid(cfg.GridWidth, cfg.GridHeight),
		alliances: map[int]*Alliance{},
	}

	for i := 0; i < cfg.NumObstacles; i++ {
		free := w.grid.freeCells(Cell{-1, -1})
		if len(free) == 0 {
			break
		}
		w.grid.placeObstacle(free[w.rng.Intn(len(free))])
	}
	for i := 0; i < cfg.NumFood; i++ {
		w.grid.SpawnFood(w.rng)
	}

	occupied := map[Cell]bool{}
	w.agents = make([]*Agent, 0, cfg.NumAgents)
	for id := 0; id < cfg.NumAgents; id++ {
		c, ok := w.spawnCell(occupied)
		if !ok {
			return nil, fmt.Errorf("world: no free cell for agent %d", id)
		}
		occupied[c] = true
		w.agents = append(w.agents, &Agent{
			ID:          id,
			Pos:         c,
			Health:      cfg.Health.Start,
			Personality: w.rollPersonality(),
			Alive:       true,
		})
	}
	return w, nil
}

func (w *World) spawnCell(occupied map[Cell]bool) (Cell, bool) {
	candidates := make([]Cell, 0, w.grid.W*w.grid.H)
	for y := 0; y < w.grid.H; y++ {
		for x := 0; x < w.grid.W; x++ {
			c := Cell{X: x, Y: y}
			if occupied[c] || w.grid.Obstacle(c) || w.grid.FoodAt(c) > 0 {
				continue
			}
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return Cell{}, false
	}
	return candidates[w.rng.Intn(len(candidates))], true
}

func (w *World) rollPersonality() Personality {
	r := w.rng.Intn(100)
	switch {
	case r < w.cfg.CooperativePct:
		return Cooperative
	case r < w.cfg.CooperativePct+w.cfg.AggressivePct:
		return Aggressive
	}
	return Neutral
}

func (w *World) Tick() int             { return w.tick }
func (w *World) Seed() int64           { return w.seed }
func (w *World) Config() tuning.Tuning { return w.cfg }
func (w *World) Grid() *Grid           { return w.grid }
func (w *World) Totals() Totals        { return w.totals }
func (w *World) NumAgents() int        { return len(w.agents) }

// PersonalityCensus counts agents per personality.
func (w *World) PersonalityCensus() (coop, agg, neutral int) {
	for _, a := range w.agents {
		switch a.Personality {
		case Cooperative:
			coop++
		case Aggressive:
			agg++
		default:
			neutral++
		}
	}
	return
}
