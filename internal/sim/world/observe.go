package world

// ObsDim is the fixed width of the per-agent observation vector.
const ObsDim = 40

// Observation layout:
//
//	0,1    own position, raw grid coordinates
//	2      health / max
//	3      inventory count
//	4,5    nearest-food relative offset in cells (zero when no food)
//	6..8   personality one-hot (cooperative, aggressive, neutral)
//	9      in-alliance flag
//	10..12 neighbors within Euclidean distance of the configured radius:
//	       total, cooperative, aggressive
//	13..15 aggregated neighbor signals: help, food, danger
//	16..24 3x3 obstacle occupancy around the agent, row-major
//	       (out-of-bounds cells read as free)
//	25..39 reserved, zero-filled

// Observe projects the current world state into the observation vector for
// one agent. It is deterministic for a given state and id, and mutates
// nothing.
func (w *World) Observe(id int) []float64 {
	obs := make([]float64, ObsDim)
	a := w.Agent(id)
	if a == nil {
		return obs
	}

	obs[0] = float64(a.Pos.X)
	obs[1] = float64(a.Pos.Y)
	obs[2] = a.Health / w.cfg.Health.Max
	obs[3] = float64(a.Inventory)

	if fc, ok := w.nearestFood(a.Pos); ok {
		obs[4] = float64(fc.X - a.Pos.X)
		obs[5] = float64(fc.Y - a.Pos.Y)
	}

	obs[6+int(a.Personality)] = 1

	if a.AllianceID != 0 {
		obs[9] = 1
	}

	rr := w.cfg.ObsNeighborRadius * w.cfg.ObsNeighborRadius
	for _, b := range w.agents {
		if b.ID == a.ID || !b.Alive {
			continue
		}
		if euclidSq(a.Pos, b.Pos) > rr {
			continue
		}
		obs[10]++
		switch b.Personality {
		case Cooperative:
			obs[11]++
		case Aggressive:
			obs[12]++
		}
		switch b.Signal {
		case SignalHelp:
			obs[13] = 1
		case SignalFood:
			obs[14] = 1
		case SignalDanger:
			obs[15] = 1
		}
	}

	i := 16
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			// Out-of-bounds cells are not obstacles, so they read 0.
			if w.grid.Obstacle(Cell{X: a.Pos.X + dx, Y: a.Pos.Y + dy}) {
				obs[i] = 1
			}
			i++
		}
	}

	return obs
}

// nearestFood scans food cells in row-major order; among equally near
// cells the first in that order wins, keeping the result independent of
// map iteration.
func (w *World) nearestFood(from Cell) (Cell, bool) {
	var best Cell
	bestDist := -1
	for _, c := range w.grid.FoodCellList() {
		d := euclidSq(from, c)
		if bestDist < 0 || d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best, bestDist >= 0
}

// ObserveLive builds observations for every live agent.
func (w *World) ObserveLive() map[int][]float64 {
	obs := make(map[int][]float64)
	for _, a := range w.agents {
		if a.Alive {
			obs[a.ID] = w.Observe(a.ID)
		}
	}
	return obs
}
