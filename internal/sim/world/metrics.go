package world

// Summary aggregates an episode's outcome. Computed once at episode end;
// StableAlliances counts alliances whose lifetime (to dissolution or to
// the episode horizon) reached the configured threshold.
type Summary struct {
	SurvivalRate      float64
	AvgHealth         float64
	FoodCollected     int
	CooperationEvents int
	TheftEvents       int
	AlliancesFormed   int
	StableAlliances   int

	// Average cumulative score per personality. Zero when no agent of
	// that personality exists.
	ScoreCooperative float64
	ScoreAggressive  float64
	ScoreNeutral     float64
}

func (w *World) Summarize() Summary {
	s := Summary{
		FoodCollected:     w.totals.FoodCollected,
		CooperationEvents: w.totals.CooperationEvents,
		TheftEvents:       w.totals.TheftEvents,
		AlliancesFormed:   w.totals.AlliancesFormed,
	}

	if len(w.agents) == 0 {
		return s
	}

	alive := 0
	var healthSum float64
	var scoreSum [3]float64
	var count [3]int
	for _, a := range w.agents {
		if a.Alive {
			alive++
		}
		healthSum += a.Health
		scoreSum[a.Personality] += a.Score
		count[a.Personality]++
	}
	s.SurvivalRate = float64(alive) / float64(len(w.agents))
	s.AvgHealth = healthSum / float64(len(w.agents))

	avg := func(p Personality) float64 {
		if count[p] == 0 {
			return 0
		}
		return scoreSum[p] / float64(count[p])
	}
	s.ScoreCooperative = avg(Cooperative)
	s.ScoreAggressive = avg(Aggressive)
	s.ScoreNeutral = avg(Neutral)

	for _, al := range w.alliances {
		if al.Lifetime(w.tick) >= w.cfg.StableAllianceTicks {
			s.StableAlliances++
		}
	}
	return s
}

// SurvivalRate is the live fraction of the population right now.
func (w *World) SurvivalRate() float64 {
	if len(w.agents) == 0 {
		return 0
	}
	alive := 0
	for _, a := range w.agents {
		if a.Alive {
			alive++
		}
	}
	return float64(alive) / float64(len(w.agents))
}

// AvgHealth averages over the whole registry, incapacitated agents
// included (they contribute 0).
func (w *World) AvgHealth() float64 {
	if len(w.agents) == 0 {
		return 0
	}
	var sum float64
	for _, a := range w.agents {
		sum += a.Health
	}
	return sum / float64(len(w.agents))
}
