package world

import "gridlife.ai/internal/protocol"

// ExportSnapshot builds the wire snapshot of the current state. The
// obstacle list is constant within an episode but is repeated in every
// frame so the schema stays stable for viewers.
func (w *World) ExportSnapshot(runID string, episode int) protocol.SnapshotMsg {
	msg := protocol.SnapshotMsg{
		Type:            protocol.TypeSnapshot,
		ProtocolVersion: protocol.Version,
		RunID:           runID,
		Episode:         episode,
		Tick:            w.tick,
		MaxTicks:        w.cfg.EpisodeTicks,
		Agents:          make([]protocol.AgentState, 0, len(w.agents)),
		// Empty lists must marshal as [], not null.
		Food:      [][2]int{},
		Obstacles: [][2]int{},
		Totals: protocol.RunningTotals{
			CooperationEvents: w.totals.CooperationEvents,
			TheftEvents:       w.totals.TheftEvents,
			ActiveAlliances:   w.ActiveAlliances(),
			SurvivalRate:      w.SurvivalRate(),
			AvgHealth:         w.AvgHealth(),
		},
	}

	for _, a := range w.agents {
		msg.Agents = append(msg.Agents, protocol.AgentState{
			ID:          a.ID,
			Pos:         [2]int{a.Pos.X, a.Pos.Y},
			Health:      a.Health,
			Inventory:   a.Inventory,
			Personality: a.Personality.String(),
			AllianceID:  a.AllianceID,
			Signal:      a.Signal.String(),
			Score:       a.Score,
			Alive:       a.Alive,
		})
	}
	for _, c := range w.grid.FoodCellList() {
		msg.Food = append(msg.Food, [2]int{c.X, c.Y})
	}
	for _, c := range w.grid.ObstacleCells() {
		msg.Obstacles = append(msg.Obstacles, [2]int{c.X, c.Y})
	}
	return msg
}

// ExportSummary builds the wire form of the episode summary.
func (w *World) ExportSummary(runID string, episode int) protocol.SummaryMsg {
	s := w.Summarize()
	return protocol.SummaryMsg{
		Type:               protocol.TypeSummary,
		ProtocolVersion:    protocol.Version,
		RunID:              runID,
		Episode:            episode,
		SurvivalRate:       s.SurvivalRate,
		AvgHealth:          s.AvgHealth,
		TotalFoodCollected: s.FoodCollected,
		CooperationEvents:  s.CooperationEvents,
		TheftEvents:        s.TheftEvents,
		AlliancesFormed:    s.AlliancesFormed,
		StableAlliances:    s.StableAlliances,
		PersonalityScores: protocol.PersonalityScores{
			Cooperative: s.ScoreCooperative,
			Aggressive:  s.ScoreAggressive,
			Neutral:     s.ScoreNeutral,
		},
	}
}
