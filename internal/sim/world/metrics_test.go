package world

import "testing"

func TestSummarize_SurvivalAndHealth(t *testing.T) {
	w := newTestWorld(testConfig())
	a := addAgent(w, Cell{0, 0}, Neutral)
	b := addAgent(w, Cell{1, 1}, Neutral)
	addAgent(w, Cell{2, 2}, Neutral)

	a.Health = 40
	b.Health = 0
	b.Alive = false

	s := w.Summarize()
	if !almostEqual(s.SurvivalRate, 2.0/3.0) {
		t.Fatalf("survival = %v", s.SurvivalRate)
	}
	// Incapacitated agents stay in the average at health 0.
	if !almostEqual(s.AvgHealth, (40+0+100)/3.0) {
		t.Fatalf("avg health = %v", s.AvgHealth)
	}
}

func TestSummarize_PerPersonalityScores(t *testing.T) {
	w := newTestWorld(testConfig())
	addAgent(w, Cell{0, 0}, Cooperative).Score = 10
	addAgent(w, Cell{1, 1}, Cooperative).Score = 30
	addAgent(w, Cell{2, 2}, Aggressive).Score = -8

	s := w.Summarize()
	if !almostEqual(s.ScoreCooperative, 20) {
		t.Fatalf("cooperative avg = %v", s.ScoreCooperative)
	}
	if !almostEqual(s.ScoreAggressive, -8) {
		t.Fatalf("aggressive avg = %v", s.ScoreAggressive)
	}
	// No neutral agents: average is zero, not NaN.
	if s.ScoreNeutral != 0 {
		t.Fatalf("neutral avg = %v", s.ScoreNeutral)
	}
}

func TestSummarize_StableAlliances(t *testing.T) {
	cfg := testConfig()
	cfg.StableAllianceTicks = 10
	w := newTestWorld(cfg)
	a := addAgent(w, Cell{0, 0}, Cooperative)
	b := addAgent(w, Cell{0, 1}, Cooperative)
	c := addAgent(w, Cell{4, 4}, Cooperative)
	d := addAgent(w, Cell{4, 5}, Cooperative)

	w.formAlliance(a, b, 0)
	w.formAlliance(c, d, 0)
	w.tick = 12

	// One alliance dissolves early, before the stability threshold.
	al := w.allianceOf(c)
	al.DissolvedTick = 5
	c.AllianceID, d.AllianceID = 0, 0

	s := w.Summarize()
	if s.StableAlliances != 1 {
		t.Fatalf("stable alliances = %d, want 1", s.StableAlliances)
	}
}

func TestExportSummary_WireForm(t *testing.T) {
	w := newTestWorld(testConfig())
	addAgent(w, Cell{0, 0}, Cooperative).Score = 7
	w.totals.FoodCollected = 4
	w.totals.CooperationEvents = 2
	w.totals.TheftEvents = 1
	w.totals.AlliancesFormed = 1

	msg := w.ExportSummary("run1", 3)
	if msg.RunID != "run1" || msg.Episode != 3 || msg.Type != "SUMMARY" {
		t.Fatalf("header %+v", msg)
	}
	if msg.TotalFoodCollected != 4 || msg.CooperationEvents != 2 || msg.TheftEvents != 1 {
		t.Fatalf("totals %+v", msg)
	}
	if !almostEqual(msg.PersonalityScores.Cooperative, 7) {
		t.Fatalf("scores %+v", msg.PersonalityScores)
	}
}

func TestExportSnapshot_ListsEveryCell(t *testing.T) {
	w := newTestWorld(testConfig())
	addAgent(w, Cell{2, 3}, Aggressive)
	w.grid.placeObstacle(Cell{1, 1})
	w.grid.food[Cell{4, 4}] = 1

	msg := w.ExportSnapshot("run1", 1)
	if len(msg.Agents) != 1 || msg.Agents[0].Pos != [2]int{2, 3} {
		t.Fatalf("agents %+v", msg.Agents)
	}
	if msg.Agents[0].Personality != "aggressive" || msg.Agents[0].Signal != "none" {
		t.Fatalf("agent strings %+v", msg.Agents[0])
	}
	if len(msg.Food) != 1 || msg.Food[0] != [2]int{4, 4} {
		t.Fatalf("food %+v", msg.Food)
	}
	if len(msg.Obstacles) != 1 || msg.Obstacles[0] != [2]int{1, 1} {
		t.Fatalf("obstacles %+v", msg.Obstacles)
	}
}
