package episode

import (
	"context"
	"io"
	"log"
	"testing"

	"gridlife.ai/internal/protocol"
	"gridlife.ai/internal/sim/tuning"
	"gridlife.ai/internal/sim/world"
)

func testTuning() tuning.Tuning {
	cfg := tuning.Defaults()
	cfg.GridWidth = 10
	cfg.GridHeight = 10
	cfg.NumAgents = 8
	cfg.NumFood = 4
	cfg.NumObstacles = 6
	cfg.EpisodeTicks = 40
	cfg.SnapshotEveryTicks = 10
	return cfg
}

func testLogger() *log.Logger { return log.New(io.Discard, "", 0) }

type idleProvider struct{}

func (idleProvider) SelectActions(obs map[int][]float64, live []int) map[int]world.Action {
	out := make(map[int]world.Action, len(live))
	for _, id := range live {
		out[id] = world.Idle
	}
	return out
}

type recordingEmitter struct {
	starts    []protocol.EpisodeStartMsg
	snapshots []protocol.SnapshotMsg
	summaries []protocol.SummaryMsg
}

func (r *recordingEmitter) EmitEpisodeStart(m protocol.EpisodeStartMsg) {
	r.starts = append(r.starts, m)
}

func (r *recordingEmitter) EmitSnapshot(m protocol.SnapshotMsg) {
	r.snapshots = append(r.snapshots, m)
}

func (r *recordingEmitter) EmitSummary(m protocol.SummaryMsg) {
	r.summaries = append(r.summaries, m)
}

type recordingHistory struct{ rows []protocol.SummaryMsg }

func (h *recordingHistory) RecordSummary(m protocol.SummaryMsg) error {
	h.rows = append(h.rows, m)
	return nil
}

func TestRunner_SnapshotCadenceAndSummary(t *testing.T) {
	em := &recordingEmitter{}
	hist := &recordingHistory{}
	r := NewRunner(Config{Tuning: testTuning(), Seed: 5, Episodes: 2, RunID: "test"}, idleProvider{}, testLogger())
	r.SetEmitter(em)
	r.SetHistory(hist)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(em.starts) != 2 {
		t.Fatalf("episode starts = %d, want 2", len(em.starts))
	}
	census := em.starts[0].Personalities
	if census.Cooperative+census.Aggressive+census.Neutral != 8 {
		t.Fatalf("census %+v does not sum to population", census)
	}

	// 40 ticks, every 10: snapshots at ticks 10,20,30,40 per episode.
	if len(em.snapshots) != 8 {
		t.Fatalf("snapshots = %d, want 8", len(em.snapshots))
	}
	for _, s := range em.snapshots {
		if s.Tick%10 != 0 {
			t.Fatalf("snapshot at off-cadence tick %d", s.Tick)
		}
		if len(s.Agents) != 8 {
			t.Fatalf("snapshot has %d agents, want 8", len(s.Agents))
		}
		if len(s.Obstacles) != 6 {
			t.Fatalf("snapshot has %d obstacles, want 6", len(s.Obstacles))
		}
	}

	if len(em.summaries) != 2 || len(hist.rows) != 2 {
		t.Fatalf("summaries = %d emitted / %d recorded, want 2/2", len(em.summaries), len(hist.rows))
	}
	sum := em.summaries[0]
	if sum.Episode != 1 || sum.RunID != "test" {
		t.Fatalf("summary header %+v", sum)
	}
	if sum.SurvivalRate < 0 || sum.SurvivalRate > 1 {
		t.Fatalf("survival rate %v out of range", sum.SurvivalRate)
	}
}

func TestRunner_EpisodesAreIndependentAndReproducible(t *testing.T) {
	run := func() []protocol.SummaryMsg {
		em := &recordingEmitter{}
		r := NewRunner(Config{Tuning: testTuning(), Seed: 5, Episodes: 2, RunID: "x"}, idleProvider{}, testLogger())
		r.SetEmitter(em)
		if err := r.Run(context.Background()); err != nil {
			t.Fatalf("run: %v", err)
		}
		return em.summaries
	}

	a := run()
	b := run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("episode %d summaries differ: %+v vs %+v", i+1, a[i], b[i])
		}
	}
}

func TestRunner_CancellationStopsBetweenTicks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	em := &recordingEmitter{}
	r := NewRunner(Config{Tuning: testTuning(), Seed: 1, Episodes: 1, RunID: "c"}, idleProvider{}, testLogger())
	r.SetEmitter(em)

	if err := r.Run(ctx); err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(em.summaries) != 0 {
		t.Fatal("cancelled episode must not emit a summary")
	}
}

type rogueProvider struct{}

// rogueProvider returns garbage: unknown ids, and out-of-range indices
// through the wire adapter.
func (rogueProvider) SelectActionIndices(obs map[int][]float64, live []int) map[int]int {
	out := map[int]int{}
	for _, id := range live {
		out[id] = 99 // out of range: must decode to Idle
	}
	out[-5] = 2
	out[10_000] = 3
	return out
}

func TestRunner_MalformedProviderOutputIdles(t *testing.T) {
	cfg := testTuning()
	cfg.EpisodeTicks = 5
	r := NewRunner(Config{Tuning: cfg, Seed: 9, Episodes: 1, RunID: "m"},
		FromIndices(rogueProvider{}, testLogger()), testLogger())
	em := &recordingEmitter{}
	r.SetEmitter(em)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	// Everyone idled: no movement cost, only passive decay.
	sum := em.summaries[0]
	if sum.CooperationEvents != 0 || sum.TheftEvents != 0 {
		t.Fatalf("idle episode produced events: %+v", sum)
	}
	if sum.PersonalityScores.Cooperative != 0 || sum.PersonalityScores.Aggressive != 0 || sum.PersonalityScores.Neutral != 0 {
		t.Fatalf("idle episode produced rewards: %+v", sum.PersonalityScores)
	}
}

func TestDecodeIndex_WireMapping(t *testing.T) {
	cases := []struct {
		idx  int
		kind world.ActionKind
		ok   bool
	}{
		{0, world.ActionStay, true},
		{4, world.ActionRight, true},
		{5, world.ActionShare, true},
		{6, world.ActionSteal, true},
		{7, world.ActionAlliance, true},
		{8, world.ActionSignal, true},
		{9, world.ActionIdle, false},
		{-1, world.ActionIdle, false},
	}
	for _, c := range cases {
		ac, ok := world.DecodeIndex(c.idx)
		if ok != c.ok || ac.Kind != c.kind {
			t.Fatalf("DecodeIndex(%d) = %v/%v, want %v/%v", c.idx, ac.Kind, ok, c.kind, c.ok)
		}
	}
}
