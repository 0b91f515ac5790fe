package historydb

import (
	"path/filepath"
	"testing"

	"gridlife.ai/internal/protocol"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func summary(ep int) protocol.SummaryMsg {
	return protocol.SummaryMsg{
		Type:               protocol.TypeSummary,
		ProtocolVersion:    protocol.Version,
		RunID:              "run1",
		Episode:            ep,
		SurvivalRate:       0.75,
		AvgHealth:          62.5,
		TotalFoodCollected: 40,
		CooperationEvents:  5,
		TheftEvents:        2,
		AlliancesFormed:    3,
		StableAlliances:    1,
		PersonalityScores:  protocol.PersonalityScores{Cooperative: 10, Aggressive: -4, Neutral: 2.5},
	}
}

func TestStore_RoundTrip(t *testing.T) {
	s := openTestStore(t)

	want := summary(1)
	if err := s.RecordSummary(want); err != nil {
		t.Fatalf("record: %v", err)
	}

	rows, err := s.ListSummaries(10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].RunID != "run1" || rows[0].Episode != 1 {
		t.Fatalf("row header %+v", rows[0])
	}
	if rows[0].Summary != want {
		t.Fatalf("summary round trip: got %+v want %+v", rows[0].Summary, want)
	}
	if rows[0].RecordedAt == "" {
		t.Fatal("recorded_at not set")
	}
}

func TestStore_PrunesToKeepEpisodes(t *testing.T) {
	s := openTestStore(t)

	for ep := 1; ep <= KeepEpisodes+7; ep++ {
		if err := s.RecordSummary(summary(ep)); err != nil {
			t.Fatalf("record %d: %v", ep, err)
		}
	}

	rows, err := s.ListSummaries(0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != KeepEpisodes {
		t.Fatalf("rows = %d, want %d", len(rows), KeepEpisodes)
	}
	// Newest first: the oldest 7 episodes were pruned.
	if rows[0].Episode != KeepEpisodes+7 {
		t.Fatalf("newest episode = %d, want %d", rows[0].Episode, KeepEpisodes+7)
	}
	if rows[len(rows)-1].Episode != 8 {
		t.Fatalf("oldest surviving episode = %d, want 8", rows[len(rows)-1].Episode)
	}
}
