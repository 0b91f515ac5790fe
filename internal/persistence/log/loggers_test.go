package log

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"

	"gridlife.ai/internal/sim/episode"
	"gridlife.ai/internal/sim/world"
)

func readBack(t *testing.T, dir string) []episode.TickLogEntry {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*.jsonl.zst"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("log files = %v (err %v), want exactly one", matches, err)
	}
	f, err := os.Open(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		t.Fatalf("zstd: %v", err)
	}
	defer dec.Close()

	var out []episode.TickLogEntry
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		var e episode.TickLogEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("line %q: %v", sc.Text(), err)
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestTickLogger_RoundTrip(t *testing.T) {
	runDir := t.TempDir()
	l := NewTickLogger(runDir)

	entries := []episode.TickLogEntry{
		{RunID: "r1", Episode: 1, Tick: 1, LiveAgents: 4, RewardSum: -4},
		{RunID: "r1", Episode: 1, Tick: 2, LiveAgents: 4, RewardSum: 11,
			Events: []world.Event{{Tick: 2, Kind: "share", Actor: 0, Target: 1}}},
	}
	for _, e := range entries {
		if err := l.WriteTick(e); err != nil {
			t.Fatalf("write tick %d: %v", e.Tick, err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	got := readBack(t, filepath.Join(runDir, "ticks"))
	if len(got) != len(entries) {
		t.Fatalf("entries = %d, want %d", len(got), len(entries))
	}
	if got[0].Tick != 1 || got[0].RewardSum != -4 {
		t.Fatalf("entry 0: %+v", got[0])
	}
	if len(got[1].Events) != 1 || got[1].Events[0].Kind != "share" {
		t.Fatalf("entry 1 events: %+v", got[1].Events)
	}
}

func TestJSONLZstdWriter_CreatesHourlyFile(t *testing.T) {
	dir := t.TempDir()
	w := NewJSONLZstdWriter(dir, "test")
	if err := w.Write(map[string]int{"n": 1}); err != nil {
		t.Fatalf("write: %v", err)
	}
	// The hourly file exists as soon as the first Write rotates it in.
	matches, _ := filepath.Glob(filepath.Join(dir, "test-*.jsonl.zst"))
	if len(matches) != 1 {
		t.Fatalf("files = %v", matches)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
