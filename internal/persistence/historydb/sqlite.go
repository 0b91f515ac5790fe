// Package historydb keeps episode summaries in a small sqlite database,
// pruned to the most recent entries. It is a secondary record for offline
// inspection; losing a write never affects the simulation.
package historydb

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"gridlife.ai/internal/protocol"
)

// KeepEpisodes bounds the history size; older rows are pruned on insert.
const KeepEpisodes = 100

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS episodes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			episode INTEGER NOT NULL,
			recorded_at TEXT NOT NULL,
			survival_rate REAL NOT NULL,
			avg_health REAL NOT NULL,
			food_collected INTEGER NOT NULL,
			cooperation_events INTEGER NOT NULL,
			theft_events INTEGER NOT NULL,
			alliances_formed INTEGER NOT NULL,
			stable_alliances INTEGER NOT NULL,
			score_cooperative REAL NOT NULL,
			score_aggressive REAL NOT NULL,
			score_neutral REAL NOT NULL,
			raw_json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_episodes_run ON episodes(run_id, episode);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }

// RecordSummary appends one episode summary and prunes the table to the
// KeepEpisodes most recent rows.
func (s *Store) RecordSummary(m protocol.SummaryMsg) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`INSERT INTO episodes (
		run_id, episode, recorded_at,
		survival_rate, avg_health, food_collected,
		cooperation_events, theft_events, alliances_formed, stable_alliances,
		score_cooperative, score_aggressive, score_neutral, raw_json
	) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		m.RunID, m.Episode, time.Now().UTC().Format(time.RFC3339),
		m.SurvivalRate, m.AvgHealth, m.TotalFoodCollected,
		m.CooperationEvents, m.TheftEvents, m.AlliancesFormed, m.StableAlliances,
		m.PersonalityScores.Cooperative, m.PersonalityScores.Aggressive, m.PersonalityScores.Neutral,
		string(raw))
	if err != nil {
		return err
	}

	_, err = tx.Exec(`DELETE FROM episodes WHERE id NOT IN (
		SELECT id FROM episodes ORDER BY id DESC LIMIT ?
	)`, KeepEpisodes)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// Row is one stored episode summary.
type Row struct {
	RunID      string
	Episode    int
	RecordedAt string
	Summary    protocol.SummaryMsg
}

// ListSummaries returns up to limit rows, newest first.
func (s *Store) ListSummaries(limit int) ([]Row, error) {
	if limit <= 0 || limit > KeepEpisodes {
		limit = KeepEpisodes
	}
	rows, err := s.db.Query(`SELECT run_id, episode, recorded_at, raw_json
		FROM episodes ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		var raw string
		if err := rows.Scan(&r.RunID, &r.Episode, &r.RecordedAt, &raw); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(raw), &r.Summary); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
