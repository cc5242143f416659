// Package sqlite persists profile analyses and outreach actions in a local
// SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"bombardier/internal/model"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// DB wraps the SQLite handle.
type DB struct{ sql *sql.DB }

// Open opens (creating if needed) the database at path and applies the schema.
// ":memory:" yields a private in-memory database.
func Open(path string) (*DB, error) {
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		// every pooled connection would otherwise see its own empty database
		d.SetMaxOpenConns(1)
	}
	if _, err := d.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL; PRAGMA busy_timeout=5000;`); err != nil {
		_ = d.Close()
		return nil, err
	}
	db := &DB{sql: d}
	if err := db.migrate(); err != nil {
		_ = d.Close()
		return nil, err
	}
	return db, nil
}

func (d *DB) Close() error { return d.sql.Close() }

func (d *DB) migrate() error {
	_, err := d.sql.Exec(`
	CREATE TABLE IF NOT EXISTS analyses (
	  id TEXT PRIMARY KEY,
	  created_at INTEGER NOT NULL,
	  platform TEXT NOT NULL,
	  username TEXT NOT NULL,
	  overall REAL NOT NULL,
	  tier TEXT NOT NULL,
	  recommendation TEXT NOT NULL,
	  bot_score REAL NOT NULL,
	  payload TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_analyses_overall ON analyses(overall);
	CREATE INDEX IF NOT EXISTS idx_analyses_user ON analyses(platform, username);
	CREATE TABLE IF NOT EXISTS actions (
	  id INTEGER PRIMARY KEY AUTOINCREMENT,
	  ts INTEGER NOT NULL,
	  type TEXT NOT NULL,
	  target TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_actions_ts ON actions(ts);
	CREATE INDEX IF NOT EXISTS idx_actions_target ON actions(target);
	`)
	return err
}

// AnalysisRecord is a stored ProfileAnalysis with its identifying columns.
type AnalysisRecord struct {
	ID        string                `json:"id"`
	CreatedAt time.Time             `json:"created_at"`
	Platform  string                `json:"platform"`
	Username  string                `json:"username"`
	Analysis  model.ProfileAnalysis `json:"analysis"`
}

// SaveAnalysis stores an analysis and returns its generated id.
func (d *DB) SaveAnalysis(ctx context.Context, at time.Time, platform, username string, a model.ProfileAnalysis) (string, error) {
	payload, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("save analysis: %w", err)
	}
	id := uuid.NewString()
	_, err = d.sql.ExecContext(ctx,
		`INSERT INTO analyses(id, created_at, platform, username, overall, tier, recommendation, bot_score, payload) VALUES(?,?,?,?,?,?,?,?,?)`,
		id, at.Unix(), platform, username, a.QualityScore.Overall, a.QualityScore.Tier,
		a.QualityScore.Recommendation, a.BotDetection.Score, string(payload))
	if err != nil {
		return "", fmt.Errorf("save analysis: %w", err)
	}
	return id, nil
}

// LoadAnalysis returns the analysis stored under id, or ErrNotFound.
func (d *DB) LoadAnalysis(ctx context.Context, id string) (AnalysisRecord, error) {
	row := d.sql.QueryRowContext(ctx,
		`SELECT id, created_at, platform, username, payload FROM analyses WHERE id=?`, id)
	rec, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, ErrNotFound
	}
	return rec, err
}

// LatestAnalysis returns the most recent analysis of one profile, or ErrNotFound.
func (d *DB) LatestAnalysis(ctx context.Context, platform, username string) (AnalysisRecord, error) {
	row := d.sql.QueryRowContext(ctx,
		`SELECT id, created_at, platform, username, payload FROM analyses WHERE platform=? AND username=? ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		platform, username)
	rec, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, ErrNotFound
	}
	return rec, err
}

// TopAnalyses returns up to limit analyses with overall >= minScore, best first.
func (d *DB) TopAnalyses(ctx context.Context, minScore float64, limit int) ([]AnalysisRecord, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT id, created_at, platform, username, payload FROM analyses WHERE overall>=? ORDER BY overall DESC, created_at DESC LIMIT ?`,
		minScore, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []AnalysisRecord{}
	for rows.Next() {
		rec, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type scanner interface{ Scan(dest ...any) error }

func scanAnalysis(s scanner) (AnalysisRecord, error) {
	var rec AnalysisRecord
	var ts int64
	var payload string
	if err := s.Scan(&rec.ID, &ts, &rec.Platform, &rec.Username, &payload); err != nil {
		return rec, err
	}
	rec.CreatedAt = time.Unix(ts, 0).UTC()
	if err := json.Unmarshal([]byte(payload), &rec.Analysis); err != nil {
		return rec, fmt.Errorf("decode analysis %s: %w", rec.ID, err)
	}
	return rec, nil
}

// PutAction records one outreach action of type typ against target.
func (d *DB) PutAction(ctx context.Context, ts time.Time, typ, target string) error {
	_, err := d.sql.ExecContext(ctx, `INSERT INTO actions(ts, type, target) VALUES(?,?,?)`, ts.Unix(), typ, target)
	return err
}

// CountActionsWithin counts actions in [start, end). An empty typ counts every type.
func (d *DB) CountActionsWithin(ctx context.Context, start, end time.Time, typ string) (int, error) {
	var row *sql.Row
	if typ == "" {
		row = d.sql.QueryRowContext(ctx, `SELECT COUNT(*) FROM actions WHERE ts>=? AND ts<?`, start.Unix(), end.Unix())
	} else {
		row = d.sql.QueryRowContext(ctx, `SELECT COUNT(*) FROM actions WHERE ts>=? AND ts<? AND type=?`, start.Unix(), end.Unix(), typ)
	}
	var n int
	err := row.Scan(&n)
	return n, err
}

// ContactedSince reports whether any action against target was recorded at or after since.
func (d *DB) ContactedSince(ctx context.Context, target string, since time.Time) (bool, error) {
	var n int
	err := d.sql.QueryRowContext(ctx, `SELECT COUNT(*) FROM actions WHERE target=? AND ts>=?`, target, since.Unix()).Scan(&n)
	return n > 0, err
}
