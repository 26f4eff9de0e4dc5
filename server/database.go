package main

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// RoundRow is one finished round as served by /api/rounds
type RoundRow struct {
	ID          int64     `json:"id"`
	SessionID   string    `json:"sid"`
	Round       int       `json:"round"`
	Mode        string    `json:"mode"`
	Adversaries int       `json:"adversaries"`
	Fire        bool      `json:"fire"`
	Status      string    `json:"status"`
	Won         bool      `json:"won"`
	Kills       int       `json:"kills"`
	Duration    float64   `json:"duration"` // seconds
	CreatedAt   time.Time `json:"created_at"`
}

// ModeStats aggregates results per mode for /api/stats
type ModeStats struct {
	Mode        string  `json:"mode"`
	Rounds      int     `json:"rounds"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	Kills       int     `json:"kills"`
	AvgDuration float64 `json:"avg_duration"`
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// one writer; the recorder is the only one anyway
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS rounds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		round INTEGER NOT NULL,
		mode TEXT NOT NULL,
		adversaries INTEGER NOT NULL DEFAULT 0,
		fire INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		won INTEGER NOT NULL DEFAULT 0,
		kills INTEGER NOT NULL DEFAULT 0,
		duration REAL NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS round_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		round INTEGER NOT NULL,
		kind TEXT NOT NULL,
		adversary_id INTEGER,
		x REAL NOT NULL DEFAULT 0,
		y REAL NOT NULL DEFAULT 0,
		at_ms INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_rounds_created ON rounds(created_at);
	CREATE INDEX IF NOT EXISTS idx_round_events_session ON round_events(session_id, round);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// GetSetting returns a stored setting or "" when absent
func (db *DB) GetSetting(key string) string {
	var v string
	if err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&v); err != nil {
		return ""
	}
	return v
}

// SetSetting stores a setting
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

// WriteBatch inserts queued events and results in one transaction
func (db *DB) WriteBatch(batch []record) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	evStmt, err := tx.Prepare(`INSERT INTO round_events
		(session_id, round, kind, adversary_id, x, y, at_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer evStmt.Close()

	resStmt, err := tx.Prepare(`INSERT INTO rounds
		(session_id, round, mode, adversaries, fire, status, won, kills, duration, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer resStmt.Close()

	for _, rec := range batch {
		switch {
		case rec.event != nil:
			e := rec.event
			aid := sql.NullInt64{Int64: int64(e.AdversaryID), Valid: e.AdversaryID > 0}
			if _, err := evStmt.Exec(e.SessionID, e.Round, e.Kind, aid, e.X, e.Y,
				e.At.Milliseconds(), e.Timestamp.Format(time.RFC3339Nano)); err != nil {
				return err
			}
		case rec.result != nil:
			r := rec.result
			if _, err := resStmt.Exec(r.SessionID, r.Round, r.Mode, r.Adversaries, r.Fire, r.Status,
				r.Won, r.Kills, r.Duration.Seconds(), r.Timestamp.Format(time.RFC3339Nano)); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// RecentRounds returns the latest finished rounds, newest first
func (db *DB) RecentRounds(limit int) ([]RoundRow, error) {
	rows, err := db.conn.Query(`
		SELECT id, session_id, round, mode, adversaries, fire, status, won, kills, duration, created_at
		FROM rounds ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]RoundRow, 0, limit)
	for rows.Next() {
		var r RoundRow
		var created string
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Round, &r.Mode, &r.Adversaries, &r.Fire,
			&r.Status, &r.Won, &r.Kills, &r.Duration, &created); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		result = append(result, r)
	}
	return result, rows.Err()
}

// StatsByMode returns win/loss totals per mode
func (db *DB) StatsByMode() ([]ModeStats, error) {
	rows, err := db.conn.Query(`
		SELECT mode, COUNT(*), SUM(won), SUM(CASE WHEN status = 'lost' THEN 1 ELSE 0 END),
			SUM(kills), AVG(duration)
		FROM rounds GROUP BY mode ORDER BY mode`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ModeStats
	for rows.Next() {
		var m ModeStats
		if err := rows.Scan(&m.Mode, &m.Rounds, &m.Wins, &m.Losses, &m.Kills, &m.AvgDuration); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// RoundEvents returns the event log of one round in insertion order
func (db *DB) RoundEvents(sessionID string, round int) ([]RoundEvent, error) {
	rows, err := db.conn.Query(`
		SELECT kind, adversary_id, x, y, at_ms FROM round_events
		WHERE session_id = ? AND round = ? ORDER BY id`, sessionID, round)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []RoundEvent
	for rows.Next() {
		e := RoundEvent{SessionID: sessionID, Round: round}
		var aid sql.NullInt64
		var ms int64
		if err := rows.Scan(&e.Kind, &aid, &e.X, &e.Y, &ms); err != nil {
			return nil, err
		}
		e.AdversaryID = int(aid.Int64)
		e.At = time.Duration(ms) * time.Millisecond
		result = append(result, e)
	}
	return result, rows.Err()
}

// errNoDB is returned by API handlers when persistence is disabled
var errNoDB = errors.New("database disabled")
