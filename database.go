package main

import (
	"database/sql"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
	log  *zap.Logger
}

// PlayerRow represents an account record
type PlayerRow struct {
	ID        int64
	Username  string
	PassHash  string
	CreatedAt time.Time
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string, log *zap.Logger) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{conn: conn, log: log}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
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
	CREATE TABLE IF NOT EXISTS players (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		pass_hash TEXT NOT NULL DEFAULT '',
		is_guest INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		outcome TEXT NOT NULL,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS games (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		room TEXT NOT NULL,
		result TEXT NOT NULL,
		occupants INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		room TEXT NOT NULL,
		kind TEXT NOT NULL,
		player_id TEXT NOT NULL DEFAULT '',
		value INTEGER NOT NULL DEFAULT 0,
		at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_results_name ON results(name);
	CREATE INDEX IF NOT EXISTS idx_events_room ON events(room);
	CREATE INDEX IF NOT EXISTS idx_players_username ON players(username);
	`
	_, err := db.conn.Exec(schema)
	if err != nil {
		db.log.Error("migration failed", zap.Error(err))
	}
	return err
}

// GetSetting returns a settings value, or "" when absent
func (db *DB) GetSetting(key string) string {
	var value string
	err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		return ""
	}
	return value
}

// SetSetting stores a settings value
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

// CreatePlayer creates a new account (returns player ID)
func (db *DB) CreatePlayer(username, passHash string) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO players (username, pass_hash) VALUES (?, ?)",
		username, passHash,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetPlayerByUsername returns an account by username, nil when missing
func (db *DB) GetPlayerByUsername(username string) (*PlayerRow, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, pass_hash, created_at FROM players WHERE username = ?",
		username,
	)
	p := &PlayerRow{}
	err := row.Scan(&p.ID, &p.Username, &p.PassHash, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// UsernameExists checks if a username is taken
func (db *DB) UsernameExists(username string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM players WHERE username = ?", username).Scan(&count)
	return count > 0, err
}

// RecordOutcome persists one player's fate in a finished chase. Called
// off the room's lock; failures are logged and swallowed.
func (db *DB) RecordOutcome(name, outcome string, durationMs int64) {
	_, err := db.conn.Exec(
		"INSERT INTO results (name, outcome, duration_ms) VALUES (?, ?, ?)",
		name, outcome, durationMs,
	)
	if err != nil {
		db.log.Error("result insert failed", zap.Error(err))
	}
}

// RecordGame persists a finished game's summary row.
func (db *DB) RecordGame(roomID, result string, occupants int) {
	_, err := db.conn.Exec(
		"INSERT INTO games (room, result, occupants) VALUES (?, ?, ?)",
		roomID, result, occupants,
	)
	if err != nil {
		db.log.Error("game insert failed", zap.Error(err))
	}
}

// Leaderboard aggregates results per display name, best escapers first.
func (db *DB) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	rows, err := db.conn.Query(`
		SELECT name,
			COUNT(*) AS games,
			SUM(CASE WHEN outcome = 'escaped' THEN 1 ELSE 0 END) AS escapes,
			SUM(CASE WHEN outcome = 'eaten' THEN 1 ELSE 0 END) AS eaten
		FROM results
		GROUP BY name
		ORDER BY escapes DESC, games ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []LeaderboardEntry
	rank := 1
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.Username, &e.Games, &e.Escapes, &e.Eaten); err != nil {
			return nil, err
		}
		e.Rank = rank
		rank++
		result = append(result, e)
	}
	return result, rows.Err()
}

// InsertEvents writes a batch of analytics events in one transaction.
func (db *DB) InsertEvents(batch []AnalyticsEvent) error {
	if len(batch) == 0 {
		return nil
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT INTO events (room, kind, player_id, value, at) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, ev := range batch {
		if _, err := stmt.Exec(ev.Room, ev.Kind, ev.PlayerID, ev.Value, ev.At); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}
