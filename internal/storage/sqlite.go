// Package storage provides SQLite-based history of generated floors and
// resolved encounters. Uses the pure-Go modernc.org/sqlite driver to avoid
// CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const timeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection for run history.
type Store struct {
	db *sql.DB
}

// FloorRecord is one generated dungeon floor.
type FloorRecord struct {
	ID        int64
	Seed      int64
	Floor     int
	Requested int // Rooms requested
	Placed    int // Rooms actually placed
	CreatedAt time.Time
}

// EncounterRecord is one resolved battle.
type EncounterRecord struct {
	ID           string // Battle session ID
	Floor        int
	Class        string
	Outcome      string
	PlayerHealth int
	Enemies      []string
	Turns        int
	CreatedAt    time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("storage: empty database path")
	}

	// Expand ~ to home directory
	if dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS floors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			seed INTEGER NOT NULL,
			floor INTEGER NOT NULL,
			requested INTEGER NOT NULL,
			placed INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_floors_seed ON floors(seed, floor);

		CREATE TABLE IF NOT EXISTS encounters (
			id TEXT PRIMARY KEY,
			floor INTEGER NOT NULL,
			class TEXT NOT NULL,
			outcome TEXT NOT NULL,
			player_health INTEGER NOT NULL,
			enemies TEXT NOT NULL,
			turns INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_encounters_outcome ON encounters(outcome);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveFloor records a generated floor.
// Returns the ID of the inserted record.
func (s *Store) SaveFloor(ctx context.Context, rec FloorRecord) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO floors (seed, floor, requested, placed) VALUES (?, ?, ?, ?)",
		rec.Seed, rec.Floor, rec.Requested, rec.Placed,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save floor: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecentFloors retrieves the most recently generated floors.
func (s *Store) RecentFloors(ctx context.Context, limit int) ([]FloorRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, seed, floor, requested, placed, created_at
		 FROM floors
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query floors: %w", err)
	}
	defer rows.Close()

	var records []FloorRecord
	for rows.Next() {
		var r FloorRecord
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Seed, &r.Floor, &r.Requested, &r.Placed, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return records, nil
}

// SaveEncounter records a resolved battle.
func (s *Store) SaveEncounter(ctx context.Context, rec EncounterRecord) error {
	if rec.ID == "" {
		return errors.New("storage: encounter without ID")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO encounters (id, floor, class, outcome, player_health, enemies, turns)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Floor, rec.Class, rec.Outcome, rec.PlayerHealth,
		strings.Join(rec.Enemies, ","), rec.Turns,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save encounter: %w", err)
	}
	return nil
}

// RecentEncounters retrieves the most recent encounters, newest first.
func (s *Store) RecentEncounters(ctx context.Context, limit int) ([]EncounterRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, floor, class, outcome, player_health, enemies, turns, created_at
		 FROM encounters
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query encounters: %w", err)
	}
	defer rows.Close()

	var records []EncounterRecord
	for rows.Next() {
		var r EncounterRecord
		var enemies string
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Floor, &r.Class, &r.Outcome, &r.PlayerHealth, &enemies, &r.Turns, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if enemies != "" {
			r.Enemies = strings.Split(enemies, ",")
		}
		r.CreatedAt = parseTime(createdAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return records, nil
}

// OutcomeCounts returns how many encounters ended with each outcome.
func (s *Store) OutcomeCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT outcome, COUNT(*) FROM encounters GROUP BY outcome`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot count outcomes: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		counts[outcome] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return counts, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(timeLayout, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
