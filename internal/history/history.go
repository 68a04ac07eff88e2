// Package history persists watering decisions to a local SQLite database so
// past control behavior can be inspected and served over the API.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Entry is one recorded decision cycle.
type Entry struct {
	ID           int64     `json:"id"`
	At           time.Time `json:"at"`
	SoilMoisture float64   `json:"soil_moisture"`
	Temperature  float64   `json:"temperature"`
	AirHumidity  float64   `json:"air_humidity"`
	Minutes      float64   `json:"minutes"`
	Defaulted    bool      `json:"defaulted,omitempty"`
	// Source records where the reading came from: "api", "cli", "sim".
	Source string `json:"source,omitempty"`
}

// Stats summarizes the recorded decisions.
type Stats struct {
	Count        int64   `json:"count"`
	TotalMinutes float64 `json:"total_minutes"`
	MeanMinutes  float64 `json:"mean_minutes"`
	Defaulted    int64   `json:"defaulted"`
}

// Store is a decision log backed by SQLite. Safe for concurrent use; SQLite
// serializes writers internally.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS decisions (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	at            INTEGER NOT NULL,
	soil_moisture REAL    NOT NULL,
	temperature   REAL    NOT NULL,
	air_humidity  REAL    NOT NULL,
	minutes       REAL    NOT NULL,
	defaulted     INTEGER NOT NULL DEFAULT 0,
	source        TEXT    NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_decisions_at ON decisions(at);
`

// Open opens (creating if needed) the decision log at path. Use ":memory:"
// for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Record appends an entry and returns its id. A zero At is stamped with the
// current time.
func (s *Store) Record(e Entry) (int64, error) {
	at := e.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	res, err := s.db.Exec(
		`INSERT INTO decisions (at, soil_moisture, temperature, air_humidity, minutes, defaulted, source)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		at.UnixMilli(), e.SoilMoisture, e.Temperature, e.AirHumidity, e.Minutes, e.Defaulted, e.Source,
	)
	if err != nil {
		return 0, fmt.Errorf("recording decision: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, at, soil_moisture, temperature, air_humidity, minutes, defaulted, source
		 FROM decisions ORDER BY at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying decisions: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var at int64
		if err := rows.Scan(&e.ID, &at, &e.SoilMoisture, &e.Temperature, &e.AirHumidity, &e.Minutes, &e.Defaulted, &e.Source); err != nil {
			return nil, fmt.Errorf("scanning decision: %w", err)
		}
		e.At = time.UnixMilli(at).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

// Stats aggregates all recorded decisions.
func (s *Store) Stats() (Stats, error) {
	var st Stats
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(minutes), 0), COALESCE(SUM(defaulted), 0) FROM decisions`,
	).Scan(&st.Count, &st.TotalMinutes, &st.Defaulted)
	if err != nil {
		return Stats{}, fmt.Errorf("aggregating decisions: %w", err)
	}
	if st.Count > 0 {
		st.MeanMinutes = st.TotalMinutes / float64(st.Count)
	}
	return st, nil
}
