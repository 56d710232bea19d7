// Package tracestore keeps run traces in a SQLite database so past runs can
// be listed and replayed.
package tracestore

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	scheme "github.com/nilcastell10/MiniScheme-ANTLR4/core"
)

const schema = `CREATE TABLE IF NOT EXISTS traces (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	entry     TEXT NOT NULL,
	source    TEXT NOT NULL,
	inputs    TEXT NOT NULL,
	output    TEXT NOT NULL,
	result    TEXT NOT NULL,
	error     TEXT NOT NULL,
	timestamp TEXT NOT NULL
)`

type Store struct {
	db   *sql.DB
	path string
}

// Record is a stored trace with its row id.
type Record struct {
	ID int64
	scheme.Trace
}

// Open opens (or creates) the database at path and makes sure the traces
// table exists.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("open trace store: missing path")
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open trace store %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open trace store %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create traces table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Path() string { return s.path }

// Append stores t and returns its id.
func (s *Store) Append(t *scheme.Trace) (int64, error) {
	inputs := t.Inputs
	if inputs == nil {
		inputs = []string{}
	}
	raw, err := json.Marshal(inputs)
	if err != nil {
		return 0, fmt.Errorf("marshal inputs: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	result, err := tx.Exec(
		`INSERT INTO traces (entry, source, inputs, output, result, error, timestamp) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.Entry, t.Source, string(raw), t.Output, t.Result, t.Error, t.Timestamp,
	)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("insert trace: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// Recent returns up to limit traces, newest first. A limit of zero or less
// returns all of them.
func (s *Store) Recent(limit int) ([]Record, error) {
	query := `SELECT id, entry, source, inputs, output, result, error, timestamp FROM traces ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query traces: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var r Record
		var raw string
		if err := rows.Scan(&r.ID, &r.Entry, &r.Source, &raw, &r.Output, &r.Result, &r.Error, &r.Timestamp); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(raw), &r.Inputs); err != nil {
			return nil, fmt.Errorf("trace %d: bad inputs: %w", r.ID, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Get returns the trace with the given id.
func (s *Store) Get(id int64) (*Record, error) {
	row := s.db.QueryRow(`SELECT id, entry, source, inputs, output, result, error, timestamp FROM traces WHERE id = ?`, id)
	var r Record
	var raw string
	err := row.Scan(&r.ID, &r.Entry, &r.Source, &raw, &r.Output, &r.Result, &r.Error, &r.Timestamp)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("trace %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(raw), &r.Inputs); err != nil {
		return nil, fmt.Errorf("trace %d: bad inputs: %w", r.ID, err)
	}
	return &r, nil
}

// Clear deletes every stored trace.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM traces`); err != nil {
		return fmt.Errorf("clear traces: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
