package catalog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// #region schema

const schema = `
CREATE TABLE IF NOT EXISTS problems (
	problem_id   TEXT PRIMARY KEY,
	name         TEXT NOT NULL UNIQUE,
	expression   TEXT NOT NULL,
	derivative   TEXT,
	interval_a   REAL NOT NULL,
	interval_b   REAL NOT NULL,
	guesses_json TEXT,
	known_root   REAL,
	description  TEXT,
	created_at   TEXT NOT NULL
);
`

// #endregion schema

// #region store

// Store manages the example-problem catalog in SQLite. The numeric core
// never touches it; only the CLI tools read and seed it.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages (e.g. the
// run log).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion store

// #region add

// Add inserts a problem, assigning an ID and timestamp when missing.
func (s *Store) Add(p Problem) (Problem, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	guessJSON, err := json.Marshal(p.Guesses)
	if err != nil {
		return Problem{}, fmt.Errorf("marshal guesses: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO problems (problem_id, name, expression, derivative, interval_a, interval_b, guesses_json, known_root, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Expression, nullIfEmpty(p.Derivative), p.A, p.B,
		string(guessJSON), nullableFloat(p.KnownRoot), nullIfEmpty(p.Description),
		p.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Problem{}, fmt.Errorf("insert problem %s: %w", p.Name, err)
	}
	return p, nil
}

// Seed inserts every builtin problem that is not already present.
func (s *Store) Seed() (int, error) {
	added := 0
	for _, p := range Builtins() {
		if _, err := s.GetByName(p.Name); err == nil {
			continue
		}
		if _, err := s.Add(p); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

// #endregion add

// #region queries

// GetByName loads one problem by its unique name.
func (s *Store) GetByName(name string) (Problem, error) {
	row := s.db.QueryRow(
		`SELECT problem_id, name, expression, derivative, interval_a, interval_b, guesses_json, known_root, description, created_at
		 FROM problems WHERE name = ?`, name)
	return scanProblem(row)
}

// List returns all problems ordered by name.
func (s *Store) List() ([]Problem, error) {
	rows, err := s.db.Query(
		`SELECT problem_id, name, expression, derivative, interval_a, interval_b, guesses_json, known_root, description, created_at
		 FROM problems ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list problems: %w", err)
	}
	defer rows.Close()

	var out []Problem
	for rows.Next() {
		p, err := scanProblem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Search matches the query case-insensitively against name, expression,
// and description.
func (s *Store) Search(query string) ([]Problem, error) {
	like := "%" + query + "%"
	rows, err := s.db.Query(
		`SELECT problem_id, name, expression, derivative, interval_a, interval_b, guesses_json, known_root, description, created_at
		 FROM problems
		 WHERE name LIKE ? OR expression LIKE ? OR description LIKE ?
		 ORDER BY name`, like, like, like)
	if err != nil {
		return nil, fmt.Errorf("search problems: %w", err)
	}
	defer rows.Close()

	var out []Problem
	for rows.Next() {
		p, err := scanProblem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// #endregion queries

// #region scan-helpers

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProblem(row rowScanner) (Problem, error) {
	var p Problem
	var derivative, guessJSON, description sql.NullString
	var knownRoot sql.NullFloat64
	var createdAt string

	err := row.Scan(&p.ID, &p.Name, &p.Expression, &derivative, &p.A, &p.B,
		&guessJSON, &knownRoot, &description, &createdAt)
	if err != nil {
		return Problem{}, fmt.Errorf("scan problem: %w", err)
	}

	p.Derivative = derivative.String
	p.Description = description.String
	if knownRoot.Valid {
		v := knownRoot.Float64
		p.KnownRoot = &v
	}
	if guessJSON.Valid && guessJSON.String != "" {
		if err := json.Unmarshal([]byte(guessJSON.String), &p.Guesses); err != nil {
			return Problem{}, fmt.Errorf("parse guesses for %s: %w", p.Name, err)
		}
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return p, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

// #endregion scan-helpers
