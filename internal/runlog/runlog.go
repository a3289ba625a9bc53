// Package runlog records solver runs for later inspection. It is a
// CLI-layer concern: the numeric core neither reads nor writes it.
package runlog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/numcore/solver/internal/solver"
)

// #region entry

// Entry is a single row in the run_log table: one method run against
// one problem, with its outcome and a JSON snapshot of the result.
type Entry struct {
	RunID       string
	ProblemName string
	Expression  string
	Method      string
	Converged   bool
	Root        *float64
	Iterations  int
	ErrorCode   string
	Reason      string
	ResultJSON  string
	CreatedAt   time.Time
}

// FromResult builds an Entry from a finished method run.
func FromResult(problemName string, spec solver.ProblemSpec, res solver.MethodResult) Entry {
	snapshot, _ := json.Marshal(res)
	return Entry{
		RunID:       uuid.New().String(),
		ProblemName: problemName,
		Expression:  spec.Expression,
		Method:      string(res.Method),
		Converged:   res.Converged,
		Root:        res.Root,
		Iterations:  res.Iterations,
		ErrorCode:   string(res.ErrorCode),
		Reason:      res.ErrorMessage,
		ResultJSON:  string(snapshot),
	}
}

// #endregion entry

// #region schema

const schema = `
CREATE TABLE IF NOT EXISTS run_log (
	run_id       TEXT PRIMARY KEY,
	problem_name TEXT,
	expression   TEXT NOT NULL,
	method       TEXT NOT NULL,
	converged    INTEGER NOT NULL,
	root         REAL,
	iterations   INTEGER NOT NULL,
	error_code   TEXT,
	reason       TEXT,
	result_json  TEXT,
	created_at   TEXT NOT NULL
);
`

// EnsureSchema creates the run_log table when missing.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("migrate run_log: %w", err)
	}
	return nil
}

// #endregion schema

// #region log-run

// LogRun appends one entry to the run_log table.
func LogRun(db *sql.DB, entry Entry) error {
	if entry.RunID == "" {
		entry.RunID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO run_log (run_id, problem_name, expression, method, converged, root, iterations, error_code, reason, result_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RunID,
		nullIfEmpty(entry.ProblemName),
		entry.Expression,
		entry.Method,
		boolToInt(entry.Converged),
		nullableFloat(entry.Root),
		entry.Iterations,
		nullIfEmpty(entry.ErrorCode),
		nullIfEmpty(entry.Reason),
		nullIfEmpty(entry.ResultJSON),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log run: %w", err)
	}
	return nil
}

// Recent returns the newest entries, up to limit, without their JSON
// snapshots.
func Recent(db *sql.DB, limit int) ([]Entry, error) {
	rows, err := db.Query(
		`SELECT run_id, problem_name, expression, method, converged, root, iterations, error_code, reason, created_at
		 FROM run_log ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query run_log: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var problemName, errorCode, reason sql.NullString
		var root sql.NullFloat64
		var converged int
		var createdAt string
		err := rows.Scan(&e.RunID, &problemName, &e.Expression, &e.Method,
			&converged, &root, &e.Iterations, &errorCode, &reason, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan run_log: %w", err)
		}
		e.ProblemName = problemName.String
		e.ErrorCode = errorCode.String
		e.Reason = reason.String
		e.Converged = converged != 0
		if root.Valid {
			v := root.Float64
			e.Root = &v
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, e)
	}
	return out, rows.Err()
}

// #endregion log-run

// #region helpers

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

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// #endregion helpers
