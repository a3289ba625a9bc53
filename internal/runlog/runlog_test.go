package runlog

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/numcore/solver/internal/solver"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := EnsureSchema(db); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return db
}

func TestLogRunRoundTrip(t *testing.T) {
	db := openDB(t)

	spec := solver.NewProblemSpec("x^2 - 2").WithInterval(0, 2)
	res := solver.MethodResult{
		Method:              solver.MethodBisection,
		Root:                solver.Float(1.4142135),
		Iterations:          20,
		Converged:           true,
		FunctionEvaluations: 22,
	}
	if err := LogRun(db, FromResult("sqrt-two", spec, res)); err != nil {
		t.Fatalf("log run: %v", err)
	}

	entries, err := Recent(db, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.ProblemName != "sqrt-two" || e.Method != "bisection" {
		t.Fatalf("entry = %+v, want the logged run", e)
	}
	if !e.Converged || e.Root == nil || *e.Root != 1.4142135 {
		t.Fatal("outcome fields lost in round trip")
	}
	if e.RunID == "" || e.CreatedAt.IsZero() {
		t.Fatal("log must assign run ID and timestamp")
	}
}

func TestFromResultCapturesFailure(t *testing.T) {
	spec := solver.NewProblemSpec("x^2 + 1").WithInterval(-1, 1)
	res := solver.Rejection(solver.MethodBisection, solver.CodeNoSignChange, "no sign change")

	entry := FromResult("", spec, res)
	if entry.Converged {
		t.Fatal("rejection is not convergence")
	}
	if entry.ErrorCode != string(solver.CodeNoSignChange) {
		t.Fatalf("error code = %q, want no_sign_change", entry.ErrorCode)
	}
	if entry.Expression != "x^2 + 1" {
		t.Fatalf("expression = %q, want the spec's", entry.Expression)
	}
	if entry.ResultJSON == "" {
		t.Fatal("snapshot must be captured")
	}
}

func TestRecentHonorsLimit(t *testing.T) {
	db := openDB(t)
	spec := solver.NewProblemSpec("x^2 - 2")
	for i := 0; i < 5; i++ {
		res := solver.MethodResult{Method: solver.MethodSecant, Iterations: i}
		if err := LogRun(db, FromResult("sqrt-two", spec, res)); err != nil {
			t.Fatalf("log run %d: %v", i, err)
		}
	}
	entries, err := Recent(db, 3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want the limit of 3", len(entries))
	}
}
