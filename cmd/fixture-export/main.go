package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/numcore/solver/internal/catalog"
	"github.com/numcore/solver/internal/compare"
	"github.com/numcore/solver/internal/fixture"
)

// #region main

func main() {
	problem := flag.String("problem", "", "catalog problem name to snapshot")
	outPath := flag.String("out", "", "output fixture JSON path")
	dbPath := flag.String("db", "", "optional problems.db for catalog lookup")
	flag.Parse()

	if *problem == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --problem name --out path/to/fixture.json [--db problems.db]")
		os.Exit(2)
	}

	if err := run(*problem, *outPath, *dbPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region export

// run executes the orchestrator against the named problem with the
// builtin function table and freezes the outcome as fixture expectations.
func run(problem, outPath, dbPath string) error {
	p, err := lookup(problem, dbPath)
	if err != nil {
		return err
	}

	spec := p.Spec()
	cmp := compare.New(catalog.Functions()).Run(spec)

	f := fixture.Fixture{
		Description: fmt.Sprintf("snapshot of %s: %s", p.Name, p.Expression),
		Problem: fixture.FixtureProblem{
			Expression:    spec.Expression,
			Derivative:    spec.Derivative,
			A:             spec.A,
			B:             spec.B,
			Guesses:       spec.Guesses,
			Tolerance:     spec.Tolerance,
			MaxIterations: spec.MaxIterations,
		},
	}
	for _, res := range cmp.Results {
		want := fixture.FixtureExpectation{
			Method:    string(res.Method),
			Converged: res.Converged,
		}
		if res.Failed() {
			want.ErrorCode = string(res.ErrorCode)
		}
		if res.Converged && res.Root != nil {
			root := *res.Root
			want.Root = &root
			want.RootTolerance = spec.Tolerance * 10
			want.MaxIterations = res.Iterations
		}
		f.Expectations = append(f.Expectations, want)
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write fixture: %w", err)
	}
	fmt.Printf("Exported %d expectations for %s to %s\n", len(f.Expectations), p.Name, outPath)
	return nil
}

// lookup resolves a problem from the database when given, falling back
// to the builtin set.
func lookup(problem, dbPath string) (catalog.Problem, error) {
	if dbPath != "" {
		store, err := catalog.NewStore(dbPath)
		if err != nil {
			return catalog.Problem{}, err
		}
		defer store.Close()
		if p, err := store.GetByName(problem); err == nil {
			return p, nil
		}
	}
	for _, p := range catalog.Builtins() {
		if p.Name == problem {
			return p, nil
		}
	}
	return catalog.Problem{}, fmt.Errorf("problem %q not found", problem)
}

// #endregion export
