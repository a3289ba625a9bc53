package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/numcore/solver/internal/analysis"
	"github.com/numcore/solver/internal/catalog"
	"github.com/numcore/solver/internal/compare"
	"github.com/numcore/solver/internal/evalrpc"
	"github.com/numcore/solver/internal/expr"
	"github.com/numcore/solver/internal/runlog"
	"github.com/numcore/solver/internal/solver"
)

// #region main

func main() {
	problem := flag.String("problem", "", "catalog problem name")
	expression := flag.String("expr", "", "expression f(x) when not using --problem")
	derivative := flag.String("deriv", "", "derivative expression f'(x)")
	a := flag.Float64("a", 0, "interval lower bound")
	b := flag.Float64("b", 0, "interval upper bound")
	tol := flag.Float64("tol", solver.DefaultTolerance, "convergence tolerance")
	maxIter := flag.Int("maxiter", solver.DefaultMaxIterations, "iteration budget")
	dbPath := flag.String("db", "", "optional problems.db for catalog lookup and run logging")
	jsonOut := flag.Bool("json", false, "output full comparison as JSON")
	flag.Parse()

	spec, name, store, err := resolveSpec(*problem, *expression, *derivative, *a, *b, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	if store != nil {
		defer store.Close()
	}
	spec.Tolerance = *tol
	spec.MaxIterations = *maxIter

	ev, closer, err := buildEvaluator()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	if closer != nil {
		defer closer()
	}

	cmp := compare.New(ev).Run(spec)

	if store != nil {
		if err := runlog.EnsureSchema(store.DB()); err == nil {
			for _, res := range cmp.Results {
				if err := runlog.LogRun(store.DB(), runlog.FromResult(name, spec, res)); err != nil {
					log.Printf("[COMPARE] run log: %v", err)
				}
			}
		}
	}

	if *jsonOut {
		out, _ := json.MarshalIndent(cmp, "", "  ")
		fmt.Println(string(out))
		return
	}
	printComparison(cmp)

	if len(cmp.Converged()) == 0 {
		os.Exit(1)
	}
}

// #endregion main

// #region wiring

func resolveSpec(problem, expression, derivative string, a, b float64, dbPath string) (solver.ProblemSpec, string, *catalog.Store, error) {
	var store *catalog.Store
	if dbPath != "" {
		s, err := catalog.NewStore(dbPath)
		if err != nil {
			return solver.ProblemSpec{}, "", nil, err
		}
		store = s
	}

	if problem == "" {
		if expression == "" {
			return solver.ProblemSpec{}, "", store, fmt.Errorf("either --problem or --expr is required")
		}
		spec := solver.NewProblemSpec(expression)
		spec.Derivative = derivative
		spec.A, spec.B = a, b
		return spec, "", store, nil
	}

	if store != nil {
		if p, err := store.GetByName(problem); err == nil {
			return p.Spec(), p.Name, store, nil
		}
	}
	for _, p := range catalog.Builtins() {
		if p.Name == problem {
			return p.Spec(), p.Name, store, nil
		}
	}
	return solver.ProblemSpec{}, "", store, fmt.Errorf("problem %q not found", problem)
}

func buildEvaluator() (expr.Evaluator, func(), error) {
	if addr := os.Getenv("EVALUATOR_ADDR"); addr != "" {
		client, err := evalrpc.NewClient(addr)
		if err != nil {
			return nil, nil, fmt.Errorf("connect evaluator at %s: %w", addr, err)
		}
		log.Printf("[COMPARE] using evaluation service at %s", addr)
		return client, func() { client.Close() }, nil
	}
	return catalog.Functions(), nil, nil
}

// #endregion wiring

// #region output

func printComparison(cmp compare.Comparison) {
	fmt.Printf("f(x) = %s on [%g, %g], tol %g\n\n", cmp.Spec.Expression, cmp.Spec.A, cmp.Spec.B, cmp.Spec.Tolerance)
	fmt.Printf("%-15s| %-20s| %-6s| %-6s| %-8s| %s\n",
		"Method", "Root", "Iters", "Evals", "Order", "Status")
	fmt.Printf("%-15s+%-21s+%-7s+%-7s+%-9s+%s\n",
		"---------------", "---------------------", "-------", "-------", "---------", "----------")

	for _, res := range cmp.Results {
		root := "-"
		if res.Root != nil {
			root = fmt.Sprintf("%.12g", *res.Root)
		}
		status := "converged"
		if res.Failed() {
			status = string(res.ErrorCode)
		} else if !res.Converged {
			status = "no convergence"
		}
		order := "-"
		if s := analysis.Summarize(res); s.Status == "ok" {
			order = fmt.Sprintf("%.2f", s.ConvergenceOrder)
		}
		fmt.Printf("%-15s| %-20s| %-6d| %-6d| %-8s| %s\n",
			res.Method, root, res.Iterations, res.FunctionEvaluations, order, status)
	}

	ref := cmp.Reference()
	if len(ref.Roots) > 0 {
		fmt.Printf("\nDistinct roots: %v\n", ref.Roots)
	}
}

// #endregion output
