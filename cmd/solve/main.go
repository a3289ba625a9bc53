package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/numcore/solver/internal/analysis"
	"github.com/numcore/solver/internal/catalog"
	"github.com/numcore/solver/internal/evalrpc"
	"github.com/numcore/solver/internal/expr"
	"github.com/numcore/solver/internal/methods"
	"github.com/numcore/solver/internal/poly"
	"github.com/numcore/solver/internal/runlog"
	"github.com/numcore/solver/internal/scan"
	"github.com/numcore/solver/internal/solver"
)

// #region main

func main() {
	problem := flag.String("problem", "", "catalog problem name (see bootstrap-catalog)")
	expression := flag.String("expr", "", "expression f(x) when not using --problem")
	derivative := flag.String("deriv", "", "derivative expression f'(x)")
	a := flag.Float64("a", 0, "interval lower bound")
	b := flag.Float64("b", 0, "interval upper bound")
	guessList := flag.String("guess", "", "comma-separated initial guesses")
	method := flag.String("method", "bisection", "bisection|falseposition|newton|secant|fixedpoint|muller")
	tol := flag.Float64("tol", solver.DefaultTolerance, "convergence tolerance")
	maxIter := flag.Int("maxiter", solver.DefaultMaxIterations, "iteration budget")
	dbPath := flag.String("db", "", "optional problems.db for catalog lookup and run logging")
	jsonOut := flag.Bool("json", false, "output full result as JSON")
	doScan := flag.Bool("scan", false, "scan the interval for sign-change brackets instead of solving")
	step := flag.Float64("step", 0.1, "scan increment")
	polyCoeffs := flag.String("poly", "", "comma-separated polynomial coefficients, highest degree first (alternative to --expr)")
	deflateRoots := flag.String("deflate", "", "with --poly: deflate by these comma-separated roots and exit")
	flag.Parse()

	var polynomial poly.Polynomial
	if *polyCoeffs != "" {
		coeffs, err := parseGuesses(*polyCoeffs)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(2)
		}
		polynomial = poly.Polynomial(coeffs)
		if *deflateRoots != "" {
			roots, err := parseGuesses(*deflateRoots)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(2)
			}
			os.Exit(runDeflate(polynomial, roots))
		}
		*expression = polynomial.String()
		*derivative = polynomial.DerivativeCoefficients().String()
	}

	spec, name, store, err := resolveSpec(*problem, *expression, *derivative, *a, *b, *guessList, *dbPath)
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

	// Polynomial mode evaluates in-process; register the rendered
	// expressions so the function table recognizes them.
	if len(polynomial) > 0 {
		if m, ok := ev.(expr.FuncMap); ok {
			m[polynomial.String()] = polynomial.Func()
			d := polynomial.DerivativeCoefficients()
			m[d.String()] = d.Func()
		}
	}

	// No interval but a starting guess: hunt outward for a bracket so the
	// bracketing methods still have something to work with.
	if spec.A == spec.B && len(spec.Guesses) > 0 {
		ba, bb, err := analysis.FindBracket(ev, spec.Expression, spec.Guesses[0], analysis.DefaultBracketSearchConfig())
		if err != nil {
			log.Printf("[SOLVE] bracket search: %v", err)
		} else {
			log.Printf("[SOLVE] bracket found: [%g, %g]", ba, bb)
			spec.A, spec.B = ba, bb
		}
	}

	if *doScan {
		os.Exit(runScan(ev, spec, *step))
	}

	run, ok := methodTable[strings.ToLower(*method)]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown method %q\n", *method)
		os.Exit(2)
	}
	res := run(ev, spec)

	if store != nil {
		if err := runlog.EnsureSchema(store.DB()); err == nil {
			if err := runlog.LogRun(store.DB(), runlog.FromResult(name, spec, res)); err != nil {
				log.Printf("[SOLVE] run log: %v", err)
			}
		}
	}

	if *jsonOut {
		out, _ := json.MarshalIndent(res, "", "  ")
		fmt.Println(string(out))
	} else {
		printResult(res)
	}

	if res.Failed() {
		os.Exit(1)
	}
}

// #endregion main

// #region wiring

var methodTable = map[string]func(expr.Evaluator, solver.ProblemSpec) solver.MethodResult{
	"bisection":     methods.Bisection,
	"falseposition": methods.FalsePosition,
	"newton":        methods.NewtonRaphson,
	"secant":        methods.Secant,
	"fixedpoint":    methods.FixedPoint,
	"muller":        methods.Muller,
}

// resolveSpec builds the problem spec from either a catalog entry or the
// raw flags. Catalog lookup tries the database first, then builtins.
func resolveSpec(problem, expression, derivative string, a, b float64, guessList, dbPath string) (solver.ProblemSpec, string, *catalog.Store, error) {
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
		guesses, err := parseGuesses(guessList)
		if err != nil {
			return solver.ProblemSpec{}, "", store, err
		}
		spec.Guesses = guesses
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

// buildEvaluator returns the remote client when EVALUATOR_ADDR is set and
// the builtin function table otherwise.
func buildEvaluator() (expr.Evaluator, func(), error) {
	if addr := os.Getenv("EVALUATOR_ADDR"); addr != "" {
		client, err := evalrpc.NewClient(addr)
		if err != nil {
			return nil, nil, fmt.Errorf("connect evaluator at %s: %w", addr, err)
		}
		log.Printf("[SOLVE] using evaluation service at %s", addr)
		return client, func() { client.Close() }, nil
	}
	return catalog.Functions(), nil, nil
}

func parseGuesses(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("parse guess %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// #endregion wiring

// #region scan-mode

// runScan walks the interval looking for sign changes and prints each
// bracket found. Returns the process exit code.
func runScan(ev expr.Evaluator, spec solver.ProblemSpec, step float64) int {
	res, err := scan.Scan(ev, scan.Request{
		Expression: spec.Expression,
		Start:      spec.A,
		End:        spec.B,
		Increment:  step,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	fmt.Printf("Scanned %s on [%g, %g] step %g: %d samples, %d brackets\n",
		spec.Expression, spec.A, spec.B, step, len(res.Samples), len(res.Brackets))
	for _, br := range res.Brackets {
		fmt.Printf("  [%g, %g]  f: %.6e -> %.6e\n", br.A, br.B, br.FA, br.FB)
	}
	if len(res.Brackets) == 0 {
		return 1
	}
	return 0
}

// #endregion scan-mode

// #region deflate-mode

// runDeflate divides the polynomial by each root in turn and prints the
// synthetic-division record per step. Returns the process exit code.
func runDeflate(p poly.Polynomial, roots []float64) int {
	run := p.DeflateAll(roots)
	fmt.Printf("Deflating %s\n", p.String())
	for _, step := range run.Steps {
		exact := "exact"
		if !step.IsExactRoot {
			exact = fmt.Sprintf("remainder %.6e", step.Remainder)
		}
		fmt.Printf("  / (x - %g) -> %s  (%s)\n", step.Root, step.Quotient.String(), exact)
	}
	if run.AllExactRoots {
		fmt.Println("All roots exact.")
		return 0
	}
	fmt.Printf("Remaining: %s\n", run.Final.String())
	return 1
}

// #endregion deflate-mode

// #region output

func printResult(res solver.MethodResult) {
	fmt.Printf("Method: %s\n", res.Method)
	if res.Failed() {
		fmt.Printf("Failed: %s (%s)\n", res.ErrorMessage, res.ErrorCode)
	} else if res.Converged {
		fmt.Printf("Root: %.12g after %d iterations (%d evaluations)\n",
			*res.Root, res.Iterations, res.FunctionEvaluations)
	} else {
		fmt.Printf("Did not converge in %d iterations\n", res.Iterations)
	}

	if len(res.History) == 0 {
		return
	}
	fmt.Printf("\n%-5s %-22s %-22s %s\n", "Iter", "x", "f(x)", "Error")
	for _, rec := range res.History {
		errCol := "-"
		if rec.Error != nil {
			errCol = fmt.Sprintf("%.6e", *rec.Error)
		}
		fmt.Printf("%-5d %-22.12g %-22.6e %s\n", rec.Iteration, rec.X, rec.FX, errCol)
	}
}

// #endregion output
