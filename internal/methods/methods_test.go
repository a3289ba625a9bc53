package methods

import (
	"fmt"
	"math"
	"testing"

	"github.com/numcore/solver/internal/expr"
	"github.com/numcore/solver/internal/solver"
)

// testFunctions is the shared closed-form table for the method tests.
func testFunctions() expr.FuncMap {
	return expr.FuncMap{
		"x^2 - 2":     func(x float64) float64 { return x*x - 2 },
		"2*x":         func(x float64) float64 { return 2 * x },
		"x^2 - 4":     func(x float64) float64 { return x*x - 4 },
		"x^3 - x - 1": func(x float64) float64 { return x*x*x - x - 1 },
		"3*x^2 - 1":   func(x float64) float64 { return 3*x*x - 1 },
		"x^2 + 1":     func(x float64) float64 { return x*x + 1 },
		"cos(x)":      math.Cos,
		"1":           func(x float64) float64 { return 1 },
		"100*x":       func(x float64) float64 { return 100 * x },
	}
}

func bracketSpec(expression string, a, b float64) solver.ProblemSpec {
	spec := solver.NewProblemSpec(expression)
	spec.A, spec.B = a, b
	return spec
}

// #region bisection

func TestBisectionFindsSqrtTwo(t *testing.T) {
	res := Bisection(testFunctions(), bracketSpec("x^2 - 2", 0, 2))

	if !res.Converged {
		t.Fatalf("expected convergence, got %s: %s", res.ErrorCode, res.ErrorMessage)
	}
	if math.Abs(*res.Root-math.Sqrt2) > 1e-5 {
		t.Fatalf("root = %g, want close to %g", *res.Root, math.Sqrt2)
	}
	// Interval of width 2 halves below 1e-6 within 21 iterations.
	if res.Iterations > 21 {
		t.Fatalf("took %d iterations, bound is 21", res.Iterations)
	}
	if len(res.History) != res.Iterations {
		t.Fatalf("history has %d records for %d iterations", len(res.History), res.Iterations)
	}
	if res.FunctionEvaluations != 2+res.Iterations {
		t.Fatalf("evaluations = %d, want %d", res.FunctionEvaluations, 2+res.Iterations)
	}
}

func TestBisectionHistoryCarriesBrackets(t *testing.T) {
	res := Bisection(testFunctions(), bracketSpec("x^2 - 2", 0, 2))

	for _, rec := range res.History {
		br, ok := rec.Aux.(solver.BracketAux)
		if !ok {
			t.Fatalf("iteration %d aux is %T, want BracketAux", rec.Iteration, rec.Aux)
		}
		if br.A > rec.X || rec.X > br.B {
			t.Fatalf("iteration %d midpoint %g outside [%g, %g]", rec.Iteration, rec.X, br.A, br.B)
		}
		if rec.Error == nil {
			t.Fatalf("iteration %d missing error estimate", rec.Iteration)
		}
	}
}

func TestBisectionNoSignChange(t *testing.T) {
	res := Bisection(testFunctions(), bracketSpec("x^2 + 1", -1, 1))

	if res.ErrorCode != solver.CodeNoSignChange {
		t.Fatalf("expected NoSignChange, got %s", res.ErrorCode)
	}
	if res.Iterations != 0 || len(res.History) != 0 {
		t.Fatal("precondition failure must not record iterations")
	}
	if res.FunctionEvaluations != 2 {
		t.Fatalf("evaluations = %d, want 2 (both endpoints probed)", res.FunctionEvaluations)
	}
}

func TestBisectionSwapsReversedInterval(t *testing.T) {
	res := Bisection(testFunctions(), bracketSpec("x^2 - 2", 2, 0))

	if !res.Converged {
		t.Fatalf("expected convergence on reversed interval, got %s", res.ErrorCode)
	}
	if math.Abs(*res.Root-math.Sqrt2) > 1e-5 {
		t.Fatalf("root = %g, want close to %g", *res.Root, math.Sqrt2)
	}
}

func TestBisectionEndpointAlreadyRoot(t *testing.T) {
	spec := bracketSpec("x^2 - 4", 2, 3)
	spec.Tolerance = 1e-3
	res := Bisection(testFunctions(), spec)

	if !res.Converged {
		t.Fatalf("expected endpoint fast path to converge, got %s", res.ErrorCode)
	}
	if *res.Root != 2 {
		t.Fatalf("root = %g, want the endpoint 2", *res.Root)
	}
	if res.Iterations != 0 {
		t.Fatalf("endpoint root should take zero iterations, took %d", res.Iterations)
	}
}

func TestBisectionRejectsBadTolerance(t *testing.T) {
	spec := bracketSpec("x^2 - 2", 0, 2)
	spec.Tolerance = 0
	res := Bisection(testFunctions(), spec)

	if res.ErrorCode != solver.CodeInvalidInput {
		t.Fatalf("expected InvalidInput, got %s", res.ErrorCode)
	}
	if res.FunctionEvaluations != 0 {
		t.Fatal("validation failures must not touch the evaluator")
	}
}

func TestBisectionExhaustsBudget(t *testing.T) {
	spec := bracketSpec("x^2 - 2", 0, 2)
	spec.Tolerance = 1e-12
	spec.MaxIterations = 5
	res := Bisection(testFunctions(), spec)

	if res.Converged {
		t.Fatal("five iterations cannot reach 1e-12 on a width-2 interval")
	}
	if res.ErrorCode != solver.CodeMaxIterations {
		t.Fatalf("expected MaxIterations, got %s", res.ErrorCode)
	}
	if res.Iterations != 5 || len(res.History) != 5 {
		t.Fatalf("iterations = %d, history = %d, want 5/5", res.Iterations, len(res.History))
	}
	if res.Root == nil {
		t.Fatal("budget exhaustion should still report the best iterate")
	}
}

// #endregion bisection

// #region false-position

func TestFalsePositionConverges(t *testing.T) {
	res := FalsePosition(testFunctions(), bracketSpec("x^3 - x - 1", 1, 2))

	if !res.Converged {
		t.Fatalf("expected convergence, got %s: %s", res.ErrorCode, res.ErrorMessage)
	}
	if math.Abs(*res.Root-1.3247179572447) > 1e-4 {
		t.Fatalf("root = %g, want close to the plastic number", *res.Root)
	}
	if res.FunctionEvaluations != 2+res.Iterations {
		t.Fatalf("evaluations = %d, want %d", res.FunctionEvaluations, 2+res.Iterations)
	}
	// Final residual satisfies the function tolerance: that is the only
	// stopping test this method applies.
	last := res.History[len(res.History)-1]
	if math.Abs(last.FX) >= 1e-6 {
		t.Fatalf("final residual %g not under tolerance", last.FX)
	}
}

func TestFalsePositionNoSignChange(t *testing.T) {
	res := FalsePosition(testFunctions(), bracketSpec("x^2 + 1", -1, 1))

	if res.ErrorCode != solver.CodeNoSignChange {
		t.Fatalf("expected NoSignChange, got %s", res.ErrorCode)
	}
	if res.FunctionEvaluations != 2 {
		t.Fatalf("evaluations = %d, want 2", res.FunctionEvaluations)
	}
}

// #endregion false-position

// #region newton

func TestNewtonQuadraticConvergence(t *testing.T) {
	spec := solver.NewProblemSpec("x^2 - 2")
	spec.Derivative = "2*x"
	spec.Guesses = []float64{1.5}
	res := NewtonRaphson(testFunctions(), spec)

	if !res.Converged {
		t.Fatalf("expected convergence, got %s: %s", res.ErrorCode, res.ErrorMessage)
	}
	if math.Abs(*res.Root-math.Sqrt2) > 1e-6 {
		t.Fatalf("root = %g, want %g", *res.Root, math.Sqrt2)
	}
	// Quadratic convergence from 1.5 reaches 1e-6 in a handful of steps.
	if res.Iterations > 6 {
		t.Fatalf("took %d iterations, expected quadratic convergence within 6", res.Iterations)
	}
	if res.FunctionEvaluations != 1+2*res.Iterations {
		t.Fatalf("evaluations = %d, want %d (one upfront, two per iteration)",
			res.FunctionEvaluations, 1+2*res.Iterations)
	}
}

func TestNewtonRequiresDerivative(t *testing.T) {
	spec := solver.NewProblemSpec("x^2 - 2")
	spec.Guesses = []float64{1.5}
	res := NewtonRaphson(testFunctions(), spec)

	if res.ErrorCode != solver.CodeMissingDerivative {
		t.Fatalf("expected MissingDerivative, got %s", res.ErrorCode)
	}
	if res.FunctionEvaluations != 0 {
		t.Fatal("missing derivative must be caught before any evaluation")
	}
}

func TestNewtonRequiresGuess(t *testing.T) {
	spec := solver.NewProblemSpec("x^2 - 2")
	spec.Derivative = "2*x"
	res := NewtonRaphson(testFunctions(), spec)

	if res.ErrorCode != solver.CodeInvalidInput {
		t.Fatalf("expected InvalidInput, got %s", res.ErrorCode)
	}
}

func TestNewtonZeroDerivative(t *testing.T) {
	spec := solver.NewProblemSpec("x^2 - 4")
	spec.Derivative = "2*x"
	spec.Guesses = []float64{0} // f'(0) = 0
	res := NewtonRaphson(testFunctions(), spec)

	if res.ErrorCode != solver.CodeZeroDerivative {
		t.Fatalf("expected ZeroDerivative, got %s", res.ErrorCode)
	}
	if res.Converged {
		t.Fatal("zero derivative must not report convergence")
	}
	if res.Root == nil || *res.Root != 0 {
		t.Fatal("failure should preserve the last iterate")
	}
	if len(res.History) != res.Iterations {
		t.Fatalf("history has %d records for %d iterations", len(res.History), res.Iterations)
	}
}

func TestNewtonHistoryCarriesDerivative(t *testing.T) {
	spec := solver.NewProblemSpec("x^2 - 2")
	spec.Derivative = "2*x"
	spec.Guesses = []float64{1.5}
	res := NewtonRaphson(testFunctions(), spec)

	for _, rec := range res.History {
		aux, ok := rec.Aux.(solver.NewtonAux)
		if !ok {
			t.Fatalf("iteration %d aux is %T, want NewtonAux", rec.Iteration, rec.Aux)
		}
		if aux.Derivative == 0 {
			t.Fatalf("iteration %d recorded a zero derivative", rec.Iteration)
		}
	}
}

// #endregion newton

// #region secant

func TestSecantConverges(t *testing.T) {
	spec := solver.NewProblemSpec("x^3 - x - 1")
	spec.Guesses = []float64{1, 2}
	res := Secant(testFunctions(), spec)

	if !res.Converged {
		t.Fatalf("expected convergence, got %s: %s", res.ErrorCode, res.ErrorMessage)
	}
	if math.Abs(*res.Root-1.3247179572447) > 1e-5 {
		t.Fatalf("root = %g, want close to the plastic number", *res.Root)
	}
	if res.FunctionEvaluations != 2+res.Iterations {
		t.Fatalf("evaluations = %d, want %d", res.FunctionEvaluations, 2+res.Iterations)
	}
}

func TestSecantStagnatesOnFlatFunction(t *testing.T) {
	spec := solver.NewProblemSpec("1")
	spec.Guesses = []float64{0, 1}
	res := Secant(testFunctions(), spec)

	if res.ErrorCode != solver.CodeStagnantSecant {
		t.Fatalf("expected StagnantSecant, got %s", res.ErrorCode)
	}
	if res.Iterations != 0 {
		t.Fatalf("stagnation at the start should record zero iterations, got %d", res.Iterations)
	}
	if res.FunctionEvaluations != 2 {
		t.Fatalf("evaluations = %d, want 2", res.FunctionEvaluations)
	}
	if res.Root == nil || *res.Root != 1 {
		t.Fatal("stagnation should preserve the newer iterate")
	}
}

func TestSecantRequiresTwoGuesses(t *testing.T) {
	spec := solver.NewProblemSpec("x^2 - 2")
	spec.Guesses = []float64{1.5}
	res := Secant(testFunctions(), spec)

	if res.ErrorCode != solver.CodeInvalidInput {
		t.Fatalf("expected InvalidInput, got %s", res.ErrorCode)
	}
}

// #endregion secant

// #region fixed-point

func TestFixedPointConvergesOnCosine(t *testing.T) {
	spec := solver.NewProblemSpec("cos(x)")
	spec.Guesses = []float64{0.5}
	res := FixedPoint(testFunctions(), spec)

	if !res.Converged {
		t.Fatalf("expected convergence, got %s: %s", res.ErrorCode, res.ErrorMessage)
	}
	if math.Abs(*res.Root-0.7390851332151607) > 1e-5 {
		t.Fatalf("root = %g, want the Dottie number", *res.Root)
	}
	// One g evaluation per iteration, nothing upfront.
	if res.FunctionEvaluations != res.Iterations {
		t.Fatalf("evaluations = %d, want %d", res.FunctionEvaluations, res.Iterations)
	}
}

func TestFixedPointDetectsDivergence(t *testing.T) {
	spec := solver.NewProblemSpec("100*x")
	spec.Guesses = []float64{1}
	res := FixedPoint(testFunctions(), spec)

	if res.ErrorCode != solver.CodeDivergence {
		t.Fatalf("expected Divergence, got %s", res.ErrorCode)
	}
	if res.Converged {
		t.Fatal("divergence must not report convergence")
	}
	// Growth by 100x from 1 crosses 1e10 on the sixth step, well inside
	// the default budget.
	if res.Iterations >= solver.DefaultMaxIterations {
		t.Fatalf("divergence should stop early, ran %d iterations", res.Iterations)
	}
	if len(res.History) != res.Iterations {
		t.Fatalf("history has %d records for %d iterations", len(res.History), res.Iterations)
	}
}

func TestFixedPointResidualInHistory(t *testing.T) {
	spec := solver.NewProblemSpec("cos(x)")
	spec.Guesses = []float64{0.5}
	res := FixedPoint(testFunctions(), spec)

	first := res.History[0]
	want := math.Cos(0.5) - 0.5
	if math.Abs(first.FX-want) > 1e-12 {
		t.Fatalf("first residual = %g, want g(x0) - x0 = %g", first.FX, want)
	}
	if _, ok := first.Aux.(solver.FixedPointAux); !ok {
		t.Fatalf("aux is %T, want FixedPointAux", first.Aux)
	}
}

// #endregion fixed-point

// #region muller

func TestMullerConverges(t *testing.T) {
	spec := solver.NewProblemSpec("x^3 - x - 1")
	spec.Guesses = []float64{1, 1.5, 2}
	res := Muller(testFunctions(), spec)

	if !res.Converged {
		t.Fatalf("expected convergence, got %s: %s", res.ErrorCode, res.ErrorMessage)
	}
	if math.Abs(*res.Root-1.3247179572447) > 1e-5 {
		t.Fatalf("root = %g, want close to the plastic number", *res.Root)
	}
	if res.FunctionEvaluations != 3+res.Iterations {
		t.Fatalf("evaluations = %d, want %d", res.FunctionEvaluations, 3+res.Iterations)
	}
}

func TestMullerRecordsDiscriminant(t *testing.T) {
	spec := solver.NewProblemSpec("x^3 - x - 1")
	spec.Guesses = []float64{1, 1.5, 2}
	res := Muller(testFunctions(), spec)

	for _, rec := range res.History {
		if _, ok := rec.Aux.(solver.MullerAux); !ok {
			t.Fatalf("iteration %d aux is %T, want MullerAux", rec.Iteration, rec.Aux)
		}
	}
}

func TestMullerRequiresDistinctGuesses(t *testing.T) {
	spec := solver.NewProblemSpec("x^3 - x - 1")
	spec.Guesses = []float64{1, 1, 2}
	res := Muller(testFunctions(), spec)

	if res.ErrorCode != solver.CodeInvalidInput {
		t.Fatalf("expected InvalidInput, got %s", res.ErrorCode)
	}
}

func TestMullerRequiresThreeGuesses(t *testing.T) {
	spec := solver.NewProblemSpec("x^3 - x - 1")
	spec.Guesses = []float64{1, 2}
	res := Muller(testFunctions(), spec)

	if res.ErrorCode != solver.CodeInvalidInput {
		t.Fatalf("expected InvalidInput, got %s", res.ErrorCode)
	}
}

// #endregion muller

// #region evaluator-failure

// failingEvaluator errors after a fixed number of calls.
type failingEvaluator struct {
	inner expr.Evaluator
	after int
	calls int
}

func (f *failingEvaluator) Evaluate(expression string, x float64) (float64, error) {
	f.calls++
	if f.calls > f.after {
		return 0, fmt.Errorf("evaluator offline")
	}
	return f.inner.Evaluate(expression, x)
}

func TestEvaluationFailureMidRunPreservesHistory(t *testing.T) {
	ev := &failingEvaluator{inner: testFunctions(), after: 5}
	res := Bisection(ev, bracketSpec("x^2 - 2", 0, 2))

	if res.ErrorCode != solver.CodeEvaluationFailed {
		t.Fatalf("expected EvaluationFailed, got %s", res.ErrorCode)
	}
	if res.Converged {
		t.Fatal("evaluation failure must not report convergence")
	}
	// Two upfront probes plus three loop evaluations succeeded before the
	// failure, so three iterations are on record.
	if len(res.History) != 3 {
		t.Fatalf("history has %d records, want 3", len(res.History))
	}
	if res.Iterations != len(res.History) {
		t.Fatalf("iterations = %d, history = %d", res.Iterations, len(res.History))
	}
}

func TestUnknownExpressionFailsCleanly(t *testing.T) {
	res := Bisection(testFunctions(), bracketSpec("sinh(x)", 0, 2))

	if res.ErrorCode != solver.CodeEvaluationFailed {
		t.Fatalf("expected EvaluationFailed, got %s", res.ErrorCode)
	}
	if res.ErrorMessage == "" {
		t.Fatal("expected the evaluator failure message to propagate")
	}
}

// #endregion evaluator-failure
