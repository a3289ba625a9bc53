package compare

import (
	"math"
	"testing"

	"github.com/numcore/solver/internal/expr"
	"github.com/numcore/solver/internal/solver"
)

func table() expr.FuncMap {
	return expr.FuncMap{
		"x^2 - 2":          func(x float64) float64 { return x*x - 2 },
		"2*x":              func(x float64) float64 { return 2 * x },
		"x - (x^2 - 2)/10": func(x float64) float64 { return x - (x*x-2)/10 },
	}
}

func sqrtTwoSpec() solver.ProblemSpec {
	spec := solver.NewProblemSpec("x^2 - 2").WithInterval(1, 2)
	spec.Derivative = "2*x"
	return spec
}

// #region orchestration

func TestRunAllSixMethods(t *testing.T) {
	cmp := New(table()).Run(sqrtTwoSpec())

	if len(cmp.Results) != 6 {
		t.Fatalf("ran %d slots, want 6 with a derivative present", len(cmp.Results))
	}
	for _, m := range []solver.Method{
		solver.MethodBisection, solver.MethodFalsePosition, solver.MethodNewtonRaphson,
		solver.MethodSecant, solver.MethodFixedPoint, solver.MethodMuller,
	} {
		res, ok := cmp.Get(m)
		if !ok {
			t.Fatalf("missing slot for %s", m)
		}
		if !res.Converged {
			t.Fatalf("%s did not converge: %s %s", m, res.ErrorCode, res.ErrorMessage)
		}
		if math.Abs(*res.Root-math.Sqrt2) > 1e-4 {
			t.Fatalf("%s root = %g, want %g", m, *res.Root, math.Sqrt2)
		}
	}
}

func TestRunSkipsNewtonWithoutDerivative(t *testing.T) {
	spec := sqrtTwoSpec()
	spec.Derivative = ""
	cmp := New(table()).Run(spec)

	if len(cmp.Results) != 5 {
		t.Fatalf("ran %d slots, want 5 without a derivative", len(cmp.Results))
	}
	if _, ok := cmp.Get(solver.MethodNewtonRaphson); ok {
		t.Fatal("newton slot must be absent without a derivative expression")
	}
}

func TestRunDerivesGuessesFromInterval(t *testing.T) {
	// The spec carries no guesses; the open methods get midpoint and
	// endpoints derived from [1, 2] and still converge.
	cmp := New(table()).Run(sqrtTwoSpec())

	for _, m := range []solver.Method{solver.MethodSecant, solver.MethodMuller} {
		res, _ := cmp.Get(m)
		if !res.Converged {
			t.Fatalf("%s with derived guesses did not converge: %s", m, res.ErrorMessage)
		}
	}
}

// #endregion orchestration

// #region isolation

// explodingTable panics when the fixed-point transform is evaluated.
type explodingTable struct {
	inner expr.FuncMap
}

func (e explodingTable) Evaluate(expression string, x float64) (float64, error) {
	if expression == "x - (x^2 - 2)/10" {
		panic("table corrupted")
	}
	return e.inner.Evaluate(expression, x)
}

func TestPanicConfinedToItsSlot(t *testing.T) {
	cmp := New(explodingTable{inner: table()}).Run(sqrtTwoSpec())

	if len(cmp.Results) != 6 {
		t.Fatalf("ran %d slots, want all 6 despite the panic", len(cmp.Results))
	}
	fp, ok := cmp.Get(solver.MethodFixedPoint)
	if !ok {
		t.Fatal("panicking slot must still be present")
	}
	if fp.ErrorCode != solver.CodeEvaluationFailed {
		t.Fatalf("panicking slot tagged %s, want EvaluationFailed", fp.ErrorCode)
	}
	bis, _ := cmp.Get(solver.MethodBisection)
	if !bis.Converged {
		t.Fatal("other slots must be unaffected by the panic")
	}
}

// #endregion isolation

// #region reference

func TestReferenceDeduplicatesRoots(t *testing.T) {
	spec := solver.NewProblemSpec("x^2 - 4").WithInterval(-3, 3)
	cmp := Comparison{
		Spec: spec,
		Results: []solver.MethodResult{
			{Method: solver.MethodBisection, Converged: true, Root: solver.Float(2.0)},
			{Method: solver.MethodNewtonRaphson, Converged: true, Root: solver.Float(2.0 + spec.Tolerance/2)},
			{Method: solver.MethodSecant, Converged: true, Root: solver.Float(-2.0)},
			{Method: solver.MethodMuller, ErrorCode: solver.CodeMaxIterations, Root: solver.Float(1.9)},
		},
	}

	ref := cmp.Reference()
	if ref.Equation != "x^2 - 4" {
		t.Fatalf("equation = %q, want the problem expression", ref.Equation)
	}
	// Two converged roots within tolerance collapse; the unconverged slot
	// contributes nothing.
	if len(ref.Roots) != 2 {
		t.Fatalf("got %d distinct roots, want 2", len(ref.Roots))
	}
	if ref.Roots[0] != 2.0 || ref.Roots[1] != -2.0 {
		t.Fatalf("roots = %v, want [2, -2] in slot order", ref.Roots)
	}
}

func TestConvergedFilters(t *testing.T) {
	cmp := New(explodingTable{inner: table()}).Run(sqrtTwoSpec())

	converged := cmp.Converged()
	if len(converged) != 5 {
		t.Fatalf("got %d converged slots, want 5 (fixed-point slot failed)", len(converged))
	}
}

// #endregion reference
