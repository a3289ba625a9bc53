package methods

import (
	"fmt"
	"math"

	"github.com/numcore/solver/internal/expr"
	"github.com/numcore/solver/internal/solver"
)

// #region bisection

// Bisection halves the bracket [A, B] until |f(c)| or the half-width
// drops under the tolerance. Requires a verified sign change over the
// bracket; guaranteed to converge on continuous functions.
func Bisection(ev expr.Evaluator, spec solver.ProblemSpec) solver.MethodResult {
	if v := solver.Validate(spec); v != nil {
		return solver.Rejection(solver.MethodBisection, v.Code, v.Reason)
	}

	a, b := spec.A, spec.B
	if a > b {
		a, b = b, a
	}

	c := &counter{ev: ev}
	fa, err := c.eval(spec.Expression, a)
	if err != nil {
		return evalFailed(solver.MethodBisection, err, []solver.IterationRecord{}, c.count, nil)
	}
	fb, err := c.eval(spec.Expression, b)
	if err != nil {
		return evalFailed(solver.MethodBisection, err, []solver.IterationRecord{}, c.count, nil)
	}

	if fa*fb > 0 {
		res := solver.Rejection(solver.MethodBisection, solver.CodeNoSignChange,
			fmt.Sprintf("no sign change over [%g, %g]: f(a)=%g, f(b)=%g", a, b, fa, fb))
		res.FunctionEvaluations = c.count
		return res
	}

	// Fast path: an endpoint already satisfies the function tolerance.
	if math.Abs(fa) < spec.Tolerance {
		return endpointRoot(solver.MethodBisection, a, c.count)
	}
	if math.Abs(fb) < spec.Tolerance {
		return endpointRoot(solver.MethodBisection, b, c.count)
	}

	history := make([]solver.IterationRecord, 0, spec.MaxIterations)
	var mid float64
	for i := 1; i <= spec.MaxIterations; i++ {
		mid = (a + b) / 2
		fm, err := c.eval(spec.Expression, mid)
		if err != nil {
			return evalFailed(solver.MethodBisection, err, history, c.count, solver.Float(mid))
		}

		errEst := (b - a) / 2
		history = append(history, solver.IterationRecord{
			Iteration: i,
			X:         mid,
			FX:        fm,
			Error:     solver.Float(errEst),
			Aux:       solver.BracketAux{A: a, B: b},
		})

		if math.Abs(fm) < spec.Tolerance || errEst < spec.Tolerance {
			return solver.MethodResult{
				Method:              solver.MethodBisection,
				Root:                solver.Float(mid),
				Iterations:          len(history),
				Converged:           true,
				FinalError:          solver.Float(errEst),
				FunctionEvaluations: c.count,
				History:             history,
			}
		}

		// The boundary case f(a)*f(mid) == 0 falls into the else branch
		// by construction: the bracket keeps [mid, b].
		if fa*fm < 0 {
			b, fb = mid, fm
		} else {
			a, fa = mid, fm
		}
	}

	return solver.MethodResult{
		Method:              solver.MethodBisection,
		Root:                solver.Float(mid),
		Iterations:          len(history),
		FinalError:          solver.Float((b - a) / 2),
		FunctionEvaluations: c.count,
		History:             history,
		ErrorCode:           solver.CodeMaxIterations,
		ErrorMessage:        fmt.Sprintf("no convergence within %d iterations", spec.MaxIterations),
	}
}

// #endregion bisection

// #region endpoint-root

// endpointRoot is the zero-iteration result for a bracket endpoint that
// already satisfies the function tolerance.
func endpointRoot(method solver.Method, x float64, evals int) solver.MethodResult {
	return solver.MethodResult{
		Method:              method,
		Root:                solver.Float(x),
		Converged:           true,
		FunctionEvaluations: evals,
		History:             []solver.IterationRecord{},
	}
}

// #endregion endpoint-root
