package methods

import (
	"fmt"
	"math"

	"github.com/numcore/solver/internal/expr"
	"github.com/numcore/solver/internal/solver"
)

// #region false-position

// FalsePosition (regula falsi) replaces the bisection midpoint with the
// secant-line crossing of the bracket. The stopping test is |f(c)| < tol
// only — no interval-width check — which preserves the classical stalling
// behavior when one endpoint never moves on asymmetric functions.
func FalsePosition(ev expr.Evaluator, spec solver.ProblemSpec) solver.MethodResult {
	if v := solver.Validate(spec); v != nil {
		return solver.Rejection(solver.MethodFalsePosition, v.Code, v.Reason)
	}

	a, b := spec.A, spec.B
	if a > b {
		a, b = b, a
	}

	c := &counter{ev: ev}
	fa, err := c.eval(spec.Expression, a)
	if err != nil {
		return evalFailed(solver.MethodFalsePosition, err, []solver.IterationRecord{}, c.count, nil)
	}
	fb, err := c.eval(spec.Expression, b)
	if err != nil {
		return evalFailed(solver.MethodFalsePosition, err, []solver.IterationRecord{}, c.count, nil)
	}

	if fa*fb > 0 {
		res := solver.Rejection(solver.MethodFalsePosition, solver.CodeNoSignChange,
			fmt.Sprintf("no sign change over [%g, %g]: f(a)=%g, f(b)=%g", a, b, fa, fb))
		res.FunctionEvaluations = c.count
		return res
	}

	if math.Abs(fa) < spec.Tolerance {
		return endpointRoot(solver.MethodFalsePosition, a, c.count)
	}
	if math.Abs(fb) < spec.Tolerance {
		return endpointRoot(solver.MethodFalsePosition, b, c.count)
	}

	history := make([]solver.IterationRecord, 0, spec.MaxIterations)
	var x float64
	for i := 1; i <= spec.MaxIterations; i++ {
		x = b - fb*(b-a)/(fb-fa)
		fx, err := c.eval(spec.Expression, x)
		if err != nil {
			return evalFailed(solver.MethodFalsePosition, err, history, c.count, solver.Float(x))
		}

		errEst := math.Min(math.Abs(x-a), math.Abs(x-b))
		history = append(history, solver.IterationRecord{
			Iteration: i,
			X:         x,
			FX:        fx,
			Error:     solver.Float(errEst),
			Aux:       solver.BracketAux{A: a, B: b},
		})

		if math.Abs(fx) < spec.Tolerance {
			return solver.MethodResult{
				Method:              solver.MethodFalsePosition,
				Root:                solver.Float(x),
				Iterations:          len(history),
				Converged:           true,
				FinalError:          solver.Float(errEst),
				FunctionEvaluations: c.count,
				History:             history,
			}
		}

		// Same bracket rule as bisection; f(a)*f(x) == 0 keeps [x, b].
		if fa*fx < 0 {
			b, fb = x, fx
		} else {
			a, fa = x, fx
		}
	}

	return solver.MethodResult{
		Method:              solver.MethodFalsePosition,
		Root:                solver.Float(x),
		Iterations:          len(history),
		FinalError:          solver.Float(math.Min(math.Abs(x-a), math.Abs(x-b))),
		FunctionEvaluations: c.count,
		History:             history,
		ErrorCode:           solver.CodeMaxIterations,
		ErrorMessage:        fmt.Sprintf("no convergence within %d iterations", spec.MaxIterations),
	}
}

// #endregion false-position
