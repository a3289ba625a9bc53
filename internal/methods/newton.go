package methods

import (
	"fmt"
	"math"
	"strings"

	"github.com/numcore/solver/internal/expr"
	"github.com/numcore/solver/internal/solver"
)

// #region newton-raphson

// NewtonRaphson iterates x ← x − f(x)/f'(x) from a single initial guess.
// The derivative expression must be supplied by the caller; it is never
// derived or approximated here. A derivative value within
// ZeroDenominatorEps of zero stops the run immediately with the history
// gathered so far.
func NewtonRaphson(ev expr.Evaluator, spec solver.ProblemSpec) solver.MethodResult {
	if v := solver.Validate(spec); v != nil {
		return solver.Rejection(solver.MethodNewtonRaphson, v.Code, v.Reason)
	}
	if strings.TrimSpace(spec.Derivative) == "" {
		return solver.Rejection(solver.MethodNewtonRaphson, solver.CodeMissingDerivative,
			"newton-raphson requires a derivative expression")
	}
	if len(spec.Guesses) < 1 {
		return solver.Rejection(solver.MethodNewtonRaphson, solver.CodeInvalidInput,
			"newton-raphson requires one initial guess")
	}

	c := &counter{ev: ev}
	x := spec.Guesses[0]
	fx, err := c.eval(spec.Expression, x)
	if err != nil {
		return evalFailed(solver.MethodNewtonRaphson, err, []solver.IterationRecord{}, c.count, nil)
	}

	history := make([]solver.IterationRecord, 0, spec.MaxIterations)
	for i := 1; i <= spec.MaxIterations; i++ {
		d, err := c.eval(spec.Derivative, x)
		if err != nil {
			return evalFailed(solver.MethodNewtonRaphson, err, history, c.count, solver.Float(x))
		}
		if math.Abs(d) < solver.ZeroDenominatorEps {
			return solver.MethodResult{
				Method:              solver.MethodNewtonRaphson,
				Root:                solver.Float(x),
				Iterations:          len(history),
				FunctionEvaluations: c.count,
				History:             history,
				ErrorCode:           solver.CodeZeroDerivative,
				ErrorMessage:        fmt.Sprintf("derivative vanished at x=%g", x),
			}
		}

		xNew := x - fx/d
		fNew, err := c.eval(spec.Expression, xNew)
		if err != nil {
			return evalFailed(solver.MethodNewtonRaphson, err, history, c.count, solver.Float(x))
		}

		errEst := math.Abs(xNew - x)
		history = append(history, solver.IterationRecord{
			Iteration: i,
			X:         xNew,
			FX:        fNew,
			Error:     solver.Float(errEst),
			Aux:       solver.NewtonAux{Derivative: d},
		})

		if math.Abs(fNew) < spec.Tolerance || errEst < spec.Tolerance {
			return solver.MethodResult{
				Method:              solver.MethodNewtonRaphson,
				Root:                solver.Float(xNew),
				Iterations:          len(history),
				Converged:           true,
				FinalError:          solver.Float(errEst),
				FunctionEvaluations: c.count,
				History:             history,
			}
		}

		x, fx = xNew, fNew
	}

	return solver.MethodResult{
		Method:              solver.MethodNewtonRaphson,
		Root:                solver.Float(x),
		Iterations:          len(history),
		FinalError:          solver.Float(math.Abs(fx)),
		FunctionEvaluations: c.count,
		History:             history,
		ErrorCode:           solver.CodeMaxIterations,
		ErrorMessage:        fmt.Sprintf("no convergence within %d iterations", spec.MaxIterations),
	}
}

// #endregion newton-raphson
