package methods

import (
	"fmt"
	"math"

	"github.com/numcore/solver/internal/expr"
	"github.com/numcore/solver/internal/solver"
)

// #region fixed-point

// FixedPoint iterates x ← g(x). The spec's Expression holds g, already
// solved for x = g(x); convergence is judged on the step size alone.
// An iterate with magnitude above DivergenceLimit stops the run on the
// spot rather than burning the remaining budget.
func FixedPoint(ev expr.Evaluator, spec solver.ProblemSpec) solver.MethodResult {
	if v := solver.Validate(spec); v != nil {
		return solver.Rejection(solver.MethodFixedPoint, v.Code, v.Reason)
	}
	if len(spec.Guesses) < 1 {
		return solver.Rejection(solver.MethodFixedPoint, solver.CodeInvalidInput,
			"fixed-point requires one initial guess")
	}

	c := &counter{ev: ev}
	x := spec.Guesses[0]
	history := make([]solver.IterationRecord, 0, spec.MaxIterations)

	for i := 1; i <= spec.MaxIterations; i++ {
		xNew, err := c.eval(spec.Expression, x)
		if err != nil {
			return evalFailed(solver.MethodFixedPoint, err, history, c.count, solver.Float(x))
		}

		errEst := math.Abs(xNew - x)
		// FX is the fixed-point residual g(x) − x at the previous iterate.
		history = append(history, solver.IterationRecord{
			Iteration: i,
			X:         xNew,
			FX:        xNew - x,
			Error:     solver.Float(errEst),
			Aux:       solver.FixedPointAux{G: xNew},
		})

		if math.Abs(xNew) > solver.DivergenceLimit || math.IsNaN(xNew) || math.IsInf(xNew, 0) {
			return solver.MethodResult{
				Method:              solver.MethodFixedPoint,
				Root:                solver.Float(xNew),
				Iterations:          len(history),
				FinalError:          solver.Float(errEst),
				FunctionEvaluations: c.count,
				History:             history,
				ErrorCode:           solver.CodeDivergence,
				ErrorMessage:        fmt.Sprintf("iterate magnitude %g exceeded %g at iteration %d", math.Abs(xNew), float64(solver.DivergenceLimit), i),
			}
		}

		if errEst < spec.Tolerance {
			return solver.MethodResult{
				Method:              solver.MethodFixedPoint,
				Root:                solver.Float(xNew),
				Iterations:          len(history),
				Converged:           true,
				FinalError:          solver.Float(errEst),
				FunctionEvaluations: c.count,
				History:             history,
			}
		}

		x = xNew
	}

	return solver.MethodResult{
		Method:              solver.MethodFixedPoint,
		Root:                solver.Float(x),
		Iterations:          len(history),
		FunctionEvaluations: c.count,
		History:             history,
		ErrorCode:           solver.CodeMaxIterations,
		ErrorMessage:        fmt.Sprintf("no convergence within %d iterations", spec.MaxIterations),
	}
}

// #endregion fixed-point
