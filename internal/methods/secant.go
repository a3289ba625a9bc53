package methods

import (
	"fmt"
	"math"

	"github.com/numcore/solver/internal/expr"
	"github.com/numcore/solver/internal/solver"
)

// #region secant

// Secant replaces the Newton derivative with the finite-difference slope
// through the last two iterates. Needs two initial points and no
// derivative. A collapsed denominator |f(x1) − f(x0)| is fatal.
func Secant(ev expr.Evaluator, spec solver.ProblemSpec) solver.MethodResult {
	if v := solver.Validate(spec); v != nil {
		return solver.Rejection(solver.MethodSecant, v.Code, v.Reason)
	}
	if len(spec.Guesses) < 2 {
		return solver.Rejection(solver.MethodSecant, solver.CodeInvalidInput,
			"secant requires two initial guesses")
	}

	c := &counter{ev: ev}
	x0, x1 := spec.Guesses[0], spec.Guesses[1]
	f0, err := c.eval(spec.Expression, x0)
	if err != nil {
		return evalFailed(solver.MethodSecant, err, []solver.IterationRecord{}, c.count, nil)
	}
	f1, err := c.eval(spec.Expression, x1)
	if err != nil {
		return evalFailed(solver.MethodSecant, err, []solver.IterationRecord{}, c.count, nil)
	}

	history := make([]solver.IterationRecord, 0, spec.MaxIterations)
	for i := 1; i <= spec.MaxIterations; i++ {
		if math.Abs(f1-f0) < solver.ZeroDenominatorEps {
			return solver.MethodResult{
				Method:              solver.MethodSecant,
				Root:                solver.Float(x1),
				Iterations:          len(history),
				FunctionEvaluations: c.count,
				History:             history,
				ErrorCode:           solver.CodeStagnantSecant,
				ErrorMessage:        fmt.Sprintf("secant stagnated: f(%g)=%g, f(%g)=%g", x0, f0, x1, f1),
			}
		}

		slope := (f1 - f0) / (x1 - x0)
		x2 := x1 - f1*(x1-x0)/(f1-f0)
		f2, err := c.eval(spec.Expression, x2)
		if err != nil {
			return evalFailed(solver.MethodSecant, err, history, c.count, solver.Float(x1))
		}

		errEst := math.Abs(x2 - x1)
		history = append(history, solver.IterationRecord{
			Iteration: i,
			X:         x2,
			FX:        f2,
			Error:     solver.Float(errEst),
			Aux:       solver.SecantAux{Slope: slope},
		})

		if math.Abs(f2) < spec.Tolerance || errEst < spec.Tolerance {
			return solver.MethodResult{
				Method:              solver.MethodSecant,
				Root:                solver.Float(x2),
				Iterations:          len(history),
				Converged:           true,
				FinalError:          solver.Float(errEst),
				FunctionEvaluations: c.count,
				History:             history,
			}
		}

		x0, f0 = x1, f1
		x1, f1 = x2, f2
	}

	return solver.MethodResult{
		Method:              solver.MethodSecant,
		Root:                solver.Float(x1),
		Iterations:          len(history),
		FinalError:          solver.Float(math.Abs(f1)),
		FunctionEvaluations: c.count,
		History:             history,
		ErrorCode:           solver.CodeMaxIterations,
		ErrorMessage:        fmt.Sprintf("no convergence within %d iterations", spec.MaxIterations),
	}
}

// #endregion secant
