package methods

import (
	"fmt"
	"math"

	"github.com/numcore/solver/internal/expr"
	"github.com/numcore/solver/internal/solver"
)

// #region muller

// Muller fits a quadratic through the last three iterates and steps to
// its nearer root. On a negative discriminant the next iterate is the
// real part x2 − b/(2a) with the imaginary part discarded — complex-root
// output is out of scope, so the approximation is deliberate. The
// denominator sign is chosen for the larger magnitude to avoid
// catastrophic cancellation.
func Muller(ev expr.Evaluator, spec solver.ProblemSpec) solver.MethodResult {
	if v := solver.Validate(spec); v != nil {
		return solver.Rejection(solver.MethodMuller, v.Code, v.Reason)
	}
	if len(spec.Guesses) < 3 {
		return solver.Rejection(solver.MethodMuller, solver.CodeInvalidInput,
			"muller requires three initial guesses")
	}
	x0, x1, x2 := spec.Guesses[0], spec.Guesses[1], spec.Guesses[2]
	if x0 == x1 || x1 == x2 || x0 == x2 {
		return solver.Rejection(solver.MethodMuller, solver.CodeInvalidInput,
			"muller requires three distinct initial guesses")
	}

	c := &counter{ev: ev}
	f0, err := c.eval(spec.Expression, x0)
	if err != nil {
		return evalFailed(solver.MethodMuller, err, []solver.IterationRecord{}, c.count, nil)
	}
	f1, err := c.eval(spec.Expression, x1)
	if err != nil {
		return evalFailed(solver.MethodMuller, err, []solver.IterationRecord{}, c.count, nil)
	}
	f2, err := c.eval(spec.Expression, x2)
	if err != nil {
		return evalFailed(solver.MethodMuller, err, []solver.IterationRecord{}, c.count, nil)
	}

	history := make([]solver.IterationRecord, 0, spec.MaxIterations)
	for i := 1; i <= spec.MaxIterations; i++ {
		h0 := x1 - x0
		h1 := x2 - x1
		d0 := (f1 - f0) / h0
		d1 := (f2 - f1) / h1

		// Local quadratic a·t² + b·t + c in t = x − x2, c = y2.
		qa := (d1 - d0) / (h1 + h0)
		qb := qa*h1 + d1
		qc := f2
		disc := qb*qb - 4*qa*qc

		var x3 float64
		if disc < 0 {
			// Complex pair; keep the real part of the root.
			x3 = x2 - qb/(2*qa)
		} else {
			sq := math.Sqrt(disc)
			den := qb + sq
			if math.Abs(qb-sq) > math.Abs(den) {
				den = qb - sq
			}
			if math.Abs(den) < solver.ZeroDenominatorEps {
				return solver.MethodResult{
					Method:              solver.MethodMuller,
					Root:                solver.Float(x2),
					Iterations:          len(history),
					FunctionEvaluations: c.count,
					History:             history,
					ErrorCode:           solver.CodeDivergence,
					ErrorMessage:        "quadratic model denominator vanished",
				}
			}
			x3 = x2 - 2*qc/den
		}

		f3, err := c.eval(spec.Expression, x3)
		if err != nil {
			return evalFailed(solver.MethodMuller, err, history, c.count, solver.Float(x2))
		}

		errEst := math.Abs(x3 - x2)
		history = append(history, solver.IterationRecord{
			Iteration: i,
			X:         x3,
			FX:        f3,
			Error:     solver.Float(errEst),
			Aux:       solver.MullerAux{Discriminant: disc},
		})

		if math.Abs(f3) < spec.Tolerance || errEst < spec.Tolerance {
			return solver.MethodResult{
				Method:              solver.MethodMuller,
				Root:                solver.Float(x3),
				Iterations:          len(history),
				Converged:           true,
				FinalError:          solver.Float(errEst),
				FunctionEvaluations: c.count,
				History:             history,
			}
		}

		x0, f0 = x1, f1
		x1, f1 = x2, f2
		x2, f2 = x3, f3
	}

	return solver.MethodResult{
		Method:              solver.MethodMuller,
		Root:                solver.Float(x2),
		Iterations:          len(history),
		FinalError:          solver.Float(math.Abs(f2)),
		FunctionEvaluations: c.count,
		History:             history,
		ErrorCode:           solver.CodeMaxIterations,
		ErrorMessage:        fmt.Sprintf("no convergence within %d iterations", spec.MaxIterations),
	}
}

// #endregion muller
