// Package methods implements the six root-finding algorithms. Every
// entry point is a pure function of its ProblemSpec and evaluator; all
// expected numeric failure modes come back tagged on the MethodResult
// rather than as errors.
package methods

import (
	"github.com/numcore/solver/internal/expr"
	"github.com/numcore/solver/internal/solver"
)

// #region counter

// counter wraps an Evaluator and tracks the exact number of calls made,
// feeding MethodResult.FunctionEvaluations.
type counter struct {
	ev    expr.Evaluator
	count int
}

func (c *counter) eval(expression string, x float64) (float64, error) {
	c.count++
	return c.ev.Evaluate(expression, x)
}

// #endregion counter

// #region eval-failure

// evalFailed converts an evaluator error into a tagged result, preserving
// whatever history was gathered before the failure.
func evalFailed(method solver.Method, err error, history []solver.IterationRecord, evals int, root *float64) solver.MethodResult {
	return solver.MethodResult{
		Method:              method,
		Root:                root,
		Iterations:          len(history),
		FunctionEvaluations: evals,
		History:             history,
		ErrorCode:           solver.CodeEvaluationFailed,
		ErrorMessage:        err.Error(),
	}
}

// #endregion eval-failure
