package expr

import "fmt"

// #region evaluator-interface

// Evaluator abstracts the string-expression evaluation capability so the
// numeric core can be tested with deterministic evaluators and stays
// decoupled from any particular expression grammar. Production wiring uses
// the gRPC client in internal/evalrpc.
//
// The expression grammar is owned by the external service: standard infix
// math (+ - * / ^, parentheses), functions sin/cos/exp/ln, variable x.
type Evaluator interface {
	Evaluate(expression string, x float64) (float64, error)
}

// #endregion evaluator-interface

// #region eval-error

// EvalError reports a parse or evaluation failure from the evaluator.
type EvalError struct {
	Expression string
	X          float64
	Err        error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("evaluate %q at x=%g: %v", e.Expression, e.X, e.Err)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

// #endregion eval-error

// #region func-map

// FuncMap is an in-process Evaluator backed by a table of Go functions
// keyed by expression string. Used by tests and by the seeded problem
// catalog, where every expression has a known closed form.
type FuncMap map[string]func(float64) float64

// Evaluate looks the expression up in the table.
func (m FuncMap) Evaluate(expression string, x float64) (float64, error) {
	fn, ok := m[expression]
	if !ok {
		return 0, &EvalError{Expression: expression, X: x, Err: fmt.Errorf("unknown expression")}
	}
	return fn(x), nil
}

// #endregion func-map
