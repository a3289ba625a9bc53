// Package deriv provides finite-difference derivative approximations.
// These serve the analysis tooling (bracket search, initial-guess
// screening); Newton-Raphson never falls back to them — it requires a
// caller-supplied derivative expression.
package deriv

import "github.com/numcore/solver/internal/expr"

// #region step

// DefaultStep is the finite-difference step size.
const DefaultStep = 1e-8

// #endregion step

// #region differences

// Forward approximates f'(x) as (f(x+h) − f(x)) / h.
func Forward(ev expr.Evaluator, expression string, x, h float64) (float64, error) {
	if h == 0 {
		h = DefaultStep
	}
	fxh, err := ev.Evaluate(expression, x+h)
	if err != nil {
		return 0, err
	}
	fx, err := ev.Evaluate(expression, x)
	if err != nil {
		return 0, err
	}
	return (fxh - fx) / h, nil
}

// Central approximates f'(x) as (f(x+h) − f(x−h)) / 2h. Second-order
// accurate; preferred when both side evaluations are cheap.
func Central(ev expr.Evaluator, expression string, x, h float64) (float64, error) {
	if h == 0 {
		h = DefaultStep
	}
	right, err := ev.Evaluate(expression, x+h)
	if err != nil {
		return 0, err
	}
	left, err := ev.Evaluate(expression, x-h)
	if err != nil {
		return 0, err
	}
	return (right - left) / (2 * h), nil
}

// Backward approximates f'(x) as (f(x) − f(x−h)) / h.
func Backward(ev expr.Evaluator, expression string, x, h float64) (float64, error) {
	if h == 0 {
		h = DefaultStep
	}
	fx, err := ev.Evaluate(expression, x)
	if err != nil {
		return 0, err
	}
	fxh, err := ev.Evaluate(expression, x-h)
	if err != nil {
		return 0, err
	}
	return (fx - fxh) / h, nil
}

// #endregion differences
