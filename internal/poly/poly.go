package poly

import (
	"fmt"
	"math"
	"strings"

	"github.com/numcore/solver/internal/solver"
)

// #region polynomial

// Polynomial holds coefficients ordered highest degree first.
// [1, -6, 11, -6] is x³ - 6x² + 11x - 6. Degree is len-1.
type Polynomial []float64

// Degree returns the polynomial degree, or -1 for an empty polynomial.
func (p Polynomial) Degree() int {
	return len(p) - 1
}

// String renders the polynomial in the evaluator's infix grammar,
// e.g. "x^3 - 6*x^2 + 11*x - 6". Zero coefficients are skipped; an
// all-zero polynomial renders as "0".
func (p Polynomial) String() string {
	if len(p) == 0 {
		return "0"
	}
	var b strings.Builder
	degree := p.Degree()
	for i, c := range p {
		if c == 0 && len(p) > 1 {
			continue
		}
		power := degree - i
		if b.Len() == 0 {
			if c < 0 {
				b.WriteString("-")
			}
		} else {
			if c < 0 {
				b.WriteString(" - ")
			} else {
				b.WriteString(" + ")
			}
		}
		abs := math.Abs(c)
		switch {
		case power == 0:
			fmt.Fprintf(&b, "%g", abs)
		case abs == 1:
			b.WriteString(powTerm(power))
		default:
			fmt.Fprintf(&b, "%g*%s", abs, powTerm(power))
		}
	}
	if b.Len() == 0 {
		return "0"
	}
	return b.String()
}

func powTerm(power int) string {
	if power == 1 {
		return "x"
	}
	return fmt.Sprintf("x^%d", power)
}

// #endregion polynomial

// #region horner

// HornerStep is one multiply-add of the nested evaluation.
type HornerStep struct {
	Coefficient    float64 // coefficient folded in at this step
	Multiplication float64 // running value * x before the add
	Value          float64 // running value after the add
}

// HornerResult is the evaluated value plus the per-step trace.
type HornerResult struct {
	X     float64
	Value float64
	Trace []HornerStep
}

// EvaluateTrace evaluates the polynomial at x by Horner's rule, recording
// one trace entry per coefficient. O(n), no allocation beyond the trace.
func (p Polynomial) EvaluateTrace(x float64) HornerResult {
	if len(p) == 0 {
		return HornerResult{X: x, Value: 0, Trace: []HornerStep{}}
	}
	trace := make([]HornerStep, 0, len(p))
	result := p[0]
	trace = append(trace, HornerStep{Coefficient: p[0], Multiplication: 0, Value: result})
	for _, c := range p[1:] {
		mul := result * x
		result = mul + c
		trace = append(trace, HornerStep{Coefficient: c, Multiplication: mul, Value: result})
	}
	return HornerResult{X: x, Value: result, Trace: trace}
}

// Evaluate is EvaluateTrace without the trace allocation.
func (p Polynomial) Evaluate(x float64) float64 {
	if len(p) == 0 {
		return 0
	}
	result := p[0]
	for _, c := range p[1:] {
		result = result*x + c
	}
	return result
}

// Func adapts the polynomial for expr.FuncMap tables.
func (p Polynomial) Func() func(float64) float64 {
	return func(x float64) float64 { return p.Evaluate(x) }
}

// EvaluateWithDerivative evaluates p and p' at x in one pass.
func (p Polynomial) EvaluateWithDerivative(x float64) (value, derivative float64) {
	if len(p) == 0 {
		return 0, 0
	}
	value = p[0]
	derivative = 0
	for _, c := range p[1:] {
		derivative = derivative*x + value
		value = value*x + c
	}
	return value, derivative
}

// DerivativeCoefficients returns the coefficients of p'.
// A constant (or empty) polynomial differentiates to [0].
func (p Polynomial) DerivativeCoefficients() Polynomial {
	if len(p) <= 1 {
		return Polynomial{0}
	}
	degree := p.Degree()
	out := make(Polynomial, 0, len(p)-1)
	for i, c := range p[:len(p)-1] {
		out = append(out, float64(degree-i)*c)
	}
	return out
}

// #endregion horner

// #region deflation

// SyntheticStep is one bring-down/multiply-add of synthetic division.
type SyntheticStep struct {
	Coefficient    float64 // input coefficient brought down
	Multiplication float64 // previous running value * root
	Value          float64 // coefficient + multiplication
}

// DeflationStep is the outcome of dividing by (x - root) once.
type DeflationStep struct {
	Root        float64
	Before      Polynomial
	Quotient    Polynomial
	Remainder   float64
	IsExactRoot bool // |remainder| < solver.ExactRootEps
	Trace       []SyntheticStep
}

// Deflate divides p by (x - root) via synthetic division. The degenerate
// single-coefficient input yields an empty quotient with the coefficient
// itself as remainder.
func (p Polynomial) Deflate(root float64) DeflationStep {
	step := DeflationStep{
		Root:   root,
		Before: append(Polynomial(nil), p...),
		Trace:  []SyntheticStep{},
	}
	if len(p) == 0 {
		step.Quotient = Polynomial{}
		step.IsExactRoot = true
		return step
	}
	if len(p) == 1 {
		step.Quotient = Polynomial{}
		step.Remainder = p[0]
		step.IsExactRoot = math.Abs(step.Remainder) < solver.ExactRootEps
		step.Trace = append(step.Trace, SyntheticStep{Coefficient: p[0], Multiplication: 0, Value: p[0]})
		return step
	}

	running := p[0]
	step.Trace = append(step.Trace, SyntheticStep{Coefficient: p[0], Multiplication: 0, Value: running})
	quotient := make(Polynomial, 0, len(p)-1)
	quotient = append(quotient, running)
	for _, c := range p[1:] {
		mul := running * root
		running = c + mul
		step.Trace = append(step.Trace, SyntheticStep{Coefficient: c, Multiplication: mul, Value: running})
		quotient = append(quotient, running)
	}

	// Last running value is the remainder, not a quotient coefficient.
	step.Remainder = quotient[len(quotient)-1]
	step.Quotient = quotient[:len(quotient)-1]
	step.IsExactRoot = math.Abs(step.Remainder) < solver.ExactRootEps
	return step
}

// #endregion deflation

// #region successive-deflation

// DeflationRun aggregates successive deflation by an ordered root list.
type DeflationRun struct {
	Steps         []DeflationStep
	Final         Polynomial
	AllExactRoots bool
}

// DeflateAll applies Deflate once per candidate root in order, feeding
// each quotient into the next step. A quotient reduced to a lone
// constant holds no further roots and is discarded, so peeling every
// root of the polynomial leaves an empty final polynomial. Stops early
// once nothing is left to deflate. AllExactRoots is the conjunction of
// every step's exactness.
func (p Polynomial) DeflateAll(roots []float64) DeflationRun {
	run := DeflationRun{
		Steps:         []DeflationStep{},
		Final:         append(Polynomial(nil), p...),
		AllExactRoots: true,
	}
	current := p
	for _, r := range roots {
		if len(current) == 0 {
			break
		}
		step := current.Deflate(r)
		run.Steps = append(run.Steps, step)
		if !step.IsExactRoot {
			run.AllExactRoots = false
		}
		current = step.Quotient
		if len(current) == 1 {
			current = Polynomial{}
			break
		}
	}
	run.Final = current
	return run
}

// #endregion successive-deflation
