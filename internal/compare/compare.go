// Package compare runs the applicable subset of methods against one
// problem and isolates per-method failures, so one blown method never
// hides the others' results.
package compare

import (
	"fmt"
	"log"
	"math"

	"github.com/numcore/solver/internal/expr"
	"github.com/numcore/solver/internal/methods"
	"github.com/numcore/solver/internal/solver"
)

// #region config

// FixedPointDivisor is the α in the heuristic transform g(x) = x − f(x)/α
// used to squeeze an arbitrary f into fixed-point form. Simplistic and
// not generally convergent — steep functions can diverge under it — so
// the fixed-point slot is a best-effort inclusion, not a guaranteed
// method choice.
const FixedPointDivisor = 10.0

// #endregion config

// #region comparison

// Comparison holds one result slot per method that ran.
type Comparison struct {
	Spec    solver.ProblemSpec
	Results []solver.MethodResult
}

// Get returns the result slot for a method, if it ran.
func (c Comparison) Get(method solver.Method) (solver.MethodResult, bool) {
	for _, r := range c.Results {
		if r.Method == method {
			return r, true
		}
	}
	return solver.MethodResult{}, false
}

// Converged returns the slots that achieved convergence.
func (c Comparison) Converged() []solver.MethodResult {
	var out []solver.MethodResult
	for _, r := range c.Results {
		if r.Converged {
			out = append(out, r)
		}
	}
	return out
}

// #endregion comparison

// #region reference

// Reference is the canonical numeric answer this core supplies to the
// external grading service: the equation string plus the converged
// root values, deduplicated within the problem tolerance.
type Reference struct {
	Equation string
	Roots    []float64
}

// Reference collects distinct converged roots across the slots.
func (c Comparison) Reference() Reference {
	ref := Reference{Equation: c.Spec.Expression}
	for _, r := range c.Converged() {
		if r.Root == nil {
			continue
		}
		dup := false
		for _, seen := range ref.Roots {
			if math.Abs(seen-*r.Root) <= c.Spec.Tolerance {
				dup = true
				break
			}
		}
		if !dup {
			ref.Roots = append(ref.Roots, *r.Root)
		}
	}
	return ref
}

// #endregion reference

// #region orchestrator

// Orchestrator fans one ProblemSpec out across the method library.
type Orchestrator struct {
	ev expr.Evaluator
}

// New creates an orchestrator bound to an evaluator.
func New(ev expr.Evaluator) *Orchestrator {
	return &Orchestrator{ev: ev}
}

// Run executes Bisection, False Position, Secant, and Muller always,
// Newton-Raphson only when a derivative expression is present, and
// Fixed-Point through the heuristic transform. Missing initial guesses
// are derived from the interval. Slot order is stable for rendering.
func (o *Orchestrator) Run(spec solver.ProblemSpec) Comparison {
	cmp := Comparison{Spec: spec}

	cmp.add(solver.MethodBisection, func() solver.MethodResult {
		return methods.Bisection(o.ev, spec)
	})
	cmp.add(solver.MethodFalsePosition, func() solver.MethodResult {
		return methods.FalsePosition(o.ev, spec)
	})
	if spec.Derivative != "" {
		cmp.add(solver.MethodNewtonRaphson, func() solver.MethodResult {
			return methods.NewtonRaphson(o.ev, spec.WithGuesses(guesses(spec, 1)...))
		})
	}
	cmp.add(solver.MethodSecant, func() solver.MethodResult {
		return methods.Secant(o.ev, spec.WithGuesses(guesses(spec, 2)...))
	})
	cmp.add(solver.MethodFixedPoint, func() solver.MethodResult {
		g := spec
		g.Expression = fmt.Sprintf("x - (%s)/%g", spec.Expression, FixedPointDivisor)
		g.Guesses = guesses(spec, 1)
		return methods.FixedPoint(o.ev, g)
	})
	cmp.add(solver.MethodMuller, func() solver.MethodResult {
		return methods.Muller(o.ev, spec.WithGuesses(guesses(spec, 3)...))
	})

	return cmp
}

// add runs one slot with panic isolation: a runaway method occupies its
// own slot as a tagged failure and the remaining slots still run.
func (c *Comparison) add(method solver.Method, run func() solver.MethodResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[COMPARE] %s panicked: %v", method, r)
			c.Results = append(c.Results, solver.Rejection(method, solver.CodeEvaluationFailed,
				fmt.Sprintf("internal failure: %v", r)))
		}
	}()
	c.Results = append(c.Results, run())
}

// guesses returns the spec's own guesses when enough were given, and
// otherwise derives them from the interval: midpoint, endpoints, or
// endpoints plus midpoint depending on how many the method needs.
func guesses(spec solver.ProblemSpec, n int) []float64 {
	if len(spec.Guesses) >= n {
		return spec.Guesses[:n]
	}
	mid := (spec.A + spec.B) / 2
	switch n {
	case 1:
		return []float64{mid}
	case 2:
		return []float64{spec.A, spec.B}
	default:
		return []float64{spec.A, mid, spec.B}
	}
}

// #endregion orchestrator
