package fixture

import (
	"fmt"
	"math"

	"github.com/numcore/solver/internal/compare"
	"github.com/numcore/solver/internal/expr"
	"github.com/numcore/solver/internal/solver"
)

// #region types

// Check is the outcome of matching one expectation against the run.
type Check struct {
	Method string
	Passed bool
	Reason string
}

// Summary provides aggregate stats from a fixture run.
type Summary struct {
	TotalChecks int
	Passed      int
	Failed      int
	Checks      []Check
}

// OK reports whether every expectation held.
func (s Summary) OK() bool {
	return s.Failed == 0
}

// #endregion types

// #region harness

// Run executes the fixture's problem through the comparison orchestrator
// and matches each expectation against its method slot.
func Run(ev expr.Evaluator, f *Fixture) Summary {
	spec := f.Problem.ToSpec()
	cmp := compare.New(ev).Run(spec)

	s := Summary{}
	for _, want := range f.Expectations {
		s.Checks = append(s.Checks, check(cmp, want))
	}
	s.TotalChecks = len(s.Checks)
	for _, c := range s.Checks {
		if c.Passed {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}

// check matches one expectation against the comparison result.
func check(cmp compare.Comparison, want FixtureExpectation) Check {
	res, ok := cmp.Get(solver.Method(want.Method))
	if !ok {
		return Check{Method: want.Method, Reason: "method did not run"}
	}
	if res.Converged != want.Converged {
		return Check{Method: want.Method,
			Reason: fmt.Sprintf("converged = %v, want %v", res.Converged, want.Converged)}
	}
	if want.ErrorCode != "" && string(res.ErrorCode) != want.ErrorCode {
		return Check{Method: want.Method,
			Reason: fmt.Sprintf("error code = %q, want %q", res.ErrorCode, want.ErrorCode)}
	}
	if want.Root != nil {
		if res.Root == nil {
			return Check{Method: want.Method, Reason: "no root, expected one"}
		}
		band := want.RootTolerance
		if band <= 0 {
			band = cmp.Spec.Tolerance
		}
		if math.Abs(*res.Root-*want.Root) > band {
			return Check{Method: want.Method,
				Reason: fmt.Sprintf("root = %g, want %g within %g", *res.Root, *want.Root, band)}
		}
	}
	if want.MaxIterations > 0 && res.Iterations > want.MaxIterations {
		return Check{Method: want.Method,
			Reason: fmt.Sprintf("took %d iterations, budget %d", res.Iterations, want.MaxIterations)}
	}
	return Check{Method: want.Method, Passed: true}
}

// #endregion harness
