// Package analysis derives diagnostics from finished method runs and
// hunts for bracketing intervals around a starting point.
package analysis

import (
	"fmt"
	"math"

	"github.com/numcore/solver/internal/expr"
	"github.com/numcore/solver/internal/solver"
)

// #region summary

// Summary condenses a method run's convergence behavior.
type Summary struct {
	Status              string
	ConvergenceOrder    float64 // mean log-ratio of successive errors, 0 when unavailable
	Iterations          int
	FunctionEvaluations int
	EfficiencyIndex     float64 // evaluator calls per iteration
	FinalError          *float64
}

// Summarize estimates the observed convergence order from the error
// column of the iteration history. Needs at least three recorded errors;
// otherwise only the counters are filled in.
func Summarize(res solver.MethodResult) Summary {
	s := Summary{
		Status:              "insufficient data",
		Iterations:          res.Iterations,
		FunctionEvaluations: res.FunctionEvaluations,
		FinalError:          res.FinalError,
	}
	if res.Iterations > 0 {
		s.EfficiencyIndex = float64(res.FunctionEvaluations) / float64(res.Iterations)
	}

	var errs []float64
	for _, rec := range res.History {
		if rec.Error != nil && *rec.Error > 0 {
			errs = append(errs, *rec.Error)
		}
	}
	if len(errs) < 3 {
		return s
	}

	var sum float64
	var n int
	for i := 1; i < len(errs); i++ {
		prev, cur := errs[i-1], errs[i]
		if math.Log(prev) == 0 {
			continue
		}
		sum += math.Log(cur) / math.Log(prev)
		n++
	}
	if n == 0 {
		return s
	}
	s.Status = "ok"
	s.ConvergenceOrder = sum / float64(n)
	return s
}

// #endregion summary

// #region bracket-search

// BracketSearchConfig tunes the outward sign-change hunt.
type BracketSearchConfig struct {
	StepSize float64 // step width per probe
	MaxSteps int     // probes per direction
}

// DefaultBracketSearchConfig returns the standard search window.
func DefaultBracketSearchConfig() BracketSearchConfig {
	return BracketSearchConfig{
		StepSize: 1.0,
		MaxSteps: 100,
	}
}

// FindBracket walks outward from x0, first rightward then leftward,
// until f changes sign against f(x0). Returns the ordered bracket.
func FindBracket(ev expr.Evaluator, expression string, x0 float64, cfg BracketSearchConfig) (a, b float64, err error) {
	if cfg.StepSize <= 0 || cfg.MaxSteps <= 0 {
		return 0, 0, fmt.Errorf("bracket search: step size and max steps must be positive")
	}

	f0, err := ev.Evaluate(expression, x0)
	if err != nil {
		return 0, 0, fmt.Errorf("bracket search: %w", err)
	}

	x := x0
	for i := 0; i < cfg.MaxSteps; i++ {
		x += cfg.StepSize
		fx, err := ev.Evaluate(expression, x)
		if err != nil {
			return 0, 0, fmt.Errorf("bracket search: %w", err)
		}
		if f0*fx < 0 {
			return x0, x, nil
		}
	}

	x = x0
	for i := 0; i < cfg.MaxSteps; i++ {
		x -= cfg.StepSize
		fx, err := ev.Evaluate(expression, x)
		if err != nil {
			return 0, 0, fmt.Errorf("bracket search: %w", err)
		}
		if f0*fx < 0 {
			return x, x0, nil
		}
	}

	return 0, 0, fmt.Errorf("bracket search: no sign change within %d steps of %g", cfg.MaxSteps, x0)
}

// #endregion bracket-search
