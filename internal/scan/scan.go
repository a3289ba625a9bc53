// Package scan implements fixed-step incremental search for bracket
// discovery: sample f over a range, report every adjacent sample pair
// with opposite signs as a candidate bracket for the bracketing methods.
package scan

import (
	"fmt"
	"math"
	"strings"

	"github.com/numcore/solver/internal/expr"
)

// #region types

// Sample is one (x, f(x)) probe of the scanned range.
type Sample struct {
	X  float64
	FX float64
}

// Bracket is an adjacent sample pair with opposite signs. By the
// intermediate value theorem a continuous f has at least one root inside.
type Bracket struct {
	A  float64
	B  float64
	FA float64
	FB float64
}

// Result is the complete scanner output.
type Result struct {
	Samples  []Sample
	Brackets []Bracket
}

// Request is the scanner input. Start must be below End and Increment
// positive.
type Request struct {
	Expression string
	Start      float64
	End        float64
	Increment  float64
}

// #endregion types

// #region scan

// Scan samples the expression at Start, Start+Increment, … up to End
// (the final step is clamped to End when the range is not a multiple of
// the increment) and collects sign-change brackets.
func Scan(ev expr.Evaluator, req Request) (Result, error) {
	if strings.TrimSpace(req.Expression) == "" {
		return Result{}, fmt.Errorf("scan: expression is empty")
	}
	if req.Start >= req.End {
		return Result{}, fmt.Errorf("scan: start %g must be below end %g", req.Start, req.End)
	}
	if req.Increment <= 0 {
		return Result{}, fmt.Errorf("scan: increment must be positive, got %g", req.Increment)
	}

	res := Result{
		Samples:  []Sample{},
		Brackets: []Bracket{},
	}

	x := req.Start
	fx, err := ev.Evaluate(req.Expression, x)
	if err != nil {
		return Result{}, fmt.Errorf("scan: %w", err)
	}
	res.Samples = append(res.Samples, Sample{X: x, FX: fx})

	for x < req.End {
		xNext := math.Min(x+req.Increment, req.End)
		fNext, err := ev.Evaluate(req.Expression, xNext)
		if err != nil {
			return Result{}, fmt.Errorf("scan: %w", err)
		}
		res.Samples = append(res.Samples, Sample{X: xNext, FX: fNext})

		if fx*fNext < 0 {
			res.Brackets = append(res.Brackets, Bracket{A: x, B: xNext, FA: fx, FB: fNext})
		}

		x, fx = xNext, fNext
	}

	return res, nil
}

// #endregion scan
