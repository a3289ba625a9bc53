package catalog

import (
	"fmt"
	"math"
	"time"

	"github.com/numcore/solver/internal/expr"
	"github.com/numcore/solver/internal/solver"
)

// #region problem

// Problem is one catalog entry: an equation with the metadata the
// solver tools need to run it (interval, guesses, optional derivative,
// optional known root for verification).
type Problem struct {
	ID          string
	Name        string
	Expression  string
	Derivative  string
	A           float64
	B           float64
	Guesses     []float64
	KnownRoot   *float64
	Description string
	CreatedAt   time.Time
}

// Spec converts the entry into a ProblemSpec with default tolerance and
// iteration budget.
func (p Problem) Spec() solver.ProblemSpec {
	spec := solver.NewProblemSpec(p.Expression)
	spec.Derivative = p.Derivative
	spec.A, spec.B = p.A, p.B
	spec.Guesses = append([]float64(nil), p.Guesses...)
	return spec
}

// #endregion problem

// #region builtin-set

// builtin is one seeded problem with its closed-form implementations.
type builtin struct {
	Problem
	fn  func(float64) float64
	dfn func(float64) float64
}

// Builtins returns the seeded problem set recovered from the course
// material: polynomials, transcendentals, and the deflation showcase
// cubic with roots 1, 2, 3.
func Builtins() []Problem {
	out := make([]Problem, len(builtins))
	for i, b := range builtins {
		out[i] = b.Problem
	}
	return out
}

// Functions returns an in-process evaluator covering every builtin
// expression, derivative, and the orchestrator's fixed-point transform
// of each expression. Lets the CLI tools run without the remote
// evaluation service.
func Functions() expr.FuncMap {
	m := expr.FuncMap{}
	for _, b := range builtins {
		fn := b.fn
		m[b.Expression] = fn
		if b.Derivative != "" && b.dfn != nil {
			m[b.Derivative] = b.dfn
		}
		gKey := fmt.Sprintf("x - (%s)/%g", b.Expression, 10.0)
		m[gKey] = func(x float64) float64 { return x - fn(x)/10.0 }
	}
	return m
}

var builtins = []builtin{
	{
		Problem: Problem{
			Name:        "plastic-cubic",
			Expression:  "x^3 - x - 1",
			Derivative:  "3*x^2 - 1",
			A:           1,
			B:           2,
			Guesses:     []float64{1.5},
			KnownRoot:   solver.Float(1.3247179572447),
			Description: "Cubic polynomial, plastic number root",
		},
		fn:  func(x float64) float64 { return x*x*x - x - 1 },
		dfn: func(x float64) float64 { return 3*x*x - 1 },
	},
	{
		Problem: Problem{
			Name:        "sqrt-two",
			Expression:  "x^2 - 2",
			Derivative:  "2*x",
			A:           0,
			B:           2,
			Guesses:     []float64{1.5},
			KnownRoot:   solver.Float(math.Sqrt2),
			Description: "Quadratic, root at the square root of 2",
		},
		fn:  func(x float64) float64 { return x*x - 2 },
		dfn: func(x float64) float64 { return 2 * x },
	},
	{
		Problem: Problem{
			Name:        "simple-quadratic",
			Expression:  "x^2 - 4",
			Derivative:  "2*x",
			A:           1,
			B:           3,
			Guesses:     []float64{2.5},
			KnownRoot:   solver.Float(2),
			Description: "Simple quadratic, roots at plus and minus 2",
		},
		fn:  func(x float64) float64 { return x*x - 4 },
		dfn: func(x float64) float64 { return 2 * x },
	},
	{
		Problem: Problem{
			Name:        "exponential",
			Expression:  "exp(x) - 2*x - 1",
			Derivative:  "exp(x) - 2",
			A:           0.5,
			B:           2,
			Guesses:     []float64{1},
			KnownRoot:   solver.Float(1.2564312086261697),
			Description: "Exponential equation",
		},
		fn:  func(x float64) float64 { return math.Exp(x) - 2*x - 1 },
		dfn: func(x float64) float64 { return math.Exp(x) - 2 },
	},
	{
		Problem: Problem{
			Name:        "cosine-fixed-point",
			Expression:  "cos(x) - x",
			Derivative:  "-sin(x) - 1",
			A:           0,
			B:           1,
			Guesses:     []float64{0.5},
			KnownRoot:   solver.Float(0.7390851332151607),
			Description: "Transcendental, the classic cos(x) = x crossing",
		},
		fn:  func(x float64) float64 { return math.Cos(x) - x },
		dfn: func(x float64) float64 { return -math.Sin(x) - 1 },
	},
	{
		Problem: Problem{
			Name:        "trig-halfline",
			Expression:  "sin(x) - x/2",
			Derivative:  "cos(x) - 0.5",
			A:           1.5,
			B:           2.5,
			Guesses:     []float64{2},
			KnownRoot:   solver.Float(1.8954942670339809),
			Description: "Trigonometric equation, positive root",
		},
		fn:  func(x float64) float64 { return math.Sin(x) - x/2 },
		dfn: func(x float64) float64 { return math.Cos(x) - 0.5 },
	},
	{
		Problem: Problem{
			Name:        "log-reciprocal",
			Expression:  "ln(x) - 1/x",
			Derivative:  "1/x + 1/x^2",
			A:           1,
			B:           3,
			Guesses:     []float64{2},
			KnownRoot:   solver.Float(1.763222834351897),
			Description: "Logarithmic equation, defined for positive x",
		},
		fn:  func(x float64) float64 { return math.Log(x) - 1/x },
		dfn: func(x float64) float64 { return 1/x + 1/(x*x) },
	},
	{
		Problem: Problem{
			Name:        "factored-cubic",
			Expression:  "x^3 - 6*x^2 + 11*x - 6",
			Derivative:  "3*x^2 - 12*x + 11",
			A:           0.5,
			B:           1.5,
			Guesses:     []float64{1.1},
			KnownRoot:   solver.Float(1),
			Description: "Cubic with roots 1, 2, 3; deflation showcase",
		},
		fn:  func(x float64) float64 { return ((x-6)*x+11)*x - 6 },
		dfn: func(x float64) float64 { return (3*x-12)*x + 11 },
	},
	{
		Problem: Problem{
			Name:        "scan-cubic",
			Expression:  "x^3 - 2*x - 5",
			Derivative:  "3*x^2 - 2",
			A:           2,
			B:           3,
			Guesses:     []float64{2},
			KnownRoot:   solver.Float(2.0945514815423265),
			Description: "Single real root, interval-scanner showcase",
		},
		fn:  func(x float64) float64 { return x*x*x - 2*x - 5 },
		dfn: func(x float64) float64 { return 3*x*x - 2 },
	},
}

// #endregion builtin-set
