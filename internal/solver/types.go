package solver

// #region method

// Method identifies one of the root-finding algorithms.
type Method string

const (
	MethodBisection     Method = "bisection"
	MethodFalsePosition Method = "false_position"
	MethodNewtonRaphson Method = "newton_raphson"
	MethodSecant        Method = "secant"
	MethodFixedPoint    Method = "fixed_point"
	MethodMuller        Method = "muller"
)

// #endregion method

// #region error-code

// ErrorCode tags the failure mode carried in MethodResult.ErrorMessage.
// Expected numeric failures are returned, not thrown, across the public
// boundary; an empty code means the run ended without incident.
type ErrorCode string

const (
	CodeNone              ErrorCode = ""
	CodeInvalidInput      ErrorCode = "invalid_input"      // malformed ProblemSpec
	CodeMissingDerivative ErrorCode = "missing_derivative" // Newton-Raphson without a derivative expression
	CodeNoSignChange      ErrorCode = "no_sign_change"     // bracketing precondition violated
	CodeZeroDerivative    ErrorCode = "zero_derivative"    // Newton-Raphson singularity
	CodeStagnantSecant    ErrorCode = "stagnant_secant"    // secant denominator collapsed
	CodeDivergence        ErrorCode = "divergence"         // fixed-point iterate blew past the magnitude cap
	CodeEvaluationFailed  ErrorCode = "evaluation_failed"  // the expression evaluator errored
	CodeMaxIterations     ErrorCode = "max_iterations"     // budget exhausted without convergence
)

// #endregion error-code

// #region thresholds

// Numeric guard thresholds shared by the method implementations.
const (
	DefaultTolerance     = 1e-6
	DefaultMaxIterations = 100

	// ZeroDenominatorEps triggers the zero-derivative and stagnant-secant
	// singularity guards.
	ZeroDenominatorEps = 1e-14

	// DivergenceLimit is the iterate magnitude at which fixed-point
	// iteration is declared divergent.
	DivergenceLimit = 1e10

	// ExactRootEps is the remainder magnitude under which synthetic
	// division is considered exact.
	ExactRootEps = 1e-10
)

// #endregion thresholds

// #region problem-spec

// ProblemSpec is the immutable input to every method. Bracketing methods
// read [A, B]; open methods read Guesses (one for Newton-Raphson and
// Fixed-Point, two for Secant, three for Muller). Derivative is only
// consulted by Newton-Raphson.
type ProblemSpec struct {
	Expression    string
	Derivative    string
	A             float64
	B             float64
	Guesses       []float64
	Tolerance     float64
	MaxIterations int
}

// NewProblemSpec returns a spec for the given expression with the default
// tolerance and iteration budget.
func NewProblemSpec(expression string) ProblemSpec {
	return ProblemSpec{
		Expression:    expression,
		Tolerance:     DefaultTolerance,
		MaxIterations: DefaultMaxIterations,
	}
}

// WithInterval returns a copy of the spec with the bracketing interval set.
func (p ProblemSpec) WithInterval(a, b float64) ProblemSpec {
	p.A, p.B = a, b
	return p
}

// WithGuesses returns a copy of the spec with the initial guesses set.
func (p ProblemSpec) WithGuesses(guesses ...float64) ProblemSpec {
	p.Guesses = append([]float64(nil), guesses...)
	return p
}

// #endregion problem-spec

// #region aux-variants

// Aux carries method-specific per-iteration values as a sealed variant,
// keyed by the method that produced the record.
type Aux interface {
	isAux()
}

// BracketAux is attached by Bisection and False Position: the bracket
// endpoints in force when the iterate was computed.
type BracketAux struct {
	A float64
	B float64
}

// NewtonAux is attached by Newton-Raphson: the derivative value used for
// the step.
type NewtonAux struct {
	Derivative float64
}

// SecantAux is attached by Secant: the finite-difference slope used for
// the step.
type SecantAux struct {
	Slope float64
}

// FixedPointAux is attached by Fixed-Point: the g(x) value that became
// the next iterate.
type FixedPointAux struct {
	G float64
}

// MullerAux is attached by Muller: the discriminant of the local
// quadratic model.
type MullerAux struct {
	Discriminant float64
}

func (BracketAux) isAux()    {}
func (NewtonAux) isAux()     {}
func (SecantAux) isAux()     {}
func (FixedPointAux) isAux() {}
func (MullerAux) isAux()     {}

// #endregion aux-variants

// #region iteration-record

// IterationRecord is one row of a method's iteration history.
type IterationRecord struct {
	Iteration int      // 1-based
	X         float64  // current approximation
	FX        float64  // f at the approximation
	Error     *float64 // error estimate, nil when the method has none yet
	Aux       Aux      // method-specific trace values, may be nil
}

// #endregion iteration-record

// #region method-result

// MethodResult is the complete, immutable outcome of one method run.
// Root may be set even without convergence (best estimate so far); it is
// nil only when the spec was rejected before any iterate was computed.
type MethodResult struct {
	Method              Method
	Root                *float64
	Iterations          int
	Converged           bool
	FinalError          *float64
	FunctionEvaluations int
	History             []IterationRecord
	ErrorCode           ErrorCode
	ErrorMessage        string
}

// Failed reports whether the run ended with a tagged failure mode.
func (r MethodResult) Failed() bool {
	return r.ErrorCode != CodeNone
}

// #endregion method-result

// #region helpers

// Float returns a pointer to v. History and result fields use pointers
// for nullable numeric values.
func Float(v float64) *float64 {
	return &v
}

// #endregion helpers
