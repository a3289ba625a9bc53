package solver

import (
	"fmt"
	"strings"
)

// #region violation

// Violation is a single validation failure detected before iteration.
type Violation struct {
	Code   ErrorCode
	Reason string
}

// #endregion violation

// #region validate

// Validate checks the ProblemSpec fields every method depends on. It
// returns the first violation found, or nil. Method-specific requirements
// (guess counts, derivative presence, sign change) are checked by the
// methods themselves.
func Validate(spec ProblemSpec) *Violation {
	if strings.TrimSpace(spec.Expression) == "" {
		return &Violation{Code: CodeInvalidInput, Reason: "expression is empty"}
	}
	if spec.Tolerance <= 0 {
		return &Violation{Code: CodeInvalidInput, Reason: fmt.Sprintf("tolerance must be positive, got %g", spec.Tolerance)}
	}
	if spec.MaxIterations <= 0 {
		return &Violation{Code: CodeInvalidInput, Reason: fmt.Sprintf("max iterations must be positive, got %d", spec.MaxIterations)}
	}
	return nil
}

// #endregion validate

// #region rejection

// Rejection builds the zero-iteration result for a spec that failed
// before the loop started. History stays empty per the propagation
// policy: malformed input caught before any iteration yields no records.
func Rejection(method Method, code ErrorCode, reason string) MethodResult {
	return MethodResult{
		Method:       method,
		ErrorCode:    code,
		ErrorMessage: reason,
		History:      []IterationRecord{},
	}
}

// #endregion rejection
