// Package fixture loads recorded problem runs from JSON and checks the
// current method library against their expected outcomes. Fixtures keep
// the numeric behavior honest across refactors.
package fixture

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/numcore/solver/internal/solver"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a recorded run.
type Fixture struct {
	Description  string               `json:"description"`
	Problem      FixtureProblem       `json:"problem"`
	Expectations []FixtureExpectation `json:"expectations"`
}

// FixtureProblem mirrors solver.ProblemSpec with JSON tags.
type FixtureProblem struct {
	Expression    string    `json:"expression"`
	Derivative    string    `json:"derivative,omitempty"`
	A             float64   `json:"a"`
	B             float64   `json:"b"`
	Guesses       []float64 `json:"guesses,omitempty"`
	Tolerance     float64   `json:"tolerance,omitempty"`
	MaxIterations int       `json:"max_iterations,omitempty"`
}

// FixtureExpectation captures the expected outcome for one method slot.
// Root checks use the fixture's own tolerance band; iteration checks are
// upper bounds, so a faster implementation still passes.
type FixtureExpectation struct {
	Method        string   `json:"method"`
	Converged     bool     `json:"converged"`
	Root          *float64 `json:"root,omitempty"`
	RootTolerance float64  `json:"root_tolerance,omitempty"`
	MaxIterations int      `json:"max_iterations,omitempty"`
	ErrorCode     string   `json:"error_code,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// ToSpec converts the fixture problem to a domain ProblemSpec, filling
// in default tolerance and iteration budget when the fixture omits them.
func (p FixtureProblem) ToSpec() solver.ProblemSpec {
	spec := solver.NewProblemSpec(p.Expression)
	spec.Derivative = p.Derivative
	spec.A, spec.B = p.A, p.B
	spec.Guesses = append([]float64(nil), p.Guesses...)
	if p.Tolerance > 0 {
		spec.Tolerance = p.Tolerance
	}
	if p.MaxIterations > 0 {
		spec.MaxIterations = p.MaxIterations
	}
	return spec
}

// #endregion fixture-loader
