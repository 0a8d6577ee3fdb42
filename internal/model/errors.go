package model

import (
	"errors"
	"fmt"
)

// ErrEmptyWindow is returned when the target cost window selects zero rows.
// Callers must guard downstream statistics rather than computing on nothing.
var ErrEmptyWindow = errors.New("target window selects no rows")

// ConfigurationError reports a malformed or inconsistent parameter
// declaration, raised before any sampling happens.
type ConfigurationError struct {
	Parameter string
	Reason    string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error for %q: %s", e.Parameter, e.Reason)
}

// EvaluationError reports a cost-model failure for a single row. It aborts
// the whole batch run; no partial results are retained.
type EvaluationError struct {
	Row int
	Err error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("cost evaluation failed at row %d: %v", e.Row, e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }

// IntegrityError reports a dataset value outside its declared bounds.
type IntegrityError struct {
	Parameter string
	Kind      string // "minimum", "maximum", "reference" or "limit"
	Value     float64
	Low       float64
	High      float64
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity violation for %q: %s value %g outside declared range [%g, %g]",
		e.Parameter, e.Kind, e.Value, e.Low, e.High)
}

// MappingError reports a persisted column that cannot be reconciled with the
// active declared-parameter table on load.
type MappingError struct {
	Parameter string
	Reason    string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("cannot map parameter %q: %s", e.Parameter, e.Reason)
}
