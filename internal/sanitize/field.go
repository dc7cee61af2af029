// Package sanitize implements the field-cleaning pipeline applied to all
// user-supplied text before it reaches persistence.
package sanitize

import (
	"fmt"
	"strings"
)

// Kind selects the additional checks a field class applies beyond the
// shared strip/length pipeline.
type Kind int

const (
	// KindText is a single-line text field.
	KindText Kind = iota
	// KindFreeText is a multi-line field that additionally rejects
	// inline event-handler patterns.
	KindFreeText
	// KindYear is a numeric year field with a configured range.
	KindYear
)

// FieldClass describes the validation rules for one category of input.
type FieldClass struct {
	Name     string
	Kind     Kind
	MaxLen   int
	Optional bool

	// Year bounds, only meaningful for KindYear.
	YearMin int
	YearMax int
}

// TextClass builds a single-line text field class.
func TextClass(name string, maxLen int) FieldClass {
	return FieldClass{Name: name, Kind: KindText, MaxLen: maxLen}
}

// FreeTextClass builds a free-text field class.
func FreeTextClass(name string, maxLen int) FieldClass {
	return FieldClass{Name: name, Kind: KindFreeText, MaxLen: maxLen}
}

// YearClass builds a numeric year field class bounded by [1000, max].
func YearClass(name string, max int) FieldClass {
	return FieldClass{Name: name, Kind: KindYear, YearMin: 1000, YearMax: max}
}

// Violation records one reason a field failed validation.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return v.Field + ": " + v.Message
}

// ValidatedField is the outcome of running the pipeline over one raw value.
// The raw value itself is not retained.
type ValidatedField struct {
	Field      string
	Cleaned    string
	Violations []Violation
}

// OK reports whether the field passed every check.
func (f ValidatedField) OK() bool {
	return len(f.Violations) == 0
}

// ValidationError aggregates every violation found across a submission so
// callers can surface all problems at once.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(msgs, "; "))
}

// Collect returns a ValidationError covering every violation in the given
// fields, or nil when all fields passed.
func Collect(fields ...ValidatedField) error {
	var violations []Violation
	for _, f := range fields {
		violations = append(violations, f.Violations...)
	}
	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: violations}
}
