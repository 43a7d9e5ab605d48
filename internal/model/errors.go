package model

import (
	"fmt"
	"strings"
)

// FieldError describes one missing or malformed input field.
type FieldError struct {
	Row    int // 1-based; 0 when the problem is not tied to a row
	Field  string
	Value  string
	Reason string
}

func (e FieldError) Error() string {
	var b strings.Builder
	if e.Row > 0 {
		fmt.Fprintf(&b, "row %d: ", e.Row)
	}
	b.WriteString(e.Field)
	if e.Value != "" {
		fmt.Fprintf(&b, " %q", e.Value)
	}
	b.WriteString(" ")
	b.WriteString(e.Reason)
	return b.String()
}

// InputError aggregates every input problem found in a dataset.
// A run that produces one returns no partial results.
type InputError struct {
	Problems []FieldError
}

func (e *InputError) Error() string {
	if len(e.Problems) == 0 {
		return "invalid bond input"
	}
	msgs := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		msgs = append(msgs, p.Error())
	}
	return fmt.Sprintf("invalid bond input (%d problems): %s", len(e.Problems), strings.Join(msgs, "; "))
}

// Add appends problems; nil-safe on the slice.
func (e *InputError) Add(problems ...FieldError) {
	e.Problems = append(e.Problems, problems...)
}

// OrNil returns e when it holds problems and nil otherwise.
func (e *InputError) OrNil() error {
	if e == nil || len(e.Problems) == 0 {
		return nil
	}
	return e
}
