package analysis

import (
	"errors"
	"fmt"
)

var (
	ErrParse       = errors.New("headcount parse failed")
	ErrAggregation = errors.New("aggregation failed")
	// ErrCategoryNotFound is wrapped by the AggregationError Split returns for an absent category.
	ErrCategoryNotFound = errors.New("category not found")
)

// ParseError reports a headcount cell that is not a number.
type ParseError struct {
	Record   int // source record, 0 when unknown
	Category string
	Value    string
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	loc := ""
	if e.Category != "" {
		loc = fmt.Sprintf(" for %q", e.Category)
	}
	if e.Record > 0 {
		loc += fmt.Sprintf(" (record %d)", e.Record)
	}
	return fmt.Sprintf("%s%s: %q is not numeric", ErrParse, loc, e.Value)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// AggregationError reports inputs the share computation cannot work with: mismatched
// sequences, a zero or negative total, negative headcounts, or an absent comparison category.
type AggregationError struct {
	Msg  string
	Kind error // optional finer-grained sentinel
}

func (e *AggregationError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", ErrAggregation, e.Msg)
}

func (e *AggregationError) Unwrap() []error {
	if e.Kind == nil {
		return []error{ErrAggregation}
	}
	return []error{ErrAggregation, e.Kind}
}

func aggErrorf(format string, args ...any) error {
	return &AggregationError{Msg: fmt.Sprintf(format, args...)}
}
