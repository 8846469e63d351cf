package dataset

import (
	"errors"
	"fmt"
)

var (
	ErrLoad   = errors.New("load failed")
	ErrFilter = errors.New("filter failed")
)

// LoadError reports a missing, unreadable, undecodable or single-column input.
type LoadError struct {
	Path string
	Msg  string
	Err  error
}

func (e *LoadError) Error() string {
	if e == nil {
		return ""
	}
	s := ErrLoad.Error()
	if e.Path != "" {
		s = fmt.Sprintf("%s: %s", s, e.Path)
	}
	if e.Msg != "" {
		s = fmt.Sprintf("%s: %s", s, e.Msg)
	}
	if e.Err != nil {
		s = fmt.Sprintf("%s: %v", s, e.Err)
	}
	return s
}

func (e *LoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrLoad}
	}
	return []error{ErrLoad, e.Err}
}

// FilterError reports a label filter that selected nothing or a required column that is absent.
type FilterError struct {
	Column string
	Msg    string
}

func (e *FilterError) Error() string {
	if e == nil {
		return ""
	}
	if e.Column == "" {
		return fmt.Sprintf("%s: %s", ErrFilter, e.Msg)
	}
	return fmt.Sprintf("%s: column %q: %s", ErrFilter, e.Column, e.Msg)
}

func (e *FilterError) Unwrap() error { return ErrFilter }

func loadErrorf(path string, err error, format string, args ...any) error {
	return &LoadError{Path: path, Msg: fmt.Sprintf(format, args...), Err: err}
}
