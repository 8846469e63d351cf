package charts

import (
	"errors"
	"fmt"
)

var ErrRender = errors.New("render failed")

// RenderError reports a chart that could not be drawn or written.
type RenderError struct {
	Chart string
	Err   error
}

func (e *RenderError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s: %v", ErrRender, e.Chart, e.Err)
}

func (e *RenderError) Unwrap() []error { return []error{ErrRender, e.Err} }
