package interp

import "io"

// Context is the host interface the evaluator receives; it provides at
// minimum a writable sink for `print` output.
type Context interface {
	GetOutputStream() io.Writer
}

// SimpleContext is the minimal Context a CLI or test harness needs: a
// single writable sink for `print`.
type SimpleContext struct {
	Out io.Writer
}

func (c *SimpleContext) GetOutputStream() io.Writer { return c.Out }
