package signal

import (
	"errors"
	"fmt"
)

// Domain errors for pipeline operations.
var (
	// ErrInvalidParameter indicates a configuration value outside its valid range.
	ErrInvalidParameter = errors.New("signal: invalid parameter")

	// ErrDimensionMismatch indicates points and constellation disagree on dimensionality.
	ErrDimensionMismatch = errors.New("signal: dimension mismatch")

	// ErrLengthMismatch indicates paired sequences disagree on length.
	ErrLengthMismatch = errors.New("signal: sequence length mismatch")

	// ErrContextCanceled indicates the run was interrupted.
	ErrContextCanceled = errors.New("signal: run canceled by context")
)

// PipelineError wraps an error with the pipeline stage that raised it.
type PipelineError struct {
	Stage   string
	Symbols int
	Wrapped error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Wrapped)
}

func (e *PipelineError) Unwrap() error {
	return e.Wrapped
}
