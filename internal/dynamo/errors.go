package dynamo

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors for simulation operations.
var (
	// ErrSampleShortfall indicates a region lattice holds fewer candidates than requested.
	ErrSampleShortfall = errors.New("dynamo: not enough lattice candidates in region")

	// ErrDegenerateRadius indicates a body sits exactly on its galaxy center.
	ErrDegenerateRadius = errors.New("dynamo: zero radial vector during velocity assignment")

	// ErrFrameRange indicates a frame index outside [0, frameCount).
	ErrFrameRange = errors.New("dynamo: frame index out of range")

	// ErrMetadata indicates missing or malformed run metadata on import.
	ErrMetadata = errors.New("dynamo: malformed run metadata")

	// ErrOddPopulation indicates a body count that cannot be split into two equal galaxies.
	ErrOddPopulation = errors.New("dynamo: body count must be even and positive")

	// ErrNotInitialized indicates integration was requested before initial states were built.
	ErrNotInitialized = errors.New("dynamo: simulation not initialized")

	// ErrStoreFull indicates an append past the configured frame count.
	ErrStoreFull = errors.New("dynamo: time series is full")

	// ErrShapeMismatch indicates a frame or table whose size disagrees with the population.
	ErrShapeMismatch = errors.New("dynamo: shape does not match population")

	// ErrInvalidState indicates a body position or velocity became NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")
)

// NoIndex marks an unset Body or Frame field on PreconditionError.
const NoIndex = -1

// PreconditionError wraps a sentinel error with enough context to reproduce it.
type PreconditionError struct {
	Op      string
	Region  string
	Body    int
	Frame   int
	Wrapped error
}

// NewPreconditionError returns a PreconditionError with no body or frame set.
func NewPreconditionError(op string, wrapped error) *PreconditionError {
	return &PreconditionError{Op: op, Body: NoIndex, Frame: NoIndex, Wrapped: wrapped}
}

func (e *PreconditionError) Error() string {
	var ctx []string
	if e.Region != "" {
		ctx = append(ctx, "region="+e.Region)
	}
	if e.Body != NoIndex {
		ctx = append(ctx, fmt.Sprintf("body=%d", e.Body))
	}
	if e.Frame != NoIndex {
		ctx = append(ctx, fmt.Sprintf("frame=%d", e.Frame))
	}
	msg := e.Wrapped.Error()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if len(ctx) == 0 {
		return msg
	}
	return msg + " (" + strings.Join(ctx, " ") + ")"
}

func (e *PreconditionError) Unwrap() error {
	return e.Wrapped
}
