package dynamo

import (
	"errors"
	"fmt"
	"testing"
)

func TestPreconditionError(t *testing.T) {
	tests := []struct {
		name string
		err  *PreconditionError
		want string
	}{
		{
			"bare",
			NewPreconditionError("", ErrMetadata),
			"dynamo: malformed run metadata",
		},
		{
			"region",
			&PreconditionError{Op: "place", Region: "bottom/core", Body: NoIndex, Frame: NoIndex, Wrapped: ErrSampleShortfall},
			"place: dynamo: not enough lattice candidates in region (region=bottom/core)",
		},
		{
			"body and frame",
			&PreconditionError{Op: "frame", Body: 3, Frame: 7, Wrapped: ErrFrameRange},
			"frame: dynamo: frame index out of range (body=3 frame=7)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPreconditionErrorUnwrap(t *testing.T) {
	err := fmt.Errorf("init: %w", &PreconditionError{Body: 12, Frame: NoIndex, Wrapped: ErrDegenerateRadius})

	if !errors.Is(err, ErrDegenerateRadius) {
		t.Error("expected errors.Is to find ErrDegenerateRadius")
	}

	var pe *PreconditionError
	if !errors.As(err, &pe) {
		t.Fatal("expected errors.As to find PreconditionError")
	}
	if pe.Body != 12 {
		t.Errorf("expected body 12, got %d", pe.Body)
	}
}
