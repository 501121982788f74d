package sampler

import (
	"fmt"

	"github.com/san-kum/galaxysim/internal/dynamo"
)

type shortfallError struct {
	*dynamo.PreconditionError
	have, want int
}

func (e *shortfallError) Error() string {
	return fmt.Sprintf("%s: %d candidates, %d requested", e.PreconditionError.Error(), e.have, e.want)
}

func (e *shortfallError) Unwrap() error { return e.PreconditionError }
