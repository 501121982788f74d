// Package series records per-frame body positions and acceleration
// magnitudes for a run.
package series

import (
	"github.com/san-kum/galaxysim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// Meta is the shape of a recorded run.
type Meta struct {
	Bodies int
	Frames int
	Unit   string
}

type Series struct {
	meta Meta
	pos  [][]r3.Vec
	acc  [][]float64
}

// New returns an empty series with capacity for frames snapshots.
func New(bodies, frames int, unit string) *Series {
	return &Series{
		meta: Meta{Bodies: bodies, Frames: frames, Unit: unit},
		pos:  make([][]r3.Vec, 0, frames),
		acc:  make([][]float64, 0, frames),
	}
}

func (s *Series) Meta() Meta   { return s.meta }
func (s *Series) Bodies() int  { return s.meta.Bodies }
func (s *Series) Frames() int  { return s.meta.Frames }
func (s *Series) Unit() string { return s.meta.Unit }

// Len is the number of frames recorded so far.
func (s *Series) Len() int { return len(s.pos) }

func (s *Series) Complete() bool { return len(s.pos) == s.meta.Frames }

// Append copies one frame into the series.
func (s *Series) Append(pos []r3.Vec, accMag []float64) error {
	frame := len(s.pos)
	if frame >= s.meta.Frames {
		err := dynamo.NewPreconditionError("append", dynamo.ErrStoreFull)
		err.Frame = frame
		return err
	}
	if len(pos) != s.meta.Bodies || len(accMag) != s.meta.Bodies {
		err := dynamo.NewPreconditionError("append", dynamo.ErrShapeMismatch)
		err.Frame = frame
		return err
	}

	p := make([]r3.Vec, len(pos))
	copy(p, pos)
	a := make([]float64, len(accMag))
	copy(a, accMag)

	s.pos = append(s.pos, p)
	s.acc = append(s.acc, a)
	return nil
}

// Frame returns the positions and acceleration magnitudes recorded at t.
// The slices are owned by the series and must not be modified.
func (s *Series) Frame(t int) ([]r3.Vec, []float64, error) {
	if t < 0 || t >= len(s.pos) {
		err := dynamo.NewPreconditionError("frame", dynamo.ErrFrameRange)
		err.Frame = t
		return nil, nil, err
	}
	return s.pos[t], s.acc[t], nil
}
