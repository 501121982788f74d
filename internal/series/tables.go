package series

import (
	"fmt"

	"github.com/san-kum/galaxysim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// Tables is the flat export of a series. X, Y, Z and Acc are indexed
// [body][frame].
type Tables struct {
	Meta Meta
	X    [][]float64
	Y    [][]float64
	Z    [][]float64
	Acc  [][]float64
}

// Export flattens the recorded frames into body×frame tables. A partially
// recorded series exports as a run of Len() frames.
func (s *Series) Export() Tables {
	n, f := s.meta.Bodies, len(s.pos)
	t := Tables{
		Meta: Meta{Bodies: n, Frames: f, Unit: s.meta.Unit},
		X:    grid(n, f),
		Y:    grid(n, f),
		Z:    grid(n, f),
		Acc:  grid(n, f),
	}

	for frame := 0; frame < f; frame++ {
		for body := 0; body < n; body++ {
			p := s.pos[frame][body]
			t.X[body][frame] = p.X
			t.Y[body][frame] = p.Y
			t.Z[body][frame] = p.Z
			t.Acc[body][frame] = s.acc[frame][body]
		}
	}
	return t
}

// Import rebuilds a complete series from tables sized by t.Meta.
func Import(t Tables) (*Series, error) {
	m := t.Meta
	if m.Bodies <= 0 || m.Frames <= 0 {
		return nil, dynamo.NewPreconditionError("import", fmt.Errorf("%w: bodies=%d frames=%d", dynamo.ErrMetadata, m.Bodies, m.Frames))
	}

	for name, tab := range map[string][][]float64{"x": t.X, "y": t.Y, "z": t.Z, "acc": t.Acc} {
		if err := checkShape(name, tab, m); err != nil {
			return nil, err
		}
	}

	s := New(m.Bodies, m.Frames, m.Unit)
	pos := make([]r3.Vec, m.Bodies)
	acc := make([]float64, m.Bodies)
	for frame := 0; frame < m.Frames; frame++ {
		for body := 0; body < m.Bodies; body++ {
			pos[body] = r3.Vec{X: t.X[body][frame], Y: t.Y[body][frame], Z: t.Z[body][frame]}
			acc[body] = t.Acc[body][frame]
		}
		if err := s.Append(pos, acc); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func checkShape(name string, tab [][]float64, m Meta) error {
	if len(tab) != m.Bodies {
		return dynamo.NewPreconditionError("import "+name, fmt.Errorf("%w: %d rows, want %d", dynamo.ErrShapeMismatch, len(tab), m.Bodies))
	}
	for body, row := range tab {
		if len(row) != m.Frames {
			err := dynamo.NewPreconditionError("import "+name, fmt.Errorf("%w: %d columns, want %d", dynamo.ErrShapeMismatch, len(row), m.Frames))
			err.Body = body
			return err
		}
	}
	return nil
}

func grid(rows, cols int) [][]float64 {
	backing := make([]float64, rows*cols)
	g := make([][]float64, rows)
	for i := range g {
		g[i] = backing[i*cols : (i+1)*cols : (i+1)*cols]
	}
	return g
}
