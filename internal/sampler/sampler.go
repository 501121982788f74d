// Package sampler draws initial body positions from a regular lattice.
//
// A [Region] describes a flat cylinder: a horizontal disc of Radius around
// Center, Thickness*2 tall. The candidate set is a cubic lattice with spacing
// Interval covering the region's bounding box, trimmed to points within
// Radius of Center. Bodies are then drawn from the candidates uniformly at
// random without replacement.
package sampler

import (
	"math"

	"github.com/san-kum/galaxysim/internal/dynamo"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r3"
)

type Region struct {
	Name          string
	Center        r3.Vec
	Radius        float64
	HalfThickness float64
	Interval      float64
	// Shift offsets every lattice point by half an interval on all axes.
	Shift bool
}

// Lattice returns every lattice point of the region's bounding box.
func (r Region) Lattice() []r3.Vec {
	if r.Interval <= 0 || r.Radius < 0 || r.HalfThickness < 0 {
		return nil
	}

	offset := 0.0
	if r.Shift {
		offset = r.Interval / 2
	}

	nh := int(math.Floor(2*r.Radius/r.Interval)) + 1
	nv := int(math.Floor(2*r.HalfThickness/r.Interval)) + 1

	x0 := r.Center.X - r.Radius + offset
	y0 := r.Center.Y - r.Radius + offset
	z0 := r.Center.Z - r.HalfThickness + offset
	zMax := r.Center.Z + r.HalfThickness

	points := make([]r3.Vec, 0, nh*nh*nv)
	for k := 0; k < nv; k++ {
		z := z0 + float64(k)*r.Interval
		if z > zMax {
			break
		}
		for j := 0; j < nh; j++ {
			y := y0 + float64(j)*r.Interval
			for i := 0; i < nh; i++ {
				points = append(points, r3.Vec{X: x0 + float64(i)*r.Interval, Y: y, Z: z})
			}
		}
	}
	return points
}

// Candidates returns the lattice points within Radius of Center. The center
// itself is never a candidate since it has no rotation direction.
func (r Region) Candidates() []r3.Vec {
	lattice := r.Lattice()
	kept := lattice[:0]
	for _, p := range lattice {
		d := r3.Norm(r3.Sub(p, r.Center))
		if d <= r.Radius && d > 0 {
			kept = append(kept, p)
		}
	}
	return kept
}

type Sampler struct {
	rnd *rand.Rand
}

func New(seed uint64) *Sampler {
	return &Sampler{rnd: rand.New(rand.NewSource(seed))}
}

// Place writes count distinct candidates of region into dst starting at
// cursor and returns the next free index.
func (s *Sampler) Place(dst []r3.Vec, cursor, count int, region Region) (int, error) {
	if cursor < 0 || cursor+count > len(dst) {
		err := dynamo.NewPreconditionError("place", dynamo.ErrShapeMismatch)
		err.Region = region.Name
		err.Body = cursor + count - 1
		return cursor, err
	}

	candidates := region.Candidates()
	if len(candidates) < count {
		err := dynamo.NewPreconditionError("place", dynamo.ErrSampleShortfall)
		err.Region = region.Name
		return cursor, &shortfallError{PreconditionError: err, have: len(candidates), want: count}
	}

	// partial Fisher-Yates: the first count slots end up a uniform sample
	for i := 0; i < count; i++ {
		j := i + s.rnd.Intn(len(candidates)-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
		dst[cursor+i] = candidates[i]
	}

	return cursor + count, nil
}
