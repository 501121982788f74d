// Package galaxy builds the initial state of two colliding disc galaxies.
//
// The first half of the body array is the bottom galaxy, the second half the
// top galaxy. Each half is an outer disc plus a denser core drawn from a
// half-interval shifted lattice. Bodies rotate in the horizontal plane with
// speed K*|r|^P and the two discs drift vertically toward each other.
package galaxy

import (
	"fmt"
	"math"

	"github.com/san-kum/galaxysim/internal/dynamo"
	"github.com/san-kum/galaxysim/internal/nbody"
	"github.com/san-kum/galaxysim/internal/sampler"
	"gonum.org/v1/gonum/spatial/r3"
)

var up = r3.Vec{Z: 1}

type Params struct {
	Center            r3.Vec
	Offset            r3.Vec
	Radius            float64
	HalfThickness     float64
	CoreRadius        float64
	CoreHalfThickness float64
	CoreFraction      float64
	MeshInterval      float64
	VelocityK         float64
	VelocityP         float64
	InvertRotation    bool
	DriftSpeed        float64
}

// Layout holds the two galaxy centers.
type Layout struct {
	Bottom r3.Vec
	Top    r3.Vec
}

func (p Params) Layout() Layout {
	return Layout{Bottom: p.Center, Top: r3.Add(p.Center, p.Offset)}
}

// Split returns the outer and core body counts of one galaxy of size half.
func (p Params) Split(half int) (outer, core int) {
	core = int(math.Round(float64(half) * p.CoreFraction))
	if core > half {
		core = half
	}
	if core < 0 {
		core = 0
	}
	return half - core, core
}

// Regions returns the four sampling regions in placement order.
func (p Params) Regions() [4]sampler.Region {
	l := p.Layout()
	outer := func(name string, c r3.Vec) sampler.Region {
		return sampler.Region{Name: name, Center: c, Radius: p.Radius, HalfThickness: p.HalfThickness, Interval: p.MeshInterval}
	}
	core := func(name string, c r3.Vec) sampler.Region {
		return sampler.Region{Name: name, Center: c, Radius: p.CoreRadius, HalfThickness: p.CoreHalfThickness, Interval: p.MeshInterval, Shift: true}
	}
	return [4]sampler.Region{
		outer("bottom/outer", l.Bottom),
		core("bottom/core", l.Bottom),
		outer("top/outer", l.Top),
		core("top/core", l.Top),
	}
}

// Initialize fills every position and velocity of b. It must run once on a
// freshly allocated population.
func Initialize(b *nbody.Bodies, p Params, smp *sampler.Sampler) (Layout, error) {
	n := b.Len()
	if n < 2 || n%2 != 0 {
		return Layout{}, dynamo.NewPreconditionError("initialize", dynamo.ErrOddPopulation)
	}

	half := b.Half()
	outer, core := p.Split(half)
	counts := [4]int{outer, core, outer, core}

	cursor := 0
	for i, region := range p.Regions() {
		next, err := smp.Place(b.Pos, cursor, counts[i], region)
		if err != nil {
			return Layout{}, fmt.Errorf("place %s: %w", region.Name, err)
		}
		cursor = next
	}

	layout := p.Layout()
	for i := range b.Pos {
		center, drift, sign := layout.Bottom, p.DriftSpeed, 1.0
		if i >= half {
			center, drift = layout.Top, -p.DriftSpeed
			if p.InvertRotation {
				sign = -1
			}
		}

		v, ok := TangentialVelocity(r3.Sub(b.Pos[i], center), p.VelocityK, p.VelocityP)
		if !ok {
			err := dynamo.NewPreconditionError("velocity", dynamo.ErrDegenerateRadius)
			err.Body = i
			return Layout{}, err
		}
		b.Vel[i] = r3.Add(r3.Scale(sign, v), r3.Vec{Z: drift})
	}

	return layout, nil
}

// TangentialVelocity returns K*|r|^P along r̂ × ẑ, flattened into the
// horizontal plane. It reports false when r is the zero vector.
func TangentialVelocity(r r3.Vec, k, p float64) (r3.Vec, bool) {
	mag := r3.Norm(r)
	if mag == 0 {
		return r3.Vec{}, false
	}

	dir := r3.Cross(r3.Scale(1/mag, r), up)
	dir.Z = 0
	return r3.Scale(k*math.Pow(mag, p), dir), true
}
