package galaxy

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/galaxysim/internal/dynamo"
	"github.com/san-kum/galaxysim/internal/nbody"
	"github.com/san-kum/galaxysim/internal/sampler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func testParams() Params {
	return Params{
		Center:            r3.Vec{},
		Offset:            r3.Vec{X: 60, Z: 80},
		Radius:            20,
		HalfThickness:     2,
		CoreRadius:        8,
		CoreHalfThickness: 2,
		CoreFraction:      1.0 / 3.0,
		MeshInterval:      1,
		VelocityK:         880,
		VelocityP:         0.4,
		InvertRotation:    true,
		DriftSpeed:        50,
	}
}

func TestLayout(t *testing.T) {
	p := testParams()
	p.Center = r3.Vec{X: 1, Y: 2, Z: 3}

	l := p.Layout()
	assert.Equal(t, r3.Vec{X: 1, Y: 2, Z: 3}, l.Bottom)
	assert.Equal(t, r3.Vec{X: 61, Y: 2, Z: 83}, l.Top)
}

func TestSplit(t *testing.T) {
	p := testParams()
	outer, core := p.Split(300)
	assert.Equal(t, 200, outer)
	assert.Equal(t, 100, core)

	p.CoreFraction = 0
	outer, core = p.Split(7)
	assert.Equal(t, 7, outer)
	assert.Equal(t, 0, core)
}

func TestInitializePopulatesEverySlot(t *testing.T) {
	p := testParams()
	b := nbody.NewBodies(600)

	_, err := Initialize(b, p, sampler.New(3))
	require.NoError(t, err)

	for i, pos := range b.Pos {
		assert.NotEqual(t, r3.Vec{}, pos, "body %d left at the zero sentinel", i)
	}
}

func TestInitializeSplitsGalaxies(t *testing.T) {
	p := testParams()
	b := nbody.NewBodies(600)

	l, err := Initialize(b, p, sampler.New(11))
	require.NoError(t, err)

	margin := p.MeshInterval
	for i, pos := range b.Pos {
		center := l.Bottom
		if i >= b.Half() {
			center = l.Top
		}
		d := r3.Sub(pos, center)
		assert.LessOrEqual(t, math.Hypot(d.X, d.Y), p.Radius+margin, "body %d outside its galaxy", i)
		assert.LessOrEqual(t, math.Abs(d.Z), p.HalfThickness+margin, "body %d outside its galaxy", i)
	}
}

func TestInitializeCoreIsDenser(t *testing.T) {
	p := testParams()
	b := nbody.NewBodies(600)

	l, err := Initialize(b, p, sampler.New(5))
	require.NoError(t, err)

	outer, _ := p.Split(b.Half())
	for i := outer; i < b.Half(); i++ {
		assert.LessOrEqual(t, r3.Norm(r3.Sub(b.Pos[i], l.Bottom)), p.CoreRadius)
	}
}

func TestInitializeVelocities(t *testing.T) {
	p := testParams()
	b := nbody.NewBodies(600)

	l, err := Initialize(b, p, sampler.New(9))
	require.NoError(t, err)

	half := b.Half()
	for i := range b.Pos {
		if i < half {
			assert.Equal(t, p.DriftSpeed, b.Vel[i].Z, "body %d drift", i)
		} else {
			assert.Equal(t, -p.DriftSpeed, b.Vel[i].Z, "body %d drift", i)
		}
	}

	// counter-rotation: angular momentum about each center has opposite sign
	spin := func(from, to int, c r3.Vec) float64 {
		s := 0.0
		for i := from; i < to; i++ {
			r := r3.Sub(b.Pos[i], c)
			s += r.X*b.Vel[i].Y - r.Y*b.Vel[i].X
		}
		return s
	}
	bottom := spin(0, half, l.Bottom)
	top := spin(half, b.Len(), l.Top)
	assert.Less(t, bottom, 0.0)
	assert.Greater(t, top, 0.0)
}

func TestInitializeRejectsOddPopulation(t *testing.T) {
	_, err := Initialize(nbody.NewBodies(7), testParams(), sampler.New(1))
	assert.True(t, errors.Is(err, dynamo.ErrOddPopulation))
}

func TestInitializeReportsShortfall(t *testing.T) {
	p := testParams()
	p.CoreRadius = 1

	_, err := Initialize(nbody.NewBodies(600), p, sampler.New(1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, dynamo.ErrSampleShortfall))
	assert.Contains(t, err.Error(), "bottom/core")
}

func TestTangentialVelocity(t *testing.T) {
	v, ok := TangentialVelocity(r3.Vec{X: 32}, 880, 0.4)
	require.True(t, ok)

	// r̂ = x̂, x̂ × ẑ = -ŷ
	assert.InDelta(t, 0, v.X, 1e-12)
	assert.InDelta(t, -880*math.Pow(32, 0.4), v.Y, 1e-9)
	assert.Equal(t, 0.0, v.Z)

	v, ok = TangentialVelocity(r3.Vec{X: 3, Y: 4, Z: 12}, 1, 1)
	require.True(t, ok)
	assert.Equal(t, 0.0, v.Z)
	assert.InDelta(t, 0, r3.Dot(v, r3.Vec{X: 3, Y: 4}), 1e-12)

	_, ok = TangentialVelocity(r3.Vec{}, 880, 0.4)
	assert.False(t, ok)
}
