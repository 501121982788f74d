package nbody

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

type Bodies struct {
	Pos    []r3.Vec
	Vel    []r3.Vec
	Acc    []r3.Vec
	AccMag []float64
}

// NewBodies allocates a zeroed population of n bodies.
func NewBodies(n int) *Bodies {
	return &Bodies{
		Pos:    make([]r3.Vec, n),
		Vel:    make([]r3.Vec, n),
		Acc:    make([]r3.Vec, n),
		AccMag: make([]float64, n),
	}
}

func (b *Bodies) Len() int { return len(b.Pos) }

// Half is the index of the first body of the second galaxy.
func (b *Bodies) Half() int { return len(b.Pos) / 2 }

// Momentum returns the total momentum per unit body mass.
func (b *Bodies) Momentum() r3.Vec {
	var p r3.Vec
	for _, v := range b.Vel {
		p = r3.Add(p, v)
	}
	return p
}

// AngularMomentum returns the total angular momentum about the origin per unit body mass.
func (b *Bodies) AngularMomentum() r3.Vec {
	var l r3.Vec
	for i := range b.Pos {
		l = r3.Add(l, r3.Cross(b.Pos[i], b.Vel[i]))
	}
	return l
}

// Energy returns kinetic plus potential energy per unit body mass. Pairs
// inside the contact diameter carry no potential, consistent with the
// force law.
func (b *Bodies) Energy(gm, diameter float64) float64 {
	ke := 0.0
	pe := 0.0

	for i := range b.Pos {
		ke += 0.5 * r3.Norm2(b.Vel[i])

		for j := i + 1; j < len(b.Pos); j++ {
			r := r3.Norm(r3.Sub(b.Pos[j], b.Pos[i]))
			if r < diameter || r == 0 {
				continue
			}
			pe -= gm / r
		}
	}

	return ke + pe
}

// Valid reports whether every position and velocity is finite. The second
// return value is the first offending body index, or -1.
func (b *Bodies) Valid() (bool, int) {
	for i := range b.Pos {
		if !finite(b.Pos[i]) || !finite(b.Vel[i]) {
			return false, i
		}
	}
	return true, -1
}

func finite(v r3.Vec) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
