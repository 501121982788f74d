package metrics

import (
	"github.com/san-kum/galaxysim/internal/nbody"
	"gonum.org/v1/gonum/floats"
)

// Exclusions reports how many body pairs the contact rule skipped in the
// latest frame.
type Exclusions struct {
	last  int
	total int
}

func NewExclusions() *Exclusions { return &Exclusions{} }

func (e *Exclusions) Name() string { return "exclusions" }

func (e *Exclusions) Observe(b *nbody.Bodies, excluded int) {
	e.last = excluded
	e.total += excluded
}

func (e *Exclusions) Value() float64 { return float64(e.last) }

// Total is the exclusion count summed over every observed frame.
func (e *Exclusions) Total() int { return e.total }

func (e *Exclusions) Reset() {
	e.last = 0
	e.total = 0
}

// PeakAcceleration is the largest acceleration magnitude seen so far.
type PeakAcceleration struct {
	peak float64
}

func NewPeakAcceleration() *PeakAcceleration { return &PeakAcceleration{} }

func (p *PeakAcceleration) Name() string { return "peak_acceleration" }

func (p *PeakAcceleration) Observe(b *nbody.Bodies, excluded int) {
	if len(b.AccMag) == 0 {
		return
	}
	if m := floats.Max(b.AccMag); m > p.peak {
		p.peak = m
	}
}

func (p *PeakAcceleration) Value() float64 { return p.peak }

func (p *PeakAcceleration) Reset() { p.peak = 0 }
