// Package metrics accumulates run diagnostics frame by frame.
package metrics

import "github.com/san-kum/galaxysim/internal/nbody"

// Metric observes the population after every frame.
type Metric interface {
	Name() string
	Observe(b *nbody.Bodies, excluded int)
	Value() float64
	Reset()
}

// Standard returns the metrics attached to every run. Energy is sampled
// every energyEvery frames since it is quadratic in the body count.
func Standard(gm, diameter float64, energyEvery int) []Metric {
	return []Metric{
		NewMomentumDrift(),
		NewEnergyDrift(gm, diameter, energyEvery),
		NewExclusions(),
		NewPeakAcceleration(),
	}
}
