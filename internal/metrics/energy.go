package metrics

import (
	"math"

	"github.com/san-kum/galaxysim/internal/nbody"
	"gonum.org/v1/gonum/spatial/r3"
)

// EnergyDrift tracks the largest relative change in total energy.
type EnergyDrift struct {
	name          string
	gm            float64
	diameter      float64
	every         int
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(gm, diameter float64, every int) *EnergyDrift {
	if every < 1 {
		every = 1
	}
	return &EnergyDrift{
		name:     "energy_drift",
		gm:       gm,
		diameter: diameter,
		every:    every,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(b *nbody.Bodies, excluded int) {
	defer func() { e.samples++ }()
	if e.samples%e.every != 0 {
		return
	}

	energy := b.Energy(e.gm, e.diameter)
	if e.samples == 0 {
		e.initialEnergy = energy
		return
	}

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// MomentumDrift is |P_t - P_0| / max(|P_0|, 1) at the latest frame.
type MomentumDrift struct {
	initial r3.Vec
	drift   float64
	samples int
}

func NewMomentumDrift() *MomentumDrift { return &MomentumDrift{} }

func (m *MomentumDrift) Name() string { return "momentum_drift" }

func (m *MomentumDrift) Observe(b *nbody.Bodies, excluded int) {
	p := b.Momentum()
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++
	m.drift = r3.Norm(r3.Sub(p, m.initial)) / math.Max(r3.Norm(m.initial), 1)
}

func (m *MomentumDrift) Value() float64 { return m.drift }

func (m *MomentumDrift) Reset() {
	m.initial = r3.Vec{}
	m.drift = 0
	m.samples = 0
}
