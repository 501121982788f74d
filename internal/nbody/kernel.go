package nbody

import (
	"fmt"

	"github.com/san-kum/galaxysim/internal/compute"
	"gonum.org/v1/gonum/spatial/r3"
)

type Ordering int

const (
	// Snapshot computes all accelerations from the start-of-step positions.
	Snapshot Ordering = iota
	// Interleaved advances each body before the next one sums its forces.
	Interleaved
)

func (o Ordering) String() string {
	switch o {
	case Snapshot:
		return "snapshot"
	case Interleaved:
		return "interleaved"
	default:
		return fmt.Sprintf("ordering(%d)", int(o))
	}
}

func ParseOrdering(s string) (Ordering, error) {
	switch s {
	case "", "snapshot":
		return Snapshot, nil
	case "interleaved":
		return Interleaved, nil
	default:
		return Snapshot, fmt.Errorf("unknown ordering: %s", s)
	}
}

type Kernel struct {
	Gm       float64
	Diameter float64
	Ordering Ordering
	backend  compute.Backend
}

func NewKernel(gm, diameter float64, ordering Ordering, backend compute.Backend) *Kernel {
	if backend == nil {
		backend = compute.NewSerialBackend()
	}
	return &Kernel{Gm: gm, Diameter: diameter, Ordering: ordering, backend: backend}
}

func (k *Kernel) Backend() compute.Backend { return k.backend }

// Step advances every body by dt and refreshes b.Acc and b.AccMag. It
// returns the number of body pairs skipped by the contact rule.
func (k *Kernel) Step(b *Bodies, dt float64) int {
	if k.Ordering == Interleaved {
		return k.stepInterleaved(b, dt)
	}

	excluded := k.backend.Accelerations(b.Pos, k.Gm, k.Diameter, b.Acc)
	for i := range b.Pos {
		advance(b, i, dt)
	}
	return excluded
}

func (k *Kernel) stepInterleaved(b *Bodies, dt float64) int {
	excluded := 0
	for i := range b.Pos {
		a, ex := compute.AccelerationOn(i, b.Pos, k.Gm, k.Diameter)
		b.Acc[i] = a
		excluded += ex
		advance(b, i, dt)
	}
	// a pair counts when its later body skips it
	return excluded
}

func advance(b *Bodies, i int, dt float64) {
	a := b.Acc[i]
	b.Pos[i] = r3.Add(b.Pos[i], r3.Add(r3.Scale(dt, b.Vel[i]), r3.Scale(0.5*dt*dt, a)))
	b.Vel[i] = r3.Add(b.Vel[i], r3.Scale(dt, a))
	b.AccMag[i] = r3.Norm(a)
}
