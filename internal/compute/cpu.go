package compute

import (
	"math"
	"sync/atomic"

	"github.com/san-kum/galaxysim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// parallelThreshold is the population below which CPUBackend falls back to
// the serial kernel.
const parallelThreshold = 64

type SerialBackend struct{}

func NewSerialBackend() *SerialBackend { return &SerialBackend{} }

func (s *SerialBackend) Name() string { return "serial" }

func (s *SerialBackend) Accelerations(pos []r3.Vec, gm, diameter float64, acc []r3.Vec) int {
	n := len(pos)
	d3 := diameter * diameter * diameter

	for i := range acc[:n] {
		acc[i] = r3.Vec{}
	}

	excluded := 0
	for i := 0; i < n; i++ {
		pi := pos[i]

		for j := i + 1; j < n; j++ {
			rx := pos[j].X - pi.X
			ry := pos[j].Y - pi.Y
			rz := pos[j].Z - pi.Z
			r2 := rx*rx + ry*ry + rz*rz
			dist3 := r2 * math.Sqrt(r2)

			if dist3 < d3 || dist3 == 0 {
				excluded++
				continue
			}

			f := gm / dist3
			acc[i].X += f * rx
			acc[i].Y += f * ry
			acc[i].Z += f * rz

			acc[j].X -= f * rx
			acc[j].Y -= f * ry
			acc[j].Z -= f * rz
		}
	}

	return excluded
}

type CPUBackend struct {
	workers int
	serial  *SerialBackend
}

// NewCPUBackend returns a worker-parallel backend. workers <= 0 uses every CPU.
func NewCPUBackend(workers int) *CPUBackend {
	return &CPUBackend{workers: workers, serial: NewSerialBackend()}
}

func (c *CPUBackend) Name() string { return "parallel" }

func (c *CPUBackend) Accelerations(pos []r3.Vec, gm, diameter float64, acc []r3.Vec) int {
	n := len(pos)
	if n < parallelThreshold {
		return c.serial.Accelerations(pos, gm, diameter, acc)
	}

	var excluded atomic.Int64
	dynamo.ParallelFor(n, parallelThreshold/4, c.workers, func(start, end int) {
		local := 0
		for i := start; i < end; i++ {
			a, ex := AccelerationOn(i, pos, gm, diameter)
			acc[i] = a
			local += ex
		}
		excluded.Add(int64(local))
	})

	return int(excluded.Load())
}
