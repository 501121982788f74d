package compute

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

type Backend interface {
	Name() string
	// Accelerations overwrites acc with the Gm-scaled acceleration of every
	// body and returns the number of unordered pairs excluded by contact.
	Accelerations(pos []r3.Vec, gm, diameter float64, acc []r3.Vec) int
}

var backends = map[string]func(workers int) Backend{
	"serial":   func(int) Backend { return NewSerialBackend() },
	"parallel": func(workers int) Backend { return NewCPUBackend(workers) },
}

// Lookup returns the backend registered under name.
func Lookup(name string, workers int) (Backend, error) {
	fn, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("unknown backend: %s (available: %v)", name, Names())
	}
	return fn(workers), nil
}

func Names() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AccelerationOn sums the pull of every other body on body i. Pairs closer
// than diameter, and coincident pairs, contribute nothing. The second
// return value counts the excluded partners with an index below i, so
// summing it over all bodies counts each unordered pair once.
func AccelerationOn(i int, pos []r3.Vec, gm, diameter float64) (r3.Vec, int) {
	d3 := diameter * diameter * diameter
	pi := pos[i]

	var ax, ay, az float64
	excluded := 0
	for j := range pos {
		if j == i {
			continue
		}

		rx := pos[j].X - pi.X
		ry := pos[j].Y - pi.Y
		rz := pos[j].Z - pi.Z
		r2 := rx*rx + ry*ry + rz*rz
		dist3 := r2 * math.Sqrt(r2)

		if dist3 < d3 || dist3 == 0 {
			if j < i {
				excluded++
			}
			continue
		}

		inv := 1.0 / dist3
		ax += rx * inv
		ay += ry * inv
		az += rz * inv
	}

	return r3.Vec{X: gm * ax, Y: gm * ay, Z: gm * az}, excluded
}
