package compute

import (
	"fmt"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func BenchmarkAccelerations(b *testing.B) {
	for _, n := range []int{256, 1024, 2048} {
		pos := lineOfBodies(n, 1.0)
		acc := make([]r3.Vec, n)

		for _, backend := range []Backend{NewSerialBackend(), NewCPUBackend(0)} {
			b.Run(fmt.Sprintf("%s-%d", backend.Name(), n), func(b *testing.B) {
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					backend.Accelerations(pos, 1.0, 0.1, acc)
				}
			})
		}
	}
}
