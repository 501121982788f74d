package nbody_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/galaxysim/internal/compute"
	"github.com/san-kum/galaxysim/internal/nbody"
)

func pair(separation float64) *nbody.Bodies {
	b := nbody.NewBodies(2)
	b.Pos[0] = r3.Vec{}
	b.Pos[1] = r3.Vec{X: separation}
	return b
}

var _ = Describe("Kernel", func() {
	const (
		gm = 1e5
		dt = 0.001
	)

	for _, ordering := range []nbody.Ordering{nbody.Snapshot, nbody.Interleaved} {
		ordering := ordering

		Context("with "+ordering.String()+" ordering", func() {
			It("never moves a pair held inside the contact diameter", func() {
				b := pair(100)
				k := nbody.NewKernel(gm, 200, ordering, compute.NewSerialBackend())

				for frame := 0; frame < 50; frame++ {
					Expect(k.Step(b, dt)).To(Equal(1))
				}

				Expect(b.Pos[0]).To(Equal(r3.Vec{}))
				Expect(b.Pos[1]).To(Equal(r3.Vec{X: 100}))
				Expect(b.Vel[0]).To(Equal(r3.Vec{}))
				Expect(b.Vel[1]).To(Equal(r3.Vec{}))
				Expect(b.AccMag).To(Equal([]float64{0, 0}))
			})

			It("pulls a separated pair together along x", func() {
				b := pair(100)
				k := nbody.NewKernel(gm, 10, ordering, compute.NewSerialBackend())

				Expect(k.Step(b, dt)).To(Equal(0))

				Expect(b.Vel[0].X).To(BeNumerically(">", 0))
				Expect(b.Vel[1].X).To(BeNumerically("<", 0))
				Expect(b.Vel[0].Y).To(BeZero())
				Expect(b.Vel[0].Z).To(BeZero())
				Expect(b.Vel[1].Y).To(BeZero())
				Expect(b.Vel[1].Z).To(BeZero())
				Expect(b.Pos[0].X).To(BeNumerically(">", 0))
				Expect(b.Pos[1].X).To(BeNumerically("<", 100))
				Expect(b.AccMag[0]).To(BeNumerically(">", 0))
			})
		})
	}

	It("gives equal and opposite accelerations under snapshot ordering", func() {
		b := pair(100)
		k := nbody.NewKernel(gm, 10, nbody.Snapshot, compute.NewSerialBackend())
		k.Step(b, dt)

		Expect(b.Acc[0].X).To(Equal(-b.Acc[1].X))
		Expect(b.Vel[0].X).To(Equal(-b.Vel[1].X))
		Expect(b.AccMag[0]).To(Equal(b.AccMag[1]))
		Expect(b.AccMag[0]).To(BeNumerically("~", gm/(100*100), 1e-9))
	})

	It("applies the semi-implicit update with the fresh acceleration", func() {
		b := pair(100)
		b.Vel[0] = r3.Vec{Y: 3}
		k := nbody.NewKernel(gm, 10, nbody.Snapshot, compute.NewSerialBackend())
		k.Step(b, dt)

		a := gm / (100 * 100)
		Expect(b.Pos[0].X).To(BeNumerically("~", 0.5*a*dt*dt, 1e-15))
		Expect(b.Pos[0].Y).To(BeNumerically("~", 3*dt, 1e-15))
		Expect(b.Vel[0].X).To(BeNumerically("~", a*dt, 1e-12))
		Expect(b.Vel[0].Y).To(Equal(3.0))
	})

	It("lets later bodies see moved earlier bodies under interleaved ordering", func() {
		snap := pair(100)
		inter := pair(100)
		snap.Vel[0] = r3.Vec{X: 1000}
		inter.Vel[0] = r3.Vec{X: 1000}

		nbody.NewKernel(gm, 10, nbody.Snapshot, nil).Step(snap, dt)
		nbody.NewKernel(gm, 10, nbody.Interleaved, nil).Step(inter, dt)

		Expect(inter.Pos[0].X).To(BeNumerically("~", snap.Pos[0].X, 1e-12))
		Expect(inter.AccMag[1]).To(BeNumerically(">", snap.AccMag[1]))
	})

	It("counts a pair that enters contact mid-sweep under interleaved ordering", func() {
		b := pair(15)
		b.Vel[0] = r3.Vec{X: 10000}

		excluded := nbody.NewKernel(gm, 10, nbody.Interleaved, nil).Step(b, dt)

		Expect(excluded).To(Equal(1))
		Expect(b.AccMag[1]).To(Equal(0.0))
	})

	It("counts a pair held in contact once under either ordering", func() {
		for _, ordering := range []nbody.Ordering{nbody.Snapshot, nbody.Interleaved} {
			Expect(nbody.NewKernel(gm, 200, ordering, nil).Step(pair(100), dt)).To(Equal(1), ordering.String())
		}
	})

	It("conserves momentum over a short run without contacts", func() {
		b := nbody.NewBodies(16)
		for i := range b.Pos {
			angle := float64(i) * 2 * math.Pi / 16
			b.Pos[i] = r3.Vec{X: 50 * math.Cos(angle), Y: 50 * math.Sin(angle), Z: float64(i%4) * 3}
			b.Vel[i] = r3.Vec{X: -math.Sin(angle) * 20, Y: math.Cos(angle) * 20, Z: float64(i%3) - 1}
		}
		p0 := b.Momentum()

		k := nbody.NewKernel(gm, 0.5, nbody.Snapshot, compute.NewCPUBackend(4))
		for frame := 0; frame < 10; frame++ {
			Expect(k.Step(b, dt)).To(Equal(0))
		}

		drift := r3.Norm(r3.Sub(b.Momentum(), p0))
		Expect(drift).To(BeNumerically("<", 1e-9))
	})
})

var _ = Describe("ParseOrdering", func() {
	DescribeTable("known names",
		func(name string, want nbody.Ordering) {
			got, err := nbody.ParseOrdering(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("empty", "", nbody.Snapshot),
		Entry("snapshot", "snapshot", nbody.Snapshot),
		Entry("interleaved", "interleaved", nbody.Interleaved),
	)

	It("rejects unknown names", func() {
		_, err := nbody.ParseOrdering("random")
		Expect(err).To(HaveOccurred())
	})
})
