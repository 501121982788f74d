package nbody_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/galaxysim/internal/nbody"
)

var _ = Describe("Bodies", func() {
	It("allocates a zeroed population", func() {
		b := nbody.NewBodies(10)
		Expect(b.Len()).To(Equal(10))
		Expect(b.Half()).To(Equal(5))
		Expect(b.Momentum()).To(Equal(r3.Vec{}))
	})

	It("sums momentum and angular momentum", func() {
		b := nbody.NewBodies(2)
		b.Pos[0] = r3.Vec{X: 1}
		b.Vel[0] = r3.Vec{Y: 2}
		b.Pos[1] = r3.Vec{X: -1}
		b.Vel[1] = r3.Vec{Y: -2}

		Expect(b.Momentum()).To(Equal(r3.Vec{}))
		Expect(b.AngularMomentum()).To(Equal(r3.Vec{Z: 4}))
	})

	It("drops potential energy for pairs in contact", func() {
		b := nbody.NewBodies(2)
		b.Pos[1] = r3.Vec{X: 2}

		Expect(b.Energy(1, 0)).To(BeNumerically("~", -0.5, 1e-15))
		Expect(b.Energy(1, 3)).To(BeZero())
	})

	It("reports the first non-finite body", func() {
		b := nbody.NewBodies(3)
		ok, idx := b.Valid()
		Expect(ok).To(BeTrue())
		Expect(idx).To(Equal(-1))

		b.Vel[2] = r3.Vec{Z: math.Inf(1)}
		ok, idx = b.Valid()
		Expect(ok).To(BeFalse())
		Expect(idx).To(Equal(2))
	})
})
