package sim

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/galaxysim/internal/config"
	"github.com/san-kum/galaxysim/internal/dynamo"
	"github.com/san-kum/galaxysim/internal/storage"
	"gonum.org/v1/gonum/spatial/r3"
)

func tinyConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.NumBodies = 20
	cfg.Frames = 5
	cfg.Dt = 1e-3
	cfg.Gm = 1
	cfg.Seed = 7
	cfg.Backend = "serial"
	cfg.Galaxy.Radius = 10
	cfg.Galaxy.HalfThickness = 1
	cfg.Galaxy.CoreRadius = 4
	cfg.Galaxy.CoreHalfThickness = 1
	cfg.Galaxy.MeshInterval = 1
	cfg.Galaxy.Offset = config.Vec{X: 5, Z: 30}
	cfg.Galaxy.DriftSpeed = 2
	return cfg
}

func initialized(cfg *config.Config, opts ...Option) *Simulation {
	s, err := New(cfg, opts...)
	Expect(err).NotTo(HaveOccurred())
	Expect(s.InitializeStates()).To(Succeed())
	return s
}

var _ = Describe("Simulation", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("rejects an invalid configuration", func() {
		cfg := tinyConfig()
		cfg.NumBodies = 7
		_, err := New(cfg)
		Expect(err).To(HaveOccurred())
	})

	It("refuses to run before initialization", func() {
		s, err := New(tinyConfig())
		Expect(err).NotTo(HaveOccurred())

		_, err = s.Run(ctx, 0)
		Expect(errors.Is(err, dynamo.ErrNotInitialized)).To(BeTrue())
	})

	It("records every frame and reports progress", func() {
		var seen [][2]int
		s := initialized(tinyConfig(), WithObserver(ObserverFunc(func(done, total int) {
			seen = append(seen, [2]int{done, total})
		})))

		res, err := s.Run(ctx, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Frames).To(Equal(5))
		Expect(res.Series.Complete()).To(BeTrue())
		Expect(res.Metrics).To(HaveKey("momentum_drift"))
		Expect(res.Metrics).To(HaveKey("energy_drift"))
		Expect(res.Metrics).To(HaveKey("exclusions"))
		Expect(seen).To(HaveLen(5))
		Expect(seen[4]).To(Equal([2]int{5, 5}))

		pos, _, err := res.Series.Frame(4)
		Expect(err).NotTo(HaveOccurred())
		Expect(pos).To(Equal(s.Bodies().Pos))
	})

	It("places both galaxies around their centers", func() {
		s := initialized(tinyConfig())
		l := s.Layout()
		Expect(l.Top).To(Equal(r3.Vec{X: 5, Z: 30}))

		b := s.Bodies()
		for i := 0; i < b.Half(); i++ {
			Expect(r3.Norm(r3.Sub(b.Pos[i], l.Bottom))).To(BeNumerically("<=", 10))
		}
		for i := b.Half(); i < b.Len(); i++ {
			Expect(r3.Norm(r3.Sub(b.Pos[i], l.Top))).To(BeNumerically("<=", 10))
		}
	})

	It("runs in pieces up to the configured frame count", func() {
		s := initialized(tinyConfig())

		_, err := s.Run(ctx, 2)
		Expect(err).NotTo(HaveOccurred())
		res, err := s.Run(ctx, 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Series.Len()).To(Equal(5))

		_, err = s.Run(ctx, 1)
		Expect(errors.Is(err, dynamo.ErrStoreFull)).To(BeTrue())
	})

	It("stops when the context is cancelled", func() {
		s := initialized(tinyConfig())
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		res, err := s.Run(cctx, 0)
		Expect(err).To(MatchError(context.Canceled))
		Expect(res.Frames).To(Equal(0))
	})

	It("reports the body that went non-finite", func() {
		s := initialized(tinyConfig())
		s.Bodies().Vel[3] = r3.Vec{X: math.Inf(1)}

		_, err := s.Run(ctx, 0)
		Expect(errors.Is(err, dynamo.ErrInvalidState)).To(BeTrue())

		var pe *dynamo.PreconditionError
		Expect(errors.As(err, &pe)).To(BeTrue())
		Expect(pe.Body).To(Equal(3))
		Expect(pe.Frame).To(Equal(0))
	})

	It("is reproducible for a fixed seed", func() {
		a := initialized(tinyConfig())
		b := initialized(tinyConfig())
		ra, err := a.Run(ctx, 0)
		Expect(err).NotTo(HaveOccurred())
		rb, err := b.Run(ctx, 0)
		Expect(err).NotTo(HaveOccurred())

		pa, _, _ := ra.Series.Frame(4)
		pb, _, _ := rb.Series.Frame(4)
		Expect(pa).To(Equal(pb))
	})

	It("gives the same trajectory on both backends", func() {
		serial := tinyConfig()
		parallel := tinyConfig()
		parallel.Backend = "parallel"
		parallel.Workers = 4

		rs, err := initialized(serial).Run(ctx, 0)
		Expect(err).NotTo(HaveOccurred())
		rp, err := initialized(parallel).Run(ctx, 0)
		Expect(err).NotTo(HaveOccurred())

		ps, _, _ := rs.Series.Frame(4)
		pp, _, _ := rp.Series.Frame(4)
		for i := range ps {
			Expect(r3.Norm(r3.Sub(ps[i], pp[i]))).To(BeNumerically("<", 1e-9))
		}
	})

	Describe("saved runs", func() {
		var st *storage.Store

		BeforeEach(func() {
			st = storage.New(GinkgoT().TempDir())
			Expect(st.Init()).To(Succeed())
		})

		It("loads a stored run for playback only", func() {
			cfg := tinyConfig()
			s := initialized(cfg)
			res, err := s.Run(ctx, 0)
			Expect(err).NotTo(HaveOccurred())

			name, err := st.Save("tiny", res.Series, storage.RunInfo{Seed: cfg.Seed, Dt: cfg.Dt, Config: cfg, Metrics: res.Metrics})
			Expect(err).NotTo(HaveOccurred())

			loaded, err := LoadSaved(st, name)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Playback()).To(BeTrue())
			Expect(loaded.Series().Meta()).To(Equal(res.Series.Meta()))
			Expect(loaded.Layout()).To(Equal(s.Layout()))

			_, err = loaded.Run(ctx, 1)
			Expect(errors.Is(err, dynamo.ErrNotInitialized)).To(BeTrue())
			Expect(errors.Is(loaded.InitializeStates(), dynamo.ErrNotInitialized)).To(BeTrue())
		})

		It("fails on a missing run", func() {
			_, err := LoadSaved(st, "missing")
			Expect(errors.Is(err, dynamo.ErrMetadata)).To(BeTrue())
		})
	})
})

var _ = Describe("Ensemble", func() {
	It("runs one member per seed", func() {
		results, err := NewEnsemble(tinyConfig(), 3, 10, 2).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))

		p0, _, _ := results[0].Series.Frame(0)
		p1, _, _ := results[1].Series.Frame(0)
		Expect(p0).NotTo(Equal(p1))
		for _, r := range results {
			Expect(r.Series.Complete()).To(BeTrue())
		}
	})

	It("propagates member failures", func() {
		cfg := tinyConfig()
		cfg.Galaxy.CoreRadius = 0.1
		_, err := NewEnsemble(cfg, 2, 1, 0).Run(context.Background())
		Expect(errors.Is(err, dynamo.ErrSampleShortfall)).To(BeTrue())
	})
})
