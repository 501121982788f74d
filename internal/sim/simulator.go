// Package sim owns one simulation context: it builds the initial galaxies,
// steps the kernel and records every frame.
package sim

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/san-kum/galaxysim/internal/compute"
	"github.com/san-kum/galaxysim/internal/config"
	"github.com/san-kum/galaxysim/internal/dynamo"
	"github.com/san-kum/galaxysim/internal/galaxy"
	"github.com/san-kum/galaxysim/internal/metrics"
	"github.com/san-kum/galaxysim/internal/nbody"
	"github.com/san-kum/galaxysim/internal/sampler"
	"github.com/san-kum/galaxysim/internal/series"
	"github.com/san-kum/galaxysim/internal/storage"
)

type Simulation struct {
	cfg       *config.Config
	kernel    *nbody.Kernel
	bodies    *nbody.Bodies
	layout    galaxy.Layout
	series    *series.Series
	metrics   []metrics.Metric
	observers []Observer
	logger    *slog.Logger
	playback  bool
}

type Option func(*Simulation)

func WithLogger(l *slog.Logger) Option {
	return func(s *Simulation) { s.logger = l }
}

func WithObserver(o Observer) Option {
	return func(s *Simulation) { s.observers = append(s.observers, o) }
}

// WithMetrics replaces the standard metric set.
func WithMetrics(ms ...metrics.Metric) Option {
	return func(s *Simulation) { s.metrics = ms }
}

// New validates cfg and prepares a simulation. Call InitializeStates
// before Run.
func New(cfg *config.Config, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ordering, _ := nbody.ParseOrdering(cfg.Ordering)
	backend, err := compute.Lookup(cfg.Backend, cfg.Workers)
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		cfg:     cfg,
		kernel:  nbody.NewKernel(cfg.Gm, cfg.Diameter, ordering, backend),
		metrics: metrics.Standard(cfg.Gm, cfg.Diameter, energyEvery(cfg.Frames)),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// LoadSaved returns a playback-only simulation holding a stored run.
func LoadSaved(st *storage.Store, name string) (*Simulation, error) {
	ser, meta, err := st.Load(name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}

	cfg, err := st.LoadConfig(name)
	if err != nil {
		cfg = config.DefaultConfig()
		cfg.NumBodies = meta.Bodies
		cfg.Frames = meta.Frames
		cfg.LengthUnit = meta.Unit
		cfg.Seed = meta.Seed
		cfg.Dt = meta.Dt
	}

	return &Simulation{
		cfg:      cfg,
		series:   ser,
		layout:   cfg.GalaxyParams().Layout(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		playback: true,
	}, nil
}

// InitializeStates places both galaxies and allocates the time series.
func (s *Simulation) InitializeStates() error {
	if s.playback {
		return fmt.Errorf("%w: loaded run is playback only", dynamo.ErrNotInitialized)
	}

	b := nbody.NewBodies(s.cfg.NumBodies)
	layout, err := galaxy.Initialize(b, s.cfg.GalaxyParams(), sampler.New(s.cfg.Seed))
	if err != nil {
		return err
	}

	s.bodies = b
	s.layout = layout
	s.series = series.New(s.cfg.NumBodies, s.cfg.Frames, s.cfg.LengthUnit)
	for _, m := range s.metrics {
		m.Reset()
	}

	s.logger.Debug("galaxies initialized",
		"bodies", b.Len(),
		"bottom", layout.Bottom,
		"top", layout.Top,
		"seed", s.cfg.Seed,
	)
	return nil
}

// Run steps the kernel for frames frames, or for every remaining frame
// when frames <= 0, recording each one.
func (s *Simulation) Run(ctx context.Context, frames int) (*Result, error) {
	if s.bodies == nil || s.series == nil || s.playback {
		return nil, dynamo.NewPreconditionError("run", dynamo.ErrNotInitialized)
	}

	remaining := s.series.Frames() - s.series.Len()
	if frames <= 0 {
		frames = remaining
	}
	if frames > remaining {
		err := dynamo.NewPreconditionError("run", dynamo.ErrStoreFull)
		err.Frame = s.series.Len() + frames - 1
		return nil, err
	}

	s.logger.Info("run started",
		"bodies", s.bodies.Len(),
		"frames", frames,
		"ordering", s.kernel.Ordering,
		"backend", s.kernel.Backend().Name(),
	)

	start := time.Now()
	result := &Result{Series: s.series, Metrics: make(map[string]float64)}
	dt := s.cfg.Dt

	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			result.Elapsed = time.Since(start)
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		frame := s.series.Len()
		excluded := s.kernel.Step(s.bodies, dt)

		if ok, body := s.bodies.Valid(); !ok {
			err := dynamo.NewPreconditionError("step", dynamo.ErrInvalidState)
			err.Body = body
			err.Frame = frame
			result.Elapsed = time.Since(start)
			s.collect(result)
			return result, err
		}

		if err := s.series.Append(s.bodies.Pos, s.bodies.AccMag); err != nil {
			return result, err
		}

		result.Frames++
		result.Exclusions += excluded
		for _, m := range s.metrics {
			m.Observe(s.bodies, excluded)
		}
		for _, obs := range s.observers {
			obs.OnFrame(i+1, frames)
		}
	}

	result.Elapsed = time.Since(start)
	s.collect(result)

	s.logger.Info("run finished", "frames", result.Frames, "elapsed", result.Elapsed)
	for name, v := range result.Metrics {
		s.logger.Debug("metric", "name", name, "value", v)
	}
	return result, nil
}

func (s *Simulation) collect(r *Result) {
	for _, m := range s.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulation) Config() *config.Config { return s.cfg }
func (s *Simulation) Series() *series.Series { return s.series }
func (s *Simulation) Bodies() *nbody.Bodies  { return s.bodies }
func (s *Simulation) Layout() galaxy.Layout  { return s.layout }
func (s *Simulation) Playback() bool         { return s.playback }

// energyEvery keeps the quadratic energy sum to about a hundred samples.
func energyEvery(frames int) int {
	if frames <= 100 {
		return 1
	}
	return frames / 100
}
