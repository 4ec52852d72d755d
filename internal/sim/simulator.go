// Package sim runs the per-frame pipeline: clear, inject, advect, render.
package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/gridflow/internal/advect"
	"github.com/san-kum/gridflow/internal/frame"
	"github.com/san-kum/gridflow/internal/grid"
	"github.com/san-kum/gridflow/internal/inject"
	"github.com/san-kum/gridflow/internal/metrics"
	"github.com/san-kum/gridflow/internal/raster"
)

type Simulator struct {
	cfg       Config
	grid      *grid.Grid
	engine    *advect.Engine
	injector  *inject.Injector
	raster    *raster.Rasterizer
	buf       *frame.Buffer
	metrics   []Metric
	observers []Observer
	frame     int
}

func New(cfg Config) (*Simulator, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	g, err := grid.New(cfg.Width, cfg.CellDim)
	if err != nil {
		return nil, err
	}

	opts := advect.DefaultOptions()
	opts.TimeStep = cfg.TimeStep
	opts.AdvectColor = cfg.AdvectColor
	opts.Workers = cfg.Workers
	engine, err := advect.New(g, opts)
	if err != nil {
		return nil, err
	}

	injector, err := inject.New(g, cfg.Width, cfg.Height, cfg.InjectionVelocity)
	if err != nil {
		return nil, err
	}

	buf, err := frame.NewBuffer(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}

	return &Simulator{
		cfg:       cfg,
		grid:      g,
		engine:    engine,
		injector:  injector,
		raster:    raster.New(g, cfg.Mode, cfg.Workers),
		buf:       buf,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}, nil
}

func validateConfig(cfg Config) error {
	if cfg.Width < 1 || cfg.Height < 1 {
		return fmt.Errorf("%w: image %dx%d", grid.ErrInvalidDimensions, cfg.Width, cfg.Height)
	}
	if cfg.CellDim < 1 {
		return fmt.Errorf("%w: cell dim %d", grid.ErrInvalidDimensions, cfg.CellDim)
	}
	return nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Config() Config                 { return s.cfg }
func (s *Simulator) Grid() *grid.Grid               { return s.grid }
func (s *Simulator) Buffer() *frame.Buffer          { return s.buf }
func (s *Simulator) Engine() *advect.Engine         { return s.engine }
func (s *Simulator) Injector() *inject.Injector     { return s.injector }
func (s *Simulator) Rasterizer() *raster.Rasterizer { return s.raster }

// FrameIndex is the number of completed frames.
func (s *Simulator) FrameIndex() int { return s.frame }

// Seed stamps initial velocities and activations before the first frame.
// vx and vy may both be nil to skip the stamp.
func (s *Simulator) Seed(vx, vy []float64, activated []int) error {
	if vx != nil || vy != nil {
		if err := s.injector.SetVelocities(vx, vy); err != nil {
			return err
		}
	}
	return s.injector.ApplyActivation(activated)
}

// Frame runs one full frame. Activation input is validated before the
// buffer or grid changes.
func (s *Simulator) Frame(activated []int) error {
	n := s.injector.PixelCount()
	for _, p := range activated {
		if p < 0 || p >= n {
			return &FrameError{Frame: s.frame, Wrapped: fmt.Errorf("%w: %d", grid.ErrPixelOutOfRange, p)}
		}
	}

	s.raster.Clear(s.buf)
	if err := s.injector.ApplyActivation(activated); err != nil {
		return &FrameError{Frame: s.frame, Wrapped: err}
	}
	s.engine.Step()
	if err := s.raster.Render(s.buf); err != nil {
		return &FrameError{Frame: s.frame, Wrapped: err}
	}

	for _, m := range s.metrics {
		m.Observe(s.grid, s.frame)
	}
	for _, o := range s.observers {
		o.OnFrame(s.buf, s.grid, s.frame)
	}
	s.frame++
	return nil
}

// Run executes frames headless, applying the schedule's activations on
// their frames. On cancellation the partial result is returned with ctx.Err().
func (s *Simulator) Run(ctx context.Context, frames int, schedule Schedule) (*Result, error) {
	if frames <= 0 {
		return nil, fmt.Errorf("frames must be positive, got %d", frames)
	}

	result := &Result{
		Stats:   make([]metrics.FrameStats, 0, frames),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		idx := s.frame
		if err := s.Frame(schedule[idx]); err != nil {
			s.collect(result)
			return result, err
		}
		result.Stats = append(result.Stats, metrics.Measure(s.grid, idx))
		result.Frames++
	}

	s.collect(result)
	return result, nil
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// Reset restores the initial grid and rewinds the frame and step counters.
func (s *Simulator) Reset() {
	s.grid.Reset()
	s.engine.ResetSteps()
	s.raster.Clear(s.buf)
	for _, m := range s.metrics {
		m.Reset()
	}
	s.frame = 0
}
