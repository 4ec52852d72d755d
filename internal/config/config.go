package config

import (
	"fmt"
	"os"

	"github.com/san-kum/gridflow/internal/inject"
	"github.com/san-kum/gridflow/internal/raster"
	"github.com/san-kum/gridflow/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth    = 64
	DefaultHeight   = 64
	DefaultCellDim  = 1
	DefaultTimeStep = 1.0
	DefaultFrames   = 200
	DefaultScenario = "plume"
)

type Config struct {
	Width             int                `yaml:"width"`
	Height            int                `yaml:"height"`
	CellDim           int                `yaml:"cell_dim"`
	TimeStep          float64            `yaml:"time_step"`
	Frames            int                `yaml:"frames"`
	AdvectColor       bool               `yaml:"advect_color"`
	RenderMode        string             `yaml:"render_mode"`
	Workers           int                `yaml:"workers"`
	InjectionVelocity float64            `yaml:"injection_velocity"`
	Scenario          string             `yaml:"scenario"`
	Seed              int64              `yaml:"seed"`
	Activations       []ActivationConfig `yaml:"activations"`
}

// ActivationConfig activates a disc of pixels, in buffer coordinates with a
// bottom-left origin, on the given frame.
type ActivationConfig struct {
	Frame  int `yaml:"frame"`
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Radius int `yaml:"radius"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:             DefaultWidth,
		Height:            DefaultHeight,
		CellDim:           DefaultCellDim,
		TimeStep:          DefaultTimeStep,
		Frames:            DefaultFrames,
		RenderMode:        raster.MotionMode.String(),
		Workers:           1,
		InjectionVelocity: inject.DefaultVelocity,
		Scenario:          DefaultScenario,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Width < 1 || c.Height < 1 {
		return fmt.Errorf("image must be at least 1x1, got %dx%d", c.Width, c.Height)
	}
	if c.CellDim < 1 || c.CellDim > c.Width {
		return fmt.Errorf("cell_dim must be in [1,%d], got %d", c.Width, c.CellDim)
	}
	if c.Frames < 1 {
		return fmt.Errorf("frames must be positive, got %d", c.Frames)
	}
	if _, err := raster.ParseMode(c.RenderMode); err != nil {
		return err
	}
	for i, a := range c.Activations {
		if a.Frame < 0 || a.Radius < 0 {
			return fmt.Errorf("activation %d: frame and radius must be non-negative", i)
		}
	}
	return nil
}

// SimConfig converts to the simulator's configuration.
func (c *Config) SimConfig() (sim.Config, error) {
	if err := c.Validate(); err != nil {
		return sim.Config{}, err
	}
	mode, _ := raster.ParseMode(c.RenderMode)
	return sim.Config{
		Width:             c.Width,
		Height:            c.Height,
		CellDim:           c.CellDim,
		TimeStep:          c.TimeStep,
		AdvectColor:       c.AdvectColor,
		Mode:              mode,
		Workers:           c.Workers,
		InjectionVelocity: c.InjectionVelocity,
	}, nil
}

// Schedule rasterizes the configured activation discs into per-frame
// pixel sets.
func (c *Config) Schedule() sim.Schedule {
	schedule := make(sim.Schedule)
	for _, a := range c.Activations {
		sig := inject.NewSignal(c.Width, c.Height)
		sig.MarkDisc(a.X, a.Y, a.Radius)
		schedule[a.Frame] = append(schedule[a.Frame], sig.Indices()...)
	}
	return schedule
}
