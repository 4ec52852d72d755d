package main

import (
	"fmt"

	"github.com/san-kum/gridflow/internal/config"
	"github.com/san-kum/gridflow/internal/metrics"
	"github.com/san-kum/gridflow/internal/scenario"
	"github.com/san-kum/gridflow/internal/sim"
	"github.com/san-kum/gridflow/internal/storage"
	"github.com/spf13/cobra"
)

// resolveConfig layers, in order: defaults, --preset, --config, then any
// flag the user set explicitly. A positional argument names the scenario.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("cell-dim") {
		cfg.CellDim = cellDim
	}
	if flags.Changed("dt") {
		cfg.TimeStep = dt
	}
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("color") {
		cfg.AdvectColor = advectColor
	}
	if flags.Changed("mode") {
		cfg.RenderMode = renderMode
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("velocity") {
		cfg.InjectionVelocity = velocity
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if len(args) > 0 {
		cfg.Scenario = args[0]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildSimulation creates an unseeded simulator with the standard metrics
// attached, plus the scenario's initial stamp.
func buildSimulation(cfg *config.Config, seed int64) (*sim.Simulator, scenario.Setup, error) {
	simCfg, err := cfg.SimConfig()
	if err != nil {
		return nil, scenario.Setup{}, err
	}
	s, err := sim.New(simCfg)
	if err != nil {
		return nil, scenario.Setup{}, err
	}
	s.AddMetric(metrics.NewMovingCells())
	s.AddMetric(metrics.NewPeakSpeed())
	s.AddMetric(metrics.NewMeanSpeed())
	s.AddMetric(metrics.NewCoverage())

	setup, err := scenario.NewRegistry().Build(cfg.Scenario, cfg.Width, cfg.Height, seed)
	if err != nil {
		return nil, scenario.Setup{}, err
	}
	return s, setup, nil
}

// factory seeds a fresh simulator per ensemble member.
func factory(cfg *config.Config) sim.Factory {
	return func(seed int64) (*sim.Simulator, sim.Schedule, error) {
		s, setup, err := buildSimulation(cfg, seed)
		if err != nil {
			return nil, nil, err
		}
		if err := s.Seed(setup.Vx, setup.Vy, setup.Activated); err != nil {
			return nil, nil, err
		}
		return s, cfg.Schedule(), nil
	}
}

func runInfo(cfg *config.Config, seed int64) storage.RunInfo {
	return storage.RunInfo{
		Scenario:    cfg.Scenario,
		Seed:        seed,
		Width:       cfg.Width,
		Height:      cfg.Height,
		CellDim:     cfg.CellDim,
		TimeStep:    cfg.TimeStep,
		AdvectColor: cfg.AdvectColor,
		RenderMode:  cfg.RenderMode,
	}
}
