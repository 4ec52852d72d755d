// Package optim searches configuration space for the run that minimises a
// metric.
package optim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/gridflow/internal/config"
	"github.com/san-kum/gridflow/internal/sim"
)

// Build turns a base configuration into a seeded simulator and its
// activation schedule.
type Build func(cfg *config.Config) (*sim.Simulator, sim.Schedule, error)

type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	// Maximize flips the objective.
	Maximize bool
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Apply sets one named tunable on cfg.
func Apply(cfg *config.Config, name string, v float64) error {
	switch name {
	case "time_step":
		cfg.TimeStep = v
	case "velocity":
		cfg.InjectionVelocity = v
	case "cell_dim":
		cfg.CellDim = int(v)
	case "seed":
		cfg.Seed = int64(v)
	default:
		return fmt.Errorf("unknown parameter: %s", name)
	}
	return nil
}

// Search runs every combination of parameter values against base and
// returns all trials plus the best one. Failed trials are kept with Err set.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, build Build, metricName string) ([]Trial, *Trial, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, nil, fmt.Errorf("%d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}

	trials := make([]Trial, 0)
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), base, build, metricName, &trials); err != nil {
		return trials, nil, err
	}

	var best *Trial
	bestVal := math.Inf(1)
	for i := range trials {
		t := &trials[i]
		if t.Err != nil {
			continue
		}
		v := t.Value
		if g.Maximize {
			v = -v
		}
		if v < bestVal {
			bestVal, best = v, t
		}
	}
	return trials, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	build Build,
	metricName string,
	trials *[]Trial,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		*trials = append(*trials, g.trial(ctx, current, base, build, metricName))
		return nil
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[name] = val

		if err := g.searchRecursive(ctx, depth+1, next, base, build, metricName, trials); err != nil {
			return err
		}
	}
	return nil
}

func (g *GridSearch) trial(ctx context.Context, params map[string]float64, base *config.Config, build Build, metricName string) Trial {
	t := Trial{Params: params}

	cfg := *base
	names := make([]string, 0, len(params))
	for k := range params {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		if err := Apply(&cfg, k, params[k]); err != nil {
			t.Err = err
			return t
		}
	}

	s, schedule, err := build(&cfg)
	if err != nil {
		t.Err = err
		return t
	}
	result, err := s.Run(ctx, cfg.Frames, schedule)
	if err != nil {
		t.Err = err
		return t
	}

	v, ok := result.Metrics[metricName]
	if !ok {
		t.Err = fmt.Errorf("unknown metric: %s", metricName)
		return t
	}
	t.Value = v
	return t
}
