package optim

import (
	"context"
	"testing"

	"github.com/san-kum/gridflow/internal/config"
	"github.com/san-kum/gridflow/internal/metrics"
	"github.com/san-kum/gridflow/internal/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBuild(cfg *config.Config) (*sim.Simulator, sim.Schedule, error) {
	simCfg, err := cfg.SimConfig()
	if err != nil {
		return nil, nil, err
	}
	s, err := sim.New(simCfg)
	if err != nil {
		return nil, nil, err
	}
	s.AddMetric(metrics.NewPeakSpeed())
	return s, cfg.Schedule(), nil
}

func TestGridSearchVelocity(t *testing.T) {
	base := config.GetPreset("tiny")
	base.Frames = 1

	g := NewGridSearch([]string{"velocity"}, [][]float64{{1, 2, 3}})
	trials, best, err := g.Search(context.Background(), base, testBuild, "peak_speed")
	require.NoError(t, err)
	require.Len(t, trials, 3)
	require.NotNil(t, best)
	assert.Equal(t, 1.0, best.Params["velocity"])

	g.Maximize = true
	_, best, err = g.Search(context.Background(), base, testBuild, "peak_speed")
	require.NoError(t, err)
	assert.Equal(t, 3.0, best.Params["velocity"])
	assert.Equal(t, 3.0, best.Value)
}

func TestGridSearchCombinations(t *testing.T) {
	base := config.GetPreset("tiny")
	base.Frames = 1

	g := NewGridSearch([]string{"velocity", "time_step"}, [][]float64{{1, 2}, {0.5, 1, 2}})
	trials, _, err := g.Search(context.Background(), base, testBuild, "peak_speed")
	require.NoError(t, err)
	assert.Len(t, trials, 6)
}

func TestGridSearchErrors(t *testing.T) {
	base := config.GetPreset("tiny")
	base.Frames = 1

	g := NewGridSearch([]string{"bogus"}, [][]float64{{1}})
	trials, best, err := g.Search(context.Background(), base, testBuild, "peak_speed")
	require.NoError(t, err)
	assert.Nil(t, best)
	assert.Error(t, trials[0].Err)

	g = NewGridSearch([]string{"velocity"}, [][]float64{{1}})
	trials, _, _ = g.Search(context.Background(), base, testBuild, "missing")
	assert.Error(t, trials[0].Err)

	_, _, err = NewGridSearch([]string{"velocity"}, nil).Search(context.Background(), base, testBuild, "peak_speed")
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = g.Search(ctx, base, testBuild, "peak_speed")
	assert.ErrorIs(t, err, context.Canceled)
}
