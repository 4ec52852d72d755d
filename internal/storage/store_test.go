package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/gridflow/internal/metrics"
	"github.com/san-kum/gridflow/internal/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResult() *sim.Result {
	return &sim.Result{
		Frames: 2,
		Stats: []metrics.FrameStats{
			{Frame: 0, MovingCells: 1, PeakSpeed: 4, MeanSpeed: 0.25, Coverage: 0.0625},
			{Frame: 1, MovingCells: 0, PeakSpeed: 0, MeanSpeed: 0, Coverage: 0.0625},
		},
		Metrics: map[string]float64{"moving_cells": 0},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	info := RunInfo{Scenario: "still", Seed: 42, Width: 4, Height: 4, CellDim: 1, TimeStep: 1, RenderMode: "motion"}
	runID, err := st.Save(info, testResult())
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, "still", meta.Scenario)
	assert.Equal(t, int64(42), meta.Seed)
	assert.Equal(t, 2, meta.Frames)
	assert.Equal(t, runID, meta.ID)

	stats, err := st.LoadFrames(runID)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, 1, stats[0].MovingCells)
	assert.InDelta(t, 4.0, stats[0].PeakSpeed, 1e-9)
	assert.InDelta(t, 0.0625, stats[1].Coverage, 1e-9)
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	_, err = st.Save(RunInfo{Scenario: "a"}, testResult())
	require.NoError(t, err)
	_, err = st.Save(RunInfo{Scenario: "b"}, testResult())
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "junk"), 0755))

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.False(t, runs[1].Timestamp.Before(runs[0].Timestamp))
}

func TestStoreEmptyStats(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunInfo{Scenario: "empty"}, &sim.Result{})
	require.NoError(t, err)

	stats, err := st.LoadFrames(runID)
	require.NoError(t, err)
	assert.Empty(t, stats)
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunInfo{Scenario: "plume", Width: 8, Height: 8}, testResult())
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, st.ExportJSON(runID, out))

	raw, err := os.ReadFile(out)
	require.NoError(t, err)

	var data ExportData
	require.NoError(t, json.Unmarshal(raw, &data))
	assert.Equal(t, "plume", data.Scenario)
	assert.Equal(t, 8, data.Width)
	assert.Len(t, data.Stats, 2)

	assert.Error(t, st.ExportJSON("missing", out))
}
