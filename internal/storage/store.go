// Package storage persists finished runs: a metadata.json document and a
// frames.csv table of per-frame statistics for each run directory.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/san-kum/gridflow/internal/metrics"
	"github.com/san-kum/gridflow/internal/sim"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunInfo describes how a run was configured.
type RunInfo struct {
	Scenario    string  `json:"scenario"`
	Seed        int64   `json:"seed"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	CellDim     int     `json:"cell_dim"`
	TimeStep    float64 `json:"time_step"`
	AdvectColor bool    `json:"advect_color"`
	RenderMode  string  `json:"render_mode"`
}

type RunMetadata struct {
	RunInfo
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Frames    int                `json:"frames"`
	Metrics   map[string]float64 `json:"metrics"`
}

func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", info.Scenario, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		RunInfo:   info,
		ID:        runID,
		Timestamp: now,
		Frames:    result.Frames,
		Metrics:   result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	if err := writeJSON(metaFile, meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	stats := result.Stats
	if stats == nil {
		stats = []metrics.FrameStats{}
	}
	if err := gocsv.MarshalFile(&stats, csvFile); err != nil {
		return "", fmt.Errorf("write %s: %w", framesFile, err)
	}

	return runID, nil
}

// List returns every readable run, oldest first. Directories without a
// valid metadata document are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]metrics.FrameStats, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stats := []metrics.FrameStats{}
	if err := gocsv.UnmarshalFile(file, &stats); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return stats, nil
		}
		return nil, err
	}
	return stats, nil
}

type ExportData struct {
	RunMetadata
	Stats []metrics.FrameStats `json:"stats"`
}

// ExportJSON writes a stored run, metadata and frame table together, as a
// single JSON document. An empty path writes to stdout.
func (s *Store) ExportJSON(runID, path string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	stats, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}

	data := ExportData{RunMetadata: *meta, Stats: stats}
	if path == "" {
		return writeJSON(os.Stdout, data)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeJSON(file, data)
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
