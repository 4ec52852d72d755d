// Package automation replays scripted parameter changes against a running
// simulator, frame by frame.
package automation

import (
	"fmt"
	"os"
	"sort"

	"github.com/san-kum/gridflow/internal/frame"
	"github.com/san-kum/gridflow/internal/grid"
	"github.com/san-kum/gridflow/internal/inject"
	"github.com/san-kum/gridflow/internal/raster"
	"github.com/san-kum/gridflow/internal/sim"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Script is a named list of frame events.
type Script struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Events      []Event `yaml:"events"`
}

// Event takes effect before the frame it names. Unset fields are left
// alone.
type Event struct {
	Frame       int      `yaml:"frame"`
	TimeStep    *float64 `yaml:"time_step,omitempty"`
	Velocity    *float64 `yaml:"velocity,omitempty"`
	AdvectColor *bool    `yaml:"advect_color,omitempty"`
	Mode        string   `yaml:"mode,omitempty"`
	Activate    *Disc    `yaml:"activate,omitempty"`
}

// Disc is an activation disc in buffer coordinates.
type Disc struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Radius int `yaml:"radius"`
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, err
	}
	if err := script.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	sort.SliceStable(script.Events, func(i, j int) bool { return script.Events[i].Frame < script.Events[j].Frame })
	return &script, nil
}

func (s *Script) Validate() error {
	for i, e := range s.Events {
		if e.Frame < 0 {
			return fmt.Errorf("event %d: negative frame %d", i, e.Frame)
		}
		if e.Mode != "" {
			if _, err := raster.ParseMode(e.Mode); err != nil {
				return fmt.Errorf("event %d: %w", i, err)
			}
		}
		if e.Activate != nil && e.Activate.Radius < 0 {
			return fmt.Errorf("event %d: negative radius", i)
		}
	}
	return nil
}

// Schedule rasterizes the scripted activation discs.
func (s *Script) Schedule(width, height int) sim.Schedule {
	schedule := make(sim.Schedule)
	for _, e := range s.Events {
		if e.Activate == nil {
			continue
		}
		sig := inject.NewSignal(width, height)
		sig.MarkDisc(e.Activate.X, e.Activate.Y, e.Activate.Radius)
		schedule[e.Frame] = append(schedule[e.Frame], sig.Indices()...)
	}
	return schedule
}

// Runner applies a script's parameter events. Register it as an observer
// so each frame's end applies the next frame's events.
type Runner struct {
	sim    *sim.Simulator
	script *Script
	err    error
}

// NewRunner applies the events for the simulator's current frame
// immediately.
func NewRunner(s *sim.Simulator, script *Script) *Runner {
	r := &Runner{sim: s, script: script}
	r.Apply(s.FrameIndex())
	return r
}

func (r *Runner) OnFrame(_ *frame.Buffer, _ *grid.Grid, index int) {
	r.Apply(index + 1)
}

// Err returns the first error hit while applying events.
func (r *Runner) Err() error { return r.err }

func (r *Runner) Apply(index int) {
	for _, e := range r.script.Events {
		if e.Frame != index {
			continue
		}
		log := logrus.WithFields(logrus.Fields{"script": r.script.Name, "frame": index})

		if e.TimeStep != nil {
			if err := r.sim.Engine().SetTimeStep(*e.TimeStep); err != nil {
				log.WithError(err).Warn("time step rejected")
				if r.err == nil {
					r.err = err
				}
			} else {
				log.Debugf("time step set to %f", *e.TimeStep)
			}
		}
		if e.Velocity != nil {
			r.sim.Injector().SetVelocity(*e.Velocity)
			log.Debugf("injection velocity set to %f", *e.Velocity)
		}
		if e.AdvectColor != nil {
			r.sim.Engine().SetAdvectColor(*e.AdvectColor)
			log.Debugf("color advection set to %v", *e.AdvectColor)
		}
		if e.Mode != "" {
			mode, _ := raster.ParseMode(e.Mode)
			r.sim.Rasterizer().SetMode(mode)
			log.Debugf("render mode set to %s", mode)
		}
	}
}
