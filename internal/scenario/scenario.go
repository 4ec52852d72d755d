// Package scenario builds named initial conditions as velocity stamps and
// activation sets, the same inputs the host layer feeds the injector.
package scenario

import (
	"fmt"
	"math"
	"sort"

	"github.com/ojrac/opensimplex-go"
)

// Setup is the initial stamp for a width*height image.
type Setup struct {
	Vx, Vy    []float64
	Activated []int
}

func newSetup(width, height int) Setup {
	return Setup{
		Vx:        make([]float64, width*height),
		Vy:        make([]float64, width*height),
		Activated: make([]int, 0),
	}
}

type Builder func(width, height int, seed int64) Setup

type Registry struct {
	builders map[string]Builder
	info     map[string]string
}

func NewRegistry() *Registry {
	r := &Registry{
		builders: make(map[string]Builder),
		info:     make(map[string]string),
	}

	r.Register("still", "empty grid, waits for input", Still)
	r.Register("plume", "activated disc near the bottom edge", Plume)
	r.Register("shear", "opposing vertical flows in each half", Shear)
	r.Register("vortex", "rotation about the image center", Vortex)
	r.Register("noise", "simplex noise velocity field", Noise)

	return r
}

func (r *Registry) Register(name, description string, b Builder) {
	r.builders[name] = b
	r.info[name] = description
}

func (r *Registry) Build(name string, width, height int, seed int64) (Setup, error) {
	b, ok := r.builders[name]
	if !ok {
		return Setup{}, fmt.Errorf("unknown scenario: %s", name)
	}
	if width < 1 || height < 1 {
		return Setup{}, fmt.Errorf("scenario %s: invalid image %dx%d", name, width, height)
	}
	return b(width, height, seed), nil
}

func (r *Registry) Describe(name string) string { return r.info[name] }

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Still(width, height int, _ int64) Setup { return newSetup(width, height) }

func Plume(width, height int, _ int64) Setup {
	s := newSetup(width, height)
	cx, cy := width/2, height/8
	radius := max(1, width/16)
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			if x < 0 || y < 0 || x >= width || y >= height {
				continue
			}
			if (x-cx)*(x-cx)+(y-cy)*(y-cy) <= radius*radius {
				s.Activated = append(s.Activated, y*width+x)
			}
		}
	}
	return s
}

func Shear(width, height int, _ int64) Setup {
	s := newSetup(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < width/2 {
				s.Vy[y*width+x] = 1
			} else {
				s.Vy[y*width+x] = -1
			}
		}
	}
	return s
}

func Vortex(width, height int, _ int64) Setup {
	s := newSetup(width, height)
	cx, cy := float64(width-1)/2, float64(height-1)/2
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			r := math.Hypot(dx, dy)
			if r < 1 {
				continue
			}
			s.Vx[y*width+x] = math.Round(-dy / r)
			s.Vy[y*width+x] = math.Round(dx / r)
		}
	}
	return s
}

// noiseFrequency is in noise units per pixel.
const noiseFrequency = 0.08

func Noise(width, height int, seed int64) Setup {
	s := newSetup(width, height)
	nx := opensimplex.NewNormalized(seed)
	ny := opensimplex.NewNormalized(seed + 1)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			fx, fy := float64(x)*noiseFrequency, float64(y)*noiseFrequency
			s.Vx[y*width+x] = math.Round(4*nx.Eval2(fx, fy) - 2)
			s.Vy[y*width+x] = math.Round(4*ny.Eval2(fx, fy) - 2)
		}
	}
	return s
}
