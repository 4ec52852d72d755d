package config

import "sort"

var Presets = map[string]*Config{
	"tiny": {
		Width: 4, Height: 4, CellDim: 1, TimeStep: 1, Frames: 10,
		RenderMode: "motion", Workers: 1, InjectionVelocity: 4, Scenario: "still",
		Activations: []ActivationConfig{{Frame: 0, X: 1, Y: 1}},
	},
	"plume": {
		Width: 128, Height: 128, CellDim: 2, TimeStep: 1, Frames: 300,
		RenderMode: "motion", Workers: 4, InjectionVelocity: 4, Scenario: "plume",
	},
	"ink": {
		Width: 128, Height: 128, CellDim: 1, TimeStep: 1, Frames: 300, AdvectColor: true,
		RenderMode: "color", Workers: 4, InjectionVelocity: 4, Scenario: "vortex",
		Activations: []ActivationConfig{
			{Frame: 0, X: 40, Y: 64, Radius: 6},
			{Frame: 0, X: 88, Y: 64, Radius: 6},
		},
	},
	"turbulence": {
		Width: 256, Height: 256, CellDim: 2, TimeStep: 1, Frames: 500, AdvectColor: true,
		RenderMode: "color", Workers: 8, InjectionVelocity: 4, Scenario: "noise", Seed: 42,
		Activations: []ActivationConfig{{Frame: 0, X: 128, Y: 128, Radius: 20}},
	},
	"shear": {
		Width: 96, Height: 96, CellDim: 1, TimeStep: 1, Frames: 200,
		RenderMode: "motion", Workers: 2, InjectionVelocity: 4, Scenario: "shear",
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	cfg.Activations = append([]ActivationConfig(nil), p.Activations...)
	return &cfg
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
