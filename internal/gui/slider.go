package gui

// boundSlider ties a float32 slider to a float64 setting owned elsewhere.
// The range widens to include the setting, and the setting is only written
// back after the knob actually moves.
type boundSlider struct {
	lo, hi float32
	knob   float32
	source float64
	primed bool
}

func newBoundSlider(lo, hi float32) *boundSlider {
	return &boundSlider{lo: lo, hi: hi}
}

// frame returns the knob position and range to draw for setting v.
func (s *boundSlider) frame(v float64) (knob, lo, hi float32) {
	if !s.primed || v != s.source {
		s.knob, s.source, s.primed = float32(v), v, true
	}
	return s.knob, min(s.lo, s.knob), max(s.hi, s.knob)
}

// moved records the value the slider returned and reports whether the
// user changed it.
func (s *boundSlider) moved(out float32) (float64, bool) {
	if out == s.knob {
		return s.source, false
	}
	s.knob, s.source = out, float64(out)
	return s.source, true
}
