package metrics

import "github.com/san-kum/gridflow/internal/grid"

// MovingCells reports the moving-cell count of the last observed frame.
type MovingCells struct {
	last int
}

func NewMovingCells() *MovingCells { return &MovingCells{} }

func (m *MovingCells) Name() string { return "moving_cells" }

func (m *MovingCells) Observe(g *grid.Grid, _ int) {
	n, count := g.CellsPerSide(), 0
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			if g.Moving(row, col) {
				count++
			}
		}
	}
	m.last = count
}

func (m *MovingCells) Value() float64 { return float64(m.last) }
func (m *MovingCells) Reset()         { m.last = 0 }

// PeakSpeed tracks the highest cell speed seen during a run.
type PeakSpeed struct {
	peak float64
}

func NewPeakSpeed() *PeakSpeed { return &PeakSpeed{} }

func (p *PeakSpeed) Name() string { return "peak_speed" }

func (p *PeakSpeed) Observe(g *grid.Grid, frame int) {
	if s := Measure(g, frame).PeakSpeed; s > p.peak {
		p.peak = s
	}
}

func (p *PeakSpeed) Value() float64 { return p.peak }
func (p *PeakSpeed) Reset()         { p.peak = 0 }

// MeanSpeed averages the per-frame mean cell speed.
type MeanSpeed struct {
	sum     float64
	samples int
}

func NewMeanSpeed() *MeanSpeed { return &MeanSpeed{} }

func (m *MeanSpeed) Name() string { return "mean_speed" }

func (m *MeanSpeed) Observe(g *grid.Grid, frame int) {
	m.sum += Measure(g, frame).MeanSpeed
	m.samples++
}

func (m *MeanSpeed) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanSpeed) Reset() {
	m.sum = 0
	m.samples = 0
}

// Coverage is the fraction of cells whose color left the background on the
// last observed frame.
type Coverage struct {
	last float64
}

func NewCoverage() *Coverage { return &Coverage{} }

func (c *Coverage) Name() string { return "coverage" }

func (c *Coverage) Observe(g *grid.Grid, frame int) { c.last = Measure(g, frame).Coverage }

func (c *Coverage) Value() float64 { return c.last }
func (c *Coverage) Reset()         { c.last = 0 }
