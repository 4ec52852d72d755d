package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gridflow/internal/export"
	"github.com/san-kum/gridflow/internal/grid"
	"github.com/san-kum/gridflow/internal/inject"
	"github.com/san-kum/gridflow/internal/metrics"
	"github.com/san-kum/gridflow/internal/raster"
	"github.com/san-kum/gridflow/internal/scenario"
	"github.com/san-kum/gridflow/internal/sim"
	"github.com/sirupsen/logrus"
)

const (
	maxCols         = 96
	historyCapacity = 600
	// canvas padding, in terminal cells
	offsetX = 2
	offsetY = 1
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(offsetY, offsetX)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(40)
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model drives a simulator one frame per tick and paints mouse input into
// the activation signal.
type Model struct {
	sim      *sim.Simulator
	setup    scenario.Setup
	name     string
	signal   *inject.Signal
	canvas   *Canvas
	theme    Theme
	running  bool
	history  []float64
	last     metrics.FrameStats
	recorder *export.GIFRecorder
	err      error
	showHelp bool
}

// NewModel seeds s with setup and returns a running model.
func NewModel(s *sim.Simulator, setup scenario.Setup, name string) (Model, error) {
	if err := s.Seed(setup.Vx, setup.Vy, setup.Activated); err != nil {
		return Model{}, err
	}
	cfg := s.Config()
	return Model{
		sim:     s,
		setup:   setup,
		name:    name,
		signal:  inject.NewSignal(cfg.Width, cfg.Height),
		canvas:  NewCanvas(cfg.Width, cfg.Height, maxCols),
		theme:   ThemeAbyss,
		running: true,
		history: make([]float64, 0, historyCapacity),
	}, nil
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case ".":
			if !m.running {
				m.step()
			}
		case "r":
			m.reset()
		case "c":
			eng := m.sim.Engine()
			eng.SetAdvectColor(!eng.Options().AdvectColor)
		case "m":
			r := m.sim.Rasterizer()
			if r.Mode() == raster.MotionMode {
				r.SetMode(raster.ColorMode)
			} else {
				r.SetMode(raster.MotionMode)
			}
		case "t":
			m.theme = nextTheme(m.theme)
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.MouseMsg:
		if msg.Button == tea.MouseButtonLeft && (msg.Action == tea.MouseActionPress || msg.Action == tea.MouseActionMotion) {
			m.paint(msg.X, msg.Y)
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

// paint marks every window pixel under the terminal cell at (x, y).
func (m *Model) paint(x, y int) {
	col, row := x-offsetX, y-offsetY
	if col < 0 || row < 0 || col >= m.canvas.Cols || row >= m.canvas.Rows {
		return
	}
	px, py, w, h := m.canvas.WindowRect(col, row)
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			m.signal.MarkXY(px+dx, py+dy)
		}
	}
}

// step consumes the pending activations and advances one frame.
func (m *Model) step() {
	activated := m.signal.Indices()
	m.signal.Reset()

	index := m.sim.FrameIndex()
	if err := m.sim.Frame(activated); err != nil {
		m.err = err
		logrus.WithError(err).Warn("frame failed")
		return
	}

	m.last = metrics.Measure(m.sim.Grid(), index)
	m.history = append(m.history, float64(m.last.MovingCells))
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
	if m.recorder != nil {
		m.recorder.OnFrame(m.sim.Buffer(), m.sim.Grid(), index)
	}
}

func (m *Model) reset() {
	m.sim.Reset()
	m.signal.Reset()
	m.history = m.history[:0]
	m.last = metrics.FrameStats{}
	m.err = m.sim.Seed(m.setup.Vx, m.setup.Vy, m.setup.Activated)
}

func (m *Model) toggleRecording() {
	if m.recorder == nil {
		m.recorder = export.NewGIFRecorder(2, 1)
		return
	}
	path := fmt.Sprintf("gridflow_%d.gif", time.Now().Unix())
	if err := m.recorder.WriteFile(path); err != nil {
		m.err = err
	} else {
		logrus.WithFields(logrus.Fields{"path": path, "frames": m.recorder.Len()}).Info("saved recording")
	}
	m.recorder = nil
}

func (m Model) View() string {
	st := stylesFor(m.theme)
	cfg := m.sim.Config()

	status := st.running.Render("RUNNING")
	if !m.running {
		status = st.paused.Render("PAUSED")
	}
	if m.recorder != nil {
		status += "  " + st.recording.Render(fmt.Sprintf("REC %d", m.recorder.Len()))
	}

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.name)) + "\n")
	s.WriteString(status + "\n")
	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Moving cells"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	n := m.sim.Grid().CellsPerSide()
	row("Frame", fmt.Sprintf("%d", m.sim.FrameIndex()))
	row("Grid", fmt.Sprintf("%dx%d cells", n, n))
	row("Moving", fmt.Sprintf("%d", m.last.MovingCells))
	row("Peak", fmt.Sprintf("%.2f", m.last.PeakSpeed))
	row("Coverage", fmt.Sprintf("%.1f%%", 100*m.last.Coverage))
	row("Mode", m.sim.Rasterizer().Mode().String())
	row("Color adv", onOff(m.sim.Engine().Options().AdvectColor))
	row("dt", fmt.Sprintf("%.2f", cfg.TimeStep))
	if m.err != nil {
		s.WriteString(st.err.Render(m.err.Error()) + "\n")
	}
	s.WriteString(st.help.Render("─────────────────────\nSP:Pause .:Step R:Reset Q:Quit\nC:Color  M:Mode  T:Theme\nG:Record ?:Help  Mouse:Paint"))

	canvasView := canvasStyle.Render(m.canvas.Render(m.sim.Buffer(), grid.Background))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space  - Pause/Resume               ║
║  .      - Single frame while paused  ║
║  R      - Reset scenario             ║
║  C      - Toggle color advection     ║
║  M      - Toggle render mode         ║
║  T      - Cycle themes               ║
║  G      - Toggle GIF recording       ║
║  Mouse  - Paint activations          ║
║  Q      - Quit                       ║
╚══════════════════════════════════════╝`

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// Run blocks until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
