// Package gui is the raylib window presenter. The frame buffer is streamed
// into a texture each frame and drawn scaled into the preview square.
package gui

import (
	"fmt"
	"image/color"
	"time"

	raygui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/gridflow/internal/export"
	"github.com/san-kum/gridflow/internal/frame"
	"github.com/san-kum/gridflow/internal/inject"
	"github.com/san-kum/gridflow/internal/metrics"
	"github.com/san-kum/gridflow/internal/raster"
	"github.com/san-kum/gridflow/internal/scenario"
	"github.com/san-kum/gridflow/internal/sim"
	"github.com/sirupsen/logrus"
)

const (
	windowWidth  = 1120
	windowHeight = 720
	previewSize  = 680
	margin       = 20
	panelX       = previewSize + 2*margin
	panelWidth   = windowWidth - panelX - margin
)

var (
	ColBg      = rl.NewColor(0, 10, 28, 255)
	ColText    = rl.NewColor(180, 190, 210, 255)
	ColTextDim = rl.NewColor(80, 90, 120, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
)

type App struct {
	Sim     *sim.Simulator
	Setup   scenario.Setup
	Name    string
	Signal  *inject.Signal
	Running bool
	Brush   float32

	velocity *boundSlider
	timeStep *boundSlider
	texture  rl.Texture2D
	pixels   []color.RGBA
	last     metrics.FrameStats
	err      error
}

func initWindow() {
	rl.InitWindow(windowWidth, windowHeight, "gridflow")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// Run opens the window, seeds the simulator and blocks until it is closed.
func Run(s *sim.Simulator, setup scenario.Setup, name string) error {
	if err := s.Seed(setup.Vx, setup.Vy, setup.Activated); err != nil {
		return err
	}

	initWindow()
	defer rl.CloseWindow()

	cfg := s.Config()
	app := &App{
		Sim:     s,
		Setup:   setup,
		Name:    name,
		Signal:  inject.NewSignal(cfg.Width, cfg.Height),
		Running: true,
		Brush:   2,
		pixels:  make([]color.RGBA, cfg.Width*cfg.Height),

		velocity: newBoundSlider(-8, 8),
		timeStep: newBoundSlider(0.1, 4),
	}

	img := rl.GenImageColor(cfg.Width, cfg.Height, ColBg)
	app.texture = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(app.texture)

	for !rl.WindowShouldClose() && !rl.IsKeyPressed(rl.KeyQ) {
		app.Update()
		app.Draw()
	}
	return app.err
}

func (a *App) Update() {
	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		a.Running = !a.Running
	case rl.IsKeyPressed(rl.KeyR):
		a.reset()
	case rl.IsKeyPressed(rl.KeyC):
		a.toggleColor()
	case rl.IsKeyPressed(rl.KeyM):
		a.toggleMode()
	}

	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		a.paint(int(rl.GetMouseX()), int(rl.GetMouseY()))
	}

	if a.Running || rl.IsKeyPressed(rl.KeyPeriod) {
		a.step()
	}
}

// paint maps a window position inside the preview to buffer pixels and
// marks a disc of Brush radius around it.
func (a *App) paint(mx, my int) {
	if mx < margin || my < margin || mx >= margin+previewSize || my >= margin+previewSize {
		return
	}
	cfg := a.Sim.Config()
	x := (mx - margin) * cfg.Width / previewSize
	y := (my - margin) * cfg.Height / previewSize
	a.Signal.MarkDisc(x, cfg.Height-1-y, int(a.Brush))
}

func (a *App) step() {
	start := time.Now()
	activated := a.Signal.Indices()
	a.Signal.Reset()

	index := a.Sim.FrameIndex()
	if err := a.Sim.Frame(activated); err != nil {
		a.err = err
		a.Running = false
		logrus.WithError(err).Error("frame failed")
		return
	}
	a.last = metrics.Measure(a.Sim.Grid(), index)

	fillPixels(a.pixels, a.Sim.Buffer())
	rl.UpdateTexture(a.texture, a.pixels)
	logrus.Debugf("frame %d took %.2fms", index, float64(time.Since(start).Microseconds())/1000)
}

func (a *App) reset() {
	a.Sim.Reset()
	a.Signal.Reset()
	a.last = metrics.FrameStats{}
	a.err = a.Sim.Seed(a.Setup.Vx, a.Setup.Vy, a.Setup.Activated)
}

func (a *App) toggleColor() {
	eng := a.Sim.Engine()
	eng.SetAdvectColor(!eng.Options().AdvectColor)
}

func (a *App) toggleMode() {
	r := a.Sim.Rasterizer()
	if r.Mode() == raster.MotionMode {
		r.SetMode(raster.ColorMode)
	} else {
		r.SetMode(raster.MotionMode)
	}
}

// fillPixels converts buf into texture order: rows top to bottom.
func fillPixels(dst []color.RGBA, buf *frame.Buffer) {
	for y := 0; y < buf.Height; y++ {
		row := (buf.Height - 1 - y) * buf.Width
		for x := 0; x < buf.Width; x++ {
			dst[row+x] = export.ColorRGBA(buf.At(x, y))
		}
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	cfg := a.Sim.Config()
	rl.DrawTexturePro(
		a.texture,
		rl.Rectangle{X: 0, Y: 0, Width: float32(cfg.Width), Height: float32(cfg.Height)},
		rl.Rectangle{X: margin, Y: margin, Width: previewSize, Height: previewSize},
		rl.Vector2{X: 0, Y: 0},
		0,
		rl.White,
	)
	rl.DrawRectangleLines(margin, margin, previewSize, previewSize, ColTextDim)

	a.drawPanel()
	rl.EndDrawing()
}

func (a *App) drawPanel() {
	x := int32(panelX)
	y := int32(margin)

	rl.DrawText("gridflow", x, y, 24, ColSelect)
	rl.DrawText(":: "+a.Name, x+120, y+6, 16, ColText)
	y += 40

	status, col := "RUNNING", ColSelect
	if !a.Running {
		status, col = "PAUSED", ColTextDim
	}
	rl.DrawText(status, x, y, 16, col)
	y += 30

	n := a.Sim.Grid().CellsPerSide()
	lines := []string{
		fmt.Sprintf("Frame     %d", a.Sim.FrameIndex()),
		fmt.Sprintf("Grid      %dx%d cells", n, n),
		fmt.Sprintf("Moving    %d", a.last.MovingCells),
		fmt.Sprintf("Peak      %.2f", a.last.PeakSpeed),
		fmt.Sprintf("Coverage  %.1f%%", 100*a.last.Coverage),
		fmt.Sprintf("Mode      %s", a.Sim.Rasterizer().Mode()),
	}
	for _, line := range lines {
		rl.DrawText(line, x, y, 16, ColText)
		y += 22
	}
	y += 10

	fx := float32(x)
	sw := float32(panelWidth - 70)

	rl.DrawText("Injection velocity", x, y, 14, ColTextDim)
	y += 18
	inj := a.Sim.Injector()
	knob, lo, hi := a.velocity.frame(inj.Velocity())
	out := raygui.SliderBar(rl.Rectangle{X: fx, Y: float32(y), Width: sw, Height: 20}, fmtBound(lo), fmtBound(hi), knob, lo, hi)
	if v, ok := a.velocity.moved(out); ok {
		inj.SetVelocity(v)
	}
	y += 35

	rl.DrawText("Time step", x, y, 14, ColTextDim)
	y += 18
	eng := a.Sim.Engine()
	knob, lo, hi = a.timeStep.frame(eng.Options().TimeStep)
	out = raygui.SliderBar(rl.Rectangle{X: fx, Y: float32(y), Width: sw, Height: 20}, fmtBound(lo), fmtBound(hi), knob, lo, hi)
	if dt, ok := a.timeStep.moved(out); ok {
		if err := eng.SetTimeStep(dt); err != nil {
			a.err = err
		}
	}
	y += 35

	rl.DrawText("Brush radius", x, y, 14, ColTextDim)
	y += 18
	a.Brush = raygui.SliderBar(rl.Rectangle{X: fx, Y: float32(y), Width: sw, Height: 20}, "0", "16", a.Brush, 0, 16)
	y += 40

	if raygui.Button(rl.Rectangle{X: fx, Y: float32(y), Width: 120, Height: 30}, toggleText(a.Running, "Pause", "Resume")) {
		a.Running = !a.Running
	}
	if raygui.Button(rl.Rectangle{X: fx + 130, Y: float32(y), Width: 120, Height: 30}, "Reset") {
		a.reset()
	}
	y += 40
	if raygui.Button(rl.Rectangle{X: fx, Y: float32(y), Width: 120, Height: 30}, toggleText(eng.Options().AdvectColor, "Color: on", "Color: off")) {
		a.toggleColor()
	}
	if raygui.Button(rl.Rectangle{X: fx + 130, Y: float32(y), Width: 120, Height: 30}, "Render mode") {
		a.toggleMode()
	}
	y += 50

	if a.err != nil {
		rl.DrawText(a.err.Error(), x, y, 14, rl.Red)
	}

	rl.DrawText("[SPACE] PAUSE  [.] STEP  [R] RESET  [C] COLOR  [M] MODE  [Q] QUIT", margin, windowHeight-16, 12, ColTextDim)
	rl.DrawText(fmt.Sprintf("%d FPS", rl.GetFPS()), int32(windowWidth-80), windowHeight-16, 12, ColTextDim)
}

func toggleText(on bool, a, b string) string {
	if on {
		return a
	}
	return b
}

func fmtBound(v float32) string { return fmt.Sprintf("%g", v) }
