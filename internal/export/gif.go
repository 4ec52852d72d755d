package export

import (
	"image"
	"image/color/palette"
	"image/gif"
	"io"
	"os"

	"github.com/san-kum/gridflow/internal/frame"
	"github.com/san-kum/gridflow/internal/grid"
	xdraw "golang.org/x/image/draw"
)

// GIFRecorder collects rendered frames into an animated GIF. It satisfies
// the simulator's observer interface.
type GIFRecorder struct {
	Scale int
	// Every keeps one frame out of Every.
	Every int
	// Delay between frames in hundredths of a second.
	Delay int

	anim gif.GIF
}

func NewGIFRecorder(scale, every int) *GIFRecorder {
	if every < 1 {
		every = 1
	}
	return &GIFRecorder{Scale: scale, Every: every, Delay: 2}
}

func (r *GIFRecorder) OnFrame(buf *frame.Buffer, _ *grid.Grid, index int) {
	if index%r.Every != 0 {
		return
	}
	src := Scaled(buf, r.Scale)
	dst := image.NewPaletted(src.Bounds(), palette.Plan9)
	xdraw.FloydSteinberg.Draw(dst, dst.Bounds(), src, image.Point{})
	r.anim.Image = append(r.anim.Image, dst)
	r.anim.Delay = append(r.anim.Delay, r.Delay)
}

func (r *GIFRecorder) Len() int { return len(r.anim.Image) }

func (r *GIFRecorder) Encode(w io.Writer) error {
	return gif.EncodeAll(w, &r.anim)
}

func (r *GIFRecorder) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
