// Package export writes rendered frames and run series to image files.
package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"github.com/san-kum/gridflow/internal/frame"
	xdraw "golang.org/x/image/draw"
)

// ToImage converts a buffer to an RGBA image. Buffer rows count up from the
// bottom, image rows count down from the top.
func ToImage(buf *frame.Buffer) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, buf.Width, buf.Height))
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			img.SetRGBA(x, buf.Height-1-y, ColorRGBA(buf.At(x, y)))
		}
	}
	return img
}

// ColorRGBA quantizes a float color to 8-bit channels.
func ColorRGBA(c [4]float32) color.RGBA {
	return color.RGBA{R: channel(c[0]), G: channel(c[1]), B: channel(c[2]), A: channel(c[3])}
}

func channel(v float32) uint8 {
	switch {
	case v <= 0 || v != v:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}

// Scaled returns the buffer as an image upscaled by an integer factor with
// nearest-neighbour sampling, so cell edges stay sharp.
func Scaled(buf *frame.Buffer, scale int) image.Image {
	src := ToImage(buf)
	if scale <= 1 {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, buf.Width*scale, buf.Height*scale))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

func EncodePNG(w io.Writer, buf *frame.Buffer, scale int) error {
	return png.Encode(w, Scaled(buf, scale))
}

func WritePNG(path string, buf *frame.Buffer, scale int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodePNG(f, buf, scale); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
