package export

import (
	"bytes"
	"image/gif"
	"image/png"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/gridflow/internal/frame"
	"github.com/san-kum/gridflow/internal/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBuffer(t *testing.T) *frame.Buffer {
	t.Helper()
	buf, err := frame.NewBuffer(4, 4)
	require.NoError(t, err)
	buf.Clear(grid.Background)
	buf.SetPixel(0, grid.White)
	return buf
}

func TestToImageFlipsRows(t *testing.T) {
	img := ToImage(testBuffer(t))

	// pixel 0 is the bottom-left corner of the buffer
	assert.Equal(t, uint8(255), img.RGBAAt(0, 3).R)
	assert.Equal(t, uint8(0), img.RGBAAt(0, 0).R)
	assert.Equal(t, uint8(10), img.RGBAAt(0, 0).G)
	assert.Equal(t, uint8(28), img.RGBAAt(0, 0).B)
}

func TestChannelClamps(t *testing.T) {
	assert.Equal(t, uint8(0), channel(-1))
	assert.Equal(t, uint8(255), channel(2))
	assert.Equal(t, uint8(128), channel(0.5))
}

func TestWritePNGScaled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, WritePNG(path, testBuffer(t), 3))

	var out bytes.Buffer
	require.NoError(t, EncodePNG(&out, testBuffer(t), 3))
	img, err := png.Decode(&out)
	require.NoError(t, err)
	assert.Equal(t, 12, img.Bounds().Dx())

	r, _, _, _ := img.At(2, 11).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	r, _, _, _ = img.At(3, 11).RGBA()
	assert.Equal(t, uint32(0), r)
}

func TestGIFRecorder(t *testing.T) {
	rec := NewGIFRecorder(2, 2)
	buf := testBuffer(t)
	for i := 0; i < 5; i++ {
		rec.OnFrame(buf, nil, i)
	}
	assert.Equal(t, 3, rec.Len())

	var out bytes.Buffer
	require.NoError(t, rec.Encode(&out))
	anim, err := gif.DecodeAll(&out)
	require.NoError(t, err)
	assert.Len(t, anim.Image, 3)
	assert.Equal(t, 8, anim.Image[0].Bounds().Dx())
}

func TestBufferToSVG(t *testing.T) {
	svg := BufferToSVG(testBuffer(t), 10)

	assert.True(t, strings.HasPrefix(svg, "<?xml"))
	// bottom row: one white run and one background run, three other rows
	assert.Equal(t, 5, strings.Count(svg, "<rect"))
	assert.Contains(t, svg, `<rect x="0.0" y="30.0" width="10.0" height="10.0" fill="#ffffff"/>`)
	assert.Empty(t, BufferToSVG(nil, 1))
}

func TestSeriesToSVG(t *testing.T) {
	svg := SeriesToSVG([]float64{0, 1, 2}, 100, 50, "#ffffff")
	assert.Contains(t, svg, "M0.0,")
	assert.Contains(t, svg, " L100.0,")
	assert.Empty(t, SeriesToSVG([]float64{1}, 100, 50, "#fff"))
}
