package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryList(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"noise", "plume", "shear", "still", "vortex"}, r.List())
	assert.NotEmpty(t, r.Describe("vortex"))
}

func TestBuildUnknown(t *testing.T) {
	_, err := NewRegistry().Build("tornado", 8, 8, 1)
	assert.Error(t, err)

	_, err = NewRegistry().Build("still", 0, 8, 1)
	assert.Error(t, err)
}

func TestBuildLengths(t *testing.T) {
	r := NewRegistry()
	for _, name := range r.List() {
		s, err := r.Build(name, 16, 12, 42)
		require.NoError(t, err, name)
		assert.Len(t, s.Vx, 16*12, name)
		assert.Len(t, s.Vy, 16*12, name)
		for _, p := range s.Activated {
			assert.True(t, p >= 0 && p < 16*12, "%s: pixel %d", name, p)
		}
	}
}

func TestPlumeActivatesCenter(t *testing.T) {
	s := Plume(32, 32, 0)
	assert.Contains(t, s.Activated, 4*32+16)
}

func TestShearHalves(t *testing.T) {
	s := Shear(4, 2, 0)
	assert.Equal(t, []float64{1, 1, -1, -1, 1, 1, -1, -1}, s.Vy)
}

func TestVortexRotates(t *testing.T) {
	s := Vortex(9, 9, 0)
	// right of center moves up, above center moves left
	assert.Equal(t, 1.0, s.Vy[4*9+8])
	assert.Equal(t, -1.0, s.Vx[8*9+4])
	assert.Zero(t, s.Vx[4*9+4])
}

func TestNoiseDeterministic(t *testing.T) {
	a := Noise(16, 16, 7)
	b := Noise(16, 16, 7)
	c := Noise(16, 16, 8)

	assert.Equal(t, a.Vx, b.Vx)
	assert.NotEqual(t, a.Vx, c.Vx)
	for _, v := range a.Vy {
		assert.True(t, v >= -2 && v <= 2)
	}
}
