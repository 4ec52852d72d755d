package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"
)

// PowerSpectrum returns |X[k]| for k in [0, n/2) of the mean-removed series.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return []float64{}
	}
	mean := stat.Mean(data, nil)
	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	coeffs := fft.FFTReal(centered)
	ps := make([]float64, len(coeffs)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(coeffs[i])
	}
	return ps
}

// DominantPeriod returns the period, in frames, of the strongest non-DC
// component. ok is false for flat or too-short series.
func DominantPeriod(data []float64) (period float64, ok bool) {
	ps := PowerSpectrum(data)
	best, idx := 0.0, 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > best {
			best, idx = ps[i], i
		}
	}
	if idx == 0 || best < 1e-9 {
		return 0, false
	}
	return float64(len(data)) / float64(idx), true
}
