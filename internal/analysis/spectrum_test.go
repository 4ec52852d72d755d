package analysis

import (
	"math"
	"testing"
)

func TestDominantPeriod(t *testing.T) {
	data := make([]float64, 64)
	for i := range data {
		data[i] = 3 + math.Sin(2*math.Pi*float64(i)/8)
	}

	period, ok := DominantPeriod(data)
	if !ok {
		t.Fatal("expected a dominant period")
	}
	if math.Abs(period-8) > 1e-9 {
		t.Errorf("expected period 8, got %f", period)
	}
}

func TestPowerSpectrumRemovesMean(t *testing.T) {
	ps := PowerSpectrum([]float64{5, 5, 5, 5})
	if len(ps) != 2 {
		t.Fatalf("expected 2 bins, got %d", len(ps))
	}
	for i, v := range ps {
		if v > 1e-12 {
			t.Errorf("bin %d: expected 0, got %f", i, v)
		}
	}

	if _, ok := DominantPeriod([]float64{1, 1, 1, 1}); ok {
		t.Error("flat series should have no dominant period")
	}
	if len(PowerSpectrum([]float64{1})) != 0 {
		t.Error("expected empty spectrum for a single sample")
	}
}
