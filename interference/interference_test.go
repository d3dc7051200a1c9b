package interference

import (
	"math"
	"testing"
)

func TestIntensity(t *testing.T) {
	if got := Intensity(4, 4, 0); got != 64 {
		t.Fatalf("constructive = %v, want 64", got)
	}
	if got := Intensity(4, 4, math.Pi); math.Abs(got) > 1e-12 {
		t.Fatalf("destructive = %v, want 0", got)
	}
	if got := Intensity(4, 0, 1.3); got != 16 {
		t.Fatalf("reference only = %v, want 16", got)
	}
}

func TestTheoreticalVisibility(t *testing.T) {
	if got := TheoreticalVisibility(1, 1); got != 1 {
		t.Fatalf("equal beams = %v, want 1", got)
	}
	if got := TheoreticalVisibility(4, 0); got != 0 {
		t.Fatalf("no object = %v, want 0", got)
	}
	if got := TheoreticalVisibility(0, 0); got != 0 {
		t.Fatalf("dark = %v, want 0", got)
	}
}

func TestCarrierPeriod(t *testing.T) {
	for _, period := range []float64{8, 20, 32, 64} {
		values := make([]float64, 320)
		for i := range values {
			values[i] = 10 + 3*math.Cos(2*math.Pi*float64(i)/period)
		}
		if got := CarrierPeriod(values); math.Abs(got-period) > 1e-9 {
			t.Fatalf("period = %v, want %v", got, period)
		}
	}
}

func TestCarrierPeriodFlat(t *testing.T) {
	values := make([]float64, 320)
	for i := range values {
		values[i] = 16
	}
	if got := CarrierPeriod(values); got != 0 {
		t.Fatalf("flat profile period = %v, want 0", got)
	}
	if got := CarrierPeriod([]float64{1, 2}); got != 0 {
		t.Fatalf("short profile period = %v, want 0", got)
	}
}
