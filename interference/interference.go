// Package interference implements the two-beam interference law and the
// fringe analysis of a recorded intensity profile.
package interference

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

// Intensity is |E_ref + E_obj|² for two coherent beams with amplitudes aRef,
// aObj and phase difference dPhi.
func Intensity(aRef, aObj, dPhi float64) float64 {
	return aRef*aRef + aObj*aObj + 2*aRef*aObj*math.Cos(dPhi)
}

// TheoreticalVisibility is the fringe contrast (Imax-Imin)/(Imax+Imin) of
// two beams with constant amplitudes.
func TheoreticalVisibility(aRef, aObj float64) float64 {
	den := aRef*aRef + aObj*aObj
	if den == 0 {
		return 0
	}
	return 2 * aRef * aObj / den
}

// CarrierPeriod returns the dominant fringe period of values in samples.
// It returns 0 when the profile has no oscillating component.
func CarrierPeriod(values []float64) float64 {
	n := len(values)
	if n < 4 {
		return 0
	}
	mean := floats.Sum(values) / float64(n)
	centered := make([]float64, n)
	copy(centered, values)
	floats.AddConst(-mean, centered)

	spectrum := fft.FFTReal(centered)
	peak, peakIdx := 0.0, 0
	for i := 1; i <= n/2; i++ {
		if m := cmplx.Abs(spectrum[i]); m > peak {
			peak, peakIdx = m, i
		}
	}
	if peakIdx == 0 || peak < 1e-9*float64(n) {
		return 0
	}
	return float64(n) / float64(peakIdx)
}
