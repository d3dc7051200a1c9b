// Package optics holds the closed-form wave pieces shared by the recording
// and the reconstruction engines.
package optics

import (
	"math"

	"github.com/AnkushinDaniil/hologram/entity/parameters"
)

// Omega is the animation angular frequency in radians per tick.
const Omega = 0.15

// Falloff shapes the amplitude of a point source as Gain/(r^Exponent + Epsilon).
// Epsilon > 0 keeps it finite at the source.
type Falloff struct {
	Gain     float64
	Exponent float64
	Epsilon  float64
}

var (
	// ObjectFalloff is used for the scattered object wave while recording.
	ObjectFalloff = Falloff{Gain: 40, Exponent: 0.7, Epsilon: 5}
	// ImageFalloff is used for both reconstructed image orders.
	ImageFalloff = Falloff{Gain: 100, Exponent: 0.8, Epsilon: 10}
)

func (f Falloff) Amplitude(scale, r float64) float64 {
	return scale * f.Gain / (math.Pow(r, f.Exponent) + f.Epsilon)
}

type Point struct {
	X, Y float64
}

// Dist is the distance from p to (x, y).
func (p Point) Dist(x, y float64) float64 {
	return math.Hypot(x-p.X, y-p.Y)
}

// PlaneWave is the reference beam travelling at the reference angle.
type PlaneWave struct {
	K         float64
	Amplitude float64
	cos, sin  float64
}

func NewPlaneWave(p parameters.Parameters) PlaneWave {
	theta := p.Theta()
	return PlaneWave{
		K:         p.WaveNumber(),
		Amplitude: p.Intensity,
		cos:       math.Cos(theta),
		sin:       math.Sin(theta),
	}
}

// Phase is the time-free phase at column x and centred row yc.
func (w PlaneWave) Phase(x, yc float64) float64 {
	return w.K * (x*w.cos + yc*w.sin)
}

// Field is the instantaneous value at (x, yc) for the given time phase.
func (w PlaneWave) Field(x, yc, timePhase float64) float64 {
	return w.Amplitude * math.Cos(w.Phase(x, yc)-timePhase)
}

// TimePhase is ω·t.
func TimePhase(tick int64) float64 {
	return Omega * float64(tick)
}

// Brightness is the fixed affine tone map clamp(10 + (field+intensity)·15).
func Brightness(field, intensity float64) uint8 {
	b := 10 + (field+intensity)*15
	if b < 0 || math.IsNaN(b) {
		return 0
	}
	if b > 255 {
		return 255
	}
	return uint8(math.Round(b))
}
