// Package wavefield synthesizes the reference and object waves in front of
// the recording plate and the intensity pattern the plate records.
package wavefield

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/AnkushinDaniil/hologram/entity/parameters"
	"github.com/AnkushinDaniil/hologram/interference"
	"github.com/AnkushinDaniil/hologram/optics"
)

// PlateMargin is the distance of the recording plate from the right edge.
const PlateMargin = 40

type Geometry struct {
	Width  int
	Height int
	PlateX float64
}

// RecordingGeometry places the plate PlateMargin pixels from the right edge.
func RecordingGeometry(width, height int) Geometry {
	return Geometry{Width: width, Height: height, PlateX: float64(width - PlateMargin)}
}

type Engine struct {
	Geometry
	// Workers is the number of row bands evaluated concurrently.
	Workers int

	mu          sync.Mutex
	cached      bool
	cacheParams parameters.Parameters
	cacheValue  []float64
}

func New(g Geometry) *Engine {
	return &Engine{Geometry: g, Workers: 1}
}

// ObjectPosition is the scattering point, objectDistance in front of the plate.
func (e *Engine) ObjectPosition(p parameters.Parameters) optics.Point {
	return optics.Point{X: e.PlateX - p.ObjectDistance, Y: float64(e.Height) / 2}
}

type object struct {
	pos       optics.Point
	scale     float64
	basePhase float64
	k         float64
}

func (e *Engine) object(p parameters.Parameters, ref optics.PlaneWave) object {
	pos := e.ObjectPosition(p)
	return object{
		pos:   pos,
		scale: p.Intensity * p.ObjectOpacity,
		// the object is lit by the on-axis part of the reference beam only
		basePhase: ref.Phase(pos.X, 0) + p.ObjectPhase,
		k:         ref.K,
	}
}

func (o object) amplitude(x, y float64) (float64, float64) {
	r := o.pos.Dist(x, y)
	return optics.ObjectFalloff.Amplitude(o.scale, r), o.basePhase + o.k*r
}

// Field evaluates reference + object for every column up to and including
// the plate at the given tick.
func (e *Engine) Field(p parameters.Parameters, tick int64) *Field {
	cols := int(math.Floor(e.PlateX)) + 1
	f := NewField(e.Width, e.Height, cols)

	ref := optics.NewPlaneWave(p)
	obj := e.object(p, ref)
	timePhase := optics.TimePhase(tick)
	half := float64(e.Height) / 2

	ParallelRows(e.Height, e.Workers, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			yc := float64(y) - half
			row := f.Values[y*f.Width : y*f.Width+f.Cols]
			for x := range row {
				fx := float64(x)
				total := ref.Field(fx, yc, timePhase)
				if fx > obj.pos.X {
					amp, phase := obj.amplitude(fx, float64(y))
					total += amp * math.Cos(phase-timePhase)
				}
				row[x] = total
			}
		}
	})
	return f
}

// ProfileAt evaluates the recorded intensity I(y) at the plate with both
// beams carrying the time phase of tick. The result does not depend on tick.
func (e *Engine) ProfileAt(p parameters.Parameters, tick int64) []float64 {
	ref := optics.NewPlaneWave(p)
	obj := e.object(p, ref)
	timePhase := optics.TimePhase(tick)
	half := float64(e.Height) / 2

	profile := make([]float64, e.Height)
	for y := range profile {
		phiRef := ref.Phase(e.PlateX, float64(y)-half) - timePhase
		aObj, phiObj := obj.amplitude(e.PlateX, float64(y))
		phiObj -= timePhase
		profile[y] = interference.Intensity(ref.Amplitude, aObj, phiRef-phiObj)
	}
	return profile
}

// Profile is the recorded intensity, memoized per parameter snapshot.
// The returned slice is a copy.
func (e *Engine) Profile(p parameters.Parameters) []float64 {
	key := p.Playing(true)

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.cached || e.cacheParams != key {
		e.cacheValue = e.ProfileAt(p, 0)
		e.cacheParams = key
		e.cached = true
	}
	out := make([]float64, len(e.cacheValue))
	copy(out, e.cacheValue)
	return out
}

// NormalizationEstimate is the analytic divisor (I + 2·I·opacity)²·1.1 used
// to scale the recorded intensity for display.
func NormalizationEstimate(p parameters.Parameters) float64 {
	peak := p.Intensity + p.Intensity*p.ObjectOpacity*2
	return peak * peak * 1.1
}

// Divisor is the value the recorded intensity is divided by for display:
// the analytic estimate, or the true maximum of profile when exact is set.
func Divisor(p parameters.Parameters, profile []float64, exact bool) float64 {
	if !exact || len(profile) == 0 {
		return NormalizationEstimate(p)
	}
	if m := floats.Max(profile); m > 0 {
		return m
	}
	return 1
}
