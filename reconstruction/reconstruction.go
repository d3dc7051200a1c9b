// Package reconstruction models the field behind an illuminated hologram as
// the sum of three analytic diffraction orders.
package reconstruction

import (
	"math"

	"github.com/AnkushinDaniil/hologram/entity/parameters"
	"github.com/AnkushinDaniil/hologram/optics"
	"github.com/AnkushinDaniil/hologram/wavefield"
)

const (
	// PlateX keeps the plate left of centre to leave room for the real image.
	PlateX = 250
	// DirectTransmission is the fraction of the reading beam passed as the zero order.
	DirectTransmission = 0.5
)

// Geometry returns the reconstruction layout for a width x height grid.
func Geometry(width, height int) wavefield.Geometry {
	return wavefield.Geometry{Width: width, Height: height, PlateX: PlateX}
}

// Orders describes the three diffraction orders for one parameter snapshot.
type Orders struct {
	Direct  float64      // zero order amplitude factor
	Virtual optics.Point // divergent source at the original object position
	Real    optics.Point // real image, deflected by twice the reference angle
	Axis    float64      // row of the direct axis
}

// RealDisplacement is the distance of the real image from the direct axis.
func (o Orders) RealDisplacement() float64 {
	return math.Abs(o.Real.Y - o.Axis)
}

type Engine struct {
	wavefield.Geometry
	Workers int
}

func New(g wavefield.Geometry) *Engine {
	return &Engine{Geometry: g, Workers: 1}
}

func (e *Engine) Orders(p parameters.Parameters) Orders {
	axis := float64(e.Height) / 2
	deflection := 2 * p.Theta()
	return Orders{
		Direct:  DirectTransmission,
		Virtual: optics.Point{X: e.PlateX - p.ObjectDistance, Y: axis},
		Real: optics.Point{
			X: e.PlateX + p.ObjectDistance*math.Cos(deflection),
			Y: axis + p.ObjectDistance*math.Sin(deflection),
		},
		Axis: axis,
	}
}

// Field evaluates the full grid: the reading beam before the plate and the
// sum of all three orders from the plate on. The orders are summed in both
// modes; only the reference angle separates them.
func (e *Engine) Field(p parameters.Parameters, tick int64) *wavefield.Field {
	f := wavefield.NewField(e.Width, e.Height, e.Width)
	orders := e.Orders(p)
	ref := optics.NewPlaneWave(p)
	timePhase := optics.TimePhase(tick)
	half := float64(e.Height) / 2

	wavefield.ParallelRows(e.Height, e.Workers, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			fy := float64(y)
			yc := fy - half
			row := f.Values[y*f.Width : (y+1)*f.Width]
			for x := range row {
				fx := float64(x)
				read := ref.Field(fx, yc, timePhase)
				if fx < e.PlateX {
					row[x] = read
					continue
				}
				row[x] = read*orders.Direct +
					imageWave(orders.Virtual, p, ref.K, fx, fy, timePhase) +
					imageWave(orders.Real, p, ref.K, fx, fy, timePhase)
			}
		}
	})
	return f
}

func imageWave(src optics.Point, p parameters.Parameters, k, x, y, timePhase float64) float64 {
	r := src.Dist(x, y)
	return optics.ImageFalloff.Amplitude(p.Intensity, r) * math.Cos(k*r-timePhase)
}
