package render

import (
	"image/color"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/AnkushinDaniil/hologram/entity/parameters"
	"github.com/AnkushinDaniil/hologram/optics"
	"github.com/AnkushinDaniil/hologram/wavefield"
)

// Inspector layout, in pixels of the inspector canvas.
const (
	InspectorHeight = 150
	StripY          = 20
	StripHeight     = 50
	GraphTop        = 90
	GraphBottom     = 140
	GraphLeft       = 40
	GraphRightInset = 20
	// DefaultGrain is the peak-to-peak film grain added to the strip.
	DefaultGrain = 30
	// GridStep is the spacing of the background grid of both field views.
	GridStep = 40
)

// ProfileColor draws the recorded intensity curve.
var ProfileColor = hex("#00ff00")

// Recording paints the field in front of the plate and the plate inspector.
type Recording struct {
	Engine *wavefield.Engine
	// Grain is the peak-to-peak amplitude of the strip noise; 0 disables it.
	Grain float64
	// ExactNormalization divides by the true profile maximum instead of
	// the analytic estimate.
	ExactNormalization bool
	// InspectorHeight is the inspector canvas height; the strip and the
	// graph keep their fixed positions.
	InspectorHeight int
	Rand            *rand.Rand
}

func NewRecording(e *wavefield.Engine) *Recording {
	return &Recording{
		Engine:          e,
		Grain:           DefaultGrain,
		InspectorHeight: InspectorHeight,
		Rand:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Field renders the wave field up to the plate and the bench overlay.
func (r *Recording) Field(p parameters.Parameters, tick int64) Frame {
	g := r.Engine.Geometry
	field := r.Engine.Field(p, tick)

	bench := NewRaster(g.Width, g.Height)
	bench.Paint(hex("#020202"), hex("#111111"), GridStep)
	for y := 0; y < field.Height; y++ {
		for x := 0; x < field.Cols; x++ {
			b := optics.Brightness(field.At(x, y), p.Intensity)
			bench.Put(x, y, 0, b, uint8(math.Round(float64(b)*0.1)))
		}
	}

	mid := float64(g.Height) / 2
	obj := r.Engine.ObjectPosition(p)
	white := hex("#ffffff")
	return Frame{
		Image: bench.Image,
		Overlay: []Shape{
			Rect{Name: "laser", X: 0, Y: mid - 20, W: 30, H: 40, Color: hex("#222222")},
			Label{Name: "laser-label", X: 2, Y: mid - 25, Text: "LASER", Color: hex("#00ff00")},
			Line{Name: "beam-axis", Points: []optics.Point{{X: 30, Y: mid}, {X: float64(g.Width), Y: mid}}, Width: 2, Color: hex("#00ff00")},
			Circle{
				Name:      "object",
				Center:    obj,
				Radius:    6,
				Color:     rgba(59, 130, 246, 0.5+p.ObjectOpacity*0.5),
				Fill:      true,
				Glow:      10,
				GlowColor: hex("#3b82f6"),
			},
			Label{Name: "object-label", X: obj.X - 10, Y: obj.Y - 15, Text: "Obj", Color: white},
			Rect{Name: "plate", X: g.PlateX, Y: 10, W: 8, H: float64(g.Height) - 20, Color: hex("#e5e5e5")},
			Label{Name: "plate-label", X: g.PlateX - 40, Y: float64(g.Height) - 10, Text: "Hologram Plate", Color: white},
			Label{Name: "title", X: 8, Y: 16, Text: "E_field(x,y,t)", Color: hex("#4ade80")},
		},
	}
}

// StripRow maps a strip column to the plate row it displays.
func StripRow(x, width, plateRows int) int {
	scale := float64(width) / float64(plateRows)
	return min(int(math.Floor(float64(x)/scale)), plateRows-1)
}

// Inspector renders the recorded intensity as a film strip and a plot.
func (r *Recording) Inspector(p parameters.Parameters) Frame {
	width := r.Engine.Width
	profile := r.Engine.Profile(p)
	divisor := wavefield.Divisor(p, profile, r.ExactNormalization)
	norm := make([]float64, len(profile))
	copy(norm, profile)
	floats.Scale(1/divisor, norm)

	strip := NewRaster(width, max(r.InspectorHeight, GraphBottom+10))
	strip.Paint(hex("#111111"), color.NRGBA{}, 0)
	for x := 0; x < width; x++ {
		v := math.Max(0, math.Min(1, norm[StripRow(x, width, len(norm))]))
		g := v*255 + r.grain()
		g = math.Max(0, math.Min(255, g))
		green := uint8(math.Round(g))
		blue := uint8(math.Round(g * 0.2))
		for sy := StripY; sy < StripY+StripHeight; sy++ {
			strip.Put(x, sy, 0, green, blue)
		}
	}

	graphRight := float64(width - GraphRightInset)
	graphHeight := float64(GraphBottom - GraphTop)
	overlay := []Shape{
		Label{Name: "strip-label", X: 10, Y: StripY - 6, Text: "Interference Pattern (Simulated Film)", Color: hex("#ffffff")},
		Rect{Name: "strip-border", X: 0, Y: StripY, W: float64(width), H: StripHeight, Color: hex("#444444"), Outline: true},
	}
	for i := 0; i <= 2; i++ {
		y := GraphTop + float64(i)*graphHeight/2
		overlay = append(overlay, Line{Points: []optics.Point{{X: GraphLeft, Y: y}, {X: graphRight, Y: y}}, Width: 1, Color: hex("#333333")})
	}
	for i := 0; i <= 4; i++ {
		x := GraphLeft + float64(i)*(graphRight-GraphLeft)/4
		overlay = append(overlay, Line{Points: []optics.Point{{X: x, Y: GraphTop}, {X: x, Y: GraphBottom}}, Width: 1, Color: hex("#333333")})
	}
	overlay = append(overlay,
		Line{Name: "axes", Points: []optics.Point{{X: GraphLeft, Y: GraphTop}, {X: GraphLeft, Y: GraphBottom}, {X: graphRight, Y: GraphBottom}}, Width: 1, Color: hex("#666666")},
		Label{Name: "y-axis-label", X: GraphLeft - 5, Y: GraphTop + 10, Text: "Int (I)", Align: AlignRight, Color: hex("#888888")},
		Label{Name: "x-axis-label", X: float64(width) / 2, Y: GraphBottom + 12, Text: "Position (y)", Align: AlignCenter, Color: hex("#888888")},
		Line{Name: "intensity", Points: plotPoints(norm, GraphLeft, graphRight, GraphBottom, graphHeight), Width: 2, Color: ProfileColor},
	)
	return Frame{Image: strip.Image, Overlay: overlay}
}

func plotPoints(norm []float64, left, right, bottom, height float64) []optics.Point {
	xs := make([]float64, len(norm))
	if len(norm) > 1 {
		// x positions of y/H for y = 0..H-1
		floats.Span(xs, left, left+float64(len(norm)-1)/float64(len(norm))*(right-left))
	} else if len(norm) == 1 {
		xs[0] = left
	}
	points := make([]optics.Point, len(norm))
	for i, v := range norm {
		points[i] = optics.Point{X: xs[i], Y: bottom - v*height}
	}
	return points
}

func (r *Recording) grain() float64 {
	if r.Grain == 0 || r.Rand == nil {
		return 0
	}
	return (r.Rand.Float64() - 0.5) * r.Grain
}
