package render

import (
	"math"

	"github.com/AnkushinDaniil/hologram/entity/parameters"
	"github.com/AnkushinDaniil/hologram/optics"
	"github.com/AnkushinDaniil/hologram/reconstruction"
)

// ObserverInset is the distance of the eye marker from the right edge.
const ObserverInset = 40

// Reconstruction paints the field behind the illuminated hologram.
type Reconstruction struct {
	Engine *reconstruction.Engine
}

func NewReconstruction(e *reconstruction.Engine) *Reconstruction {
	return &Reconstruction{Engine: e}
}

func (r *Reconstruction) Field(p parameters.Parameters, tick int64) Frame {
	g := r.Engine.Geometry
	field := r.Engine.Field(p, tick)
	orders := r.Engine.Orders(p)

	view := NewRaster(g.Width, g.Height)
	view.Paint(hex("#000000"), hex("#111111"), GridStep)
	for y := 0; y < field.Height; y++ {
		for x := 0; x < field.Cols; x++ {
			b := optics.Brightness(field.At(x, y), p.Intensity)
			view.Put(x, y, 0, b, uint8(math.Round(float64(b)*0.2)))
		}
	}

	mid := float64(g.Height) / 2
	green := hex("#00ff00")
	overlay := []Shape{
		Rect{Name: "plate", X: g.PlateX, Y: 10, W: 4, H: float64(g.Height) - 20, Color: hex("#666666")},
		Label{Name: "plate-label", X: g.PlateX - 25, Y: float64(g.Height) - 10, Text: "Hologram", Color: hex("#ffffff")},
		Line{Name: "reading-beam", Points: []optics.Point{{X: 10, Y: mid - 40}, {X: 80, Y: mid - 40}}, Width: 2, Color: green},
		Label{Name: "reading-beam-label", X: 10, Y: mid - 50, Text: "Ref Beam", Color: green},
	}
	if v := orders.Virtual; v.X > 0 {
		overlay = append(overlay,
			Circle{Name: "virtual-image", Center: v, Radius: 8, Width: 2, Dash: [2]float64{4, 4}, Color: rgba(100, 200, 255, 0.6)},
			Label{Name: "virtual-image-label", X: v.X - 20, Y: v.Y - 15, Text: "Virtual Img", Color: rgba(100, 200, 255, 0.8)},
		)
	}
	if re := orders.Real; re.X < float64(g.Width) {
		overlay = append(overlay,
			Circle{Name: "real-image", Center: re, Radius: 4, Fill: true, Color: rgba(255, 100, 100, 0.9), Glow: 15, GlowColor: hex("#ff0000")},
			Label{Name: "real-image-label", X: re.X - 20, Y: re.Y + 20, Text: "Real Img", Color: hex("#ffbbbb")},
		)
	}
	overlay = append(overlay,
		Eye{Name: "observer", Center: optics.Point{X: float64(g.Width - ObserverInset), Y: mid}, Scale: 0.8, Color: hex("#ffffff")},
		Label{Name: "title", X: 8, Y: 16, Text: "Reconstruction_Field(x,y,t)", Color: hex("#4ade80")},
	)
	return Frame{Image: view.Image, Overlay: overlay, Caption: p.Mode.Caption()}
}
