package render

import (
	"image"
	"math"
	"strings"

	"github.com/tfriedel6/canvas"
)

// Frame keeps the raster and its vector overlay as separate layers.
type Frame struct {
	Image   *image.RGBA
	Overlay []Shape
	Caption string
}

// Find returns the first overlay shape with the given id.
func (f Frame) Find(id string) (Shape, bool) {
	for _, s := range f.Overlay {
		if s.ID() == id {
			return s, true
		}
	}
	return nil, false
}

// Flatten draws the overlay and caption onto a copy of the raster. Each
// shape runs in its own saved context state.
func (f Frame) Flatten() *image.RGBA {
	b := f.Image.Bounds()
	r := NewRaster(b.Dx(), b.Dy())
	r.copyFrom(f.Image)
	for _, s := range f.Overlay {
		r.Save()
		s.Draw(r.Canvas)
		r.Restore()
	}
	if f.Caption != "" {
		drawCaption(r, f.Caption)
	}
	return r.Image
}

const (
	captionMaxWidth = 300
	captionPadding  = 6
	captionLine     = 14
)

func drawCaption(r Raster, caption string) {
	lines := wrap(r, caption, captionMaxWidth)
	w := 0.0
	for _, l := range lines {
		w = math.Max(w, r.TextWidth(l))
	}
	h := float64(len(lines)*captionLine + captionPadding)
	x := 8.0
	y := float64(r.Image.Bounds().Dy()-8) - h
	r.SetFillStyle(css(rgba(0, 0, 0, 0.6)))
	r.FillRect(x, y, w+2*captionPadding, h)
	r.SetTextAlign(canvas.Left)
	r.SetFillStyle(css(hex("#d1d5db")))
	for i, l := range lines {
		r.FillText(l, x+captionPadding, y+float64((i+1)*captionLine))
	}
}

// wrap splits s into lines no wider than width pixels, breaking on spaces.
func wrap(r Raster, s string, width float64) []string {
	lines := make([]string, 0, 2)
	line := ""
	for _, word := range strings.Fields(s) {
		next := word
		if line != "" {
			next = line + " " + word
		}
		if line != "" && r.TextWidth(next) > width {
			lines = append(lines, line)
			line = word
			continue
		}
		line = next
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}
