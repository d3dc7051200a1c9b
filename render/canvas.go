// Package render turns wave fields into rasters and lays the vector
// overlay (plate, sources, image markers, labels) on top.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/tfriedel6/canvas"
	"github.com/tfriedel6/canvas/backend/softwarebackend"
	"golang.org/x/image/font/gofont/goregular"
)

// FontSize is the label font size in pixels.
const FontSize = 12

var (
	fontOnce  sync.Once
	labelFont *canvas.Font
	fontErr   error
)

// Raster is a Canvas2D context drawing into an RGBA image.
type Raster struct {
	*canvas.Canvas
	Image *image.RGBA
}

func NewRaster(width, height int) Raster {
	backend := softwarebackend.New(width, height)
	cv := canvas.New(backend)
	fontOnce.Do(func() {
		labelFont, fontErr = cv.LoadFont(goregular.TTF)
	})
	if fontErr != nil {
		panic(fmt.Sprintf("failed to load label font: %v", fontErr))
	}
	cv.SetFont(labelFont, FontSize)
	return Raster{Canvas: cv, Image: backend.Image}
}

// Paint fills the raster with bg and draws 1px grid lines every step pixels.
func (r Raster) Paint(bg, grid color.NRGBA, step int) {
	b := r.Image.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	r.SetFillStyle(css(bg))
	r.FillRect(0, 0, w, h)
	if step <= 0 {
		return
	}
	r.SetFillStyle(css(grid))
	for x := 0; x < b.Dx(); x += step {
		r.FillRect(float64(x), 0, 1, h)
	}
	for y := 0; y < b.Dy(); y += step {
		r.FillRect(0, float64(y), w, 1)
	}
}

// Put writes an opaque pixel directly, bypassing the context.
func (r Raster) Put(x, y int, red, green, blue uint8) {
	i := r.Image.PixOffset(x, y)
	r.Image.Pix[i+0] = red
	r.Image.Pix[i+1] = green
	r.Image.Pix[i+2] = blue
	r.Image.Pix[i+3] = 255
}

// copyFrom replaces the raster pixels with src.
func (r Raster) copyFrom(src *image.RGBA) {
	draw.Draw(r.Image, r.Image.Bounds(), src, src.Bounds().Min, draw.Src)
}

// TextWidth is the advance width of s in the label font.
func (r Raster) TextWidth(s string) float64 {
	return r.MeasureText(s).Width
}

func hex(s string) color.NRGBA {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(fmt.Sprintf("invalid color literal %q: %v", s, err))
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

func rgba(r, g, b uint8, alpha float64) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(255 * math.Max(0, math.Min(1, alpha))))}
}

// css formats c the way the context parses fill and stroke styles.
func css(c color.NRGBA) string {
	if c.A == 255 {
		return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%.3f)", c.R, c.G, c.B, float64(c.A)/255)
}
