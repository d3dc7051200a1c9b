package render

import (
	"image/color"
	"math"

	"github.com/tfriedel6/canvas"

	"github.com/AnkushinDaniil/hologram/optics"
)

// Shape is one vector overlay command issued on a Canvas2D context.
type Shape interface {
	ID() string
	Draw(cv *canvas.Canvas)
}

type Rect struct {
	Name       string
	X, Y, W, H float64
	Color      color.NRGBA
	Outline    bool
}

func (r Rect) ID() string { return r.Name }

func (r Rect) Draw(cv *canvas.Canvas) {
	if r.Outline {
		cv.SetStrokeStyle(css(r.Color))
		cv.SetLineWidth(1)
		cv.StrokeRect(r.X, r.Y, r.W, r.H)
		return
	}
	cv.SetFillStyle(css(r.Color))
	cv.FillRect(r.X, r.Y, r.W, r.H)
}

// Line is an open polyline.
type Line struct {
	Name   string
	Points []optics.Point
	Width  float64
	Color  color.NRGBA
}

func (l Line) ID() string { return l.Name }

func (l Line) Draw(cv *canvas.Canvas) {
	if len(l.Points) < 2 {
		return
	}
	cv.BeginPath()
	cv.MoveTo(l.Points[0].X, l.Points[0].Y)
	for _, p := range l.Points[1:] {
		cv.LineTo(p.X, p.Y)
	}
	cv.SetStrokeStyle(css(l.Color))
	cv.SetLineWidth(l.Width)
	cv.Stroke()
}

// Circle is a filled disc or a (possibly dashed) ring with an optional glow.
type Circle struct {
	Name      string
	Center    optics.Point
	Radius    float64
	Color     color.NRGBA
	Fill      bool
	Width     float64
	Dash      [2]float64
	Glow      float64
	GlowColor color.NRGBA
}

func (ci Circle) ID() string { return ci.Name }

func (ci Circle) Draw(cv *canvas.Canvas) {
	if ci.Glow > 0 {
		cv.SetShadowBlur(ci.Glow)
		cv.SetShadowColor(css(ci.GlowColor))
	}
	cv.BeginPath()
	cv.Arc(ci.Center.X, ci.Center.Y, ci.Radius, 0, 2*math.Pi, false)
	if ci.Fill {
		cv.SetFillStyle(css(ci.Color))
		cv.Fill()
		return
	}
	if ci.Dash[0] > 0 {
		cv.SetLineDash(ci.Dash[:])
	}
	cv.SetStrokeStyle(css(ci.Color))
	cv.SetLineWidth(ci.Width)
	cv.Stroke()
}

type Align uint8

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

type Label struct {
	Name  string
	X, Y  float64
	Text  string
	Align Align
	Color color.NRGBA
}

func (l Label) ID() string { return l.Name }

// Draw fills the text with its baseline at Y.
func (l Label) Draw(cv *canvas.Canvas) {
	switch l.Align {
	case AlignCenter:
		cv.SetTextAlign(canvas.Center)
	case AlignRight:
		cv.SetTextAlign(canvas.Right)
	default:
		cv.SetTextAlign(canvas.Left)
	}
	cv.SetFillStyle(css(l.Color))
	cv.FillText(l.Text, l.X, l.Y)
}

// Eye is the observer icon: an almond of two quadratic curves around a pupil.
type Eye struct {
	Name   string
	Center optics.Point
	Scale  float64
	Color  color.NRGBA
}

func (e Eye) ID() string { return e.Name }

func (e Eye) Draw(cv *canvas.Canvas) {
	cv.Translate(e.Center.X, e.Center.Y)
	cv.Scale(e.Scale, e.Scale)
	cv.SetStrokeStyle(css(e.Color))
	cv.SetLineWidth(2)
	cv.BeginPath()
	cv.MoveTo(-15, 0)
	cv.QuadraticCurveTo(0, -15, 15, 0)
	cv.QuadraticCurveTo(0, 15, -15, 0)
	cv.Stroke()

	cv.SetFillStyle(css(e.Color))
	cv.BeginPath()
	cv.Arc(0, 0, 5, 0, 2*math.Pi, false)
	cv.Fill()
}
