package render

import (
	"image/color"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/AnkushinDaniil/hologram/entity/mode"
	"github.com/AnkushinDaniil/hologram/entity/parameters"
	"github.com/AnkushinDaniil/hologram/optics"
	"github.com/AnkushinDaniil/hologram/reconstruction"
	"github.com/AnkushinDaniil/hologram/wavefield"
)

const (
	width  = 600
	height = 320
)

func newRecording() *Recording {
	r := NewRecording(wavefield.New(wavefield.RecordingGeometry(width, height)))
	r.Grain = 0
	return r
}

func newReconstruction(w int) *Reconstruction {
	return NewReconstruction(reconstruction.New(reconstruction.Geometry(w, height)))
}

func TestRecordingFieldToneMap(t *testing.T) {
	r := newRecording()
	p := parameters.Default().WithMode(mode.AngularOffset)
	frame := r.Field(p, 21)
	field := r.Engine.Field(p, 21)
	for y := 0; y < height; y += 11 {
		for x := 0; x < field.Cols; x += 3 {
			got := frame.Image.RGBAAt(x, y)
			b := optics.Brightness(field.At(x, y), p.Intensity)
			want := color.RGBA{R: 0, G: b, B: uint8(math.Round(float64(b) * 0.1)), A: 255}
			if got != want {
				t.Fatalf("(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestRecordingFieldBehindPlateIsBackground(t *testing.T) {
	frame := newRecording().Field(parameters.Default(), 3)
	if got := frame.Image.RGBAAt(580, 1); got != (color.RGBA{2, 2, 2, 255}) {
		t.Fatalf("background = %v", got)
	}
	if got := frame.Image.RGBAAt(580, 40); got != (color.RGBA{17, 17, 17, 255}) {
		t.Fatalf("grid = %v", got)
	}
}

func TestRecordingOverlay(t *testing.T) {
	p := parameters.Default()
	frame := newRecording().Field(p, 0)
	s, ok := frame.Find("object")
	if !ok {
		t.Fatal("object marker missing")
	}
	if c := s.(Circle).Center; c.X != width-wavefield.PlateMargin-120 || c.Y != height/2 {
		t.Fatalf("object at %+v", c)
	}
	s, ok = frame.Find("plate")
	if !ok || s.(Rect).X != width-wavefield.PlateMargin {
		t.Fatalf("plate marker = %+v", s)
	}
}

func TestInspectorDeterministicWithoutGrain(t *testing.T) {
	r := newRecording()
	p := parameters.Default()
	a := r.Inspector(p)
	b := r.Inspector(p)
	for i := range a.Image.Pix {
		if a.Image.Pix[i] != b.Image.Pix[i] {
			t.Fatal("inspector differs between renders with grain disabled")
		}
	}
	profile := r.Engine.Profile(p)
	divisor := wavefield.NormalizationEstimate(p)
	for x := 0; x < width; x += 5 {
		v := math.Max(0, math.Min(1, profile[StripRow(x, width, height)]/divisor))
		want := uint8(math.Round(v * 255))
		if got := a.Image.RGBAAt(x, StripY+StripHeight/2).G; got != want {
			t.Fatalf("strip %d = %d, want %d", x, got, want)
		}
	}
}

func TestInspectorGrainBounded(t *testing.T) {
	r := newRecording()
	p := parameters.Default()
	clean := r.Inspector(p)
	r.Grain = DefaultGrain
	r.Rand = rand.New(rand.NewSource(1))
	noisy := r.Inspector(p)
	for x := 0; x < width; x++ {
		a := float64(clean.Image.RGBAAt(x, StripY+1).G)
		b := float64(noisy.Image.RGBAAt(x, StripY+1).G)
		if math.Abs(a-b) > DefaultGrain/2+1 {
			t.Fatalf("grain at %d is %v, above bound", x, b-a)
		}
	}
}

func TestInspectorPlot(t *testing.T) {
	r := newRecording()
	p := parameters.Default()
	p.ObjectOpacity = 0
	frame := r.Inspector(p)
	s, ok := frame.Find("intensity")
	if !ok {
		t.Fatal("intensity plot missing")
	}
	pts := s.(Line).Points
	if len(pts) != height {
		t.Fatalf("points = %d, want %d", len(pts), height)
	}
	if pts[0].X != GraphLeft {
		t.Fatalf("first x = %v", pts[0].X)
	}
	wantY := GraphBottom - 16/wavefield.NormalizationEstimate(p)*(GraphBottom-GraphTop)
	for _, pt := range pts {
		if math.Abs(pt.Y-wantY) > 1e-9 {
			t.Fatalf("flat profile plotted at %v, want %v", pt.Y, wantY)
		}
	}
	step := (float64(width-GraphRightInset) - GraphLeft) / height
	if math.Abs(pts[1].X-pts[0].X-step) > 1e-9 {
		t.Fatalf("x step = %v, want %v", pts[1].X-pts[0].X, step)
	}
}

func TestStripRow(t *testing.T) {
	if StripRow(0, width, height) != 0 || StripRow(599, width, height) != 319 || StripRow(2, width, height) != 1 {
		t.Fatal("unexpected strip mapping")
	}
}

func TestReconstructionMarkersScenarioA(t *testing.T) {
	frame := newReconstruction(width).Field(parameters.Default(), 0)
	v, ok := frame.Find("virtual-image")
	if !ok {
		t.Fatal("virtual marker missing")
	}
	re, ok := frame.Find("real-image")
	if !ok {
		t.Fatal("real marker missing")
	}
	vc, rc := v.(Circle).Center, re.(Circle).Center
	if vc.X != reconstruction.PlateX-120 || vc.Y != height/2 {
		t.Fatalf("virtual at %+v", vc)
	}
	if math.Abs(rc.X-(reconstruction.PlateX+120)) > 1e-9 || rc.Y != vc.Y {
		t.Fatalf("real at %+v", rc)
	}
	if frame.Caption != mode.CoLinear.Caption() {
		t.Fatalf("caption = %q", frame.Caption)
	}
}

func TestReconstructionMarkersScenarioB(t *testing.T) {
	p := parameters.Default().WithMode(mode.AngularOffset)
	frame := newReconstruction(width).Field(p, 0)
	re, ok := frame.Find("real-image")
	if !ok {
		t.Fatal("real marker missing")
	}
	rc := re.(Circle).Center
	if math.Abs(rc.Y-height/2-60) > 1e-9 || math.Abs(rc.X-reconstruction.PlateX-103.923) > 1e-3 {
		t.Fatalf("real at %+v", rc)
	}
	if frame.Caption != mode.AngularOffset.Caption() {
		t.Fatalf("caption = %q", frame.Caption)
	}
}

func TestReconstructionMarkerVisibility(t *testing.T) {
	p := parameters.Default()
	p.ObjectDistance = 250
	frame := newReconstruction(400).Field(p, 0)
	if _, ok := frame.Find("virtual-image"); ok {
		t.Fatal("virtual marker at x=0 must be hidden")
	}
	if _, ok := frame.Find("real-image"); ok {
		t.Fatal("real marker beyond the grid must be hidden")
	}
	if _, ok := frame.Find("observer"); !ok {
		t.Fatal("observer marker missing")
	}
}

func TestFlattenDrawsOverlay(t *testing.T) {
	frame := newReconstruction(width).Field(parameters.Default(), 0)
	img := frame.Flatten()
	if img.Bounds() != frame.Image.Bounds() {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if got := img.RGBAAt(reconstruction.PlateX+1, 100); got != (color.RGBA{0x66, 0x66, 0x66, 255}) {
		t.Fatalf("plate pixel = %v", got)
	}
	if got := frame.Image.RGBAAt(reconstruction.PlateX+1, 100); got.R != 0 {
		t.Fatalf("raster layer modified by flatten: %v", got)
	}
}

func TestWrap(t *testing.T) {
	r := NewRaster(10, 10)
	lines := wrap(r, mode.CoLinear.Caption(), 150)
	if len(lines) < 2 {
		t.Fatalf("lines = %q", lines)
	}
	for _, l := range lines {
		if r.TextWidth(l) > 150 && len(strings.Fields(l)) > 1 {
			t.Fatalf("line %q too wide", l)
		}
	}
}

func newBlack(t *testing.T, w, h int) Raster {
	t.Helper()
	r := NewRaster(w, h)
	r.Paint(hex("#000000"), color.NRGBA{}, 0)
	return r
}

func TestCircleFill(t *testing.T) {
	r := newBlack(t, 40, 40)
	Circle{Center: optics.Point{X: 20, Y: 20}, Radius: 8, Fill: true, Color: hex("#ff0000")}.Draw(r.Canvas)
	if got := r.Image.RGBAAt(20, 20); got != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("centre = %v", got)
	}
	if got := r.Image.RGBAAt(2, 2); got != (color.RGBA{0, 0, 0, 255}) {
		t.Fatalf("outside = %v", got)
	}
}

func ringCoverage(t *testing.T, dash [2]float64) (lit, dark int) {
	t.Helper()
	r := newBlack(t, 60, 60)
	Circle{Center: optics.Point{X: 30, Y: 30}, Radius: 20, Width: 3, Dash: dash, Color: hex("#ffffff")}.Draw(r.Canvas)
	for i := 0; i < 120; i++ {
		a := 2 * math.Pi * float64(i) / 120
		x := int(math.Floor(30 + 20*math.Cos(a)))
		y := int(math.Floor(30 + 20*math.Sin(a)))
		if r.Image.RGBAAt(x, y).G > 64 {
			lit++
		} else {
			dark++
		}
	}
	return lit, dark
}

func TestDashedRingHasGaps(t *testing.T) {
	solidLit, _ := ringCoverage(t, [2]float64{})
	dashLit, dashDark := ringCoverage(t, [2]float64{4, 4})
	if dashLit == 0 || dashDark == 0 {
		t.Fatalf("dashed ring: lit %d, dark %d", dashLit, dashDark)
	}
	if solidLit <= dashLit {
		t.Fatalf("solid ring lit %d, dashed %d", solidLit, dashLit)
	}
}

func TestLabelDrawsText(t *testing.T) {
	r := newBlack(t, 120, 30)
	Label{X: 5, Y: 20, Text: "Hologram", Color: hex("#ffffff")}.Draw(r.Canvas)
	lit := 0
	for y := 5; y < 24; y++ {
		for x := 5; x < 100; x++ {
			if r.Image.RGBAAt(x, y).R > 128 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Fatal("label drew no pixels")
	}
}

func TestFlattenDrawsObserver(t *testing.T) {
	frame := newReconstruction(width).Field(parameters.Default(), 0)
	img := frame.Flatten()
	if got := img.RGBAAt(width-ObserverInset, height/2); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("pupil = %v", got)
	}
}
