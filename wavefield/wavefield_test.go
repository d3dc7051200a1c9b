package wavefield

import (
	"math"
	"testing"

	"github.com/AnkushinDaniil/hologram/entity/mode"
	"github.com/AnkushinDaniil/hologram/entity/parameters"
	"github.com/AnkushinDaniil/hologram/optics"
)

const (
	width  = 600
	height = 320
)

func newEngine() *Engine {
	return New(RecordingGeometry(width, height))
}

func TestFieldFiniteAndBrightnessInRange(t *testing.T) {
	e := newEngine()
	e.Workers = 4
	for _, wl := range []float64{15, 27, 40} {
		for _, angle := range []float64{5, 45} {
			for _, dist := range []float64{50, 250} {
				p := parameters.Default().WithMode(mode.AngularOffset)
				p.Wavelength = wl
				p.ReferenceAngle = angle
				p.ObjectDistance = dist
				p.ObjectPhase = 6.2
				f := e.Field(p, 137)
				for y := 0; y < f.Height; y++ {
					for x := 0; x < f.Cols; x++ {
						v := f.At(x, y)
						if math.IsNaN(v) || math.IsInf(v, 0) {
							t.Fatalf("non-finite field %v at (%d,%d) for %+v", v, x, y, p)
						}
						want := math.Round(math.Max(0, math.Min(255, 10+(v+p.Intensity)*15)))
						if b := optics.Brightness(v, p.Intensity); float64(b) != want {
							t.Fatalf("brightness %d at (%d,%d), want %v", b, x, y, want)
						}
					}
				}
			}
		}
	}
}

func TestFieldColumns(t *testing.T) {
	f := newEngine().Field(parameters.Default(), 0)
	if f.Cols != width-PlateMargin+1 {
		t.Fatalf("cols = %d, want %d", f.Cols, width-PlateMargin+1)
	}
	for y := 0; y < height; y++ {
		for x := f.Cols; x < width; x++ {
			if f.At(x, y) != 0 {
				t.Fatalf("value behind the plate at (%d,%d)", x, y)
			}
		}
	}
	if !f.Computed(width-PlateMargin) || f.Computed(width-PlateMargin+1) {
		t.Fatal("plate column must be the last computed column")
	}
}

func TestZeroOpacityIsPureReference(t *testing.T) {
	p := parameters.Default()
	p.ObjectOpacity = 0
	const tick = 42
	f := newEngine().Field(p, tick)
	ref := optics.NewPlaneWave(p)
	tp := optics.TimePhase(tick)
	for y := 0; y < height; y++ {
		for x := 0; x < f.Cols; x++ {
			want := ref.Field(float64(x), float64(y)-height/2, tp)
			if math.Abs(f.At(x, y)-want) > 1e-12 {
				t.Fatalf("field at (%d,%d) = %v, want %v", x, y, f.At(x, y), want)
			}
		}
	}
}

func TestObjectWaveOnlyRightOfObject(t *testing.T) {
	p := parameters.Default()
	e := newEngine()
	f := e.Field(p, 5)
	ref := optics.NewPlaneWave(p)
	objX := int(e.ObjectPosition(p).X)
	for y := 0; y < height; y += 13 {
		for x := 0; x <= objX; x++ {
			want := ref.Field(float64(x), float64(y)-height/2, optics.TimePhase(5))
			if math.Abs(f.At(x, y)-want) > 1e-12 {
				t.Fatalf("object wave leaked left of the object at (%d,%d)", x, y)
			}
		}
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	p := parameters.Default().WithMode(mode.AngularOffset)
	serial := newEngine()
	parallel := newEngine()
	parallel.Workers = 7
	a := serial.Field(p, 99)
	b := parallel.Field(p, 99)
	for i := range a.Values {
		if a.Values[i] != b.Values[i] {
			t.Fatalf("value %d differs: %v vs %v", i, a.Values[i], b.Values[i])
		}
	}
}

func TestProfileTimeInvariant(t *testing.T) {
	e := newEngine()
	for _, p := range []parameters.Parameters{
		parameters.Default(),
		parameters.Default().WithMode(mode.AngularOffset),
	} {
		p.ObjectPhase = 2.5
		a := e.ProfileAt(p, 3)
		b := e.ProfileAt(p, 12345)
		for y := range a {
			if math.Abs(a[y]-b[y]) > 1e-9*math.Max(1, a[y]) {
				t.Fatalf("profile changed with time at y=%d: %v vs %v", y, a[y], b[y])
			}
			if a[y] < -1e-12 {
				t.Fatalf("negative intensity %v at y=%d", a[y], y)
			}
		}
	}
}

func TestProfileWithoutObject(t *testing.T) {
	p := parameters.Default()
	p.ObjectOpacity = 0
	for y, v := range newEngine().Profile(p) {
		if v != p.Intensity*p.Intensity {
			t.Fatalf("I(%d) = %v, want %v", y, v, p.Intensity*p.Intensity)
		}
	}
}

func TestProfileMemoizedCopy(t *testing.T) {
	e := newEngine()
	p := parameters.Default()
	a := e.Profile(p)
	a[0] = -1
	b := e.Profile(p.Playing(false))
	if b[0] == -1 {
		t.Fatal("Profile returned the cached slice")
	}
	p.ObjectPhase = 1
	c := e.Profile(p)
	if c[height/2] == b[height/2] {
		t.Fatal("cache not invalidated by a parameter change")
	}
}

func TestNormalizationEstimate(t *testing.T) {
	p := parameters.Default()
	if got, want := NormalizationEstimate(p), 144*1.1; math.Abs(got-want) > 1e-9 {
		t.Fatalf("estimate = %v, want %v", got, want)
	}
}

func TestParallelRowsCoversAll(t *testing.T) {
	for _, workers := range []int{0, 1, 3, 500} {
		seen := make([]int, 37)
		ParallelRows(len(seen), workers, func(y0, y1 int) {
			for y := y0; y < y1; y++ {
				seen[y]++
			}
		})
		for y, n := range seen {
			if n != 1 {
				t.Fatalf("workers=%d: row %d visited %d times", workers, y, n)
			}
		}
	}
}

func TestDivisor(t *testing.T) {
	p := parameters.Default()
	profile := []float64{1, 7, 3}
	if got := Divisor(p, profile, false); got != NormalizationEstimate(p) {
		t.Fatalf("analytic divisor = %v", got)
	}
	if got := Divisor(p, profile, true); got != 7 {
		t.Fatalf("exact divisor = %v, want 7", got)
	}
	if got := Divisor(p, []float64{0, 0}, true); got != 1 {
		t.Fatalf("dark divisor = %v, want 1", got)
	}
}
