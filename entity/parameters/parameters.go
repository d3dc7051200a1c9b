package parameters

import (
	"math"

	"github.com/AnkushinDaniil/hologram/entity/mode"
)

// Declared ranges of the experiment controls.
const (
	MinWavelength     = 15.0
	MaxWavelength     = 40.0
	MinAngle          = 5.0
	MaxAngle          = 45.0
	OffAxisAngle      = 15.0
	MinObjectDistance = 50.0
	MaxObjectDistance = 250.0
)

// Parameters is one snapshot of the experiment. Engines read it by value;
// a change always produces a new snapshot.
type Parameters struct {
	Mode           mode.Mode `yaml:"mode" toml:"mode"`
	Wavelength     float64   `yaml:"wavelength" toml:"wavelength"`           // px
	ReferenceAngle float64   `yaml:"reference_angle" toml:"reference_angle"` // degrees
	ObjectDistance float64   `yaml:"object_distance" toml:"object_distance"` // px
	Intensity      float64   `yaml:"intensity" toml:"intensity"`
	ObjectOpacity  float64   `yaml:"object_opacity" toml:"object_opacity"`
	ObjectPhase    float64   `yaml:"object_phase" toml:"object_phase"` // rad
	IsPlaying      bool      `yaml:"playing" toml:"playing"`
}

func Default() Parameters {
	return Parameters{
		Mode:           mode.CoLinear,
		Wavelength:     20,
		ReferenceAngle: 0,
		ObjectDistance: 120,
		Intensity:      4,
		ObjectOpacity:  1,
		ObjectPhase:    0,
		IsPlaying:      true,
	}
}

// Theta is the reference angle in radians.
func (p Parameters) Theta() float64 {
	return p.ReferenceAngle * math.Pi / 180
}

// WaveNumber is k = 2π/λ.
func (p Parameters) WaveNumber() float64 {
	return 2 * math.Pi / p.Wavelength
}

// WithMode switches the setup and moves the reference beam to the
// angle that setup starts from.
func (p Parameters) WithMode(m mode.Mode) Parameters {
	p.Mode = m
	p.ReferenceAngle = 0
	if m == mode.AngularOffset {
		p.ReferenceAngle = OffAxisAngle
	}
	return p
}

// Reset restores the experiment controls, keeping mode and play state.
func (p Parameters) Reset() Parameters {
	d := Default().WithMode(p.Mode)
	d.Intensity = p.Intensity
	d.IsPlaying = p.IsPlaying
	return d
}

// Playing returns a copy with the play flag replaced.
func (p Parameters) Playing(playing bool) Parameters {
	p.IsPlaying = playing
	return p
}

// Clamp brings every control into its declared range. Non-finite values
// fall back to the defaults; an off-axis snapshot with no reference angle
// gets OffAxisAngle.
func (p Parameters) Clamp() Parameters {
	d := Default()
	p.Wavelength = clamp(orDefault(p.Wavelength, d.Wavelength), MinWavelength, MaxWavelength)
	p.ObjectDistance = clamp(orDefault(p.ObjectDistance, d.ObjectDistance), MinObjectDistance, MaxObjectDistance)
	p.ObjectOpacity = clamp(orDefault(p.ObjectOpacity, d.ObjectOpacity), 0, 1)
	p.Intensity = orDefault(p.Intensity, d.Intensity)
	if p.Intensity <= 0 {
		p.Intensity = d.Intensity
	}
	p.ObjectPhase = math.Mod(orDefault(p.ObjectPhase, 0), 2*math.Pi)
	if p.ObjectPhase < 0 {
		p.ObjectPhase += 2 * math.Pi
	}
	if p.Mode == mode.CoLinear {
		p.ReferenceAngle = 0
	} else {
		angle := orDefault(p.ReferenceAngle, OffAxisAngle)
		if angle == 0 {
			// an off-axis snapshot without an angle starts where WithMode does
			angle = OffAxisAngle
		}
		p.ReferenceAngle = clamp(angle, MinAngle, MaxAngle)
	}
	return p
}

func orDefault(v, d float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return d
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
