package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/AnkushinDaniil/hologram/clock"
	"github.com/AnkushinDaniil/hologram/config"
	"github.com/AnkushinDaniil/hologram/entity"
	"github.com/AnkushinDaniil/hologram/entity/format"
	"github.com/AnkushinDaniil/hologram/entity/parameters"
	"github.com/AnkushinDaniil/hologram/interference"
	"github.com/AnkushinDaniil/hologram/optics"
	"github.com/AnkushinDaniil/hologram/reconstruction"
	"github.com/AnkushinDaniil/hologram/render"
	"github.com/AnkushinDaniil/hologram/visibility"
	"github.com/AnkushinDaniil/hologram/wavefield"
)

type App struct {
	Conf *config.Config

	recording      *render.Recording
	reconstruction *render.Reconstruction
}

func New(conf *config.Config) *App {
	field := wavefield.New(wavefield.RecordingGeometry(conf.Width, conf.Height))
	field.Workers = conf.Workers
	recon := reconstruction.New(reconstruction.Geometry(conf.Width, conf.Height))
	recon.Workers = conf.Workers

	rec := render.NewRecording(field)
	rec.Grain = conf.Grain
	rec.ExactNormalization = conf.ExactNormalization
	rec.InspectorHeight = conf.InspectorHeight

	return &App{
		Conf:           conf,
		recording:      rec,
		reconstruction: render.NewReconstruction(recon),
	}
}

// Analysis summarizes the recorded pattern of one parameter snapshot.
type Analysis struct {
	Profile    *entity.Profile
	Period     float64   // dominant fringe period, px
	Window     int       // visibility window, px
	Visibility []float64 // windowed fringe visibility
}

func (a *App) Run(ctx context.Context) error {
	appTime := time.Now()
	defer func() {
		log.WithField("time", time.Since(appTime)).Debug("App finished")
	}()
	p := a.Conf.Params
	log.WithFields(log.Fields{
		"output":     a.Conf.Output,
		"frames":     a.Conf.Frames,
		"mode":       p.Mode,
		"wavelength": p.Wavelength,
		"angle":      p.ReferenceAngle,
		"distance":   p.ObjectDistance,
		"opacity":    p.ObjectOpacity,
		"phase":      p.ObjectPhase,
		"playing":    p.IsPlaying,
	}).Debug("App started")

	formats, err := a.Conf.ParsedFormats()
	if err != nil {
		return fmt.Errorf("failed to parse formats: %w", err)
	}
	if err := os.MkdirAll(a.Conf.Output, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	s := newSink(a.recording, a.reconstruction, a.Conf.Frames, slices.Contains(formats, format.Gif))
	if err := a.animate(ctx, s); err != nil {
		return fmt.Errorf("failed to animate: %w", err)
	}
	log.WithFields(log.Fields{
		"frames": s.count(),
		"tick":   s.tick,
	}).Info("Frames rendered")

	analysis, err := a.Analyze(s.params)
	if err != nil {
		return fmt.Errorf("failed to analyze profile: %w", err)
	}
	stats := analysis.Profile.Stats()
	peak, _ := visibility.Max(analysis.Visibility)
	axial := optics.ObjectFalloff.Amplitude(s.params.Intensity*s.params.ObjectOpacity, s.params.ObjectDistance)
	log.WithFields(log.Fields{
		"min":         stats.Min,
		"max":         stats.Max,
		"mean":        stats.Mean,
		"period":      analysis.Period,
		"visibility":  peak,
		"theoretical": interference.TheoreticalVisibility(s.params.Intensity, axial),
	}).Info("Recorded pattern analyzed")

	for _, f := range formats {
		if err := a.export(f, s, analysis); err != nil {
			return fmt.Errorf("failed to export %s: %w", f, err)
		}
	}
	return nil
}

// animate drives the clock. With a zero interval the frames are rendered
// back to back; otherwise the clock runs in real time until enough frames
// were drawn or ctx is cancelled. A paused snapshot renders one frame.
func (a *App) animate(ctx context.Context, s *sink) error {
	clk := clock.New(a.Conf.Params, s)
	clk.Interval = a.Conf.Interval

	if !a.Conf.Params.IsPlaying {
		return clk.Apply(a.Conf.Params)
	}
	if a.Conf.Interval == 0 {
		for range a.Conf.Frames {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := clk.Refresh(); err != nil {
				return err
			}
		}
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.done:
			cancel()
		case <-runCtx.Done():
		}
	}()
	if err := clk.Run(runCtx); err != nil {
		return err
	}
	return ctx.Err()
}

// Analyze builds the recorded profile and its fringe statistics.
func (a *App) Analyze(p parameters.Parameters) (*Analysis, error) {
	values := a.recording.Engine.Profile(p)
	divisor := wavefield.Divisor(p, values, a.Conf.ExactNormalization)
	profile, err := entity.NewProfile(fmt.Sprintf("I(y) %s", p.Mode), values, divisor)
	if err != nil {
		return nil, err
	}
	period := interference.CarrierPeriod(values)
	window := int(period + 0.5)
	if window < 2 {
		window = len(values)
	}
	vis, err := visibility.Windowed(values, window)
	if err != nil {
		return nil, err
	}
	return &Analysis{Profile: profile, Period: period, Window: window, Visibility: vis}, nil
}

func (a *App) path(name string) string {
	return filepath.Join(a.Conf.Output, name)
}
