package app

import (
	"image"
	"image/color/palette"
	"image/draw"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/AnkushinDaniil/hologram/entity/parameters"
	"github.com/AnkushinDaniil/hologram/render"
)

// sink is the clock renderer of a batch run: it renders both field views
// for every frame and keeps what the exports need.
type sink struct {
	recording      *render.Recording
	reconstruction *render.Reconstruction
	keepGIF        bool
	limit          int

	mu        sync.Mutex
	frames    int
	params    parameters.Parameters
	tick      int64
	lastField render.Frame
	lastRecon render.Frame
	fieldGIF  []*image.Paletted
	reconGIF  []*image.Paletted
	done      chan struct{}
}

func newSink(rec *render.Recording, recon *render.Reconstruction, limit int, keepGIF bool) *sink {
	return &sink{
		recording:      rec,
		reconstruction: recon,
		keepGIF:        keepGIF,
		limit:          limit,
		done:           make(chan struct{}),
	}
}

// Render draws and keeps one frame. Frames past the limit, which a real-time
// clock can still deliver before it is stopped, are ignored.
func (s *sink) Render(p parameters.Parameters, tick int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frames >= s.limit {
		return nil
	}
	field := s.recording.Field(p, tick)
	recon := s.reconstruction.Field(p, tick)

	s.params, s.tick = p, tick
	s.lastField, s.lastRecon = field, recon
	if s.keepGIF {
		s.fieldGIF = append(s.fieldGIF, quantize(field.Flatten()))
		s.reconGIF = append(s.reconGIF, quantize(recon.Flatten()))
	}
	s.frames++
	if s.frames == s.limit {
		close(s.done)
	}
	log.WithFields(log.Fields{
		"tick":  tick,
		"frame": s.frames,
	}).Trace("Frame rendered")
	return nil
}

func (s *sink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

func quantize(img *image.RGBA) *image.Paletted {
	p := image.NewPaletted(img.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(p, p.Bounds(), img, image.Point{})
	return p
}
