package clock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/AnkushinDaniil/hologram/entity/parameters"
)

type frame struct {
	params parameters.Parameters
	tick   int64
}

type recorder struct {
	mu     sync.Mutex
	frames []frame
}

func (r *recorder) Render(p parameters.Parameters, tick int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, frame{p, tick})
	return nil
}

func (r *recorder) snapshot() []frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]frame(nil), r.frames...)
}

func TestRefreshAdvancesWhileRunning(t *testing.T) {
	rec := &recorder{}
	c := New(parameters.Default(), rec)
	if c.State() != Running {
		t.Fatal("initial state must be running")
	}
	for range 3 {
		if err := c.Refresh(); err != nil {
			t.Fatal(err)
		}
	}
	frames := rec.snapshot()
	if len(frames) != 3 {
		t.Fatalf("frames = %d, want 3", len(frames))
	}
	for i, f := range frames {
		if f.tick != int64(i+1) {
			t.Fatalf("frame %d tick = %d", i, f.tick)
		}
	}
}

func TestPauseFreezesAndResumeContinues(t *testing.T) {
	rec := &recorder{}
	p := parameters.Default()
	c := New(p, rec)
	for range 5 {
		_ = c.Refresh()
	}
	if err := c.Apply(p.Playing(false)); err != nil {
		t.Fatal(err)
	}
	frames := rec.snapshot()
	if len(frames) != 6 || frames[5].tick != 5 {
		t.Fatalf("pause must render once at the frozen tick, got %+v", frames[len(frames)-1])
	}
	for range 4 {
		_ = c.Refresh()
	}
	if got := len(rec.snapshot()); got != 6 {
		t.Fatalf("paused refreshes rendered %d extra frames", got-6)
	}
	if c.Tick() != 5 {
		t.Fatalf("tick advanced while paused: %d", c.Tick())
	}

	changed := p.Playing(false)
	changed.Wavelength = 30
	if err := c.Apply(changed); err != nil {
		t.Fatal(err)
	}
	frames = rec.snapshot()
	if len(frames) != 7 || frames[6].tick != 5 || frames[6].params.Wavelength != 30 {
		t.Fatalf("change while paused must render once: %+v", frames[len(frames)-1])
	}

	if err := c.Apply(p); err != nil {
		t.Fatal(err)
	}
	if got := len(rec.snapshot()); got != 7 {
		t.Fatal("resume must not render before the next refresh")
	}
	_ = c.Refresh()
	frames = rec.snapshot()
	if last := frames[len(frames)-1]; last.tick != 6 {
		t.Fatalf("resume tick = %d, want 6", last.tick)
	}
}

func TestChangeWhileRunningPickedUpNextFrame(t *testing.T) {
	rec := &recorder{}
	p := parameters.Default()
	c := New(p, rec)
	_ = c.Refresh()
	p.ObjectPhase = 1
	_ = c.Apply(p)
	if len(rec.snapshot()) != 1 {
		t.Fatal("running apply must not render")
	}
	_ = c.Refresh()
	frames := rec.snapshot()
	if frames[1].params.ObjectPhase != 1 || frames[1].tick != 2 {
		t.Fatalf("next frame = %+v", frames[1])
	}
}

func TestRenderError(t *testing.T) {
	boom := errors.New("boom")
	c := New(parameters.Default(), RendererFunc(func(parameters.Parameters, int64) error { return boom }))
	if err := c.Refresh(); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	rec := &recorder{}
	c := New(parameters.Default(), rec)
	c.Interval = time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for len(rec.snapshot()) < 3 {
		select {
		case <-deadline:
			t.Fatal("clock did not render")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	n := len(rec.snapshot())
	time.Sleep(10 * time.Millisecond)
	if len(rec.snapshot()) != n {
		t.Fatal("frames rendered after cancellation")
	}
}

func TestRunAppliesSubmittedSnapshots(t *testing.T) {
	rec := &recorder{}
	c := New(parameters.Default().Playing(false), rec)
	c.Interval = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	p := parameters.Default().Playing(false)
	p.Wavelength = 35
	c.Submit(p)

	deadline := time.After(2 * time.Second)
	for len(rec.snapshot()) < 2 {
		select {
		case <-deadline:
			t.Fatal("submitted snapshot not rendered")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	<-done
	frames := rec.snapshot()
	if frames[0].tick != 0 || frames[1].params.Wavelength != 35 || frames[1].tick != 0 {
		t.Fatalf("frames = %+v", frames)
	}
}

func TestSubmitWithoutRunKeepsNewest(t *testing.T) {
	c := New(parameters.Default())
	total := cap(c.updates) + 5
	submitted := make(chan struct{})
	go func() {
		defer close(submitted)
		for i := range total {
			p := parameters.Default()
			p.Wavelength = float64(i)
			c.Submit(p)
		}
	}()
	select {
	case <-submitted:
	case <-time.After(2 * time.Second):
		t.Fatal("Submit blocked with no Run loop")
	}
	if len(c.updates) != cap(c.updates) {
		t.Fatalf("queued = %d, want %d", len(c.updates), cap(c.updates))
	}
	var last parameters.Parameters
	for len(c.updates) > 0 {
		last = <-c.updates
	}
	if last.Wavelength != float64(total-1) {
		t.Fatalf("last queued wavelength = %v, want %d", last.Wavelength, total-1)
	}
}
