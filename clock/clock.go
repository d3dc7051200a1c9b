// Package clock drives frame rendering: it advances the simulation tick
// while playing, freezes it while paused and re-renders paused frames on
// parameter changes.
package clock

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/AnkushinDaniil/hologram/entity/parameters"
)

type State uint8

const (
	Running State = iota
	Paused
)

func (s State) String() string {
	if s == Paused {
		return "paused"
	}
	return "running"
}

// DefaultInterval is one display refresh at 60 Hz.
const DefaultInterval = time.Second / 60

// Renderer draws one frame for a parameter snapshot at a tick.
type Renderer interface {
	Render(p parameters.Parameters, tick int64) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(p parameters.Parameters, tick int64) error

func (f RendererFunc) Render(p parameters.Parameters, tick int64) error {
	return f(p, tick)
}

type Clock struct {
	Interval time.Duration

	mu        sync.Mutex
	params    parameters.Parameters
	tick      int64
	renderers []Renderer
	updates   chan parameters.Parameters
}

func New(p parameters.Parameters, renderers ...Renderer) *Clock {
	return &Clock{
		Interval:  DefaultInterval,
		params:    p,
		renderers: renderers,
		updates:   make(chan parameters.Parameters, 16),
	}
}

func (c *Clock) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return stateOf(c.params)
}

func stateOf(p parameters.Parameters) State {
	if p.IsPlaying {
		return Running
	}
	return Paused
}

// Tick is the current simulation time.
func (c *Clock) Tick() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tick
}

func (c *Clock) Params() parameters.Parameters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params
}

// Refresh handles one display refresh. While running it advances the tick
// by one and renders; while paused it does nothing.
func (c *Clock) Refresh() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if stateOf(c.params) == Paused {
		return nil
	}
	c.tick++
	return c.render()
}

// Apply replaces the parameter snapshot. A paused snapshot (entering the
// paused state or changing while paused) is rendered once at the frozen
// tick; a running one is picked up by the next refresh.
func (c *Clock) Apply(p parameters.Parameters) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := stateOf(c.params)
	c.params = p
	next := stateOf(p)
	if prev != next {
		log.WithFields(log.Fields{
			"from": prev,
			"to":   next,
			"tick": c.tick,
		}).Debug("Clock state changed")
	}
	if next == Paused {
		return c.render()
	}
	return nil
}

// Submit queues a snapshot for the Run loop. It never blocks: when the
// queue is full the oldest pending snapshot is dropped.
func (c *Clock) Submit(p parameters.Parameters) {
	for {
		select {
		case c.updates <- p:
			return
		default:
		}
		select {
		case stale := <-c.updates:
			log.WithField("wavelength", stale.Wavelength).Trace("Dropped stale snapshot")
		default:
		}
	}
}

// Run refreshes every Interval until ctx is cancelled. Cancelling stops the
// pending refresh; no further frames are rendered after Run returns.
func (c *Clock) Run(ctx context.Context) error {
	interval := c.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if c.State() == Paused {
		if err := c.Apply(c.Params()); err != nil {
			return err
		}
	}
	for {
		select {
		case <-ctx.Done():
			log.WithField("tick", c.Tick()).Debug("Clock stopped")
			return nil
		case p := <-c.updates:
			if err := c.Apply(p); err != nil {
				return err
			}
		case <-ticker.C:
			if err := c.Refresh(); err != nil {
				return err
			}
		}
	}
}

func (c *Clock) render() error {
	for i, r := range c.renderers {
		if err := r.Render(c.params, c.tick); err != nil {
			return fmt.Errorf("failed to render frame %d with renderer %d: %w", c.tick, i, err)
		}
	}
	return nil
}
