// Package input turns host pointer and keyboard samples into bus events.
package input

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/KirkDiggler/sceneview/internal/errors"
	"github.com/KirkDiggler/sceneview/internal/events"
	svlog "github.com/KirkDiggler/sceneview/internal/log"
	"github.com/KirkDiggler/sceneview/internal/metrics"
)

// Drop reasons reported to metrics
const (
	DropNonPrimary  = "non_primary"
	DropRateLimited = "rate_limited"
)

// PointerSample is one pointer event as the host reports it, in client pixels
type PointerSample struct {
	ClientX   float64
	ClientY   float64
	Button    int
	IsPrimary bool
}

// Config configures a Dispatcher
type Config struct {
	Bus    *events.Bus
	Width  int
	Height int

	// PointerRate caps mousemove events per second; zero or less disables the cap
	PointerRate  float64
	PointerBurst int

	Logger *zerolog.Logger
}

// Dispatcher triggers input events on a single target
type Dispatcher[T any] struct {
	bus    *events.Bus
	target *T

	mu     sync.RWMutex
	width  int
	height int

	moves  *rate.Limiter
	logger zerolog.Logger
}

// NewDispatcher creates a dispatcher that triggers on target
func NewDispatcher[T any](cfg *Config, target *T) (*Dispatcher[T], error) {
	if cfg == nil || cfg.Bus == nil {
		return nil, errors.InvalidArgument("event bus is required")
	}
	if target == nil {
		return nil, errors.InvalidArgument("target is nil")
	}
	if err := validateViewport(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}

	limit := rate.Inf
	burst := cfg.PointerBurst
	if cfg.PointerRate > 0 {
		limit = rate.Limit(cfg.PointerRate)
		if burst <= 0 {
			burst = 1
		}
	}

	d := &Dispatcher[T]{
		bus:    cfg.Bus,
		target: target,
		width:  cfg.Width,
		height: cfg.Height,
		moves:  rate.NewLimiter(limit, burst),
	}
	if cfg.Logger != nil {
		d.logger = *cfg.Logger
	} else {
		d.logger = svlog.WithComponent("input")
	}

	return d, nil
}

func validateViewport(width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.Validationf("viewport must be positive, got %dx%d", width, height).
			WithMeta("width", width).
			WithMeta("height", height)
	}
	return nil
}

// Viewport returns the size NDC conversion uses
func (d *Dispatcher[T]) Viewport() (width, height int) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.width, d.height
}

// NDC converts client pixels to normalized device coordinates, y up
func (d *Dispatcher[T]) NDC(clientX, clientY float64) mgl32.Vec2 {
	w, h := d.Viewport()
	return mgl32.Vec2{
		float32(clientX/float64(w)*2 - 1),
		float32(-(clientY/float64(h))*2 + 1),
	}
}

// PointerMove triggers mousemove. Secondary pointers and samples over the
// rate cap are dropped.
func (d *Dispatcher[T]) PointerMove(s PointerSample) error {
	if !d.accept(s) {
		return nil
	}
	if !d.moves.Allow() {
		metrics.IncPointerDrop(DropRateLimited)
		return nil
	}
	return events.Trigger(d.bus, events.MouseMove, d.target, d.mouse(s))
}

func (d *Dispatcher[T]) PointerDown(s PointerSample) error {
	return d.pointer(events.MouseDown, s)
}

func (d *Dispatcher[T]) PointerUp(s PointerSample) error {
	return d.pointer(events.MouseUp, s)
}

func (d *Dispatcher[T]) Click(s PointerSample) error {
	return d.pointer(events.Click, s)
}

func (d *Dispatcher[T]) DoubleClick(s PointerSample) error {
	return d.pointer(events.DoubleClick, s)
}

func (d *Dispatcher[T]) KeyDown(e events.KeyEvent) error {
	return events.Trigger(d.bus, events.KeyDown, d.target, e)
}

func (d *Dispatcher[T]) KeyPress(e events.KeyEvent) error {
	return events.Trigger(d.bus, events.KeyPress, d.target, e)
}

func (d *Dispatcher[T]) KeyUp(e events.KeyEvent) error {
	return events.Trigger(d.bus, events.KeyUp, d.target, e)
}

// Resize records the new viewport, then triggers resize
func (d *Dispatcher[T]) Resize(width, height int) error {
	if err := validateViewport(width, height); err != nil {
		return err
	}

	d.mu.Lock()
	d.width, d.height = width, height
	d.mu.Unlock()

	d.logger.Debug().
		Str("event", "input.resized").
		Int("width", width).
		Int("height", height).
		Msg("viewport resized")

	return events.Trigger(d.bus, events.Resize, d.target, events.ResizeEvent{Width: width, Height: height})
}

func (d *Dispatcher[T]) pointer(ch events.Channel[events.MouseEvent], s PointerSample) error {
	if !d.accept(s) {
		return nil
	}
	return events.Trigger(d.bus, ch, d.target, d.mouse(s))
}

func (d *Dispatcher[T]) accept(s PointerSample) bool {
	if !s.IsPrimary {
		metrics.IncPointerDrop(DropNonPrimary)
		return false
	}
	return true
}

func (d *Dispatcher[T]) mouse(s PointerSample) events.MouseEvent {
	return events.MouseEvent{Mouse: d.NDC(s.ClientX, s.ClientY), Button: s.Button}
}
