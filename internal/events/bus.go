// Package events is the viewer's publish/subscribe registry. Subscriptions are
// scoped to a (channel, target) pair: a target is any pointer, and the bus
// keeps each target's subscriptions in a registry that lives only as long as
// the target does. Targets that are never collected, such as package-level
// variables, keep their registry until Bus.Clear.
package events

import (
	stderrors "errors"
	"reflect"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"
	"unsafe"
	"weak"

	"github.com/rs/zerolog"

	"github.com/KirkDiggler/sceneview/internal/errors"
	svlog "github.com/KirkDiggler/sceneview/internal/log"
	"github.com/KirkDiggler/sceneview/internal/metrics"
	"github.com/KirkDiggler/sceneview/internal/uuid"
)

// BusConfig configures a Bus. A nil config or zero fields select defaults.
type BusConfig struct {
	// IDGenerator issues subscription IDs (default: random UUIDs)
	IDGenerator uuid.Generator

	// Logger overrides the "events" component logger
	Logger *zerolog.Logger

	// OnError is called for every subscriber that fails during Trigger
	OnError func(channel string, err error)
}

// Bus dispatches events to subscribers registered per target.
// Callbacks never run while the bus lock is held, so they may call back into the bus.
type Bus struct {
	mu         sync.Mutex
	registries map[targetKey]*registry

	ids     uuid.Generator
	logger  zerolog.Logger
	onError func(channel string, err error)
}

// targetKey identifies a target by address and type, so a struct and its
// first field are different targets
type targetKey struct {
	addr uintptr
	typ  reflect.Type
}

func keyOf[T any](target *T) targetKey {
	return targetKey{addr: uintptr(unsafe.Pointer(target)), typ: reflect.TypeFor[T]()}
}

// registry holds one target's subscriptions
type registry struct {
	key targetKey

	// current returns the target while it is alive, nil after it was collected
	current func() unsafe.Pointer

	channels map[string]*subscriberList
	cleanup  runtime.Cleanup
}

// newRegistry creates the registry for target. Heap targets are held weakly
// and the registry is released when they are collected. Zero-size values and
// package-level variables live outside the heap, cannot be weakly referenced
// and are never collected, so the registry holds them directly until Clear.
func newRegistry[T any](b *Bus, target *T, key targetKey) *registry {
	reg := &registry{key: key, channels: make(map[string]*subscriberList)}

	if reflect.TypeFor[T]().Size() > 0 {
		reg.cleanup = runtime.AddCleanup(target, b.release, reg)
	}
	if reg.cleanup == (runtime.Cleanup{}) {
		reg.current = func() unsafe.Pointer { return unsafe.Pointer(target) }
		return reg
	}

	wp := weak.Make(target)
	reg.current = func() unsafe.Pointer { return unsafe.Pointer(wp.Value()) }
	return reg
}

type subscriberList struct {
	payload reflect.Type
	entries []*entry
}

type entry struct {
	id     string
	once   bool
	live   atomic.Bool
	fired  atomic.Bool
	invoke func(payload any) error
}

// Subscription identifies one registration made by On or One.
// The zero value is valid and removing it is a no-op.
type Subscription struct {
	ID      string
	Channel string
	reg     *registry
}

// IsZero reports whether s is the zero Subscription
func (s Subscription) IsZero() bool { return s.ID == "" }

// NewBus creates an event bus
func NewBus(cfg *BusConfig) *Bus {
	if cfg == nil {
		cfg = &BusConfig{}
	}

	b := &Bus{
		registries: make(map[targetKey]*registry),
		ids:        cfg.IDGenerator,
		onError:    cfg.OnError,
	}
	if b.ids == nil {
		b.ids = uuid.NewGoogleUUIDGenerator()
	}
	if cfg.Logger != nil {
		b.logger = *cfg.Logger
	} else {
		b.logger = svlog.WithComponent("events")
	}

	return b
}

// On appends fn to target's subscribers for ch. fn is not invoked now.
// A nil target or fn is rejected with an invalid argument error.
func On[T, P any](b *Bus, ch Channel[P], target *T, fn func(payload P) error) (Subscription, error) {
	return subscribe(b, ch, target, fn, false)
}

// One registers fn like On, but the subscription removes itself the first
// time it fires, so fn runs at most once.
func One[T, P any](b *Bus, ch Channel[P], target *T, fn func(payload P) error) (Subscription, error) {
	return subscribe(b, ch, target, fn, true)
}

func subscribe[T, P any](b *Bus, ch Channel[P], target *T, fn func(P) error, once bool) (Subscription, error) {
	if ch.name == "" {
		return Subscription{}, errors.InvalidArgument("channel has no name")
	}
	if target == nil {
		return Subscription{}, errors.InvalidArgumentf("%s: target is nil", ch.name)
	}
	if fn == nil {
		return Subscription{}, errors.InvalidArgumentf("%s: callback is nil", ch.name)
	}

	e := &entry{
		id:   b.ids.New(),
		once: once,
		invoke: func(payload any) error {
			// a nil interface payload arrives as a nil any
			p, _ := payload.(P)
			return fn(p)
		},
	}
	e.live.Store(true)

	key := keyOf(target)

	b.mu.Lock()
	reg := b.lookup(key)
	if reg == nil {
		reg = newRegistry(b, target, key)
		b.registries[key] = reg
	}

	list, ok := reg.channels[ch.name]
	if !ok {
		list = &subscriberList{payload: ch.payload}
		reg.channels[ch.name] = list
	} else if list.payload != ch.payload {
		b.mu.Unlock()
		return Subscription{}, errors.InvalidArgumentf("%s: channel carries %v, not %v", ch.name, list.payload, ch.payload)
	}
	list.entries = append(list.entries, e)
	b.mu.Unlock()

	metrics.EventSubscriptions.WithLabelValues(ch.name).Inc()
	b.logger.Debug().
		Str("event", "events.subscribed").
		Str("channel", ch.name).
		Str("subscription", e.id).
		Bool("once", once).
		Msg("subscribed")

	return Subscription{ID: e.id, Channel: ch.name, reg: reg}, nil
}

// Off removes the registration identified by sub. Removing an unknown,
// zero or already removed subscription does nothing.
func (b *Bus) Off(sub Subscription) {
	if sub.IsZero() || sub.reg == nil {
		return
	}
	if b.remove(sub.reg, sub.Channel, sub.ID) {
		b.logger.Debug().
			Str("event", "events.unsubscribed").
			Str("channel", sub.Channel).
			Str("subscription", sub.ID).
			Msg("unsubscribed")
	}
}

// OffAll removes every subscription target has on ch and returns how many were removed
func OffAll[T, P any](b *Bus, ch Channel[P], target *T) int {
	if target == nil {
		return 0
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	reg := b.lookup(keyOf(target))
	if reg == nil {
		return 0
	}
	list := reg.channels[ch.name]
	if list == nil {
		return 0
	}

	for _, e := range list.entries {
		e.live.Store(false)
	}
	n := len(list.entries)
	delete(reg.channels, ch.name)
	metrics.EventSubscriptions.WithLabelValues(ch.name).Sub(float64(n))
	return n
}

// Trigger synchronously calls every subscriber target currently has on ch,
// in registration order, passing payload unchanged.
//
// The subscriber list is copied before the first call: subscribers added
// while Trigger runs are not called in this emission, subscribers removed
// while it runs are skipped if not yet reached. A failing subscriber (error
// or panic) does not stop delivery; failures are joined into the returned error.
func Trigger[T, P any](b *Bus, ch Channel[P], target *T, payload P) error {
	if target == nil {
		return errors.InvalidArgumentf("%s: target is nil", ch.name)
	}

	b.mu.Lock()
	reg := b.lookup(keyOf(target))
	if reg == nil {
		b.mu.Unlock()
		return nil
	}
	list := reg.channels[ch.name]
	if list == nil || len(list.entries) == 0 {
		b.mu.Unlock()
		return nil
	}
	if list.payload != ch.payload {
		b.mu.Unlock()
		return errors.InvalidArgumentf("%s: channel carries %v, not %v", ch.name, list.payload, ch.payload)
	}
	snapshot := slices.Clone(list.entries)
	b.mu.Unlock()

	metrics.EventsTriggeredTotal.WithLabelValues(ch.name).Inc()

	var failures []error
	for _, e := range snapshot {
		if !e.live.Load() {
			continue
		}
		if e.once {
			// claim the single firing before running user code so a
			// reentrant Trigger cannot fire it again
			if !e.fired.CompareAndSwap(false, true) {
				continue
			}
			b.remove(reg, ch.name, e.id)
		}
		if err := b.call(ch.name, e, payload); err != nil {
			failures = append(failures, err)
		}
	}

	if len(failures) == 0 {
		return nil
	}
	return errors.WrapWithCode(stderrors.Join(failures...), errors.CodeInternal,
		ch.name+": subscriber failed").
		WithMeta("channel", ch.name).
		WithMeta("failed", len(failures))
}

// ListenerCount returns how many subscriptions target has on ch
func ListenerCount[T, P any](b *Bus, ch Channel[P], target *T) int {
	if target == nil {
		return 0
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	reg := b.lookup(keyOf(target))
	if reg == nil || reg.channels[ch.name] == nil {
		return 0
	}
	return len(reg.channels[ch.name].entries)
}

// TargetCount returns the number of targets with a registry
func (b *Bus) TargetCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.registries)
}

// Clear removes every subscription of every target
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, reg := range b.registries {
		reg.cleanup.Stop()
		b.drop(reg)
	}
	b.registries = make(map[targetKey]*registry)
	b.logger.Debug().Str("event", "events.cleared").Msg("cleared all subscriptions")
}

// call runs one subscriber, turning a panic into an error
func (b *Bus) call(channel string, e *entry, payload any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Internalf("subscriber %s panicked: %v", e.id, r)
		}
		if err == nil {
			return
		}

		metrics.EventSubscriberErrorsTotal.WithLabelValues(channel).Inc()
		b.logger.Error().
			Err(err).
			Str("event", "events.subscriber_failed").
			Str("channel", channel).
			Str("subscription", e.id).
			Msg("subscriber failed")
		if b.onError != nil {
			b.onError(channel, err)
		}
	}()

	if err := e.invoke(payload); err != nil {
		return errors.Wrapf(err, "subscriber %s", e.id)
	}
	return nil
}

// lookup returns the live registry for key. A registry whose target was
// collected, with the address since reused, is dropped. Caller holds b.mu.
func (b *Bus) lookup(key targetKey) *registry {
	reg := b.registries[key]
	if reg == nil {
		return nil
	}
	if uintptr(reg.current()) != key.addr {
		b.drop(reg)
		delete(b.registries, key)
		return nil
	}
	return reg
}

// remove deletes one entry, preserving the order of the rest
func (b *Bus) remove(reg *registry, channel, id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.registries[reg.key] != reg {
		return false
	}
	list := reg.channels[channel]
	if list == nil {
		return false
	}

	i := slices.IndexFunc(list.entries, func(e *entry) bool { return e.id == id })
	if i < 0 {
		return false
	}
	list.entries[i].live.Store(false)
	list.entries = slices.Delete(list.entries, i, i+1)
	if len(list.entries) == 0 {
		delete(reg.channels, channel)
	}
	metrics.EventSubscriptions.WithLabelValues(channel).Dec()
	return true
}

// release runs after a target has been garbage collected
func (b *Bus) release(reg *registry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.registries[reg.key] != reg {
		return
	}
	b.drop(reg)
	delete(b.registries, reg.key)
}

// drop marks a registry's entries dead and settles the gauges. Caller holds b.mu.
func (b *Bus) drop(reg *registry) {
	for name, list := range reg.channels {
		for _, e := range list.entries {
			e.live.Store(false)
		}
		metrics.EventSubscriptions.WithLabelValues(name).Sub(float64(len(list.entries)))
	}
}
