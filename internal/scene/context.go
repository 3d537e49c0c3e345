package scene

import (
	"context"
	stderrors "errors"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/sceneview/internal/errors"
	"github.com/KirkDiggler/sceneview/internal/events"
	svlog "github.com/KirkDiggler/sceneview/internal/log"
)

const tracerName = "github.com/KirkDiggler/sceneview/internal/scene"

// defaultLoadConcurrency bounds parallel loader calls in Context.Load
const defaultLoadConcurrency = 4

// ContextConfig configures a Context
type ContextConfig struct {
	Bus    *events.Bus
	Loader Loader

	// LoadConcurrency bounds parallel loads (default 4)
	LoadConcurrency int

	Logger *zerolog.Logger
	Tracer trace.Tracer
}

// Context owns the scenes of one viewer, the current scene and the level
// hierarchy. Level changes are announced on the bus with the Context as target.
type Context struct {
	mu      sync.RWMutex
	scenes  map[string]*Scene
	current *Scene
	levels  *Level
	level   *Level

	bus         *events.Bus
	loader      Loader
	concurrency int
	logger      zerolog.Logger
	tracer      trace.Tracer
}

// NewContext creates an empty Context
func NewContext(cfg *ContextConfig) (*Context, error) {
	if cfg == nil || cfg.Bus == nil {
		return nil, errors.InvalidArgument("event bus is required")
	}
	if cfg.Loader == nil {
		return nil, errors.InvalidArgument("loader is required")
	}

	c := &Context{
		scenes:      make(map[string]*Scene),
		bus:         cfg.Bus,
		loader:      cfg.Loader,
		concurrency: cfg.LoadConcurrency,
		tracer:      cfg.Tracer,
	}
	if c.concurrency <= 0 {
		c.concurrency = defaultLoadConcurrency
	}
	if cfg.Logger != nil {
		c.logger = *cfg.Logger
	} else {
		c.logger = svlog.WithComponent("scene")
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer(tracerName)
	}

	return c, nil
}

// Load creates a scene per entry and loads them concurrently. A scene with an
// ID that already exists replaces it. Scenes that fail to load are still
// registered but not ready; the failures are returned joined.
func (c *Context) Load(ctx context.Context, configs map[string]*SceneConfig) error {
	ctx, span := c.tracer.Start(ctx, "scene.Context.Load",
		trace.WithAttributes(attribute.Int("scene.count", len(configs))))
	defer span.End()

	ids := make([]string, 0, len(configs))
	for id := range configs {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	created := make([]*Scene, len(ids))
	for i, id := range ids {
		s, err := New(id, configs[id])
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		created[i] = s
	}

	c.mu.Lock()
	for _, s := range created {
		c.scenes[s.id] = s
		if c.current != nil && c.current.id == s.id {
			c.current = s
		}
	}
	c.mu.Unlock()

	failures := make([]error, len(created))

	// errgroup bounds the fan-out; each goroutine reports through failures so
	// one broken asset does not cancel the others
	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, s := range created {
		g.Go(func() error {
			failures[i] = c.loadScene(ctx, s)
			return nil
		})
	}
	_ = g.Wait()

	if err := stderrors.Join(failures...); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "scene load failed")
		return errors.WrapWithCode(err, errors.CodeUnavailable, "load scenes")
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func (c *Context) loadScene(ctx context.Context, s *Scene) error {
	ctx, span := c.tracer.Start(ctx, "scene.Load",
		trace.WithAttributes(
			attribute.String("scene.id", s.id),
			attribute.String("scene.url", s.url),
		))
	defer span.End()

	if err := s.Load(ctx, c.loader); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Error().
			Err(err).
			Str("event", "scene.load_failed").
			Str("scene", s.id).
			Str("url", s.url).
			Msg("scene failed to load")
		return err
	}

	span.SetStatus(codes.Ok, "")
	c.logger.Info().
		Str("event", "scene.loaded").
		Str("scene", s.id).
		Msg("scene loaded")
	return nil
}

// LoadDefinition loads every scene of def, makes def.Scene current and
// installs def's level tree. The scene switch happens even if some other
// scene failed to load; that failure is still returned.
func (c *Context) LoadDefinition(ctx context.Context, def *Definition) error {
	if def == nil {
		return errors.InvalidArgument("scene definition is nil")
	}
	if err := def.Validate(); err != nil {
		return err
	}

	var levels *Level
	if def.Levels != nil {
		var err error
		if levels, err = NewLevelTree(def.Levels, def.hasScene); err != nil {
			return err
		}
	}

	loadErr := c.Load(ctx, def.Scenes)

	if err := c.SetCurrentScene(def.Scene); err != nil {
		return err
	}
	c.SetLevels(levels)

	return loadErr
}

// CurrentScene returns the scene being shown, or nil before one is chosen
func (c *Context) CurrentScene() *Scene {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// SetCurrentScene switches the shown scene
func (c *Context) SetCurrentScene(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.scenes[id]
	if !ok {
		return errors.NotFoundf("scene %q", id)
	}
	c.current = s
	return nil
}

// Scene returns the scene with the given ID
func (c *Context) Scene(id string) (*Scene, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.scenes[id]
	if !ok {
		return nil, errors.NotFoundf("scene %q", id)
	}
	return s, nil
}

// Scenes returns all scenes sorted by ID
func (c *Context) Scenes() []*Scene {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Scene, 0, len(c.scenes))
	for _, s := range c.scenes {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b *Scene) int { return strings.Compare(a.id, b.id) })
	return out
}

// SetLevels installs a level hierarchy. The current level is cleared
// without triggering levelLeave.
func (c *Context) SetLevels(root *Level) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.levels = root
	c.level = nil
}

// Levels returns the root of the level hierarchy
func (c *Context) Levels() *Level {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.levels
}

// Level returns the active level, or nil
func (c *Context) Level() *Level {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.level
}

// SetLevel makes the named level active. It triggers levelLeave for the
// previous level, switches to the level's scene if it has one, then triggers
// levelEnter. Entering the active level again does nothing.
func (c *Context) SetLevel(name string) error {
	c.mu.Lock()
	if c.levels == nil {
		c.mu.Unlock()
		return errors.NotFoundf("level %q: no levels installed", name)
	}
	next := c.levels.Find(name)
	if next == nil {
		c.mu.Unlock()
		return errors.NotFoundf("level %q", name)
	}
	prev := c.level
	if prev == next {
		c.mu.Unlock()
		return nil
	}

	sceneID := next.Scene()
	if sceneID != "" {
		s, ok := c.scenes[sceneID]
		if !ok {
			c.mu.Unlock()
			return errors.NotFoundf("scene %q for level %q", sceneID, name)
		}
		c.current = s
	}
	c.level = next
	c.mu.Unlock()

	var failures []error
	if prev != nil {
		if err := events.Trigger(c.bus, events.LevelLeave, c, events.LevelEvent{Level: prev.name, Scene: prev.Scene()}); err != nil {
			failures = append(failures, err)
		}
	}
	if err := events.Trigger(c.bus, events.LevelEnter, c, events.LevelEvent{Level: next.name, Scene: sceneID}); err != nil {
		failures = append(failures, err)
	}

	c.logger.Info().
		Str("event", "scene.level_changed").
		Str("level", next.name).
		Str("scene", sceneID).
		Msg("level changed")

	if len(failures) > 0 {
		return errors.WrapWithCode(stderrors.Join(failures...), errors.CodeInternal, "level change listeners failed")
	}
	return nil
}

// Query runs a node query against the current scene's graph. It returns
// nothing when no scene is current or the scene is not loaded yet.
func (c *Context) Query(matchers ...Matcher) []Node {
	s := c.CurrentScene()
	if s == nil {
		return nil
	}
	root := s.Root()
	if root == nil {
		return nil
	}
	return Query(root, matchers...)
}
