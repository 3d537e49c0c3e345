// Package viewer wires the event bus, scenes, camera, input and render
// pipeline into a running 3D viewer.
package viewer

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/KirkDiggler/sceneview/internal/camera"
	"github.com/KirkDiggler/sceneview/internal/errors"
	"github.com/KirkDiggler/sceneview/internal/events"
	"github.com/KirkDiggler/sceneview/internal/input"
	svlog "github.com/KirkDiggler/sceneview/internal/log"
	"github.com/KirkDiggler/sceneview/internal/render"
	"github.com/KirkDiggler/sceneview/internal/rendering"
	"github.com/KirkDiggler/sceneview/internal/repositories/parameters"
	"github.com/KirkDiggler/sceneview/internal/scene"
)

const tracerName = "github.com/KirkDiggler/sceneview/internal/viewer"

const (
	defaultWidth  = 1280
	defaultHeight = 720
	defaultFPS    = 60
)

// Config holds everything New needs. Definition and Loader are required.
type Config struct {
	Definition *scene.Definition
	Loader     scene.Loader

	// Optional collaborators. Renderer and Composer default to one shared
	// render.Headless; Parameters defaults to an in-memory repository.
	Bus        *events.Bus
	Renderer   render.Renderer
	Composer   render.Composer
	Picker     Picker
	Parameters parameters.Repository
	Watcher    *scene.Watcher

	Width      int
	Height     int
	PixelRatio float32

	PointerRate     float64
	PointerBurst    int
	LoadConcurrency int

	Logger *zerolog.Logger
	Tracer trace.Tracer
}

// App is a viewer instance. Input events are triggered with the App as target.
type App struct {
	bus      *events.Bus
	scenes   *scene.Context
	camera   *camera.Camera
	pipeline *render.Pipeline
	gl       *render.GL
	input    *input.Dispatcher[App]

	picker  Picker
	params  parameters.Repository
	watcher *scene.Watcher

	// paramMu serialises changes to scene rendering parameters
	paramMu sync.Mutex

	extMu      sync.Mutex
	extensions map[string]any

	subs      []events.Subscription
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	logger zerolog.Logger
	tracer trace.Tracer
}

// New loads cfg.Definition and builds the viewer around its current scene.
// Scenes that fail to load are logged and left unready; any other failure
// aborts.
func New(ctx context.Context, cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("viewer config is required")
	}
	if cfg.Definition == nil {
		return nil, errors.InvalidArgument("scene definition is required")
	}
	if cfg.Loader == nil {
		return nil, errors.InvalidArgument("loader is required")
	}
	if (cfg.Renderer == nil) != (cfg.Composer == nil) {
		return nil, errors.InvalidArgument("renderer and composer must be set together")
	}

	a := &App{
		bus:        cfg.Bus,
		picker:     cfg.Picker,
		params:     cfg.Parameters,
		watcher:    cfg.Watcher,
		extensions: make(map[string]any),
		tracer:     cfg.Tracer,
	}
	if a.bus == nil {
		a.bus = events.NewBus(nil)
	}
	if a.params == nil {
		a.params = parameters.NewInMemoryRepository()
	}
	if a.tracer == nil {
		a.tracer = otel.Tracer(tracerName)
	}
	if cfg.Logger != nil {
		a.logger = *cfg.Logger
	} else {
		a.logger = svlog.WithComponent("viewer")
	}

	renderer, composer := cfg.Renderer, cfg.Composer
	if renderer == nil {
		headless := render.NewHeadless(nil)
		renderer, composer = headless, headless
	}

	width, height := cfg.Width, cfg.Height
	if width == 0 && height == 0 {
		width, height = defaultWidth, defaultHeight
	}

	ctx, span := a.tracer.Start(ctx, "viewer.New",
		trace.WithAttributes(attribute.String("scene.current", cfg.Definition.Scene)))
	defer span.End()

	scenes, err := scene.NewContext(&scene.ContextConfig{
		Bus:             a.bus,
		Loader:          cfg.Loader,
		LoadConcurrency: cfg.LoadConcurrency,
		Logger:          cfg.Logger,
		Tracer:          a.tracer,
	})
	if err != nil {
		return nil, err
	}
	a.scenes = scenes

	if err := scenes.LoadDefinition(ctx, cfg.Definition); err != nil {
		if !errors.Is(err, errors.CodeUnavailable) {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		span.RecordError(err)
		a.logger.Warn().
			Err(err).
			Str("event", "viewer.scenes_degraded").
			Msg("some scenes failed to load")
	}

	if err := a.restoreParameters(ctx, scenes.Scenes()); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	a.camera, err = camera.New(&camera.Config{Bus: a.bus, Width: width, Height: height, Logger: cfg.Logger})
	if err != nil {
		return nil, err
	}
	a.camera.Fit(mgl32.Vec3{})

	current := scenes.CurrentScene()
	a.pipeline, err = render.NewPipeline(&render.PipelineConfig{
		Renderer:   renderer,
		Composer:   composer,
		Scene:      current.ID(),
		Width:      width,
		Height:     height,
		PixelRatio: cfg.PixelRatio,
		Parameter:  current.RenderingParameter(),
		Logger:     cfg.Logger,
	})
	if err != nil {
		a.camera.Close()
		return nil, err
	}
	a.applyCamera(current.RenderingParameter())
	a.gl = render.NewGL(renderer)

	a.input, err = input.NewDispatcher(&input.Config{
		Bus:          a.bus,
		Width:        width,
		Height:       height,
		PointerRate:  cfg.PointerRate,
		PointerBurst: cfg.PointerBurst,
		Logger:       cfg.Logger,
	}, a)
	if err != nil {
		a.camera.Close()
		return nil, err
	}

	a.ctx, a.cancel = context.WithCancel(context.WithoutCancel(ctx))
	if err := a.subscribe(); err != nil {
		a.Close()
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	a.logger.Info().
		Str("event", "viewer.started").
		Str("scene", current.ID()).
		Int("width", width).
		Int("height", height).
		Msg("viewer started")

	return a, nil
}

func (a *App) subscribe() error {
	var (
		sub events.Subscription
		err error
	)

	if sub, err = events.On(a.bus, events.MouseMove, a, a.onMouseMove); err != nil {
		return err
	}
	a.subs = append(a.subs, sub)

	if sub, err = events.On(a.bus, events.Resize, a, a.onResize); err != nil {
		return err
	}
	a.subs = append(a.subs, sub)

	if sub, err = events.On(a.bus, events.LevelEnter, a.scenes, a.onLevelEnter); err != nil {
		return err
	}
	a.subs = append(a.subs, sub)

	if a.watcher != nil {
		if sub, err = events.On(a.bus, scene.DefinitionChange, a.watcher, a.onDefinitionChange); err != nil {
			return err
		}
		a.subs = append(a.subs, sub)
	}
	return nil
}

// Close unsubscribes the app's handlers and stops Run. It is safe to call more than once.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		if a.cancel != nil {
			a.cancel()
		}
		for _, sub := range a.subs {
			a.bus.Off(sub)
		}
		a.subs = nil
		if a.camera != nil {
			a.camera.Close()
		}
		a.logger.Info().Str("event", "viewer.closed").Msg("viewer closed")
	})
}

func (a *App) Bus() *events.Bus                  { return a.bus }
func (a *App) Context() *scene.Context           { return a.scenes }
func (a *App) Camera() *camera.Camera            { return a.camera }
func (a *App) Pipeline() *render.Pipeline        { return a.pipeline }
func (a *App) Input() *input.Dispatcher[App]     { return a.input }
func (a *App) Parameters() parameters.Repository { return a.params }

// GL returns the runtime query interface of the renderer
func (a *App) GL() *render.GL { return a.gl }

// Load adds scenes to the context. Stored parameter overrides are applied to
// them, and the pipeline is refreshed when the current scene was replaced.
func (a *App) Load(ctx context.Context, configs map[string]*scene.SceneConfig) error {
	a.paramMu.Lock()
	defer a.paramMu.Unlock()

	loadErr := a.scenes.Load(ctx, configs)

	loaded := make([]*scene.Scene, 0, len(configs))
	for id := range configs {
		if s, err := a.scenes.Scene(id); err == nil {
			loaded = append(loaded, s)
		}
	}
	if err := a.restoreParameters(ctx, loaded); err != nil {
		return err
	}

	if current := a.scenes.CurrentScene(); current != nil {
		if _, ok := configs[current.ID()]; ok {
			if err := a.applyScene(current); err != nil {
				return err
			}
		}
	}
	return loadErr
}

// Query runs a node query against the current scene
func (a *App) Query(matchers ...scene.Matcher) []scene.Node {
	return a.scenes.Query(matchers...)
}

// SetCurrentRenderingParameter changes one rendering parameter of the current
// scene. The full parameter set is saved to the repository before it takes
// effect, so a failed save changes nothing.
func (a *App) SetCurrentRenderingParameter(ctx context.Context, key string, value any) error {
	a.paramMu.Lock()
	defer a.paramMu.Unlock()

	s := a.scenes.CurrentScene()
	if s == nil {
		return errors.NotFound("no current scene")
	}

	next := s.RenderingParameter()
	if err := next.Set(key, value); err != nil {
		return err
	}
	if err := a.params.Save(ctx, s.ID(), next); err != nil {
		return errors.Wrapf(err, "save rendering parameters for %s", s.ID())
	}
	if err := s.ReplaceRenderingParameter(next); err != nil {
		return err
	}

	a.logger.Info().
		Str("event", "viewer.parameter_changed").
		Str("scene", s.ID()).
		Str("key", key).
		Interface("value", value).
		Msg("rendering parameter changed")

	return a.applyScene(s)
}

// GetCurrentRenderingParameter reads one rendering parameter of the current scene
func (a *App) GetCurrentRenderingParameter(key string) (any, error) {
	s := a.scenes.CurrentScene()
	if s == nil {
		return nil, errors.NotFound("no current scene")
	}
	return s.GetRenderingParameter(key)
}

// Resize changes the viewport. Handlers run in order: the pipeline, then the camera.
func (a *App) Resize(width, height int) error {
	return a.input.Resize(width, height)
}

// RenderFrame applies the orbit limits and renders one frame
func (a *App) RenderFrame(ctx context.Context) error {
	a.camera.Update()
	return a.pipeline.Render(ctx, a.camera.ViewMatrix(), a.camera.ProjectionMatrix())
}

// Run renders at fps frames per second until ctx is cancelled or the app is
// closed. A render failure stops the loop and is returned.
func (a *App) Run(ctx context.Context, fps int) error {
	if fps <= 0 {
		fps = defaultFPS
	}

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	a.logger.Info().
		Str("event", "viewer.run_started").
		Int("fps", fps).
		Msg("render loop started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-a.ctx.Done():
			return nil
		case <-ticker.C:
			if err := a.RenderFrame(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				a.logger.Error().
					Err(err).
					Str("event", "viewer.render_failed").
					Msg("render loop stopped")
				return err
			}
		}
	}
}

// Reload applies a new definition: parameters from the definition, then
// stored overrides, are re-applied to known scenes, new scenes are loaded and
// the level tree is replaced.
func (a *App) Reload(ctx context.Context, def *scene.Definition) error {
	if def == nil {
		return errors.InvalidArgument("scene definition is nil")
	}
	if err := def.Validate(); err != nil {
		return err
	}

	ctx, span := a.tracer.Start(ctx, "viewer.Reload",
		trace.WithAttributes(attribute.Int("scene.count", len(def.Scenes))))
	defer span.End()

	a.paramMu.Lock()
	defer a.paramMu.Unlock()

	var failures []error
	fresh := make(map[string]*scene.SceneConfig)
	for _, id := range def.SceneIDs() {
		cfg := def.Scenes[id]
		s, err := a.scenes.Scene(id)
		if errors.IsNotFound(err) {
			fresh[id] = cfg
			continue
		}

		p, err := cfg.RenderingParameter()
		if err == nil {
			err = s.ReplaceRenderingParameter(p)
		}
		if err != nil {
			failures = append(failures, errors.Wrapf(err, "scene %s", id))
		}
	}

	if len(fresh) > 0 {
		if err := a.scenes.Load(ctx, fresh); err != nil {
			failures = append(failures, err)
		}
	}

	if err := a.restoreParameters(ctx, a.scenes.Scenes()); err != nil {
		failures = append(failures, err)
	}

	if def.Levels != nil {
		levels, err := scene.NewLevelTree(def.Levels, func(id string) bool {
			_, ok := def.Scenes[id]
			return ok
		})
		if err != nil {
			failures = append(failures, err)
		} else {
			a.scenes.SetLevels(levels)
		}
	}

	if current := a.scenes.CurrentScene(); current != nil {
		if err := a.applyScene(current); err != nil {
			failures = append(failures, err)
		}
	}

	a.logger.Info().
		Str("event", "viewer.reloaded").
		Int("scenes", len(def.Scenes)).
		Int("new_scenes", len(fresh)).
		Int("failures", len(failures)).
		Msg("definition reloaded")

	if len(failures) > 0 {
		err := stderrors.Join(failures...)
		span.RecordError(err)
		span.SetStatus(codes.Error, "reload failed")
		return errors.Wrap(err, "reload definition")
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

// restoreParameters replaces the parameters of the given scenes with stored
// overrides. An invalid stored set is logged and skipped.
func (a *App) restoreParameters(ctx context.Context, scenes []*scene.Scene) error {
	if len(scenes) == 0 {
		return nil
	}

	stored, err := a.params.LoadAll(ctx)
	if err != nil {
		return errors.Wrap(err, "load stored rendering parameters")
	}

	for _, s := range scenes {
		p, ok := stored[s.ID()]
		if !ok {
			continue
		}
		if err := s.ReplaceRenderingParameter(p); err != nil {
			a.logger.Warn().
				Err(err).
				Str("event", "viewer.stored_parameters_rejected").
				Str("scene", s.ID()).
				Msg("ignoring invalid stored rendering parameters")
		}
	}
	return nil
}

// applyScene points the pipeline and camera at s
func (a *App) applyScene(s *scene.Scene) error {
	p := s.RenderingParameter()

	a.pipeline.SetScene(s.ID())
	if err := a.pipeline.ApplyParameter(p); err != nil {
		return err
	}
	a.applyCamera(p)
	return nil
}

// applyCamera sets the field of view when the scene overrides it
func (a *App) applyCamera(p *rendering.Parameter) {
	fov := camera.DefaultFOV
	if p.SceneCameraView != rendering.Defaults().SceneCameraView {
		fov = float32(p.SceneCameraView)
	}
	if err := a.camera.SetFOV(fov); err != nil {
		a.logger.Warn().
			Err(err).
			Str("event", "viewer.fov_rejected").
			Float32("fov", fov).
			Msg("keeping previous field of view")
	}
}
