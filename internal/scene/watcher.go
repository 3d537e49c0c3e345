package scene

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/KirkDiggler/sceneview/internal/errors"
	"github.com/KirkDiggler/sceneview/internal/events"
	svlog "github.com/KirkDiggler/sceneview/internal/log"
)

// DefinitionChangeEvent carries a re-read definition file
type DefinitionChangeEvent struct {
	Path       string
	Definition *Definition
}

// DefinitionChange is triggered on a Watcher after its file changed and
// parsed successfully
var DefinitionChange = events.NewChannel[DefinitionChangeEvent]("definitionChange")

const defaultDebounce = 250 * time.Millisecond

// WatcherConfig configures a Watcher
type WatcherConfig struct {
	Path     string
	Bus      *events.Bus
	Debounce time.Duration
	Logger   *zerolog.Logger
}

// Watcher re-reads a definition file when it changes. Rapid successive
// writes are collapsed into one reload. A file that fails to parse is logged
// and the last good definition is kept.
type Watcher struct {
	path     string
	bus      *events.Bus
	debounce time.Duration
	logger   zerolog.Logger

	mu      sync.RWMutex
	current *Definition

	watcher *fsnotify.Watcher
	stop    context.CancelFunc
	done    chan struct{}
}

// NewWatcher creates a watcher and reads the file once
func NewWatcher(cfg *WatcherConfig) (*Watcher, error) {
	if cfg == nil || cfg.Path == "" {
		return nil, errors.InvalidArgument("definition path is required")
	}
	if cfg.Bus == nil {
		return nil, errors.InvalidArgument("event bus is required")
	}

	path, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "resolve definition path")
	}

	def, err := LoadDefinitionFile(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     path,
		bus:      cfg.Bus,
		debounce: cfg.Debounce,
		current:  def,
	}
	if w.debounce <= 0 {
		w.debounce = defaultDebounce
	}
	if cfg.Logger != nil {
		w.logger = *cfg.Logger
	} else {
		w.logger = svlog.WithComponent("scene.watcher")
	}

	return w, nil
}

// Path returns the absolute path being watched
func (w *Watcher) Path() string { return w.path }

// Definition returns the last definition that parsed successfully
func (w *Watcher) Definition() *Definition {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Start begins watching. The directory is watched rather than the file so
// editors that replace the file by rename are seen too. The watch ends when
// ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	if w.watcher != nil {
		return errors.New(errors.CodeAlreadyExists, "watcher already started")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "create watcher")
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		_ = fw.Close()
		return errors.WrapWithCode(err, errors.CodeUnavailable, "watch definition directory").WithMeta("path", w.path)
	}

	ctx, cancel := context.WithCancel(ctx)
	w.watcher = fw
	w.stop = cancel
	w.done = make(chan struct{})

	w.logger.Info().
		Str("event", "scene.watcher_started").
		Str("path", w.path).
		Msg("watching scene definition")

	go w.loop(ctx)
	return nil
}

// Stop ends the watch and waits for the watch goroutine to exit
func (w *Watcher) Stop() {
	if w.stop == nil {
		return
	}
	w.stop()
	<-w.done
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)
	defer func() { _ = w.watcher.Close() }()

	debounce := time.NewTimer(w.debounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Str("event", "scene.watcher_stopped").Msg("scene definition watcher stopped")
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			w.logger.Debug().
				Str("event", "scene.definition_touched").
				Str("op", event.Op.String()).
				Msg("scene definition changed on disk")
			debounce.Reset(w.debounce)

		case <-debounce.C:
			if err := w.Reload(); err != nil {
				w.logger.Error().
					Err(err).
					Str("event", "scene.reload_failed").
					Msg("scene definition reload failed, keeping last good definition")
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error().
				Err(err).
				Str("event", "scene.watcher_error").
				Msg("scene definition watcher error")
		}
	}
}

// Reload re-reads the file now and triggers DefinitionChange on success.
// Subscriber failures are logged by the bus and returned.
func (w *Watcher) Reload() error {
	def, err := LoadDefinitionFile(w.path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.current = def
	w.mu.Unlock()

	w.logger.Info().
		Str("event", "scene.definition_reloaded").
		Int("scenes", len(def.Scenes)).
		Msg("scene definition reloaded")

	return events.Trigger(w.bus, DefinitionChange, w, DefinitionChangeEvent{Path: w.path, Definition: def})
}
