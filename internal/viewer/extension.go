package viewer

import (
	"context"
	"maps"
	"slices"

	"github.com/KirkDiggler/sceneview/internal/errors"
)

// Extension adds behaviour to an App. Init runs once per name; its result
// is kept and returned by App.Extension.
type Extension interface {
	Init(ctx context.Context, app *App) (any, error)
}

// ExtensionFunc adapts a function to Extension
type ExtensionFunc func(ctx context.Context, app *App) (any, error)

// Init calls f
func (f ExtensionFunc) Init(ctx context.Context, app *App) (any, error) {
	return f(ctx, app)
}

// Use initialises the extensions not yet known to the app, in name order.
// It stops at the first failure; extensions initialised before it stay registered.
func (a *App) Use(ctx context.Context, extensions map[string]Extension) error {
	for _, name := range slices.Sorted(maps.Keys(extensions)) {
		ext := extensions[name]
		if ext == nil {
			return errors.InvalidArgumentf("extension %q is nil", name)
		}

		a.extMu.Lock()
		_, done := a.extensions[name]
		a.extMu.Unlock()
		if done {
			continue
		}

		// Init runs unlocked so an extension can call back into the app
		result, err := ext.Init(ctx, a)
		if err != nil {
			return errors.Wrapf(err, "init extension %s", name).WithMeta("extension", name)
		}

		a.extMu.Lock()
		if _, raced := a.extensions[name]; !raced {
			a.extensions[name] = result
		}
		a.extMu.Unlock()

		a.logger.Info().
			Str("event", "viewer.extension_initialized").
			Str("extension", name).
			Msg("extension initialized")
	}
	return nil
}

// Extension returns what the named extension's Init returned
func (a *App) Extension(name string) (any, bool) {
	a.extMu.Lock()
	defer a.extMu.Unlock()

	v, ok := a.extensions[name]
	return v, ok
}
