package render

import (
	"context"
	stderrors "errors"
	"slices"

	"github.com/KirkDiggler/sceneview/internal/errors"
)

// GL answers runtime queries against the renderer. It never changes renderer state.
type GL struct {
	renderer Renderer
}

// NewGL wraps r
func NewGL(r Renderer) *GL {
	return &GL{renderer: r}
}

// SupportedExtensions returns the extension names in sorted order
func (g *GL) SupportedExtensions(ctx context.Context) ([]string, error) {
	exts, err := g.renderer.SupportedExtensions(ctx)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "query supported extensions")
	}

	out := slices.Clone(exts)
	slices.Sort(out)
	return out, nil
}

// HasExtension reports whether the renderer exposes name
func (g *GL) HasExtension(ctx context.Context, name string) (bool, error) {
	exts, err := g.SupportedExtensions(ctx)
	if err != nil {
		return false, err
	}
	_, found := slices.BinarySearch(exts, name)
	return found, nil
}

// Parameter reads a single runtime parameter
func (g *GL) Parameter(ctx context.Context, name string) (any, error) {
	if name == "" {
		return nil, errors.InvalidArgument("parameter name is required")
	}

	v, err := g.renderer.Parameter(ctx, name)
	if err != nil {
		return nil, errors.Wrapf(err, "query parameter %s", name).WithMeta("parameter", name)
	}
	return v, nil
}

// Parameters reads several parameters. Every name is queried; the returned
// map holds the ones that succeeded and the error joins the failures.
func (g *GL) Parameters(ctx context.Context, names []string) (map[string]any, error) {
	values := make(map[string]any, len(names))

	var failures []error
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			failures = append(failures, err)
			break
		}

		v, err := g.Parameter(ctx, name)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		values[name] = v
	}

	if len(failures) > 0 {
		return values, errors.Wrap(stderrors.Join(failures...), "query parameters").
			WithMeta("failed", len(failures))
	}
	return values, nil
}
