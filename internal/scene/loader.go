package scene

//go:generate mockgen -destination=mock/mock_loader.go -package=mockscene -source=loader.go

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/KirkDiggler/sceneview/internal/errors"
)

// Loader fetches and parses the asset at url into a scene graph
type Loader interface {
	Load(ctx context.Context, url string) (Node, error)
}

// LoaderFunc adapts a function to Loader
type LoaderFunc func(ctx context.Context, url string) (Node, error)

// Load calls f
func (f LoaderFunc) Load(ctx context.Context, url string) (Node, error) {
	return f(ctx, url)
}

// FileLoader resolves asset URLs against a local directory. It does not
// parse the asset: the returned graph is a single node named after the file.
type FileLoader struct {
	BaseDir string
}

// NewFileLoader creates a FileLoader rooted at baseDir
func NewFileLoader(baseDir string) *FileLoader {
	return &FileLoader{BaseDir: baseDir}
}

// Load checks that url names a readable file
func (l *FileLoader) Load(ctx context.Context, url string) (Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "load cancelled")
	}

	path := url
	if !filepath.IsAbs(path) {
		path = filepath.Join(l.BaseDir, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("asset %s", url).WithMeta("path", path)
		}
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "stat asset").WithMeta("path", path)
	}
	if info.IsDir() {
		return nil, errors.InvalidArgumentf("asset %s is a directory", url)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return NewNode(url, name), nil
}
