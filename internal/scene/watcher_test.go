package scene_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/KirkDiggler/sceneview/internal/errors"
	"github.com/KirkDiggler/sceneview/internal/events"
	"github.com/KirkDiggler/sceneview/internal/scene"
	"github.com/KirkDiggler/sceneview/internal/testutils"
)

func newWatcher(t *testing.T, bus *events.Bus) (*scene.Watcher, string) {
	t.Helper()
	path := testutils.WriteDefinition(t, t.TempDir(), testutils.PlantDefinition)

	w, err := scene.NewWatcher(&scene.WatcherConfig{
		Path:     path,
		Bus:      bus,
		Debounce: 20 * time.Millisecond,
	})
	require.NoError(t, err)
	return w, path
}

func TestWatcher_TriggersDefinitionChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := events.NewBus(nil)
	w, path := newWatcher(t, bus)
	assert.Equal(t, "plant", w.Definition().Scene)

	changes := make(chan scene.DefinitionChangeEvent, 4)
	_, err := events.On(bus, scene.DefinitionChange, w, func(e scene.DefinitionChangeEvent) error {
		changes <- e
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	updated := strings.Replace(testutils.PlantDefinition, "scene: plant\nscenes:", "scene: hall\nscenes:", 1)
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	select {
	case e := <-changes:
		assert.Equal(t, w.Path(), e.Path)
		assert.Equal(t, "hall", e.Definition.Scene)
	case <-time.After(5 * time.Second):
		t.Fatal("no definitionChange event after rewriting the file")
	}
	assert.Equal(t, "hall", w.Definition().Scene)
}

func TestWatcher_KeepsLastGoodDefinition(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := events.NewBus(nil)
	w, path := newWatcher(t, bus)

	fired := make(chan struct{}, 1)
	_, err := events.On(bus, scene.DefinitionChange, w, func(scene.DefinitionChangeEvent) error {
		fired <- struct{}{}
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("scene: ["), 0o644))

	select {
	case <-fired:
		t.Fatal("a broken definition must not be announced")
	case <-time.After(300 * time.Millisecond):
	}
	assert.Equal(t, "plant", w.Definition().Scene)
}

func TestWatcher_StopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, _ := newWatcher(t, events.NewBus(nil))

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	cancel()
	w.Stop()

	assert.True(t, errors.Is(w.Start(context.Background()), errors.CodeAlreadyExists))
}

func TestWatcher_Reload(t *testing.T) {
	bus := events.NewBus(nil)
	w, _ := newWatcher(t, bus)

	calls := 0
	_, err := events.On(bus, scene.DefinitionChange, w, func(scene.DefinitionChangeEvent) error {
		calls++
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, w.Reload())
	assert.Equal(t, 1, calls)
}

func TestNewWatcher_Errors(t *testing.T) {
	_, err := scene.NewWatcher(nil)
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = scene.NewWatcher(&scene.WatcherConfig{Path: "scene.yaml"})
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = scene.NewWatcher(&scene.WatcherConfig{Path: t.TempDir() + "/missing.yaml", Bus: events.NewBus(nil)})
	assert.True(t, errors.IsNotFound(err))
}
