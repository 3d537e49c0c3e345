package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/sceneview/internal/config"
	"github.com/KirkDiggler/sceneview/internal/errors"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"SCENEVIEW_DEFINITION", "REDIS_URL", "LOG_LEVEL", "METRICS_ADDR",
		"VIEWPORT_WIDTH", "VIEWPORT_HEIGHT", "PIXEL_RATIO", "FRAME_RATE",
		"POINTER_RATE", "POINTER_BURST",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.Definition)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
	assert.Equal(t, 1280, cfg.Viewport.Width)
	assert.Equal(t, 720, cfg.Viewport.Height)
	assert.Equal(t, 1.0, cfg.Viewport.PixelRatio)
	assert.Equal(t, 60, cfg.Viewport.FrameRate)
	assert.Equal(t, 120.0, cfg.Input.PointerRate)
	assert.Equal(t, 8, cfg.Input.PointerBurst)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("SCENEVIEW_DEFINITION", "plant.yaml")
	t.Setenv("REDIS_URL", "redis://localhost:6379/2")
	t.Setenv("VIEWPORT_WIDTH", "800")
	t.Setenv("VIEWPORT_HEIGHT", "600")
	t.Setenv("PIXEL_RATIO", "2")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "plant.yaml", cfg.Definition)
	assert.Equal(t, "redis://localhost:6379/2", cfg.Redis.URL)
	assert.Equal(t, 800, cfg.Viewport.Width)
	assert.Equal(t, 600, cfg.Viewport.Height)
	assert.Equal(t, 2.0, cfg.Viewport.PixelRatio)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("VIEWPORT_WIDTH", "wide")
	t.Setenv("POINTER_RATE", "fast")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 1280, cfg.Viewport.Width)
	assert.Equal(t, 120.0, cfg.Input.PointerRate)
}

func TestLoad_RejectsDegenerateViewport(t *testing.T) {
	clearEnv(t)
	t.Setenv("VIEWPORT_HEIGHT", "0")

	cfg, err := config.Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, 0, errors.GetMeta(err)["height"])
}

func TestValidate_PointerLimits(t *testing.T) {
	clearEnv(t)
	t.Setenv("POINTER_BURST", "-1")

	_, err := config.Load()
	assert.True(t, errors.IsValidation(err))
}
