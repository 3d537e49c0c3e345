package config

import (
	"os"
	"strconv"

	"github.com/KirkDiggler/sceneview/internal/errors"
)

// Config holds all configuration for the application
type Config struct {
	Definition string
	Redis      RedisConfig
	Log        LogConfig
	Metrics    MetricsConfig
	Viewport   ViewportConfig
	Input      InputConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	URL string // Optional: rendering parameters are kept in memory without it
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level string
}

// MetricsConfig holds the prometheus endpoint configuration
type MetricsConfig struct {
	Addr string
}

// ViewportConfig holds the initial drawing surface
type ViewportConfig struct {
	Width      int
	Height     int
	PixelRatio float64
	FrameRate  int
}

// InputConfig holds pointer sampling limits
type InputConfig struct {
	PointerRate  float64 // mousemove samples per second
	PointerBurst int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Definition: os.Getenv("SCENEVIEW_DEFINITION"),
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Addr: getEnvOrDefault("METRICS_ADDR", ":9090"),
		},
		Viewport: ViewportConfig{
			Width:      getEnvAsIntOrDefault("VIEWPORT_WIDTH", 1280),
			Height:     getEnvAsIntOrDefault("VIEWPORT_HEIGHT", 720),
			PixelRatio: getEnvAsFloatOrDefault("PIXEL_RATIO", 1),
			FrameRate:  getEnvAsIntOrDefault("FRAME_RATE", 60),
		},
		Input: InputConfig{
			PointerRate:  getEnvAsFloatOrDefault("POINTER_RATE", 120),
			PointerBurst: getEnvAsIntOrDefault("POINTER_BURST", 8),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the values Load cannot repair
func (c *Config) Validate() error {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return errors.Validationf("viewport must be positive, got %dx%d", c.Viewport.Width, c.Viewport.Height).
			WithMeta("width", c.Viewport.Width).
			WithMeta("height", c.Viewport.Height)
	}
	if c.Viewport.PixelRatio <= 0 {
		return errors.Validationf("PIXEL_RATIO must be positive, got %v", c.Viewport.PixelRatio)
	}
	if c.Viewport.FrameRate <= 0 {
		return errors.Validationf("FRAME_RATE must be positive, got %d", c.Viewport.FrameRate)
	}
	if c.Input.PointerRate <= 0 || c.Input.PointerBurst <= 0 {
		return errors.Validation("POINTER_RATE and POINTER_BURST must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
