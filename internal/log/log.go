// Package log configures the process-wide zerolog logger and hands out
// per-component child loggers.
package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logger options. Zero values fall back to LOG_LEVEL, stdout
// and the "sceneview" service name.
type Config struct {
	Level   string
	Output  io.Writer
	Service string
}

var (
	once sync.Once
	base zerolog.Logger
)

// Configure initialises the base logger. Only the first call has any effect.
func Configure(cfg Config) {
	once.Do(func() {
		level := zerolog.InfoLevel
		raw := cfg.Level
		if raw == "" {
			raw = os.Getenv("LOG_LEVEL")
		}
		if raw != "" {
			if parsed, err := zerolog.ParseLevel(raw); err == nil {
				level = parsed
			}
		}
		zerolog.SetGlobalLevel(level)
		zerolog.TimeFieldFormat = time.RFC3339

		out := cfg.Output
		if out == nil {
			out = os.Stdout
		}

		service := cfg.Service
		if service == "" {
			service = "sceneview"
		}

		base = zerolog.New(out).With().
			Timestamp().
			Str("service", service).
			Logger()
	})
}

// Base returns the configured base logger
func Base() zerolog.Logger {
	Configure(Config{})
	return base
}

// WithComponent returns a child logger tagged with component
func WithComponent(component string) zerolog.Logger {
	return Base().With().Str("component", component).Logger()
}
