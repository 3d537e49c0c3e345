package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/sceneview/internal/config"
	"github.com/KirkDiggler/sceneview/internal/events"
	svlog "github.com/KirkDiggler/sceneview/internal/log"
	"github.com/KirkDiggler/sceneview/internal/render"
	"github.com/KirkDiggler/sceneview/internal/repositories/parameters"
	"github.com/KirkDiggler/sceneview/internal/scene"
	"github.com/KirkDiggler/sceneview/internal/viewer"
)

// NewRunCmd creates the "run" subcommand
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <definition>",
		Short: "Run the headless viewer on a definition",
		Long: "Load a scene definition and render it headlessly. With --frames the command " +
			"renders that many frames and exits; otherwise it runs until interrupted, " +
			"reloading the definition when the file changes.",
		Args: cobra.ExactArgs(1),
		RunE: runRun,
	}

	cmd.Flags().Int("frames", 0, "Render this many frames and exit (0 runs until interrupted)")
	cmd.Flags().Int("fps", 0, "Frames per second (default: $FRAME_RATE or 60)")
	cmd.Flags().Int("width", 0, "Viewport width (default: $VIEWPORT_WIDTH or 1280)")
	cmd.Flags().Int("height", 0, "Viewport height (default: $VIEWPORT_HEIGHT or 720)")
	cmd.Flags().String("metrics-addr", "", "Prometheus listen address (default: $METRICS_ADDR or :9090, \"off\" disables)")
	cmd.Flags().Bool("watch", true, "Reload the definition when the file changes")

	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	frames, _ := cmd.Flags().GetInt("frames")
	watch, _ := cmd.Flags().GetBool("watch")
	out := cmd.OutOrStdout()
	logger := svlog.WithComponent("cli")

	cfg, err := runConfig(cmd, args[0])
	if err != nil {
		return exitError(err, "load config")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bus := events.NewBus(nil)

	watcher, err := scene.NewWatcher(&scene.WatcherConfig{Path: cfg.Definition, Bus: bus})
	if err != nil {
		return exitError(err, "read definition %s", cfg.Definition)
	}

	repo, closeRepo, err := openRepository(cfg)
	if err != nil {
		return exitError(err, "open parameter store")
	}
	defer closeRepo()

	headless := render.NewHeadless(nil)
	app, err := viewer.New(ctx, &viewer.Config{
		Definition:   watcher.Definition(),
		Loader:       scene.NewFileLoader(filepath.Dir(watcher.Path())),
		Bus:          bus,
		Renderer:     headless,
		Composer:     headless,
		Parameters:   repo,
		Watcher:      watcher,
		Width:        cfg.Viewport.Width,
		Height:       cfg.Viewport.Height,
		PixelRatio:   float32(cfg.Viewport.PixelRatio),
		PointerRate:  cfg.Input.PointerRate,
		PointerBurst: cfg.Input.PointerBurst,
	})
	if err != nil {
		return exitError(err, "start viewer")
	}
	defer app.Close()

	if frames > 0 {
		for range frames {
			if err := app.RenderFrame(ctx); err != nil {
				return exitError(err, "render")
			}
		}
		fmt.Fprintf(out, "rendered %d frames of scene %s\n", headless.FramesRendered(), app.Pipeline().Scene())
		return nil
	}

	if cfg.Metrics.Addr != "" && cfg.Metrics.Addr != "off" {
		shutdown := serveMetrics(cfg.Metrics.Addr, logger)
		defer shutdown()
	}

	if watch {
		if err := watcher.Start(ctx); err != nil {
			return exitError(err, "watch definition")
		}
		defer watcher.Stop()
	}

	if err := app.Run(ctx, cfg.Viewport.FrameRate); err != nil {
		return exitError(err, "render loop")
	}
	fmt.Fprintf(out, "rendered %d frames\n", headless.FramesRendered())
	return nil
}

// runConfig loads the environment config and applies the command's flags
func runConfig(cmd *cobra.Command, definition string) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg.Definition = definition

	if v, _ := cmd.Flags().GetInt("width"); v > 0 {
		cfg.Viewport.Width = v
	}
	if v, _ := cmd.Flags().GetInt("height"); v > 0 {
		cfg.Viewport.Height = v
	}
	if v, _ := cmd.Flags().GetInt("fps"); v > 0 {
		cfg.Viewport.FrameRate = v
	}
	if v, _ := cmd.Flags().GetString("metrics-addr"); v != "" {
		cfg.Metrics.Addr = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openRepository returns the Redis store when REDIS_URL is set, else an in-memory one
func openRepository(cfg *config.Config) (parameters.Repository, func(), error) {
	if cfg.Redis.URL == "" {
		return parameters.NewInMemoryRepository(), func() {}, nil
	}

	repo, client, err := parameters.NewRedisFromURL(cfg.Redis.URL)
	if err != nil {
		return nil, nil, err
	}
	return repo, func() { closeRedis(client) }, nil
}

func closeRedis(client redis.UniversalClient) {
	if err := client.Close(); err != nil {
		logger := svlog.WithComponent("cli")
		logger.Warn().Err(err).Str("event", "cli.redis_close_failed").Msg("closing redis client")
	}
}

// serveMetrics exposes /metrics on addr and returns a shutdown func
func serveMetrics(addr string, logger zerolog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().
			Str("event", "cli.metrics_listening").
			Str("addr", addr).
			Msg("serving metrics")
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			logger.Error().
				Err(err).
				Str("event", "cli.metrics_failed").
				Msg("metrics server stopped")
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
