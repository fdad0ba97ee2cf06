package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cvlens/cvlens/internal/config"
	"github.com/cvlens/cvlens/internal/core/analysis"
	"github.com/cvlens/cvlens/internal/core/analyze"
	"github.com/cvlens/cvlens/internal/core/cleanup"
	"github.com/cvlens/cvlens/internal/core/event"
	"github.com/cvlens/cvlens/internal/core/extract"
	"github.com/cvlens/cvlens/internal/core/storage"
	"github.com/cvlens/cvlens/internal/server/api"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Run wires the analysis pipeline and serves the HTTP API until the
// context is canceled or a signal arrives.
func Run(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	log.Debug().Str("level", cfg.Logging.Level).Msg("log level configured")

	uploads, err := storage.NewLocal(cfg.Uploads.Dir)
	if err != nil {
		return fmt.Errorf("upload dir: %w", err)
	}
	log.Info().Str("dir", uploads.Dir()).Msg("upload directory ready")

	stepDelay := parseDurationOr(cfg.Pipeline.StepDelay, time.Second)
	retention := parseDurationOr(cfg.Uploads.Retention, time.Hour)
	sweepEvery := parseDurationOr(cfg.Uploads.SweepInterval, 15*time.Minute)

	bus := event.NewBus()
	logAnalysisEvents(bus)

	registry := extract.NewRegistry(cfg.Pipeline.MinTextChars)
	registry.Register("pdf", extract.PDF{})
	registry.Register("docx", extract.DOCX{})

	store := analysis.NewStore()
	runner := analysis.NewRunner(store, registry, analyze.Template{}, bus, stepDelay)
	svc := analysis.NewService(ctx, store, runner, bus)

	go cleanup.Run(ctx, uploads, sweepEvery, retention)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	api.SetupRouter(e, api.RouterConfig{
		Service:        svc,
		Uploads:        uploads,
		Registry:       registry,
		MaxUploadBytes: int64(cfg.Uploads.MaxFileMB) << 20,
		CORSOrigins:    cfg.Server.CORSOrigins,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

// logAnalysisEvents mirrors job lifecycle transitions into the log.
func logAnalysisEvents(bus event.Bus) {
	bus.Subscribe(event.EventAnalysisCreated, func(_ context.Context, e event.Event) error {
		log.Info().Str("analysis_id", e.Payload.AnalysisID).Str("source", e.Payload.SourceName).Msg("analysis submitted")
		return nil
	})

	bus.Subscribe(event.EventAnalysisCompleted, func(_ context.Context, e event.Event) error {
		log.Info().Str("analysis_id", e.Payload.AnalysisID).Float64("score", e.Payload.Score).Msg("analysis completed")
		return nil
	})

	bus.Subscribe(event.EventAnalysisFailed, func(_ context.Context, e event.Event) error {
		log.Warn().Str("analysis_id", e.Payload.AnalysisID).Str("error", e.Payload.Error).Msg("analysis failed")
		return nil
	})
}
