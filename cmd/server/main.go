package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/texgen/internal/api"
	"github.com/dgallion1/texgen/internal/config"
	"github.com/dgallion1/texgen/internal/pipeline"
	"github.com/dgallion1/texgen/internal/store"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("loading configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		log.Warn("unknown log level, using info", "log_level", cfg.LogLevel)
		level = slog.LevelInfo
	}
	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Result store: redis when configured, otherwise in-memory.
	st, err := store.Open(ctx, cfg)
	if err != nil {
		log.Error("opening result store", "error", err)
		os.Exit(1)
	}

	ln, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		log.Error("listen", "error", err)
		os.Exit(1)
	}

	log.Info("starting texgen", "port", cfg.Port, "workers", cfg.WorkerCount, "redis", cfg.RedisURL != "")
	if err := serve(ctx, ln, cfg, st, log); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

// serve runs the API on ln until ctx is done. It returns once in-flight
// requests have finished, the workers have stopped and st is closed.
func serve(ctx context.Context, ln net.Listener, cfg config.Config, st store.Store, log *slog.Logger) error {
	orch := pipeline.NewOrchestrator(cfg, st, log)
	orch.Start(context.WithoutCancel(ctx))

	httpServer := &http.Server{
		Handler:      api.NewServer(orch, log, cfg),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("shutting down...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("http shutdown", "error", err)
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = err
		}
	}

	orch.Stop()
	if err := st.Close(); err != nil {
		log.Warn("closing result store", "error", err)
	}
	return serveErr
}
