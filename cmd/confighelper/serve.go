package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alfredjeanlab/confighelper/internal/buildinfo"
	"github.com/alfredjeanlab/confighelper/internal/config"
	"github.com/alfredjeanlab/confighelper/internal/events"
	"github.com/alfredjeanlab/confighelper/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var configDir string
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Start the config helper HTTP service",
		GroupID: "service",
		// No API client is needed to serve.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			logger := newLogger(cfg, os.Stderr)
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, logger)
		},
	}
	cmd.Flags().StringVar(&configDir, "configdir", "", "directory holding "+config.FileName+" (default $CONFIG_DIR)")
	return cmd
}

// newLogger builds the process logger from LOG_LEVEL and LOG_FORMAT. An
// unknown level falls back to info with a warning.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level, levelErr := cfg.SlogLevel()
	hopts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(w, hopts)
	} else {
		h = slog.NewTextHandler(w, hopts)
	}
	logger := slog.New(h)
	if levelErr != nil {
		logger.Warn("invalid LOG_LEVEL, using info", "log_level", cfg.LogLevel)
	}
	return logger
}

// runServe serves until ctx is cancelled, then shuts down within the
// configured shutdown timeout.
func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if _, err := os.Stat(cfg.StaticDir); err != nil {
		logger.Warn("static directory unavailable, non-API paths will return 404", "static_dir", cfg.StaticDir, "err", err)
	}

	// Create event publisher.
	var publisher events.Publisher
	if cfg.NATSURL != "" {
		pub, err := events.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			return err
		}
		publisher = pub
		logger.Info("events enabled", "nats_url", cfg.NATSURL)
	} else {
		publisher = &events.NoopPublisher{}
		logger.Debug("events disabled (NATS_URL not set)")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	srv := server.NewServer(server.Options{
		StaticDir:       cfg.StaticDir,
		MaxRequestBytes: cfg.MaxRequestBytes,
		MaxYAMLBytes:    cfg.MaxYAMLBytes,
		Publisher:       publisher,
		Logger:          logger,
		Registry:        reg,
	})

	lis, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return err
	}
	httpServer := &http.Server{
		Handler:        srv.NewHTTPHandler(),
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: 1 << 20,
		ErrorLog:       slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 2)
	go func() {
		if err := httpServer.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	info := buildinfo.Get()
	logger.Info("starting config helper",
		"version", info.Version,
		"commit", info.Commit,
		"date", info.Date,
		"port", cfg.Port,
		"static_dir", cfg.StaticDir,
	)

	stopGRPC := func() {}
	if cfg.GRPCAddr != "" {
		grpcLis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			_ = httpServer.Close()
			return err
		}
		grpcServer, health := server.NewGRPCServer(logger)
		go func() {
			logger.Info("gRPC health server listening", "addr", cfg.GRPCAddr)
			if err := grpcServer.Serve(grpcLis); err != nil {
				errCh <- fmt.Errorf("grpc server: %w", err)
			}
		}()
		stopGRPC = func() {
			health.Shutdown()
			grpcServer.GracefulStop()
			logger.Info("gRPC server stopped")
		}
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case runErr = <-errCh:
		logger.Error("server failed, shutting down", "err", runErr)
	}

	stopGRPC()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "err", err)
		if runErr == nil {
			runErr = err
		}
	}
	logger.Info("shutdown complete")
	return runErr
}
