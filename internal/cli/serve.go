package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/nmr-relax/rotkit/internal/interpreter"
	"github.com/nmr-relax/rotkit/internal/model"
	"github.com/nmr-relax/rotkit/internal/port"
	"github.com/nmr-relax/rotkit/internal/server"
	"github.com/nmr-relax/rotkit/internal/telemetry"
)

// shutdownTimeout bounds the graceful shutdown of the HTTP server and the
// interpreter queue.
const shutdownTimeout = 10 * time.Second

type serveFlags struct {
	host     string
	port     int
	autoPort bool
}

// NewServeCommand creates the "serve" cobra command.
func NewServeCommand() *cobra.Command {
	flags := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rotation operations over HTTP",
		Long: `Start the HTTP API. Every request runs on the shared interpreter.

Routes:
  GET  /healthz
  GET  /v1/conventions
  POST /v1/convert
  POST /v1/reverse
  POST /v1/compose
  POST /v1/align
  GET  /v1/random
  GET  /metrics

Tracing is exported over OTLP when OTEL_EXPORTER_OTLP_ENDPOINT is set.

Examples:
  rotkit serve
  rotkit serve --port 9000 --auto-port`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = flags.host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = flags.port
			}
			if cmd.Flags().Changed("auto-port") {
				cfg.Server.AutoPort = flags.autoPort
			}
			if err := cfg.Validate(); err != nil {
				return model.WrapCLIError(model.ExitInvalidInput, "invalid server settings", err)
			}
			return runServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&flags.host, "host", "", "Listen address (default from config: 127.0.0.1)")
	cmd.Flags().IntVar(&flags.port, "port", 0, "Listen port, 0 for any (default from config: 8080)")
	cmd.Flags().BoolVar(&flags.autoPort, "auto-port", false, "Fall back to a free port when --port is taken")

	return cmd
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger(os.Stderr, true, slog.LevelInfo)

	shutdownTracing, err := telemetry.Init(ctx, Version, logger)
	if err != nil {
		return model.WrapCLIError(model.ExitServerError, "failed to initialise tracing", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Error("tracing shutdown failed", "error", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	scanner := port.NewScanner(cfg.Server.Host)
	listenPort, err := scanner.Resolve(cfg.Server.Port, cfg.Server.AutoPort, cfg.Server.PortRange)
	if err != nil {
		return model.WrapCLIError(model.ExitPortUnavailable, "cannot bind server port", err)
	}
	if listenPort != cfg.Server.Port {
		logger.Warn("configured port in use, using fallback", "configured", cfg.Server.Port, "port", listenPort)
	}

	interp, err := startInterpreter(logger, interpreter.WithRegisterer(reg))
	if err != nil {
		return err
	}

	srv, err := server.New(interp, server.Options{
		Order:    cfg.EulerOrder(),
		Registry: reg,
		Logger:   logger,
		Seed:     cfg.Seed,
	})
	if err != nil {
		_ = interp.Stop(context.Background())
		return model.WrapCLIError(model.ExitServerError, "failed to create server", err)
	}

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(listenPort))
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(addr)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr = <-errCh:
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if serveErr == nil {
		if err := srv.Shutdown(sctx); err != nil {
			logger.Error("server shutdown failed", "error", err)
		}
	}
	if err := interp.Stop(sctx); err != nil {
		logger.Error("interpreter shutdown failed", "error", err)
	}

	if serveErr != nil && !errors.Is(serveErr, net.ErrClosed) {
		return model.WrapCLIError(model.ExitServerError, fmt.Sprintf("server on %s failed", addr), serveErr)
	}
	return nil
}
