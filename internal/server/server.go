// Package server exposes the rotation library over HTTP.
//
// Every computation is run through the interpreter in apply mode, so HTTP
// requests, batch scripts and CLI calls share one execution lock and one
// set of observers.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net"
	"sync"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nmr-relax/rotkit/internal/convert"
	"github.com/nmr-relax/rotkit/internal/interpreter"
	"github.com/nmr-relax/rotkit/internal/model"
	"github.com/nmr-relax/rotkit/internal/server/middleware"
)

// BodyLimit caps request bodies.
const BodyLimit = 1 << 20

// Options configures a Server.
type Options struct {
	// Order is the Euler convention used when a request names none.
	Order model.EulerOrder

	// Registry receives the HTTP metrics and backs GET /metrics.
	// A fresh registry is created when nil.
	Registry *prometheus.Registry

	Logger *slog.Logger

	// Seed makes GET /v1/random reproducible across a server's lifetime
	// for requests that carry no seed of their own.
	Seed *uint64
}

// Server is the HTTP API over an interpreter.
type Server struct {
	app    *fiber.App
	interp *interpreter.Interpreter
	order  model.EulerOrder
	logger *slog.Logger

	// rng is only used inside interpreter calls, which are serialised.
	rng *rand.Rand

	mu       sync.Mutex
	listener net.Listener
}

// New builds the fiber app and registers middleware and routes.
// interp must be started by the caller.
func New(interp *interpreter.Interpreter, opts Options) (*Server, error) {
	if opts.Order == "" {
		opts.Order = model.OrderZYZ
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Server{
		interp: interp,
		order:  opts.Order,
		logger: opts.Logger,
		rng:    convert.NewRand(opts.Seed),
	}

	promMiddleware, err := middleware.NewPrometheusMiddleware(opts.Registry)
	if err != nil {
		return nil, fmt.Errorf("register http metrics: %w", err)
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "rotkit",
		DisableStartupMessage: true,
		BodyLimit:             BodyLimit,
		ErrorHandler:          ErrorHandler(),
	})

	s.app.Use(middleware.RequestID())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(promMiddleware.Handler())
	s.app.Use(otelfiber.Middleware())

	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))
	s.registerRoutes()

	return s, nil
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen binds addr and serves until Shutdown. The bound address is
// logged, which matters when the port is 0.
func (s *Server) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.logger.Info("server listening", "addr", ln.Addr().String())
	return s.app.Listener(ln)
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.app.ShutdownWithContext(ctx)
}
