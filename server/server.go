package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/mdpsolve/logger"
	"github.com/kbukum/mdpsolve/mdp"
	"github.com/kbukum/mdpsolve/observability"
	"github.com/kbukum/mdpsolve/server/endpoint"
	"github.com/kbukum/mdpsolve/server/middleware"
	"github.com/kbukum/mdpsolve/version"
)

// Server exposes the solver over HTTP. Routes are served by Gin behind the
// standard middleware chain, with h2c so HTTP/2 clients work without TLS.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     Config
	log        *logger.Logger
	metrics    *observability.SolverMetrics

	mu       sync.Mutex
	listener net.Listener
}

// New creates a Server. cfg should have defaults applied. log is normally the
// "server" component logger; metrics may be nil.
func New(cfg Config, log *logger.Logger, metrics *observability.SolverMetrics) *Server {
	if log == nil {
		log = logger.NewNop()
	}
	if log.GetLogger().GetLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	handler := middleware.Chain(
		middleware.Recovery(log),
		middleware.RunID(),
		middleware.Observe(metrics),
		middleware.BodySizeLimit(cfg.bodyLimit()),
		middleware.RequestLogger(log),
	)(engine)

	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          120 * time.Second,
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      h2c.NewHandler(handler, h2s),
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		engine:     engine,
		config:     cfg,
		log:        log,
		metrics:    metrics,
	}
}

// RegisterRoutes mounts the solver API and the probe endpoints. opts are the
// defaults each request starts from.
func (s *Server) RegisterRoutes(serviceName string, opts mdp.Options) {
	h := endpoint.NewSolver(opts, s.log, s.metrics)

	v1 := s.engine.Group("/v1")
	v1.POST("/solve", h.Solve)
	v1.POST("/validate", h.Validate)

	s.engine.GET("/health", endpoint.Health(serviceName, version.Get().Short(), endpoint.SolverCheck(opts)))
	s.engine.GET("/version", endpoint.Version())
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start binds the port and begins serving. It returns once the listener is
// bound; serving continues in a goroutine. A ctx that is already done
// aborts the bind.
func (s *Server) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("server not started: %w", err)
	}
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			s.log.Error("Server error", logger.Fields(logger.FieldError, err.Error()))
		}
	}()

	s.log.Info("HTTP server started", logger.Fields("addr", listener.Addr().String()))
	return nil
}

// Stop gracefully shuts down the server within the configured timeout.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Duration(s.config.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Error("Server shutdown error", logger.Fields(logger.FieldError, err.Error()))
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.log.Info("HTTP server shut down")
	return nil
}

// Run starts the server and blocks until ctx is done, then shuts down.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return s.Stop(context.WithoutCancel(ctx))
}

// Addr returns the bound address once started, the configured one before.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}
