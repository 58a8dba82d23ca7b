// Package service implements the PI HTTP service: a root info endpoint, a
// health check and a constant-value endpoint, monitored with New Relic.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"go.uber.org/zap"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 10 * time.Second

// Server wires the routes, middleware and error handling onto echo.
type Server struct {
	echo    *echo.Echo
	cfg     Config
	logger  *zap.Logger
	apm     *newrelic.Application
	started time.Time
	now     func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithAPM instruments every route with a New Relic transaction.
func WithAPM(app *newrelic.Application) Option {
	return func(s *Server) {
		s.apm = app
	}
}

// WithClock replaces time.Now; the first reading is the process start.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// New builds a server. It does not start listening.
func New(cfg Config, logger *zap.Logger, options ...Option) *Server {
	s := &Server{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
	for _, option := range options {
		option(s)
	}
	s.started = s.now()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError

	if s.apm != nil {
		e.Use(nrecho.Middleware(s.apm))
	}
	e.Use(requestLogger(logger))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("handler panic", zap.Error(err), zap.ByteString("stack", stack))
			return err
		},
	}))

	e.GET("/", s.handleRoot)
	e.GET("/health", s.handleHealth)
	e.GET("/pi", s.handlePi)

	s.echo = e
	return s
}

// Echo exposes the router, mainly for tests and extra routes.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Run listens on the configured port until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("PI service listening",
			zap.String("addr", s.cfg.Addr()),
			zap.String("environment", s.cfg.Environment),
			zap.Bool("apm", s.cfg.LicenseKey != ""),
		)
		if err := s.echo.Start(s.cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// handleError maps unmatched routes to 404 with the endpoint list and any
// other failure to a generic 500. Details stay in the logs.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch {
		case he.Code == http.StatusNotFound || he.Code == http.StatusMethodNotAllowed:
			s.writeJSON(c, http.StatusNotFound, NotFoundResponse{
				Error:              "Endpoint not found",
				AvailableEndpoints: AvailableEndpoints,
			})
			return
		case he.Code < http.StatusInternalServerError:
			s.writeJSON(c, he.Code, ErrorResponse{
				Error:   http.StatusText(he.Code),
				Message: fmt.Sprint(he.Message),
			})
			return
		}
	}

	s.logger.Error("request failed",
		zap.Error(err),
		zap.String("method", c.Request().Method),
		zap.String("path", c.Request().URL.Path),
	)
	newrelic.FromContext(c.Request().Context()).NoticeError(err)

	s.writeJSON(c, http.StatusInternalServerError, ErrorResponse{
		Error:   "Something went wrong!",
		Message: "Internal server error",
	})
}

func (s *Server) writeJSON(c echo.Context, code int, body interface{}) {
	if err := c.JSON(code, body); err != nil {
		s.logger.Warn("failed to write error response", zap.Error(err))
	}
}
