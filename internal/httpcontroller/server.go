// internal/httpcontroller/server.go
package httpcontroller

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	api "github.com/tphakala/habitwheel/internal/api/v1"
	"github.com/tphakala/habitwheel/internal/conf"
	"github.com/tphakala/habitwheel/internal/datastore"
	"github.com/tphakala/habitwheel/internal/logging"
	"github.com/tphakala/habitwheel/internal/observability"
)

// shutdownTimeout bounds how long in-flight requests may run during a
// graceful shutdown.
const shutdownTimeout = 10 * time.Second

// Server encapsulates the Echo server and related configuration.
type Server struct {
	Echo     *echo.Echo
	DS       datastore.Interface
	Settings *conf.Settings
	APIV1    *api.Controller

	metrics   *observability.Metrics
	logger    *log.Logger
	webLogger *logWrapper
}

type logWrapper struct {
	close func() error
}

// New initializes a new HTTP server with the given settings and datastore.
func New(settings *conf.Settings, dataStore datastore.Interface, metrics *observability.Metrics) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.IPExtractor = echo.ExtractIPFromXFFHeader()

	s := &Server{
		Echo:     e,
		DS:       dataStore,
		Settings: settings,
		metrics:  metrics,
		logger:   log.Default(),
	}

	webLogger, closeFunc, err := logging.NewFileLogger("logs/http.log", "http", nil)
	if err != nil {
		s.logger.Printf("Warning: failed to initialize web logger: %v", err)
	} else {
		s.webLogger = &logWrapper{close: closeFunc}
		e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
			LogStatus:  true,
			LogURI:     true,
			LogMethod:  true,
			LogLatency: true,
			LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
				webLogger.Info("request",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
				)
				return nil
			},
		}))
	}

	// Prometheus endpoint on the main listener
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	}

	apiController, err := api.New(e, dataStore, settings, s.logger, metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize API: %w", err)
	}
	s.APIV1 = apiController

	return s, nil
}

// Start begins listening and serving HTTP requests, blocking until the
// context is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := s.Settings.WebServer.Host + ":" + s.Settings.WebServer.Port

	errChan := make(chan error, 1)
	go func() {
		s.logger.Printf("HTTP server starting on %s", addr)
		if err := s.Echo.Start(addr); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
	}

	s.logger.Printf("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.Echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown error: %w", err)
	}

	s.APIV1.Shutdown()
	if s.webLogger != nil && s.webLogger.close != nil {
		if err := s.webLogger.close(); err != nil {
			s.logger.Printf("Error closing web log file: %v", err)
		}
	}
	return nil
}
