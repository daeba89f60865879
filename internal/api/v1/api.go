// internal/api/v1/api.go
package api

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/tphakala/habitwheel/internal/conf"
	"github.com/tphakala/habitwheel/internal/datastore"
	"github.com/tphakala/habitwheel/internal/errors"
	"github.com/tphakala/habitwheel/internal/logging"
	"github.com/tphakala/habitwheel/internal/observability"
)

// Controller manages the API routes and handlers
type Controller struct {
	Echo     *echo.Echo
	Group    *echo.Group
	DS       datastore.Interface
	Settings *conf.Settings

	logger         *log.Logger
	apiLogger      *slog.Logger   // Structured logger for API operations
	apiLevelVar    *slog.LevelVar // Dynamic level control
	apiLoggerClose func() error   // Function to close the log file
	metrics        *observability.Metrics
	startTime      *time.Time
}

// New creates a new API controller and registers all routes.
func New(e *echo.Echo, ds datastore.Interface, settings *conf.Settings,
	logger *log.Logger, metrics *observability.Metrics) (*Controller, error) {
	return NewWithOptions(e, ds, settings, logger, metrics, true)
}

// NewWithOptions creates a new API controller with optional route
// initialization. Set initializeRoutes to false in tests that register
// handlers directly.
func NewWithOptions(e *echo.Echo, ds datastore.Interface, settings *conf.Settings,
	logger *log.Logger, metrics *observability.Metrics, initializeRoutes bool) (*Controller, error) {

	if logger == nil {
		logger = log.Default()
	}

	c := &Controller{
		Echo:     e,
		DS:       ds,
		Settings: settings,
		logger:   logger,
		metrics:  metrics,
	}

	// Initialize structured logger for API requests
	apiLogPath := "logs/web.log"
	initialLevel := slog.LevelInfo
	if settings.WebServer.Debug {
		initialLevel = slog.LevelDebug
	}
	c.apiLevelVar = new(slog.LevelVar)
	c.apiLevelVar.Set(initialLevel)

	apiLogger, closeFunc, err := logging.NewFileLogger(apiLogPath, "api", c.apiLevelVar)
	if err != nil {
		logger.Printf("Warning: Failed to initialize API structured logger: %v", err)
		// Fallback to a disabled logger (writes to io.Discard) but respects the level var
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: c.apiLevelVar})
		c.apiLogger = slog.New(fbHandler).With("service", "api")
		c.apiLoggerClose = func() error { return nil }
	} else {
		c.apiLogger = apiLogger
		c.apiLoggerClose = closeFunc
		logger.Printf("API structured logging initialized to %s", apiLogPath)
	}

	// Create v1 API group
	c.Group = e.Group("/api/v1")

	// Configure middlewares
	c.Group.Use(middleware.Recover())
	c.Group.Use(middleware.CORS())
	c.Group.Use(middleware.BodyLimit("1M")) // Limit request body to 1MB to prevent DoS attacks
	c.Group.Use(c.LoggingMiddleware())

	// Initialize start time for uptime tracking
	now := time.Now()
	c.startTime = &now

	if initializeRoutes {
		c.initRoutes()
	}

	return c, nil
}

// LoggingMiddleware creates a middleware function that logs API requests and
// records request metrics keyed by route pattern.
func (c *Controller) LoggingMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()

			err := next(ctx)

			req := ctx.Request()
			res := ctx.Response()
			elapsed := time.Since(start)

			if c.metrics != nil && c.metrics.HTTP != nil {
				c.metrics.HTTP.RecordHTTPRequest(req.Method, ctx.Path(), res.Status, elapsed.Seconds())
			}

			if c.apiLogger == nil {
				return err
			}

			attrs := []slog.Attr{
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.String("query", req.URL.RawQuery),
				slog.Int("status", res.Status),
				slog.String("ip", ctx.RealIP()),
				slog.String("user_agent", req.UserAgent()),
				slog.Int64("latency_ms", elapsed.Milliseconds()),
			}
			if err != nil {
				attrs = append(attrs, slog.Any("error", err))
			}

			c.apiLogger.LogAttrs(req.Context(), slog.LevelInfo, "API Request", attrs...)

			return err
		}
	}
}

// initRoutes registers all API endpoints
func (c *Controller) initRoutes() {
	// Health check endpoints - publicly accessible
	c.Group.GET("/health", c.HealthCheck)
	c.Group.GET("/ready", c.ReadyCheck)

	routeInitializers := []struct {
		name string
		fn   func()
	}{
		{"people routes", c.initPeopleRoutes},
		{"tracker type routes", c.initTrackerTypeRoutes},
		{"tracker routes", c.initTrackerRoutes},
		{"category routes", c.initCategoryRoutes},
		{"round routes", c.initRoundRoutes},
		{"entry routes", c.initEntryRoutes},
		{"weight routes", c.initWeightRoutes},
		{"settings routes", c.initSettingsRoutes},
	}

	for _, initializer := range routeInitializers {
		c.Debug("Initializing %s...", initializer.name)
		initializer.fn()
	}
}

// Shutdown performs cleanup of all resources used by the API controller.
// This should be called when the application is shutting down.
func (c *Controller) Shutdown() {
	if c.apiLoggerClose != nil {
		if err := c.apiLoggerClose(); err != nil {
			c.logger.Printf("Error closing API log file: %v", err)
		}
	}
	c.Debug("API Controller shutting down")
}

// ErrorResponse is the JSON error envelope returned by every handler.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	Code          int    `json:"code"`
	CorrelationID string `json:"correlation_id"` // Unique identifier for tracking this error
}

// NewErrorResponse creates a new API error response
func NewErrorResponse(err error, message string, code int) *ErrorResponse {
	correlationID := generateCorrelationID()

	var errorStr string
	if err != nil {
		errorStr = err.Error()
	} else {
		errorStr = message
	}

	return &ErrorResponse{
		Error:         errorStr,
		Message:       message,
		Code:          code,
		CorrelationID: correlationID,
	}
}

// generateCorrelationID creates a unique identifier for error tracking
func generateCorrelationID() string {
	return uuid.NewString()[:8]
}

// categoryStatus maps an error's category to the HTTP status code and the
// error_type label used in metrics.
func categoryStatus(err error) (code int, errorType string) {
	switch errors.GetCategory(err) {
	case errors.CategoryValidation:
		return http.StatusBadRequest, "validation"
	case errors.CategoryNotFound:
		return http.StatusNotFound, "not_found"
	case errors.CategoryConflict:
		return http.StatusConflict, "conflict"
	case errors.CategoryDatabase:
		return http.StatusInternalServerError, "database"
	default:
		return http.StatusInternalServerError, "system"
	}
}

// HandleError logs an error and returns the JSON error envelope with the
// given status code.
func (c *Controller) HandleError(ctx echo.Context, err error, message string, code int) error {
	errorResp := NewErrorResponse(err, message, code)
	ip := ctx.RealIP()

	c.logger.Printf("API Error [%s] from %s: %s: %v", errorResp.CorrelationID, ip, message, err)

	if c.apiLogger != nil {
		var errorStr string
		if err != nil {
			errorStr = err.Error()
		} else {
			errorStr = message
		}

		c.apiLogger.Error("API Error",
			"correlation_id", errorResp.CorrelationID,
			"message", message,
			"error", errorStr,
			"code", code,
			"path", ctx.Request().URL.Path,
			"method", ctx.Request().Method,
			"ip", ip,
		)
	}

	if c.metrics != nil && c.metrics.HTTP != nil {
		_, errorType := categoryStatus(err)
		c.metrics.HTTP.RecordHTTPRequestError(ctx.Request().Method, ctx.Path(), errorType)
	}

	return ctx.JSON(code, errorResp)
}

// HandleDomainError maps the error's category to an HTTP status before
// delegating to HandleError. Handlers use it for errors coming out of the
// datastore and domain layers.
func (c *Controller) HandleDomainError(ctx echo.Context, err error, message string) error {
	code, _ := categoryStatus(err)
	return c.HandleError(ctx, err, message, code)
}

// Debug logs debug messages when debug mode is enabled
func (c *Controller) Debug(format string, v ...any) {
	if c.Settings.WebServer.Debug {
		msg := fmt.Sprintf(format, v...)
		c.logger.Printf("[DEBUG] %s", msg)

		if c.apiLogger != nil {
			c.apiLogger.Debug(msg)
		}
	}
}
