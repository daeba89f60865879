package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthCheck handles the API liveness endpoint
func (c *Controller) HealthCheck(ctx echo.Context) error {
	response := map[string]any{
		"status":     "healthy",
		"version":    c.Settings.Version,
		"build_date": c.Settings.BuildDate,
		"timestamp":  time.Now().Format(time.RFC3339),
	}

	if c.Settings.WebServer.Debug {
		response["environment"] = "development"
	} else {
		response["environment"] = "production"
	}

	if c.startTime != nil {
		uptime := time.Since(*c.startTime)
		response["uptime"] = uptime.String()
		response["uptime_seconds"] = uptime.Seconds()
	}

	return ctx.JSON(http.StatusOK, response)
}

// ReadyCheck handles the API readiness endpoint. It reports unhealthy when
// the database cannot be reached.
func (c *Controller) ReadyCheck(ctx echo.Context) error {
	response := map[string]any{
		"status":          "ready",
		"database_status": "connected",
		"timestamp":       time.Now().Format(time.RFC3339),
	}

	if err := c.DS.Ping(); err != nil {
		response["status"] = "not_ready"
		response["database_status"] = "disconnected"
		response["database_error"] = err.Error()
		return ctx.JSON(http.StatusServiceUnavailable, response)
	}

	return ctx.JSON(http.StatusOK, response)
}
