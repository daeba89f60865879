package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/habitwheel/internal/datastore"
	"github.com/tphakala/habitwheel/internal/errors"
)

// AppSettingsResponse is the JSON shape of the application settings.
type AppSettingsResponse struct {
	RoundLengthWeeks int    `json:"roundLengthWeeks"`
	WeekStartsOn     int    `json:"weekStartsOn"`
	Timezone         string `json:"timezone"`
	WeightUnit       string `json:"weightUnit"`
}

func appSettingsResponse(s *datastore.AppSettings) AppSettingsResponse {
	return AppSettingsResponse{
		RoundLengthWeeks: s.RoundLengthWeeks,
		WeekStartsOn:     s.WeekStartsOn,
		Timezone:         s.Timezone,
		WeightUnit:       s.WeightUnit,
	}
}

// appSettings loads the persisted settings row, seeding it from the process
// configuration on first access.
func (c *Controller) appSettings() (datastore.AppSettings, error) {
	defaults := datastore.AppSettings{
		RoundLengthWeeks: c.Settings.Tracking.RoundLengthWeeks,
		WeekStartsOn:     c.Settings.Tracking.WeekStartsOn,
		Timezone:         c.Settings.Tracking.Timezone,
		WeightUnit:       c.Settings.Tracking.WeightUnit,
	}
	return c.DS.GetAppSettings(defaults)
}

// normalizeWeightUnit maps unit aliases to the two canonical units.
func normalizeWeightUnit(raw string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "LBS", "LB":
		return "LBS", nil
	case "KG", "KGS":
		return "KG", nil
	default:
		return "", errors.Newf("weightUnit must be LBS or KG, got %q", raw).
			Category(errors.CategoryValidation).
			Context("weight_unit", raw).
			Build()
	}
}

// initSettingsRoutes registers application settings endpoints
func (c *Controller) initSettingsRoutes() {
	c.Group.GET("/settings", c.GetSettings)
	c.Group.PATCH("/settings", c.UpdateSettings)
}

// GetSettings returns the application settings.
func (c *Controller) GetSettings(ctx echo.Context) error {
	settings, err := c.appSettings()
	if err != nil {
		return c.HandleDomainError(ctx, err, "Failed to load settings")
	}
	return ctx.JSON(http.StatusOK, appSettingsResponse(&settings))
}

// UpdateSettings changes the display weight unit. Stored weights are plain
// numbers; the unit only affects presentation.
func (c *Controller) UpdateSettings(ctx echo.Context) error {
	var req struct {
		WeightUnit string `json:"weightUnit"`
	}
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	unit, err := normalizeWeightUnit(req.WeightUnit)
	if err != nil {
		return c.HandleDomainError(ctx, err, "Invalid weight unit")
	}

	// Make sure the settings row exists before the targeted update.
	if _, err := c.appSettings(); err != nil {
		return c.HandleDomainError(ctx, err, "Failed to load settings")
	}

	settings, err := c.DS.UpdateWeightUnit(unit)
	if err != nil {
		return c.HandleDomainError(ctx, err, "Failed to update settings")
	}
	return ctx.JSON(http.StatusOK, appSettingsResponse(&settings))
}
