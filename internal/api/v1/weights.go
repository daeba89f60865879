package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/habitwheel/internal/errors"
	"github.com/tphakala/habitwheel/internal/habit"
)

// initWeightRoutes registers weight tracking endpoints
func (c *Controller) initWeightRoutes() {
	c.Group.PUT("/rounds/:id/weight", c.RecordWeight)
}

// RecordWeight records the weight sample for the week containing the given
// date, replacing any earlier sample for that week.
func (c *Controller) RecordWeight(ctx echo.Context) error {
	roundID, err := idParam(ctx, "id")
	if err != nil {
		return c.HandleDomainError(ctx, err, "Invalid round ID")
	}

	var req struct {
		Date   string  `json:"date"`
		Weight float64 `json:"weight"`
	}
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	if req.Weight <= 0 {
		bad := errors.Newf("weight must be positive, got %v", req.Weight).
			Category(errors.CategoryValidation).
			Context("weight", req.Weight).
			Build()
		return c.HandleDomainError(ctx, bad, "Invalid weight")
	}

	round, err := c.DS.GetRound(roundID)
	if err != nil {
		return c.HandleDomainError(ctx, err, "Failed to get round")
	}

	if _, err := habit.ParseDay(req.Date); err != nil {
		return c.HandleDomainError(ctx, err, "Invalid weight date")
	}
	offset, ok, err := habit.DayWithinRound(round.StartDate, req.Date, round.LengthWeeks)
	if err != nil {
		return c.HandleDomainError(ctx, err, "Invalid weight date")
	}
	if !ok {
		outside := errors.Newf("date %s is outside the round window", req.Date).
			Category(errors.CategoryValidation).
			Context("date", req.Date).
			Build()
		return c.HandleDomainError(ctx, outside, "Date outside round")
	}

	weekIndex := habit.WeekIndexOf(offset)
	entry, err := c.DS.UpsertWeightEntry(roundID, weekIndex, req.Weight, req.Date)
	if err != nil {
		return c.HandleDomainError(ctx, err, "Failed to record weight")
	}
	if c.metrics != nil && c.metrics.Habit != nil {
		c.metrics.Habit.RecordWeightEntry()
	}

	return ctx.JSON(http.StatusOK, WeightEntryResponse{
		WeekIndex: entry.WeekIndex,
		Weight:    entry.Weight,
		Date:      entry.Date,
	})
}
