package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/habitwheel/internal/datastore"
	"github.com/tphakala/habitwheel/internal/errors"
	"github.com/tphakala/habitwheel/internal/habit"
)

// initEntryRoutes registers entry recording endpoints
func (c *Controller) initEntryRoutes() {
	c.Group.POST("/rounds/:id/entries", c.RecordEntry)
}

// RecordEntry writes one category-day cell of a round. Without a status the
// cell advances to the next status in the category's cycle; with one it is
// set directly after validation against the cycle.
func (c *Controller) RecordEntry(ctx echo.Context) error {
	roundID, err := idParam(ctx, "id")
	if err != nil {
		return c.HandleDomainError(ctx, err, "Invalid round ID")
	}

	var req struct {
		CategoryID uint   `json:"categoryId"`
		Date       string `json:"date"`
		Status     string `json:"status"`
	}
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	round, err := c.DS.GetRound(roundID)
	if err != nil {
		return c.HandleDomainError(ctx, err, "Failed to get round")
	}

	var snapshot *datastore.RoundCategory
	for i := range round.RoundCategories {
		if round.RoundCategories[i].CategoryID == req.CategoryID {
			snapshot = &round.RoundCategories[i]
			break
		}
	}
	if snapshot == nil {
		missing := errors.Newf("category %d is not part of round %d", req.CategoryID, roundID).
			Category(errors.CategoryNotFound).
			Context("category_id", req.CategoryID).
			Build()
		return c.HandleDomainError(ctx, missing, "Category not found")
	}

	if _, err := habit.ParseDay(req.Date); err != nil {
		return c.HandleDomainError(ctx, err, "Invalid entry date")
	}
	_, ok, err := habit.DayWithinRound(round.StartDate, req.Date, round.LengthWeeks)
	if err != nil {
		return c.HandleDomainError(ctx, err, "Invalid entry date")
	}
	if !ok {
		outside := errors.Newf("date %s is outside the round window", req.Date).
			Category(errors.CategoryValidation).
			Context("date", req.Date).
			Build()
		return c.HandleDomainError(ctx, outside, "Date outside round")
	}

	cycle := habit.Cycle(snapshot.Category.AllowTreat, snapshot.Category.AllowSick)

	var next habit.Status
	if req.Status == "" {
		current := habit.StatusEmpty
		existing, err := c.DS.GetEntry(roundID, req.CategoryID, req.Date)
		switch {
		case err == nil:
			current = habit.ParseStatus(existing.Status)
		case !datastore.IsNotFound(err):
			return c.HandleDomainError(ctx, err, "Failed to get entry")
		}
		next = habit.Next(current, cycle)
	} else {
		next = habit.Status(strings.ToUpper(req.Status))
		if err := habit.ValidateStatus(next, cycle); err != nil {
			return c.HandleDomainError(ctx, err, "Invalid entry status")
		}
	}

	entry, err := c.DS.UpsertEntry(roundID, req.CategoryID, req.Date, string(next))
	if err != nil {
		return c.HandleDomainError(ctx, err, "Failed to record entry")
	}
	if c.metrics != nil && c.metrics.Habit != nil {
		c.metrics.Habit.RecordEntryStatus(entry.Status)
	}

	return ctx.JSON(http.StatusOK, EntryResponse{
		CategoryID: entry.CategoryID,
		Date:       entry.Date,
		Status:     entry.Status,
	})
}
