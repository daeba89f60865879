package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/habitwheel/internal/datastore"
	"github.com/tphakala/habitwheel/internal/errors"
)

// TrackerTypeResponse is the JSON shape of a tracker type. The count fields
// are only populated when stats are requested.
type TrackerTypeResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	Active          bool   `json:"active"`
	CreatedAt       string `json:"createdAt"`
	CategoriesCount *int64 `json:"categoriesCount,omitempty"`
	TrackersCount   *int64 `json:"trackersCount,omitempty"`
	RoundsCount     *int64 `json:"roundsCount,omitempty"`
}

func trackerTypeResponse(tt *datastore.TrackerType) TrackerTypeResponse {
	return TrackerTypeResponse{
		ID:        tt.ID,
		Name:      tt.Name,
		Active:    tt.Active,
		CreatedAt: tt.CreatedAt.Format(time.RFC3339),
	}
}

func trackerTypeStatsResponse(tt *datastore.TrackerTypeStats) TrackerTypeResponse {
	resp := trackerTypeResponse(&tt.TrackerType)
	resp.CategoriesCount = &tt.CategoriesCount
	resp.TrackersCount = &tt.TrackersCount
	resp.RoundsCount = &tt.RoundsCount
	return resp
}

// initTrackerTypeRoutes registers tracker type management endpoints
func (c *Controller) initTrackerTypeRoutes() {
	c.Group.GET("/tracker-types", c.GetTrackerTypes)
	c.Group.POST("/tracker-types", c.CreateTrackerType)
	c.Group.GET("/tracker-types/:id", c.GetTrackerType)
	c.Group.PATCH("/tracker-types/:id", c.UpdateTrackerType)
	c.Group.DELETE("/tracker-types/:id", c.DeleteTrackerType)
}

// GetTrackerTypes lists tracker types, optionally including inactive ones
// and usage counts.
func (c *Controller) GetTrackerTypes(ctx echo.Context) error {
	includeInactive := boolQuery(ctx, "includeInactive")

	if boolQuery(ctx, "includeStats") {
		stats, err := c.DS.GetTrackerTypeStats(includeInactive)
		if err != nil {
			return c.HandleDomainError(ctx, err, "Failed to list tracker types")
		}
		responses := make([]TrackerTypeResponse, 0, len(stats))
		for i := range stats {
			responses = append(responses, trackerTypeStatsResponse(&stats[i]))
		}
		return ctx.JSON(http.StatusOK, responses)
	}

	types, err := c.DS.GetTrackerTypes(includeInactive)
	if err != nil {
		return c.HandleDomainError(ctx, err, "Failed to list tracker types")
	}
	responses := make([]TrackerTypeResponse, 0, len(types))
	for i := range types {
		responses = append(responses, trackerTypeResponse(&types[i]))
	}
	return ctx.JSON(http.StatusOK, responses)
}

// CreateTrackerType creates a tracker type, reactivating an inactive type of
// the same name instead of duplicating it. An active type with the same name
// is a conflict.
func (c *Controller) CreateTrackerType(ctx echo.Context) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	name, err := trimmedName(req.Name, "name")
	if err != nil {
		return c.HandleDomainError(ctx, err, "Invalid tracker type name")
	}

	existing, err := c.DS.GetTrackerTypeByName(name)
	switch {
	case err == nil && existing.Active:
		conflict := errors.Newf("tracker type %q already exists", name).
			Category(errors.CategoryConflict).
			Context("name", name).
			Build()
		return c.HandleDomainError(ctx, conflict, "Tracker type already exists")
	case err == nil:
		reactivated, err := c.DS.ReactivateTrackerType(existing.ID)
		if err != nil {
			return c.HandleDomainError(ctx, err, "Failed to reactivate tracker type")
		}
		return ctx.JSON(http.StatusOK, trackerTypeResponse(&reactivated))
	case !datastore.IsNotFound(err):
		return c.HandleDomainError(ctx, err, "Failed to look up tracker type")
	}

	created, err := c.DS.CreateTrackerType(name)
	if err != nil {
		return c.HandleDomainError(ctx, err, "Failed to create tracker type")
	}
	return ctx.JSON(http.StatusCreated, trackerTypeResponse(&created))
}

// GetTrackerType retrieves one tracker type.
func (c *Controller) GetTrackerType(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return c.HandleDomainError(ctx, err, "Invalid tracker type ID")
	}

	tt, err := c.DS.GetTrackerType(id)
	if err != nil {
		return c.HandleDomainError(ctx, err, "Failed to get tracker type")
	}
	return ctx.JSON(http.StatusOK, trackerTypeResponse(&tt))
}

// UpdateTrackerType renames a tracker type.
func (c *Controller) UpdateTrackerType(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return c.HandleDomainError(ctx, err, "Invalid tracker type ID")
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	name, err := trimmedName(req.Name, "name")
	if err != nil {
		return c.HandleDomainError(ctx, err, "Invalid tracker type name")
	}

	tt, err := c.DS.RenameTrackerType(id, name)
	if err != nil {
		return c.HandleDomainError(ctx, err, "Failed to rename tracker type")
	}
	return ctx.JSON(http.StatusOK, trackerTypeResponse(&tt))
}

// DeleteTrackerType soft-deletes a tracker type. Existing rounds keep
// rendering from their snapshots; the deactivateTrackers query parameter
// also deactivates trackers of this type.
func (c *Controller) DeleteTrackerType(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return c.HandleDomainError(ctx, err, "Invalid tracker type ID")
	}

	if _, err := c.DS.GetTrackerType(id); err != nil {
		return c.HandleDomainError(ctx, err, "Failed to get tracker type")
	}

	if err := c.DS.DeactivateTrackerType(id, boolQuery(ctx, "deactivateTrackers")); err != nil {
		return c.HandleDomainError(ctx, err, "Failed to delete tracker type")
	}
	return ctx.NoContent(http.StatusNoContent)
}
