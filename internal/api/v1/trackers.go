package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/habitwheel/internal/datastore"
	"github.com/tphakala/habitwheel/internal/errors"
)

// TrackerResponse is the JSON shape of a tracker.
type TrackerResponse struct {
	ID                   uint    `json:"id"`
	PersonID             uint    `json:"personId"`
	TrackerTypeID        uint    `json:"trackerTypeId"`
	TrackerTypeName      string  `json:"trackerTypeName"`
	Name                 string  `json:"name"`
	Active               bool    `json:"active"`
	CreatedAt            string  `json:"createdAt"`
	RoundsCount          *int64  `json:"roundsCount,omitempty"`
	LatestRoundCreatedAt *string `json:"latestRoundCreatedAt,omitempty"`
}

func trackerResponse(t *datastore.Tracker) TrackerResponse {
	return TrackerResponse{
		ID:              t.ID,
		PersonID:        t.PersonID,
		TrackerTypeID:   t.TrackerTypeID,
		TrackerTypeName: t.TrackerType.Name,
		Name:            t.Name,
		Active:          t.Active,
		CreatedAt:       t.CreatedAt.Format(time.RFC3339),
	}
}

func trackerStatsResponse(ts *datastore.TrackerStats) TrackerResponse {
	resp := trackerResponse(&ts.Tracker)
	resp.RoundsCount = &ts.RoundsCount
	if ts.LatestRoundCreatedAt != nil {
		latest := ts.LatestRoundCreatedAt.Format(time.RFC3339)
		resp.LatestRoundCreatedAt = &latest
	}
	return resp
}

// initTrackerRoutes registers tracker management endpoints
func (c *Controller) initTrackerRoutes() {
	c.Group.GET("/people/:id/trackers", c.GetTrackers)
	c.Group.POST("/people/:id/trackers", c.CreateTracker)
	c.Group.GET("/trackers/:id", c.GetTracker)
	c.Group.DELETE("/trackers/:id", c.DeleteTracker)
}

// GetTrackers lists a person's trackers with round usage data.
func (c *Controller) GetTrackers(ctx echo.Context) error {
	personID, err := idParam(ctx, "id")
	if err != nil {
		return c.HandleDomainError(ctx, err, "Invalid person ID")
	}
	if _, err := c.DS.GetPerson(personID); err != nil {
		return c.HandleDomainError(ctx, err, "Failed to get person")
	}

	trackers, err := c.DS.GetTrackers(personID, boolQuery(ctx, "includeInactive"))
	if err != nil {
		return c.HandleDomainError(ctx, err, "Failed to list trackers")
	}

	responses := make([]TrackerResponse, 0, len(trackers))
	for i := range trackers {
		responses = append(responses, trackerStatsResponse(&trackers[i]))
	}
	return ctx.JSON(http.StatusOK, responses)
}

// CreateTracker creates a tracker for a person. When no name is given the
// tracker is named after its type, numbered when the person already has
// trackers of that type.
func (c *Controller) CreateTracker(ctx echo.Context) error {
	personID, err := idParam(ctx, "id")
	if err != nil {
		return c.HandleDomainError(ctx, err, "Invalid person ID")
	}
	if _, err := c.DS.GetPerson(personID); err != nil {
		return c.HandleDomainError(ctx, err, "Failed to get person")
	}

	var req struct {
		TrackerTypeID uint   `json:"trackerTypeId"`
		Name          string `json:"name"`
	}
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	trackerType, err := c.DS.GetTrackerType(req.TrackerTypeID)
	if err != nil {
		return c.HandleDomainError(ctx, err, "Failed to get tracker type")
	}
	if !trackerType.Active {
		inactive := errors.Newf("tracker type %q is inactive", trackerType.Name).
			Category(errors.CategoryValidation).
			Context("tracker_type_id", trackerType.ID).
			Build()
		return c.HandleDomainError(ctx, inactive, "Cannot create tracker of an inactive type")
	}

	name := req.Name
	if name == "" {
		name = trackerType.Name
		count, err := c.DS.CountTrackersOfType(personID, trackerType.ID)
		if err != nil {
			return c.HandleDomainError(ctx, err, "Failed to count trackers")
		}
		if count > 0 {
			name = fmt.Sprintf("%s %d", trackerType.Name, count+1)
		}
	}

	tracker := datastore.Tracker{
		PersonID:      personID,
		TrackerTypeID: trackerType.ID,
		Name:          name,
		Active:        true,
	}
	if err := c.DS.CreateTracker(&tracker); err != nil {
		return c.HandleDomainError(ctx, err, "Failed to create tracker")
	}

	return ctx.JSON(http.StatusCreated, trackerResponse(&tracker))
}

// GetTracker retrieves one tracker.
func (c *Controller) GetTracker(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return c.HandleDomainError(ctx, err, "Invalid tracker ID")
	}

	tracker, err := c.DS.GetTracker(id)
	if err != nil {
		return c.HandleDomainError(ctx, err, "Failed to get tracker")
	}
	return ctx.JSON(http.StatusOK, trackerResponse(&tracker))
}

// DeleteTracker removes a tracker. A tracker with no rounds is hard-deleted,
// one with round history is deactivated instead. Deleting a person's last
// active tracker is refused.
func (c *Controller) DeleteTracker(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return c.HandleDomainError(ctx, err, "Invalid tracker ID")
	}

	tracker, err := c.DS.GetTracker(id)
	if err != nil {
		return c.HandleDomainError(ctx, err, "Failed to get tracker")
	}

	if tracker.Active {
		activeCount, err := c.DS.CountActiveTrackers(tracker.PersonID)
		if err != nil {
			return c.HandleDomainError(ctx, err, "Failed to count active trackers")
		}
		if activeCount <= 1 {
			last := errors.Newf("tracker %q is the person's last active tracker", tracker.Name).
				Category(errors.CategoryConflict).
				Context("tracker_id", tracker.ID).
				Build()
			return c.HandleDomainError(ctx, last, "Cannot delete the last active tracker")
		}
	}

	roundCount, err := c.DS.CountRoundsForTracker(id)
	if err != nil {
		return c.HandleDomainError(ctx, err, "Failed to count tracker rounds")
	}

	if roundCount == 0 {
		if err := c.DS.DeleteTracker(id); err != nil {
			return c.HandleDomainError(ctx, err, "Failed to delete tracker")
		}
	} else {
		if err := c.DS.DeactivateTracker(id); err != nil {
			return c.HandleDomainError(ctx, err, "Failed to deactivate tracker")
		}
	}

	return ctx.NoContent(http.StatusNoContent)
}
