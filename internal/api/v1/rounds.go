package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/habitwheel/internal/datastore"
	"github.com/tphakala/habitwheel/internal/errors"
	"github.com/tphakala/habitwheel/internal/habit"
)

// RoundCategoryResponse is the frozen snapshot of one ring segment, with the
// live allowance settings the status cycle and calculator use.
type RoundCategoryResponse struct {
	CategoryID          uint   `json:"categoryId"`
	DisplayName         string `json:"displayName"`
	SortOrder           int    `json:"sortOrder"`
	AllowDaysOffPerWeek int    `json:"allowDaysOffPerWeek"`
	AllowTreat          bool   `json:"allowTreat"`
	AllowSick           bool   `json:"allowSick"`
}

// EntryResponse is one category-day cell of a round.
type EntryResponse struct {
	CategoryID uint   `json:"categoryId"`
	Date       string `json:"date"`
	Status     string `json:"status"`
}

// WeightEntryResponse is one weekly weight sample.
type WeightEntryResponse struct {
	WeekIndex int     `json:"weekIndex"`
	Weight    float64 `json:"weight"`
	Date      string  `json:"date"`
}

// RoundResponse is the JSON shape of a round with its full tracking state.
type RoundResponse struct {
	ID              uint                    `json:"id"`
	TrackerID       uint                    `json:"trackerId"`
	PersonID        uint                    `json:"personId"`
	TrackerName     string                  `json:"trackerName"`
	TrackerTypeName string                  `json:"trackerTypeName"`
	StartDate       string                  `json:"startDate"`
	LengthWeeks     int                     `json:"lengthWeeks"`
	GoalWeight      *float64                `json:"goalWeight"`
	RoundNumber     int64                   `json:"roundNumber"`
	CompletedWeeks  int                     `json:"completedWeeks"`
	CreatedAt       string                  `json:"createdAt"`
	Categories      []RoundCategoryResponse `json:"categories"`
	Entries         []EntryResponse         `json:"entries"`
	WeightEntries   []WeightEntryResponse   `json:"weightEntries"`
	Summary         *habit.Summary          `json:"summary,omitempty"`
}

// initRoundRoutes registers round management endpoints
func (c *Controller) initRoundRoutes() {
	c.Group.POST("/trackers/:id/rounds", c.CreateRound)
	c.Group.GET("/trackers/:id/rounds/latest", c.GetLatestRound)
	c.Group.GET("/rounds/:id", c.GetRound)
	c.Group.GET("/people/:id/rounds", c.GetRoundsForPerson)
	c.Group.PATCH("/rounds/:id", c.UpdateRound)
	c.Group.DELETE("/rounds/:id", c.DeleteRound)
}

// location resolves the configured display timezone, falling back to UTC.
func (c *Controller) location() *time.Location {
	loc, err := time.LoadLocation(c.Settings.Tracking.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// roundResponse assembles the full round payload, including the completion
// summary computed over the requested window.
func (c *Controller) roundResponse(round *datastore.Round, windowWeeks int) (RoundResponse, error) {
	today := habit.Today(c.location())
	completed, err := habit.CompletedWeeks(round.StartDate, today, round.LengthWeeks)
	if err != nil {
		return RoundResponse{}, err
	}
	if windowWeeks < 0 {
		windowWeeks = completed
	}

	roundNumber, err := c.DS.RoundNumberForTracker(round.TrackerID, round.CreatedAt)
	if err != nil {
		return RoundResponse{}, err
	}

	resp := RoundResponse{
		ID:              round.ID,
		TrackerID:       round.TrackerID,
		PersonID:        round.PersonID,
		TrackerName:     round.Tracker.Name,
		TrackerTypeName: round.Tracker.TrackerType.Name,
		StartDate:       round.StartDate,
		LengthWeeks:     round.LengthWeeks,
		GoalWeight:      round.GoalWeight,
		RoundNumber:     roundNumber,
		CompletedWeeks:  completed,
		CreatedAt:       round.CreatedAt.Format(time.RFC3339),
	}

	snapshots := make([]habit.CategorySnapshot, 0, len(round.RoundCategories))
	for i := range round.RoundCategories {
		rc := &round.RoundCategories[i]
		resp.Categories = append(resp.Categories, RoundCategoryResponse{
			CategoryID:          rc.CategoryID,
			DisplayName:         rc.DisplayName,
			SortOrder:           rc.SortOrder,
			AllowDaysOffPerWeek: rc.Category.AllowDaysOffPerWeek,
			AllowTreat:          rc.Category.AllowTreat,
			AllowSick:           rc.Category.AllowSick,
		})
		snapshots = append(snapshots, habit.CategorySnapshot{
			CategoryID:          rc.CategoryID,
			DisplayName:         rc.DisplayName,
			SortOrder:           rc.SortOrder,
			AllowDaysOffPerWeek: rc.Category.AllowDaysOffPerWeek,
		})
	}

	entries := make([]habit.DayEntry, 0, len(round.Entries))
	resp.Entries = make([]EntryResponse, 0, len(round.Entries))
	for i := range round.Entries {
		e := &round.Entries[i]
		resp.Entries = append(resp.Entries, EntryResponse{
			CategoryID: e.CategoryID,
			Date:       e.Date,
			Status:     e.Status,
		})
		entries = append(entries, habit.DayEntry{
			CategoryID: e.CategoryID,
			Date:       e.Date,
			Status:     habit.ParseStatus(e.Status),
		})
	}

	resp.WeightEntries = make([]WeightEntryResponse, 0, len(round.WeightEntries))
	for i := range round.WeightEntries {
		w := &round.WeightEntries[i]
		resp.WeightEntries = append(resp.WeightEntries, WeightEntryResponse{
			WeekIndex: w.WeekIndex,
			Weight:    w.Weight,
			Date:      w.Date,
		})
	}

	start := time.Now()
	summary, err := habit.Summarize(round.StartDate, round.LengthWeeks, snapshots, entries, windowWeeks)
	if err != nil {
		return RoundResponse{}, err
	}
	if c.metrics != nil && c.metrics.Habit != nil {
		c.metrics.Habit.RecordSummaryDuration(time.Since(start).Seconds())
	}
	resp.Summary = &summary

	return resp, nil
}

// windowQuery reads the optional summary window override. A negative value
// means "use the completed week count".
func windowQuery(ctx echo.Context) (int, error) {
	raw := ctx.QueryParam("window")
	if raw == "" {
		return -1, nil
	}
	var window int
	if err := echo.QueryParamsBinder(ctx).Int("window", &window).BindError(); err != nil || window < 0 {
		return 0, errors.Newf("invalid window: %q", raw).
			Category(errors.CategoryValidation).
			Context("window", raw).
			Build()
	}
	return window, nil
}

// CreateRound starts a new round for a tracker, freezing the tracker type's
// active categories into the round's snapshot. A tracker type with no active
// categories cannot start a round.
func (c *Controller) CreateRound(ctx echo.Context) error {
	trackerID, err := idParam(ctx, "id")
	if err != nil {
		return c.HandleDomainError(ctx, err, "Invalid tracker ID")
	}

	tracker, err := c.DS.GetTracker(trackerID)
	if err != nil {
		return c.HandleDomainError(ctx, err, "Failed to get tracker")
	}

	var req struct {
		StartDate   string   `json:"startDate"`
		LengthWeeks int      `json:"lengthWeeks"`
		GoalWeight  *float64 `json:"goalWeight"`
	}
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	appSettings, err := c.appSettings()
	if err != nil {
		return c.HandleDomainError(ctx, err, "Failed to load settings")
	}

	startDate := req.StartDate
	if startDate == "" {
		startDate = habit.Today(c.location())
	} else if _, err := habit.ParseDay(startDate); err != nil {
		return c.HandleDomainError(ctx, err, "Invalid start date")
	}

	lengthWeeks := req.LengthWeeks
	if lengthWeeks == 0 {
		lengthWeeks = appSettings.RoundLengthWeeks
	}
	if lengthWeeks != 4 && lengthWeeks != 8 {
		bad := errors.Newf("lengthWeeks must be 4 or 8, got %d", lengthWeeks).
			Category(errors.CategoryValidation).
			Context("length_weeks", lengthWeeks).
			Build()
		return c.HandleDomainError(ctx, bad, "Invalid round length")
	}
	if req.GoalWeight != nil && *req.GoalWeight <= 0 {
		bad := errors.Newf("goalWeight must be positive, got %v", *req.GoalWeight).
			Category(errors.CategoryValidation).
			Context("goal_weight", *req.GoalWeight).
			Build()
		return c.HandleDomainError(ctx, bad, "Invalid goal weight")
	}

	categories, err := c.DS.GetCategories(tracker.TrackerTypeID, false)
	if err != nil {
		return c.HandleDomainError(ctx, err, "Failed to list categories")
	}
	if len(categories) == 0 {
		empty := errors.Newf("tracker type %q has no active categories", tracker.TrackerType.Name).
			Category(errors.CategoryValidation).
			Context("tracker_type_id", tracker.TrackerTypeID).
			Build()
		return c.HandleDomainError(ctx, empty, "Cannot start a round without categories")
	}

	round := datastore.Round{
		TrackerID:   tracker.ID,
		PersonID:    tracker.PersonID,
		StartDate:   startDate,
		LengthWeeks: lengthWeeks,
		GoalWeight:  req.GoalWeight,
	}
	snapshots := make([]datastore.RoundCategory, 0, len(categories))
	for i := range categories {
		snapshots = append(snapshots, datastore.RoundCategory{
			CategoryID:  categories[i].ID,
			SortOrder:   categories[i].SortOrder,
			DisplayName: categories[i].Name,
		})
	}

	if err := c.DS.CreateRound(&round, snapshots); err != nil {
		return c.HandleDomainError(ctx, err, "Failed to create round")
	}
	if c.metrics != nil && c.metrics.Habit != nil {
		c.metrics.Habit.RecordRoundStarted()
	}

	created, err := c.DS.GetRound(round.ID)
	if err != nil {
		return c.HandleDomainError(ctx, err, "Failed to reload round")
	}
	resp, err := c.roundResponse(&created, -1)
	if err != nil {
		return c.HandleDomainError(ctx, err, "Failed to assemble round")
	}
	return ctx.JSON(http.StatusCreated, resp)
}

// GetRound retrieves one round with its completion summary.
func (c *Controller) GetRound(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return c.HandleDomainError(ctx, err, "Invalid round ID")
	}
	window, err := windowQuery(ctx)
	if err != nil {
		return c.HandleDomainError(ctx, err, "Invalid summary window")
	}

	round, err := c.DS.GetRound(id)
	if err != nil {
		return c.HandleDomainError(ctx, err, "Failed to get round")
	}
	resp, err := c.roundResponse(&round, window)
	if err != nil {
		return c.HandleDomainError(ctx, err, "Failed to assemble round")
	}
	return ctx.JSON(http.StatusOK, resp)
}

// GetLatestRound retrieves a tracker's most recent round, its active round.
func (c *Controller) GetLatestRound(ctx echo.Context) error {
	trackerID, err := idParam(ctx, "id")
	if err != nil {
		return c.HandleDomainError(ctx, err, "Invalid tracker ID")
	}
	window, err := windowQuery(ctx)
	if err != nil {
		return c.HandleDomainError(ctx, err, "Invalid summary window")
	}

	round, err := c.DS.GetLatestRoundForTracker(trackerID)
	if err != nil {
		return c.HandleDomainError(ctx, err, "Failed to get latest round")
	}
	resp, err := c.roundResponse(&round, window)
	if err != nil {
		return c.HandleDomainError(ctx, err, "Failed to assemble round")
	}
	return ctx.JSON(http.StatusOK, resp)
}

// GetRoundsForPerson lists a person's rounds with their completion
// summaries, for the history view. An optional trackerId query parameter
// narrows the history to one tracker.
func (c *Controller) GetRoundsForPerson(ctx echo.Context) error {
	personID, err := idParam(ctx, "id")
	if err != nil {
		return c.HandleDomainError(ctx, err, "Invalid person ID")
	}
	if _, err := c.DS.GetPerson(personID); err != nil {
		return c.HandleDomainError(ctx, err, "Failed to get person")
	}

	var trackerID uint
	if berr := echo.QueryParamsBinder(ctx).Uint("trackerId", &trackerID).BindError(); berr != nil {
		bad := errors.Newf("invalid trackerId: %q", ctx.QueryParam("trackerId")).
			Category(errors.CategoryValidation).
			Context("tracker_id", ctx.QueryParam("trackerId")).
			Build()
		return c.HandleDomainError(ctx, bad, "Invalid tracker ID")
	}

	rounds, err := c.DS.GetRoundsForPerson(personID, trackerID)
	if err != nil {
		return c.HandleDomainError(ctx, err, "Failed to list rounds")
	}

	responses := make([]RoundResponse, 0, len(rounds))
	for i := range rounds {
		resp, err := c.roundResponse(&rounds[i], -1)
		if err != nil {
			return c.HandleDomainError(ctx, err, "Failed to assemble round")
		}
		responses = append(responses, resp)
	}
	return ctx.JSON(http.StatusOK, responses)
}

// UpdateRound shifts a round's start date and/or updates its goal weight.
// Shifting moves every entry and weight entry by the same delta so recorded
// progress keeps its week alignment.
func (c *Controller) UpdateRound(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return c.HandleDomainError(ctx, err, "Invalid round ID")
	}

	var req struct {
		StartDate       *string  `json:"startDate"`
		GoalWeight      *float64 `json:"goalWeight"`
		ClearGoalWeight bool     `json:"clearGoalWeight"`
	}
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	if _, err := c.DS.GetRound(id); err != nil {
		return c.HandleDomainError(ctx, err, "Failed to get round")
	}

	if req.StartDate != nil {
		if _, err := habit.ParseDay(*req.StartDate); err != nil {
			return c.HandleDomainError(ctx, err, "Invalid start date")
		}
		if err := c.DS.ShiftRoundStart(id, *req.StartDate); err != nil {
			return c.HandleDomainError(ctx, err, "Failed to shift round start")
		}
	}

	switch {
	case req.ClearGoalWeight:
		if err := c.DS.UpdateRoundGoalWeight(id, nil); err != nil {
			return c.HandleDomainError(ctx, err, "Failed to clear goal weight")
		}
	case req.GoalWeight != nil:
		if *req.GoalWeight <= 0 {
			bad := errors.Newf("goalWeight must be positive, got %v", *req.GoalWeight).
				Category(errors.CategoryValidation).
				Context("goal_weight", *req.GoalWeight).
				Build()
			return c.HandleDomainError(ctx, bad, "Invalid goal weight")
		}
		if err := c.DS.UpdateRoundGoalWeight(id, req.GoalWeight); err != nil {
			return c.HandleDomainError(ctx, err, "Failed to update goal weight")
		}
	}

	round, err := c.DS.GetRound(id)
	if err != nil {
		return c.HandleDomainError(ctx, err, "Failed to reload round")
	}
	resp, err := c.roundResponse(&round, -1)
	if err != nil {
		return c.HandleDomainError(ctx, err, "Failed to assemble round")
	}
	return ctx.JSON(http.StatusOK, resp)
}

// DeleteRound removes a round and everything recorded in it.
func (c *Controller) DeleteRound(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return c.HandleDomainError(ctx, err, "Invalid round ID")
	}

	if err := c.DS.DeleteRound(id); err != nil {
		return c.HandleDomainError(ctx, err, "Failed to delete round")
	}
	return ctx.NoContent(http.StatusNoContent)
}
