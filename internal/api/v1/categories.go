package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/habitwheel/internal/datastore"
	"github.com/tphakala/habitwheel/internal/errors"
)

// maxActiveCategories caps the ring segments a tracker type can render.
const maxActiveCategories = 5

// CategoryResponse is the JSON shape of a category.
type CategoryResponse struct {
	ID                  uint   `json:"id"`
	TrackerTypeID       uint   `json:"trackerTypeId"`
	Name                string `json:"name"`
	SortOrder           int    `json:"sortOrder"`
	AllowDaysOffPerWeek int    `json:"allowDaysOffPerWeek"`
	AllowTreat          bool   `json:"allowTreat"`
	AllowSick           bool   `json:"allowSick"`
	Active              bool   `json:"active"`
}

func categoryResponse(cat *datastore.Category) CategoryResponse {
	return CategoryResponse{
		ID:                  cat.ID,
		TrackerTypeID:       cat.TrackerTypeID,
		Name:                cat.Name,
		SortOrder:           cat.SortOrder,
		AllowDaysOffPerWeek: cat.AllowDaysOffPerWeek,
		AllowTreat:          cat.AllowTreat,
		AllowSick:           cat.AllowSick,
		Active:              cat.Active,
	}
}

func validateDaysOff(days int) error {
	if days < 0 || days > 5 {
		return errors.Newf("allowDaysOffPerWeek must be between 0 and 5, got %d", days).
			Category(errors.CategoryValidation).
			Context("allow_days_off_per_week", days).
			Build()
	}
	return nil
}

// initCategoryRoutes registers category management endpoints
func (c *Controller) initCategoryRoutes() {
	c.Group.GET("/tracker-types/:id/categories", c.GetCategories)
	c.Group.POST("/tracker-types/:id/categories", c.CreateCategory)
	c.Group.PATCH("/categories/:id", c.UpdateCategory)
	c.Group.DELETE("/categories/:id", c.DeleteCategory)
	c.Group.POST("/categories/:id/reorder", c.ReorderCategory)
}

// GetCategories lists a tracker type's categories in ring order.
func (c *Controller) GetCategories(ctx echo.Context) error {
	typeID, err := idParam(ctx, "id")
	if err != nil {
		return c.HandleDomainError(ctx, err, "Invalid tracker type ID")
	}
	if _, err := c.DS.GetTrackerType(typeID); err != nil {
		return c.HandleDomainError(ctx, err, "Failed to get tracker type")
	}

	categories, err := c.DS.GetCategories(typeID, boolQuery(ctx, "includeInactive"))
	if err != nil {
		return c.HandleDomainError(ctx, err, "Failed to list categories")
	}

	responses := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		responses = append(responses, categoryResponse(&categories[i]))
	}
	return ctx.JSON(http.StatusOK, responses)
}

// CreateCategory adds a category to a tracker type, reactivating an inactive
// category of the same name with the new settings instead of duplicating it.
// The active category count is capped.
func (c *Controller) CreateCategory(ctx echo.Context) error {
	typeID, err := idParam(ctx, "id")
	if err != nil {
		return c.HandleDomainError(ctx, err, "Invalid tracker type ID")
	}
	if _, err := c.DS.GetTrackerType(typeID); err != nil {
		return c.HandleDomainError(ctx, err, "Failed to get tracker type")
	}

	var req struct {
		Name                string `json:"name"`
		AllowDaysOffPerWeek int    `json:"allowDaysOffPerWeek"`
		AllowTreat          *bool  `json:"allowTreat"`
		AllowSick           *bool  `json:"allowSick"`
	}
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	name, err := trimmedName(req.Name, "name")
	if err != nil {
		return c.HandleDomainError(ctx, err, "Invalid category name")
	}
	if err := validateDaysOff(req.AllowDaysOffPerWeek); err != nil {
		return c.HandleDomainError(ctx, err, "Invalid days off allowance")
	}

	// Treat and sick statuses default to allowed.
	allowTreat := req.AllowTreat == nil || *req.AllowTreat
	allowSick := req.AllowSick == nil || *req.AllowSick

	activeCount, err := c.DS.CountActiveCategories(typeID)
	if err != nil {
		return c.HandleDomainError(ctx, err, "Failed to count categories")
	}
	if activeCount >= maxActiveCategories {
		full := errors.Newf("tracker type already has %d active categories", activeCount).
			Category(errors.CategoryConflict).
			Context("tracker_type_id", typeID).
			Build()
		return c.HandleDomainError(ctx, full, "Category limit reached")
	}

	sortOrder, err := c.DS.NextCategorySortOrder(typeID)
	if err != nil {
		return c.HandleDomainError(ctx, err, "Failed to compute sort order")
	}

	existing, err := c.DS.GetCategoryByName(typeID, name)
	switch {
	case err == nil && existing.Active:
		conflict := errors.Newf("category %q already exists", name).
			Category(errors.CategoryConflict).
			Context("name", name).
			Build()
		return c.HandleDomainError(ctx, conflict, "Category already exists")
	case err == nil:
		existing.SortOrder = sortOrder
		existing.AllowDaysOffPerWeek = req.AllowDaysOffPerWeek
		existing.AllowTreat = allowTreat
		existing.AllowSick = allowSick
		if err := c.DS.ReactivateCategory(&existing); err != nil {
			return c.HandleDomainError(ctx, err, "Failed to reactivate category")
		}
		existing.Active = true
		return ctx.JSON(http.StatusOK, categoryResponse(&existing))
	case !datastore.IsNotFound(err):
		return c.HandleDomainError(ctx, err, "Failed to look up category")
	}

	category := datastore.Category{
		TrackerTypeID:       typeID,
		Name:                name,
		SortOrder:           sortOrder,
		AllowDaysOffPerWeek: req.AllowDaysOffPerWeek,
		AllowTreat:          allowTreat,
		AllowSick:           allowSick,
		Active:              true,
	}
	if err := c.DS.CreateCategory(&category); err != nil {
		return c.HandleDomainError(ctx, err, "Failed to create category")
	}
	return ctx.JSON(http.StatusCreated, categoryResponse(&category))
}

// UpdateCategory edits a category's settings. Renames only reach existing
// rounds when applyToExisting is set, and then only each tracker's most
// recent round.
func (c *Controller) UpdateCategory(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return c.HandleDomainError(ctx, err, "Invalid category ID")
	}

	category, err := c.DS.GetCategory(id)
	if err != nil {
		return c.HandleDomainError(ctx, err, "Failed to get category")
	}

	var req struct {
		Name                *string `json:"name"`
		AllowDaysOffPerWeek *int    `json:"allowDaysOffPerWeek"`
		AllowTreat          *bool   `json:"allowTreat"`
		AllowSick           *bool   `json:"allowSick"`
		ApplyToExisting     bool    `json:"applyToExisting"`
	}
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	if req.Name != nil {
		name, err := trimmedName(*req.Name, "name")
		if err != nil {
			return c.HandleDomainError(ctx, err, "Invalid category name")
		}
		category.Name = name
	}
	if req.AllowDaysOffPerWeek != nil {
		if err := validateDaysOff(*req.AllowDaysOffPerWeek); err != nil {
			return c.HandleDomainError(ctx, err, "Invalid days off allowance")
		}
		category.AllowDaysOffPerWeek = *req.AllowDaysOffPerWeek
	}
	if req.AllowTreat != nil {
		category.AllowTreat = *req.AllowTreat
	}
	if req.AllowSick != nil {
		category.AllowSick = *req.AllowSick
	}

	if err := c.DS.UpdateCategory(&category, req.ApplyToExisting); err != nil {
		return c.HandleDomainError(ctx, err, "Failed to update category")
	}
	return ctx.JSON(http.StatusOK, categoryResponse(&category))
}

// DeleteCategory soft-deletes a category. Historical rounds keep their
// snapshot; the removeFromActiveRounds query parameter also strips it from
// each tracker's most recent round.
func (c *Controller) DeleteCategory(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return c.HandleDomainError(ctx, err, "Invalid category ID")
	}

	if err := c.DS.SoftDeleteCategory(id, boolQuery(ctx, "removeFromActiveRounds")); err != nil {
		return c.HandleDomainError(ctx, err, "Failed to delete category")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// ReorderCategory moves a category one position up or down in the ring
// order. At either boundary the request succeeds without changes.
func (c *Controller) ReorderCategory(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return c.HandleDomainError(ctx, err, "Invalid category ID")
	}

	var req struct {
		Direction string `json:"direction"`
	}
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}
	if req.Direction != "up" && req.Direction != "down" {
		bad := errors.Newf("direction must be \"up\" or \"down\", got %q", req.Direction).
			Category(errors.CategoryValidation).
			Context("direction", req.Direction).
			Build()
		return c.HandleDomainError(ctx, bad, "Invalid reorder direction")
	}

	if err := c.DS.ReorderCategory(id, req.Direction); err != nil {
		return c.HandleDomainError(ctx, err, "Failed to reorder category")
	}

	category, err := c.DS.GetCategory(id)
	if err != nil {
		return c.HandleDomainError(ctx, err, "Failed to get category")
	}
	return ctx.JSON(http.StatusOK, categoryResponse(&category))
}
