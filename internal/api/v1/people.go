package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/habitwheel/internal/datastore"
)

// defaultTrackerTypeName is the tracker type provisioned for every new
// person so they can start tracking without setup.
const defaultTrackerTypeName = "Default"

// PersonResponse is the JSON shape of a person.
type PersonResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
}

func personResponse(p *datastore.Person) PersonResponse {
	return PersonResponse{
		ID:        p.ID,
		Name:      p.Name,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}

// initPeopleRoutes registers person management endpoints
func (c *Controller) initPeopleRoutes() {
	c.Group.GET("/people", c.GetPeople)
	c.Group.POST("/people", c.CreatePerson)
	c.Group.GET("/people/:id", c.GetPerson)
	c.Group.PATCH("/people/:id", c.UpdatePerson)
	c.Group.DELETE("/people/:id", c.DeletePerson)
}

// GetPeople lists every person.
func (c *Controller) GetPeople(ctx echo.Context) error {
	people, err := c.DS.GetAllPeople()
	if err != nil {
		return c.HandleDomainError(ctx, err, "Failed to list people")
	}

	responses := make([]PersonResponse, 0, len(people))
	for i := range people {
		responses = append(responses, personResponse(&people[i]))
	}
	return ctx.JSON(http.StatusOK, responses)
}

// CreatePerson creates a person together with a default tracker.
func (c *Controller) CreatePerson(ctx echo.Context) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	name, err := trimmedName(req.Name, "name")
	if err != nil {
		return c.HandleDomainError(ctx, err, "Invalid person name")
	}

	person, err := c.DS.CreatePersonWithDefaults(name, defaultTrackerTypeName)
	if err != nil {
		return c.HandleDomainError(ctx, err, "Failed to create person")
	}

	return ctx.JSON(http.StatusCreated, personResponse(&person))
}

// GetPerson retrieves one person.
func (c *Controller) GetPerson(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return c.HandleDomainError(ctx, err, "Invalid person ID")
	}

	person, err := c.DS.GetPerson(id)
	if err != nil {
		return c.HandleDomainError(ctx, err, "Failed to get person")
	}

	return ctx.JSON(http.StatusOK, personResponse(&person))
}

// UpdatePerson renames a person.
func (c *Controller) UpdatePerson(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return c.HandleDomainError(ctx, err, "Invalid person ID")
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	name, err := trimmedName(req.Name, "name")
	if err != nil {
		return c.HandleDomainError(ctx, err, "Invalid person name")
	}

	person, err := c.DS.RenamePerson(id, name)
	if err != nil {
		return c.HandleDomainError(ctx, err, "Failed to rename person")
	}

	return ctx.JSON(http.StatusOK, personResponse(&person))
}

// DeletePerson removes a person and all their tracking history.
func (c *Controller) DeletePerson(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return c.HandleDomainError(ctx, err, "Invalid person ID")
	}

	if err := c.DS.DeletePerson(id); err != nil {
		return c.HandleDomainError(ctx, err, "Failed to delete person")
	}

	return ctx.NoContent(http.StatusNoContent)
}
