package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/tphakala/habitwheel/internal/datastore"
)

func TestCreateCategory(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	mockDS.On("GetTrackerType", uint(1)).
		Return(datastore.TrackerType{ID: 1, Name: "Default", Active: true}, nil)
	mockDS.On("CountActiveCategories", uint(1)).Return(int64(2), nil)
	mockDS.On("NextCategorySortOrder", uint(1)).Return(3, nil)
	mockDS.On("GetCategoryByName", uint(1), "Exercise").
		Return(datastore.Category{}, notFoundErr("category"))
	mockDS.On("CreateCategory", mock.AnythingOfType("*datastore.Category")).
		Run(func(args mock.Arguments) {
			args.Get(0).(*datastore.Category).ID = 7
		}).
		Return(nil)

	body := `{"name":"Exercise","allowDaysOffPerWeek":2}`
	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/tracker-types/1/categories", body)
	c.SetPath("/api/v1/tracker-types/:id/categories")
	c.SetParamNames("id")
	c.SetParamValues("1")

	if assert.NoError(t, controller.CreateCategory(c)) {
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp CategoryResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, uint(7), resp.ID)
		assert.Equal(t, "Exercise", resp.Name)
		assert.Equal(t, 3, resp.SortOrder)
		assert.Equal(t, 2, resp.AllowDaysOffPerWeek)
		assert.True(t, resp.AllowTreat, "treat should default to allowed")
		assert.True(t, resp.AllowSick, "sick should default to allowed")
	}
	mockDS.AssertExpectations(t)
}

func TestCreateCategoryEnforcesCapacity(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	mockDS.On("GetTrackerType", uint(1)).
		Return(datastore.TrackerType{ID: 1, Name: "Default", Active: true}, nil)
	mockDS.On("CountActiveCategories", uint(1)).Return(int64(5), nil)

	body := `{"name":"One Too Many"}`
	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/tracker-types/1/categories", body)
	c.SetPath("/api/v1/tracker-types/:id/categories")
	c.SetParamNames("id")
	c.SetParamValues("1")

	assert.NoError(t, controller.CreateCategory(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	mockDS.AssertNotCalled(t, "CreateCategory")
}

func TestCreateCategoryConflictsWithActiveName(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	mockDS.On("GetTrackerType", uint(1)).
		Return(datastore.TrackerType{ID: 1, Name: "Default", Active: true}, nil)
	mockDS.On("CountActiveCategories", uint(1)).Return(int64(1), nil)
	mockDS.On("NextCategorySortOrder", uint(1)).Return(2, nil)
	mockDS.On("GetCategoryByName", uint(1), "Exercise").
		Return(datastore.Category{ID: 7, Name: "Exercise", Active: true}, nil)

	body := `{"name":"Exercise"}`
	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/tracker-types/1/categories", body)
	c.SetPath("/api/v1/tracker-types/:id/categories")
	c.SetParamNames("id")
	c.SetParamValues("1")

	assert.NoError(t, controller.CreateCategory(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	mockDS.AssertNotCalled(t, "CreateCategory")
}

func TestCreateCategoryReactivatesInactiveName(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	mockDS.On("GetTrackerType", uint(1)).
		Return(datastore.TrackerType{ID: 1, Name: "Default", Active: true}, nil)
	mockDS.On("CountActiveCategories", uint(1)).Return(int64(1), nil)
	mockDS.On("NextCategorySortOrder", uint(1)).Return(4, nil)
	mockDS.On("GetCategoryByName", uint(1), "Exercise").
		Return(datastore.Category{ID: 7, TrackerTypeID: 1, Name: "Exercise", Active: false}, nil)
	mockDS.On("ReactivateCategory", mock.AnythingOfType("*datastore.Category")).Return(nil)

	body := `{"name":"Exercise","allowDaysOffPerWeek":1}`
	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/tracker-types/1/categories", body)
	c.SetPath("/api/v1/tracker-types/:id/categories")
	c.SetParamNames("id")
	c.SetParamValues("1")

	if assert.NoError(t, controller.CreateCategory(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp CategoryResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Active)
		assert.Equal(t, 4, resp.SortOrder, "reactivated category moves to the bottom")
		assert.Equal(t, 1, resp.AllowDaysOffPerWeek)
	}
	mockDS.AssertNotCalled(t, "CreateCategory")
	mockDS.AssertExpectations(t)
}

func TestUpdateCategoryRejectsDaysOffOutOfRange(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	mockDS.On("GetCategory", uint(7)).
		Return(datastore.Category{ID: 7, TrackerTypeID: 1, Name: "Exercise", Active: true}, nil)

	body := `{"allowDaysOffPerWeek":9}`
	c, rec := newJSONContext(e, http.MethodPatch, "/api/v1/categories/7", body)
	c.SetPath("/api/v1/categories/:id")
	c.SetParamNames("id")
	c.SetParamValues("7")

	assert.NoError(t, controller.UpdateCategory(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockDS.AssertNotCalled(t, "UpdateCategory")
}

func TestReorderCategoryRejectsUnknownDirection(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	body := `{"direction":"sideways"}`
	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/categories/7/reorder", body)
	c.SetPath("/api/v1/categories/:id/reorder")
	c.SetParamNames("id")
	c.SetParamValues("7")

	assert.NoError(t, controller.ReorderCategory(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockDS.AssertNotCalled(t, "ReorderCategory")
}

func TestReorderCategory(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	mockDS.On("ReorderCategory", uint(7), "up").Return(nil)
	mockDS.On("GetCategory", uint(7)).
		Return(datastore.Category{ID: 7, Name: "Exercise", SortOrder: 1, Active: true}, nil)

	body := `{"direction":"up"}`
	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/categories/7/reorder", body)
	c.SetPath("/api/v1/categories/:id/reorder")
	c.SetParamNames("id")
	c.SetParamValues("7")

	if assert.NoError(t, controller.ReorderCategory(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp CategoryResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.SortOrder)
	}
	mockDS.AssertExpectations(t)
}
