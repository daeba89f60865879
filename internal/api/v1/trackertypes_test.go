package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tphakala/habitwheel/internal/datastore"
)

func TestCreateTrackerType(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	mockDS.On("GetTrackerTypeByName", "Fitness").
		Return(datastore.TrackerType{}, notFoundErr("tracker type"))
	mockDS.On("CreateTrackerType", "Fitness").
		Return(datastore.TrackerType{ID: 2, Name: "Fitness", Active: true}, nil)

	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/tracker-types", `{"name":"Fitness"}`)
	c.SetPath("/api/v1/tracker-types")

	if assert.NoError(t, controller.CreateTrackerType(c)) {
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp TrackerTypeResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Fitness", resp.Name)
		assert.True(t, resp.Active)
	}
	mockDS.AssertExpectations(t)
}

func TestCreateTrackerTypeConflictsWithActiveName(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	mockDS.On("GetTrackerTypeByName", "Fitness").
		Return(datastore.TrackerType{ID: 2, Name: "Fitness", Active: true}, nil)

	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/tracker-types", `{"name":"Fitness"}`)
	c.SetPath("/api/v1/tracker-types")

	assert.NoError(t, controller.CreateTrackerType(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	mockDS.AssertNotCalled(t, "CreateTrackerType")
}

func TestCreateTrackerTypeReactivatesInactiveName(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	mockDS.On("GetTrackerTypeByName", "Fitness").
		Return(datastore.TrackerType{ID: 2, Name: "Fitness", Active: false}, nil)
	mockDS.On("ReactivateTrackerType", uint(2)).
		Return(datastore.TrackerType{ID: 2, Name: "Fitness", Active: true}, nil)

	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/tracker-types", `{"name":"Fitness"}`)
	c.SetPath("/api/v1/tracker-types")

	if assert.NoError(t, controller.CreateTrackerType(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp TrackerTypeResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Active)
	}
	mockDS.AssertNotCalled(t, "CreateTrackerType")
	mockDS.AssertExpectations(t)
}

func TestGetTrackerTypesWithStats(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	stats := []datastore.TrackerTypeStats{
		{
			TrackerType:     datastore.TrackerType{ID: 1, Name: "Default", Active: true},
			CategoriesCount: 3,
			TrackersCount:   2,
			RoundsCount:     5,
		},
	}
	mockDS.On("GetTrackerTypeStats", false).Return(stats, nil)

	c, rec := newJSONContext(e, http.MethodGet, "/api/v1/tracker-types?includeStats=true", "")
	c.SetPath("/api/v1/tracker-types")

	if assert.NoError(t, controller.GetTrackerTypes(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp []TrackerTypeResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		if assert.Len(t, resp, 1) {
			assert.NotNil(t, resp[0].CategoriesCount)
			assert.Equal(t, int64(3), *resp[0].CategoriesCount)
			assert.Equal(t, int64(5), *resp[0].RoundsCount)
		}
	}
	mockDS.AssertExpectations(t)
}

func TestDeleteTrackerTypePassesTrackerFlag(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	mockDS.On("GetTrackerType", uint(4)).
		Return(datastore.TrackerType{ID: 4, Name: "Old", Active: true}, nil)
	mockDS.On("DeactivateTrackerType", uint(4), true).Return(nil)

	c, rec := newJSONContext(e, http.MethodDelete, "/api/v1/tracker-types/4?deactivateTrackers=true", "")
	c.SetPath("/api/v1/tracker-types/:id")
	c.SetParamNames("id")
	c.SetParamValues("4")

	assert.NoError(t, controller.DeleteTrackerType(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	mockDS.AssertExpectations(t)
}
