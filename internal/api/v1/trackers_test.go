package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/tphakala/habitwheel/internal/datastore"
)

func TestCreateTrackerNumbersDefaultName(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	mockDS.On("GetPerson", uint(1)).Return(datastore.Person{ID: 1, Name: "Anna"}, nil)
	mockDS.On("GetTrackerType", uint(1)).
		Return(datastore.TrackerType{ID: 1, Name: "Default", Active: true}, nil)
	mockDS.On("CountTrackersOfType", uint(1), uint(1)).Return(int64(1), nil)
	mockDS.On("CreateTracker", mock.AnythingOfType("*datastore.Tracker")).
		Run(func(args mock.Arguments) {
			tracker := args.Get(0).(*datastore.Tracker)
			tracker.ID = 9
			tracker.TrackerType = datastore.TrackerType{ID: 1, Name: "Default", Active: true}
		}).
		Return(nil)

	body := `{"trackerTypeId":1}`
	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/people/1/trackers", body)
	c.SetPath("/api/v1/people/:id/trackers")
	c.SetParamNames("id")
	c.SetParamValues("1")

	if assert.NoError(t, controller.CreateTracker(c)) {
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp TrackerResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Default 2", resp.Name, "second tracker of a type gets a number")
	}
	mockDS.AssertExpectations(t)
}

func TestCreateTrackerRejectsInactiveType(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	mockDS.On("GetPerson", uint(1)).Return(datastore.Person{ID: 1, Name: "Anna"}, nil)
	mockDS.On("GetTrackerType", uint(4)).
		Return(datastore.TrackerType{ID: 4, Name: "Old", Active: false}, nil)

	body := `{"trackerTypeId":4}`
	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/people/1/trackers", body)
	c.SetPath("/api/v1/people/:id/trackers")
	c.SetParamNames("id")
	c.SetParamValues("1")

	assert.NoError(t, controller.CreateTracker(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockDS.AssertNotCalled(t, "CreateTracker")
}

func TestDeleteTrackerRefusesLastActive(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	mockDS.On("GetTracker", uint(9)).Return(testTracker(), nil)
	mockDS.On("CountActiveTrackers", uint(1)).Return(int64(1), nil)

	c, rec := newJSONContext(e, http.MethodDelete, "/api/v1/trackers/9", "")
	c.SetPath("/api/v1/trackers/:id")
	c.SetParamNames("id")
	c.SetParamValues("9")

	assert.NoError(t, controller.DeleteTracker(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	mockDS.AssertNotCalled(t, "DeleteTracker")
	mockDS.AssertNotCalled(t, "DeactivateTracker")
}

func TestDeleteTrackerWithoutRoundsIsHardDelete(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	mockDS.On("GetTracker", uint(9)).Return(testTracker(), nil)
	mockDS.On("CountActiveTrackers", uint(1)).Return(int64(2), nil)
	mockDS.On("CountRoundsForTracker", uint(9)).Return(int64(0), nil)
	mockDS.On("DeleteTracker", uint(9)).Return(nil)

	c, rec := newJSONContext(e, http.MethodDelete, "/api/v1/trackers/9", "")
	c.SetPath("/api/v1/trackers/:id")
	c.SetParamNames("id")
	c.SetParamValues("9")

	assert.NoError(t, controller.DeleteTracker(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	mockDS.AssertNotCalled(t, "DeactivateTracker")
	mockDS.AssertExpectations(t)
}

func TestDeleteTrackerWithRoundsIsSoftDelete(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	mockDS.On("GetTracker", uint(9)).Return(testTracker(), nil)
	mockDS.On("CountActiveTrackers", uint(1)).Return(int64(2), nil)
	mockDS.On("CountRoundsForTracker", uint(9)).Return(int64(3), nil)
	mockDS.On("DeactivateTracker", uint(9)).Return(nil)

	c, rec := newJSONContext(e, http.MethodDelete, "/api/v1/trackers/9", "")
	c.SetPath("/api/v1/trackers/:id")
	c.SetParamNames("id")
	c.SetParamValues("9")

	assert.NoError(t, controller.DeleteTracker(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	mockDS.AssertNotCalled(t, "DeleteTracker")
	mockDS.AssertExpectations(t)
}
