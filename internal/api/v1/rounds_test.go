package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/tphakala/habitwheel/internal/datastore"
	"github.com/tphakala/habitwheel/internal/habit"
)

func testTracker() datastore.Tracker {
	return datastore.Tracker{
		ID:            1,
		PersonID:      1,
		TrackerTypeID: 1,
		Name:          "Default",
		Active:        true,
		TrackerType:   datastore.TrackerType{ID: 1, Name: "Default", Active: true},
	}
}

func defaultAppSettings() datastore.AppSettings {
	return datastore.AppSettings{
		ID:               1,
		RoundLengthWeeks: 8,
		WeekStartsOn:     0,
		Timezone:         "America/New_York",
		WeightUnit:       "LBS",
	}
}

func TestCreateRoundRequiresActiveCategories(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	mockDS.On("GetTracker", uint(1)).Return(testTracker(), nil)
	mockDS.On("GetAppSettings", mock.Anything).Return(defaultAppSettings(), nil)
	mockDS.On("GetCategories", uint(1), false).Return([]datastore.Category{}, nil)

	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/trackers/1/rounds", `{}`)
	c.SetPath("/api/v1/trackers/:id/rounds")
	c.SetParamNames("id")
	c.SetParamValues("1")

	assert.NoError(t, controller.CreateRound(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockDS.AssertNotCalled(t, "CreateRound")
}

func TestCreateRoundRejectsBadLength(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	mockDS.On("GetTracker", uint(1)).Return(testTracker(), nil)
	mockDS.On("GetAppSettings", mock.Anything).Return(defaultAppSettings(), nil)

	body := `{"lengthWeeks":6}`
	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/trackers/1/rounds", body)
	c.SetPath("/api/v1/trackers/:id/rounds")
	c.SetParamNames("id")
	c.SetParamValues("1")

	assert.NoError(t, controller.CreateRound(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockDS.AssertNotCalled(t, "CreateRound")
}

// summaryTestRound is a finished four-week round with one category and a
// fully DONE first week.
func summaryTestRound() datastore.Round {
	round := datastore.Round{
		ID:          5,
		TrackerID:   1,
		PersonID:    1,
		StartDate:   "2020-01-06",
		LengthWeeks: 4,
		Tracker:     testTracker(),
		RoundCategories: []datastore.RoundCategory{
			{
				RoundID:     5,
				CategoryID:  2,
				SortOrder:   1,
				DisplayName: "Exercise",
				Category: datastore.Category{
					ID:                  2,
					Name:                "Exercise",
					AllowDaysOffPerWeek: 0,
					AllowTreat:          true,
					AllowSick:           true,
					Active:              true,
				},
			},
		},
	}
	for day := 0; day < 7; day++ {
		date, _ := habit.AddDays(round.StartDate, day)
		round.Entries = append(round.Entries, datastore.Entry{
			RoundID:    5,
			CategoryID: 2,
			Date:       date,
			Status:     "DONE",
		})
	}
	return round
}

func TestGetRoundComputesSummary(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	mockDS.On("GetRound", uint(5)).Return(summaryTestRound(), nil)
	mockDS.On("RoundNumberForTracker", uint(1), mock.Anything).Return(int64(2), nil)

	c, rec := newJSONContext(e, http.MethodGet, "/api/v1/rounds/5", "")
	c.SetPath("/api/v1/rounds/:id")
	c.SetParamNames("id")
	c.SetParamValues("5")

	if assert.NoError(t, controller.GetRound(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp RoundResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		assert.Equal(t, int64(2), resp.RoundNumber)
		assert.Equal(t, 4, resp.CompletedWeeks, "long-finished round clamps to full length")
		assert.Len(t, resp.Categories, 1)
		assert.Len(t, resp.Entries, 7)

		if assert.NotNil(t, resp.Summary) {
			assert.Equal(t, 4, resp.Summary.WindowWeeks)
			if assert.Len(t, resp.Summary.Categories, 1) {
				weekly := resp.Summary.Categories[0].Weekly
				if assert.Len(t, weekly, 4) {
					assert.InDelta(t, 1.0, weekly[0], 1e-9)
					assert.InDelta(t, 0.0, weekly[1], 1e-9)
				}
			}
			// One perfect week out of four: 7 of 28 required days.
			if assert.NotNil(t, resp.Summary.Percent) {
				assert.InDelta(t, 0.25, *resp.Summary.Percent, 1e-9)
			}
		}
	}
	mockDS.AssertExpectations(t)
}

func TestGetRoundHonorsWindowOverride(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	mockDS.On("GetRound", uint(5)).Return(summaryTestRound(), nil)
	mockDS.On("RoundNumberForTracker", uint(1), mock.Anything).Return(int64(1), nil)

	c, rec := newJSONContext(e, http.MethodGet, "/api/v1/rounds/5?window=1", "")
	c.SetPath("/api/v1/rounds/:id")
	c.SetParamNames("id")
	c.SetParamValues("5")

	if assert.NoError(t, controller.GetRound(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp RoundResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		if assert.NotNil(t, resp.Summary) {
			assert.Equal(t, 1, resp.Summary.WindowWeeks)
			if assert.NotNil(t, resp.Summary.Percent) {
				assert.InDelta(t, 1.0, *resp.Summary.Percent, 1e-9, "first week was perfect")
			}
		}
	}
	mockDS.AssertExpectations(t)
}

func TestGetRoundsForPersonForwardsTrackerFilter(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	mockDS.On("GetPerson", uint(1)).Return(datastore.Person{ID: 1, Name: "Anna"}, nil)
	mockDS.On("GetRoundsForPerson", uint(1), uint(9)).Return([]datastore.Round{}, nil)

	c, rec := newJSONContext(e, http.MethodGet, "/api/v1/people/1/rounds?trackerId=9", "")
	c.SetPath("/api/v1/people/:id/rounds")
	c.SetParamNames("id")
	c.SetParamValues("1")

	if assert.NoError(t, controller.GetRoundsForPerson(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	mockDS.AssertExpectations(t)
}

func TestUpdateRoundShiftsStartDate(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	mockDS.On("GetRound", uint(5)).Return(summaryTestRound(), nil)
	mockDS.On("ShiftRoundStart", uint(5), "2020-01-13").Return(nil)
	mockDS.On("RoundNumberForTracker", uint(1), mock.Anything).Return(int64(1), nil)

	body := `{"startDate":"2020-01-13"}`
	c, rec := newJSONContext(e, http.MethodPatch, "/api/v1/rounds/5", body)
	c.SetPath("/api/v1/rounds/:id")
	c.SetParamNames("id")
	c.SetParamValues("5")

	if assert.NoError(t, controller.UpdateRound(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	mockDS.AssertExpectations(t)
}

func TestUpdateRoundRejectsNonPositiveGoalWeight(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	mockDS.On("GetRound", uint(5)).Return(summaryTestRound(), nil)

	body := `{"goalWeight":-10}`
	c, rec := newJSONContext(e, http.MethodPatch, "/api/v1/rounds/5", body)
	c.SetPath("/api/v1/rounds/:id")
	c.SetParamNames("id")
	c.SetParamValues("5")

	assert.NoError(t, controller.UpdateRound(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockDS.AssertNotCalled(t, "UpdateRoundGoalWeight")
}

func TestDeleteRound(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	mockDS.On("DeleteRound", uint(5)).Return(nil)

	c, rec := newJSONContext(e, http.MethodDelete, "/api/v1/rounds/5", "")
	c.SetPath("/api/v1/rounds/:id")
	c.SetParamNames("id")
	c.SetParamValues("5")

	assert.NoError(t, controller.DeleteRound(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	mockDS.AssertExpectations(t)
}
