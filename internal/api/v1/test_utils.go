// test_utils.go: Package api provides shared test utilities for API v1 tests.

package api

import (
	"log"
	"os"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/tphakala/habitwheel/internal/conf"
	"github.com/tphakala/habitwheel/internal/datastore"
)

// MockDataStore implements the datastore.Interface for testing.
// This is a shared implementation used across all test files.
type MockDataStore struct {
	mock.Mock
}

func (m *MockDataStore) Open() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockDataStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockDataStore) Ping() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockDataStore) GetAllPeople() ([]datastore.Person, error) {
	args := m.Called()
	return args.Get(0).([]datastore.Person), args.Error(1)
}

func (m *MockDataStore) GetPerson(id uint) (datastore.Person, error) {
	args := m.Called(id)
	return args.Get(0).(datastore.Person), args.Error(1)
}

func (m *MockDataStore) CreatePersonWithDefaults(name, defaultTrackerTypeName string) (datastore.Person, error) {
	args := m.Called(name, defaultTrackerTypeName)
	return args.Get(0).(datastore.Person), args.Error(1)
}

func (m *MockDataStore) RenamePerson(id uint, name string) (datastore.Person, error) {
	args := m.Called(id, name)
	return args.Get(0).(datastore.Person), args.Error(1)
}

func (m *MockDataStore) DeletePerson(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockDataStore) GetTrackerTypes(includeInactive bool) ([]datastore.TrackerType, error) {
	args := m.Called(includeInactive)
	return args.Get(0).([]datastore.TrackerType), args.Error(1)
}

func (m *MockDataStore) GetTrackerTypeStats(includeInactive bool) ([]datastore.TrackerTypeStats, error) {
	args := m.Called(includeInactive)
	return args.Get(0).([]datastore.TrackerTypeStats), args.Error(1)
}

func (m *MockDataStore) GetTrackerType(id uint) (datastore.TrackerType, error) {
	args := m.Called(id)
	return args.Get(0).(datastore.TrackerType), args.Error(1)
}

func (m *MockDataStore) GetTrackerTypeByName(name string) (datastore.TrackerType, error) {
	args := m.Called(name)
	return args.Get(0).(datastore.TrackerType), args.Error(1)
}

func (m *MockDataStore) CreateTrackerType(name string) (datastore.TrackerType, error) {
	args := m.Called(name)
	return args.Get(0).(datastore.TrackerType), args.Error(1)
}

func (m *MockDataStore) ReactivateTrackerType(id uint) (datastore.TrackerType, error) {
	args := m.Called(id)
	return args.Get(0).(datastore.TrackerType), args.Error(1)
}

func (m *MockDataStore) RenameTrackerType(id uint, name string) (datastore.TrackerType, error) {
	args := m.Called(id, name)
	return args.Get(0).(datastore.TrackerType), args.Error(1)
}

func (m *MockDataStore) DeactivateTrackerType(id uint, deactivateTrackers bool) error {
	args := m.Called(id, deactivateTrackers)
	return args.Error(0)
}

func (m *MockDataStore) GetTrackers(personID uint, includeInactive bool) ([]datastore.TrackerStats, error) {
	args := m.Called(personID, includeInactive)
	return args.Get(0).([]datastore.TrackerStats), args.Error(1)
}

func (m *MockDataStore) GetTracker(id uint) (datastore.Tracker, error) {
	args := m.Called(id)
	return args.Get(0).(datastore.Tracker), args.Error(1)
}

func (m *MockDataStore) CreateTracker(tracker *datastore.Tracker) error {
	args := m.Called(tracker)
	return args.Error(0)
}

func (m *MockDataStore) CountTrackersOfType(personID, trackerTypeID uint) (int64, error) {
	args := m.Called(personID, trackerTypeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDataStore) CountActiveTrackers(personID uint) (int64, error) {
	args := m.Called(personID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDataStore) CountRoundsForTracker(trackerID uint) (int64, error) {
	args := m.Called(trackerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDataStore) DeleteTracker(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockDataStore) DeactivateTracker(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockDataStore) GetCategories(trackerTypeID uint, includeInactive bool) ([]datastore.Category, error) {
	args := m.Called(trackerTypeID, includeInactive)
	return args.Get(0).([]datastore.Category), args.Error(1)
}

func (m *MockDataStore) GetCategory(id uint) (datastore.Category, error) {
	args := m.Called(id)
	return args.Get(0).(datastore.Category), args.Error(1)
}

func (m *MockDataStore) GetCategoryByName(trackerTypeID uint, name string) (datastore.Category, error) {
	args := m.Called(trackerTypeID, name)
	return args.Get(0).(datastore.Category), args.Error(1)
}

func (m *MockDataStore) CountActiveCategories(trackerTypeID uint) (int64, error) {
	args := m.Called(trackerTypeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDataStore) CreateCategory(category *datastore.Category) error {
	args := m.Called(category)
	return args.Error(0)
}

func (m *MockDataStore) ReactivateCategory(category *datastore.Category) error {
	args := m.Called(category)
	return args.Error(0)
}

func (m *MockDataStore) UpdateCategory(category *datastore.Category, applyToExisting bool) error {
	args := m.Called(category, applyToExisting)
	return args.Error(0)
}

func (m *MockDataStore) SoftDeleteCategory(id uint, removeFromActiveRounds bool) error {
	args := m.Called(id, removeFromActiveRounds)
	return args.Error(0)
}

func (m *MockDataStore) ReorderCategory(id uint, direction string) error {
	args := m.Called(id, direction)
	return args.Error(0)
}

func (m *MockDataStore) NextCategorySortOrder(trackerTypeID uint) (int, error) {
	args := m.Called(trackerTypeID)
	return args.Int(0), args.Error(1)
}

func (m *MockDataStore) CreateRound(round *datastore.Round, snapshots []datastore.RoundCategory) error {
	args := m.Called(round, snapshots)
	return args.Error(0)
}

func (m *MockDataStore) GetRound(id uint) (datastore.Round, error) {
	args := m.Called(id)
	return args.Get(0).(datastore.Round), args.Error(1)
}

func (m *MockDataStore) GetRoundsForPerson(personID, trackerID uint) ([]datastore.Round, error) {
	args := m.Called(personID, trackerID)
	return args.Get(0).([]datastore.Round), args.Error(1)
}

func (m *MockDataStore) GetLatestRoundForTracker(trackerID uint) (datastore.Round, error) {
	args := m.Called(trackerID)
	return args.Get(0).(datastore.Round), args.Error(1)
}

func (m *MockDataStore) RoundNumberForTracker(trackerID uint, createdAt time.Time) (int64, error) {
	args := m.Called(trackerID, createdAt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDataStore) ShiftRoundStart(roundID uint, newStart string) error {
	args := m.Called(roundID, newStart)
	return args.Error(0)
}

func (m *MockDataStore) UpdateRoundGoalWeight(roundID uint, goalWeight *float64) error {
	args := m.Called(roundID, goalWeight)
	return args.Error(0)
}

func (m *MockDataStore) DeleteRound(roundID uint) error {
	args := m.Called(roundID)
	return args.Error(0)
}

func (m *MockDataStore) GetEntry(roundID, categoryID uint, date string) (datastore.Entry, error) {
	args := m.Called(roundID, categoryID, date)
	return args.Get(0).(datastore.Entry), args.Error(1)
}

func (m *MockDataStore) UpsertEntry(roundID, categoryID uint, date, status string) (datastore.Entry, error) {
	args := m.Called(roundID, categoryID, date, status)
	return args.Get(0).(datastore.Entry), args.Error(1)
}

func (m *MockDataStore) UpsertWeightEntry(roundID uint, weekIndex int, weight float64, date string) (datastore.WeightEntry, error) {
	args := m.Called(roundID, weekIndex, weight, date)
	return args.Get(0).(datastore.WeightEntry), args.Error(1)
}

func (m *MockDataStore) GetAppSettings(defaults datastore.AppSettings) (datastore.AppSettings, error) {
	args := m.Called(defaults)
	return args.Get(0).(datastore.AppSettings), args.Error(1)
}

func (m *MockDataStore) UpdateWeightUnit(unit string) (datastore.AppSettings, error) {
	args := m.Called(unit)
	return args.Get(0).(datastore.AppSettings), args.Error(1)
}

// setupTestEnvironment creates an Echo instance, mock datastore and a fully
// initialized controller for handler tests.
func setupTestEnvironment(t *testing.T) (*echo.Echo, *MockDataStore, *Controller) {
	t.Helper()

	e := echo.New()
	mockDS := new(MockDataStore)

	settings := &conf.Settings{
		WebServer: conf.WebServerSettings{
			Debug: true,
		},
		Tracking: conf.TrackingSettings{
			RoundLengthWeeks: 8,
			WeekStartsOn:     0,
			Timezone:         "America/New_York",
			WeightUnit:       "LBS",
		},
	}

	logger := log.New(os.Stdout, "API TEST: ", log.LstdFlags)

	controller, err := New(e, mockDS, settings, logger, nil)
	if err != nil {
		t.Fatalf("Failed to create test API controller: %v", err)
	}

	return e, mockDS, controller
}
