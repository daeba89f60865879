// interfaces.go: this code defines the interface for the database operations
package datastore

import (
	"time"

	"gorm.io/gorm"

	"github.com/tphakala/habitwheel/internal/conf"
)

// Interface abstracts the underlying database implementation and defines the
// operations the API layer performs against the relational store.
type Interface interface {
	Open() error
	Close() error
	Ping() error

	// People
	GetAllPeople() ([]Person, error)
	GetPerson(id uint) (Person, error)
	CreatePersonWithDefaults(name, defaultTrackerTypeName string) (Person, error)
	RenamePerson(id uint, name string) (Person, error)
	DeletePerson(id uint) error

	// Tracker types
	GetTrackerTypes(includeInactive bool) ([]TrackerType, error)
	GetTrackerTypeStats(includeInactive bool) ([]TrackerTypeStats, error)
	GetTrackerType(id uint) (TrackerType, error)
	GetTrackerTypeByName(name string) (TrackerType, error)
	CreateTrackerType(name string) (TrackerType, error)
	ReactivateTrackerType(id uint) (TrackerType, error)
	RenameTrackerType(id uint, name string) (TrackerType, error)
	DeactivateTrackerType(id uint, deactivateTrackers bool) error

	// Trackers
	GetTrackers(personID uint, includeInactive bool) ([]TrackerStats, error)
	GetTracker(id uint) (Tracker, error)
	CreateTracker(tracker *Tracker) error
	CountTrackersOfType(personID, trackerTypeID uint) (int64, error)
	CountActiveTrackers(personID uint) (int64, error)
	CountRoundsForTracker(trackerID uint) (int64, error)
	DeleteTracker(id uint) error
	DeactivateTracker(id uint) error

	// Categories
	GetCategories(trackerTypeID uint, includeInactive bool) ([]Category, error)
	GetCategory(id uint) (Category, error)
	GetCategoryByName(trackerTypeID uint, name string) (Category, error)
	CountActiveCategories(trackerTypeID uint) (int64, error)
	CreateCategory(category *Category) error
	ReactivateCategory(category *Category) error
	UpdateCategory(category *Category, applyToExisting bool) error
	SoftDeleteCategory(id uint, removeFromActiveRounds bool) error
	ReorderCategory(id uint, direction string) error
	NextCategorySortOrder(trackerTypeID uint) (int, error)

	// Rounds
	CreateRound(round *Round, snapshots []RoundCategory) error
	GetRound(id uint) (Round, error)
	GetRoundsForPerson(personID, trackerID uint) ([]Round, error)
	GetLatestRoundForTracker(trackerID uint) (Round, error)
	RoundNumberForTracker(trackerID uint, createdAt time.Time) (int64, error)
	ShiftRoundStart(roundID uint, newStart string) error
	UpdateRoundGoalWeight(roundID uint, goalWeight *float64) error
	DeleteRound(roundID uint) error

	// Entries
	GetEntry(roundID, categoryID uint, date string) (Entry, error)
	UpsertEntry(roundID, categoryID uint, date, status string) (Entry, error)

	// Weight entries
	UpsertWeightEntry(roundID uint, weekIndex int, weight float64, date string) (WeightEntry, error)

	// Settings
	GetAppSettings(defaults AppSettings) (AppSettings, error)
	UpdateWeightUnit(unit string) (AppSettings, error)
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB *gorm.DB // GORM database instance
}

// New creates a new datastore instance based on the provided settings.
// Settings validation guarantees exactly one backend is enabled.
func New(settings *conf.Settings) Interface {
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{
			Settings: settings,
		}
	case settings.Output.MySQL.Enabled:
		return &MySQLStore{
			Settings: settings,
		}
	default:
		return nil
	}
}

// Ping verifies the database connection is alive, used by the readiness probe.
func (ds *DataStore) Ping() error {
	if ds.DB == nil {
		return dbError(errNotOpen, "ping")
	}
	sqlDB, err := ds.DB.DB()
	if err != nil {
		return dbError(err, "ping")
	}
	if err := sqlDB.Ping(); err != nil {
		return dbError(err, "ping")
	}
	return nil
}

// transaction runs fn inside a single transaction so that multi-row updates
// commit or roll back together.
func (ds *DataStore) transaction(operation string, fn func(tx *gorm.DB) error) error {
	if ds.DB == nil {
		return dbError(errNotOpen, operation)
	}
	if err := ds.DB.Transaction(fn); err != nil {
		return err
	}
	return nil
}
