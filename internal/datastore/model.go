// model.go this code defines the data model for the application
package datastore

import "time"

// Person is a tracked individual. Deleting a person cascades to their
// trackers, rounds and all dependent rows.
type Person struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	CreatedAt time.Time
	Trackers  []Tracker `gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE"`
	Rounds    []Round   `gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE"`
}

// TrackerType is a reusable template grouping categories. Soft-deleted
// (Active=false) to preserve history; the name stays reserved so an
// inactive type can be reactivated instead of duplicated.
type TrackerType struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"uniqueIndex;not null"`
	Active     bool   `gorm:"default:true"`
	CreatedAt  time.Time
	Categories []Category `gorm:"foreignKey:TrackerTypeID;constraint:OnDelete:CASCADE"`
	Trackers   []Tracker  `gorm:"foreignKey:TrackerTypeID"`
}

// Tracker is a person's instance of a tracker type, the scope at which
// rounds are created. Soft-deleted when it has historical rounds, hard
// deleted otherwise.
type Tracker struct {
	ID            uint `gorm:"primaryKey"`
	PersonID      uint `gorm:"index;not null"`
	TrackerTypeID uint `gorm:"index;not null"`
	Name          string
	Active        bool `gorm:"default:true"`
	CreatedAt     time.Time
	TrackerType   TrackerType `gorm:"foreignKey:TrackerTypeID"`
	Rounds        []Round     `gorm:"foreignKey:TrackerID;constraint:OnDelete:CASCADE"`
}

// Category is one trackable habit dimension of a tracker type. The name is
// unique within the type regardless of active state; reactivation is an
// explicit transition rather than an upsert.
type Category struct {
	ID                  uint   `gorm:"primaryKey"`
	TrackerTypeID       uint   `gorm:"not null;uniqueIndex:idx_categories_type_name"`
	Name                string `gorm:"not null;uniqueIndex:idx_categories_type_name"`
	SortOrder           int
	AllowDaysOffPerWeek int  `gorm:"default:0"`
	AllowTreat          bool `gorm:"default:true"`
	AllowSick           bool `gorm:"default:true"`
	Active              bool `gorm:"default:true"`
	CreatedAt           time.Time
}

// Round is one fixed-length tracking period for a tracker. The most
// recently created round of a tracker is its active round.
type Round struct {
	ID              uint   `gorm:"primaryKey"`
	TrackerID       uint   `gorm:"index;not null"`
	PersonID        uint   `gorm:"index;not null"`
	StartDate       string `gorm:"not null"` // YYYY-MM-DD
	LengthWeeks     int    `gorm:"not null"` // 4 or 8
	GoalWeight      *float64
	CreatedAt       time.Time       `gorm:"index"`
	Tracker         Tracker         `gorm:"foreignKey:TrackerID"`
	RoundCategories []RoundCategory `gorm:"foreignKey:RoundID;constraint:OnDelete:CASCADE"`
	Entries         []Entry         `gorm:"foreignKey:RoundID;constraint:OnDelete:CASCADE"`
	WeightEntries   []WeightEntry   `gorm:"foreignKey:RoundID;constraint:OnDelete:CASCADE"`
}

// RoundCategory is the frozen snapshot of a category taken when a round
// starts. It decouples the round's rendering from later category renames and
// deletions; only explicit apply-to-existing edits may touch it.
type RoundCategory struct {
	ID          uint `gorm:"primaryKey"`
	RoundID     uint `gorm:"not null;uniqueIndex:idx_round_categories_round_category"`
	CategoryID  uint `gorm:"not null;uniqueIndex:idx_round_categories_round_category"`
	SortOrder   int
	DisplayName string
	Category    Category `gorm:"foreignKey:CategoryID"`
}

// Entry is one category's status on one calendar day within a round.
type Entry struct {
	ID         uint   `gorm:"primaryKey"`
	RoundID    uint   `gorm:"not null;uniqueIndex:idx_entries_round_category_date"`
	CategoryID uint   `gorm:"not null;uniqueIndex:idx_entries_round_category_date"`
	Date       string `gorm:"not null;uniqueIndex:idx_entries_round_category_date"` // YYYY-MM-DD
	Status     string `gorm:"type:varchar(10);not null;default:'EMPTY'"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// WeightEntry is one weight sample per week of a round. The captured date
// may be any day inside that week.
type WeightEntry struct {
	ID        uint    `gorm:"primaryKey"`
	RoundID   uint    `gorm:"not null;uniqueIndex:idx_weight_entries_round_week"`
	WeekIndex int     `gorm:"not null;uniqueIndex:idx_weight_entries_round_week"`
	Weight    float64 `gorm:"not null"`
	Date      string  `gorm:"not null"` // YYYY-MM-DD
	UpdatedAt time.Time
}

// AppSettings is the persisted application settings row. Exactly one row
// exists, keyed by settingsRowID.
type AppSettings struct {
	ID               uint `gorm:"primaryKey"`
	RoundLengthWeeks int
	WeekStartsOn     int
	Timezone         string
	WeightUnit       string `gorm:"type:varchar(3)"`
	UpdatedAt        time.Time
}

// settingsRowID is the fixed primary key of the singleton settings row.
const settingsRowID uint = 1

// TrackerTypeStats is a tracker type with usage counts for the admin list.
type TrackerTypeStats struct {
	TrackerType
	CategoriesCount int64 `gorm:"-"`
	TrackersCount   int64 `gorm:"-"`
	RoundsCount     int64 `gorm:"-"`
}

// TrackerStats is a tracker with round usage data for the admin list.
type TrackerStats struct {
	Tracker
	RoundsCount          int64      `gorm:"-"`
	LatestRoundCreatedAt *time.Time `gorm:"-"`
}
