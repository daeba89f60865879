// rounds_test.go: Tests for round persistence against an in-memory database
package datastore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *DataStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, performAutoMigration(db, false, "SQLite", ":memory:"))

	return &DataStore{DB: db}
}

// seedRound creates a round with one snapshot category and entries on the
// given dates, one status per date.
func seedRound(t *testing.T, ds *DataStore, startDate string, dates, statuses []string) Round {
	t.Helper()
	require.Len(t, statuses, len(dates))

	round := Round{
		TrackerID:   1,
		PersonID:    1,
		StartDate:   startDate,
		LengthWeeks: 4,
	}
	snapshots := []RoundCategory{
		{CategoryID: 2, SortOrder: 1, DisplayName: "Exercise"},
	}
	require.NoError(t, ds.CreateRound(&round, snapshots))

	for i, date := range dates {
		_, err := ds.UpsertEntry(round.ID, 2, date, statuses[i])
		require.NoError(t, err)
	}
	return round
}

// entriesByStatus returns a round's entry dates keyed by status, assuming
// each status appears once.
func entriesByStatus(t *testing.T, ds *DataStore, roundID uint) map[string]string {
	t.Helper()

	round, err := ds.GetRound(roundID)
	require.NoError(t, err)

	byStatus := make(map[string]string, len(round.Entries))
	for _, entry := range round.Entries {
		assert.Equal(t, uint(2), entry.CategoryID, "category pairing must survive shifts")
		byStatus[entry.Status] = entry.Date
	}
	return byStatus
}

func TestShiftRoundStartRoundTrip(t *testing.T) {
	ds := setupTestDB(t)

	// Three consecutive days so a two-day shift lands on occupied dates,
	// exercising the direction-dependent update ordering against the
	// (round, category, date) unique index.
	dates := []string{"2026-01-05", "2026-01-06", "2026-01-07"}
	statuses := []string{"DONE", "HALF", "OFF"}
	round := seedRound(t, ds, "2026-01-05", dates, statuses)

	_, err := ds.UpsertWeightEntry(round.ID, 0, 150.5, "2026-01-06")
	require.NoError(t, err)

	// Shift forward by two days.
	require.NoError(t, ds.ShiftRoundStart(round.ID, "2026-01-07"))

	shifted := entriesByStatus(t, ds, round.ID)
	assert.Equal(t, "2026-01-07", shifted["DONE"])
	assert.Equal(t, "2026-01-08", shifted["HALF"])
	assert.Equal(t, "2026-01-09", shifted["OFF"])

	got, err := ds.GetRound(round.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-07", got.StartDate)
	if assert.Len(t, got.WeightEntries, 1) {
		assert.Equal(t, "2026-01-08", got.WeightEntries[0].Date)
	}

	// Shift back; every date must be exactly restored.
	require.NoError(t, ds.ShiftRoundStart(round.ID, "2026-01-05"))

	restored := entriesByStatus(t, ds, round.ID)
	for i, date := range dates {
		assert.Equal(t, date, restored[statuses[i]])
	}

	got, err = ds.GetRound(round.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-05", got.StartDate)
	assert.Len(t, got.Entries, len(dates), "no entries lost or duplicated")
	if assert.Len(t, got.WeightEntries, 1) {
		assert.Equal(t, "2026-01-06", got.WeightEntries[0].Date)
	}
}

func TestShiftRoundStartSameDateIsNoOp(t *testing.T) {
	ds := setupTestDB(t)

	round := seedRound(t, ds, "2026-01-05", []string{"2026-01-05"}, []string{"DONE"})
	require.NoError(t, ds.ShiftRoundStart(round.ID, "2026-01-05"))

	got, err := ds.GetRound(round.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-05", got.StartDate)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, "2026-01-05", got.Entries[0].Date)
}

func TestGetRoundsForPersonFiltersByTracker(t *testing.T) {
	ds := setupTestDB(t)

	first := Round{TrackerID: 1, PersonID: 1, StartDate: "2026-01-05", LengthWeeks: 4}
	second := Round{TrackerID: 2, PersonID: 1, StartDate: "2026-02-02", LengthWeeks: 8}
	require.NoError(t, ds.CreateRound(&first, nil))
	require.NoError(t, ds.CreateRound(&second, nil))

	all, err := ds.GetRoundsForPerson(1, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := ds.GetRoundsForPerson(1, 2)
	require.NoError(t, err)
	if assert.Len(t, filtered, 1) {
		assert.Equal(t, uint(2), filtered[0].TrackerID)
	}
}
