package datastore

import (
	"time"

	"gorm.io/gorm"

	"github.com/tphakala/habitwheel/internal/habit"
)

// CreateRound inserts a round together with its category snapshot rows in
// one transaction.
func (ds *DataStore) CreateRound(round *Round, snapshots []RoundCategory) error {
	return ds.transaction("create-round", func(tx *gorm.DB) error {
		if err := tx.Create(round).Error; err != nil {
			return dbError(err, "create-round", "tracker_id", round.TrackerID)
		}
		for i := range snapshots {
			snapshots[i].RoundID = round.ID
			if err := tx.Create(&snapshots[i]).Error; err != nil {
				return dbError(err, "create-round-category", "round_id", round.ID)
			}
		}
		return nil
	})
}

// roundPreloads attaches the associations the API responses need. Snapshot
// rows come back in ring order.
func roundPreloads(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Tracker").
		Preload("Tracker.TrackerType").
		Preload("RoundCategories", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("RoundCategories.Category").
		Preload("Entries").
		Preload("WeightEntries", func(db *gorm.DB) *gorm.DB {
			return db.Order("week_index ASC")
		})
}

// GetRound retrieves one round with its snapshot categories, entries and
// weight entries.
func (ds *DataStore) GetRound(id uint) (Round, error) {
	var round Round
	if err := roundPreloads(ds.DB).First(&round, id).Error; err != nil {
		return Round{}, translateGormError(err, "get-round", "round", id)
	}
	return round, nil
}

// GetRoundsForPerson returns a person's rounds in creation order with full
// associations, for the history view. A non-zero trackerID narrows the
// history to that tracker.
func (ds *DataStore) GetRoundsForPerson(personID, trackerID uint) ([]Round, error) {
	query := roundPreloads(ds.DB).Where("person_id = ?", personID)
	if trackerID != 0 {
		query = query.Where("tracker_id = ?", trackerID)
	}

	var rounds []Round
	if err := query.Order("created_at ASC").Find(&rounds).Error; err != nil {
		return nil, dbError(err, "get-rounds-for-person", "person_id", personID)
	}
	return rounds, nil
}

// GetLatestRoundForTracker returns the most recently created round of a
// tracker, the tracker's active round.
func (ds *DataStore) GetLatestRoundForTracker(trackerID uint) (Round, error) {
	var round Round
	if err := roundPreloads(ds.DB).
		Where("tracker_id = ?", trackerID).
		Order("created_at DESC").
		First(&round).Error; err != nil {
		return Round{}, translateGormError(err, "get-latest-round", "round", trackerID)
	}
	return round, nil
}

// RoundNumberForTracker returns the 1-based sequence number of a round
// created at the given time within its tracker's history.
func (ds *DataStore) RoundNumberForTracker(trackerID uint, createdAt time.Time) (int64, error) {
	var count int64
	if err := ds.DB.Model(&Round{}).
		Where("tracker_id = ? AND created_at <= ?", trackerID, createdAt).
		Count(&count).Error; err != nil {
		return 0, dbError(err, "round-number-for-tracker", "tracker_id", trackerID)
	}
	return count, nil
}

// ShiftRoundStart moves a round's start date and every entry and weight
// entry with it by the same whole-day delta, preserving week alignment.
// Entries are processed in descending date order when shifting forward and
// ascending when shifting backward so the per-category unique constraint is
// never violated mid-update.
func (ds *DataStore) ShiftRoundStart(roundID uint, newStart string) error {
	round, err := ds.GetRound(roundID)
	if err != nil {
		return err
	}

	delta, err := habit.DaysBetween(round.StartDate, newStart)
	if err != nil {
		return err
	}
	if delta == 0 {
		return nil
	}

	return ds.transaction("shift-round-start", func(tx *gorm.DB) error {
		order := "date ASC"
		if delta > 0 {
			order = "date DESC"
		}

		var entries []Entry
		if err := tx.Where("round_id = ?", roundID).Order(order).
			Find(&entries).Error; err != nil {
			return dbError(err, "collect-round-entries", "round_id", roundID)
		}
		for i := range entries {
			shifted, err := habit.AddDays(entries[i].Date, delta)
			if err != nil {
				return err
			}
			if err := tx.Model(&Entry{}).Where("id = ?", entries[i].ID).
				Update("date", shifted).Error; err != nil {
				return dbError(err, "shift-entry", "entry_id", entries[i].ID)
			}
		}

		var weights []WeightEntry
		if err := tx.Where("round_id = ?", roundID).Find(&weights).Error; err != nil {
			return dbError(err, "collect-round-weights", "round_id", roundID)
		}
		for i := range weights {
			shifted, err := habit.AddDays(weights[i].Date, delta)
			if err != nil {
				return err
			}
			if err := tx.Model(&WeightEntry{}).Where("id = ?", weights[i].ID).
				Update("date", shifted).Error; err != nil {
				return dbError(err, "shift-weight-entry", "weight_entry_id", weights[i].ID)
			}
		}

		if err := tx.Model(&Round{}).Where("id = ?", roundID).
			Update("start_date", newStart).Error; err != nil {
			return dbError(err, "shift-round-start", "round_id", roundID)
		}
		return nil
	})
}

// UpdateRoundGoalWeight sets or clears a round's goal weight.
func (ds *DataStore) UpdateRoundGoalWeight(roundID uint, goalWeight *float64) error {
	if err := ds.DB.Model(&Round{}).Where("id = ?", roundID).
		Update("goal_weight", goalWeight).Error; err != nil {
		return dbError(err, "update-round-goal-weight", "round_id", roundID)
	}
	return nil
}

// DeleteRound hard-deletes a round and all its entries, snapshot rows and
// weight entries. Irreversible.
func (ds *DataStore) DeleteRound(roundID uint) error {
	if _, err := ds.GetRound(roundID); err != nil {
		return err
	}
	return ds.transaction("delete-round", func(tx *gorm.DB) error {
		if err := tx.Where("round_id = ?", roundID).Delete(&Entry{}).Error; err != nil {
			return dbError(err, "delete-round-entries", "round_id", roundID)
		}
		if err := tx.Where("round_id = ?", roundID).Delete(&RoundCategory{}).Error; err != nil {
			return dbError(err, "delete-round-categories", "round_id", roundID)
		}
		if err := tx.Where("round_id = ?", roundID).Delete(&WeightEntry{}).Error; err != nil {
			return dbError(err, "delete-round-weights", "round_id", roundID)
		}
		if err := tx.Delete(&Round{}, roundID).Error; err != nil {
			return dbError(err, "delete-round", "round_id", roundID)
		}
		return nil
	})
}
