package datastore

import (
	"gorm.io/gorm"
)

// GetCategories lists a tracker type's categories ordered by sort order,
// active only unless includeInactive is set.
func (ds *DataStore) GetCategories(trackerTypeID uint, includeInactive bool) ([]Category, error) {
	var categories []Category
	query := ds.DB.Where("tracker_type_id = ?", trackerTypeID).Order("sort_order ASC")
	if !includeInactive {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&categories).Error; err != nil {
		return nil, dbError(err, "get-categories", "tracker_type_id", trackerTypeID)
	}
	return categories, nil
}

// GetCategory retrieves one category by id.
func (ds *DataStore) GetCategory(id uint) (Category, error) {
	var category Category
	if err := ds.DB.First(&category, id).Error; err != nil {
		return Category{}, translateGormError(err, "get-category", "category", id)
	}
	return category, nil
}

// GetCategoryByName retrieves a category by name within a tracker type,
// regardless of active state.
func (ds *DataStore) GetCategoryByName(trackerTypeID uint, name string) (Category, error) {
	var category Category
	if err := ds.DB.Where("tracker_type_id = ? AND name = ?", trackerTypeID, name).
		First(&category).Error; err != nil {
		return Category{}, translateGormError(err, "get-category-by-name", "category", name)
	}
	return category, nil
}

// CountActiveCategories counts a tracker type's active categories, enforced
// against the capacity of five.
func (ds *DataStore) CountActiveCategories(trackerTypeID uint) (int64, error) {
	var count int64
	if err := ds.DB.Model(&Category{}).
		Where("tracker_type_id = ? AND active = ?", trackerTypeID, true).
		Count(&count).Error; err != nil {
		return 0, dbError(err, "count-active-categories", "tracker_type_id", trackerTypeID)
	}
	return count, nil
}

// NextCategorySortOrder returns the sort order for a category appended to
// the bottom of the tracker type's list.
func (ds *DataStore) NextCategorySortOrder(trackerTypeID uint) (int, error) {
	var maxSort *int
	if err := ds.DB.Model(&Category{}).
		Where("tracker_type_id = ?", trackerTypeID).
		Select("MAX(sort_order)").Scan(&maxSort).Error; err != nil {
		return 0, dbError(err, "next-category-sort-order", "tracker_type_id", trackerTypeID)
	}
	if maxSort == nil {
		return 1, nil
	}
	return *maxSort + 1, nil
}

// CreateCategory inserts a new category.
func (ds *DataStore) CreateCategory(category *Category) error {
	if err := ds.DB.Create(category).Error; err != nil {
		return translateGormError(err, "create-category", "category", category.Name)
	}
	return nil
}

// ReactivateCategory flips a soft-deleted category back to active, applying
// the caller's updated settings and moving it to the bottom of the sort
// order.
func (ds *DataStore) ReactivateCategory(category *Category) error {
	updates := map[string]any{
		"active":                  true,
		"sort_order":              category.SortOrder,
		"allow_days_off_per_week": category.AllowDaysOffPerWeek,
		"allow_treat":             category.AllowTreat,
		"allow_sick":              category.AllowSick,
	}
	if err := ds.DB.Model(&Category{}).Where("id = ?", category.ID).
		Updates(updates).Error; err != nil {
		return dbError(err, "reactivate-category", "category_id", category.ID)
	}
	return nil
}

// latestRoundIDsForType returns the id of the most recent round of every
// tracker belonging to the tracker type. Older rounds stay untouched by
// category propagation.
func latestRoundIDsForType(tx *gorm.DB, trackerTypeID uint) ([]uint, error) {
	var trackerIDs []uint
	if err := tx.Model(&Tracker{}).Where("tracker_type_id = ?", trackerTypeID).
		Pluck("id", &trackerIDs).Error; err != nil {
		return nil, dbError(err, "collect-type-trackers", "tracker_type_id", trackerTypeID)
	}

	var roundIDs []uint
	for _, trackerID := range trackerIDs {
		var round Round
		err := tx.Where("tracker_id = ?", trackerID).
			Order("created_at DESC").First(&round).Error
		switch {
		case isRecordNotFound(err):
			continue
		case err != nil:
			return nil, dbError(err, "get-latest-round-for-tracker", "tracker_id", trackerID)
		}
		roundIDs = append(roundIDs, round.ID)
	}
	return roundIDs, nil
}

// UpdateCategory saves the category's fields and, when applyToExisting is
// set, propagates the new display name to the snapshot rows of each
// tracker's most recent round. Historical rounds keep their frozen names.
func (ds *DataStore) UpdateCategory(category *Category, applyToExisting bool) error {
	return ds.transaction("update-category", func(tx *gorm.DB) error {
		updates := map[string]any{
			"name":                    category.Name,
			"allow_days_off_per_week": category.AllowDaysOffPerWeek,
			"allow_treat":             category.AllowTreat,
			"allow_sick":              category.AllowSick,
		}
		if err := tx.Model(&Category{}).Where("id = ?", category.ID).
			Updates(updates).Error; err != nil {
			return translateGormError(err, "update-category", "category", category.Name)
		}

		if !applyToExisting {
			return nil
		}

		roundIDs, err := latestRoundIDsForType(tx, category.TrackerTypeID)
		if err != nil {
			return err
		}
		if len(roundIDs) == 0 {
			return nil
		}
		if err := tx.Model(&RoundCategory{}).
			Where("round_id IN ? AND category_id = ?", roundIDs, category.ID).
			Update("display_name", category.Name).Error; err != nil {
			return dbError(err, "propagate-category-name", "category_id", category.ID)
		}
		return nil
	})
}

// SoftDeleteCategory deactivates a category and, when removeFromActiveRounds
// is set, strips its entries and snapshot rows from each tracker's most
// recent round.
func (ds *DataStore) SoftDeleteCategory(id uint, removeFromActiveRounds bool) error {
	category, err := ds.GetCategory(id)
	if err != nil {
		return err
	}
	return ds.transaction("soft-delete-category", func(tx *gorm.DB) error {
		if err := tx.Model(&Category{}).Where("id = ?", id).
			Update("active", false).Error; err != nil {
			return dbError(err, "soft-delete-category", "category_id", id)
		}

		if !removeFromActiveRounds {
			return nil
		}

		roundIDs, err := latestRoundIDsForType(tx, category.TrackerTypeID)
		if err != nil {
			return err
		}
		if len(roundIDs) == 0 {
			return nil
		}
		if err := tx.Where("round_id IN ? AND category_id = ?", roundIDs, id).
			Delete(&Entry{}).Error; err != nil {
			return dbError(err, "remove-category-entries", "category_id", id)
		}
		if err := tx.Where("round_id IN ? AND category_id = ?", roundIDs, id).
			Delete(&RoundCategory{}).Error; err != nil {
			return dbError(err, "remove-category-snapshots", "category_id", id)
		}
		return nil
	})
}

// ReorderCategory swaps a category's sort order with its immediate active
// neighbor in the given direction ("up" or "down"). At either boundary the
// operation is a no-op.
func (ds *DataStore) ReorderCategory(id uint, direction string) error {
	current, err := ds.GetCategory(id)
	if err != nil {
		return err
	}

	var neighbor Category
	query := ds.DB.Where("tracker_type_id = ? AND active = ?", current.TrackerTypeID, true)
	if direction == "up" {
		query = query.Where("sort_order < ?", current.SortOrder).Order("sort_order DESC")
	} else {
		query = query.Where("sort_order > ?", current.SortOrder).Order("sort_order ASC")
	}
	err = query.First(&neighbor).Error
	switch {
	case isRecordNotFound(err):
		// Already at the edge
		return nil
	case err != nil:
		return dbError(err, "find-reorder-neighbor", "category_id", id)
	}

	return ds.transaction("reorder-category", func(tx *gorm.DB) error {
		if err := tx.Model(&Category{}).Where("id = ?", current.ID).
			Update("sort_order", neighbor.SortOrder).Error; err != nil {
			return dbError(err, "reorder-category", "category_id", current.ID)
		}
		if err := tx.Model(&Category{}).Where("id = ?", neighbor.ID).
			Update("sort_order", current.SortOrder).Error; err != nil {
			return dbError(err, "reorder-neighbor", "category_id", neighbor.ID)
		}
		return nil
	})
}
