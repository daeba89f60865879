package datastore

import (
	"gorm.io/gorm"
)

// GetTrackerTypes lists tracker types ordered by creation time, active only
// unless includeInactive is set.
func (ds *DataStore) GetTrackerTypes(includeInactive bool) ([]TrackerType, error) {
	var types []TrackerType
	query := ds.DB.Order("created_at ASC")
	if !includeInactive {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&types).Error; err != nil {
		return nil, dbError(err, "get-tracker-types")
	}
	return types, nil
}

// GetTrackerTypeStats lists tracker types with category, tracker and round
// usage counts for the admin screen.
func (ds *DataStore) GetTrackerTypeStats(includeInactive bool) ([]TrackerTypeStats, error) {
	types, err := ds.GetTrackerTypes(includeInactive)
	if err != nil {
		return nil, err
	}

	stats := make([]TrackerTypeStats, 0, len(types))
	for i := range types {
		tt := TrackerTypeStats{TrackerType: types[i]}

		if err := ds.DB.Model(&Category{}).
			Where("tracker_type_id = ?", tt.ID).
			Count(&tt.CategoriesCount).Error; err != nil {
			return nil, dbError(err, "count-type-categories", "tracker_type_id", tt.ID)
		}
		if err := ds.DB.Model(&Tracker{}).
			Where("tracker_type_id = ?", tt.ID).
			Count(&tt.TrackersCount).Error; err != nil {
			return nil, dbError(err, "count-type-trackers", "tracker_type_id", tt.ID)
		}
		if err := ds.DB.Model(&Round{}).
			Where("tracker_id IN (?)", ds.DB.Model(&Tracker{}).
				Select("id").Where("tracker_type_id = ?", tt.ID)).
			Count(&tt.RoundsCount).Error; err != nil {
			return nil, dbError(err, "count-type-rounds", "tracker_type_id", tt.ID)
		}

		stats = append(stats, tt)
	}
	return stats, nil
}

// GetTrackerType retrieves one tracker type by id.
func (ds *DataStore) GetTrackerType(id uint) (TrackerType, error) {
	var tt TrackerType
	if err := ds.DB.First(&tt, id).Error; err != nil {
		return TrackerType{}, translateGormError(err, "get-tracker-type", "tracker type", id)
	}
	return tt, nil
}

// GetTrackerTypeByName retrieves a tracker type by its unique name,
// regardless of active state.
func (ds *DataStore) GetTrackerTypeByName(name string) (TrackerType, error) {
	var tt TrackerType
	if err := ds.DB.Where("name = ?", name).First(&tt).Error; err != nil {
		return TrackerType{}, translateGormError(err, "get-tracker-type-by-name", "tracker type", name)
	}
	return tt, nil
}

// CreateTrackerType creates a new active tracker type.
func (ds *DataStore) CreateTrackerType(name string) (TrackerType, error) {
	tt := TrackerType{Name: name, Active: true}
	if err := ds.DB.Create(&tt).Error; err != nil {
		return TrackerType{}, translateGormError(err, "create-tracker-type", "tracker type", name)
	}
	return tt, nil
}

// ReactivateTrackerType flips an inactive tracker type back to active.
func (ds *DataStore) ReactivateTrackerType(id uint) (TrackerType, error) {
	tt, err := ds.GetTrackerType(id)
	if err != nil {
		return TrackerType{}, err
	}
	if err := ds.DB.Model(&tt).Update("active", true).Error; err != nil {
		return TrackerType{}, dbError(err, "reactivate-tracker-type", "tracker_type_id", id)
	}
	return tt, nil
}

// RenameTrackerType updates the name of an active tracker type.
func (ds *DataStore) RenameTrackerType(id uint, name string) (TrackerType, error) {
	tt, err := ds.GetTrackerType(id)
	if err != nil {
		return TrackerType{}, err
	}
	if err := ds.DB.Model(&tt).Update("name", name).Error; err != nil {
		return TrackerType{}, translateGormError(err, "rename-tracker-type", "tracker type", name)
	}
	return tt, nil
}

// DeactivateTrackerType soft-deletes a tracker type and all its categories,
// optionally deactivating its trackers as well, in one transaction.
func (ds *DataStore) DeactivateTrackerType(id uint, deactivateTrackers bool) error {
	return ds.transaction("deactivate-tracker-type", func(tx *gorm.DB) error {
		if err := tx.Model(&TrackerType{}).Where("id = ?", id).
			Update("active", false).Error; err != nil {
			return dbError(err, "deactivate-tracker-type", "tracker_type_id", id)
		}
		if err := tx.Model(&Category{}).Where("tracker_type_id = ?", id).
			Update("active", false).Error; err != nil {
			return dbError(err, "deactivate-type-categories", "tracker_type_id", id)
		}
		if deactivateTrackers {
			if err := tx.Model(&Tracker{}).Where("tracker_type_id = ?", id).
				Update("active", false).Error; err != nil {
				return dbError(err, "deactivate-type-trackers", "tracker_type_id", id)
			}
		}
		return nil
	})
}
