package datastore

// GetTrackers lists a person's trackers with round usage data, ordered by
// creation time then name.
func (ds *DataStore) GetTrackers(personID uint, includeInactive bool) ([]TrackerStats, error) {
	var trackers []Tracker
	query := ds.DB.Preload("TrackerType").
		Where("person_id = ?", personID).
		Order("created_at ASC").Order("name ASC")
	if !includeInactive {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&trackers).Error; err != nil {
		return nil, dbError(err, "get-trackers", "person_id", personID)
	}

	stats := make([]TrackerStats, 0, len(trackers))
	for i := range trackers {
		ts := TrackerStats{Tracker: trackers[i]}

		if err := ds.DB.Model(&Round{}).Where("tracker_id = ?", ts.ID).
			Count(&ts.RoundsCount).Error; err != nil {
			return nil, dbError(err, "count-tracker-rounds", "tracker_id", ts.ID)
		}
		if ts.RoundsCount > 0 {
			var latest Round
			if err := ds.DB.Where("tracker_id = ?", ts.ID).
				Order("created_at DESC").First(&latest).Error; err != nil {
				return nil, dbError(err, "get-latest-tracker-round", "tracker_id", ts.ID)
			}
			ts.LatestRoundCreatedAt = &latest.CreatedAt
		}

		stats = append(stats, ts)
	}
	return stats, nil
}

// GetTracker retrieves one tracker with its type preloaded.
func (ds *DataStore) GetTracker(id uint) (Tracker, error) {
	var tracker Tracker
	if err := ds.DB.Preload("TrackerType").First(&tracker, id).Error; err != nil {
		return Tracker{}, translateGormError(err, "get-tracker", "tracker", id)
	}
	return tracker, nil
}

// CreateTracker inserts a new tracker.
func (ds *DataStore) CreateTracker(tracker *Tracker) error {
	if err := ds.DB.Create(tracker).Error; err != nil {
		return dbError(err, "create-tracker", "person_id", tracker.PersonID)
	}
	// Reload with the type association for the response.
	return ds.DB.Preload("TrackerType").First(tracker, tracker.ID).Error
}

// CountTrackersOfType counts a person's trackers of one tracker type,
// regardless of active state, used for default tracker naming.
func (ds *DataStore) CountTrackersOfType(personID, trackerTypeID uint) (int64, error) {
	var count int64
	if err := ds.DB.Model(&Tracker{}).
		Where("person_id = ? AND tracker_type_id = ?", personID, trackerTypeID).
		Count(&count).Error; err != nil {
		return 0, dbError(err, "count-trackers-of-type", "person_id", personID)
	}
	return count, nil
}

// CountActiveTrackers counts a person's active trackers.
func (ds *DataStore) CountActiveTrackers(personID uint) (int64, error) {
	var count int64
	if err := ds.DB.Model(&Tracker{}).
		Where("person_id = ? AND active = ?", personID, true).
		Count(&count).Error; err != nil {
		return 0, dbError(err, "count-active-trackers", "person_id", personID)
	}
	return count, nil
}

// CountRoundsForTracker counts the rounds created under a tracker.
func (ds *DataStore) CountRoundsForTracker(trackerID uint) (int64, error) {
	var count int64
	if err := ds.DB.Model(&Round{}).Where("tracker_id = ?", trackerID).
		Count(&count).Error; err != nil {
		return 0, dbError(err, "count-rounds-for-tracker", "tracker_id", trackerID)
	}
	return count, nil
}

// DeleteTracker hard-deletes a tracker. Callers only do this when the
// tracker has no rounds.
func (ds *DataStore) DeleteTracker(id uint) error {
	if err := ds.DB.Delete(&Tracker{}, id).Error; err != nil {
		return dbError(err, "delete-tracker", "tracker_id", id)
	}
	return nil
}

// DeactivateTracker soft-deletes a tracker, preserving its round history.
func (ds *DataStore) DeactivateTracker(id uint) error {
	if err := ds.DB.Model(&Tracker{}).Where("id = ?", id).
		Update("active", false).Error; err != nil {
		return dbError(err, "deactivate-tracker", "tracker_id", id)
	}
	return nil
}
