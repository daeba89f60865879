package datastore

// UpsertWeightEntry records the weight sample for one week of a round,
// replacing any previous sample for that week.
func (ds *DataStore) UpsertWeightEntry(roundID uint, weekIndex int, weight float64, date string) (WeightEntry, error) {
	var we WeightEntry
	err := ds.DB.Where("round_id = ? AND week_index = ?", roundID, weekIndex).
		First(&we).Error
	switch {
	case isRecordNotFound(err):
		we = WeightEntry{
			RoundID:   roundID,
			WeekIndex: weekIndex,
			Weight:    weight,
			Date:      date,
		}
		if err := ds.DB.Create(&we).Error; err != nil {
			return WeightEntry{}, translateGormError(err, "create-weight-entry", "weight entry", weekIndex)
		}
		return we, nil
	case err != nil:
		return WeightEntry{}, dbError(err, "lookup-weight-entry", "round_id", roundID)
	}

	updates := map[string]any{"weight": weight, "date": date}
	if err := ds.DB.Model(&we).Updates(updates).Error; err != nil {
		return WeightEntry{}, dbError(err, "update-weight-entry", "weight_entry_id", we.ID)
	}
	we.Weight = weight
	we.Date = date
	return we, nil
}
