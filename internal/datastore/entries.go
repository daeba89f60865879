package datastore

// GetEntry retrieves the entry for one category on one day of a round.
func (ds *DataStore) GetEntry(roundID, categoryID uint, date string) (Entry, error) {
	var entry Entry
	if err := ds.DB.Where("round_id = ? AND category_id = ? AND date = ?",
		roundID, categoryID, date).First(&entry).Error; err != nil {
		return Entry{}, translateGormError(err, "get-entry", "entry", date)
	}
	return entry, nil
}

// UpsertEntry writes the status for one category-day cell, creating the row
// on first touch. The (round, category, date) unique index makes concurrent
// upserts of the same cell last-write-wins.
func (ds *DataStore) UpsertEntry(roundID, categoryID uint, date, status string) (Entry, error) {
	var entry Entry
	err := ds.DB.Where("round_id = ? AND category_id = ? AND date = ?",
		roundID, categoryID, date).First(&entry).Error
	switch {
	case isRecordNotFound(err):
		entry = Entry{
			RoundID:    roundID,
			CategoryID: categoryID,
			Date:       date,
			Status:     status,
		}
		if err := ds.DB.Create(&entry).Error; err != nil {
			return Entry{}, translateGormError(err, "create-entry", "entry", date)
		}
		return entry, nil
	case err != nil:
		return Entry{}, dbError(err, "lookup-entry", "round_id", roundID)
	}

	if err := ds.DB.Model(&entry).Update("status", status).Error; err != nil {
		return Entry{}, dbError(err, "update-entry", "entry_id", entry.ID)
	}
	entry.Status = status
	return entry, nil
}
