package datastore

import (
	"gorm.io/gorm"
)

// GetAllPeople returns every person ordered by creation time.
func (ds *DataStore) GetAllPeople() ([]Person, error) {
	var people []Person
	if err := ds.DB.Order("created_at ASC").Find(&people).Error; err != nil {
		return nil, dbError(err, "get-all-people")
	}
	return people, nil
}

// GetPerson retrieves one person by id.
func (ds *DataStore) GetPerson(id uint) (Person, error) {
	var person Person
	if err := ds.DB.First(&person, id).Error; err != nil {
		return Person{}, translateGormError(err, "get-person", "person", id)
	}
	return person, nil
}

// CreatePersonWithDefaults creates a person together with a tracker of the
// default tracker type, creating or reactivating that type as needed, in one
// transaction.
func (ds *DataStore) CreatePersonWithDefaults(name, defaultTrackerTypeName string) (Person, error) {
	var person Person
	err := ds.transaction("create-person", func(tx *gorm.DB) error {
		var trackerType TrackerType
		err := tx.Where("name = ?", defaultTrackerTypeName).First(&trackerType).Error
		switch {
		case isRecordNotFound(err):
			trackerType = TrackerType{Name: defaultTrackerTypeName, Active: true}
			if err := tx.Create(&trackerType).Error; err != nil {
				return dbError(err, "create-default-tracker-type")
			}
		case err != nil:
			return dbError(err, "lookup-default-tracker-type")
		case !trackerType.Active:
			if err := tx.Model(&trackerType).Update("active", true).Error; err != nil {
				return dbError(err, "reactivate-default-tracker-type")
			}
		}

		person = Person{Name: name}
		if err := tx.Create(&person).Error; err != nil {
			return dbError(err, "create-person")
		}

		tracker := Tracker{
			PersonID:      person.ID,
			TrackerTypeID: trackerType.ID,
			Name:          defaultTrackerTypeName,
			Active:        true,
		}
		if err := tx.Create(&tracker).Error; err != nil {
			return dbError(err, "create-default-tracker")
		}
		return nil
	})
	if err != nil {
		return Person{}, err
	}
	return person, nil
}

// RenamePerson updates a person's name.
func (ds *DataStore) RenamePerson(id uint, name string) (Person, error) {
	person, err := ds.GetPerson(id)
	if err != nil {
		return Person{}, err
	}
	if err := ds.DB.Model(&person).Update("name", name).Error; err != nil {
		return Person{}, dbError(err, "rename-person", "person_id", id)
	}
	return person, nil
}

// DeletePerson hard-deletes a person and everything hanging off them.
func (ds *DataStore) DeletePerson(id uint) error {
	if _, err := ds.GetPerson(id); err != nil {
		return err
	}
	return ds.transaction("delete-person", func(tx *gorm.DB) error {
		var roundIDs []uint
		if err := tx.Model(&Round{}).Where("person_id = ?", id).Pluck("id", &roundIDs).Error; err != nil {
			return dbError(err, "collect-person-rounds", "person_id", id)
		}
		if len(roundIDs) > 0 {
			if err := tx.Where("round_id IN ?", roundIDs).Delete(&Entry{}).Error; err != nil {
				return dbError(err, "delete-person-entries", "person_id", id)
			}
			if err := tx.Where("round_id IN ?", roundIDs).Delete(&RoundCategory{}).Error; err != nil {
				return dbError(err, "delete-person-round-categories", "person_id", id)
			}
			if err := tx.Where("round_id IN ?", roundIDs).Delete(&WeightEntry{}).Error; err != nil {
				return dbError(err, "delete-person-weight-entries", "person_id", id)
			}
			if err := tx.Where("person_id = ?", id).Delete(&Round{}).Error; err != nil {
				return dbError(err, "delete-person-rounds", "person_id", id)
			}
		}
		if err := tx.Where("person_id = ?", id).Delete(&Tracker{}).Error; err != nil {
			return dbError(err, "delete-person-trackers", "person_id", id)
		}
		if err := tx.Delete(&Person{}, id).Error; err != nil {
			return dbError(err, "delete-person", "person_id", id)
		}
		return nil
	})
}
