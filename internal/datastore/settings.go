package datastore

// GetAppSettings returns the singleton settings row, creating it from the
// provided defaults on first access.
func (ds *DataStore) GetAppSettings(defaults AppSettings) (AppSettings, error) {
	var settings AppSettings
	err := ds.DB.First(&settings, settingsRowID).Error
	switch {
	case isRecordNotFound(err):
		settings = defaults
		settings.ID = settingsRowID
		if err := ds.DB.Create(&settings).Error; err != nil {
			return AppSettings{}, dbError(err, "create-app-settings")
		}
		return settings, nil
	case err != nil:
		return AppSettings{}, dbError(err, "get-app-settings")
	}
	return settings, nil
}

// UpdateWeightUnit persists the display weight unit. Callers normalize the
// unit before it gets here.
func (ds *DataStore) UpdateWeightUnit(unit string) (AppSettings, error) {
	if err := ds.DB.Model(&AppSettings{}).Where("id = ?", settingsRowID).
		Update("weight_unit", unit).Error; err != nil {
		return AppSettings{}, dbError(err, "update-weight-unit")
	}
	var settings AppSettings
	if err := ds.DB.First(&settings, settingsRowID).Error; err != nil {
		return AppSettings{}, dbError(err, "get-app-settings")
	}
	return settings, nil
}
