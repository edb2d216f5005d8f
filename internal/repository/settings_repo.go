package repository

import (
	"watchnest/internal/database"
)

// Settings keys stored in the settings table
const (
	SettingTMDBAPIKey = "tmdb_api_key"
)

type SettingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetSetting retrieves a setting value by key
func (r *SettingsRepository) GetSetting(key string) (string, error) {
	var value string
	query := `SELECT value FROM settings WHERE key = ?`
	err := r.db.QueryRow(query, key).Scan(&value)
	return value, err
}

// SetSetting updates or inserts a setting
func (r *SettingsRepository) SetSetting(key, value string) error {
	query := r.db.Dialect.UpsertSettingQuery()
	_, err := r.db.Exec(query, key, value)
	return err
}

// GetTMDBAPIKey returns the stored TMDB API key override, or empty if unset
func (r *SettingsRepository) GetTMDBAPIKey() string {
	value, err := r.GetSetting(SettingTMDBAPIKey)
	if err != nil {
		return ""
	}
	return value
}

// SetTMDBAPIKey stores a TMDB API key override
func (r *SettingsRepository) SetTMDBAPIKey(key string) error {
	return r.SetSetting(SettingTMDBAPIKey, key)
}
