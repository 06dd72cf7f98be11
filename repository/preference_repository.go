package repository

import (
	"database/sql"

	"github.com/camden-git/photoeditbackend/database"
)

// PreferenceRepository handles key/value preference storage backed by the
// plain SQL preferences database
type PreferenceRepository struct {
	DB *sql.DB
}

// NewPreferenceRepository creates a new instance of PreferenceRepository
func NewPreferenceRepository(db *sql.DB) *PreferenceRepository {
	return &PreferenceRepository{DB: db}
}

// Get retrieves a preference value; the boolean reports presence
func (r *PreferenceRepository) Get(key string) (string, bool, error) {
	return database.GetPreference(r.DB, key)
}

// Set inserts or replaces a preference value
func (r *PreferenceRepository) Set(key, value string) error {
	return database.SetPreference(r.DB, key, value)
}

// Delete removes a preference by key
func (r *PreferenceRepository) Delete(key string) error {
	return database.DeletePreference(r.DB, key)
}
