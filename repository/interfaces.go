package repository

import (
	"github.com/camden-git/photoeditbackend/models"
)

// EditRepositoryInterface defines the methods for saved-edit data operations
type EditRepositoryInterface interface {
	Create(edit *models.EditedImage) error
	GetByID(id uint) (*models.EditedImage, error)
	ListAll(sortOrder string) ([]models.EditedImage, error)
	Delete(id uint) error
}

// PreferenceRepositoryInterface defines the methods for the key/value
// preference store
type PreferenceRepositoryInterface interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}
