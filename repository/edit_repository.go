package repository

import (
	"fmt"
	"sort"

	"github.com/facette/natsort"
	"gorm.io/gorm"

	"github.com/camden-git/photoeditbackend/database"
	"github.com/camden-git/photoeditbackend/models"
)

// EditRepository handles database operations for saved edit records
type EditRepository struct {
	DB *gorm.DB
}

// NewEditRepository creates a new instance of EditRepository
func NewEditRepository(db *gorm.DB) *EditRepository {
	return &EditRepository{DB: db}
}

// Create inserts a new saved-edit record
func (r *EditRepository) Create(edit *models.EditedImage) error {
	if err := r.DB.Create(edit).Error; err != nil {
		return fmt.Errorf("failed to create edited image record for %s: %w", edit.Filename, err)
	}
	return nil
}

// GetByID retrieves a saved edit by its record ID
func (r *EditRepository) GetByID(id uint) (*models.EditedImage, error) {
	var edit models.EditedImage
	err := r.DB.First(&edit, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get edited image %d: %w", id, err)
	}
	return &edit, nil
}

// ListAll retrieves all saved edits in the requested order. Natural
// filename order is applied in memory since SQLite cannot express it.
func (r *EditRepository) ListAll(sortOrder string) ([]models.EditedImage, error) {
	if !database.IsValidSortOrder(sortOrder) {
		sortOrder = database.DefaultSortOrder
	}

	query := r.DB.Model(&models.EditedImage{})
	switch sortOrder {
	case database.SortFilenameAsc:
		query = query.Order("filename ASC")
	case database.SortDateAsc:
		query = query.Order("created_at ASC")
	case database.SortSizeDesc:
		query = query.Order("size_bytes DESC")
	case database.SortFilenameNat:
		// fetched unordered, sorted below
	default:
		query = query.Order("created_at DESC")
	}

	var edits []models.EditedImage
	if err := query.Find(&edits).Error; err != nil {
		return nil, fmt.Errorf("failed to list edited images: %w", err)
	}

	if sortOrder == database.SortFilenameNat {
		sort.SliceStable(edits, func(i, j int) bool {
			return natsort.Compare(edits[i].Filename, edits[j].Filename)
		})
	}

	return edits, nil
}

// Delete removes a saved-edit record by ID
func (r *EditRepository) Delete(id uint) error {
	result := r.DB.Delete(&models.EditedImage{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete edited image %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
