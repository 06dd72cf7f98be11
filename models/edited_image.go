package models

// EditedImage represents a saved edit result using GORM.
// It corresponds to the 'edited_images' table.
type EditedImage struct {
	ID uint `gorm:"primaryKey" json:"id"`

	OriginalFilename string `gorm:"not null" json:"original_filename"`
	Filename         string `gorm:"not null" json:"filename"`
	RelativePath     string `gorm:"uniqueIndex;not null" json:"relative_path"` // path relative to MEDIA_STORAGE_PATH
	URL              string `gorm:"not null" json:"url"`

	Width     int    `gorm:"not null" json:"width"`
	Height    int    `gorm:"not null" json:"height"`
	MimeType  string `gorm:"not null" json:"mime_type"`
	SizeBytes int64  `gorm:"not null" json:"size_bytes"`
	Quality   string `gorm:"not null" json:"quality"`

	// EXIF carried over from the source image, when present
	TakenAt      *int64   `gorm:"index" json:"taken_at,omitempty"`
	CameraMake   *string  `gorm:"" json:"camera_make,omitempty"`
	CameraModel  *string  `gorm:"" json:"camera_model,omitempty"`
	FocalLength  *float64 `gorm:"" json:"focal_length,omitempty"`
	Aperture     *float64 `gorm:"" json:"aperture,omitempty"`
	ShutterSpeed *string  `gorm:"" json:"shutter_speed,omitempty"`
	ISO          *int     `gorm:"" json:"iso,omitempty"`

	CreatedAt int64 `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName explicitly sets the table name for GORM.
func (EditedImage) TableName() string {
	return "edited_images"
}
