package models

import (
	"github.com/jinzhu/gorm"
)

// GalleryImage represents a photo shown on the public gallery page.
type GalleryImage struct {
	gorm.Model
	Title    string
	ImageURL string
	AltText  string
	Position int
}
