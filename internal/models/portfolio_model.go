package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PortfolioItem is the parent entity a gallery belongs to. Images holds the
// ordered URL list as JSON; CoverImage must be empty or one of Images.
type PortfolioItem struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"size:255" json:"title"`
	Slug        string         `gorm:"size:255;uniqueIndex" json:"slug"`
	Summary     string         `gorm:"size:500" json:"summary"`
	Body        string         `gorm:"type:text" json:"body"`
	Images      datatypes.JSON `json:"images"`
	CoverImage  string         `gorm:"size:500" json:"cover_image"`
	Published   bool           `gorm:"index" json:"published"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
