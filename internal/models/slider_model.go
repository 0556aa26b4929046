package models

import (
	"time"

	"gorm.io/gorm"
)

type Slider struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Title     string         `gorm:"size:255" json:"title"`
	Subtitle  string         `gorm:"size:500" json:"subtitle"`
	ImageURL  string         `gorm:"size:500" json:"image_url"`
	LinkURL   string         `gorm:"size:500" json:"link_url"`
	SortOrder int            `gorm:"index" json:"sort_order"`
	Active    bool           `gorm:"default:true" json:"active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
