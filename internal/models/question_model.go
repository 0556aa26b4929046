package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductQuestion is a visitor question about a product, answered from the
// back office.
type ProductQuestion struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ProductSlug string         `gorm:"size:255;index" json:"product_slug"`
	AuthorName  string         `gorm:"size:100" json:"author_name"`
	AuthorEmail string         `gorm:"size:100" json:"author_email"`
	Question    string         `gorm:"type:text" json:"question"`
	Answer      string         `gorm:"type:text" json:"answer"`
	AnsweredBy  *uint          `json:"answered_by,omitempty"`
	AnsweredAt  *time.Time     `json:"answered_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
