package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	OrderStatusNew       = "new"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDone      = "done"
	OrderStatusCancelled = "cancelled"
)

type Order struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Number        string         `gorm:"size:50;uniqueIndex" json:"number"`
	CustomerName  string         `gorm:"size:255" json:"customer_name"`
	CustomerEmail string         `gorm:"size:255" json:"customer_email"`
	Status        string         `gorm:"size:20;index;default:'new'" json:"status"`
	Items         datatypes.JSON `json:"items"`
	TotalCents    int64          `json:"total_cents"`
	Note          string         `gorm:"type:text" json:"note"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
