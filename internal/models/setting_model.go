package models

import (
	"time"

	"gorm.io/datatypes"
)

// Setting is one key under a settings group (e.g. group "general",
// key "site_title"). Value is arbitrary JSON owned by the admin forms.
type Setting struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Group     string         `gorm:"size:50;uniqueIndex:idx_group_key" json:"group"`
	Key       string         `gorm:"size:100;uniqueIndex:idx_group_key" json:"key"`
	Value     datatypes.JSON `json:"value"`
	UpdatedBy uint           `json:"updated_by"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
