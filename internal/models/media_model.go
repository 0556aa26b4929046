package models

import (
	"time"

	"gorm.io/gorm"
)

// MediaAsset is one stored file plus its metadata record. Rows are created
// by a successful upload and removed by an explicit delete; a re-upload
// always creates a new asset.
type MediaAsset struct {
	ID           uint           `gorm:"primaryKey" json:"-"`
	PublicID     string         `gorm:"size:100;uniqueIndex" json:"id"`
	FileName     string         `gorm:"size:255" json:"filename"`
	OriginalName string         `gorm:"size:255" json:"originalName"`
	URL          string         `gorm:"size:500" json:"url"`
	MimeType     string         `gorm:"size:100;index" json:"mimeType"`
	Size         int64          `json:"size"`
	PageContext  string         `gorm:"size:100;index" json:"pageContext,omitempty"`
	UploadedBy   uint           `gorm:"index" json:"uploaded_by,omitempty"`
	Uploader     *User          `gorm:"foreignKey:UploadedBy" json:"uploader,omitempty"`
	UploadedAt   time.Time      `gorm:"autoCreateTime;index" json:"uploadedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
