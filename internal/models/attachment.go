package models

import (
	"time"

	"gorm.io/datatypes"
)

// AttachmentType classifies an uploaded file
type AttachmentType string

const (
	AttachmentPhoto  AttachmentType = "photo"
	AttachmentNote   AttachmentType = "note"
	AttachmentPermit AttachmentType = "permit"
)

// ValidAttachmentType reports whether t is one of the known attachment types
func ValidAttachmentType(t AttachmentType) bool {
	switch t {
	case AttachmentPhoto, AttachmentNote, AttachmentPermit:
		return true
	}
	return false
}

// Attachment represents a file stored on disk and linked to a work order.
// Metadata carries the original filename, size and MIME type, plus EXIF data
// (capture time, GPS, camera, dimensions) when the file is an image.
type Attachment struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	WorkOrderID uint           `gorm:"not null;index" json:"work_order_id"`
	Type        AttachmentType `gorm:"type:varchar(20);not null" json:"type"`
	FilePath    string         `gorm:"not null" json:"file_path"`
	UploadedBy  *uint          `json:"uploaded_by,omitempty"`
	UploadedAt  time.Time      `json:"uploaded_at"`
	Metadata    datatypes.JSON `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	WorkOrder *WorkOrder `gorm:"foreignKey:WorkOrderID" json:"work_order,omitempty"`
	Uploader  *User      `gorm:"foreignKey:UploadedBy" json:"uploader,omitempty"`
}

// TableName specifies the table name for Attachment model
func (Attachment) TableName() string {
	return "attachments"
}
