package models

import (
	"time"

	"gorm.io/datatypes"
)

// CheckpointType classifies a checkpoint milestone
type CheckpointType string

const (
	CheckpointInspection CheckpointType = "inspection"
	CheckpointSafety     CheckpointType = "safety"
	CheckpointQuality    CheckpointType = "quality"
)

// ValidCheckpointType reports whether t is one of the known checkpoint types
func ValidCheckpointType(t CheckpointType) bool {
	switch t {
	case CheckpointInspection, CheckpointSafety, CheckpointQuality:
		return true
	}
	return false
}

// Checkpoint represents an inspection/quality/safety milestone on a work
// order. A nil WorkOrderID marks a reusable template; the template marker and
// its service type live inside the Pattern payload.
type Checkpoint struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	WorkOrderID *uint          `gorm:"index" json:"work_order_id,omitempty"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Position    int            `gorm:"default:1" json:"order"`
	Type        CheckpointType `gorm:"type:varchar(20);default:'inspection'" json:"type"`
	Pattern     datatypes.JSON `json:"pattern,omitempty"`
	Completed   bool           `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	WorkOrder *WorkOrder `gorm:"foreignKey:WorkOrderID" json:"work_order,omitempty"`
}

// TableName specifies the table name for Checkpoint model
func (Checkpoint) TableName() string {
	return "checkpoints"
}
