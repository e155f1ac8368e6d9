package models

import (
	"time"

	"gorm.io/datatypes"
)

// Audit log actions derived from the HTTP method of the mutating request
const (
	ActionCreate = "CREATE"
	ActionRead   = "READ"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// Log is an append-only audit record of who changed what entity, when, and
// the before/after snapshot. The application never updates or deletes rows.
type Log struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Entity    string         `gorm:"not null;index" json:"entity"`
	EntityID  uint           `gorm:"not null;index" json:"entity_id"`
	Action    string         `gorm:"not null" json:"action"`
	UserID    *uint          `json:"user_id,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	OldValue  datatypes.JSON `json:"old_value,omitempty"`
	NewValue  datatypes.JSON `json:"new_value,omitempty"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for Log model
func (Log) TableName() string {
	return "logs"
}
