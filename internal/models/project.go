package models

import (
	"time"
)

// Status defines the lifecycle state shared by projects and work orders
type Status string

const (
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in_progress"
	StatusPaused     Status = "paused"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// ValidStatus reports whether s is one of the known statuses
func ValidStatus(s Status) bool {
	switch s {
	case StatusPlanned, StatusInProgress, StatusPaused, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Project represents a renovation project owning work orders
type Project struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Name            string     `gorm:"not null" json:"name"`
	Address         string     `gorm:"type:text" json:"address"`
	Description     string     `gorm:"type:text" json:"description"`
	Client          string     `json:"client"`
	Status          Status     `gorm:"type:varchar(20);default:'planned';index" json:"status"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	ExpectedEndDate *time.Time `json:"expected_end_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	WorkOrders []WorkOrder `gorm:"foreignKey:ProjectID" json:"work_orders,omitempty"`
}

// TableName specifies the table name for Project model
func (Project) TableName() string {
	return "projects"
}
