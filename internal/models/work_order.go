package models

import (
	"time"
)

// WorkOrder represents a discrete unit of service work scoped to one project
type WorkOrder struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	ProjectID     uint       `gorm:"not null;index" json:"project_id"`
	Title         string     `gorm:"not null" json:"title"`
	Description   string     `gorm:"type:text" json:"description"`
	ServiceType   string     `json:"service_type"`
	Status        Status     `gorm:"type:varchar(20);default:'planned';index" json:"status"`
	OpenedAt      time.Time  `json:"opened_at"`
	ExpectedStart *time.Time `json:"expected_start,omitempty"`
	ExpectedEnd   *time.Time `json:"expected_end,omitempty"`
	ResponsibleID *uint      `gorm:"index" json:"responsible_id,omitempty"`
	EstimatedCost float64    `gorm:"default:0" json:"estimated_cost"`
	ActualCost    float64    `gorm:"default:0" json:"actual_cost"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Project        *Project        `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Responsible    *User           `gorm:"foreignKey:ResponsibleID" json:"responsible,omitempty"`
	Checkpoints    []Checkpoint    `gorm:"foreignKey:WorkOrderID" json:"checkpoints,omitempty"`
	MaterialUsages []MaterialUsage `gorm:"foreignKey:WorkOrderID" json:"material_usages,omitempty"`
	Attachments    []Attachment    `gorm:"foreignKey:WorkOrderID" json:"attachments,omitempty"`
}

// TableName specifies the table name for WorkOrder model
func (WorkOrder) TableName() string {
	return "work_orders"
}
