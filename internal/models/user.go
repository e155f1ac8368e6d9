package models

import (
	"time"
)

// Role defines the access level of a user
type Role string

const (
	RoleAdmin      Role = "admin"      // Full access, including user and vendor management
	RoleManager    Role = "manager"    // Manages projects, work orders and materials
	RoleTechnician Role = "technician" // Executes work orders in the field
	RoleViewer     Role = "viewer"     // Read-only access
)

// ValidRole reports whether r is one of the known roles
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleTechnician, RoleViewer:
		return true
	}
	return false
}

// User represents an account in the system
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Role     Role   `gorm:"type:varchar(20);default:'viewer';index" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	WorkOrders  []WorkOrder  `gorm:"foreignKey:ResponsibleID" json:"work_orders,omitempty"`
	Attachments []Attachment `gorm:"foreignKey:UploadedBy" json:"attachments,omitempty"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}
