package models

import (
	"time"
)

// Material represents a stocked construction material
type Material struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Name     string  `gorm:"not null" json:"name"`
	Unit     string  `gorm:"not null" json:"unit"`
	UnitCost float64 `gorm:"default:0" json:"unit_cost"`
	Stock    int     `gorm:"default:0" json:"stock"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Usages []MaterialUsage `gorm:"foreignKey:MaterialID" json:"usages,omitempty"`
}

// TableName specifies the table name for Material model
func (Material) TableName() string {
	return "materials"
}

// MaterialUsage records a quantity of a material consumed by a work order.
// TotalCost is frozen at creation time and never recomputed when the
// material's unit cost changes later.
type MaterialUsage struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	WorkOrderID uint    `gorm:"not null;index" json:"work_order_id"`
	MaterialID  uint    `gorm:"not null;index" json:"material_id"`
	Quantity    int     `gorm:"not null" json:"quantity"`
	TotalCost   float64 `gorm:"not null" json:"total_cost"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	WorkOrder *WorkOrder `gorm:"foreignKey:WorkOrderID" json:"work_order,omitempty"`
	Material  *Material  `gorm:"foreignKey:MaterialID" json:"material,omitempty"`
}

// TableName specifies the table name for MaterialUsage model
func (MaterialUsage) TableName() string {
	return "material_usages"
}
