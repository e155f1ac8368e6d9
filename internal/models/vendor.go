package models

import (
	"time"
)

// Vendor represents a supplier or service provider. Vendors stand alone;
// no relation to other entities is enforced at this layer.
type Vendor struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"not null" json:"name"`
	TaxID   string `json:"tax_id"`
	Contact string `json:"contact"`
	Address string `gorm:"type:text" json:"address"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Vendor model
func (Vendor) TableName() string {
	return "vendors"
}
