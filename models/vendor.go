package models

import "time"

const VendorTable = "inv_vendors"

type Vendor struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:200;uniqueIndex;not null" json:"name"`
	ContactEmail *string   `gorm:"size:255" json:"contactEmail,omitempty"`
	Phone        *string   `gorm:"size:45" json:"phone,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Vendor) TableName() string { return VendorTable }
