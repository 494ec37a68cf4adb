// models/asset.go
package models

import "time"

const AssetTable = "inv_assets"

type AssetStatus string

const (
	StatusAvailable  AssetStatus = "AVAILABLE"
	StatusCheckedOut AssetStatus = "CHECKED_OUT"
	StatusRetired    AssetStatus = "RETIRED"
)

func (s AssetStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusCheckedOut, StatusRetired:
		return true
	}
	return false
}

type Asset struct {
	ID     string      `gorm:"type:uuid;primaryKey" json:"id"`
	Tag    string      `gorm:"size:120;uniqueIndex;not null" json:"tag"` // 唯一资产编号，大小写敏感
	Name   string      `gorm:"size:200;not null" json:"name"`
	Status AssetStatus `gorm:"size:20;not null;default:'AVAILABLE'" json:"status"`

	VendorID *string `gorm:"type:uuid;index" json:"vendorId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Asset) TableName() string { return AssetTable }
