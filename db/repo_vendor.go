// db/repo_vendor.go
package db

import (
	"assetdesk/models"
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateVendorInput struct {
	Name         string
	ContactEmail *string
	Phone        *string
}

func (r *Repo) CreateVendor(ctx context.Context, in CreateVendorInput) (*models.Vendor, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Vendor{}).
		Where("name = ?", in.Name).
		Count(&n).Error; err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrDuplicateName
	}

	v := &models.Vendor{
		ID:           uuid.NewString(),
		Name:         in.Name,
		ContactEmail: in.ContactEmail,
		Phone:        in.Phone,
	}
	if err := r.DB.WithContext(ctx).Create(v).Error; err != nil {
		if uniqueViolation(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return v, nil
}

type UpdateVendorInput struct {
	Name         *string
	ContactEmail *string
	Phone        *string
}

func (r *Repo) UpdateVendor(ctx context.Context, id string, in UpdateVendorInput) (*models.Vendor, error) {
	var v models.Vendor
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&v, "id = ?", id).Error; err != nil {
			return notFound(err)
		}

		if in.Name != nil && *in.Name != v.Name {
			var n int64
			if err := tx.Model(&models.Vendor{}).
				Where("name = ? AND id <> ?", *in.Name, v.ID).
				Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return ErrDuplicateName
			}
			v.Name = *in.Name
		}
		if in.ContactEmail != nil {
			v.ContactEmail = in.ContactEmail
		}
		if in.Phone != nil {
			v.Phone = in.Phone
		}

		return tx.Save(&v).Error
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// DeleteVendor 有资产引用时拒绝删除（弱引用：挡住，不级联）
func (r *Repo) DeleteVendor(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var v models.Vendor
		if err := tx.First(&v, "id = ?", id).Error; err != nil {
			return notFound(err)
		}
		var n int64
		if err := tx.Model(&models.Asset{}).
			Where("vendor_id = ?", id).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrConflict
		}
		return tx.Delete(&models.Vendor{}, "id = ?", id).Error
	})
}

// VendorRow 厂商列表行（带资产数，按名称升序）
type VendorRow struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ContactEmail *string   `json:"contactEmail,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	AssetCount   int64     `json:"assetCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (r *Repo) ListVendors(ctx context.Context) ([]VendorRow, error) {
	var rows []VendorRow
	err := r.DB.WithContext(ctx).
		Table(models.VendorTable+" v").
		Select(`
			v.id, v.name, v.contact_email, v.phone, v.created_at, v.updated_at,
			COUNT(a.id) AS asset_count
		`).
		Joins("LEFT JOIN "+models.AssetTable+" a ON a.vendor_id = v.id").
		Group("v.id").
		Order("v.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// VendorDetail 单个厂商 + 其资产
type VendorDetail struct {
	models.Vendor
	Assets     []AssetSummary `json:"assets"`
	AssetCount int            `json:"assetCount"`
}

func (r *Repo) GetVendorDetail(ctx context.Context, id string) (*VendorDetail, error) {
	var v models.Vendor
	if err := r.DB.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}

	var assets []models.Asset
	if err := r.DB.WithContext(ctx).
		Where("vendor_id = ?", id).
		Order("created_at DESC").
		Find(&assets).Error; err != nil {
		return nil, err
	}

	d := &VendorDetail{Vendor: v, Assets: make([]AssetSummary, 0, len(assets)), AssetCount: len(assets)}
	for _, a := range assets {
		d.Assets = append(d.Assets, AssetSummary{ID: a.ID, Tag: a.Tag, Name: a.Name, Status: a.Status})
	}
	return d, nil
}
