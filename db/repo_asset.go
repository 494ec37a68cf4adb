// db/repo_asset.go
package db

import (
	"assetdesk/models"
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateAssetInput struct {
	Tag      string
	Name     string
	VendorID *string
}

func (r *Repo) CreateAsset(ctx context.Context, in CreateAssetInput) (*models.Asset, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Asset{}).
		Where("tag = ?", in.Tag).
		Count(&n).Error; err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrDuplicateTag
	}

	if in.VendorID != nil {
		if err := r.DB.WithContext(ctx).First(&models.Vendor{}, "id = ?", *in.VendorID).Error; err != nil {
			return nil, notFound(err)
		}
	}

	a := &models.Asset{
		ID:       uuid.NewString(),
		Tag:      in.Tag,
		Name:     in.Name,
		Status:   models.StatusAvailable,
		VendorID: in.VendorID,
	}
	if err := r.DB.WithContext(ctx).Create(a).Error; err != nil {
		if uniqueViolation(err) {
			return nil, ErrDuplicateTag
		}
		return nil, err
	}
	return a, nil
}

// UpdateAssetInput 部分更新：nil = 不改。VendorID 传空串表示解除关联。
type UpdateAssetInput struct {
	Tag      *string
	Name     *string
	Status   *models.AssetStatus
	VendorID *string
}

// UpdateAsset 管理员编辑。状态只能在 AVAILABLE/RETIRED 之间直接改；
// CHECKED_OUT 必须走 CheckoutAsset/ReturnCheckout，避免和未归还记录脱节。
func (r *Repo) UpdateAsset(ctx context.Context, id string, in UpdateAssetInput) (*models.Asset, error) {
	var a models.Asset
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&a, "id = ?", id).Error; err != nil {
			return notFound(err)
		}

		if in.Tag != nil && *in.Tag != a.Tag {
			var n int64
			if err := tx.Model(&models.Asset{}).
				Where("tag = ? AND id <> ?", *in.Tag, a.ID).
				Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return ErrDuplicateTag
			}
			a.Tag = *in.Tag
		}
		if in.Name != nil {
			a.Name = *in.Name
		}

		if in.Status != nil && *in.Status != a.Status {
			if !in.Status.Valid() || *in.Status == models.StatusCheckedOut {
				return ErrInvalidState
			}
			var open int64
			if err := tx.Model(&models.Checkout{}).
				Where("asset_id = ? AND return_date IS NULL", a.ID).
				Count(&open).Error; err != nil {
				return err
			}
			if open > 0 {
				return ErrConflict
			}
			a.Status = *in.Status
		}

		if in.VendorID != nil {
			if *in.VendorID == "" {
				a.VendorID = nil
			} else {
				if err := tx.First(&models.Vendor{}, "id = ?", *in.VendorID).Error; err != nil {
					return notFound(err)
				}
				v := *in.VendorID
				a.VendorID = &v
			}
		}

		return tx.Save(&a).Error
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repo) DeleteAsset(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a models.Asset
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&a, "id = ?", id).Error; err != nil {
			return notFound(err)
		}
		var open int64
		if err := tx.Model(&models.Checkout{}).
			Where("asset_id = ? AND return_date IS NULL", id).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return ErrConflict
		}
		return tx.Delete(&models.Asset{}, "id = ?", id).Error
	})
}

func (r *Repo) FindAssetByID(ctx context.Context, id string) (*models.Asset, error) {
	var a models.Asset
	if err := r.DB.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

// AssetRow 资产列表行：左连当前未归还的借用人和厂商摘要
type AssetRow struct {
	ID        string             `json:"id"`
	Tag       string             `json:"tag"`
	Name      string             `json:"name"`
	Status    models.AssetStatus `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`

	VendorID    *string `json:"vendorId,omitempty"`
	VendorName  *string `json:"vendorName,omitempty"`
	VendorEmail *string `json:"vendorEmail,omitempty"`

	// Current open checkout (nullable)
	CheckoutID    *string    `json:"checkoutId,omitempty"`
	BorrowerID    *string    `json:"borrowerId,omitempty"`
	BorrowerName  *string    `json:"borrowerName,omitempty"`
	BorrowerEmail *string    `json:"borrowerEmail,omitempty"`
	CheckoutDate  *time.Time `json:"checkoutDate,omitempty"`
	DueDate       *time.Time `json:"dueDate,omitempty"`
}

type AssetsQuery struct {
	Q      string // 模糊搜索：tag/name
	Status string // "", "AVAILABLE", "CHECKED_OUT", "RETIRED"
	Page   int
	Size   int
}

type PagedAssets struct {
	Total  int64      `json:"total"`
	Assets []AssetRow `json:"assets"`
}

func (r *Repo) ListAssets(ctx context.Context, q AssetsQuery) (*PagedAssets, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Size <= 0 || q.Size > 200 {
		q.Size = 50
	}

	db := r.DB.WithContext(ctx)

	// 子查询：每个资产“当前未归还”的最新一条 Checkout
	sub := db.
		Table(models.CheckoutTable + " co").
		Select(`
			DISTINCT ON (co.asset_id)
			co.id, co.asset_id, co.user_id, co.checkout_date, co.due_date
		`).
		Where("co.return_date IS NULL").
		Order("co.asset_id, co.checkout_date DESC")

	base := func() *gorm.DB {
		qry := db.Table(models.AssetTable + " a")
		if s := strings.TrimSpace(q.Q); s != "" {
			pat := "%" + strings.ToLower(s) + "%"
			qry = qry.Where("LOWER(a.tag) LIKE ? OR LOWER(a.name) LIKE ?", pat, pat)
		}
		if q.Status != "" {
			qry = qry.Where("a.status = ?", q.Status)
		}
		return qry
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, err
	}

	qry := base().
		Select(`
			a.id, a.tag, a.name, a.status, a.created_at, a.updated_at,
			a.vendor_id,
			v.name        AS vendor_name,
			v.contact_email AS vendor_email,
			oc.id         AS checkout_id,
			oc.user_id    AS borrower_id,
			oc.checkout_date,
			oc.due_date,
			u.name        AS borrower_name,
			u.email       AS borrower_email
		`).
		Joins("LEFT JOIN "+models.VendorTable+" v ON v.id = a.vendor_id").
		Joins("LEFT JOIN (?) AS oc ON oc.asset_id = a.id", sub).
		Joins("LEFT JOIN "+models.UserTable+" u ON u.id = oc.user_id").
		Order("a.created_at DESC").
		Offset((q.Page - 1) * q.Size).
		Limit(q.Size)

	var rows []AssetRow
	if err := qry.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return &PagedAssets{Total: total, Assets: rows}, nil
}

// AssetDetail 单个资产 + 厂商摘要 + 全部借还历史（新到旧）
type AssetDetail struct {
	models.Asset
	Vendor    *VendorSummary `json:"vendor,omitempty"`
	Checkouts []CheckoutRow  `json:"checkouts"`
}

func (r *Repo) GetAssetDetail(ctx context.Context, id string) (*AssetDetail, error) {
	a, err := r.FindAssetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	d := &AssetDetail{Asset: *a}
	if a.VendorID != nil {
		var v models.Vendor
		if err := r.DB.WithContext(ctx).First(&v, "id = ?", *a.VendorID).Error; err == nil {
			d.Vendor = &VendorSummary{ID: v.ID, Name: v.Name, ContactEmail: v.ContactEmail, Phone: v.Phone}
		}
	}

	rows, err := r.ListCheckouts(ctx, CheckoutQuery{AssetID: a.ID})
	if err != nil {
		return nil, err
	}
	d.Checkouts = rows
	return d, nil
}

// StatusCounts 仪表盘汇总
type StatusCounts struct {
	Total      int64 `json:"total"`
	Available  int64 `json:"available"`
	CheckedOut int64 `json:"checkedOut"`
	Retired    int64 `json:"retired"`
}

func (r *Repo) CountAssetsByStatus(ctx context.Context) (*StatusCounts, error) {
	type row struct {
		Status models.AssetStatus
		N      int64
	}
	var rows []row
	if err := r.DB.WithContext(ctx).Model(&models.Asset{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	var sc StatusCounts
	for _, rw := range rows {
		sc.Total += rw.N
		switch rw.Status {
		case models.StatusAvailable:
			sc.Available = rw.N
		case models.StatusCheckedOut:
			sc.CheckedOut = rw.N
		case models.StatusRetired:
			sc.Retired = rw.N
		}
	}
	return &sc, nil
}
