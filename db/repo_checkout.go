// db/repo_checkout.go
package db

import (
	"assetdesk/models"
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CheckoutInput struct {
	AssetID string
	UserID  string
	DueDate *time.Time
}

// CheckoutAsset 借出：原子操作 = 锁住 asset → 校验状态 → 新建 checkout → 置 CHECKED_OUT
func (r *Repo) CheckoutAsset(ctx context.Context, in CheckoutInput) (*models.Checkout, error) {
	var co *models.Checkout
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a models.Asset
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&a, "id = ?", in.AssetID).Error; err != nil {
			return notFound(err)
		}
		if err := tx.First(&models.User{}, "id = ?", in.UserID).Error; err != nil {
			return notFound(err)
		}

		if a.Status != models.StatusAvailable {
			return ErrInvalidState
		}
		// 防并发：状态本应挡住，但再查一次未归还记录兜底
		var n int64
		if err := tx.Model(&models.Checkout{}).
			Where("asset_id = ? AND return_date IS NULL", a.ID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrConflict
		}

		now := time.Now().UTC()
		c := &models.Checkout{
			ID:           uuid.NewString(),
			AssetID:      a.ID,
			UserID:       in.UserID,
			CheckoutDate: now,
			DueDate:      in.DueDate,
		}
		if err := tx.Create(c).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Asset{}).
			Where("id = ?", a.ID).
			Update("status", models.StatusCheckedOut).Error; err != nil {
			return err
		}
		co = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return co, nil
}

// ReturnCheckout 归还：原子操作 = 完成 checkout → 资产回到 AVAILABLE。
// 资产已 RETIRED 时拒绝归还，不悄悄把它改回 AVAILABLE。
func (r *Repo) ReturnCheckout(ctx context.Context, checkoutID string) (*models.Checkout, error) {
	var co models.Checkout
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&co, "id = ?", checkoutID).Error; err != nil {
			return notFound(err)
		}
		if co.ReturnDate != nil {
			return ErrAlreadyReturned
		}

		var a models.Asset
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&a, "id = ?", co.AssetID).Error; err != nil {
			return notFound(err)
		}
		if a.Status == models.StatusRetired {
			return ErrInvalidState
		}

		now := time.Now().UTC()
		co.ReturnDate = &now
		if err := tx.Save(&co).Error; err != nil {
			return err
		}

		return tx.Model(&models.Asset{}).
			Where("id = ?", a.ID).
			Update("status", models.StatusAvailable).Error
	})
	if err != nil {
		return nil, err
	}
	return &co, nil
}

func (r *Repo) FindCheckoutByID(ctx context.Context, id string) (*models.Checkout, error) {
	var co models.Checkout
	if err := r.DB.WithContext(ctx).First(&co, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &co, nil
}

// CheckoutRow 借还记录行，带借用人和资产摘要
type CheckoutRow struct {
	ID           string     `json:"id"`
	AssetID      string     `json:"assetId"`
	UserID       string     `json:"userId"`
	CheckoutDate time.Time  `json:"checkoutDate"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	ReturnDate   *time.Time `json:"returnDate,omitempty"`

	UserName  *string `json:"userName,omitempty"`
	UserEmail *string `json:"userEmail,omitempty"`

	AssetTag    *string             `json:"assetTag,omitempty"`
	AssetName   *string             `json:"assetName,omitempty"`
	AssetStatus *models.AssetStatus `json:"assetStatus,omitempty"`
}

type CheckoutQuery struct {
	UserID  string
	AssetID string
	Status  string // "", "open", "returned"
}

// checkoutRows 借还记录的基础查询，左连借用人和资产摘要
func (r *Repo) checkoutRows(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Table(models.CheckoutTable+" co").
		Select(`
			co.id, co.asset_id, co.user_id, co.checkout_date, co.due_date, co.return_date,
			u.name   AS user_name,
			u.email  AS user_email,
			a.tag    AS asset_tag,
			a.name   AS asset_name,
			a.status AS asset_status
		`).
		Joins("LEFT JOIN "+models.UserTable+" u ON u.id = co.user_id").
		Joins("LEFT JOIN "+models.AssetTable+" a ON a.id = co.asset_id")
}

// GetCheckoutRow 单条记录，带摘要（借出/归还接口的响应体）
func (r *Repo) GetCheckoutRow(ctx context.Context, id string) (*CheckoutRow, error) {
	var rows []CheckoutRow
	if err := r.checkoutRows(ctx).
		Where("co.id = ?", id).
		Scan(&rows).Error; err != nil {
		return nil, notFound(err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

func (r *Repo) ListCheckouts(ctx context.Context, q CheckoutQuery) ([]CheckoutRow, error) {
	qry := r.checkoutRows(ctx).Order("co.checkout_date DESC")

	if q.UserID != "" {
		qry = qry.Where("co.user_id = ?", q.UserID)
	}
	if q.AssetID != "" {
		qry = qry.Where("co.asset_id = ?", q.AssetID)
	}
	switch q.Status {
	case "open":
		qry = qry.Where("co.return_date IS NULL")
	case "returned":
		qry = qry.Where("co.return_date IS NOT NULL")
	}

	var rows []CheckoutRow
	if err := qry.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListOverdue 报表：asOf 时已超过 thresholdDays 天仍未归还的记录
func (r *Repo) ListOverdue(ctx context.Context, asOf time.Time, thresholdDays int) ([]CheckoutRow, error) {
	if thresholdDays <= 0 {
		thresholdDays = models.DefaultOverdueDays
	}
	cutoff := asOf.Add(-time.Duration(thresholdDays) * 24 * time.Hour)

	qry := r.checkoutRows(ctx).
		Where("co.return_date IS NULL AND co.checkout_date < ?", cutoff).
		Order("co.checkout_date ASC")

	var rows []CheckoutRow
	if err := qry.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CountOpenCheckouts 仪表盘用
func (r *Repo) CountOpenCheckouts(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Checkout{}).
		Where("return_date IS NULL").
		Count(&n).Error
	return n, err
}
