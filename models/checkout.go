package models

import "time"

const CheckoutTable = "inv_checkouts"

// 逾期阈值（天），仅用于报表，不触发状态变更
const DefaultOverdueDays = 30

type Checkout struct {
	ID      string `gorm:"type:uuid;primaryKey" json:"id"`
	AssetID string `gorm:"type:uuid;index;not null" json:"assetId"`
	UserID  string `gorm:"type:uuid;index;not null" json:"userId"`

	CheckoutDate time.Time  `gorm:"index;not null" json:"checkoutDate"`
	DueDate      *time.Time `json:"dueDate,omitempty"`

	// 为空 = 仍在借出中；一旦写入不再清空
	ReturnDate *time.Time `gorm:"index" json:"returnDate,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Checkout) TableName() string { return CheckoutTable }

// Open reports whether the asset has not been returned yet.
func (co Checkout) Open() bool { return co.ReturnDate == nil }

// Overdue reports whether the checkout is still open and was taken out more
// than thresholdDays before asOf. Exactly thresholdDays is not overdue.
func (co Checkout) Overdue(asOf time.Time, thresholdDays int) bool {
	if co.ReturnDate != nil {
		return false
	}
	return asOf.Sub(co.CheckoutDate) > time.Duration(thresholdDays)*24*time.Hour
}
