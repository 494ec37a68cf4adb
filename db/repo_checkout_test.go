package db

import (
	"context"
	"testing"
	"time"

	"assetdesk/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutLifecycle(t *testing.T) {
	r := setupTestDB(t)
	ctx := context.Background()

	u1 := mustUser(t, r, "u1@example.com", models.RoleStaff)
	u2 := mustUser(t, r, "u2@example.com", models.RoleStaff)
	a := mustAsset(t, r, "LT-001")
	require.Equal(t, models.StatusAvailable, a.Status)

	// 借出
	co1, err := r.CheckoutAsset(ctx, CheckoutInput{AssetID: a.ID, UserID: u1.ID})
	require.NoError(t, err)
	assert.Nil(t, co1.ReturnDate)

	got, err := r.FindAssetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCheckedOut, got.Status)
	requireOneOpenAtMost(t, r, a.ID)

	// 已借出的资产不能再借
	_, err = r.CheckoutAsset(ctx, CheckoutInput{AssetID: a.ID, UserID: u2.ID})
	require.ErrorIs(t, err, ErrInvalidState)
	requireOneOpenAtMost(t, r, a.ID)

	// 归还
	ret, err := r.ReturnCheckout(ctx, co1.ID)
	require.NoError(t, err)
	require.NotNil(t, ret.ReturnDate)

	got, err = r.FindAssetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAvailable, got.Status)
	requireOneOpenAtMost(t, r, a.ID)

	// 归还后可以再次借出
	_, err = r.CheckoutAsset(ctx, CheckoutInput{AssetID: a.ID, UserID: u2.ID})
	require.NoError(t, err)
	requireOneOpenAtMost(t, r, a.ID)
}

func TestReturnIsNotIdempotent(t *testing.T) {
	r := setupTestDB(t)
	ctx := context.Background()

	u := mustUser(t, r, "u@example.com", models.RoleStaff)
	a := mustAsset(t, r, "LT-002")

	co, err := r.CheckoutAsset(ctx, CheckoutInput{AssetID: a.ID, UserID: u.ID})
	require.NoError(t, err)

	_, err = r.ReturnCheckout(ctx, co.ID)
	require.NoError(t, err)

	_, err = r.ReturnCheckout(ctx, co.ID)
	require.ErrorIs(t, err, ErrAlreadyReturned)
}

func TestCheckoutMissingAssetOrUser(t *testing.T) {
	r := setupTestDB(t)
	ctx := context.Background()

	u := mustUser(t, r, "u@example.com", models.RoleStaff)
	a := mustAsset(t, r, "LT-003")

	_, err := r.CheckoutAsset(ctx, CheckoutInput{AssetID: "11111111-1111-1111-1111-111111111111", UserID: u.ID})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = r.CheckoutAsset(ctx, CheckoutInput{AssetID: a.ID, UserID: "11111111-1111-1111-1111-111111111111"})
	require.ErrorIs(t, err, ErrNotFound)

	// 失败后资产仍可借
	got, err := r.FindAssetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAvailable, got.Status)
}

func TestCheckoutRetiredAsset(t *testing.T) {
	r := setupTestDB(t)
	ctx := context.Background()

	u := mustUser(t, r, "u@example.com", models.RoleStaff)
	a := mustAsset(t, r, "LT-004")

	retired := models.StatusRetired
	_, err := r.UpdateAsset(ctx, a.ID, UpdateAssetInput{Status: &retired})
	require.NoError(t, err)

	_, err = r.CheckoutAsset(ctx, CheckoutInput{AssetID: a.ID, UserID: u.ID})
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestReturnBlockedWhenAssetRetired(t *testing.T) {
	r := setupTestDB(t)
	ctx := context.Background()

	u := mustUser(t, r, "u@example.com", models.RoleStaff)
	a := mustAsset(t, r, "LT-005")

	co, err := r.CheckoutAsset(ctx, CheckoutInput{AssetID: a.ID, UserID: u.ID})
	require.NoError(t, err)

	// 管理员越过借还记录直接改状态会被拦（还有未归还记录）
	retired := models.StatusRetired
	_, err = r.UpdateAsset(ctx, a.ID, UpdateAssetInput{Status: &retired})
	require.ErrorIs(t, err, ErrConflict)

	// 硬改数据库模拟脱节后，归还要显式失败而不是悄悄复活资产
	require.NoError(t, r.DB.Model(&models.Asset{}).
		Where("id = ?", a.ID).
		Update("status", models.StatusRetired).Error)

	_, err = r.ReturnCheckout(ctx, co.ID)
	require.ErrorIs(t, err, ErrInvalidState)

	got, err := r.FindAssetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRetired, got.Status)
}

func TestListCheckoutsAndOverdue(t *testing.T) {
	r := setupTestDB(t)
	ctx := context.Background()

	u := mustUser(t, r, "u@example.com", models.RoleStaff)
	a1 := mustAsset(t, r, "LT-006")
	a2 := mustAsset(t, r, "LT-007")

	co1, err := r.CheckoutAsset(ctx, CheckoutInput{AssetID: a1.ID, UserID: u.ID})
	require.NoError(t, err)
	co2, err := r.CheckoutAsset(ctx, CheckoutInput{AssetID: a2.ID, UserID: u.ID})
	require.NoError(t, err)

	_, err = r.ReturnCheckout(ctx, co2.ID)
	require.NoError(t, err)

	open, err := r.ListCheckouts(ctx, CheckoutQuery{Status: "open"})
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, co1.ID, open[0].ID)
	assert.Equal(t, "u@example.com", *open[0].UserEmail)
	assert.Equal(t, "LT-006", *open[0].AssetTag)

	returned, err := r.ListCheckouts(ctx, CheckoutQuery{Status: "returned"})
	require.NoError(t, err)
	require.Len(t, returned, 1)
	assert.Equal(t, co2.ID, returned[0].ID)

	// 边界都相对同一个 asOf 算，挂钟时间推进不能影响断言。
	// 31 天前借出且未归还 → 逾期；刚好 30 天 → 不算
	asOf := time.Now().UTC()
	old := asOf.Add(-31 * 24 * time.Hour)
	require.NoError(t, r.DB.Model(&models.Checkout{}).
		Where("id = ?", co1.ID).
		Update("checkout_date", old).Error)

	rows, err := r.ListOverdue(ctx, asOf, models.DefaultOverdueDays)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, co1.ID, rows[0].ID)

	exactly := asOf.Add(-30 * 24 * time.Hour)
	require.NoError(t, r.DB.Model(&models.Checkout{}).
		Where("id = ?", co1.ID).
		Update("checkout_date", exactly).Error)

	rows, err = r.ListOverdue(ctx, asOf, models.DefaultOverdueDays)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestGetCheckoutRowSummaries(t *testing.T) {
	r := setupTestDB(t)
	ctx := context.Background()

	u := mustUser(t, r, "borrower@example.com", models.RoleStaff)
	a := mustAsset(t, r, "LT-008")

	co, err := r.CheckoutAsset(ctx, CheckoutInput{AssetID: a.ID, UserID: u.ID})
	require.NoError(t, err)

	row, err := r.GetCheckoutRow(ctx, co.ID)
	require.NoError(t, err)
	require.NotNil(t, row.UserEmail)
	assert.Equal(t, "borrower@example.com", *row.UserEmail)
	require.NotNil(t, row.AssetTag)
	assert.Equal(t, "LT-008", *row.AssetTag)
	require.NotNil(t, row.AssetStatus)
	assert.Equal(t, models.StatusCheckedOut, *row.AssetStatus)
	assert.Nil(t, row.ReturnDate)

	_, err = r.ReturnCheckout(ctx, co.ID)
	require.NoError(t, err)

	row, err = r.GetCheckoutRow(ctx, co.ID)
	require.NoError(t, err)
	require.NotNil(t, row.ReturnDate)
	assert.Equal(t, models.StatusAvailable, *row.AssetStatus)

	_, err = r.GetCheckoutRow(ctx, "11111111-1111-1111-1111-111111111111")
	require.ErrorIs(t, err, ErrNotFound)
}
