package db

import (
	"context"
	"testing"

	"assetdesk/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAssetDuplicateTag(t *testing.T) {
	r := setupTestDB(t)
	ctx := context.Background()

	_, err := r.CreateAsset(ctx, CreateAssetInput{Tag: "LT-001", Name: "first"})
	require.NoError(t, err)

	_, err = r.CreateAsset(ctx, CreateAssetInput{Tag: "LT-001", Name: "second"})
	require.ErrorIs(t, err, ErrDuplicateTag)

	// 大小写敏感：不同写法不算重复
	_, err = r.CreateAsset(ctx, CreateAssetInput{Tag: "lt-001", Name: "third"})
	require.NoError(t, err)
}

func TestCreateAssetVendorMustExist(t *testing.T) {
	r := setupTestDB(t)
	ctx := context.Background()

	missing := "11111111-1111-1111-1111-111111111111"
	_, err := r.CreateAsset(ctx, CreateAssetInput{Tag: "LT-002", Name: "x", VendorID: &missing})
	require.ErrorIs(t, err, ErrNotFound)

	v := mustVendor(t, r, "Dell")
	a, err := r.CreateAsset(ctx, CreateAssetInput{Tag: "LT-002", Name: "x", VendorID: &v.ID})
	require.NoError(t, err)
	require.NotNil(t, a.VendorID)
	assert.Equal(t, v.ID, *a.VendorID)
}

func TestUpdateAsset(t *testing.T) {
	r := setupTestDB(t)
	ctx := context.Background()

	a := mustAsset(t, r, "LT-003")
	mustAsset(t, r, "LT-004")

	// 换成已占用的 tag 被拒
	taken := "LT-004"
	_, err := r.UpdateAsset(ctx, a.ID, UpdateAssetInput{Tag: &taken})
	require.ErrorIs(t, err, ErrDuplicateTag)

	// 正常部分更新
	name := "renamed"
	free := "LT-099"
	got, err := r.UpdateAsset(ctx, a.ID, UpdateAssetInput{Tag: &free, Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "LT-099", got.Tag)
	assert.Equal(t, "renamed", got.Name)
	assert.Equal(t, models.StatusAvailable, got.Status)

	// 状态不能直接改成 CHECKED_OUT
	co := models.StatusCheckedOut
	_, err = r.UpdateAsset(ctx, a.ID, UpdateAssetInput{Status: &co})
	require.ErrorIs(t, err, ErrInvalidState)

	// AVAILABLE ↔ RETIRED 可以直接改
	retired := models.StatusRetired
	got, err = r.UpdateAsset(ctx, a.ID, UpdateAssetInput{Status: &retired})
	require.NoError(t, err)
	assert.Equal(t, models.StatusRetired, got.Status)

	avail := models.StatusAvailable
	got, err = r.UpdateAsset(ctx, a.ID, UpdateAssetInput{Status: &avail})
	require.NoError(t, err)
	assert.Equal(t, models.StatusAvailable, got.Status)

	_, err = r.UpdateAsset(ctx, "11111111-1111-1111-1111-111111111111", UpdateAssetInput{Name: &name})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateAssetVendorLink(t *testing.T) {
	r := setupTestDB(t)
	ctx := context.Background()

	a := mustAsset(t, r, "LT-005")
	v := mustVendor(t, r, "HP")

	got, err := r.UpdateAsset(ctx, a.ID, UpdateAssetInput{VendorID: &v.ID})
	require.NoError(t, err)
	require.NotNil(t, got.VendorID)

	// 空串解除关联
	clear := ""
	got, err = r.UpdateAsset(ctx, a.ID, UpdateAssetInput{VendorID: &clear})
	require.NoError(t, err)
	assert.Nil(t, got.VendorID)

	missing := "11111111-1111-1111-1111-111111111111"
	_, err = r.UpdateAsset(ctx, a.ID, UpdateAssetInput{VendorID: &missing})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteAssetGuardedByOpenCheckout(t *testing.T) {
	r := setupTestDB(t)
	ctx := context.Background()

	u := mustUser(t, r, "u@example.com", models.RoleStaff)
	a := mustAsset(t, r, "LT-006")

	co, err := r.CheckoutAsset(ctx, CheckoutInput{AssetID: a.ID, UserID: u.ID})
	require.NoError(t, err)

	require.ErrorIs(t, r.DeleteAsset(ctx, a.ID), ErrConflict)

	_, err = r.ReturnCheckout(ctx, co.ID)
	require.NoError(t, err)

	require.NoError(t, r.DeleteAsset(ctx, a.ID))
	_, err = r.FindAssetByID(ctx, a.ID)
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, r.DeleteAsset(ctx, a.ID), ErrNotFound)
}

func TestListAssetsWithOpenCheckout(t *testing.T) {
	r := setupTestDB(t)
	ctx := context.Background()

	u := mustUser(t, r, "borrower@example.com", models.RoleStaff)
	v := mustVendor(t, r, "Dell")

	a1, err := r.CreateAsset(ctx, CreateAssetInput{Tag: "LT-007", Name: "Latitude", VendorID: &v.ID})
	require.NoError(t, err)
	mustAsset(t, r, "LT-008")

	_, err = r.CheckoutAsset(ctx, CheckoutInput{AssetID: a1.ID, UserID: u.ID})
	require.NoError(t, err)

	res, err := r.ListAssets(ctx, AssetsQuery{})
	require.NoError(t, err)
	require.Equal(t, int64(2), res.Total)

	byTag := map[string]AssetRow{}
	for _, row := range res.Assets {
		byTag[row.Tag] = row
	}

	row := byTag["LT-007"]
	assert.Equal(t, models.StatusCheckedOut, row.Status)
	require.NotNil(t, row.VendorName)
	assert.Equal(t, "Dell", *row.VendorName)
	require.NotNil(t, row.BorrowerEmail)
	assert.Equal(t, "borrower@example.com", *row.BorrowerEmail)

	free := byTag["LT-008"]
	assert.Nil(t, free.CheckoutID)
	assert.Nil(t, free.VendorName)

	// 状态过滤
	res, err = r.ListAssets(ctx, AssetsQuery{Status: string(models.StatusAvailable)})
	require.NoError(t, err)
	require.Equal(t, int64(1), res.Total)
	assert.Equal(t, "LT-008", res.Assets[0].Tag)

	// 关键词
	res, err = r.ListAssets(ctx, AssetsQuery{Q: "latitude"})
	require.NoError(t, err)
	require.Equal(t, int64(1), res.Total)
}

func TestCountAssetsByStatus(t *testing.T) {
	r := setupTestDB(t)
	ctx := context.Background()

	u := mustUser(t, r, "u@example.com", models.RoleStaff)
	mustAsset(t, r, "LT-009")
	a2 := mustAsset(t, r, "LT-010")
	a3 := mustAsset(t, r, "LT-011")

	_, err := r.CheckoutAsset(ctx, CheckoutInput{AssetID: a2.ID, UserID: u.ID})
	require.NoError(t, err)

	retired := models.StatusRetired
	_, err = r.UpdateAsset(ctx, a3.ID, UpdateAssetInput{Status: &retired})
	require.NoError(t, err)

	sc, err := r.CountAssetsByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), sc.Total)
	assert.Equal(t, int64(1), sc.Available)
	assert.Equal(t, int64(1), sc.CheckedOut)
	assert.Equal(t, int64(1), sc.Retired)
}
