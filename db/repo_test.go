package db

import (
	"context"
	"fmt"
	"os"
	"testing"

	"assetdesk/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB connects to the Postgres configured via DB_* env vars and
// migrates a clean schema. Tests are skipped when no database is reachable.
func setupTestDB(t *testing.T) *Repo {
	t.Helper()

	get := func(k, def string) string {
		if v := os.Getenv(k); v != "" {
			return v
		}
		return def
	}
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		get("DB_HOST", "127.0.0.1"),
		get("DB_USER", "postgres"),
		os.Getenv("DB_PASSWORD"),
		get("DB_NAME", "assetdesk_test"),
		get("DB_PORT", "5432"),
	)

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Skipf("skipping: could not connect to postgres: %v", err)
	}
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	if err := sqlDB.Ping(); err != nil {
		t.Skipf("skipping: could not ping postgres: %v", err)
	}

	require.NoError(t, Migrate(conn))

	// clean slate, checkouts first because of references
	for _, tbl := range []string{
		models.CheckoutTable, "inv_audit_log",
		models.AssetTable, models.VendorTable, models.UserTable,
	} {
		require.NoError(t, conn.Exec("DELETE FROM "+tbl).Error)
	}

	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewRepo(conn)
}

func mustUser(t *testing.T, r *Repo, email string, role models.Role) *models.User {
	t.Helper()
	u, err := r.CreateUser(context.Background(), CreateUserInput{
		Email: email, Name: email, Role: role, Password: "test-password-1",
	})
	require.NoError(t, err)
	return u
}

func mustVendor(t *testing.T, r *Repo, name string) *models.Vendor {
	t.Helper()
	v, err := r.CreateVendor(context.Background(), CreateVendorInput{Name: name})
	require.NoError(t, err)
	return v
}

func mustAsset(t *testing.T, r *Repo, tag string) *models.Asset {
	t.Helper()
	a, err := r.CreateAsset(context.Background(), CreateAssetInput{Tag: tag, Name: "asset " + tag})
	require.NoError(t, err)
	return a
}

// requireOneOpenAtMost asserts the core invariant: at most one open checkout
// per asset, and CHECKED_OUT implies exactly one.
func requireOneOpenAtMost(t *testing.T, r *Repo, assetID string) {
	t.Helper()
	var open int64
	require.NoError(t, r.DB.Model(&models.Checkout{}).
		Where("asset_id = ? AND return_date IS NULL", assetID).
		Count(&open).Error)
	require.LessOrEqual(t, open, int64(1))

	a, err := r.FindAssetByID(context.Background(), assetID)
	require.NoError(t, err)
	if a.Status == models.StatusCheckedOut {
		require.Equal(t, int64(1), open)
	} else {
		require.Equal(t, int64(0), open)
	}
}
