package db

import (
	"assetdesk/models"
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func ConnectDB(dsn string) *gorm.DB {
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err := Migrate(conn); err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}
	log.Println("Database connected")
	return conn
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Vendor{},
		&models.Asset{},
		&models.Checkout{},
		&models.AuditLog{},
	); err != nil {
		return err
	}

	// 同一资产最多一条“未归还”
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_one_open_per_asset
	  ON %s (asset_id)
	  WHERE return_date IS NULL;
	`, models.CheckoutTable, models.CheckoutTable)).Error; err != nil {
		return err
	}

	// 查询当前借用更快
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_open_asset_checkout_desc
	  ON %s (asset_id, checkout_date DESC)
	  WHERE return_date IS NULL;
	`, models.CheckoutTable, models.CheckoutTable)).Error; err != nil {
		return err
	}

	return nil
}
