// app/bootstrap.go
package app

import (
	"context"
	"log"

	"assetdesk/config"
	"assetdesk/db"
	"assetdesk/models"
)

// BootstrapFirstAdmin 库里没有 ADMIN 时，用环境变量里的账号创建一个
func BootstrapFirstAdmin(ctx context.Context, cfg config.Config, repo *db.Repo) {
	if cfg.BootstrapEmail == "" || cfg.BootstrapPassword == "" {
		return
	}
	n, err := repo.CountAdmins(ctx)
	if err != nil {
		log.Printf("bootstrap admin check failed: %v", err)
		return
	}
	if n > 0 {
		return // 已经有管理员，跳过
	}

	u, err := repo.CreateUser(ctx, db.CreateUserInput{
		Email:    cfg.BootstrapEmail,
		Name:     cfg.BootstrapName,
		Role:     models.RoleAdmin,
		Password: cfg.BootstrapPassword,
	})
	if err != nil {
		log.Printf("bootstrap admin failed: %v", err)
		return
	}
	log.Printf("[BOOTSTRAP] No admin found, created admin user %s", u.Email)
}
