package db

import (
	"assetdesk/models"
	"context"

	"gorm.io/gorm"
)

type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

// UserSummary / AssetSummary 是列表里内嵌展示用的精简字段

type UserSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type AssetSummary struct {
	ID     string             `json:"id"`
	Tag    string             `json:"tag"`
	Name   string             `json:"name"`
	Status models.AssetStatus `json:"status"`
}

type VendorSummary struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	ContactEmail *string `json:"contactEmail,omitempty"`
	Phone        *string `json:"phone,omitempty"`
}

// 登录快照：用数据库时间，避免并发覆盖
func (r *Repo) TouchUserLogin(ctx context.Context, userID string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"last_login_at": gorm.Expr("NOW()"),
			"last_seen_at":  gorm.Expr("NOW()"),
			"login_count":   gorm.Expr("COALESCE(login_count, 0) + 1"),
		}).Error
}

func (r *Repo) TouchUserSeen(ctx context.Context, userID string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("last_seen_at", gorm.Expr("NOW()")).Error
}
