package db

import (
	"assetdesk/models"
	"context"
	"fmt"
)

// LogAction 写一条审计记录。调用方通常忽略返回的错误，不阻塞业务写入。
func (r *Repo) LogAction(ctx context.Context, actorID, actorEmail, entity, entityID, action string, detail *string) (*models.AuditLog, error) {
	rec := &models.AuditLog{
		ActorID:    actorID,
		ActorEmail: actorEmail,
		Entity:     entity,
		EntityID:   entityID,
		Action:     action,
		Detail:     detail,
	}
	if err := r.DB.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, fmt.Errorf("insert audit log: %w", err)
	}
	return rec, nil
}

type PagedAuditLogs struct {
	Total int64             `json:"total"`
	Logs  []models.AuditLog `json:"logs"`
}

func (r *Repo) ListAuditLogs(ctx context.Context, page, size int) (*PagedAuditLogs, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 200 {
		size = 50
	}

	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.AuditLog{}).
		Count(&total).Error; err != nil {
		return nil, err
	}

	var logs []models.AuditLog
	if err := r.DB.WithContext(ctx).
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return &PagedAuditLogs{Total: total, Logs: logs}, nil
}
