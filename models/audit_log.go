package models

import "time"

// AuditLog 记录所有写操作的审计信息
type AuditLog struct {
	ID         string  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ActorID    string  `gorm:"type:uuid;index" json:"actorId"`
	ActorEmail string  `gorm:"size:255" json:"actorEmail"`
	Entity     string  `gorm:"size:50;not null" json:"entity"` // "asset", "vendor", "user", "checkout"
	EntityID   string  `gorm:"size:64" json:"entityId"`
	Action     string  `gorm:"size:50;not null" json:"action"` // "create", "update", "delete", "checkout", "return"
	Detail     *string `gorm:"size:255" json:"detail,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func (AuditLog) TableName() string { return "inv_audit_log" }
