package models

import (
	"time"
)

const UserTable = "inv_users"

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleStaff Role = "STAFF"
)

func (r Role) Valid() bool { return r == RoleAdmin || r == RoleStaff }

type User struct {
	ID    string `gorm:"primaryKey;type:uuid" json:"id"`
	Email string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name  string `gorm:"size:255;not null" json:"name"`
	Role  Role   `gorm:"size:20;not null;default:'STAFF'" json:"role"`

	// bcrypt，只存哈希
	PasswordHash string `gorm:"size:100;not null" json:"-"`

	LastLoginAt *time.Time `gorm:"index" json:"lastLoginAt,omitempty"`
	LastSeenAt  *time.Time `gorm:"index" json:"lastSeenAt,omitempty"`
	LoginCount  int64      `gorm:"not null;default:0" json:"loginCount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string { return UserTable }
