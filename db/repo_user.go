// db/repo_user.go
package db

import (
	"assetdesk/models"
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func (r *Repo) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *Repo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

type CreateUserInput struct {
	Email    string
	Name     string
	Role     models.Role
	Password string
}

func (r *Repo) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	if in.Role == "" {
		in.Role = models.RoleStaff
	}
	if !in.Role.Valid() {
		return nil, ErrInvalidState
	}

	// 先归一化再查重，库里存的都是小写
	in.Email = strings.ToLower(in.Email)

	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", in.Email).
		Count(&n).Error; err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		Name:         in.Name,
		Role:         in.Role,
		PasswordHash: string(hash),
	}
	if err := r.DB.WithContext(ctx).Create(u).Error; err != nil {
		if uniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return u, nil
}

type UpdateUserInput struct {
	Email    *string
	Name     *string
	Role     *models.Role
	Password *string
}

func (r *Repo) UpdateUser(ctx context.Context, id string, in UpdateUserInput) (*models.User, error) {
	var u models.User
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&u, "id = ?", id).Error; err != nil {
			return notFound(err)
		}

		if in.Email != nil {
			email := strings.ToLower(*in.Email)
			if email != u.Email {
				var n int64
				if err := tx.Model(&models.User{}).
					Where("email = ? AND id <> ?", email, u.ID).
					Count(&n).Error; err != nil {
					return err
				}
				if n > 0 {
					return ErrDuplicateEmail
				}
				u.Email = email
			}
		}
		if in.Name != nil {
			u.Name = *in.Name
		}
		if in.Role != nil {
			if !in.Role.Valid() {
				return ErrInvalidState
			}
			u.Role = *in.Role
		}
		if in.Password != nil && *in.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			u.PasswordHash = string(hash)
		}

		return tx.Save(&u).Error
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteUser actorID 是当前操作者：不允许删除自己，避免锁死。
// 名下还有未归还的借用时拒绝删除。
func (r *Repo) DeleteUser(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return ErrSelfDelete
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.First(&u, "id = ?", id).Error; err != nil {
			return notFound(err)
		}
		var open int64
		if err := tx.Model(&models.Checkout{}).
			Where("user_id = ? AND return_date IS NULL", id).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return ErrConflict
		}
		return tx.Delete(&models.User{}, "id = ?", id).Error
	})
}

func (r *Repo) CountAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&n).Error
	return n, err
}

func (r *Repo) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, err
}

// UserRow 用户列表行（带借用数）
type UserRow struct {
	ID            string      `json:"id"`
	Email         string      `json:"email"`
	Name          string      `json:"name"`
	Role          models.Role `json:"role"`
	LastLoginAt   *time.Time  `json:"lastLoginAt,omitempty"`
	CheckoutCount int64       `json:"checkoutCount"`
	OpenCheckouts int64       `json:"openCheckouts"`
	CreatedAt     time.Time   `json:"createdAt"`
}

type ListUsersResult struct {
	Users []UserRow `json:"users"`
	Total int64     `json:"total"`
}

// 列表（分页 + 关键词，关键词匹配姓名/邮箱）
func (r *Repo) ListUsers(ctx context.Context, q string, page, size int) (ListUsersResult, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}

	q = strings.TrimSpace(q)
	base := func() *gorm.DB {
		tx := r.DB.WithContext(ctx).Model(&models.User{})
		if q != "" {
			like := "%" + strings.ToLower(q) + "%"
			tx = tx.Where("LOWER(email) LIKE ? OR LOWER(name) LIKE ?", like, like)
		}
		return tx
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return ListUsersResult{}, err
	}

	qry := base().
		Select(`
			inv_users.id, inv_users.email, inv_users.name, inv_users.role,
			inv_users.last_login_at, inv_users.created_at,
			COUNT(co.id) AS checkout_count,
			COUNT(co.id) FILTER (WHERE co.return_date IS NULL) AS open_checkouts
		`).
		Joins("LEFT JOIN "+models.CheckoutTable+" co ON co.user_id = inv_users.id").
		Group("inv_users.id").
		Order("inv_users.created_at DESC").
		Offset((page - 1) * size).
		Limit(size)

	var rows []UserRow
	if err := qry.Scan(&rows).Error; err != nil {
		return ListUsersResult{}, err
	}
	return ListUsersResult{Users: rows, Total: total}, nil
}

// UserDetail 单个用户 + 借还历史
type UserDetail struct {
	models.User
	Checkouts []CheckoutRow `json:"checkouts"`
}

func (r *Repo) GetUserDetail(ctx context.Context, id string) (*UserDetail, error) {
	u, err := r.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rows, err := r.ListCheckouts(ctx, CheckoutQuery{UserID: u.ID})
	if err != nil {
		return nil, err
	}
	return &UserDetail{User: *u, Checkouts: rows}, nil
}
