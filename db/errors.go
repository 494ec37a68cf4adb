package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// 业务错误，controller 层据此映射 HTTP 状态码
var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicateTag    = errors.New("asset with this tag already exists")
	ErrDuplicateName   = errors.New("vendor with this name already exists")
	ErrDuplicateEmail  = errors.New("user with this email already exists")
	ErrInvalidState    = errors.New("operation not valid for current asset status")
	ErrConflict        = errors.New("operation blocked by an open checkout or existing reference")
	ErrAlreadyReturned = errors.New("asset has already been returned")
	ErrSelfDelete      = errors.New("cannot delete your own account")
)

// notFound 把 gorm 的查不到统一换成 ErrNotFound。
// 路径参数直接进 uuid 列的查询，非法 uuid 文本也当查不到处理。
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if pgCode(err) == "22P02" { // invalid_text_representation
		return ErrNotFound
	}
	return err
}

func pgCode(err error) string {
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// uniqueViolation 并发创建时前置查重可能漏网，唯一索引是兜底
func uniqueViolation(err error) bool { return pgCode(err) == "23505" }
