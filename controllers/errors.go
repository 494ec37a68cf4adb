package controllers

import (
	"errors"
	"net/http"

	"assetdesk/app"
	"assetdesk/db"

	"github.com/gin-gonic/gin"
)

// statusFor 业务错误 → HTTP 状态码
func statusFor(err error) int {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, db.ErrDuplicateTag),
		errors.Is(err, db.ErrDuplicateName),
		errors.Is(err, db.ErrDuplicateEmail),
		errors.Is(err, db.ErrInvalidState),
		errors.Is(err, db.ErrConflict),
		errors.Is(err, db.ErrAlreadyReturned),
		errors.Is(err, db.ErrSelfDelete):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), app.H{"error": err.Error()})
}
