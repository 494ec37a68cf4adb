package controllers

import (
	"net/http"
	"strings"

	"assetdesk/app"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// POST /api/login
func (s *Srv) Login(c *gin.Context) {
	var in struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	u, err := s.Repo.FindUserByEmail(c.Request.Context(), strings.ToLower(in.Email))
	if err != nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "invalid email or password"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "invalid email or password"})
		return
	}

	if err := s.issueSession(c.Request.Context(), c.Writer, u); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"user": u})
}

// POST /api/logout
func (s *Srv) Logout(c *gin.Context) {
	if ck, err := c.Request.Cookie(app.AppSessionCookie); err == nil && ck.Value != "" {
		_ = s.AppSess.Delete(c.Request.Context(), ck.Value)
	}
	s.clearAppCookie(c.Writer)
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// GET /api/whoami
func (s *Srv) WhoAmI(c *gin.Context) {
	uid, _ := actor(c)
	u, err := s.Repo.FindUserByID(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, app.H{"user": u})
}
