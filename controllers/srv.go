// controllers/srv.go
package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"assetdesk/app"
	"assetdesk/config"
	"assetdesk/db"
	"assetdesk/models"
	"assetdesk/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Srv struct {
	Repo      *db.Repo
	AppSess   *session.AppSessionStore
	RDB       *redis.Client
	WebOrigin string
	Cfg       config.Config
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Repo:      db.NewRepo(a.DB),
		AppSess:   a.AppSessions(),
		RDB:       a.RDB,
		WebOrigin: a.Config.WebOrigin,
		Cfg:       a.Config,
	}
}

// --- helpers ---

// 统一设置业务会话 Cookie
func (s *Srv) setAppCookie(w http.ResponseWriter, sessionID string, maxAge time.Duration) {
	secure := strings.HasPrefix(s.WebOrigin, "https://")
	http.SetCookie(w, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
		MaxAge:   int(maxAge / time.Second),
	})
}

func (s *Srv) clearAppCookie(w http.ResponseWriter) {
	secure := strings.HasPrefix(s.WebOrigin, "https://")
	http.SetCookie(w, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
}

// 登录成功：创建会话 + 触发登录快照
func (s *Srv) issueSession(ctx context.Context, w http.ResponseWriter, u *models.User) error {
	// 快照失败不阻塞登录
	_ = s.Repo.TouchUserLogin(ctx, u.ID)
	id := uuid.NewString()
	if err := s.AppSess.Create(ctx, id, u.ID, string(u.Role)); err != nil {
		return err
	}
	s.setAppCookie(w, id, s.Cfg.SessionTTL)
	return nil
}

// 从上下文里取当前操作者（AuthRequired 已注入）
func actor(c *gin.Context) (id, email string) {
	if v, ok := c.Get("userID"); ok {
		id, _ = v.(string)
	}
	if v, ok := c.Get("userEmail"); ok {
		email, _ = v.(string)
	}
	return id, email
}
