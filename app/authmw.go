package app

import (
	"assetdesk/db"
	"assetdesk/models"
	"assetdesk/session"
	"net/http"

	"github.com/gin-gonic/gin"
)

const AppSessionCookie = "app_session"

func AuthRequired(appSess *session.AppSessionStore, repo *db.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		ck, err := c.Request.Cookie(AppSessionCookie)
		if err != nil || ck.Value == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		as, err := appSess.Get(c.Request.Context(), ck.Value)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid session"})
			return
		}

		// 确认用户仍存在；角色以数据库为准，会话里的只是快照
		u, err := repo.FindUserByID(c.Request.Context(), as.UserID)
		if err != nil {
			_ = appSess.Delete(c.Request.Context(), ck.Value)
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}

		c.Set("userID", u.ID)
		c.Set("userEmail", u.Email)
		c.Set("userRole", string(u.Role))

		c.Next()
	}
}

// AdminOnly 需要先过 AuthRequired
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get("userRole")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		role, _ := v.(string)
		if models.Role(role) != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
