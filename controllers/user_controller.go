package controllers

import (
	"net/http"
	"strconv"

	"assetdesk/app"
	"assetdesk/db"
	"assetdesk/models"

	"github.com/gin-gonic/gin"
)

type UserController struct{ *Srv }

func NewUserController(s *Srv) *UserController { return &UserController{Srv: s} }

// GET /api/users?q=alice&page=1&size=20
func (uc *UserController) ListUsers(c *gin.Context) {
	q := c.Query("q")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := uc.Repo.ListUsers(c.Request.Context(), q, page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/users/:id
func (uc *UserController) GetUser(c *gin.Context) {
	d, err := uc.Repo.GetUserDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// POST /api/users（仅管理员）
func (uc *UserController) CreateUser(c *gin.Context) {
	var in struct {
		Email    string      `json:"email" binding:"required,email"`
		Name     string      `json:"name" binding:"required"`
		Role     models.Role `json:"role"`
		Password string      `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	u, err := uc.Repo.CreateUser(c.Request.Context(), db.CreateUserInput{
		Email:    in.Email,
		Name:     in.Name,
		Role:     in.Role,
		Password: in.Password,
	})
	if err != nil {
		fail(c, err)
		return
	}

	uid, email := actor(c)
	_, _ = uc.Repo.LogAction(c.Request.Context(), uid, email, "user", u.ID, "create", nil)
	c.JSON(http.StatusCreated, u)
}

// PUT /api/users/:id（仅管理员）
func (uc *UserController) UpdateUser(c *gin.Context) {
	var in struct {
		Email    *string      `json:"email"`
		Name     *string      `json:"name"`
		Role     *models.Role `json:"role"`
		Password *string      `json:"password"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if in.Role != nil && !in.Role.Valid() {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid role"})
		return
	}

	u, err := uc.Repo.UpdateUser(c.Request.Context(), c.Param("id"), db.UpdateUserInput{
		Email:    in.Email,
		Name:     in.Name,
		Role:     in.Role,
		Password: in.Password,
	})
	if err != nil {
		fail(c, err)
		return
	}

	uid, email := actor(c)
	_, _ = uc.Repo.LogAction(c.Request.Context(), uid, email, "user", u.ID, "update", nil)
	c.JSON(http.StatusOK, u)
}

// DELETE /api/users/:id（仅管理员；不允许删除自己）
func (uc *UserController) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	uid, email := actor(c)

	if err := uc.Repo.DeleteUser(c.Request.Context(), uid, id); err != nil {
		fail(c, err)
		return
	}

	// 撤销被删用户的所有登录会话
	_ = uc.AppSess.RevokeAllForUser(c.Request.Context(), id)

	_, _ = uc.Repo.LogAction(c.Request.Context(), uid, email, "user", id, "delete", nil)
	c.JSON(http.StatusOK, app.H{"message": "User deleted successfully"})
}
