// controllers/checkout_controller.go
package controllers

import (
	"net/http"
	"time"

	"assetdesk/app"
	"assetdesk/db"

	"github.com/gin-gonic/gin"
)

type CheckoutController struct{ *Srv }

func NewCheckoutController(s *Srv) *CheckoutController { return &CheckoutController{Srv: s} }

// GET /api/checkouts?status=open|returned&userId=&assetId=
func (cc *CheckoutController) ListCheckouts(c *gin.Context) {
	rows, err := cc.Repo.ListCheckouts(c.Request.Context(), db.CheckoutQuery{
		UserID:  c.Query("userId"),
		AssetID: c.Query("assetId"),
		Status:  c.Query("status"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"checkouts": rows})
}

// POST /api/checkouts
func (cc *CheckoutController) Checkout(c *gin.Context) {
	var in struct {
		AssetID string     `json:"assetId" binding:"required"`
		UserID  string     `json:"userId" binding:"required"`
		DueDate *time.Time `json:"dueDate"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	co, err := cc.Repo.CheckoutAsset(c.Request.Context(), db.CheckoutInput{
		AssetID: in.AssetID,
		UserID:  in.UserID,
		DueDate: in.DueDate,
	})
	if err != nil {
		fail(c, err)
		return
	}

	uid, email := actor(c)
	_, _ = cc.Repo.LogAction(c.Request.Context(), uid, email, "checkout", co.ID, "checkout", nil)

	// 响应里带上借用人和资产摘要
	row, err := cc.Repo.GetCheckoutRow(c.Request.Context(), co.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, row)
}

// POST /api/checkouts/:id/return
func (cc *CheckoutController) Return(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "missing checkout id"})
		return
	}

	co, err := cc.Repo.ReturnCheckout(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	uid, email := actor(c)
	_, _ = cc.Repo.LogAction(c.Request.Context(), uid, email, "checkout", co.ID, "return", nil)

	row, err := cc.Repo.GetCheckoutRow(c.Request.Context(), co.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, row)
}
