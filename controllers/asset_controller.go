// controllers/asset_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"assetdesk/app"
	"assetdesk/db"
	"assetdesk/models"

	"github.com/gin-gonic/gin"
)

type AssetController struct{ *Srv }

func NewAssetController(s *Srv) *AssetController { return &AssetController{Srv: s} }

// GET /api/assets?q=&status=&page=&size=
func (ac *AssetController) ListAssets(c *gin.Context) {
	q := db.AssetsQuery{
		Q:      c.Query("q"),
		Status: c.Query("status"),
	}
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.Size, _ = strconv.Atoi(c.DefaultQuery("size", "50"))

	res, err := ac.Repo.ListAssets(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/assets/:id
func (ac *AssetController) GetAsset(c *gin.Context) {
	d, err := ac.Repo.GetAssetDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// POST /api/assets
func (ac *AssetController) CreateAsset(c *gin.Context) {
	var in struct {
		Tag      string  `json:"tag" binding:"required"`
		Name     string  `json:"name" binding:"required"`
		VendorID *string `json:"vendorId"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	a, err := ac.Repo.CreateAsset(c.Request.Context(), db.CreateAssetInput{
		Tag:      in.Tag,
		Name:     in.Name,
		VendorID: in.VendorID,
	})
	if err != nil {
		fail(c, err)
		return
	}

	uid, email := actor(c)
	_, _ = ac.Repo.LogAction(c.Request.Context(), uid, email, "asset", a.ID, "create", nil)
	c.JSON(http.StatusCreated, a)
}

// PUT /api/assets/:id
func (ac *AssetController) UpdateAsset(c *gin.Context) {
	var in struct {
		Tag      *string             `json:"tag"`
		Name     *string             `json:"name"`
		Status   *models.AssetStatus `json:"status"`
		VendorID *string             `json:"vendorId"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if in.Tag == nil && in.Name == nil && in.Status == nil && in.VendorID == nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "nothing to update"})
		return
	}

	a, err := ac.Repo.UpdateAsset(c.Request.Context(), c.Param("id"), db.UpdateAssetInput{
		Tag:      in.Tag,
		Name:     in.Name,
		Status:   in.Status,
		VendorID: in.VendorID,
	})
	if err != nil {
		fail(c, err)
		return
	}

	uid, email := actor(c)
	_, _ = ac.Repo.LogAction(c.Request.Context(), uid, email, "asset", a.ID, "update", nil)
	c.JSON(http.StatusOK, a)
}

// DELETE /api/assets/:id
func (ac *AssetController) DeleteAsset(c *gin.Context) {
	id := c.Param("id")
	if err := ac.Repo.DeleteAsset(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}

	uid, email := actor(c)
	_, _ = ac.Repo.LogAction(c.Request.Context(), uid, email, "asset", id, "delete", nil)
	c.JSON(http.StatusOK, app.H{"message": "Asset deleted successfully"})
}
