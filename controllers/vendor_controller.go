// controllers/vendor_controller.go
package controllers

import (
	"net/http"

	"assetdesk/app"
	"assetdesk/db"

	"github.com/gin-gonic/gin"
)

type VendorController struct{ *Srv }

func NewVendorController(s *Srv) *VendorController { return &VendorController{Srv: s} }

// GET /api/vendors
func (vc *VendorController) ListVendors(c *gin.Context) {
	rows, err := vc.Repo.ListVendors(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"vendors": rows})
}

// GET /api/vendors/:id
func (vc *VendorController) GetVendor(c *gin.Context) {
	d, err := vc.Repo.GetVendorDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// POST /api/vendors
func (vc *VendorController) CreateVendor(c *gin.Context) {
	var in struct {
		Name         string  `json:"name" binding:"required"`
		ContactEmail *string `json:"contactEmail"`
		Phone        *string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	v, err := vc.Repo.CreateVendor(c.Request.Context(), db.CreateVendorInput{
		Name:         in.Name,
		ContactEmail: in.ContactEmail,
		Phone:        in.Phone,
	})
	if err != nil {
		fail(c, err)
		return
	}

	uid, email := actor(c)
	_, _ = vc.Repo.LogAction(c.Request.Context(), uid, email, "vendor", v.ID, "create", nil)
	c.JSON(http.StatusCreated, v)
}

// PUT /api/vendors/:id
func (vc *VendorController) UpdateVendor(c *gin.Context) {
	var in struct {
		Name         *string `json:"name"`
		ContactEmail *string `json:"contactEmail"`
		Phone        *string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	v, err := vc.Repo.UpdateVendor(c.Request.Context(), c.Param("id"), db.UpdateVendorInput{
		Name:         in.Name,
		ContactEmail: in.ContactEmail,
		Phone:        in.Phone,
	})
	if err != nil {
		fail(c, err)
		return
	}

	uid, email := actor(c)
	_, _ = vc.Repo.LogAction(c.Request.Context(), uid, email, "vendor", v.ID, "update", nil)
	c.JSON(http.StatusOK, v)
}

// DELETE /api/vendors/:id
func (vc *VendorController) DeleteVendor(c *gin.Context) {
	id := c.Param("id")
	if err := vc.Repo.DeleteVendor(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}

	uid, email := actor(c)
	_, _ = vc.Repo.LogAction(c.Request.Context(), uid, email, "vendor", id, "delete", nil)
	c.JSON(http.StatusOK, app.H{"message": "Vendor deleted successfully"})
}
