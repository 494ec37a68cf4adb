// controllers/system_controller.go
package controllers

import (
	"net/http"

	"assetdesk/app"
	"assetdesk/db"
	"assetdesk/models"

	"github.com/gin-gonic/gin"
)

type SystemController struct{ *Srv }

func NewSystemController(s *Srv) *SystemController { return &SystemController{Srv: s} }

// GET /healthz 数据库连通性 + 各表计数 + 是否需要初始化
func (sc *SystemController) Healthz(c *gin.Context) {
	ctx := c.Request.Context()

	dbErr := func(err error) {
		c.JSON(http.StatusInternalServerError, app.H{
			"status":            "error",
			"databaseConnected": false,
			"error":             err.Error(),
		})
	}

	users, err := sc.Repo.CountUsers(ctx)
	if err != nil {
		dbErr(err)
		return
	}

	var vendors, assets int64
	if err := sc.Repo.DB.WithContext(ctx).Model(&models.Vendor{}).Count(&vendors).Error; err != nil {
		dbErr(err)
		return
	}
	if err := sc.Repo.DB.WithContext(ctx).Model(&models.Asset{}).Count(&assets).Error; err != nil {
		dbErr(err)
		return
	}

	redisOK := sc.RDB.Ping(ctx).Err() == nil

	c.JSON(http.StatusOK, app.H{
		"status":            "ok",
		"databaseConnected": true,
		"redisConnected":    redisOK,
		"users":             users,
		"vendors":           vendors,
		"assets":            assets,
		"needsSetup":        users == 0,
	})
}

const demoPassword = "ChangeMe123!"

// POST /api/setup 首次运行时灌演示数据；已有用户则跳过
func (sc *SystemController) Setup(c *gin.Context) {
	ctx := c.Request.Context()

	existing, err := sc.Repo.CountUsers(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	if existing > 0 {
		c.JSON(http.StatusOK, app.H{
			"message": "Database already set up",
			"users":   existing,
			"status":  "already_setup",
		})
		return
	}

	seedUsers := []db.CreateUserInput{
		{Email: "admin@example.com", Name: "Admin", Role: models.RoleAdmin, Password: demoPassword},
		{Email: "staff1@example.com", Name: "Staff One", Role: models.RoleStaff, Password: demoPassword},
		{Email: "staff2@example.com", Name: "Staff Two", Role: models.RoleStaff, Password: demoPassword},
	}
	for _, in := range seedUsers {
		if _, err := sc.Repo.CreateUser(ctx, in); err != nil {
			c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
			return
		}
	}

	str := func(s string) *string { return &s }
	seedVendors := []db.CreateVendorInput{
		{Name: "Dell Technologies", ContactEmail: str("sales@dell.com"), Phone: str("+1-800-999-3355")},
		{Name: "HP Inc.", ContactEmail: str("support@hp.com"), Phone: str("+1-800-474-6836")},
		{Name: "Apple Inc.", ContactEmail: str("business@apple.com"), Phone: str("+1-800-275-2273")},
	}
	vendorIDs := make([]string, 0, len(seedVendors))
	for _, in := range seedVendors {
		v, err := sc.Repo.CreateVendor(ctx, in)
		if err != nil {
			c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
			return
		}
		vendorIDs = append(vendorIDs, v.ID)
	}

	seedAssets := []db.CreateAssetInput{
		{Tag: "LT-001", Name: "Dell Latitude 5440", VendorID: &vendorIDs[0]},
		{Tag: "LT-002", Name: "HP EliteBook 850", VendorID: &vendorIDs[1]},
		{Tag: "MB-001", Name: `MacBook Pro 14"`, VendorID: &vendorIDs[2]},
	}
	for _, in := range seedAssets {
		if _, err := sc.Repo.CreateAsset(ctx, in); err != nil {
			c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, app.H{
		"message": "Database set up successfully",
		"users":   len(seedUsers),
		"vendors": len(seedVendors),
		"assets":  len(seedAssets),
		"status":  "success",
		"demoCredentials": app.H{
			"admin": "admin@example.com / " + demoPassword,
			"staff": "staff1@example.com / " + demoPassword,
		},
	})
}
