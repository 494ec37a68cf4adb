package routes

import (
	"assetdesk/app"
	"assetdesk/controllers"
	"time"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	// 控制器与依赖
	s := controllers.GetSrv(a)
	assetCtl := controllers.NewAssetController(s)
	checkoutCtl := controllers.NewCheckoutController(s)
	vendorCtl := controllers.NewVendorController(s)
	userCtl := controllers.NewUserController(s)
	reportCtl := controllers.NewReportController(s)
	systemCtl := controllers.NewSystemController(s)

	// 复用的中间件
	authMW := app.AuthRequired(a.AppSessions(), s.Repo)
	adminMW := app.AdminOnly()
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, 5*time.Minute)

	// ------------------------------
	// 公开
	// ------------------------------
	r.GET("/healthz", systemCtl.Healthz)
	r.POST("/api/setup", systemCtl.Setup)
	r.POST("/api/login", s.Login)

	// ------------------------------
	// 需要登录
	// ------------------------------
	api := r.Group("/api", authMW, seenMW)
	{
		api.POST("/logout", s.Logout)
		api.GET("/whoami", s.WhoAmI)

		// 资产
		api.GET("/assets", assetCtl.ListAssets)
		api.POST("/assets", assetCtl.CreateAsset)
		api.GET("/assets/:id", assetCtl.GetAsset)
		api.PUT("/assets/:id", assetCtl.UpdateAsset)
		api.DELETE("/assets/:id", assetCtl.DeleteAsset)

		// 厂商
		api.GET("/vendors", vendorCtl.ListVendors)
		api.POST("/vendors", vendorCtl.CreateVendor)
		api.GET("/vendors/:id", vendorCtl.GetVendor)
		api.PUT("/vendors/:id", vendorCtl.UpdateVendor)
		api.DELETE("/vendors/:id", vendorCtl.DeleteVendor)

		// 借还
		api.GET("/checkouts", checkoutCtl.ListCheckouts) // ?status=open|returned&userId=&assetId=
		api.POST("/checkouts", checkoutCtl.Checkout)
		api.POST("/checkouts/:id/return", checkoutCtl.Return)

		// 报表
		api.GET("/reports/summary", reportCtl.Summary)
		api.GET("/reports/overdue", reportCtl.Overdue)

		// 用户只读
		api.GET("/users", userCtl.ListUsers) // ?q=&page=&size=
		api.GET("/users/:id", userCtl.GetUser)
	}

	// ------------------------------
	// 用户管理 / 审计（仅管理员）
	// ------------------------------
	admin := r.Group("/api", authMW, adminMW, seenMW)
	{
		admin.POST("/users", userCtl.CreateUser)
		admin.PUT("/users/:id", userCtl.UpdateUser)
		admin.DELETE("/users/:id", userCtl.DeleteUser)
		admin.GET("/audit", reportCtl.ListAuditLogs)
	}
}
