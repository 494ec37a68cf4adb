// controllers/report_controller.go
package controllers

import (
	"net/http"
	"strconv"
	"time"

	"assetdesk/app"
	"assetdesk/models"

	"github.com/gin-gonic/gin"
)

type ReportController struct{ *Srv }

func NewReportController(s *Srv) *ReportController { return &ReportController{Srv: s} }

// GET /api/reports/summary
func (rc *ReportController) Summary(c *gin.Context) {
	ctx := c.Request.Context()

	counts, err := rc.Repo.CountAssetsByStatus(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	open, err := rc.Repo.CountOpenCheckouts(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	overdue, err := rc.Repo.ListOverdue(ctx, time.Now().UTC(), models.DefaultOverdueDays)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, app.H{
		"assets":        counts,
		"openCheckouts": open,
		"overdueCount":  len(overdue),
	})
}

// GET /api/reports/overdue?days=30
func (rc *ReportController) Overdue(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", strconv.Itoa(models.DefaultOverdueDays)))

	rows, err := rc.Repo.ListOverdue(c.Request.Context(), time.Now().UTC(), days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"thresholdDays": days, "checkouts": rows})
}

// GET /api/audit?page=&size=（仅管理员）
func (rc *ReportController) ListAuditLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "50"))

	res, err := rc.Repo.ListAuditLogs(c.Request.Context(), page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}
