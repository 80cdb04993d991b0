package controller

import (
	"github.com/Harish3000/Learn-Labs-sub000/internal/service"
	"github.com/Harish3000/Learn-Labs-sub000/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// @Summary Get student performance dashboard
// @Description Recompute every dashboard view (ELO ratings, daily trend, rollups, rankings) from the full attempt log.
// @Tags dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/admin/dashboard/student-performance [get]
func (c *DashboardController) GetStudentPerformance(ctx *gin.Context) {
	dashboard, err := c.DashboardService.StudentPerformance(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, dashboard)
}
