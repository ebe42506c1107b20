package controller

import (
	"github.com/gin-gonic/gin"

	"mart_admin_v1_202608/internal/middleware"
	"mart_admin_v1_202608/internal/service"
)

type AdminController struct {
	statsService *service.StatsService
}

func NewAdminController(statsService *service.StatsService) *AdminController {
	return &AdminController{statsService: statsService}
}

// GetStats 目录统计
// @Summary 最近一次目录统计快照（仅超管）
// @Tags Admin (后台模块)
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CatalogStatInfo
// @Failure 404 {object} map[string]interface{} "暂无快照"
// @Router /api/admin/stats [get]
func (ctrl *AdminController) GetStats(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	info, err := ctrl.statsService.Latest(c.Request.Context(), p)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, info)
}

// TriggerSnapshot 手动触发快照
// @Summary 立即采集一次目录统计快照（仅超管）
// @Tags Admin (后台模块)
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/stats/snapshot [post]
func (ctrl *AdminController) TriggerSnapshot(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	if !p.IsSuperAdmin() {
		fail(c, service.ErrForbidden)
		return
	}

	if err := ctrl.statsService.Snapshot(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}
