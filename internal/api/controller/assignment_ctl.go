package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"mart_admin_v1_202608/internal/api/dto"
	"mart_admin_v1_202608/internal/middleware"
	"mart_admin_v1_202608/internal/repository"
	"mart_admin_v1_202608/internal/service"
)

type AssignmentController struct {
	assignmentService *service.AssignmentService
}

func NewAssignmentController(assignmentService *service.AssignmentService) *AssignmentController {
	return &AssignmentController{assignmentService: assignmentService}
}

// Assign 单个指派
// @Summary 把商品指派给店铺
// @Description 幂等合并：无记录新建(created)，退役记录翻回(reactivated)，已指派不动(already_assigned)
// @Tags Assignment (指派模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AssignRequest true "指派请求"
// @Success 200 {object} dto.AssignResponse
// @Failure 400 {object} map[string]interface{} "商品不存在或未激活"
// @Router /api/assignments [post]
func (ctrl *AssignmentController) Assign(c *gin.Context) {
	var req dto.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "参数错误: "+err.Error())
		return
	}

	p := middleware.GetPrincipal(c)
	resp, err := ctrl.assignmentService.Assign(c.Request.Context(), p, &req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, resp)
}

// BulkAssign 批量指派
// @Summary 批量指派商品清单（快速失败 + 单事务）
// @Description 清单里有任何无效商品则整批拒绝并返回无效 ID 列表
// @Tags Assignment (指派模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.BulkAssignRequest true "批量指派请求"
// @Success 200 {object} dto.BulkAssignResult
// @Failure 409 {object} map[string]interface{} "存在无效商品 ID"
// @Router /api/assignments/bulk [post]
func (ctrl *AssignmentController) BulkAssign(c *gin.Context) {
	var req dto.BulkAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "参数错误: "+err.Error())
		return
	}

	p := middleware.GetPrincipal(c)
	result, err := ctrl.assignmentService.BulkAssign(c.Request.Context(), p, &req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, result)
}

// AssignByCategory 按分类指派
// @Summary 把分类下指定的商品清单指派给店铺
// @Description 清单里的商品必须全部属于该分类且活跃，否则整批拒绝
// @Tags Assignment (指派模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AssignByCategoryRequest true "按分类指派请求"
// @Success 200 {object} dto.BulkAssignResult
// @Failure 409 {object} map[string]interface{} "存在无效或不属于该分类的商品 ID"
// @Router /api/assignments/by-category [post]
func (ctrl *AssignmentController) AssignByCategory(c *gin.Context) {
	var req dto.AssignByCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "参数错误: "+err.Error())
		return
	}

	p := middleware.GetPrincipal(c)
	result, err := ctrl.assignmentService.AssignByCategory(c.Request.Context(), p, &req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, result)
}

// ListAssignments 指派列表
// @Summary 指派列表（店铺管理员只看到自己店铺）
// @Tags Assignment (指派模块)
// @Produce json
// @Security BearerAuth
// @Param store_id query int false "店铺筛选（超管用）"
// @Param product_id query int false "商品筛选"
// @Param only_active query bool false "只看已指派"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} dto.AssignmentListResp
// @Router /api/assignments [get]
func (ctrl *AssignmentController) ListAssignments(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	storeID, _ := strconv.ParseInt(c.DefaultQuery("store_id", "0"), 10, 64)
	productID, _ := strconv.ParseInt(c.DefaultQuery("product_id", "0"), 10, 64)
	onlyActive := c.DefaultQuery("only_active", "false") == "true"

	p := middleware.GetPrincipal(c)
	assignments, total, err := ctrl.assignmentService.List(c.Request.Context(), p, repository.AssignmentFilter{
		StoreID:    storeID,
		ProductID:  productID,
		OnlyActive: onlyActive,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(200, dto.AssignmentListResp{
		Code:     0,
		Message:  "success",
		Data:     assignments,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// GetAssignment 指派详情
// @Summary 按 ID 查指派
// @Tags Assignment (指派模块)
// @Produce json
// @Security BearerAuth
// @Param id path int true "指派ID"
// @Success 200 {object} dto.AssignmentInfo
// @Failure 404 {object} map[string]interface{} "指派不存在"
// @Router /api/assignments/{id} [get]
func (ctrl *AssignmentController) GetAssignment(c *gin.Context) {
	id, valid := parseIDParam(c)
	if !valid {
		return
	}

	p := middleware.GetPrincipal(c)
	info, err := ctrl.assignmentService.Get(c.Request.Context(), p, id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, info)
}

// Unassign 解除指派
// @Summary 解除指派（店铺管理员需要 can_manage 授权）
// @Tags Assignment (指派模块)
// @Produce json
// @Security BearerAuth
// @Param id path int true "指派ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{} "该指派未授权店铺管理员解除"
// @Router /api/assignments/{id} [delete]
func (ctrl *AssignmentController) Unassign(c *gin.Context) {
	id, valid := parseIDParam(c)
	if !valid {
		return
	}

	p := middleware.GetPrincipal(c)
	if err := ctrl.assignmentService.Unassign(c.Request.Context(), p, id); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}

// UnassignAllForStore 店铺全量解除
// @Summary 解除店铺全部指派（仅超管）
// @Tags Assignment (指派模块)
// @Produce json
// @Security BearerAuth
// @Param store_id path int true "店铺ID"
// @Success 200 {object} map[string]interface{} "退役数量"
// @Router /api/assignments/stores/{store_id} [delete]
func (ctrl *AssignmentController) UnassignAllForStore(c *gin.Context) {
	storeID, err := strconv.ParseInt(c.Param("store_id"), 10, 64)
	if err != nil || storeID <= 0 {
		badRequest(c, "无效的店铺ID")
		return
	}

	p := middleware.GetPrincipal(c)
	count, err := ctrl.assignmentService.UnassignAllForStore(c.Request.Context(), p, storeID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"retired_count": count})
}
