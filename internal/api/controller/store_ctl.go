package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"mart_admin_v1_202608/internal/api/dto"
	"mart_admin_v1_202608/internal/middleware"
	"mart_admin_v1_202608/internal/repository"
	"mart_admin_v1_202608/internal/service"
)

type StoreController struct {
	storeService *service.StoreService
}

func NewStoreController(storeService *service.StoreService) *StoreController {
	return &StoreController{storeService: storeService}
}

// ListStores 店铺列表
// @Summary 店铺列表（店铺管理员只看到自己的店铺）
// @Tags Store (店铺模块)
// @Produce json
// @Security BearerAuth
// @Param keyword query string false "名称搜索"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} dto.StoreListResp
// @Router /api/stores [get]
func (ctrl *StoreController) ListStores(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	p := middleware.GetPrincipal(c)
	stores, total, err := ctrl.storeService.List(c.Request.Context(), p, repository.StoreFilter{
		Keyword:  c.Query("keyword"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(200, dto.StoreListResp{
		Code:     0,
		Message:  "success",
		Data:     stores,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// GetStore 店铺详情
// @Summary 按 ID 查店铺
// @Tags Store (店铺模块)
// @Produce json
// @Security BearerAuth
// @Param id path int true "店铺ID"
// @Success 200 {object} dto.StoreInfo
// @Failure 404 {object} map[string]interface{} "店铺不存在"
// @Router /api/stores/{id} [get]
func (ctrl *StoreController) GetStore(c *gin.Context) {
	id, valid := parseIDParam(c)
	if !valid {
		return
	}

	p := middleware.GetPrincipal(c)
	info, err := ctrl.storeService.Get(c.Request.Context(), p, id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, info)
}

// CreateStore 创建店铺
// @Summary 创建店铺（仅超管）
// @Tags Store (店铺模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateStoreRequest true "创建请求"
// @Success 200 {object} dto.StoreInfo
// @Router /api/stores [post]
func (ctrl *StoreController) CreateStore(c *gin.Context) {
	var req dto.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "参数错误: "+err.Error())
		return
	}

	p := middleware.GetPrincipal(c)
	info, err := ctrl.storeService.Create(c.Request.Context(), p, &req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, info)
}

// UpdateStore 更新店铺
// @Summary 更新店铺基础字段（仅超管）
// @Tags Store (店铺模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "店铺ID"
// @Param body body dto.UpdateStoreRequest true "更新请求"
// @Success 200 {object} dto.StoreInfo
// @Router /api/stores/{id} [put]
func (ctrl *StoreController) UpdateStore(c *gin.Context) {
	id, valid := parseIDParam(c)
	if !valid {
		return
	}

	var req dto.UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "参数错误: "+err.Error())
		return
	}

	p := middleware.GetPrincipal(c)
	info, err := ctrl.storeService.Update(c.Request.Context(), p, id, &req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, info)
}

// ChangeStoreStatus 修改行政状态
// @Summary 修改店铺行政状态（仅超管）
// @Tags Store (店铺模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "店铺ID"
// @Param body body dto.ChangeStatusRequest true "状态请求"
// @Success 200 {object} map[string]interface{}
// @Router /api/stores/{id}/status [put]
func (ctrl *StoreController) ChangeStoreStatus(c *gin.Context) {
	id, valid := parseIDParam(c)
	if !valid {
		return
	}

	var req dto.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "参数错误: "+err.Error())
		return
	}

	p := middleware.GetPrincipal(c)
	if err := ctrl.storeService.ChangeStatus(c.Request.Context(), p, id, req.StatusID); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}

// DeleteStore 软删店铺
// @Summary 软删店铺并级联退役店铺用户/指派/库存单元（仅超管）
// @Tags Store (店铺模块)
// @Produce json
// @Security BearerAuth
// @Param id path int true "店铺ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/stores/{id} [delete]
func (ctrl *StoreController) DeleteStore(c *gin.Context) {
	id, valid := parseIDParam(c)
	if !valid {
		return
	}

	p := middleware.GetPrincipal(c)
	if err := ctrl.storeService.Delete(c.Request.Context(), p, id); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}
