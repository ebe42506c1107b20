package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"mart_admin_v1_202608/internal/api/dto"
	"mart_admin_v1_202608/internal/middleware"
	"mart_admin_v1_202608/internal/repository"
	"mart_admin_v1_202608/internal/service"
)

type CategoryController struct {
	categoryService *service.CategoryService
	storageService  service.StorageProvider
}

func NewCategoryController(categoryService *service.CategoryService, storageService service.StorageProvider) *CategoryController {
	return &CategoryController{
		categoryService: categoryService,
		storageService:  storageService,
	}
}

// ==================== 查询接口 ====================

// ListCategories 分类列表
// @Summary 分类列表，按展示顺序升序（并列按名称）
// @Description 匿名和顾客只能看到 Active 状态的分类
// @Tags Category (分类模块)
// @Produce json
// @Param keyword query string false "名称搜索"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量（不传则不分页）"
// @Success 200 {object} dto.CategoryListResp
// @Router /api/categories [get]
func (ctrl *CategoryController) ListCategories(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))

	p := middleware.GetPrincipal(c)
	categories, total, err := ctrl.categoryService.List(c.Request.Context(), p, repository.CategoryFilter{
		Keyword:  c.Query("keyword"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(200, dto.CategoryListResp{
		Code:    0,
		Message: "success",
		Data:    categories,
		Total:   total,
	})
}

// GetCategory 分类详情
// @Summary 按 ID 查分类
// @Tags Category (分类模块)
// @Produce json
// @Param id path int true "分类ID"
// @Success 200 {object} dto.CategoryInfo
// @Failure 404 {object} map[string]interface{} "分类不存在"
// @Router /api/categories/{id} [get]
func (ctrl *CategoryController) GetCategory(c *gin.Context) {
	id, valid := parseIDParam(c)
	if !valid {
		return
	}

	p := middleware.GetPrincipal(c)
	info, err := ctrl.categoryService.Get(c.Request.Context(), p, id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, info)
}

// ==================== 管理接口（仅超管） ====================

// CreateCategory 创建分类
// @Summary 创建分类
// @Description display_order 不传时自动排到末尾（当前最大值+1）
// @Tags Category (分类模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateCategoryRequest true "创建请求"
// @Success 200 {object} dto.CategoryInfo
// @Failure 400 {object} map[string]interface{} "分类名称已存在"
// @Router /api/categories [post]
func (ctrl *CategoryController) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "参数错误: "+err.Error())
		return
	}

	p := middleware.GetPrincipal(c)
	info, err := ctrl.categoryService.Create(c.Request.Context(), p, &req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, info)
}

// UpdateCategory 更新分类
// @Summary 更新分类基础字段
// @Tags Category (分类模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "分类ID"
// @Param body body dto.UpdateCategoryRequest true "更新请求"
// @Success 200 {object} dto.CategoryInfo
// @Router /api/categories/{id} [put]
func (ctrl *CategoryController) UpdateCategory(c *gin.Context) {
	id, valid := parseIDParam(c)
	if !valid {
		return
	}

	var req dto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "参数错误: "+err.Error())
		return
	}

	p := middleware.GetPrincipal(c)
	info, err := ctrl.categoryService.Update(c.Request.Context(), p, id, &req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, info)
}

// ChangeCategoryStatus 修改行政状态
// @Summary 修改分类行政状态
// @Tags Category (分类模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "分类ID"
// @Param body body dto.ChangeStatusRequest true "状态请求"
// @Success 200 {object} map[string]interface{}
// @Router /api/categories/{id}/status [put]
func (ctrl *CategoryController) ChangeCategoryStatus(c *gin.Context) {
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
	if err := ctrl.categoryService.ChangeStatus(c.Request.Context(), p, id, req.StatusID); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}

// ReorderCategories 批量改展示顺序
// @Summary 批量修改分类展示顺序（整体生效或整体拒绝）
// @Tags Category (分类模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ReorderRequest true "排序请求"
// @Success 200 {object} map[string]interface{}
// @Router /api/categories/reorder [put]
func (ctrl *CategoryController) ReorderCategories(c *gin.Context) {
	var req dto.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "参数错误: "+err.Error())
		return
	}

	p := middleware.GetPrincipal(c)
	if err := ctrl.categoryService.Reorder(c.Request.Context(), p, req.Orders); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}

// UploadIcon 上传分类图标
// @Summary 上传分类图标，返回公开访问 URL（回填到 icon_ref）
// @Tags Category (分类模块)
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "图标文件"
// @Success 200 {object} map[string]interface{} "图标 URL"
// @Router /api/categories/icons [post]
func (ctrl *CategoryController) UploadIcon(c *gin.Context) {
	data, filename, valid := readFormImage(c)
	if !valid {
		return
	}

	url, err := ctrl.storageService.Upload(c.Request.Context(), data, filename, "")
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"url": url})
}

// DeleteCategory 软删分类
// @Summary 软删分类（分类下有活跃商品时拒绝）
// @Tags Category (分类模块)
// @Produce json
// @Security BearerAuth
// @Param id path int true "分类ID"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{} "分类下仍有活跃商品"
// @Router /api/categories/{id} [delete]
func (ctrl *CategoryController) DeleteCategory(c *gin.Context) {
	id, valid := parseIDParam(c)
	if !valid {
		return
	}

	p := middleware.GetPrincipal(c)
	if err := ctrl.categoryService.Delete(c.Request.Context(), p, id); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}
