package controller

import (
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"mart_admin_v1_202608/internal/api/dto"
	"mart_admin_v1_202608/internal/middleware"
	"mart_admin_v1_202608/internal/repository"
	"mart_admin_v1_202608/internal/service"
)

type ProductController struct {
	productService *service.ProductService
	storageService service.StorageProvider
}

func NewProductController(productService *service.ProductService, storageService service.StorageProvider) *ProductController {
	return &ProductController{
		productService: productService,
		storageService: storageService,
	}
}

// ==================== 查询接口 ====================

// ListProducts 商品列表
// @Summary 商品列表
// @Description 匿名和顾客只能看到 Active 状态的商品
// @Tags Product (商品模块)
// @Produce json
// @Param category_id query int false "分类筛选"
// @Param keyword query string false "名称搜索"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} dto.ProductListResp
// @Router /api/products [get]
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	categoryID, _ := strconv.ParseInt(c.DefaultQuery("category_id", "0"), 10, 64)

	p := middleware.GetPrincipal(c)
	products, total, err := ctrl.productService.List(c.Request.Context(), p, repository.ProductFilter{
		CategoryID: categoryID,
		Keyword:    c.Query("keyword"),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(200, dto.ProductListResp{
		Code:     0,
		Message:  "success",
		Data:     products,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// GetProduct 商品详情
// @Summary 按 ID 查商品详情（自动累加浏览计数）
// @Tags Product (商品模块)
// @Produce json
// @Param id path int true "商品ID"
// @Success 200 {object} dto.ProductInfo
// @Failure 404 {object} map[string]interface{} "商品不存在"
// @Router /api/products/{id} [get]
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	id, valid := parseIDParam(c)
	if !valid {
		return
	}

	p := middleware.GetPrincipal(c)
	info, err := ctrl.productService.Get(c.Request.Context(), p, id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, info)
}

// ==================== 管理接口（仅超管） ====================

// CreateProduct 创建商品
// @Summary 创建商品（必须挂在活跃分类下）
// @Tags Product (商品模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateProductRequest true "创建请求"
// @Success 200 {object} dto.ProductInfo
// @Failure 400 {object} map[string]interface{} "同分类下商品名称已存在"
// @Router /api/products [post]
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "参数错误: "+err.Error())
		return
	}

	p := middleware.GetPrincipal(c)
	info, err := ctrl.productService.Create(c.Request.Context(), p, &req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, info)
}

// UpdateProduct 更新商品
// @Summary 更新商品（换分类时在目标分类内重新查重）
// @Tags Product (商品模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "商品ID"
// @Param body body dto.UpdateProductRequest true "更新请求"
// @Success 200 {object} dto.ProductInfo
// @Router /api/products/{id} [put]
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	id, valid := parseIDParam(c)
	if !valid {
		return
	}

	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "参数错误: "+err.Error())
		return
	}

	p := middleware.GetPrincipal(c)
	info, err := ctrl.productService.Update(c.Request.Context(), p, id, &req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, info)
}

// ChangeProductStatus 修改行政状态
// @Summary 修改商品行政状态
// @Tags Product (商品模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "商品ID"
// @Param body body dto.ChangeStatusRequest true "状态请求"
// @Success 200 {object} map[string]interface{}
// @Router /api/products/{id}/status [put]
func (ctrl *ProductController) ChangeProductStatus(c *gin.Context) {
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
	if err := ctrl.productService.ChangeStatus(c.Request.Context(), p, id, req.StatusID); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}

// DeleteProduct 软删商品
// @Summary 软删商品（商品下有活跃库存单元时拒绝）
// @Tags Product (商品模块)
// @Produce json
// @Security BearerAuth
// @Param id path int true "商品ID"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{} "商品下仍有活跃库存单元"
// @Router /api/products/{id} [delete]
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	id, valid := parseIDParam(c)
	if !valid {
		return
	}

	p := middleware.GetPrincipal(c)
	if err := ctrl.productService.Delete(c.Request.Context(), p, id); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}

// UploadImage 上传商品图片
// @Summary 上传图片，返回公开访问 URL
// @Tags Product (商品模块)
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "图片文件"
// @Success 200 {object} map[string]interface{} "图片 URL"
// @Router /api/products/images [post]
func (ctrl *ProductController) UploadImage(c *gin.Context) {
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

// readFormImage 读取 multipart 表单里的图片文件，出错时已写好 400 响应
func readFormImage(c *gin.Context) (data []byte, filename string, valid bool) {
	file, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "缺少文件: "+err.Error())
		return nil, "", false
	}

	src, err := file.Open()
	if err != nil {
		badRequest(c, "文件读取失败: "+err.Error())
		return nil, "", false
	}
	defer src.Close()

	data, err = io.ReadAll(src)
	if err != nil {
		badRequest(c, "文件读取失败: "+err.Error())
		return nil, "", false
	}
	return data, file.Filename, true
}
