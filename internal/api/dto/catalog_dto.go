package dto

// ==================== 分类 ====================

// CreateCategoryRequest 创建分类请求
type CreateCategoryRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"` // 不传或 <=0 则自动取活跃分类 max+1
	IsPopular    bool   `json:"is_popular"`
	IconRef      string `json:"icon_ref"`
	ImageURL     string `json:"image_url"`
}

// UpdateCategoryRequest 更新分类请求（部分字段）
type UpdateCategoryRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	DisplayOrder *int    `json:"display_order"`
	IsPopular    *bool   `json:"is_popular"`
	IconRef      *string `json:"icon_ref"`
	ImageURL     *string `json:"image_url"`
}

// ChangeStatusRequest 修改行政状态请求
type ChangeStatusRequest struct {
	StatusID int64 `json:"status_id" binding:"required"`
}

// ReorderRequest 批量改展示顺序请求
// 任意一个 ID 不是活跃分类则整体拒绝，不做部分生效
type ReorderRequest struct {
	Orders map[int64]int `json:"orders" binding:"required"`
}

// CategoryInfo 分类信息
type CategoryInfo struct {
	ID           int64  `json:"id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"`
	IsPopular    bool   `json:"is_popular"`
	IconURL      string `json:"icon_url"`
	ImageURL     string `json:"image_url"`
	StatusID     int64  `json:"status_id"`
	StatusName   string `json:"status_name,omitempty"`
	IsActive     bool   `json:"is_active"`

	Audit AuditView `json:"audit"`
}

// CategoryListResp 分类列表响应
type CategoryListResp struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    []CategoryInfo `json:"data"`
	Total   int64          `json:"total"`
}

// ==================== 商品 ====================

// CreateProductRequest 创建商品请求
type CreateProductRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	CategoryID  int64    `json:"category_id" binding:"required"`
	ImageURL    string   `json:"image_url"`
	Gallery     []string `json:"gallery"`
}

// UpdateProductRequest 更新商品请求（部分字段）
type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	CategoryID  *int64   `json:"category_id"` // 换分类要在目标分类内重新校验重名
	ImageURL    *string  `json:"image_url"`
	Gallery     []string `json:"gallery"`
}

// ProductInfo 商品信息
type ProductInfo struct {
	ID           int64    `json:"id"`
	Code         string   `json:"code"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	CategoryID   int64    `json:"category_id"`
	CategoryName string   `json:"category_name,omitempty"`
	StatusID     int64    `json:"status_id"`
	StatusName   string   `json:"status_name,omitempty"`
	IsActive     bool     `json:"is_active"`
	ViewCount    int64    `json:"view_count"`
	ImageURL     string   `json:"image_url"`
	Gallery      []string `json:"gallery,omitempty"`

	Audit AuditView `json:"audit"`
}

// ProductListResp 商品列表响应
type ProductListResp struct {
	Code     int           `json:"code"`
	Message  string        `json:"message"`
	Data     []ProductInfo `json:"data"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}
