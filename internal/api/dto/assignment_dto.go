package dto

// ==================== 指派 ====================

// AssignRequest 单个指派请求
type AssignRequest struct {
	StoreID   int64 `json:"store_id" binding:"required"`
	ProductID int64 `json:"product_id" binding:"required"`
	CanManage bool  `json:"can_manage"`
}

// AssignResponse 单个指派响应
// status 三种取值让调用方能区分"发生了什么"：
//   created / reactivated / already_assigned
type AssignResponse struct {
	Status     string          `json:"status"`
	Assignment *AssignmentInfo `json:"assignment,omitempty"`
}

// BulkAssignRequest 批量指派请求
type BulkAssignRequest struct {
	StoreID    int64   `json:"store_id" binding:"required"`
	ProductIDs []int64 `json:"product_ids" binding:"required"`
	CanManage  bool    `json:"can_manage"`
}

// AssignByCategoryRequest 按分类批量指派请求
// 清单里的商品必须全部属于该分类且处于活跃状态
type AssignByCategoryRequest struct {
	StoreID    int64   `json:"store_id" binding:"required"`
	CategoryID int64   `json:"category_id" binding:"required"`
	ProductIDs []int64 `json:"product_ids" binding:"required"`
	CanManage  bool    `json:"can_manage"`
}

// BulkAssignResult 批量指派结果
// 三个计数区分新建/重新激活/本就已指派，幂等重试时第二次全部落在 skipped
type BulkAssignResult struct {
	CreatedCount     int `json:"created_count"`
	ReactivatedCount int `json:"reactivated_count"`
	SkippedCount     int `json:"skipped_count"`
}

// AssignmentInfo 指派信息
type AssignmentInfo struct {
	ID          int64  `json:"id"`
	StoreID     int64  `json:"store_id"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	CanManage   bool   `json:"can_manage"`
	StatusID    int64  `json:"status_id"`
	IsActive    bool   `json:"is_active"`

	Audit AuditView `json:"audit"`
}

// AssignmentListResp 指派列表响应
type AssignmentListResp struct {
	Code     int              `json:"code"`
	Message  string           `json:"message"`
	Data     []AssignmentInfo `json:"data"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}
