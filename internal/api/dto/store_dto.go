package dto

// ==================== 店铺 ====================

// CreateStoreRequest 创建店铺请求
type CreateStoreRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdateStoreRequest 更新店铺请求（部分字段）
type UpdateStoreRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// StoreInfo 店铺信息
type StoreInfo struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	StatusID    int64  `json:"status_id"`
	StatusName  string `json:"status_name,omitempty"`
	IsActive    bool   `json:"is_active"`

	Audit AuditView `json:"audit"`
}

// StoreListResp 店铺列表响应
type StoreListResp struct {
	Code     int         `json:"code"`
	Message  string      `json:"message"`
	Data     []StoreInfo `json:"data"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// ==================== 统计 ====================

// CatalogStatInfo 目录统计快照
type CatalogStatInfo struct {
	SnapshotAt      string          `json:"snapshot_at"`
	CategoryCount   int64           `json:"category_count"`
	ProductCount    int64           `json:"product_count"`
	StoreCount      int64           `json:"store_count"`
	AssignmentCount int64           `json:"assignment_count"`
	PerStore        map[int64]int64 `json:"per_store,omitempty"`
}
