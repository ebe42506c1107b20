package model

import (
	"time"
)

type BaseModel struct {
	ID        int64     `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// --- 审计字段 ---
	// 由 middleware.RegisterAuditCallbacks 在写入时自动填充
	CreatedBy int64 `gorm:"index;comment:创建人ID" json:"created_by"`
	UpdatedBy int64 `gorm:"comment:最后修改人ID" json:"updated_by"`
}

// 注意：这里不用 gorm.DeletedAt
// 软删除统一走各实体的 IsActive 字段（退役行仍要参与唯一约束和重新激活查询，
// gorm 的 DeletedAt 会把它们从所有查询里藏掉）
