package dto

import (
	"strconv"
	"time"
)

// NotModified 记录创建后从未被改动过时，审计展示字段的占位值
const NotModified = "Not modified"

// AuditView 审计展示字段
// 审计是持久化在行上的副作用，这里只负责转成给前端看的形态
type AuditView struct {
	CreatedBy  int64  `json:"created_by"`
	CreatedAt  string `json:"created_at"`
	ModifiedBy string `json:"modified_by"` // 从未修改过时为 "Not modified"
	ModifiedAt string `json:"modified_at"`
}

// NewAuditView 组装审计展示字段
// UpdatedBy 为 0 视为创建后未被改动
func NewAuditView(createdBy, updatedBy int64, createdAt, updatedAt time.Time) AuditView {
	v := AuditView{
		CreatedBy: createdBy,
		CreatedAt: createdAt.Format(time.RFC3339),
	}
	if updatedBy == 0 {
		v.ModifiedBy = NotModified
		v.ModifiedAt = NotModified
	} else {
		v.ModifiedBy = "user:" + strconv.FormatInt(updatedBy, 10)
		v.ModifiedAt = updatedAt.Format(time.RFC3339)
	}
	return v
}
