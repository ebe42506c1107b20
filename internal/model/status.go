package model

// ==================== 状态字典 ====================

// 行政状态名称常量
// 与 IsActive 软删除标记正交：IsActive 表示行是否还"存在"，
// Status 表示一条仍然存在的行的行政状态
const (
	StatusActive    = "Active"    // 正常
	StatusSuspended = "Suspended" // 已暂停
	StatusInactive  = "Inactive"  // 已停用
	StatusPending   = "Pending"   // 待审核
)

// Status 通用状态字典表
// 启动时由 seed 写入，缺失视为部署配置错误
type Status struct {
	ID   int64  `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Name string `gorm:"size:50;uniqueIndex;not null" json:"name"`
}

func (Status) TableName() string {
	return "statuses"
}
