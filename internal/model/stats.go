package model

import (
	"time"

	"gorm.io/datatypes"
)

// CatalogStat 目录统计快照
// 由定时任务每日生成，仅供管理后台展示，不参与任何业务判断
type CatalogStat struct {
	ID         int64     `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	SnapshotAt time.Time `gorm:"index" json:"snapshot_at"`

	CategoryCount   int64 `json:"category_count"`
	ProductCount    int64 `json:"product_count"`
	StoreCount      int64 `json:"store_count"`
	AssignmentCount int64 `json:"assignment_count"` // 当前处于"已指派"状态的总数

	// 每店铺已指派商品数 {"storeID": count}
	PerStore datatypes.JSON `gorm:"type:jsonb" json:"per_store"`
}

func (CatalogStat) TableName() string {
	return "catalog_stats"
}
