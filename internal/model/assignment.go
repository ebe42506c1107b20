package model

// ==================== 指派状态机 ====================
//
// (store, product) 对的状态由"行是否存在 + IsActive"推导：
//   未指派   —— 无行
//   已指派   —— 有行，IsActive=true
//   已退役   —— 有行，IsActive=false（历史保留，重新指派时翻转而不是新插一行）
//
// 联合唯一索引保证任意时刻一对至多一行，
// 并发 create 的去重靠数据库约束 + OnConflict 条件插入，不靠应用层锁

// StoreProductAssignment 店铺-商品指派（连接表）
type StoreProductAssignment struct {
	BaseModel
	// 联合唯一索引：一个店铺对一个商品至多一条记录（含退役行）
	StoreID   int64 `gorm:"index;uniqueIndex:idx_store_product;not null"`
	ProductID int64 `gorm:"index;uniqueIndex:idx_store_product;not null"`

	// 是否授予店铺管理员对该指派的解除权限
	CanManage bool `gorm:"default:false"`

	StatusID int64   `gorm:"index;not null"`
	Status   *Status `gorm:"foreignKey:StatusID"`

	IsActive bool `gorm:"default:true;index"`

	// 关联对象 (Belongs To)
	Store   *Store   `gorm:"foreignKey:StoreID"`
	Product *Product `gorm:"foreignKey:ProductID"`
}

func (StoreProductAssignment) TableName() string {
	return "store_product_assignments"
}
