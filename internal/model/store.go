package model

// Store 店铺
// 由超管直接创建，或在注册店铺管理员时隐式创建
type Store struct {
	BaseModel
	Name        string `gorm:"size:100;not null"`
	Description string `gorm:"type:text"`

	// 行政状态（状态字典外键）
	StatusID int64   `gorm:"index;not null"`
	Status   *Status `gorm:"foreignKey:StatusID"`

	IsActive bool `gorm:"default:true;index"`

	// ==============================
	// 关联关系
	// ==============================

	// 店铺管理员（软删除级联范围之一）
	Admins []SysUser `gorm:"foreignKey:StoreID"`
	// 商品指派（软删除级联范围之一）
	Assignments []StoreProductAssignment `gorm:"foreignKey:StoreID"`
	// 库存单元（软删除级联范围之一）
	Items []Item `gorm:"foreignKey:StoreID"`
}

func (Store) TableName() string {
	return "stores"
}
