package model

import (
	"gorm.io/datatypes"
)

// Product 中央目录商品
// 店铺可见性由 StoreProductAssignment 控制，商品本身全平台共享
type Product struct {
	BaseModel
	Code        string `gorm:"size:20;uniqueIndex;not null"` // 业务编码 PRD-xxxxxxxx
	Name        string `gorm:"size:255;not null;index"`      // 同分类活跃商品内唯一（业务层校验）
	Description string `gorm:"type:text"`

	// 所属分类，必须指向活跃分类
	CategoryID int64            `gorm:"index;not null"`
	Category   *ProductCategory `gorm:"foreignKey:CategoryID"`

	StatusID int64   `gorm:"index;not null"`
	Status   *Status `gorm:"foreignKey:StatusID"`

	IsActive bool `gorm:"default:true;index"`

	// 详情页浏览计数，仅作展示参考，不做权限控制
	ViewCount int64 `gorm:"default:0"`

	// 主图 + 图集元数据
	ImageURL string         `gorm:"size:512"`
	Gallery  datatypes.JSON `gorm:"type:jsonb"`

	// --- 关联关系 ---
	Assignments []StoreProductAssignment `gorm:"foreignKey:ProductID"`
	// 库存单元（存在活跃 Item 时禁止软删商品）
	Items []Item `gorm:"foreignKey:ProductID"`
}

func (Product) TableName() string {
	return "products"
}

// Item 库存单元
// 库存数量跟踪不在本系统范围内，这里只维护"商品下是否还挂着活跃库存"
// 用于商品软删守卫和店铺级联
type Item struct {
	BaseModel
	ProductID int64    `gorm:"index;not null"`
	Product   *Product `gorm:"foreignKey:ProductID"`
	StoreID   int64    `gorm:"index;not null"`
	SKU       string   `gorm:"size:100;index"`
	IsActive  bool     `gorm:"default:true;index"`
}

func (Item) TableName() string {
	return "items"
}
