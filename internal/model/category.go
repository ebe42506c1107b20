package model

// ProductCategory 商品分类
// 全平台共享，店铺不拥有分类
type ProductCategory struct {
	BaseModel
	Code        string `gorm:"size:20;uniqueIndex;not null"` // 业务编码 CAT-xxxxxxxx
	Name        string `gorm:"size:100;not null"`            // 活跃分类内全局唯一（业务层校验）
	Description string `gorm:"type:text"`

	// 展示顺序，创建时不传则取活跃分类 max+1
	// 读取时并列按名称二次排序
	DisplayOrder int  `gorm:"default:0;index"`
	IsPopular    bool `gorm:"default:false"`

	IconURL  string `gorm:"size:512"`
	ImageURL string `gorm:"size:512"`

	StatusID int64   `gorm:"index;not null"`
	Status   *Status `gorm:"foreignKey:StatusID"`

	IsActive bool `gorm:"default:true;index"`

	// 分类下商品（存在活跃商品时禁止软删分类，不做级联）
	Products []Product `gorm:"foreignKey:CategoryID"`
}

func (ProductCategory) TableName() string {
	return "product_categories"
}
