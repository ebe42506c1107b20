package model

import "time"

// ==================== 角色常量 ====================

// 系统级角色: super_admin (平台超管), store_admin (店铺管理员), customer (顾客)
const (
	RoleSuperAdmin = "super_admin"
	RoleStoreAdmin = "store_admin"
	RoleCustomer   = "customer"
)

// SysUser 系统用户
type SysUser struct {
	BaseModel
	// 基础信息
	Username string `gorm:"size:100;uniqueIndex;not null"`
	Password string `gorm:"size:255;not null"` // 哈希密码
	Email    string `gorm:"size:100"`

	// 系统角色，见上方常量
	Role string `gorm:"size:20;not null;default:'customer'"`

	// store_admin 必填：该管理员所属的店铺
	// customer 可带注册店铺，只用于用户目录的归属过滤，不限制其购物范围
	StoreID *int64 `gorm:"index"`
	Store   *Store `gorm:"foreignKey:StoreID"`

	IsActive    bool       `gorm:"default:true;index"`
	LastLoginAt *time.Time `gorm:"comment:最后登录时间"`
}

func (SysUser) TableName() string {
	return "sys_users"
}
