package dto

import "time"

// ==================== 认证 ====================

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         *UserInfo `json:"user"`
}

// RefreshTokenRequest 刷新 Token 请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshTokenResponse 刷新 Token 响应
type RefreshTokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// RegisterRequest 顾客自助注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Email    string `json:"email"`
}

// ==================== 用户管理 ====================

// CreateUserRequest 创建用户请求（管理员）
// store_admin 只能在自己店铺内建 customer；super_admin 不受限
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Email    string `json:"email"`
	Role     string `json:"role" binding:"required"`
	StoreID  *int64 `json:"store_id"`
}

// UpdateUserRequest 更新用户请求
type UpdateUserRequest struct {
	Email *string `json:"email"`
}

// ToggleActiveRequest 启用/停用请求
type ToggleActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// UserListRequest 用户列表请求
type UserListRequest struct {
	Keyword  string `form:"keyword"`
	Role     string `form:"role"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
}

// UserInfo 用户信息
type UserInfo struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	StoreID     *int64    `json:"store_id,omitempty"`
	IsActive    bool      `json:"is_active"`
	LastLoginAt time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserListResponse 用户列表响应
type UserListResponse struct {
	List  []*UserInfo `json:"list"`
	Total int64       `json:"total"`
}

// ==================== 店铺管理员注册 ====================

// RegisterStoreAdminRequest 注册店铺管理员请求
// 同时建店铺和管理员账号，两步在一个事务里，任何一步失败整体回滚
type RegisterStoreAdminRequest struct {
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required,min=6"`
	Email     string `json:"email"`
	StoreName string `json:"store_name" binding:"required"`
}

// RegisterStoreAdminResponse 注册店铺管理员响应
type RegisterStoreAdminResponse struct {
	StoreID int64 `json:"store_id"`
	UserID  int64 `json:"user_id"`
}
