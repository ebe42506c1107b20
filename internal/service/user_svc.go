package service

import (
	"context"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"mart_admin_v1_202608/internal/api/dto"
	"mart_admin_v1_202608/internal/middleware"
	"mart_admin_v1_202608/internal/model"
	"mart_admin_v1_202608/internal/policy"
	"mart_admin_v1_202608/internal/repository"
)

// ==================== UserService 用户服务 ====================

// UserService 认证与用户目录服务
type UserService struct {
	db         *gorm.DB
	userRepo   repository.UserRepository
	storeRepo  repository.StoreRepository
	statusRepo repository.StatusRepository
}

// NewUserService 创建用户服务
func NewUserService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	storeRepo repository.StoreRepository,
	statusRepo repository.StatusRepository,
) *UserService {
	return &UserService{
		db:         db,
		userRepo:   userRepo,
		storeRepo:  storeRepo,
		statusRepo: statusRepo,
	}
}

// ==================== 认证 ====================

// Login 用户登录
// 用户名不存在和密码错误返回同一个错误，不泄露账号存在性
func (s *UserService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserDisabled
	}

	accessToken, refreshToken, err := middleware.GenerateTokenPair(user.ID, user.Username, user.Role, user.StoreID)
	if err != nil {
		return nil, err
	}

	// 登录时间只做展示，更新失败不阻断登录
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		log.Printf("[WARN] 更新最后登录时间失败 user=%d: %v", user.ID, err)
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(middleware.GetJWTConfig().AccessTokenTTL),
		User:         toUserInfo(user),
	}, nil
}

// RefreshToken 用 Refresh Token 换新 Token 对
// 换发前回查用户状态，已禁用的账号拿不到新 Token
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*dto.RefreshTokenResponse, error) {
	claims, err := middleware.ParseToken(refreshToken)
	if err != nil || claims.Subject != "refresh" {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrUserDisabled
	}

	accessToken, newRefreshToken, err := middleware.GenerateTokenPair(user.ID, user.Username, user.Role, user.StoreID)
	if err != nil {
		return nil, err
	}

	return &dto.RefreshTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresAt:    time.Now().Add(middleware.GetJWTConfig().AccessTokenTTL),
	}, nil
}

// Register 顾客自助注册，角色固定为 customer
func (s *UserService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserInfo, error) {
	if err := s.checkUniqueness(ctx, req.Username, req.Email); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.SysUser{
		Username: req.Username,
		Password: string(hashed),
		Email:    req.Email,
		Role:     model.RoleCustomer,
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

// ChangePassword 修改自己的密码
func (s *UserService) ChangePassword(ctx context.Context, p *policy.Principal, req *dto.ChangePasswordRequest) error {
	if p == nil {
		return policy.ErrUnauthenticated
	}

	user, err := s.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		return err
	}
	if user == nil || !user.IsActive {
		return ErrUserDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		return ErrInvalidOldPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, p.UserID, string(hashed))
}

// ==================== 用户管理 ====================

// CreateUser 管理员创建用户
// 超管可以建任意角色；店铺管理员只能在自己店铺内建 customer
func (s *UserService) CreateUser(ctx context.Context, p *policy.Principal, req *dto.CreateUserRequest) (*dto.UserInfo, error) {
	if err := policy.Authorize(p, policy.ResourceUser, policy.VerbWrite); err != nil {
		return nil, err
	}

	storeID := req.StoreID
	switch {
	case p.IsStoreAdmin():
		if req.Role != model.RoleCustomer {
			return nil, policy.ErrForbidden
		}
		own := p.OwnStoreID()
		storeID = &own
	case req.Role == model.RoleStoreAdmin:
		// 超管建店铺管理员必须挂到一个活跃店铺
		if storeID == nil {
			return nil, ErrStoreInactive
		}
		store, err := s.storeRepo.GetByID(ctx, *storeID)
		if err != nil {
			return nil, err
		}
		if store == nil || !store.IsActive {
			return nil, ErrStoreInactive
		}
	case req.Role != model.RoleSuperAdmin && req.Role != model.RoleCustomer:
		return nil, ErrInvalidStatus
	}

	if err := s.checkUniqueness(ctx, req.Username, req.Email); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.SysUser{
		Username: req.Username,
		Password: string(hashed),
		Email:    req.Email,
		Role:     req.Role,
		StoreID:  storeID,
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

// RegisterStoreAdmin 注册店铺管理员：新建店铺 + 管理员账号
// 两步在同一事务里，任何一步失败整体回滚（仅超管）
func (s *UserService) RegisterStoreAdmin(ctx context.Context, p *policy.Principal, req *dto.RegisterStoreAdminRequest) (*dto.RegisterStoreAdminResponse, error) {
	if !p.IsSuperAdmin() {
		return nil, policy.ErrForbidden
	}

	if err := s.checkUniqueness(ctx, req.Username, req.Email); err != nil {
		return nil, err
	}

	statusID, err := s.statusRepo.IDByName(ctx, model.StatusActive)
	if err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	store := &model.Store{
		Name:     req.StoreName,
		StatusID: statusID,
		IsActive: true,
	}
	user := &model.SysUser{
		Username: req.Username,
		Password: string(hashed),
		Email:    req.Email,
		Role:     model.RoleStoreAdmin,
		IsActive: true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.storeRepo.WithTx(tx).Create(ctx, store); err != nil {
			return err
		}
		user.StoreID = &store.ID
		return s.userRepo.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[USER] 注册店铺管理员 store=%d user=%d operator=%d", store.ID, user.ID, p.UserID)
	return &dto.RegisterStoreAdminResponse{
		StoreID: store.ID,
		UserID:  user.ID,
	}, nil
}

// GetSelf 查询自己的资料，任何已登录角色可用，不走用户目录的归属检查
func (s *UserService) GetSelf(ctx context.Context, p *policy.Principal) (*dto.UserInfo, error) {
	if p == nil {
		return nil, policy.ErrUnauthenticated
	}
	user, err := s.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return toUserInfo(user), nil
}

// Get 按 ID 查用户
// 店铺管理员只能看自己店铺内的 customer，越权一律"不存在"
func (s *UserService) Get(ctx context.Context, p *policy.Principal, id int64) (*dto.UserInfo, error) {
	if err := policy.Authorize(p, policy.ResourceUser, policy.VerbRead); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if err := policy.CheckUserTarget(p, user); err != nil {
		return nil, ErrNotFound
	}
	return toUserInfo(user), nil
}

// List 用户列表
// 店铺管理员静默收窄到自己店铺的 customer
func (s *UserService) List(ctx context.Context, p *policy.Principal, filter repository.UserFilter) ([]dto.UserInfo, int64, error) {
	if err := policy.Authorize(p, policy.ResourceUser, policy.VerbRead); err != nil {
		return nil, 0, err
	}

	if storeID, restricted := policy.ListScope(p); restricted {
		filter.StoreID = storeID
		filter.Role = model.RoleCustomer
	}

	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	infos := make([]dto.UserInfo, 0, len(users))
	for i := range users {
		infos = append(infos, *toUserInfo(&users[i]))
	}
	return infos, total, nil
}

// Update 更新用户信息
func (s *UserService) Update(ctx context.Context, p *policy.Principal, id int64, req *dto.UpdateUserRequest) (*dto.UserInfo, error) {
	if err := policy.Authorize(p, policy.ResourceUser, policy.VerbWrite); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if err := policy.CheckUserTarget(p, user); err != nil {
		return nil, ErrNotFound
	}

	fields := map[string]interface{}{"updated_by": p.UserID}
	if req.Email != nil && *req.Email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, *req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrEmailExists
		}
		fields["email"] = *req.Email
		user.Email = *req.Email
	}

	if err := s.userRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return toUserInfo(user), nil
}

// ToggleActive 启用/停用用户
// 管理员不能对自己的账号做停用（自锁保护）
func (s *UserService) ToggleActive(ctx context.Context, p *policy.Principal, id int64, active bool) error {
	if err := policy.Authorize(p, policy.ResourceUser, policy.VerbWrite); err != nil {
		return err
	}
	if err := policy.CheckNotSelf(p, id); err != nil {
		return ErrSelfLockout
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if err := policy.CheckUserTarget(p, user); err != nil {
		return ErrNotFound
	}

	return s.userRepo.UpdateFields(ctx, id, map[string]interface{}{
		"is_active":  active,
		"updated_by": p.UserID,
	})
}

// Delete 软删用户（等价于停用，历史数据保留）
func (s *UserService) Delete(ctx context.Context, p *policy.Principal, id int64) error {
	return s.ToggleActive(ctx, p, id, false)
}

// ==================== 辅助 ====================

func (s *UserService) checkUniqueness(ctx context.Context, username, email string) error {
	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return err
	}
	if exists {
		return ErrUsernameExists
	}
	if email != "" {
		exists, err = s.userRepo.ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if exists {
			return ErrEmailExists
		}
	}
	return nil
}

func toUserInfo(u *model.SysUser) *dto.UserInfo {
	info := &dto.UserInfo{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		StoreID:   u.StoreID,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
	if u.LastLoginAt != nil {
		info.LastLoginAt = *u.LastLoginAt
	}
	return info
}
