package service

import (
	"context"
	"log"

	"gorm.io/gorm"

	"mart_admin_v1_202608/internal/api/dto"
	"mart_admin_v1_202608/internal/model"
	"mart_admin_v1_202608/internal/policy"
	"mart_admin_v1_202608/internal/repository"
)

// ==================== StoreService 店铺服务 ====================

// StoreService 店铺服务
// 店铺软删是级联操作：店铺本体、店铺用户、商品指派、库存单元
// 全部退役，且必须落在同一个事务里
type StoreService struct {
	db             *gorm.DB
	storeRepo      repository.StoreRepository
	userRepo       repository.UserRepository
	assignmentRepo repository.AssignmentRepository
	itemRepo       repository.ItemRepository
	statusRepo     repository.StatusRepository
}

// NewStoreService 创建店铺服务
func NewStoreService(
	db *gorm.DB,
	storeRepo repository.StoreRepository,
	userRepo repository.UserRepository,
	assignmentRepo repository.AssignmentRepository,
	itemRepo repository.ItemRepository,
	statusRepo repository.StatusRepository,
) *StoreService {
	return &StoreService{
		db:             db,
		storeRepo:      storeRepo,
		userRepo:       userRepo,
		assignmentRepo: assignmentRepo,
		itemRepo:       itemRepo,
		statusRepo:     statusRepo,
	}
}

// ==================== 写操作（仅超管） ====================

// Create 创建店铺
func (s *StoreService) Create(ctx context.Context, p *policy.Principal, req *dto.CreateStoreRequest) (*dto.StoreInfo, error) {
	if err := policy.Authorize(p, policy.ResourceStore, policy.VerbWrite); err != nil {
		return nil, err
	}

	statusID, err := s.statusRepo.IDByName(ctx, model.StatusActive)
	if err != nil {
		return nil, err
	}

	store := &model.Store{
		Name:        req.Name,
		Description: req.Description,
		StatusID:    statusID,
		IsActive:    true,
	}
	if err := s.storeRepo.Create(ctx, store); err != nil {
		return nil, err
	}

	return toStoreInfo(store), nil
}

// Update 更新店铺基础字段
func (s *StoreService) Update(ctx context.Context, p *policy.Principal, id int64, req *dto.UpdateStoreRequest) (*dto.StoreInfo, error) {
	if err := policy.Authorize(p, policy.ResourceStore, policy.VerbWrite); err != nil {
		return nil, err
	}

	store, err := s.storeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if store == nil || !store.IsActive {
		return nil, ErrNotFound
	}

	fields := map[string]interface{}{"updated_by": p.UserID}
	if req.Name != nil {
		fields["name"] = *req.Name
		store.Name = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
		store.Description = *req.Description
	}

	if err := s.storeRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return toStoreInfo(store), nil
}

// ChangeStatus 修改店铺行政状态
func (s *StoreService) ChangeStatus(ctx context.Context, p *policy.Principal, id int64, statusID int64) error {
	if err := policy.Authorize(p, policy.ResourceStore, policy.VerbWrite); err != nil {
		return err
	}

	store, err := s.storeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if store == nil || !store.IsActive {
		return ErrNotFound
	}

	ok, err := s.statusRepo.Exists(ctx, statusID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidStatus
	}

	return s.storeRepo.UpdateFields(ctx, id, map[string]interface{}{
		"status_id":  statusID,
		"updated_by": p.UserID,
	})
}

// Delete 软删店铺并级联退役关联数据
// 级联范围：店铺用户、商品指派、库存单元（中央目录商品不动）
// 全部落在一个事务里，任何一步失败整体回滚；重复删除视为成功
func (s *StoreService) Delete(ctx context.Context, p *policy.Principal, id int64) error {
	if err := policy.Authorize(p, policy.ResourceStore, policy.VerbWrite); err != nil {
		return err
	}

	store, err := s.storeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if store == nil {
		return ErrNotFound
	}
	if !store.IsActive {
		return nil
	}

	var retiredUsers, retiredAssignments, retiredItems int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.storeRepo.WithTx(tx).UpdateFields(ctx, id, map[string]interface{}{
			"is_active":  false,
			"updated_by": p.UserID,
		}); err != nil {
			return err
		}

		var err error
		if retiredUsers, err = s.userRepo.WithTx(tx).RetireByStore(ctx, id, p.UserID); err != nil {
			return err
		}
		if retiredAssignments, err = s.assignmentRepo.WithTx(tx).RetireAllForStore(ctx, id, p.UserID); err != nil {
			return err
		}
		if retiredItems, err = s.itemRepo.WithTx(tx).RetireByStore(ctx, id, p.UserID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("[STORE] 软删店铺 id=%d 级联退役 users=%d assignments=%d items=%d operator=%d",
		id, retiredUsers, retiredAssignments, retiredItems, p.UserID)
	return nil
}

// ==================== 读操作 ====================

// Get 按 ID 查店铺
// 店铺管理员只能看自己店铺，越权一律"不存在"
func (s *StoreService) Get(ctx context.Context, p *policy.Principal, id int64) (*dto.StoreInfo, error) {
	if err := policy.Authorize(p, policy.ResourceStore, policy.VerbRead); err != nil {
		return nil, err
	}
	if err := policy.CheckStoreScope(p, policy.ResourceStore, id, id); err != nil {
		return nil, ErrNotFound
	}

	store, err := s.storeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrNotFound
	}
	return toStoreInfo(store), nil
}

// List 店铺列表，店铺管理员只会看到自己那一家
func (s *StoreService) List(ctx context.Context, p *policy.Principal, filter repository.StoreFilter) ([]dto.StoreInfo, int64, error) {
	if err := policy.Authorize(p, policy.ResourceStore, policy.VerbRead); err != nil {
		return nil, 0, err
	}

	if storeID, restricted := policy.ListScope(p); restricted {
		store, err := s.storeRepo.GetByID(ctx, storeID)
		if err != nil {
			return nil, 0, err
		}
		if store == nil {
			return []dto.StoreInfo{}, 0, nil
		}
		return []dto.StoreInfo{*toStoreInfo(store)}, 1, nil
	}

	stores, total, err := s.storeRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	infos := make([]dto.StoreInfo, 0, len(stores))
	for i := range stores {
		infos = append(infos, *toStoreInfo(&stores[i]))
	}
	return infos, total, nil
}

// ==================== DTO 转换 ====================

func toStoreInfo(s *model.Store) *dto.StoreInfo {
	info := &dto.StoreInfo{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		StatusID:    s.StatusID,
		IsActive:    s.IsActive,
		Audit:       dto.NewAuditView(s.CreatedBy, s.UpdatedBy, s.CreatedAt, s.UpdatedAt),
	}
	if s.Status != nil {
		info.StatusName = s.Status.Name
	}
	return info
}
