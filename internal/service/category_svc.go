package service

import (
	"context"
	"fmt"

	"mart_admin_v1_202608/internal/api/dto"
	"mart_admin_v1_202608/internal/model"
	"mart_admin_v1_202608/internal/policy"
	"mart_admin_v1_202608/internal/repository"
	"mart_admin_v1_202608/pkg/utils"
)

// ==================== CategoryService 分类服务 ====================

// CategoryService 商品分类服务
// 分类是中央目录数据：任何人可读（按状态过滤），只有超管可写
type CategoryService struct {
	categoryRepo repository.CategoryRepository
	statusRepo   repository.StatusRepository
}

// NewCategoryService 创建分类服务
func NewCategoryService(
	categoryRepo repository.CategoryRepository,
	statusRepo repository.StatusRepository,
) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		statusRepo:   statusRepo,
	}
}

// ==================== 写操作 ====================

// Create 创建分类
// display_order 不传（<=0）时自动取当前活跃分类最大值 +1
func (s *CategoryService) Create(ctx context.Context, p *policy.Principal, req *dto.CreateCategoryRequest) (*dto.CategoryInfo, error) {
	if err := policy.Authorize(p, policy.ResourceCategory, policy.VerbWrite); err != nil {
		return nil, err
	}

	exists, err := s.categoryRepo.ExistsActiveName(ctx, req.Name, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCategoryNameExists
	}

	order := req.DisplayOrder
	if order <= 0 {
		max, err := s.categoryRepo.MaxDisplayOrder(ctx)
		if err != nil {
			return nil, err
		}
		order = max + 1
	}

	statusID, err := s.statusRepo.IDByName(ctx, model.StatusActive)
	if err != nil {
		return nil, err
	}

	category := &model.ProductCategory{
		Code:         utils.GenCode("CAT"),
		Name:         req.Name,
		Description:  req.Description,
		DisplayOrder: order,
		IsPopular:    req.IsPopular,
		IconURL:      req.IconRef,
		ImageURL:     req.ImageURL,
		StatusID:     statusID,
		IsActive:     true,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return toCategoryInfo(category), nil
}

// Update 更新分类基础字段（部分更新）
func (s *CategoryService) Update(ctx context.Context, p *policy.Principal, id int64, req *dto.UpdateCategoryRequest) (*dto.CategoryInfo, error) {
	if err := policy.Authorize(p, policy.ResourceCategory, policy.VerbWrite); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil || !category.IsActive {
		return nil, ErrNotFound
	}

	fields := map[string]interface{}{"updated_by": p.UserID}

	if req.Name != nil && *req.Name != category.Name {
		exists, err := s.categoryRepo.ExistsActiveName(ctx, *req.Name, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrCategoryNameExists
		}
		fields["name"] = *req.Name
		category.Name = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
		category.Description = *req.Description
	}
	if req.DisplayOrder != nil {
		fields["display_order"] = *req.DisplayOrder
		category.DisplayOrder = *req.DisplayOrder
	}
	if req.IsPopular != nil {
		fields["is_popular"] = *req.IsPopular
		category.IsPopular = *req.IsPopular
	}
	if req.IconRef != nil {
		fields["icon_url"] = *req.IconRef
		category.IconURL = *req.IconRef
	}
	if req.ImageURL != nil {
		fields["image_url"] = *req.ImageURL
		category.ImageURL = *req.ImageURL
	}

	if err := s.categoryRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}

	return toCategoryInfo(category), nil
}

// ChangeStatus 修改行政状态（Active/Suspended/...），与软删标记正交
func (s *CategoryService) ChangeStatus(ctx context.Context, p *policy.Principal, id int64, statusID int64) error {
	if err := policy.Authorize(p, policy.ResourceCategory, policy.VerbWrite); err != nil {
		return err
	}

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if category == nil || !category.IsActive {
		return ErrNotFound
	}

	ok, err := s.statusRepo.Exists(ctx, statusID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidStatus
	}

	return s.categoryRepo.UpdateFields(ctx, id, map[string]interface{}{
		"status_id":  statusID,
		"updated_by": p.UserID,
	})
}

// Delete 软删分类
// 分类下仍有活跃商品时拒绝，不做级联；重复删除视为成功（幂等）
func (s *CategoryService) Delete(ctx context.Context, p *policy.Principal, id int64) error {
	if err := policy.Authorize(p, policy.ResourceCategory, policy.VerbWrite); err != nil {
		return err
	}

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrNotFound
	}
	if !category.IsActive {
		return nil
	}

	count, err := s.categoryRepo.CountActiveProducts(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w (活跃商品数 %d)", ErrHasActiveProducts, count)
	}

	return s.categoryRepo.UpdateFields(ctx, id, map[string]interface{}{
		"is_active":  false,
		"updated_by": p.UserID,
	})
}

// Reorder 批量修改展示顺序
// 任意一个 ID 不是活跃分类则整体拒绝，单事务内生效
func (s *CategoryService) Reorder(ctx context.Context, p *policy.Principal, orders map[int64]int) error {
	if err := policy.Authorize(p, policy.ResourceCategory, policy.VerbWrite); err != nil {
		return err
	}
	if len(orders) == 0 {
		return ErrEmptyBatch
	}

	ids := make([]int64, 0, len(orders))
	for id := range orders {
		ids = append(ids, id)
	}

	found, err := s.categoryRepo.ListActiveByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(found) != len(ids) {
		foundSet := make(map[int64]bool, len(found))
		for _, c := range found {
			foundSet[c.ID] = true
		}
		var missing []int64
		for _, id := range ids {
			if !foundSet[id] {
				missing = append(missing, id)
			}
		}
		return fmt.Errorf("%w: 以下分类不存在或未激活 %v", ErrValidation, missing)
	}

	return s.categoryRepo.Transaction(ctx, func(txRepo repository.CategoryRepository) error {
		for id, order := range orders {
			err := txRepo.UpdateFields(ctx, id, map[string]interface{}{
				"display_order": order,
				"updated_by":    p.UserID,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// ==================== 读操作 ====================

// Get 按 ID 查单个分类
// 匿名与 customer 只能看到行政状态 Active 且未软删的行，其余一律"不存在"
func (s *CategoryService) Get(ctx context.Context, p *policy.Principal, id int64) (*dto.CategoryInfo, error) {
	if err := policy.Authorize(p, policy.ResourceCategory, policy.VerbRead); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}

	if policy.VisibleStatusOnly(p) {
		activeID, err := s.statusRepo.IDByName(ctx, model.StatusActive)
		if err != nil {
			return nil, err
		}
		if !category.IsActive || category.StatusID != activeID {
			return nil, ErrNotFound
		}
	}

	return toCategoryInfo(category), nil
}

// List 分类列表，展示顺序升序，并列按名称
func (s *CategoryService) List(ctx context.Context, p *policy.Principal, filter repository.CategoryFilter) ([]dto.CategoryInfo, int64, error) {
	if err := policy.Authorize(p, policy.ResourceCategory, policy.VerbRead); err != nil {
		return nil, 0, err
	}

	// 受限视角：静默收窄到 Active 状态 + 未软删，不报错
	if policy.VisibleStatusOnly(p) {
		activeID, err := s.statusRepo.IDByName(ctx, model.StatusActive)
		if err != nil {
			return nil, 0, err
		}
		filter.OnlyActive = true
		filter.StatusID = activeID
	}

	categories, total, err := s.categoryRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	infos := make([]dto.CategoryInfo, 0, len(categories))
	for i := range categories {
		infos = append(infos, *toCategoryInfo(&categories[i]))
	}
	return infos, total, nil
}

// ==================== DTO 转换 ====================

func toCategoryInfo(c *model.ProductCategory) *dto.CategoryInfo {
	info := &dto.CategoryInfo{
		ID:           c.ID,
		Code:         c.Code,
		Name:         c.Name,
		Description:  c.Description,
		DisplayOrder: c.DisplayOrder,
		IsPopular:    c.IsPopular,
		IconURL:      c.IconURL,
		ImageURL:     c.ImageURL,
		StatusID:     c.StatusID,
		IsActive:     c.IsActive,
		Audit:        dto.NewAuditView(c.CreatedBy, c.UpdatedBy, c.CreatedAt, c.UpdatedAt),
	}
	if c.Status != nil {
		info.StatusName = c.Status.Name
	}
	return info
}
