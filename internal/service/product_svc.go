package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"mart_admin_v1_202608/internal/api/dto"
	"mart_admin_v1_202608/internal/model"
	"mart_admin_v1_202608/internal/policy"
	"mart_admin_v1_202608/internal/repository"
	"mart_admin_v1_202608/pkg/utils"
)

// ==================== ProductService 商品服务 ====================

// ProductService 中央目录商品服务
// 商品归平台所有，店铺可见性由指派关系控制，这里不感知店铺
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	itemRepo     repository.ItemRepository
	statusRepo   repository.StatusRepository
}

// NewProductService 创建商品服务
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	itemRepo repository.ItemRepository,
	statusRepo repository.StatusRepository,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		itemRepo:     itemRepo,
		statusRepo:   statusRepo,
	}
}

// requireActiveCategory 商品必须挂在活跃分类下（创建和换分类共用）
func (s *ProductService) requireActiveCategory(ctx context.Context, categoryID int64) error {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if category == nil || !category.IsActive {
		return ErrCategoryInactive
	}
	return nil
}

// ==================== 写操作 ====================

// Create 创建商品
func (s *ProductService) Create(ctx context.Context, p *policy.Principal, req *dto.CreateProductRequest) (*dto.ProductInfo, error) {
	if err := policy.Authorize(p, policy.ResourceProduct, policy.VerbWrite); err != nil {
		return nil, err
	}

	if err := s.requireActiveCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	exists, err := s.productRepo.ExistsActiveNameInCategory(ctx, req.Name, req.CategoryID, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrProductNameExists
	}

	statusID, err := s.statusRepo.IDByName(ctx, model.StatusActive)
	if err != nil {
		return nil, err
	}

	product := &model.Product{
		Code:        utils.GenCode("PRD"),
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		StatusID:    statusID,
		IsActive:    true,
		ImageURL:    req.ImageURL,
	}
	if len(req.Gallery) > 0 {
		gallery, err := json.Marshal(req.Gallery)
		if err != nil {
			return nil, fmt.Errorf("%w: 图集格式错误", ErrValidation)
		}
		product.Gallery = gallery
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return toProductInfo(product), nil
}

// Update 更新商品基础字段（部分更新）
// 换分类时要求目标分类活跃，并在目标分类内重新校验重名
func (s *ProductService) Update(ctx context.Context, p *policy.Principal, id int64, req *dto.UpdateProductRequest) (*dto.ProductInfo, error) {
	if err := policy.Authorize(p, policy.ResourceProduct, policy.VerbWrite); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrNotFound
	}

	targetCategoryID := product.CategoryID
	if req.CategoryID != nil && *req.CategoryID != product.CategoryID {
		if err := s.requireActiveCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		targetCategoryID = *req.CategoryID
	}

	targetName := product.Name
	if req.Name != nil {
		targetName = *req.Name
	}

	// 名称或分类任一变化都要在目标分类内查重
	if targetName != product.Name || targetCategoryID != product.CategoryID {
		exists, err := s.productRepo.ExistsActiveNameInCategory(ctx, targetName, targetCategoryID, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrProductNameExists
		}
	}

	fields := map[string]interface{}{"updated_by": p.UserID}

	if req.Name != nil {
		fields["name"] = *req.Name
		product.Name = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
		product.Description = *req.Description
	}
	if req.CategoryID != nil {
		fields["category_id"] = *req.CategoryID
		product.CategoryID = *req.CategoryID
		product.Category = nil
	}
	if req.ImageURL != nil {
		fields["image_url"] = *req.ImageURL
		product.ImageURL = *req.ImageURL
	}
	if req.Gallery != nil {
		gallery, err := json.Marshal(req.Gallery)
		if err != nil {
			return nil, fmt.Errorf("%w: 图集格式错误", ErrValidation)
		}
		fields["gallery"] = gallery
		product.Gallery = gallery
	}

	if err := s.productRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}

	return toProductInfo(product), nil
}

// ChangeStatus 修改行政状态
func (s *ProductService) ChangeStatus(ctx context.Context, p *policy.Principal, id int64, statusID int64) error {
	if err := policy.Authorize(p, policy.ResourceProduct, policy.VerbWrite); err != nil {
		return err
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil || !product.IsActive {
		return ErrNotFound
	}

	ok, err := s.statusRepo.Exists(ctx, statusID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidStatus
	}

	return s.productRepo.UpdateFields(ctx, id, map[string]interface{}{
		"status_id":  statusID,
		"updated_by": p.UserID,
	})
}

// Delete 软删商品
// 商品下仍有活跃库存单元时拒绝；重复删除视为成功（幂等）
// 已有的指派行不动：退役商品的指派历史继续保留
func (s *ProductService) Delete(ctx context.Context, p *policy.Principal, id int64) error {
	if err := policy.Authorize(p, policy.ResourceProduct, policy.VerbWrite); err != nil {
		return err
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrNotFound
	}
	if !product.IsActive {
		return nil
	}

	count, err := s.itemRepo.CountActiveByProduct(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w (活跃库存单元数 %d)", ErrHasActiveItems, count)
	}

	return s.productRepo.UpdateFields(ctx, id, map[string]interface{}{
		"is_active":  false,
		"updated_by": p.UserID,
	})
}

// ==================== 读操作 ====================

// Get 按 ID 查商品详情，顺带累加浏览计数
// 匿名与 customer 只能看到 Active 状态且未软删的商品
func (s *ProductService) Get(ctx context.Context, p *policy.Principal, id int64) (*dto.ProductInfo, error) {
	if err := policy.Authorize(p, policy.ResourceProduct, policy.VerbRead); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}

	if policy.VisibleStatusOnly(p) {
		activeID, err := s.statusRepo.IDByName(ctx, model.StatusActive)
		if err != nil {
			return nil, err
		}
		if !product.IsActive || product.StatusID != activeID {
			return nil, ErrNotFound
		}
	}

	// 浏览计数失败不影响详情返回
	if err := s.productRepo.IncrementViewCount(ctx, id); err != nil {
		log.Printf("[WARN] 商品浏览计数更新失败 id=%d: %v", id, err)
	} else {
		product.ViewCount++
	}

	return toProductInfo(product), nil
}

// List 商品列表
func (s *ProductService) List(ctx context.Context, p *policy.Principal, filter repository.ProductFilter) ([]dto.ProductInfo, int64, error) {
	if err := policy.Authorize(p, policy.ResourceProduct, policy.VerbRead); err != nil {
		return nil, 0, err
	}

	if policy.VisibleStatusOnly(p) {
		activeID, err := s.statusRepo.IDByName(ctx, model.StatusActive)
		if err != nil {
			return nil, 0, err
		}
		filter.OnlyActive = true
		filter.StatusID = activeID
	}

	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	infos := make([]dto.ProductInfo, 0, len(products))
	for i := range products {
		infos = append(infos, *toProductInfo(&products[i]))
	}
	return infos, total, nil
}

// ==================== DTO 转换 ====================

func toProductInfo(p *model.Product) *dto.ProductInfo {
	info := &dto.ProductInfo{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		StatusID:    p.StatusID,
		IsActive:    p.IsActive,
		ViewCount:   p.ViewCount,
		ImageURL:    p.ImageURL,
		Audit:       dto.NewAuditView(p.CreatedBy, p.UpdatedBy, p.CreatedAt, p.UpdatedAt),
	}
	if p.Category != nil {
		info.CategoryName = p.Category.Name
	}
	if p.Status != nil {
		info.StatusName = p.Status.Name
	}
	if len(p.Gallery) > 0 {
		// 图集存 JSON，坏数据只丢展示不报错
		_ = json.Unmarshal(p.Gallery, &info.Gallery)
	}
	return info
}
