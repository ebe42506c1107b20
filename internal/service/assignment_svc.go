package service

import (
	"context"
	"errors"
	"log"
	"sort"

	"gorm.io/gorm"

	"mart_admin_v1_202608/internal/api/dto"
	"mart_admin_v1_202608/internal/model"
	"mart_admin_v1_202608/internal/policy"
	"mart_admin_v1_202608/internal/repository"
)

// ==================== AssignmentService 指派服务 ====================

// 指派结果三态
const (
	AssignCreated     = "created"
	AssignReactivated = "reactivated"
	AssignSkipped     = "already_assigned"
)

// AssignmentService 店铺-商品指派服务
//
// 指派是幂等的合并语义而不是插入语义：
//   无行      -> 插入新行（created）
//   有退役行  -> 原行翻回已指派（reactivated），保留行 ID 与创建审计
//   有活跃行  -> 不动（already_assigned）
//
// 批量走快速失败：先整体校验商品清单，有一个无效就整批拒绝，
// 校验通过后所有合并落在同一个事务里
type AssignmentService struct {
	db             *gorm.DB
	assignmentRepo repository.AssignmentRepository
	productRepo    repository.ProductRepository
	categoryRepo   repository.CategoryRepository
	storeRepo      repository.StoreRepository
	statusRepo     repository.StatusRepository
}

// NewAssignmentService 创建指派服务
func NewAssignmentService(
	db *gorm.DB,
	assignmentRepo repository.AssignmentRepository,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	storeRepo repository.StoreRepository,
	statusRepo repository.StatusRepository,
) *AssignmentService {
	return &AssignmentService{
		db:             db,
		assignmentRepo: assignmentRepo,
		productRepo:    productRepo,
		categoryRepo:   categoryRepo,
		storeRepo:      storeRepo,
		statusRepo:     statusRepo,
	}
}

// checkStoreTarget 指派写操作的目标店铺校验：
// 角色门槛 -> 店铺归属 -> 店铺存在且活跃
// 越权一律降级为"不存在"，避免向店铺管理员泄露其他店铺
func (s *AssignmentService) checkStoreTarget(ctx context.Context, p *policy.Principal, storeID int64) error {
	if err := policy.Authorize(p, policy.ResourceAssignment, policy.VerbWrite); err != nil {
		return err
	}
	if err := policy.CheckStoreScope(p, policy.ResourceAssignment, storeID, storeID); err != nil {
		return ErrNotFound
	}

	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return err
	}
	if store == nil || !store.IsActive {
		return ErrStoreInactive
	}
	return nil
}

// mergeOne 单对 (store, product) 的合并，必须在事务内调用
// 返回三态之一
func (s *AssignmentService) mergeOne(ctx context.Context, txRepo repository.AssignmentRepository,
	storeID, productID int64, canManage bool, statusID, operatorID int64) (string, error) {

	inserted, err := txRepo.InsertIfAbsent(ctx, &model.StoreProductAssignment{
		StoreID:   storeID,
		ProductID: productID,
		CanManage: canManage,
		StatusID:  statusID,
		IsActive:  true,
	})
	if err != nil {
		return "", err
	}
	if inserted {
		return AssignCreated, nil
	}

	// 插入被唯一索引挡下：行已存在，可能是活跃行也可能是退役行
	existing, err := txRepo.GetByPair(ctx, storeID, productID)
	if err != nil {
		return "", err
	}
	if existing == nil {
		// 插入没成功、行又查不到，只可能是并发删行（本系统不物理删）
		return "", errors.New("指派合并状态异常")
	}

	flipped, err := txRepo.Reactivate(ctx, existing.ID, canManage, statusID, operatorID)
	if err != nil {
		return "", err
	}
	if flipped {
		return AssignReactivated, nil
	}
	// 条件更新没命中说明行本来就是活跃的
	return AssignSkipped, nil
}

// ==================== 单个指派 ====================

// Assign 把单个商品指派给店铺
func (s *AssignmentService) Assign(ctx context.Context, p *policy.Principal, req *dto.AssignRequest) (*dto.AssignResponse, error) {
	if err := s.checkStoreTarget(ctx, p, req.StoreID); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductInactive
	}

	statusID, err := s.statusRepo.IDByName(ctx, model.StatusActive)
	if err != nil {
		return nil, err
	}

	var outcome string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := s.assignmentRepo.WithTx(tx)
		outcome, err = s.mergeOne(ctx, txRepo, req.StoreID, req.ProductID, req.CanManage, statusID, p.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}

	assignment, err := s.assignmentRepo.GetByPair(ctx, req.StoreID, req.ProductID)
	if err != nil {
		return nil, err
	}

	log.Printf("[ASSIGN] store=%d product=%d outcome=%s operator=%d",
		req.StoreID, req.ProductID, outcome, p.UserID)

	return &dto.AssignResponse{
		Status:     outcome,
		Assignment: toAssignmentInfo(assignment),
	}, nil
}

// ==================== 批量指派 ====================

// BulkAssign 批量指派商品清单
// 快速失败：清单里有任何无效商品则整批拒绝；通过后单事务合并
func (s *AssignmentService) BulkAssign(ctx context.Context, p *policy.Principal, req *dto.BulkAssignRequest) (*dto.BulkAssignResult, error) {
	if err := s.checkStoreTarget(ctx, p, req.StoreID); err != nil {
		return nil, err
	}

	ids := dedupeIDs(req.ProductIDs)
	if len(ids) == 0 {
		return nil, ErrEmptyBatch
	}

	products, err := s.productRepo.ListActiveByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(products) != len(ids) {
		return nil, InvalidProductIDs(missingIDs(ids, products))
	}

	return s.bulkMerge(ctx, p, req.StoreID, ids, req.CanManage)
}

// AssignByCategory 把指定分类下的商品清单指派给店铺
// 快速失败：清单里的商品必须全部存在、活跃、且属于该分类，任何一个不满足整批拒绝
func (s *AssignmentService) AssignByCategory(ctx context.Context, p *policy.Principal, req *dto.AssignByCategoryRequest) (*dto.BulkAssignResult, error) {
	if err := s.checkStoreTarget(ctx, p, req.StoreID); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.GetByID(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil || !category.IsActive {
		return nil, ErrCategoryInactive
	}

	ids := dedupeIDs(req.ProductIDs)
	if len(ids) == 0 {
		return nil, ErrEmptyBatch
	}

	products, err := s.productRepo.ListActiveByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	// 挂在其他分类下的商品和无效商品一样整批拒绝
	inCategory := make([]model.Product, 0, len(products))
	for _, prod := range products {
		if prod.CategoryID == req.CategoryID {
			inCategory = append(inCategory, prod)
		}
	}
	if len(inCategory) != len(ids) {
		return nil, InvalidProductIDs(missingIDs(ids, inCategory))
	}

	return s.bulkMerge(ctx, p, req.StoreID, ids, req.CanManage)
}

// bulkMerge 校验完成后的批量合并，单事务，任何一条失败整批回滚
func (s *AssignmentService) bulkMerge(ctx context.Context, p *policy.Principal, storeID int64, productIDs []int64, canManage bool) (*dto.BulkAssignResult, error) {
	statusID, err := s.statusRepo.IDByName(ctx, model.StatusActive)
	if err != nil {
		return nil, err
	}

	result := &dto.BulkAssignResult{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := s.assignmentRepo.WithTx(tx)
		for _, productID := range productIDs {
			outcome, err := s.mergeOne(ctx, txRepo, storeID, productID, canManage, statusID, p.UserID)
			if err != nil {
				return err
			}
			switch outcome {
			case AssignCreated:
				result.CreatedCount++
			case AssignReactivated:
				result.ReactivatedCount++
			default:
				result.SkippedCount++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[ASSIGN] store=%d batch=%d created=%d reactivated=%d skipped=%d operator=%d",
		storeID, len(productIDs), result.CreatedCount, result.ReactivatedCount, result.SkippedCount, p.UserID)

	return result, nil
}

// ==================== 解除指派 ====================

// Unassign 解除指派（已指派 -> 退役）
// 店铺管理员只能解除自己店铺、且 can_manage 为 true 的指派；
// 对退役行重复解除视为成功（幂等）
func (s *AssignmentService) Unassign(ctx context.Context, p *policy.Principal, id int64) error {
	if err := policy.Authorize(p, policy.ResourceAssignment, policy.VerbWrite); err != nil {
		return err
	}

	assignment, err := s.assignmentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if assignment == nil {
		return ErrNotFound
	}

	if err := policy.CheckStoreScope(p, policy.ResourceAssignment, assignment.StoreID, id); err != nil {
		return ErrNotFound
	}
	if p.IsStoreAdmin() && !assignment.CanManage {
		return ErrAssignmentLocked
	}

	if !assignment.IsActive {
		return nil
	}

	if err := s.assignmentRepo.Retire(ctx, id, p.UserID); err != nil {
		return err
	}

	log.Printf("[ASSIGN] retire id=%d store=%d product=%d operator=%d",
		id, assignment.StoreID, assignment.ProductID, p.UserID)
	return nil
}

// UnassignAllForStore 店铺全量解除（仅超管，店铺软删级联也走这里的仓库方法）
func (s *AssignmentService) UnassignAllForStore(ctx context.Context, p *policy.Principal, storeID int64) (int64, error) {
	if !p.IsSuperAdmin() {
		return 0, policy.ErrForbidden
	}

	count, err := s.assignmentRepo.RetireAllForStore(ctx, storeID, p.UserID)
	if err != nil {
		return 0, err
	}

	log.Printf("[ASSIGN] retire-all store=%d count=%d operator=%d", storeID, count, p.UserID)
	return count, nil
}

// ==================== 读操作 ====================

// List 指派列表
// 店铺管理员静默收窄到自己店铺，无论请求里传了什么 store_id
func (s *AssignmentService) List(ctx context.Context, p *policy.Principal, filter repository.AssignmentFilter) ([]dto.AssignmentInfo, int64, error) {
	if err := policy.Authorize(p, policy.ResourceAssignment, policy.VerbRead); err != nil {
		return nil, 0, err
	}

	if storeID, restricted := policy.ListScope(p); restricted {
		filter.StoreID = storeID
	}

	assignments, total, err := s.assignmentRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	infos := make([]dto.AssignmentInfo, 0, len(assignments))
	for i := range assignments {
		infos = append(infos, *toAssignmentInfo(&assignments[i]))
	}
	return infos, total, nil
}

// Get 按 ID 查单个指派，跨店铺一律"不存在"
func (s *AssignmentService) Get(ctx context.Context, p *policy.Principal, id int64) (*dto.AssignmentInfo, error) {
	if err := policy.Authorize(p, policy.ResourceAssignment, policy.VerbRead); err != nil {
		return nil, err
	}

	assignment, err := s.assignmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, ErrNotFound
	}
	if err := policy.CheckStoreScope(p, policy.ResourceAssignment, assignment.StoreID, id); err != nil {
		return nil, ErrNotFound
	}

	return toAssignmentInfo(assignment), nil
}

// ==================== 辅助 ====================

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id > 0 && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func missingIDs(requested []int64, found []model.Product) []int64 {
	foundSet := make(map[int64]bool, len(found))
	for _, p := range found {
		foundSet[p.ID] = true
	}
	var missing []int64
	for _, id := range requested {
		if !foundSet[id] {
			missing = append(missing, id)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}

func toAssignmentInfo(a *model.StoreProductAssignment) *dto.AssignmentInfo {
	if a == nil {
		return nil
	}
	info := &dto.AssignmentInfo{
		ID:        a.ID,
		StoreID:   a.StoreID,
		ProductID: a.ProductID,
		CanManage: a.CanManage,
		StatusID:  a.StatusID,
		IsActive:  a.IsActive,
		Audit:     dto.NewAuditView(a.CreatedBy, a.UpdatedBy, a.CreatedAt, a.UpdatedAt),
	}
	if a.Product != nil {
		info.ProductName = a.Product.Name
	}
	return info
}
