package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mart_admin_v1_202608/internal/model"
)

// ==================== 接口定义 ====================

// AssignmentRepository 店铺商品指派仓储接口
//
// (store_id, product_id) 的唯一性由数据库联合唯一索引兜底，
// 并发创建走 InsertIfAbsent 的条件插入：插入被唯一索引挡下时返回 inserted=false，
// 调用方再按"重新激活 / 已指派"分支处理，不存在查到没有、插入又撞索引的窗口
type AssignmentRepository interface {
	GetByID(ctx context.Context, id int64) (*model.StoreProductAssignment, error)
	GetByPair(ctx context.Context, storeID, productID int64) (*model.StoreProductAssignment, error)

	// InsertIfAbsent 条件插入，已存在同 (store, product) 行（含退役行）时不报错、不写入
	InsertIfAbsent(ctx context.Context, assignment *model.StoreProductAssignment) (inserted bool, err error)
	// Reactivate 把退役行翻回已指派，同时刷新 can_manage/status/审计字段
	// 仅在行当前为退役状态时生效，返回是否真的翻转了
	Reactivate(ctx context.Context, id int64, canManage bool, statusID, updatedBy int64) (bool, error)
	// Retire 软删（已指派 -> 退役）
	Retire(ctx context.Context, id int64, updatedBy int64) error
	// RetireAllForStore 店铺级联：该店铺全部已指派行退役，返回退役行数
	RetireAllForStore(ctx context.Context, storeID, updatedBy int64) (int64, error)

	List(ctx context.Context, filter AssignmentFilter) ([]model.StoreProductAssignment, int64, error)
	ListActiveByStore(ctx context.Context, storeID int64) ([]model.StoreProductAssignment, error)

	WithTx(tx *gorm.DB) AssignmentRepository
	Transaction(ctx context.Context, fn func(txRepo AssignmentRepository) error) error
}

// ==================== 过滤条件 ====================

// AssignmentFilter 指派过滤条件
type AssignmentFilter struct {
	StoreID    int64
	ProductID  int64
	OnlyActive bool
	Page       int
	PageSize   int
}

// ==================== 仓储实现 ====================

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepository 创建指派仓储
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) GetByID(ctx context.Context, id int64) (*model.StoreProductAssignment, error) {
	var assignment model.StoreProductAssignment
	err := r.db.WithContext(ctx).First(&assignment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepo) GetByPair(ctx context.Context, storeID, productID int64) (*model.StoreProductAssignment, error) {
	var assignment model.StoreProductAssignment
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		First(&assignment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepo) InsertIfAbsent(ctx context.Context, assignment *model.StoreProductAssignment) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_id"}, {Name: "product_id"}},
			DoNothing: true,
		}).
		Create(assignment)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *assignmentRepo) Reactivate(ctx context.Context, id int64, canManage bool, statusID, updatedBy int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.StoreProductAssignment{}).
		Where("id = ? AND is_active = ?", id, false).
		Updates(map[string]interface{}{
			"is_active":  true,
			"can_manage": canManage,
			"status_id":  statusID,
			"updated_by": updatedBy,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *assignmentRepo) Retire(ctx context.Context, id int64, updatedBy int64) error {
	return r.db.WithContext(ctx).
		Model(&model.StoreProductAssignment{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_by": updatedBy,
		}).Error
}

func (r *assignmentRepo) RetireAllForStore(ctx context.Context, storeID, updatedBy int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.StoreProductAssignment{}).
		Where("store_id = ? AND is_active = ?", storeID, true).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_by": updatedBy,
		})
	return result.RowsAffected, result.Error
}

func (r *assignmentRepo) List(ctx context.Context, filter AssignmentFilter) ([]model.StoreProductAssignment, int64, error) {
	var assignments []model.StoreProductAssignment
	var total int64

	query := r.db.WithContext(ctx).Model(&model.StoreProductAssignment{})

	if filter.StoreID > 0 {
		query = query.Where("store_id = ?", filter.StoreID)
	}
	if filter.ProductID > 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	offset := (filter.Page - 1) * filter.PageSize
	err := query.
		Preload("Product").
		Order("updated_at DESC").
		Limit(filter.PageSize).
		Offset(offset).
		Find(&assignments).Error

	return assignments, total, err
}

func (r *assignmentRepo) ListActiveByStore(ctx context.Context, storeID int64) ([]model.StoreProductAssignment, error) {
	var assignments []model.StoreProductAssignment
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("store_id = ? AND is_active = ?", storeID, true).
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) WithTx(tx *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: tx}
}

func (r *assignmentRepo) Transaction(ctx context.Context, fn func(txRepo AssignmentRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}
