package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"mart_admin_v1_202608/internal/model"
)

// ==================== 接口定义 ====================

// CategoryRepository 商品分类仓储接口
type CategoryRepository interface {
	Create(ctx context.Context, category *model.ProductCategory) error
	GetByID(ctx context.Context, id int64) (*model.ProductCategory, error)
	Update(ctx context.Context, category *model.ProductCategory) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	List(ctx context.Context, filter CategoryFilter) ([]model.ProductCategory, int64, error)

	// 名称唯一性：只在活跃分类内比较
	ExistsActiveName(ctx context.Context, name string, excludeID int64) (bool, error)
	// 创建时自动排序用：活跃分类的最大展示顺序
	MaxDisplayOrder(ctx context.Context) (int, error)
	// 软删守卫：分类下活跃商品数
	CountActiveProducts(ctx context.Context, categoryID int64) (int64, error)
	// 批量改排序，全部命中活跃分类才生效
	ListActiveByIDs(ctx context.Context, ids []int64) ([]model.ProductCategory, error)

	WithTx(tx *gorm.DB) CategoryRepository
	Transaction(ctx context.Context, fn func(txRepo CategoryRepository) error) error
}

// ==================== 过滤条件 ====================

// CategoryFilter 分类过滤条件
type CategoryFilter struct {
	OnlyActive bool
	StatusID   int64 // 0 表示不筛选（customer/匿名视角传 Active 的 ID）
	Keyword    string
	Page       int
	PageSize   int
}

// ==================== 仓储实现 ====================

type categoryRepo struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) Create(ctx context.Context, category *model.ProductCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepo) GetByID(ctx context.Context, id int64) (*model.ProductCategory, error) {
	var category model.ProductCategory
	err := r.db.WithContext(ctx).First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepo) Update(ctx context.Context, category *model.ProductCategory) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *categoryRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.ProductCategory{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *categoryRepo) List(ctx context.Context, filter CategoryFilter) ([]model.ProductCategory, int64, error) {
	var categories []model.ProductCategory
	var total int64

	query := r.db.WithContext(ctx).Model(&model.ProductCategory{})

	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filter.StatusID > 0 {
		query = query.Where("status_id = ?", filter.StatusID)
	}
	if filter.Keyword != "" {
		query = query.Where("name LIKE ?", "%"+filter.Keyword+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 展示顺序并列时按名称二次排序
	query = query.Order("display_order ASC, name ASC")

	if filter.PageSize > 0 {
		if filter.Page <= 0 {
			filter.Page = 1
		}
		query = query.Limit(filter.PageSize).Offset((filter.Page - 1) * filter.PageSize)
	}

	err := query.Find(&categories).Error
	return categories, total, err
}

func (r *categoryRepo) ExistsActiveName(ctx context.Context, name string, excludeID int64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&model.ProductCategory{}).
		Where("name = ? AND is_active = ?", name, true)
	if excludeID > 0 {
		query = query.Where("id != ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *categoryRepo) MaxDisplayOrder(ctx context.Context) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&model.ProductCategory{}).
		Where("is_active = ?", true).
		Select("COALESCE(MAX(display_order), 0)").
		Scan(&max).Error
	return max, err
}

func (r *categoryRepo) CountActiveProducts(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("category_id = ? AND is_active = ?", categoryID, true).
		Count(&count).Error
	return count, err
}

func (r *categoryRepo) ListActiveByIDs(ctx context.Context, ids []int64) ([]model.ProductCategory, error) {
	var categories []model.ProductCategory
	err := r.db.WithContext(ctx).
		Where("id IN ? AND is_active = ?", ids, true).
		Find(&categories).Error
	return categories, err
}

func (r *categoryRepo) WithTx(tx *gorm.DB) CategoryRepository {
	return &categoryRepo{db: tx}
}

func (r *categoryRepo) Transaction(ctx context.Context, fn func(txRepo CategoryRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}
