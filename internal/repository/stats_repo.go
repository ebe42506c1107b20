package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"mart_admin_v1_202608/internal/model"
)

// ==================== StatsRepository 统计快照仓库 ====================

// StatsRepository 统计快照仓库接口
type StatsRepository interface {
	Create(ctx context.Context, stat *model.CatalogStat) error
	Latest(ctx context.Context) (*model.CatalogStat, error)

	CountActiveCategories(ctx context.Context) (int64, error)
	CountActiveProducts(ctx context.Context) (int64, error)
	CountActiveStores(ctx context.Context) (int64, error)
	CountActiveAssignments(ctx context.Context) (int64, error)
	// PerStoreAssignedCounts 每店铺当前已指派商品数
	PerStoreAssignedCounts(ctx context.Context) (map[int64]int64, error)
}

type statsRepo struct {
	db *gorm.DB
}

// NewStatsRepository 创建统计快照仓库
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepo{db: db}
}

func (r *statsRepo) Create(ctx context.Context, stat *model.CatalogStat) error {
	return r.db.WithContext(ctx).Create(stat).Error
}

func (r *statsRepo) Latest(ctx context.Context) (*model.CatalogStat, error) {
	var stat model.CatalogStat
	err := r.db.WithContext(ctx).Order("snapshot_at DESC").First(&stat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stat, nil
}

func (r *statsRepo) countActive(ctx context.Context, m interface{}) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(m).Where("is_active = ?", true).Count(&count).Error
	return count, err
}

func (r *statsRepo) CountActiveCategories(ctx context.Context) (int64, error) {
	return r.countActive(ctx, &model.ProductCategory{})
}

func (r *statsRepo) CountActiveProducts(ctx context.Context) (int64, error) {
	return r.countActive(ctx, &model.Product{})
}

func (r *statsRepo) CountActiveStores(ctx context.Context) (int64, error) {
	return r.countActive(ctx, &model.Store{})
}

func (r *statsRepo) CountActiveAssignments(ctx context.Context) (int64, error) {
	return r.countActive(ctx, &model.StoreProductAssignment{})
}

func (r *statsRepo) PerStoreAssignedCounts(ctx context.Context) (map[int64]int64, error) {
	type row struct {
		StoreID int64
		Count   int64
	}
	var rows []row

	err := r.db.WithContext(ctx).
		Model(&model.StoreProductAssignment{}).
		Select("store_id, COUNT(*) as count").
		Where("is_active = ?", true).
		Group("store_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[int64]int64, len(rows))
	for _, r := range rows {
		counts[r.StoreID] = r.Count
	}
	return counts, nil
}
