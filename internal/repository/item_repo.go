package repository

import (
	"context"

	"gorm.io/gorm"

	"mart_admin_v1_202608/internal/model"
)

// ==================== ItemRepository 库存单元仓库 ====================

// 库存数量跟踪不在系统范围内，这个仓库只服务两件事：
// 商品软删守卫的计数，和店铺软删时的级联退役

// ItemRepository 库存单元仓库接口
type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	CountActiveByProduct(ctx context.Context, productID int64) (int64, error)
	// RetireByStore 店铺级联：该店铺下库存单元整体软删，返回影响行数
	RetireByStore(ctx context.Context, storeID, updatedBy int64) (int64, error)

	WithTx(tx *gorm.DB) ItemRepository
}

type itemRepo struct {
	db *gorm.DB
}

// NewItemRepository 创建库存单元仓库
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepo{db: db}
}

func (r *itemRepo) Create(ctx context.Context, item *model.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemRepo) CountActiveByProduct(ctx context.Context, productID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("product_id = ? AND is_active = ?", productID, true).
		Count(&count).Error
	return count, err
}

func (r *itemRepo) RetireByStore(ctx context.Context, storeID, updatedBy int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("store_id = ? AND is_active = ?", storeID, true).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_by": updatedBy,
		})
	return result.RowsAffected, result.Error
}

func (r *itemRepo) WithTx(tx *gorm.DB) ItemRepository {
	return &itemRepo{db: tx}
}
