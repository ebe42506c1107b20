package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"mart_admin_v1_202608/internal/model"
	"mart_admin_v1_202608/pkg/utils"
)

// ==================== StatusRepository 状态字典仓库 ====================

// ErrStatusNotConfigured 状态字典缺失
// 字典在启动时 seed，运行期缺失说明部署有问题，按内部错误上抛
var ErrStatusNotConfigured = errors.New("状态字典未配置")

// StatusRepository 状态字典仓库接口
type StatusRepository interface {
	// IDByName 按名称取状态 ID，带内存缓存（字典基本只读）
	IDByName(ctx context.Context, name string) (int64, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]model.Status, error)
}

type statusRepo struct {
	db *gorm.DB
	// 缓存跟着仓库实例走，不同数据库连接（比如各自建库的测试）互不串 ID
	cache *utils.Cache
}

// NewStatusRepository 创建状态字典仓库
func NewStatusRepository(db *gorm.DB) StatusRepository {
	return &statusRepo{db: db, cache: utils.NewCache(time.Hour)}
}

func cacheKey(name string) string {
	return "status:" + name
}

func (r *statusRepo) IDByName(ctx context.Context, name string) (int64, error) {
	if cached, ok := r.cache.Get(cacheKey(name)); ok {
		id, err := strconv.ParseInt(cached, 10, 64)
		if err == nil {
			return id, nil
		}
	}

	var status model.Status
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&status).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("%w: %s", ErrStatusNotConfigured, name)
	}
	if err != nil {
		return 0, err
	}

	r.cache.Set(cacheKey(name), strconv.FormatInt(status.ID, 10))
	return status.ID, nil
}

func (r *statusRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Status{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *statusRepo) List(ctx context.Context) ([]model.Status, error) {
	var statuses []model.Status
	err := r.db.WithContext(ctx).Order("id ASC").Find(&statuses).Error
	return statuses, err
}
