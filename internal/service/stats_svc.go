package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"mart_admin_v1_202608/internal/api/dto"
	"mart_admin_v1_202608/internal/model"
	"mart_admin_v1_202608/internal/policy"
	"mart_admin_v1_202608/internal/repository"
)

// ==================== StatsService 统计服务 ====================

// StatsService 目录统计快照服务
// 快照由定时任务落库，后台读最近一次，不做实时聚合
type StatsService struct {
	statsRepo repository.StatsRepository
}

// NewStatsService 创建统计服务
func NewStatsService(statsRepo repository.StatsRepository) *StatsService {
	return &StatsService{statsRepo: statsRepo}
}

// Snapshot 采集一次统计快照并落库（定时任务和启动时调用，不走权限）
func (s *StatsService) Snapshot(ctx context.Context) error {
	categories, err := s.statsRepo.CountActiveCategories(ctx)
	if err != nil {
		return err
	}
	products, err := s.statsRepo.CountActiveProducts(ctx)
	if err != nil {
		return err
	}
	stores, err := s.statsRepo.CountActiveStores(ctx)
	if err != nil {
		return err
	}
	assignments, err := s.statsRepo.CountActiveAssignments(ctx)
	if err != nil {
		return err
	}
	perStore, err := s.statsRepo.PerStoreAssignedCounts(ctx)
	if err != nil {
		return err
	}

	perStoreJSON, err := json.Marshal(perStore)
	if err != nil {
		return err
	}

	stat := &model.CatalogStat{
		SnapshotAt:      time.Now(),
		CategoryCount:   categories,
		ProductCount:    products,
		StoreCount:      stores,
		AssignmentCount: assignments,
		PerStore:        perStoreJSON,
	}
	if err := s.statsRepo.Create(ctx, stat); err != nil {
		return err
	}

	log.Printf("[STATS] 快照完成 categories=%d products=%d stores=%d assignments=%d",
		categories, products, stores, assignments)
	return nil
}

// Latest 查询最近一次快照（仅超管）
func (s *StatsService) Latest(ctx context.Context, p *policy.Principal) (*dto.CatalogStatInfo, error) {
	if err := policy.Authorize(p, policy.ResourceStats, policy.VerbRead); err != nil {
		return nil, err
	}

	stat, err := s.statsRepo.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if stat == nil {
		return nil, ErrNotFound
	}

	info := &dto.CatalogStatInfo{
		SnapshotAt:      stat.SnapshotAt.Format(time.RFC3339),
		CategoryCount:   stat.CategoryCount,
		ProductCount:    stat.ProductCount,
		StoreCount:      stat.StoreCount,
		AssignmentCount: stat.AssignmentCount,
	}
	if len(stat.PerStore) > 0 {
		_ = json.Unmarshal(stat.PerStore, &info.PerStore)
	}
	return info, nil
}
