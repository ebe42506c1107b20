package task

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"mart_admin_v1_202608/internal/service"
)

// ==================== StatsSnapshotTask 统计快照任务 ====================

// StatsSnapshotTask 目录统计快照定时任务
// 每天凌晨跑一次全量计数（活跃分类/商品/店铺/指派 + 每店铺指派数），
// 后台报表只读最近一次快照，不做实时聚合
type StatsSnapshotTask struct {
	statsService *service.StatsService
	cron         *cron.Cron

	// cron 表达式，默认每天 02:00
	schedule string
	// 单次快照超时
	timeout time.Duration
}

// NewStatsSnapshotTask 创建统计快照任务
func NewStatsSnapshotTask(statsService *service.StatsService) *StatsSnapshotTask {
	return &StatsSnapshotTask{
		statsService: statsService,
		cron:         cron.New(),
		schedule:     "0 2 * * *",
		timeout:      5 * time.Minute,
	}
}

// SetSchedule 覆盖默认调度（测试和运维用）
func (t *StatsSnapshotTask) SetSchedule(spec string) {
	t.schedule = spec
}

// Start 注册并启动定时任务，启动时先补一次快照
func (t *StatsSnapshotTask) Start() error {
	if _, err := t.cron.AddFunc(t.schedule, t.runOnce); err != nil {
		return err
	}
	t.cron.Start()
	log.Printf("[TASK] 统计快照任务已启动 schedule=%q", t.schedule)

	// 启动即采集一次，避免空库期间后台报表 404
	go t.runOnce()
	return nil
}

// Stop 停止任务，等待在跑的快照结束
func (t *StatsSnapshotTask) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
	log.Println("[TASK] 统计快照任务已停止")
}

func (t *StatsSnapshotTask) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	if err := t.statsService.Snapshot(ctx); err != nil {
		log.Printf("[TASK] 统计快照失败: %v", err)
	}
}
