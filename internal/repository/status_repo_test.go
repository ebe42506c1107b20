package repository

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mart_admin_v1_202608/internal/model"
)

func openStatusDB(t *testing.T, names ...string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.Status{}); err != nil {
		t.Fatalf("建表失败: %v", err)
	}
	for _, name := range names {
		if err := db.Create(&model.Status{Name: name}).Error; err != nil {
			t.Fatalf("写状态字典失败: %v", err)
		}
	}
	return db
}

func TestStatusIDByName(t *testing.T) {
	db := openStatusDB(t, model.StatusActive, model.StatusSuspended)
	repo := NewStatusRepository(db)

	id, err := repo.IDByName(context.Background(), model.StatusSuspended)
	if err != nil {
		t.Fatalf("IDByName: %v", err)
	}
	if id != 2 {
		t.Fatalf("IDByName(%s) = %d, 期望 2", model.StatusSuspended, id)
	}

	_, err = repo.IDByName(context.Background(), "no-such-status")
	if !errors.Is(err, ErrStatusNotConfigured) {
		t.Fatalf("未配置的状态期望 ErrStatusNotConfigured, 得到 %v", err)
	}
}

// 缓存跟着仓库实例走：两个各自建库的仓库不能互相读到对方的 ID
func TestStatusCacheScopedPerRepository(t *testing.T) {
	// 两个库里 Active 的主键故意不同
	dbA := openStatusDB(t, model.StatusActive, model.StatusSuspended)
	dbB := openStatusDB(t, model.StatusSuspended, model.StatusActive)

	repoA := NewStatusRepository(dbA)
	repoB := NewStatusRepository(dbB)

	idA, err := repoA.IDByName(context.Background(), model.StatusActive)
	if err != nil {
		t.Fatalf("repoA IDByName: %v", err)
	}
	idB, err := repoB.IDByName(context.Background(), model.StatusActive)
	if err != nil {
		t.Fatalf("repoB IDByName: %v", err)
	}

	if idA != 1 || idB != 2 {
		t.Fatalf("Active 主键 = (%d, %d), 期望 (1, 2)", idA, idB)
	}
}
