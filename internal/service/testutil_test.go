package service

import (
	"context"
	"fmt"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mart_admin_v1_202608/internal/middleware"
	"mart_admin_v1_202608/internal/model"
	"mart_admin_v1_202608/internal/policy"
	"mart_admin_v1_202608/internal/repository"
)

// ==================== 测试辅助 ====================

// testEnv 一套完整的内存库 + 全部服务
type testEnv struct {
	db *gorm.DB

	statusRepo     repository.StatusRepository
	categoryRepo   repository.CategoryRepository
	productRepo    repository.ProductRepository
	storeRepo      repository.StoreRepository
	userRepo       repository.UserRepository
	assignmentRepo repository.AssignmentRepository
	itemRepo       repository.ItemRepository
	statsRepo      repository.StatsRepository

	categorySvc   *CategoryService
	productSvc    *ProductService
	storeSvc      *StoreService
	userSvc       *UserService
	assignmentSvc *AssignmentService
	statsSvc      *StatsService

	activeStatusID    int64
	suspendedStatusID int64
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	err = db.AutoMigrate(
		&model.Status{},
		&model.ProductCategory{}, &model.Product{}, &model.Item{},
		&model.Store{}, &model.SysUser{},
		&model.StoreProductAssignment{},
		&model.CatalogStat{},
	)
	if err != nil {
		t.Fatalf("建表失败: %v", err)
	}

	middleware.RegisterAuditCallbacks(db)

	// 状态字典
	statuses := map[string]*int64{}
	for _, name := range []string{model.StatusActive, model.StatusSuspended, model.StatusInactive, model.StatusPending} {
		s := &model.Status{Name: name}
		if err := db.Create(s).Error; err != nil {
			t.Fatalf("写状态字典失败: %v", err)
		}
		statuses[name] = &s.ID
	}

	env := &testEnv{
		db:                db,
		statusRepo:        repository.NewStatusRepository(db),
		categoryRepo:      repository.NewCategoryRepository(db),
		productRepo:       repository.NewProductRepository(db),
		storeRepo:         repository.NewStoreRepository(db),
		userRepo:          repository.NewUserRepository(db),
		assignmentRepo:    repository.NewAssignmentRepository(db),
		itemRepo:          repository.NewItemRepository(db),
		statsRepo:         repository.NewStatsRepository(db),
		activeStatusID:    *statuses[model.StatusActive],
		suspendedStatusID: *statuses[model.StatusSuspended],
	}

	env.categorySvc = NewCategoryService(env.categoryRepo, env.statusRepo)
	env.productSvc = NewProductService(env.productRepo, env.categoryRepo, env.itemRepo, env.statusRepo)
	env.storeSvc = NewStoreService(db, env.storeRepo, env.userRepo, env.assignmentRepo, env.itemRepo, env.statusRepo)
	env.userSvc = NewUserService(db, env.userRepo, env.storeRepo, env.statusRepo)
	env.assignmentSvc = NewAssignmentService(db, env.assignmentRepo, env.productRepo, env.categoryRepo, env.storeRepo, env.statusRepo)
	env.statsSvc = NewStatsService(env.statsRepo)

	return env
}

// ==================== 身份 fixture ====================

func superAdmin() *policy.Principal {
	return &policy.Principal{UserID: 1, Username: "root", Role: model.RoleSuperAdmin}
}

func storeAdmin(userID, storeID int64) *policy.Principal {
	return &policy.Principal{UserID: userID, Username: "shopkeeper", Role: model.RoleStoreAdmin, StoreID: &storeID}
}

func customer(userID int64) *policy.Principal {
	return &policy.Principal{UserID: userID, Username: "buyer", Role: model.RoleCustomer}
}

// ==================== 数据 fixture ====================

func (e *testEnv) mustCreateStore(t *testing.T, name string) *model.Store {
	t.Helper()
	store := &model.Store{Name: name, StatusID: e.activeStatusID, IsActive: true}
	if err := e.db.Create(store).Error; err != nil {
		t.Fatalf("建店铺失败: %v", err)
	}
	return store
}

func (e *testEnv) mustCreateCategory(t *testing.T, name string, order int) *model.ProductCategory {
	t.Helper()
	category := &model.ProductCategory{
		Code:         "CAT-TEST" + name,
		Name:         name,
		DisplayOrder: order,
		StatusID:     e.activeStatusID,
		IsActive:     true,
	}
	if err := e.db.Create(category).Error; err != nil {
		t.Fatalf("建分类失败: %v", err)
	}
	return category
}

func (e *testEnv) mustCreateProduct(t *testing.T, name string, categoryID int64) *model.Product {
	t.Helper()
	product := &model.Product{
		Code:       fmt.Sprintf("PRD-TEST-%d-%s", categoryID, name),
		Name:       name,
		CategoryID: categoryID,
		StatusID:   e.activeStatusID,
		IsActive:   true,
	}
	if err := e.db.Create(product).Error; err != nil {
		t.Fatalf("建商品失败: %v", err)
	}
	return product
}

func (e *testEnv) mustCreateUser(t *testing.T, username, password, role string, storeID *int64) *model.SysUser {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("密码哈希失败: %v", err)
	}
	user := &model.SysUser{
		Username: username,
		Password: string(hashed),
		Role:     role,
		StoreID:  storeID,
		IsActive: true,
	}
	if err := e.db.Create(user).Error; err != nil {
		t.Fatalf("建用户失败: %v", err)
	}
	return user
}

func ctx() context.Context {
	return context.Background()
}
