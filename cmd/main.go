package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"mart_admin_v1_202608/internal/api/controller"
	"mart_admin_v1_202608/internal/middleware"
	"mart_admin_v1_202608/internal/model"
	"mart_admin_v1_202608/internal/repository"
	"mart_admin_v1_202608/internal/router"
	"mart_admin_v1_202608/internal/service"
	"mart_admin_v1_202608/internal/task"
	"mart_admin_v1_202608/pkg/database"
)

// @title 零售目录管理平台 API
// @version 1.0
// @description 多租户零售目录与店铺管理后台
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. 初始化数据库
	db := initDatabase()

	// 2. 种子数据（状态字典 + 默认超管）
	seedDatabase(db)

	// 3. 初始化依赖
	deps := initDependencies(db)

	// 4. 启动定时任务
	statsTask := task.NewStatsSnapshotTask(deps.Services.Stats)
	if err := statsTask.Start(); err != nil {
		log.Fatalf("定时任务启动失败: %v", err)
	}
	defer statsTask.Stop()

	// 5. 初始化路由
	r := gin.Default()
	router.InitRoutes(r,
		deps.Controllers.Auth,
		deps.Controllers.User,
		deps.Controllers.Store,
		deps.Controllers.Category,
		deps.Controllers.Product,
		deps.Controllers.Assignment,
		deps.Controllers.Admin,
	)

	// 6. 启动服务
	startServer(r)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *Controllers
}

// Repositories 仓库集合
type Repositories struct {
	Status     repository.StatusRepository
	Category   repository.CategoryRepository
	Product    repository.ProductRepository
	Store      repository.StoreRepository
	User       repository.UserRepository
	Assignment repository.AssignmentRepository
	Item       repository.ItemRepository
	Stats      repository.StatsRepository
}

// Services 服务集合
type Services struct {
	Category   *service.CategoryService
	Product    *service.ProductService
	Store      *service.StoreService
	User       *service.UserService
	Assignment *service.AssignmentService
	Stats      *service.StatsService
	Storage    service.StorageProvider
}

// Controllers 控制器集合
type Controllers struct {
	Auth       *controller.AuthController
	User       *controller.UserController
	Store      *controller.StoreController
	Category   *controller.CategoryController
	Product    *controller.ProductController
	Assignment *controller.AssignmentController
	Admin      *controller.AdminController
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库并注册审计回调
func initDatabase() *gorm.DB {
	dsn := getEnv("DATABASE_DSN", fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Asia/Shanghai",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_NAME", "mart_admin"),
		getEnv("DB_PORT", "5432"),
	))

	db := database.InitDB(dsn,
		// 字典
		&model.Status{},
		// 目录
		&model.ProductCategory{}, &model.Product{}, &model.Item{},
		// 店铺与用户
		&model.Store{}, &model.SysUser{},
		// 指派
		&model.StoreProductAssignment{},
		// 统计
		&model.CatalogStat{},
	)

	middleware.RegisterAuditCallbacks(db)
	return db
}

// seedDatabase 写入启动必需数据
func seedDatabase(db *gorm.DB) {
	if err := database.SeedStatuses(db); err != nil {
		log.Fatalf("状态字典初始化失败: %v", err)
	}
	if err := database.SeedSuperAdmin(db,
		getEnv("ADMIN_USERNAME", "admin"),
		getEnv("ADMIN_PASSWORD", "admin123456"),
	); err != nil {
		log.Fatalf("默认超管初始化失败: %v", err)
	}
}

// initDependencies 初始化所有依赖
func initDependencies(db *gorm.DB) *Dependencies {
	// -------- JWT 配置 --------
	if secret := getEnv("JWT_SECRET", ""); secret != "" {
		cfg := middleware.DefaultJWTConfig()
		cfg.SecretKey = secret
		middleware.SetJWTConfig(cfg)
	}

	// -------- Repo 层 --------
	repos := &Repositories{
		Status:     repository.NewStatusRepository(db),
		Category:   repository.NewCategoryRepository(db),
		Product:    repository.NewProductRepository(db),
		Store:      repository.NewStoreRepository(db),
		User:       repository.NewUserRepository(db),
		Assignment: repository.NewAssignmentRepository(db),
		Item:       repository.NewItemRepository(db),
		Stats:      repository.NewStatsRepository(db),
	}

	// -------- 存储 --------
	storage := initStorage()

	// -------- 业务服务 --------
	services := &Services{
		Category: service.NewCategoryService(repos.Category, repos.Status),
		Product:  service.NewProductService(repos.Product, repos.Category, repos.Item, repos.Status),
		Store: service.NewStoreService(db,
			repos.Store, repos.User, repos.Assignment, repos.Item, repos.Status),
		User: service.NewUserService(db, repos.User, repos.Store, repos.Status),
		Assignment: service.NewAssignmentService(db,
			repos.Assignment, repos.Product, repos.Category, repos.Store, repos.Status),
		Stats:   service.NewStatsService(repos.Stats),
		Storage: storage,
	}

	// -------- Controller 层 --------
	controllers := &Controllers{
		Auth:       controller.NewAuthController(services.User),
		User:       controller.NewUserController(services.User),
		Store:      controller.NewStoreController(services.Store),
		Category:   controller.NewCategoryController(services.Category, services.Storage),
		Product:    controller.NewProductController(services.Product, services.Storage),
		Assignment: controller.NewAssignmentController(services.Assignment),
		Admin:      controller.NewAdminController(services.Stats),
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
	}
}

// initStorage 初始化存储提供者
func initStorage() service.StorageProvider {
	provider, err := service.NewStorageProvider(&service.StorageConfig{
		Provider:  getEnv("STORAGE_PROVIDER", "local"),
		Bucket:    getEnv("AWS_BUCKET", ""),
		Region:    getEnv("AWS_REGION", ""),
		AccessKey: getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		CDNDomain: getEnv("AWS_CDN_DOMAIN", ""),
		BasePath:  getEnv("STORAGE_BASE_PATH", "mart-admin"),
		BaseURL:   getEnv("STORAGE_BASE_URL", ""),
	})
	if err != nil {
		log.Fatalf("存储服务初始化失败: %v", err)
	}
	return provider
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(r *gin.Engine) {
	port := getEnv("SERVER_PORT", "8080")

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("服务启动在 :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务强制关闭: %v", err)
	}

	log.Println("服务已退出")
}

// ==================== 工具函数 ====================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
