package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mart_admin_v1_202608/internal/api/controller"
	"mart_admin_v1_202608/internal/middleware"
	"mart_admin_v1_202608/internal/model"
	"mart_admin_v1_202608/internal/repository"
	"mart_admin_v1_202608/internal/router"
	"mart_admin_v1_202608/internal/service"
	"mart_admin_v1_202608/pkg/database"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ==================== 集成测试套件 ====================

// 起一个完整的 HTTP 服务：内存库 + 真实路由 + 真实中间件，
// 用 resty 走 HTTP 断言端到端行为
type IntegrationSuite struct {
	DB     *gorm.DB
	Server *httptest.Server
	Client *resty.Client
	T      *testing.T
}

// apiEnvelope 统一响应包装
type apiEnvelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func NewIntegrationSuite(t *testing.T) *IntegrationSuite {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接数据库失败: %v", err)
	}

	err = db.AutoMigrate(
		&model.Status{},
		&model.ProductCategory{}, &model.Product{}, &model.Item{},
		&model.Store{}, &model.SysUser{},
		&model.StoreProductAssignment{},
		&model.CatalogStat{},
	)
	if err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}

	middleware.RegisterAuditCallbacks(db)

	if err := database.SeedStatuses(db); err != nil {
		t.Fatalf("状态字典初始化失败: %v", err)
	}
	if err := database.SeedSuperAdmin(db, "admin", "admin123456"); err != nil {
		t.Fatalf("超管初始化失败: %v", err)
	}

	statusRepo := repository.NewStatusRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	userRepo := repository.NewUserRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	itemRepo := repository.NewItemRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	storage, err := service.NewStorageProvider(&service.StorageConfig{
		Provider: "local",
		BasePath: t.TempDir(),
		BaseURL:  "http://cdn.test",
	})
	if err != nil {
		t.Fatalf("存储初始化失败: %v", err)
	}

	categorySvc := service.NewCategoryService(categoryRepo, statusRepo)
	productSvc := service.NewProductService(productRepo, categoryRepo, itemRepo, statusRepo)
	storeSvc := service.NewStoreService(db, storeRepo, userRepo, assignmentRepo, itemRepo, statusRepo)
	userSvc := service.NewUserService(db, userRepo, storeRepo, statusRepo)
	assignmentSvc := service.NewAssignmentService(db, assignmentRepo, productRepo, categoryRepo, storeRepo, statusRepo)
	statsSvc := service.NewStatsService(statsRepo)

	r := gin.New()
	r.Use(gin.Recovery())
	router.InitRoutes(r,
		controller.NewAuthController(userSvc),
		controller.NewUserController(userSvc),
		controller.NewStoreController(storeSvc),
		controller.NewCategoryController(categorySvc, storage),
		controller.NewProductController(productSvc, storage),
		controller.NewAssignmentController(assignmentSvc),
		controller.NewAdminController(statsSvc),
	)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return &IntegrationSuite{
		DB:     db,
		Server: server,
		Client: resty.New().SetBaseURL(server.URL),
		T:      t,
	}
}

// login 登录并返回 Access Token
func (s *IntegrationSuite) login(username, password string) string {
	s.T.Helper()
	var env apiEnvelope
	resp, err := s.Client.R().
		SetBody(map[string]string{"username": username, "password": password}).
		SetResult(&env).
		Post("/api/auth/login")
	if err != nil {
		s.T.Fatalf("登录请求失败: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		s.T.Fatalf("登录失败: %d %s", resp.StatusCode(), resp.String())
	}

	var data struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		s.T.Fatalf("解析登录响应失败: %v", err)
	}
	return data.AccessToken
}

// post JSON POST，解析统一响应包装
func (s *IntegrationSuite) post(token, path string, body interface{}) (*resty.Response, *apiEnvelope) {
	s.T.Helper()
	var env apiEnvelope
	req := s.Client.R().SetBody(body).SetResult(&env).SetError(&env)
	if token != "" {
		req.SetAuthToken(token)
	}
	resp, err := req.Post(path)
	if err != nil {
		s.T.Fatalf("POST %s 失败: %v", path, err)
	}
	return resp, &env
}

func (s *IntegrationSuite) get(token, path string) (*resty.Response, *apiEnvelope) {
	s.T.Helper()
	var env apiEnvelope
	req := s.Client.R().SetResult(&env).SetError(&env)
	if token != "" {
		req.SetAuthToken(token)
	}
	resp, err := req.Get(path)
	if err != nil {
		s.T.Fatalf("GET %s 失败: %v", path, err)
	}
	return resp, &env
}

func (s *IntegrationSuite) delete(token, path string) *resty.Response {
	s.T.Helper()
	resp, err := s.Client.R().SetAuthToken(token).Delete(path)
	if err != nil {
		s.T.Fatalf("DELETE %s 失败: %v", path, err)
	}
	return resp
}

func mustUnmarshal(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("解析响应失败: %v (%s)", err, string(raw))
	}
}

// ==================== 完整业务流 ====================

func TestIntegration_CatalogAssignmentFlow(t *testing.T) {
	suite := NewIntegrationSuite(t)
	admin := suite.login("admin", "admin123456")

	// 1. 建分类
	resp, env := suite.post(admin, "/api/categories", map[string]interface{}{"name": "饮料"})
	if resp.StatusCode() != http.StatusOK {
		t.Fatalf("建分类失败: %d %s", resp.StatusCode(), resp.String())
	}
	var category struct {
		ID int64 `json:"id"`
	}
	mustUnmarshal(t, env.Data, &category)

	// 2. 建商品
	resp, env = suite.post(admin, "/api/products", map[string]interface{}{
		"name": "苏打水", "category_id": category.ID,
	})
	if resp.StatusCode() != http.StatusOK {
		t.Fatalf("建商品失败: %d %s", resp.StatusCode(), resp.String())
	}
	var product struct {
		ID int64 `json:"id"`
	}
	mustUnmarshal(t, env.Data, &product)

	// 3. 建店铺
	resp, env = suite.post(admin, "/api/stores", map[string]interface{}{"name": "旗舰店"})
	if resp.StatusCode() != http.StatusOK {
		t.Fatalf("建店铺失败: %d %s", resp.StatusCode(), resp.String())
	}
	var store struct {
		ID int64 `json:"id"`
	}
	mustUnmarshal(t, env.Data, &store)

	// 4. 指派：第一次 created
	resp, env = suite.post(admin, "/api/assignments", map[string]interface{}{
		"store_id": store.ID, "product_id": product.ID, "can_manage": true,
	})
	if resp.StatusCode() != http.StatusOK {
		t.Fatalf("指派失败: %d %s", resp.StatusCode(), resp.String())
	}
	var assign struct {
		Status     string `json:"status"`
		Assignment struct {
			ID int64 `json:"id"`
		} `json:"assignment"`
	}
	mustUnmarshal(t, env.Data, &assign)
	if assign.Status != "created" {
		t.Errorf("首次指派应为 created, 实际 %s", assign.Status)
	}

	// 5. 重复指派：already_assigned
	_, env = suite.post(admin, "/api/assignments", map[string]interface{}{
		"store_id": store.ID, "product_id": product.ID,
	})
	mustUnmarshal(t, env.Data, &assign)
	if assign.Status != "already_assigned" {
		t.Errorf("重复指派应为 already_assigned, 实际 %s", assign.Status)
	}

	// 6. 解除
	if resp := suite.delete(admin, fmt.Sprintf("/api/assignments/%d", assign.Assignment.ID)); resp.StatusCode() != http.StatusOK {
		t.Fatalf("解除指派失败: %d %s", resp.StatusCode(), resp.String())
	}

	// 7. 再指派：同一行翻回 reactivated
	_, env = suite.post(admin, "/api/assignments", map[string]interface{}{
		"store_id": store.ID, "product_id": product.ID,
	})
	var reassign struct {
		Status     string `json:"status"`
		Assignment struct {
			ID int64 `json:"id"`
		} `json:"assignment"`
	}
	mustUnmarshal(t, env.Data, &reassign)
	if reassign.Status != "reactivated" {
		t.Errorf("重新指派应为 reactivated, 实际 %s", reassign.Status)
	}
	if reassign.Assignment.ID != assign.Assignment.ID {
		t.Errorf("重新指派应复用原行: want %d, got %d", assign.Assignment.ID, reassign.Assignment.ID)
	}

	// 全程 (store, product) 只有一行
	var count int64
	suite.DB.Model(&model.StoreProductAssignment{}).
		Where("store_id = ? AND product_id = ?", store.ID, product.ID).
		Count(&count)
	if count != 1 {
		t.Errorf("指派行数应为 1, 实际 %d", count)
	}
}

// ==================== 租户隔离 ====================

func TestIntegration_StoreAdminScope(t *testing.T) {
	suite := NewIntegrationSuite(t)
	admin := suite.login("admin", "admin123456")

	// 超管开两家店，各带一个管理员
	resp, env := suite.post(admin, "/api/users/store-admins", map[string]interface{}{
		"username": "keeper_a", "password": "pass123456", "store_name": "A 店",
	})
	if resp.StatusCode() != http.StatusOK {
		t.Fatalf("注册店铺管理员失败: %d %s", resp.StatusCode(), resp.String())
	}
	var storeA struct {
		StoreID int64 `json:"store_id"`
	}
	mustUnmarshal(t, env.Data, &storeA)

	_, env = suite.post(admin, "/api/users/store-admins", map[string]interface{}{
		"username": "keeper_b", "password": "pass123456", "store_name": "B 店",
	})
	var storeB struct {
		StoreID int64 `json:"store_id"`
	}
	mustUnmarshal(t, env.Data, &storeB)

	keeperA := suite.login("keeper_a", "pass123456")

	// A 店管理员看店铺列表：只有自己那家
	_, env = suite.get(keeperA, "/api/stores")
	var stores []struct {
		ID int64 `json:"id"`
	}
	mustUnmarshal(t, env.Data, &stores)
	if len(stores) != 1 || stores[0].ID != storeA.StoreID {
		t.Errorf("A 店管理员应只看到自己的店铺: %+v", stores)
	}

	// 直接按 ID 摸 B 店：404，与不存在无法区分
	resp, _ = suite.get(keeperA, fmt.Sprintf("/api/stores/%d", storeB.StoreID))
	if resp.StatusCode() != http.StatusNotFound {
		t.Errorf("跨店铺访问应 404, 实际 %d", resp.StatusCode())
	}

	// 店铺管理员建店：403
	resp, _ = suite.post(keeperA, "/api/stores", map[string]interface{}{"name": "私开分店"})
	if resp.StatusCode() != http.StatusForbidden {
		t.Errorf("店铺管理员建店应 403, 实际 %d", resp.StatusCode())
	}
}

// ==================== 公开目录 ====================

func TestIntegration_PublicCatalogVisibility(t *testing.T) {
	suite := NewIntegrationSuite(t)
	admin := suite.login("admin", "admin123456")

	_, env := suite.post(admin, "/api/categories", map[string]interface{}{"name": "饮料"})
	var visible struct {
		ID int64 `json:"id"`
	}
	mustUnmarshal(t, env.Data, &visible)

	_, env = suite.post(admin, "/api/categories", map[string]interface{}{"name": "零食"})
	var suspended struct {
		ID int64 `json:"id"`
	}
	mustUnmarshal(t, env.Data, &suspended)

	// 把第二个分类挂起
	var suspendedStatusID int64
	suite.DB.Model(&model.Status{}).Where("name = ?", model.StatusSuspended).
		Pluck("id", &suspendedStatusID)
	resp, err := suite.Client.R().SetAuthToken(admin).
		SetBody(map[string]interface{}{"status_id": suspendedStatusID}).
		Put(fmt.Sprintf("/api/categories/%d/status", suspended.ID))
	if err != nil || resp.StatusCode() != http.StatusOK {
		t.Fatalf("修改状态失败: %v %s", err, resp.String())
	}

	// 匿名列表：只看到 Active 的
	_, env = suite.get("", "/api/categories")
	var list []struct {
		ID int64 `json:"id"`
	}
	mustUnmarshal(t, env.Data, &list)
	if len(list) != 1 || list[0].ID != visible.ID {
		t.Errorf("匿名应只看到活跃分类: %+v", list)
	}

	// 匿名单查挂起分类：404
	resp, _ = suite.get("", fmt.Sprintf("/api/categories/%d", suspended.ID))
	if resp.StatusCode() != http.StatusNotFound {
		t.Errorf("匿名查挂起分类应 404, 实际 %d", resp.StatusCode())
	}

	// 匿名写：401
	resp, _ = suite.post("", "/api/categories", map[string]interface{}{"name": "杂货"})
	if resp.StatusCode() != http.StatusUnauthorized {
		t.Errorf("匿名写应 401, 实际 %d", resp.StatusCode())
	}
}

// ==================== 批量指派 ====================

func TestIntegration_BulkAssign(t *testing.T) {
	suite := NewIntegrationSuite(t)
	admin := suite.login("admin", "admin123456")

	_, env := suite.post(admin, "/api/categories", map[string]interface{}{"name": "饮料"})
	var category struct {
		ID int64 `json:"id"`
	}
	mustUnmarshal(t, env.Data, &category)

	var productIDs []int64
	for _, name := range []string{"苏打水", "气泡水", "矿泉水"} {
		_, env = suite.post(admin, "/api/products", map[string]interface{}{
			"name": name, "category_id": category.ID,
		})
		var p struct {
			ID int64 `json:"id"`
		}
		mustUnmarshal(t, env.Data, &p)
		productIDs = append(productIDs, p.ID)
	}

	_, env = suite.post(admin, "/api/stores", map[string]interface{}{"name": "旗舰店"})
	var store struct {
		ID int64 `json:"id"`
	}
	mustUnmarshal(t, env.Data, &store)

	// 首次批量：全部 created
	resp, env := suite.post(admin, "/api/assignments/bulk", map[string]interface{}{
		"store_id": store.ID, "product_ids": productIDs,
	})
	if resp.StatusCode() != http.StatusOK {
		t.Fatalf("批量指派失败: %d %s", resp.StatusCode(), resp.String())
	}
	var result struct {
		CreatedCount     int `json:"created_count"`
		ReactivatedCount int `json:"reactivated_count"`
		SkippedCount     int `json:"skipped_count"`
	}
	mustUnmarshal(t, env.Data, &result)
	if result.CreatedCount != 3 {
		t.Errorf("首次批量应 created=3, 实际 %+v", result)
	}

	// 幂等重试：全部 skipped
	_, env = suite.post(admin, "/api/assignments/bulk", map[string]interface{}{
		"store_id": store.ID, "product_ids": productIDs,
	})
	mustUnmarshal(t, env.Data, &result)
	if result.SkippedCount != 3 || result.CreatedCount != 0 {
		t.Errorf("重试应 skipped=3, 实际 %+v", result)
	}

	// 混入无效 ID：409 且一条不落
	resp, _ = suite.post(admin, "/api/assignments/bulk", map[string]interface{}{
		"store_id": store.ID, "product_ids": []int64{productIDs[0], 99999},
	})
	if resp.StatusCode() != http.StatusConflict {
		t.Errorf("无效商品应 409, 实际 %d %s", resp.StatusCode(), resp.String())
	}
}

// ==================== 图片上传 ====================

func TestIntegration_CategoryIconUpload(t *testing.T) {
	suite := NewIntegrationSuite(t)
	admin := suite.login("admin", "admin123456")

	var env apiEnvelope
	resp, err := suite.Client.R().SetAuthToken(admin).
		SetFileReader("file", "icon.png", bytes.NewReader([]byte("fake-png-bytes"))).
		SetResult(&env).
		Post("/api/categories/icons")
	if err != nil || resp.StatusCode() != http.StatusOK {
		t.Fatalf("上传图标失败: %v %s", err, resp.String())
	}

	var upload struct {
		URL string `json:"url"`
	}
	mustUnmarshal(t, env.Data, &upload)
	if !strings.HasPrefix(upload.URL, "http://cdn.test/") {
		t.Errorf("图标 URL 应落在存储域名下: %s", upload.URL)
	}

	// 回填 icon_ref 建分类
	_, created := suite.post(admin, "/api/categories", map[string]interface{}{
		"name": "饮料", "icon_ref": upload.URL,
	})
	var category struct {
		IconURL string `json:"icon_url"`
	}
	mustUnmarshal(t, created.Data, &category)
	if category.IconURL != upload.URL {
		t.Errorf("分类应保存上传的图标 URL: %s", category.IconURL)
	}
}
