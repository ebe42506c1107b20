package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"mart_admin_v1_202608/internal/api/controller"
	"mart_admin_v1_202608/internal/middleware"
	"mart_admin_v1_202608/internal/model"

	_ "mart_admin_v1_202608/docs"
)

// InitRoutes 注册所有路由
//
// 目录只读接口走 OptionalAuth：匿名可访问，带 Token 则按角色放宽可见范围；
// 其余接口 JWTAuth 强制登录，角色门槛由 RequireRole + 服务层策略双重把关
func InitRoutes(r *gin.Engine,
	authCtl *controller.AuthController,
	userCtl *controller.UserController,
	storeCtl *controller.StoreController,
	categoryCtl *controller.CategoryController,
	productCtl *controller.ProductController,
	assignmentCtl *controller.AssignmentController,
	adminCtl *controller.AdminController) {

	// Swagger 文档
	// 访问 http://localhost:8080/swagger/index.html 即可查看
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")

	// auth 认证组
	auth := api.Group("/auth")
	{
		auth.POST("/login", authCtl.Login)
		auth.POST("/refresh", authCtl.Refresh)
		auth.POST("/register", authCtl.Register)

		authed := auth.Group("", middleware.JWTAuth(), middleware.AuditContext())
		authed.PUT("/password", authCtl.ChangePassword)
		authed.GET("/me", authCtl.Me)
	}

	// categories 分类组：读公开，写仅超管
	categories := api.Group("/categories")
	{
		read := categories.Group("", middleware.OptionalAuth())
		read.GET("", categoryCtl.ListCategories)
		read.GET("/:id", categoryCtl.GetCategory)

		write := categories.Group("", middleware.JWTAuth(),
			middleware.RequireRole(model.RoleSuperAdmin), middleware.AuditContext())
		write.POST("", categoryCtl.CreateCategory)
		write.POST("/icons", categoryCtl.UploadIcon)
		write.PUT("/reorder", categoryCtl.ReorderCategories)
		write.PUT("/:id", categoryCtl.UpdateCategory)
		write.PUT("/:id/status", categoryCtl.ChangeCategoryStatus)
		write.DELETE("/:id", categoryCtl.DeleteCategory)
	}

	// products 商品组：读公开，写仅超管
	products := api.Group("/products")
	{
		read := products.Group("", middleware.OptionalAuth())
		read.GET("", productCtl.ListProducts)
		read.GET("/:id", productCtl.GetProduct)

		write := products.Group("", middleware.JWTAuth(),
			middleware.RequireRole(model.RoleSuperAdmin), middleware.AuditContext())
		write.POST("", productCtl.CreateProduct)
		write.POST("/images", productCtl.UploadImage)
		write.PUT("/:id", productCtl.UpdateProduct)
		write.PUT("/:id/status", productCtl.ChangeProductStatus)
		write.DELETE("/:id", productCtl.DeleteProduct)
	}

	// stores 店铺组：读对两类管理员开放，写仅超管
	stores := api.Group("/stores", middleware.JWTAuth(), middleware.AuditContext())
	{
		read := stores.Group("", middleware.RequireRole(model.RoleSuperAdmin, model.RoleStoreAdmin))
		read.GET("", storeCtl.ListStores)
		read.GET("/:id", storeCtl.GetStore)

		write := stores.Group("", middleware.RequireRole(model.RoleSuperAdmin))
		write.POST("", storeCtl.CreateStore)
		write.PUT("/:id", storeCtl.UpdateStore)
		write.PUT("/:id/status", storeCtl.ChangeStoreStatus)
		write.DELETE("/:id", storeCtl.DeleteStore)
	}

	// assignments 指派组：两类管理员，店铺归属在服务层收窄
	assignments := api.Group("/assignments", middleware.JWTAuth(),
		middleware.RequireRole(model.RoleSuperAdmin, model.RoleStoreAdmin), middleware.AuditContext())
	{
		assignments.GET("", assignmentCtl.ListAssignments)
		assignments.GET("/:id", assignmentCtl.GetAssignment)
		assignments.POST("", assignmentCtl.Assign)
		assignments.POST("/bulk", assignmentCtl.BulkAssign)
		assignments.POST("/by-category", assignmentCtl.AssignByCategory)
		assignments.DELETE("/:id", assignmentCtl.Unassign)
		assignments.DELETE("/stores/:store_id", assignmentCtl.UnassignAllForStore)
	}

	// users 用户目录组：两类管理员
	users := api.Group("/users", middleware.JWTAuth(),
		middleware.RequireRole(model.RoleSuperAdmin, model.RoleStoreAdmin), middleware.AuditContext())
	{
		users.GET("", userCtl.ListUsers)
		users.GET("/:id", userCtl.GetUser)
		users.POST("", userCtl.CreateUser)
		users.POST("/store-admins", userCtl.RegisterStoreAdmin)
		users.PUT("/:id", userCtl.UpdateUser)
		users.PUT("/:id/active", userCtl.ToggleActive)
		users.DELETE("/:id", userCtl.DeleteUser)
	}

	// admin 后台组：仅超管
	admin := api.Group("/admin", middleware.JWTAuth(),
		middleware.RequireRole(model.RoleSuperAdmin), middleware.AuditContext())
	{
		admin.GET("/stats", adminCtl.GetStats)
		admin.POST("/stats/snapshot", adminCtl.TriggerSnapshot)
	}
}
