package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"mart_admin_v1_202608/internal/api/dto"
	"mart_admin_v1_202608/internal/middleware"
	"mart_admin_v1_202608/internal/repository"
	"mart_admin_v1_202608/internal/service"
)

type UserController struct {
	userService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{userService: userService}
}

// parseIDParam 解析路径里的数字 ID
func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "无效的 ID")
		return 0, false
	}
	return id, true
}

// CreateUser 创建用户
// @Summary 管理员创建用户
// @Description 超管可建任意角色；店铺管理员只能在自己店铺内建顾客
// @Tags User (用户模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateUserRequest true "创建用户请求"
// @Success 200 {object} dto.UserInfo
// @Router /api/users [post]
func (ctrl *UserController) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "参数错误: "+err.Error())
		return
	}

	p := middleware.GetPrincipal(c)
	info, err := ctrl.userService.CreateUser(c.Request.Context(), p, &req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, info)
}

// RegisterStoreAdmin 注册店铺管理员
// @Summary 新建店铺 + 店铺管理员账号（原子操作）
// @Tags User (用户模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegisterStoreAdminRequest true "注册请求"
// @Success 200 {object} dto.RegisterStoreAdminResponse
// @Router /api/users/store-admins [post]
func (ctrl *UserController) RegisterStoreAdmin(c *gin.Context) {
	var req dto.RegisterStoreAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "参数错误: "+err.Error())
		return
	}

	p := middleware.GetPrincipal(c)
	resp, err := ctrl.userService.RegisterStoreAdmin(c.Request.Context(), p, &req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, resp)
}

// GetUser 用户详情
// @Summary 按 ID 查用户
// @Tags User (用户模块)
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} dto.UserInfo
// @Failure 404 {object} map[string]interface{} "用户不存在"
// @Router /api/users/{id} [get]
func (ctrl *UserController) GetUser(c *gin.Context) {
	id, valid := parseIDParam(c)
	if !valid {
		return
	}

	p := middleware.GetPrincipal(c)
	info, err := ctrl.userService.Get(c.Request.Context(), p, id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, info)
}

// ListUsers 用户列表
// @Summary 用户列表（店铺管理员只看到自己店铺的顾客）
// @Tags User (用户模块)
// @Produce json
// @Security BearerAuth
// @Param keyword query string false "用户名/邮箱搜索"
// @Param role query string false "角色筛选"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} dto.UserListResponse
// @Router /api/users [get]
func (ctrl *UserController) ListUsers(c *gin.Context) {
	var req dto.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "参数错误: "+err.Error())
		return
	}

	p := middleware.GetPrincipal(c)
	users, total, err := ctrl.userService.List(c.Request.Context(), p, repository.UserFilter{
		Keyword:  req.Keyword,
		Role:     req.Role,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		fail(c, err)
		return
	}

	list := make([]*dto.UserInfo, 0, len(users))
	for i := range users {
		list = append(list, &users[i])
	}
	ok(c, dto.UserListResponse{List: list, Total: total})
}

// UpdateUser 更新用户
// @Summary 更新用户信息
// @Tags User (用户模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Param body body dto.UpdateUserRequest true "更新请求"
// @Success 200 {object} dto.UserInfo
// @Router /api/users/{id} [put]
func (ctrl *UserController) UpdateUser(c *gin.Context) {
	id, valid := parseIDParam(c)
	if !valid {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "参数错误: "+err.Error())
		return
	}

	p := middleware.GetPrincipal(c)
	info, err := ctrl.userService.Update(c.Request.Context(), p, id, &req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, info)
}

// ToggleActive 启用/停用用户
// @Summary 启用或停用用户（不能操作自己）
// @Tags User (用户模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Param body body dto.ToggleActiveRequest true "启停请求"
// @Success 200 {object} map[string]interface{}
// @Router /api/users/{id}/active [put]
func (ctrl *UserController) ToggleActive(c *gin.Context) {
	id, valid := parseIDParam(c)
	if !valid {
		return
	}

	var req dto.ToggleActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "参数错误: "+err.Error())
		return
	}

	p := middleware.GetPrincipal(c)
	if err := ctrl.userService.ToggleActive(c.Request.Context(), p, id, *req.Active); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}

// DeleteUser 软删用户
// @Summary 软删用户（不能删除自己）
// @Tags User (用户模块)
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/users/{id} [delete]
func (ctrl *UserController) DeleteUser(c *gin.Context) {
	id, valid := parseIDParam(c)
	if !valid {
		return
	}

	p := middleware.GetPrincipal(c)
	if err := ctrl.userService.Delete(c.Request.Context(), p, id); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}
