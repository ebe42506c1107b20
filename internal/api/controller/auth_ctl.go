package controller

import (
	"github.com/gin-gonic/gin"

	"mart_admin_v1_202608/internal/api/dto"
	"mart_admin_v1_202608/internal/middleware"
	"mart_admin_v1_202608/internal/service"
)

type AuthController struct {
	userService *service.UserService
}

func NewAuthController(userService *service.UserService) *AuthController {
	return &AuthController{userService: userService}
}

// Login 登录
// @Summary 用户登录
// @Description 用户名 + 密码换 Token 对
// @Tags Auth (认证模块)
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "登录请求"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} map[string]interface{} "用户名或密码错误"
// @Router /api/auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "参数错误: "+err.Error())
		return
	}

	resp, err := ctrl.userService.Login(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, resp)
}

// Refresh 刷新 Token
// @Summary 用 Refresh Token 换新 Token 对
// @Tags Auth (认证模块)
// @Accept json
// @Produce json
// @Param body body dto.RefreshTokenRequest true "刷新请求"
// @Success 200 {object} dto.RefreshTokenResponse
// @Failure 401 {object} map[string]interface{} "Token 无效"
// @Router /api/auth/refresh [post]
func (ctrl *AuthController) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "参数错误: "+err.Error())
		return
	}

	resp, err := ctrl.userService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, resp)
}

// Register 顾客注册
// @Summary 顾客自助注册
// @Tags Auth (认证模块)
// @Accept json
// @Produce json
// @Param body body dto.RegisterRequest true "注册请求"
// @Success 200 {object} dto.UserInfo
// @Failure 400 {object} map[string]interface{} "用户名已存在"
// @Router /api/auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "参数错误: "+err.Error())
		return
	}

	info, err := ctrl.userService.Register(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, info)
}

// ChangePassword 修改密码
// @Summary 修改自己的密码
// @Tags Auth (认证模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ChangePasswordRequest true "修改密码请求"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{} "旧密码错误"
// @Router /api/auth/password [put]
func (ctrl *AuthController) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "参数错误: "+err.Error())
		return
	}

	p := middleware.GetPrincipal(c)
	if err := ctrl.userService.ChangePassword(c.Request.Context(), p, &req); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}

// Me 当前用户信息
// @Summary 查询当前登录用户
// @Tags Auth (认证模块)
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserInfo
// @Router /api/auth/me [get]
func (ctrl *AuthController) Me(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	info, err := ctrl.userService.GetSelf(c.Request.Context(), p)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, info)
}
