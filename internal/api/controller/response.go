package controller

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"mart_admin_v1_202608/internal/policy"
	"mart_admin_v1_202608/internal/service"
)

// ==================== 统一响应 ====================

// ok 成功响应 {code:0, message:"success", data:...}
func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    data,
	})
}

// fail 业务错误 -> HTTP 状态码的唯一出口
//
//	参数校验     -> 400
//	未认证       -> 401
//	权限不足     -> 403
//	不存在/越权  -> 404（按 ID 的越权访问在服务层已降级为不存在）
//	操作冲突     -> 409
//	其他         -> 500，对外不暴露内部细节
func fail(c *gin.Context, err error) {
	var status int
	message := err.Error()

	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, policy.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden), errors.Is(err, policy.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrNotFound), errors.Is(err, policy.ErrScopeViolation):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrInvalidOldPassword):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrUserDisabled):
		status = http.StatusForbidden
	default:
		log.Printf("[ERROR] 内部错误: %v", err)
		status = http.StatusInternalServerError
		message = "内部错误"
	}

	c.JSON(status, gin.H{
		"code":    status,
		"message": message,
	})
	c.Abort()
}

// badRequest 参数解析失败
func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"code":    400,
		"message": message,
	})
}
