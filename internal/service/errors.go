package service

import (
	"errors"
	"fmt"
)

// ==================== 错误分类 ====================
//
// 五类基础错误，controller 层统一按 errors.Is 映射 HTTP 状态码：
//   ErrValidation -> 400, ErrForbidden -> 403, ErrNotFound -> 404,
//   ErrConflict -> 409, 其他 -> 500（对外不暴露细节）
//
// 跨租户按 ID 访问一律映射为 ErrNotFound，调用方无法区分
// "不存在"和"存在但不属于你"，避免泄露其他租户的数据存在性

var (
	ErrValidation = errors.New("参数校验失败")
	ErrNotFound   = errors.New("资源不存在")
	ErrForbidden  = errors.New("无权限访问")
	ErrConflict   = errors.New("操作冲突")
)

// ==================== 具体错误 ====================

var (
	// 目录
	ErrCategoryNameExists = fmt.Errorf("%w: 分类名称已存在", ErrValidation)
	ErrProductNameExists  = fmt.Errorf("%w: 同分类下商品名称已存在", ErrValidation)
	ErrCategoryInactive   = fmt.Errorf("%w: 分类不存在或未激活", ErrValidation)
	ErrHasActiveProducts  = fmt.Errorf("%w: 分类下仍有活跃商品，需先清理", ErrConflict)
	ErrHasActiveItems     = fmt.Errorf("%w: 商品下仍有活跃库存单元，需先清理", ErrConflict)
	ErrInvalidStatus      = fmt.Errorf("%w: 无效的状态", ErrValidation)

	// 指派
	ErrStoreInactive    = fmt.Errorf("%w: 店铺不存在或未激活", ErrValidation)
	ErrProductInactive  = fmt.Errorf("%w: 商品不存在或未激活", ErrValidation)
	ErrEmptyBatch       = fmt.Errorf("%w: 批量商品列表为空", ErrValidation)
	ErrAssignmentLocked = fmt.Errorf("%w: 该指派未授权店铺管理员解除", ErrForbidden)

	// 用户
	ErrUsernameExists     = fmt.Errorf("%w: 用户名已存在", ErrValidation)
	ErrEmailExists        = fmt.Errorf("%w: 邮箱已存在", ErrValidation)
	ErrSelfLockout        = fmt.Errorf("%w: 不能停用或删除自己的账号", ErrForbidden)
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrUserDisabled       = errors.New("用户已禁用")
	ErrInvalidToken       = errors.New("Token 无效")
	ErrInvalidOldPassword = errors.New("旧密码错误")
)

// InvalidProductIDs 批量指派快速失败：哪些商品 ID 无效要回给调用方修正
func InvalidProductIDs(ids []int64) error {
	return fmt.Errorf("%w: 以下商品不存在或未激活 %v", ErrConflict, ids)
}
