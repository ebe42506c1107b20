package policy

import (
	"errors"
	"log"

	"mart_admin_v1_202608/internal/model"
)

// ==================== Principal ====================

// Principal 调用方身份
// 由 JWT 中间件在请求入口构造一次，之后显式传入每个服务方法，
// 禁止在服务层再从全局状态/上下文里捞身份信息
type Principal struct {
	UserID   int64
	Username string
	Role     string
	// store_admin 的归属店铺，来自 token claim 而不是每次查库
	// （登录期间即使 DB 记录变更，会话范围也保持不变，直到重新登录）
	StoreID *int64
}

func (p *Principal) IsSuperAdmin() bool {
	return p != nil && p.Role == model.RoleSuperAdmin
}

func (p *Principal) IsStoreAdmin() bool {
	return p != nil && p.Role == model.RoleStoreAdmin
}

// OwnStoreID store_admin 的归属店铺 ID，无则返回 0
func (p *Principal) OwnStoreID() int64 {
	if p == nil || p.StoreID == nil {
		return 0
	}
	return *p.StoreID
}

// ==================== 资源与动作 ====================

type Resource string

const (
	ResourceCategory   Resource = "category"
	ResourceProduct    Resource = "product"
	ResourceStore      Resource = "store"
	ResourceUser       Resource = "user"
	ResourceAssignment Resource = "assignment"
	ResourceStats      Resource = "stats"
)

type Verb string

const (
	VerbRead  Verb = "read"
	VerbWrite Verb = "write"
)

// ==================== 错误定义 ====================

var (
	// ErrUnauthenticated 完全没有身份（上游应返回 401）
	ErrUnauthenticated = errors.New("未认证")
	// ErrForbidden 已认证但角色不满足（403）
	ErrForbidden = errors.New("无权限访问")
	// ErrScopeViolation 店铺归属或角色标签不满足
	// 按 ID 访问单个资源时服务层应降级为"不存在"，避免泄露其他租户数据
	ErrScopeViolation = errors.New("越权访问")
)

// ==================== 角色策略表 ====================

// roleAny 匿名也放行（只读目录）
const roleAny = "*"

// rolePolicy 资源+动作 -> 允许的角色集合
// 目录（分类/商品）为中央数据：任何人可读（读取时再按状态过滤），只有超管可写；
// 指派、用户目录对超管和店铺管理员开放，店铺管理员再受店铺归属约束
var rolePolicy = map[Resource]map[Verb][]string{
	ResourceCategory: {
		VerbRead:  {roleAny},
		VerbWrite: {model.RoleSuperAdmin},
	},
	ResourceProduct: {
		VerbRead:  {roleAny},
		VerbWrite: {model.RoleSuperAdmin},
	},
	ResourceStore: {
		VerbRead:  {model.RoleSuperAdmin, model.RoleStoreAdmin},
		VerbWrite: {model.RoleSuperAdmin},
	},
	ResourceUser: {
		VerbRead:  {model.RoleSuperAdmin, model.RoleStoreAdmin},
		VerbWrite: {model.RoleSuperAdmin, model.RoleStoreAdmin},
	},
	ResourceAssignment: {
		VerbRead:  {model.RoleSuperAdmin, model.RoleStoreAdmin},
		VerbWrite: {model.RoleSuperAdmin, model.RoleStoreAdmin},
	},
	ResourceStats: {
		VerbRead: {model.RoleSuperAdmin},
	},
}

// ==================== 决策入口 ====================

// Authorize 第一步：角色门槛
// p 为 nil 表示匿名调用
func Authorize(p *Principal, res Resource, verb Verb) error {
	verbs, ok := rolePolicy[res]
	if !ok {
		return ErrForbidden
	}
	roles, ok := verbs[verb]
	if !ok {
		return ErrForbidden
	}
	for _, r := range roles {
		if r == roleAny {
			return nil
		}
		if p != nil && p.Role == r {
			return nil
		}
	}
	if p == nil {
		return ErrUnauthenticated
	}
	return ErrForbidden
}

// CheckStoreScope 第二步：店铺归属
// 超管不受限；店铺管理员只能触达归属自己店铺的资源
// 不通过时带调用方与目标双方 ID 记录审计日志
func CheckStoreScope(p *Principal, res Resource, resourceStoreID, targetID int64) error {
	if p.IsSuperAdmin() {
		return nil
	}
	if p.IsStoreAdmin() && p.OwnStoreID() == resourceStoreID {
		return nil
	}
	logDenied(p, res, targetID)
	return ErrScopeViolation
}

// CheckUserTarget 用户目录的附加规则：
// 店铺管理员只能触达自己店铺内 customer 标签的用户，
// 永远不能触达其他管理员账号（即使同店铺）
func CheckUserTarget(p *Principal, target *model.SysUser) error {
	if p.IsSuperAdmin() {
		return nil
	}
	if !p.IsStoreAdmin() {
		return ErrForbidden
	}
	if target.Role != model.RoleCustomer {
		logDenied(p, ResourceUser, target.ID)
		return ErrScopeViolation
	}
	if target.StoreID == nil || *target.StoreID != p.OwnStoreID() {
		logDenied(p, ResourceUser, target.ID)
		return ErrScopeViolation
	}
	return nil
}

// CheckNotSelf 自锁保护：管理员不能停用/删除自己的账号
func CheckNotSelf(p *Principal, targetUserID int64) error {
	if p != nil && p.UserID == targetUserID {
		return ErrForbidden
	}
	return nil
}

// ==================== 列表过滤 ====================

// ListScope FILTER 模式：列表查询不做硬拒绝，而是收窄到调用方店铺
// restricted=false 表示不限制（超管）
func ListScope(p *Principal) (storeID int64, restricted bool) {
	if p.IsStoreAdmin() {
		return p.OwnStoreID(), true
	}
	return 0, false
}

// VisibleStatusOnly 匿名与 customer 只能看到行政状态为 Active 的行，
// 无论 IsActive 软删标记如何
func VisibleStatusOnly(p *Principal) bool {
	if p == nil {
		return true
	}
	return p.Role != model.RoleSuperAdmin && p.Role != model.RoleStoreAdmin
}

// ==================== 审计日志 ====================

func logDenied(p *Principal, res Resource, targetID int64) {
	log.Printf("[AUDIT] 越权访问被拒绝: caller=%d role=%s store=%d resource=%s target=%d",
		p.UserID, p.Role, p.OwnStoreID(), res, targetID)
}
