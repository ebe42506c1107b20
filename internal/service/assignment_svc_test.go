package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mart_admin_v1_202608/internal/api/dto"
	"mart_admin_v1_202608/internal/model"
	"mart_admin_v1_202608/internal/repository"
)

// ==================== 单个指派 ====================

func TestAssignCreatesNewRow(t *testing.T) {
	env := setupTestEnv(t)
	store := env.mustCreateStore(t, "旗舰店")
	category := env.mustCreateCategory(t, "饮料", 1)
	product := env.mustCreateProduct(t, "苏打水", category.ID)

	resp, err := env.assignmentSvc.Assign(ctx(), superAdmin(), &dto.AssignRequest{
		StoreID:   store.ID,
		ProductID: product.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, AssignCreated, resp.Status)
	assert.True(t, resp.Assignment.IsActive)
}

func TestAssignTwiceIsAlreadyAssigned(t *testing.T) {
	env := setupTestEnv(t)
	store := env.mustCreateStore(t, "旗舰店")
	category := env.mustCreateCategory(t, "饮料", 1)
	product := env.mustCreateProduct(t, "苏打水", category.ID)

	req := &dto.AssignRequest{StoreID: store.ID, ProductID: product.ID}
	_, err := env.assignmentSvc.Assign(ctx(), superAdmin(), req)
	require.NoError(t, err)

	resp, err := env.assignmentSvc.Assign(ctx(), superAdmin(), req)
	require.NoError(t, err)
	assert.Equal(t, AssignSkipped, resp.Status)

	// 任意时刻 (store, product) 至多一行
	var count int64
	env.db.Model(&model.StoreProductAssignment{}).
		Where("store_id = ? AND product_id = ?", store.ID, product.ID).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

// 退役行重新指派必须翻转原行而不是插新行
func TestAssignReactivatesRetiredRow(t *testing.T) {
	env := setupTestEnv(t)
	store := env.mustCreateStore(t, "旗舰店")
	category := env.mustCreateCategory(t, "饮料", 1)
	product := env.mustCreateProduct(t, "苏打水", category.ID)

	admin := superAdmin()
	first, err := env.assignmentSvc.Assign(ctx(), admin, &dto.AssignRequest{
		StoreID: store.ID, ProductID: product.ID,
	})
	require.NoError(t, err)
	originalID := first.Assignment.ID

	require.NoError(t, env.assignmentSvc.Unassign(ctx(), admin, originalID))

	resp, err := env.assignmentSvc.Assign(ctx(), admin, &dto.AssignRequest{
		StoreID: store.ID, ProductID: product.ID, CanManage: true,
	})
	require.NoError(t, err)
	assert.Equal(t, AssignReactivated, resp.Status)
	// 行 ID 不变，can_manage 被刷新
	assert.Equal(t, originalID, resp.Assignment.ID)
	assert.True(t, resp.Assignment.CanManage)
	assert.True(t, resp.Assignment.IsActive)
}

func TestAssignInactiveProductRejected(t *testing.T) {
	env := setupTestEnv(t)
	store := env.mustCreateStore(t, "旗舰店")
	category := env.mustCreateCategory(t, "饮料", 1)
	product := env.mustCreateProduct(t, "苏打水", category.ID)
	env.db.Model(product).Update("is_active", false)

	_, err := env.assignmentSvc.Assign(ctx(), superAdmin(), &dto.AssignRequest{
		StoreID: store.ID, ProductID: product.ID,
	})
	assert.ErrorIs(t, err, ErrProductInactive)
}

// 店铺管理员给别人的店铺指派：看不出店铺是否存在
func TestAssignCrossStoreDegradesToNotFound(t *testing.T) {
	env := setupTestEnv(t)
	mine := env.mustCreateStore(t, "我的店")
	other := env.mustCreateStore(t, "别人的店")
	category := env.mustCreateCategory(t, "饮料", 1)
	product := env.mustCreateProduct(t, "苏打水", category.ID)

	_, err := env.assignmentSvc.Assign(ctx(), storeAdmin(10, mine.ID), &dto.AssignRequest{
		StoreID: other.ID, ProductID: product.ID,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

// ==================== 批量指派 ====================

func TestBulkAssignCountsPerOutcome(t *testing.T) {
	env := setupTestEnv(t)
	store := env.mustCreateStore(t, "旗舰店")
	category := env.mustCreateCategory(t, "饮料", 1)
	p1 := env.mustCreateProduct(t, "苏打水", category.ID)
	p2 := env.mustCreateProduct(t, "气泡水", category.ID)
	p3 := env.mustCreateProduct(t, "矿泉水", category.ID)

	admin := superAdmin()

	// p1 预先指派（保持活跃），p2 指派后退役
	_, err := env.assignmentSvc.Assign(ctx(), admin, &dto.AssignRequest{StoreID: store.ID, ProductID: p1.ID})
	require.NoError(t, err)
	resp2, err := env.assignmentSvc.Assign(ctx(), admin, &dto.AssignRequest{StoreID: store.ID, ProductID: p2.ID})
	require.NoError(t, err)
	require.NoError(t, env.assignmentSvc.Unassign(ctx(), admin, resp2.Assignment.ID))

	result, err := env.assignmentSvc.BulkAssign(ctx(), admin, &dto.BulkAssignRequest{
		StoreID:    store.ID,
		ProductIDs: []int64{p1.ID, p2.ID, p3.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.CreatedCount)     // p3
	assert.Equal(t, 1, result.ReactivatedCount) // p2
	assert.Equal(t, 1, result.SkippedCount)     // p1
}

// 重复提交同一批次：第二次全部落在 skipped
func TestBulkAssignIdempotent(t *testing.T) {
	env := setupTestEnv(t)
	store := env.mustCreateStore(t, "旗舰店")
	category := env.mustCreateCategory(t, "饮料", 1)
	p1 := env.mustCreateProduct(t, "苏打水", category.ID)
	p2 := env.mustCreateProduct(t, "气泡水", category.ID)

	admin := superAdmin()
	req := &dto.BulkAssignRequest{StoreID: store.ID, ProductIDs: []int64{p1.ID, p2.ID}}

	first, err := env.assignmentSvc.BulkAssign(ctx(), admin, req)
	require.NoError(t, err)
	assert.Equal(t, 2, first.CreatedCount)

	second, err := env.assignmentSvc.BulkAssign(ctx(), admin, req)
	require.NoError(t, err)
	assert.Equal(t, 0, second.CreatedCount)
	assert.Equal(t, 0, second.ReactivatedCount)
	assert.Equal(t, 2, second.SkippedCount)
}

// 清单里混入无效商品：整批拒绝，一条都不落库
func TestBulkAssignFailsFastOnInvalidProduct(t *testing.T) {
	env := setupTestEnv(t)
	store := env.mustCreateStore(t, "旗舰店")
	category := env.mustCreateCategory(t, "饮料", 1)
	p1 := env.mustCreateProduct(t, "苏打水", category.ID)

	_, err := env.assignmentSvc.BulkAssign(ctx(), superAdmin(), &dto.BulkAssignRequest{
		StoreID:    store.ID,
		ProductIDs: []int64{p1.ID, 99999},
	})
	assert.ErrorIs(t, err, ErrConflict)

	var count int64
	env.db.Model(&model.StoreProductAssignment{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestBulkAssignEmptyListRejected(t *testing.T) {
	env := setupTestEnv(t)
	store := env.mustCreateStore(t, "旗舰店")

	_, err := env.assignmentSvc.BulkAssign(ctx(), superAdmin(), &dto.BulkAssignRequest{
		StoreID:    store.ID,
		ProductIDs: []int64{},
	})
	assert.ErrorIs(t, err, ErrEmptyBatch)
}

// 按分类指派清单：新商品新建，之前退役过的翻回
func TestAssignByCategory(t *testing.T) {
	env := setupTestEnv(t)
	store := env.mustCreateStore(t, "旗舰店")
	drinks := env.mustCreateCategory(t, "饮料", 1)
	p1 := env.mustCreateProduct(t, "苏打水", drinks.ID)
	p2 := env.mustCreateProduct(t, "气泡水", drinks.ID)

	admin := superAdmin()

	// p2 先指派再解除，留一条退役行
	resp, err := env.assignmentSvc.Assign(ctx(), admin, &dto.AssignRequest{
		StoreID: store.ID, ProductID: p2.ID,
	})
	require.NoError(t, err)
	require.NoError(t, env.assignmentSvc.Unassign(ctx(), admin, resp.Assignment.ID))

	result, err := env.assignmentSvc.AssignByCategory(ctx(), admin, &dto.AssignByCategoryRequest{
		StoreID:    store.ID,
		CategoryID: drinks.ID,
		ProductIDs: []int64{p1.ID, p2.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.CreatedCount)     // p1
	assert.Equal(t, 1, result.ReactivatedCount) // p2
	assert.Equal(t, 0, result.SkippedCount)
}

// 清单里混入其他分类的商品：整批拒绝，一条都不落库
func TestAssignByCategoryRejectsForeignProduct(t *testing.T) {
	env := setupTestEnv(t)
	store := env.mustCreateStore(t, "旗舰店")
	drinks := env.mustCreateCategory(t, "饮料", 1)
	snacks := env.mustCreateCategory(t, "零食", 2)
	soda := env.mustCreateProduct(t, "苏打水", drinks.ID)
	chips := env.mustCreateProduct(t, "薯片", snacks.ID)

	_, err := env.assignmentSvc.AssignByCategory(ctx(), superAdmin(), &dto.AssignByCategoryRequest{
		StoreID:    store.ID,
		CategoryID: drinks.ID,
		ProductIDs: []int64{soda.ID, chips.ID},
	})
	assert.ErrorIs(t, err, ErrConflict)

	var count int64
	env.db.Model(&model.StoreProductAssignment{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestAssignByCategoryEmptyListRejected(t *testing.T) {
	env := setupTestEnv(t)
	store := env.mustCreateStore(t, "旗舰店")
	drinks := env.mustCreateCategory(t, "饮料", 1)

	_, err := env.assignmentSvc.AssignByCategory(ctx(), superAdmin(), &dto.AssignByCategoryRequest{
		StoreID:    store.ID,
		CategoryID: drinks.ID,
		ProductIDs: []int64{},
	})
	assert.ErrorIs(t, err, ErrEmptyBatch)
}

// ==================== 解除指派 ====================

func TestUnassignByOwnerWithCanManage(t *testing.T) {
	env := setupTestEnv(t)
	store := env.mustCreateStore(t, "旗舰店")
	category := env.mustCreateCategory(t, "饮料", 1)
	product := env.mustCreateProduct(t, "苏打水", category.ID)

	resp, err := env.assignmentSvc.Assign(ctx(), superAdmin(), &dto.AssignRequest{
		StoreID: store.ID, ProductID: product.ID, CanManage: true,
	})
	require.NoError(t, err)

	owner := storeAdmin(10, store.ID)
	require.NoError(t, env.assignmentSvc.Unassign(ctx(), owner, resp.Assignment.ID))

	row, err := env.assignmentRepo.GetByID(ctx(), resp.Assignment.ID)
	require.NoError(t, err)
	assert.False(t, row.IsActive)
}

// can_manage 未授权时店铺管理员不能解除自己店铺的指派
func TestUnassignWithoutCanManageForbidden(t *testing.T) {
	env := setupTestEnv(t)
	store := env.mustCreateStore(t, "旗舰店")
	category := env.mustCreateCategory(t, "饮料", 1)
	product := env.mustCreateProduct(t, "苏打水", category.ID)

	resp, err := env.assignmentSvc.Assign(ctx(), superAdmin(), &dto.AssignRequest{
		StoreID: store.ID, ProductID: product.ID, CanManage: false,
	})
	require.NoError(t, err)

	err = env.assignmentSvc.Unassign(ctx(), storeAdmin(10, store.ID), resp.Assignment.ID)
	assert.ErrorIs(t, err, ErrAssignmentLocked)
}

// 跨店铺解除：响应与指派不存在时无法区分
func TestUnassignCrossStoreDegradesToNotFound(t *testing.T) {
	env := setupTestEnv(t)
	mine := env.mustCreateStore(t, "我的店")
	other := env.mustCreateStore(t, "别人的店")
	category := env.mustCreateCategory(t, "饮料", 1)
	product := env.mustCreateProduct(t, "苏打水", category.ID)

	resp, err := env.assignmentSvc.Assign(ctx(), superAdmin(), &dto.AssignRequest{
		StoreID: other.ID, ProductID: product.ID, CanManage: true,
	})
	require.NoError(t, err)

	err = env.assignmentSvc.Unassign(ctx(), storeAdmin(10, mine.ID), resp.Assignment.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// 行没有被动过
	row, _ := env.assignmentRepo.GetByID(ctx(), resp.Assignment.ID)
	assert.True(t, row.IsActive)
}

func TestUnassignRetiredRowIsIdempotent(t *testing.T) {
	env := setupTestEnv(t)
	store := env.mustCreateStore(t, "旗舰店")
	category := env.mustCreateCategory(t, "饮料", 1)
	product := env.mustCreateProduct(t, "苏打水", category.ID)

	admin := superAdmin()
	resp, err := env.assignmentSvc.Assign(ctx(), admin, &dto.AssignRequest{StoreID: store.ID, ProductID: product.ID})
	require.NoError(t, err)

	require.NoError(t, env.assignmentSvc.Unassign(ctx(), admin, resp.Assignment.ID))
	require.NoError(t, env.assignmentSvc.Unassign(ctx(), admin, resp.Assignment.ID))
}

// ==================== 列表 ====================

func TestListAssignmentsScopedToOwnStore(t *testing.T) {
	env := setupTestEnv(t)
	mine := env.mustCreateStore(t, "我的店")
	other := env.mustCreateStore(t, "别人的店")
	category := env.mustCreateCategory(t, "饮料", 1)
	product := env.mustCreateProduct(t, "苏打水", category.ID)

	admin := superAdmin()
	_, err := env.assignmentSvc.Assign(ctx(), admin, &dto.AssignRequest{StoreID: mine.ID, ProductID: product.ID})
	require.NoError(t, err)
	_, err = env.assignmentSvc.Assign(ctx(), admin, &dto.AssignRequest{StoreID: other.ID, ProductID: product.ID})
	require.NoError(t, err)

	// 店铺管理员即使显式要求别人的店铺，也只会拿到自己店铺的数据
	list, total, err := env.assignmentSvc.List(ctx(), storeAdmin(10, mine.ID), repository.AssignmentFilter{
		StoreID: other.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].StoreID)

	// 超管看全部
	_, total, err = env.assignmentSvc.List(ctx(), admin, repository.AssignmentFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}
