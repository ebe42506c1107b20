package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mart_admin_v1_202608/internal/api/dto"
	"mart_admin_v1_202608/internal/model"
	"mart_admin_v1_202608/internal/policy"
	"mart_admin_v1_202608/internal/repository"
)

// ==================== 写操作 ====================

func TestCreateStoreOnlySuperAdmin(t *testing.T) {
	env := setupTestEnv(t)

	info, err := env.storeSvc.Create(ctx(), superAdmin(), &dto.CreateStoreRequest{Name: "旗舰店"})
	require.NoError(t, err)
	assert.True(t, info.IsActive)

	_, err = env.storeSvc.Create(ctx(), storeAdmin(10, info.ID), &dto.CreateStoreRequest{Name: "分店"})
	assert.ErrorIs(t, err, policy.ErrForbidden)
}

// ==================== 级联软删 ====================

func TestDeleteStoreCascades(t *testing.T) {
	env := setupTestEnv(t)
	store := env.mustCreateStore(t, "旗舰店")
	category := env.mustCreateCategory(t, "饮料", 1)
	product := env.mustCreateProduct(t, "苏打水", category.ID)
	item := env.mustCreateItem(t, product.ID, store.ID)
	staff := env.mustCreateUser(t, "keeper", "pass123456", model.RoleStoreAdmin, &store.ID)

	admin := superAdmin()
	resp, err := env.assignmentSvc.Assign(ctx(), admin, &dto.AssignRequest{
		StoreID: store.ID, ProductID: product.ID,
	})
	require.NoError(t, err)

	require.NoError(t, env.storeSvc.Delete(ctx(), admin, store.ID))

	// 店铺本体、店铺用户、指派、库存单元全部退役
	gotStore, err := env.storeRepo.GetByID(ctx(), store.ID)
	require.NoError(t, err)
	assert.False(t, gotStore.IsActive)

	gotUser, err := env.userRepo.GetByID(ctx(), staff.ID)
	require.NoError(t, err)
	assert.False(t, gotUser.IsActive)

	gotAssignment, err := env.assignmentRepo.GetByID(ctx(), resp.Assignment.ID)
	require.NoError(t, err)
	assert.False(t, gotAssignment.IsActive)

	var itemActive bool
	env.db.Raw("SELECT is_active FROM items WHERE id = ?", item.ID).Scan(&itemActive)
	assert.False(t, itemActive)

	// 中央目录商品不受影响
	gotProduct, err := env.productRepo.GetByID(ctx(), product.ID)
	require.NoError(t, err)
	assert.True(t, gotProduct.IsActive)

	// 重复删除幂等
	assert.NoError(t, env.storeSvc.Delete(ctx(), admin, store.ID))
}

// ==================== 读操作 ====================

func TestStoreAdminListSeesOnlyOwnStore(t *testing.T) {
	env := setupTestEnv(t)
	mine := env.mustCreateStore(t, "我的店")
	env.mustCreateStore(t, "别人的店")

	list, total, err := env.storeSvc.List(ctx(), storeAdmin(10, mine.ID), repository.StoreFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)

	_, total, err = env.storeSvc.List(ctx(), superAdmin(), repository.StoreFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestStoreGetCrossStoreDegradesToNotFound(t *testing.T) {
	env := setupTestEnv(t)
	mine := env.mustCreateStore(t, "我的店")
	other := env.mustCreateStore(t, "别人的店")

	_, err := env.storeSvc.Get(ctx(), storeAdmin(10, mine.ID), other.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := env.storeSvc.Get(ctx(), storeAdmin(10, mine.ID), mine.ID)
	require.NoError(t, err)
	assert.Equal(t, mine.ID, got.ID)
}
