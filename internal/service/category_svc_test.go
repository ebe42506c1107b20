package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mart_admin_v1_202608/internal/api/dto"
	"mart_admin_v1_202608/internal/policy"
	"mart_admin_v1_202608/internal/repository"
)

// ==================== 创建 ====================

func TestCreateCategoryAutoDisplayOrder(t *testing.T) {
	env := setupTestEnv(t)
	env.mustCreateCategory(t, "饮料", 5)

	// 不传顺序，自动落到当前最大值 +1
	info, err := env.categorySvc.Create(ctx(), superAdmin(), &dto.CreateCategoryRequest{Name: "零食"})
	require.NoError(t, err)
	assert.Equal(t, 6, info.DisplayOrder)
	assert.NotEmpty(t, info.Code)
	assert.True(t, info.IsActive)
}

func TestCreateCategoryDuplicateActiveName(t *testing.T) {
	env := setupTestEnv(t)
	env.mustCreateCategory(t, "饮料", 1)

	_, err := env.categorySvc.Create(ctx(), superAdmin(), &dto.CreateCategoryRequest{Name: "饮料"})
	assert.ErrorIs(t, err, ErrCategoryNameExists)
}

// 软删后的名称可以复用
func TestCreateCategoryReusesRetiredName(t *testing.T) {
	env := setupTestEnv(t)
	old := env.mustCreateCategory(t, "饮料", 1)
	admin := superAdmin()
	require.NoError(t, env.categorySvc.Delete(ctx(), admin, old.ID))

	_, err := env.categorySvc.Create(ctx(), admin, &dto.CreateCategoryRequest{Name: "饮料"})
	assert.NoError(t, err)
}

func TestCreateCategoryForbiddenForNonSuper(t *testing.T) {
	env := setupTestEnv(t)
	store := env.mustCreateStore(t, "旗舰店")

	_, err := env.categorySvc.Create(ctx(), storeAdmin(10, store.ID), &dto.CreateCategoryRequest{Name: "饮料"})
	assert.ErrorIs(t, err, policy.ErrForbidden)

	_, err = env.categorySvc.Create(ctx(), customer(20), &dto.CreateCategoryRequest{Name: "饮料"})
	assert.ErrorIs(t, err, policy.ErrForbidden)
}

// ==================== 删除 ====================

func TestDeleteCategoryWithActiveProductsRejected(t *testing.T) {
	env := setupTestEnv(t)
	category := env.mustCreateCategory(t, "饮料", 1)
	env.mustCreateProduct(t, "苏打水", category.ID)

	err := env.categorySvc.Delete(ctx(), superAdmin(), category.ID)
	assert.ErrorIs(t, err, ErrHasActiveProducts)
}

func TestDeleteCategoryIdempotent(t *testing.T) {
	env := setupTestEnv(t)
	category := env.mustCreateCategory(t, "饮料", 1)

	admin := superAdmin()
	require.NoError(t, env.categorySvc.Delete(ctx(), admin, category.ID))
	require.NoError(t, env.categorySvc.Delete(ctx(), admin, category.ID))
}

// 商品退役之后分类才允许软删
func TestDeleteCategoryAfterProductsRetired(t *testing.T) {
	env := setupTestEnv(t)
	category := env.mustCreateCategory(t, "饮料", 1)
	product := env.mustCreateProduct(t, "苏打水", category.ID)

	admin := superAdmin()
	require.NoError(t, env.productSvc.Delete(ctx(), admin, product.ID))
	assert.NoError(t, env.categorySvc.Delete(ctx(), admin, category.ID))
}

// ==================== 排序 ====================

func TestReorderCategories(t *testing.T) {
	env := setupTestEnv(t)
	c1 := env.mustCreateCategory(t, "饮料", 1)
	c2 := env.mustCreateCategory(t, "零食", 2)

	err := env.categorySvc.Reorder(ctx(), superAdmin(), map[int64]int{
		c1.ID: 2,
		c2.ID: 1,
	})
	require.NoError(t, err)

	got, err := env.categoryRepo.GetByID(ctx(), c1.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.DisplayOrder)
}

// 清单里混入非活跃分类：整体拒绝，不做部分生效
func TestReorderRejectsInactiveCategory(t *testing.T) {
	env := setupTestEnv(t)
	c1 := env.mustCreateCategory(t, "饮料", 1)
	c2 := env.mustCreateCategory(t, "零食", 2)

	admin := superAdmin()
	require.NoError(t, env.categorySvc.Delete(ctx(), admin, c2.ID))

	err := env.categorySvc.Reorder(ctx(), admin, map[int64]int{
		c1.ID: 9,
		c2.ID: 1,
	})
	assert.ErrorIs(t, err, ErrValidation)

	got, err := env.categoryRepo.GetByID(ctx(), c1.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.DisplayOrder)
}

// ==================== 状态 ====================

func TestChangeCategoryStatusValidatesDictionary(t *testing.T) {
	env := setupTestEnv(t)
	category := env.mustCreateCategory(t, "饮料", 1)

	admin := superAdmin()
	require.NoError(t, env.categorySvc.ChangeStatus(ctx(), admin, category.ID, env.suspendedStatusID))

	err := env.categorySvc.ChangeStatus(ctx(), admin, category.ID, 99999)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

// ==================== 受限视角 ====================

// 顾客与匿名只能看到行政状态 Active 且未软删的分类
func TestCustomerSeesOnlyActiveCategories(t *testing.T) {
	env := setupTestEnv(t)
	visible := env.mustCreateCategory(t, "饮料", 1)
	suspended := env.mustCreateCategory(t, "零食", 2)
	retired := env.mustCreateCategory(t, "杂货", 3)

	admin := superAdmin()
	require.NoError(t, env.categorySvc.ChangeStatus(ctx(), admin, suspended.ID, env.suspendedStatusID))
	require.NoError(t, env.categorySvc.Delete(ctx(), admin, retired.ID))

	buyer := customer(20)

	list, total, err := env.categorySvc.List(ctx(), buyer, repository.CategoryFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, visible.ID, list[0].ID)

	// 单查同理：挂起的行对顾客而言"不存在"
	_, err = env.categorySvc.Get(ctx(), buyer, suspended.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// 超管看得到
	got, err := env.categorySvc.Get(ctx(), admin, suspended.ID)
	require.NoError(t, err)
	assert.Equal(t, env.suspendedStatusID, got.StatusID)
}

// 匿名访问（p 为 nil）与顾客同视角
func TestAnonymousListCategories(t *testing.T) {
	env := setupTestEnv(t)
	env.mustCreateCategory(t, "饮料", 1)
	suspended := env.mustCreateCategory(t, "零食", 2)
	require.NoError(t, env.categorySvc.ChangeStatus(ctx(), superAdmin(), suspended.ID, env.suspendedStatusID))

	_, total, err := env.categorySvc.List(ctx(), nil, repository.CategoryFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
