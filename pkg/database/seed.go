package database

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"mart_admin_v1_202608/internal/model"
)

// SeedStatuses 写入状态字典
// 幂等：已存在的名称跳过；服务层依赖这些行，缺失按部署错误处理
func SeedStatuses(db *gorm.DB) error {
	names := []string{
		model.StatusActive,
		model.StatusSuspended,
		model.StatusInactive,
		model.StatusPending,
	}
	for _, name := range names {
		if err := db.Where(model.Status{Name: name}).
			FirstOrCreate(&model.Status{Name: name}).Error; err != nil {
			return err
		}
	}
	log.Printf("[SEED] 状态字典就绪 (%d 项)", len(names))
	return nil
}

// SeedSuperAdmin 写入默认超管账号
// 幂等：用户名已存在则不动（包括密码，避免覆盖线上改过的密码）
func SeedSuperAdmin(db *gorm.DB, username, password string) error {
	var count int64
	if err := db.Model(&model.SysUser{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &model.SysUser{
		Username: username,
		Password: string(hashed),
		Role:     model.RoleSuperAdmin,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		return err
	}

	log.Printf("[SEED] 默认超管已创建 username=%s (请尽快修改初始密码)", username)
	return nil
}
