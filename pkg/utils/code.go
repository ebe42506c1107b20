package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenCode 生成业务编码，如 CAT-3F2A9B1C / PRD-0D4E7F21
// 取 uuid 前 8 个十六进制字符，碰撞概率由数据库唯一索引兜底
func GenCode(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "-" + strings.ToUpper(id[:8])
}
