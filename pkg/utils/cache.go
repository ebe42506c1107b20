package utils

import (
	"sync"
	"time"
)

// Cache 进程内字符串缓存，sync.Map 保证并发安全
// 每个使用方持有自己的实例，互不串数据；
// 目前主要给状态字典查询兜底（字典基本只读，启动 seed 后不变）
type Cache struct {
	items sync.Map
	ttl   time.Duration
}

// cacheItem 内部结构，包含值和过期时间
type cacheItem struct {
	value      string
	expiration int64
}

// NewCache 创建缓存，条目在 ttl 后过期
func NewCache(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl}
}

// Set 设置缓存
func (c *Cache) Set(key string, value string) {
	c.items.Store(key, cacheItem{
		value:      value,
		expiration: time.Now().Add(c.ttl).Unix(),
	})
}

// Get 获取缓存并验证是否过期
func (c *Cache) Get(key string) (string, bool) {
	val, ok := c.items.Load(key)
	if !ok {
		return "", false
	}

	item := val.(cacheItem)

	// 过期走懒删除
	if time.Now().Unix() > item.expiration {
		c.items.Delete(key)
		return "", false
	}

	return item.value, true
}
