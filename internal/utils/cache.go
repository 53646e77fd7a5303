package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CacheItem 包装实际的数据，增加过期时间
type CacheItem[T any] struct {
	Value     T
	ExpiredAt time.Time
}

// TTLCache 带过期时间的 LRU 缓存
type TTLCache[K comparable, T any] struct {
	storage *lru.Cache[K, CacheItem[T]]
	ttl     time.Duration
	now     func() time.Time
}

// NewTTLCache size 是最大缓存条数，ttl 是数据有效期
func NewTTLCache[K comparable, T any](size int, ttl time.Duration) (*TTLCache[K, T], error) {
	c, err := lru.New[K, CacheItem[T]](size)
	if err != nil {
		return nil, err
	}
	return &TTLCache[K, T]{
		storage: c,
		ttl:     ttl,
		now:     time.Now,
	}, nil
}

// Set 写入或覆盖
func (c *TTLCache[K, T]) Set(key K, value T) {
	c.storage.Add(key, CacheItem[T]{
		Value:     value,
		ExpiredAt: c.now().Add(c.ttl),
	})
}

// Get 读取，过期条目会被顺手删除
func (c *TTLCache[K, T]) Get(key K) (T, bool) {
	var zero T
	item, ok := c.storage.Get(key)
	if !ok {
		return zero, false
	}

	if c.now().After(item.ExpiredAt) {
		c.storage.Remove(key)
		return zero, false
	}

	return item.Value, true
}

// Delete 删除
func (c *TTLCache[K, T]) Delete(key K) {
	c.storage.Remove(key)
}

// Clear 清空
func (c *TTLCache[K, T]) Clear() {
	c.storage.Purge()
}

// Len 当前条数（包含尚未清理的过期条目）
func (c *TTLCache[K, T]) Len() int {
	return c.storage.Len()
}
