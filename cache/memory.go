package cache

import (
	"container/list"
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryBackend 进程内缓存实现
//
// 核心特性：
//   - LRU 驱逐：超过容量时删除最久未使用的条目
//   - TTL 过期：写入时记录过期时刻，读取时惰性清理
//   - 并发安全：单一互斥锁保护 map 与 LRU 链表
//
// 适用于单实例部署；多实例共享缓存请使用 Redis 后端。
type MemoryBackend struct {
	config MemoryConfig

	items   map[string]*memoryEntry
	lruList *list.List // 最近使用的在前

	mu    sync.Mutex
	stats Stats
}

// memoryEntry 缓存条目
type memoryEntry struct {
	key        string
	value      []byte
	expiresAt  time.Time // 零值表示永不过期
	lruElement *list.Element
}

// MemoryConfig 内存缓存配置
type MemoryConfig struct {
	// MaxEntries 最大条目数，<=0 时使用默认 1000
	MaxEntries int

	// DefaultTTL 默认过期时间，Set 未指定 ttl 时生效；<=0 表示永不过期
	DefaultTTL time.Duration
}

// NewMemoryBackend 创建内存缓存后端
func NewMemoryBackend(config MemoryConfig) *MemoryBackend {
	if config.MaxEntries <= 0 {
		config.MaxEntries = 1000
	}

	return &MemoryBackend{
		config:  config,
		items:   make(map[string]*memoryEntry),
		lruList: list.New(),
	}
}

// Get 获取缓存值
//
// Get 会更新 LRU 位置与统计信息，因此持写锁执行。
func (b *MemoryBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, exists := b.items[key]
	if !exists {
		b.stats.Misses++
		return nil, false, nil
	}

	// 惰性过期清理
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		b.removeLocked(entry)
		b.stats.Misses++
		b.stats.Expires++
		return nil, false, nil
	}

	b.lruList.MoveToFront(entry.lruElement)
	b.stats.Hits++
	return entry.value, true, nil
}

// Set 设置缓存值
func (b *MemoryBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ttl <= 0 {
		ttl = b.config.DefaultTTL
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	if entry, exists := b.items[key]; exists {
		entry.value = value
		entry.expiresAt = expiresAt
		b.lruList.MoveToFront(entry.lruElement)
		return nil
	}

	// 容量已满时驱逐最久未使用的条目
	if len(b.items) >= b.config.MaxEntries {
		if oldest := b.lruList.Back(); oldest != nil {
			b.removeLocked(oldest.Value.(*memoryEntry))
			b.stats.Evictions++
		}
	}

	entry := &memoryEntry{key: key, value: value, expiresAt: expiresAt}
	entry.lruElement = b.lruList.PushFront(entry)
	b.items[key] = entry
	return nil
}

// Delete 删除单个键
func (b *MemoryBackend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if entry, exists := b.items[key]; exists {
		b.removeLocked(entry)
	}
	return nil
}

// DeletePrefix 删除指定前缀的全部键
func (b *MemoryBackend) DeletePrefix(ctx context.Context, prefix string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for key, entry := range b.items {
		if strings.HasPrefix(key, prefix) {
			b.removeLocked(entry)
		}
	}
	return nil
}

// Close 释放资源（内存实现仅清空）
func (b *MemoryBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.items = make(map[string]*memoryEntry)
	b.lruList = list.New()
	return nil
}

// Stats 获取统计信息（副本）
func (b *MemoryBackend) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()

	stats := b.stats
	stats.Size = len(b.items)
	return stats
}

// removeLocked 删除条目（需要持锁调用）
func (b *MemoryBackend) removeLocked(entry *memoryEntry) {
	if entry.lruElement != nil {
		b.lruList.Remove(entry.lruElement)
	}
	delete(b.items, entry.key)
}
