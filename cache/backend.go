// Package cache 提供远端资源响应缓存的统一抽象层
//
// 设计原则：
// 1. 简洁 - 只包含读穿缓存所必需的功能
// 2. 可插拔 - 同一接口下提供内存 / Redis / SQLite 三种实现
// 3. 整体失效 - 写操作成功后按集合前缀整体失效，不做细粒度更新
// 4. 失败降级 - 缓存故障只降级为直连远端，永不阻断业务请求
package cache

import (
	"context"
	"time"
)

// IBackend 缓存后端接口
//
// 值为序列化后的字节（调用方负责编解码），键为带集合前缀的
// 字符串（如 "customers:list:..."、"customers:id:7"）。
type IBackend interface {
	// Get 获取缓存值；未命中或已过期返回 found=false
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set 设置缓存值，ttl<=0 表示使用后端默认过期时间
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete 删除单个键
	Delete(ctx context.Context, key string) error

	// DeletePrefix 删除指定前缀的全部键（集合级失效）
	DeletePrefix(ctx context.Context, prefix string) error

	// Close 释放后端资源
	Close() error
}

// Stats 缓存统计信息
type Stats struct {
	Hits      int64 // 缓存命中次数
	Misses    int64 // 缓存未命中次数
	Evictions int64 // LRU 驱逐次数
	Expires   int64 // TTL 过期次数
	Size      int   // 当前条目数
}
