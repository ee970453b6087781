// Package redis 提供基于 Redis 的缓存后端实现
// 适用于多实例部署下共享响应缓存的场景
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "supplyflow/errors"
	"supplyflow/logging"
)

// client captures the subset of go-redis commands we rely on (for easier testing).
type client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	Close() error
}

// Config 描述 Redis 缓存后端的连接与行为
type Config struct {
	Client    redis.UniversalClient
	Addr      string
	Username  string
	Password  string
	DB        int
	KeyPrefix string        // 键前缀，默认 "supplyflow:"
	TTL       time.Duration // 默认过期时间，默认 5 分钟
	ScanCount int64         // SCAN 每批数量，默认 100
	Logger    logging.Logger
}

// Backend 基于 Redis 的 cache.IBackend 实现
type Backend struct {
	cfg       Config
	client    client
	ownClient bool
	logger    logging.Logger
}

// NewBackend 创建 Redis 缓存后端
func NewBackend(cfg Config) (*Backend, error) {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "supplyflow:"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	if cfg.ScanCount <= 0 {
		cfg.ScanCount = 100
	}

	var cl client
	var own bool
	if cfg.Client != nil {
		cl = cfg.Client
	} else {
		options := &redis.Options{Addr: cfg.Addr, Username: cfg.Username, Password: cfg.Password, DB: cfg.DB}
		cl = redis.NewClient(options)
		own = true
	}
	if cl == nil {
		return nil, errors.New("redis client not configured")
	}

	if cfg.Logger == nil {
		cfg.Logger = logging.GetLogger().WithFields(logging.String("component", "cache.redis"))
	}

	return &Backend{
		cfg:       cfg,
		client:    cl,
		ownClient: own,
		logger:    cfg.Logger,
	}, nil
}

// Get 获取缓存值
func (b *Backend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := b.client.Get(ctx, b.cfg.KeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.WrapError(err, apperrors.ErrCodeCache, "redis 读取失败")
	}
	return value, true, nil
}

// Set 设置缓存值
func (b *Backend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = b.cfg.TTL
	}
	if err := b.client.Set(ctx, b.cfg.KeyPrefix+key, value, ttl).Err(); err != nil {
		return apperrors.WrapError(err, apperrors.ErrCodeCache, "redis 写入失败")
	}
	return nil
}

// Delete 删除单个键
func (b *Backend) Delete(ctx context.Context, key string) error {
	if err := b.client.Del(ctx, b.cfg.KeyPrefix+key).Err(); err != nil {
		return apperrors.WrapError(err, apperrors.ErrCodeCache, "redis 删除失败")
	}
	return nil
}

// DeletePrefix 删除指定前缀的全部键
//
// 使用 SCAN 分批遍历，避免在大键空间上执行 KEYS 阻塞服务。
func (b *Backend) DeletePrefix(ctx context.Context, prefix string) error {
	pattern := b.cfg.KeyPrefix + prefix + "*"
	var cursor uint64

	for {
		keys, next, err := b.client.Scan(ctx, cursor, pattern, b.cfg.ScanCount).Result()
		if err != nil {
			return apperrors.WrapError(err, apperrors.ErrCodeCache, "redis 扫描失败")
		}

		if len(keys) > 0 {
			if err := b.client.Del(ctx, keys...).Err(); err != nil {
				return apperrors.WrapError(err, apperrors.ErrCodeCache, "redis 批量删除失败")
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// Close 关闭连接（仅关闭自建的客户端）
func (b *Backend) Close() error {
	if b.ownClient {
		return b.client.Close()
	}
	return nil
}
