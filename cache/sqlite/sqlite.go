// Package sqlite 提供基于 SQLite 的缓存后端实现
// 适用于桌面/CLI 客户端在重启之间保留响应缓存的场景
package sqlite

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	apperrors "supplyflow/errors"
	"supplyflow/logging"
)

// Config SQLite 缓存后端配置
type Config struct {
	// DSN 数据源，如 "file:cache.db" 或 ":memory:"
	DSN string

	// DB 复用已有连接；非空时忽略 DSN
	DB *sql.DB

	// TableName 表名，默认 "response_cache"
	TableName string

	// TTL 默认过期时间，默认 5 分钟
	TTL time.Duration

	Logger logging.Logger
}

// Backend 基于 SQLite 的 cache.IBackend 实现
type Backend struct {
	cfg    Config
	db     *sql.DB
	ownDB  bool
	logger logging.Logger
}

// NewBackend 创建 SQLite 缓存后端并初始化表结构
func NewBackend(cfg Config) (*Backend, error) {
	if cfg.TableName == "" {
		cfg.TableName = "response_cache"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.GetLogger().WithFields(logging.String("component", "cache.sqlite"))
	}

	db := cfg.DB
	var own bool
	if db == nil {
		opened, err := sql.Open("sqlite", cfg.DSN)
		if err != nil {
			return nil, apperrors.WrapError(err, apperrors.ErrCodeCache, "sqlite 打开失败")
		}
		db = opened
		own = true
	}

	backend := &Backend{cfg: cfg, db: db, ownDB: own, logger: cfg.Logger}
	if err := backend.createTable(); err != nil {
		if own {
			_ = db.Close()
		}
		return nil, err
	}
	return backend, nil
}

// createTable 初始化缓存表（幂等）
func (b *Backend) createTable() error {
	schema := `CREATE TABLE IF NOT EXISTS ` + b.cfg.TableName + ` (
		cache_key  TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		expires_at INTEGER NOT NULL
	)`
	if _, err := b.db.Exec(schema); err != nil {
		return apperrors.WrapError(err, apperrors.ErrCodeCache, "sqlite 建表失败")
	}
	return nil
}

// Get 获取缓存值；过期条目按未命中处理并顺带删除
func (b *Backend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	row := b.db.QueryRowContext(ctx,
		`SELECT value, expires_at FROM `+b.cfg.TableName+` WHERE cache_key = ?`, key)

	var value []byte
	var expiresAt int64
	err := row.Scan(&value, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.WrapError(err, apperrors.ErrCodeCache, "sqlite 读取失败")
	}

	if expiresAt > 0 && time.Now().UnixMilli() > expiresAt {
		_ = b.Delete(ctx, key)
		return nil, false, nil
	}
	return value, true, nil
}

// Set 设置缓存值（UPSERT 语义，幂等）
func (b *Backend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = b.cfg.TTL
	}
	expiresAt := time.Now().Add(ttl).UnixMilli()

	_, err := b.db.ExecContext(ctx,
		`INSERT INTO `+b.cfg.TableName+` (cache_key, value, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(cache_key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, value, expiresAt)
	if err != nil {
		return apperrors.WrapError(err, apperrors.ErrCodeCache, "sqlite 写入失败")
	}
	return nil
}

// Delete 删除单个键
func (b *Backend) Delete(ctx context.Context, key string) error {
	_, err := b.db.ExecContext(ctx,
		`DELETE FROM `+b.cfg.TableName+` WHERE cache_key = ?`, key)
	if err != nil {
		return apperrors.WrapError(err, apperrors.ErrCodeCache, "sqlite 删除失败")
	}
	return nil
}

// DeletePrefix 删除指定前缀的全部键
func (b *Backend) DeletePrefix(ctx context.Context, prefix string) error {
	// LIKE 模式中转义 % 与 _，前缀本身可能包含下划线
	escaped := escapeLike(prefix)
	_, err := b.db.ExecContext(ctx,
		`DELETE FROM `+b.cfg.TableName+` WHERE cache_key LIKE ? ESCAPE '\'`, escaped+"%")
	if err != nil {
		return apperrors.WrapError(err, apperrors.ErrCodeCache, "sqlite 批量删除失败")
	}
	return nil
}

// CleanExpired 清理过期条目，返回清理数量
func (b *Backend) CleanExpired(ctx context.Context) (int64, error) {
	result, err := b.db.ExecContext(ctx,
		`DELETE FROM `+b.cfg.TableName+` WHERE expires_at > 0 AND expires_at < ?`,
		time.Now().UnixMilli())
	if err != nil {
		return 0, apperrors.WrapError(err, apperrors.ErrCodeCache, "sqlite 过期清理失败")
	}
	affected, _ := result.RowsAffected()
	return affected, nil
}

// Close 关闭数据库（仅关闭自建连接）
func (b *Backend) Close() error {
	if b.ownDB {
		return b.db.Close()
	}
	return nil
}

// escapeLike 转义 LIKE 模式中的特殊字符
func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '%' || c == '_' || c == '\\' {
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	return string(out)
}
