package rest

import (
	"context"
	"encoding/json"
	"fmt"

	"supplyflow/cache"
	"supplyflow/domain"
	"supplyflow/logging"
)

// CachedResource 带读穿缓存的集合客户端
//
// 只缓存读路径（List/GetByID）；任何一次成功的写操作按集合前缀
// 整体失效，不做细粒度更新。缓存后端故障一律降级为直连后端，
// 记日志但不影响调用方。
type CachedResource[T domain.IObject[int64]] struct {
	inner   IResource[T]
	backend cache.IBackend
	name    string
	logger  logging.Logger
}

// NewCachedResource 用缓存后端装饰集合客户端
func NewCachedResource[T domain.IObject[int64]](inner IResource[T], backend cache.IBackend, collection string, logger logging.Logger) *CachedResource[T] {
	if logger == nil {
		logger = logging.GetLogger().WithFields(
			logging.String("component", "rest.cache"),
			logging.String("collection", collection))
	}

	return &CachedResource[T]{
		inner:   inner,
		backend: backend,
		name:    collection,
		logger:  logger,
	}
}

// List 分页查询，命中缓存时不发请求
func (r *CachedResource[T]) List(ctx context.Context, params SearchParams) (*Page[T], error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	key := r.listKey(params)
	var cached Page[T]
	if r.lookup(ctx, key, &cached) {
		return &cached, nil
	}

	page, err := r.inner.List(ctx, params)
	if err != nil {
		return nil, err
	}
	r.store(ctx, key, page)
	return page, nil
}

// GetByID 按 ID 读取，命中缓存时不发请求
func (r *CachedResource[T]) GetByID(ctx context.Context, id int64) (T, error) {
	key := r.itemKey(id)
	var cached T
	if r.lookup(ctx, key, &cached) {
		return cached, nil
	}

	entity, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return entity, err
	}
	r.store(ctx, key, entity)
	return entity, nil
}

// Create 创建实体并使集合缓存整体失效
func (r *CachedResource[T]) Create(ctx context.Context, entity T) (T, error) {
	created, err := r.inner.Create(ctx, entity)
	if err != nil {
		return created, err
	}
	r.invalidate(ctx)
	return created, nil
}

// Update 更新实体并使集合缓存整体失效
func (r *CachedResource[T]) Update(ctx context.Context, id int64, entity T) (T, error) {
	updated, err := r.inner.Update(ctx, id, entity)
	if err != nil {
		return updated, err
	}
	r.invalidate(ctx)
	return updated, nil
}

// Delete 删除实体并使集合缓存整体失效
func (r *CachedResource[T]) Delete(ctx context.Context, id int64) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedResource[T]) listKey(params SearchParams) string {
	return fmt.Sprintf("%s:list:%s", r.name, params.CacheKey())
}

func (r *CachedResource[T]) itemKey(id int64) string {
	return fmt.Sprintf("%s:id:%d", r.name, id)
}

// lookup 读缓存并解码；任何失败都按未命中处理
func (r *CachedResource[T]) lookup(ctx context.Context, key string, out any) bool {
	raw, ok, err := r.backend.Get(ctx, key)
	if err != nil {
		r.logger.Warn(ctx, "cache read failed", logging.String("key", key), logging.Error(err))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		r.logger.Warn(ctx, "cache entry corrupted", logging.String("key", key), logging.Error(err))
		return false
	}
	return true
}

func (r *CachedResource[T]) store(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	// ttl=0 使用后端默认 TTL
	if err := r.backend.Set(ctx, key, raw, 0); err != nil {
		r.logger.Warn(ctx, "cache write failed", logging.String("key", key), logging.Error(err))
	}
}

func (r *CachedResource[T]) invalidate(ctx context.Context) {
	if err := r.backend.DeletePrefix(ctx, r.name+":"); err != nil {
		r.logger.Warn(ctx, "cache invalidation failed", logging.Error(err))
	}
}
