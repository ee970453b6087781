package rest

import (
	"context"
	"fmt"
	"net/http"

	"supplyflow/domain"
)

// Page 分页结果
//
// 字段与后端分页响应一一对应，整页替换、从不增量修改。
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Size          int   `json:"size"`
	Number        int   `json:"number"`
}

// IResource 单一集合的 CRUD 客户端接口
//
// CachedResource 装饰器与测试替身都实现此接口。
type IResource[T domain.IObject[int64]] interface {
	List(ctx context.Context, params SearchParams) (*Page[T], error)
	GetByID(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, entity T) (T, error)
	Update(ctx context.Context, id int64, entity T) (T, error)
	Delete(ctx context.Context, id int64) error
}

// Resource 泛型集合客户端
//
// 对应后端的一个集合端点（如 /customers）。除网络调用外无任何
// 副作用，永不自动重试。
type Resource[T domain.IObject[int64]] struct {
	client *Client
	path   string // 如 "/customers"
	name   string // 缓存键与日志中的集合名，如 "customers"
}

// NewResource 创建集合客户端
//
// collection 为集合名（不含斜杠），如 "customers"。
func NewResource[T domain.IObject[int64]](client *Client, collection string) *Resource[T] {
	return &Resource[T]{
		client: client,
		path:   "/" + collection,
		name:   collection,
	}
}

// Name 返回集合名
func (r *Resource[T]) Name() string { return r.name }

// List 分页查询
func (r *Resource[T]) List(ctx context.Context, params SearchParams) (*Page[T], error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	var page Page[T]
	if err := r.client.do(ctx, http.MethodGet, r.path, params.Values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetByID 按 ID 读取
func (r *Resource[T]) GetByID(ctx context.Context, id int64) (T, error) {
	var entity T
	err := r.client.do(ctx, http.MethodGet, r.itemPath(id), nil, nil, &entity)
	return entity, err
}

// Create 创建实体，服务端分配 ID
func (r *Resource[T]) Create(ctx context.Context, entity T) (T, error) {
	var created T
	err := r.client.do(ctx, http.MethodPost, r.path, nil, entity, &created)
	return created, err
}

// Update 更新实体，返回服务端的最新快照
func (r *Resource[T]) Update(ctx context.Context, id int64, entity T) (T, error) {
	var updated T
	err := r.client.do(ctx, http.MethodPut, r.itemPath(id), nil, entity, &updated)
	return updated, err
}

// Delete 删除实体；存在依赖时后端返回 409
func (r *Resource[T]) Delete(ctx context.Context, id int64) error {
	return r.client.do(ctx, http.MethodDelete, r.itemPath(id), nil, nil, nil)
}

func (r *Resource[T]) itemPath(id int64) string {
	return fmt.Sprintf("%s/%d", r.path, id)
}
