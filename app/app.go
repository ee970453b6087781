// Package app 装配整个客户端：认证、HTTP 客户端、响应缓存、
// 各集合客户端、通知中心与客户状态管线
//
// 装配遵循可插拔后端的约定：缓存可选内存/Redis/SQLite 三种实现，
// 通知可选挂接 NATS 发布器，调用方只面对统一接口。
package app

import (
	"context"
	"time"

	"supplyflow/auth"
	"supplyflow/cache"
	rediscache "supplyflow/cache/redis"
	sqlitecache "supplyflow/cache/sqlite"
	"supplyflow/customers"
	"supplyflow/domain"
	"supplyflow/errors"
	"supplyflow/logging"
	"supplyflow/model"
	"supplyflow/notify"
	"supplyflow/rest"
	"supplyflow/store"
)

// 缓存后端类型
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheSQLite = "sqlite"
)

// CacheConfig 响应缓存配置
type CacheConfig struct {
	// Kind 后端类型，默认 CacheMemory
	Kind string

	// TTL 条目过期时间，默认 5 分钟
	TTL time.Duration

	// MaxEntries 内存后端容量
	MaxEntries int

	// Redis 后端连接参数
	RedisAddr     string
	RedisUsername string
	RedisPassword string
	RedisDB       int

	// SQLiteDSN SQLite 后端数据源，如 "file:cache.db"
	SQLiteDSN string
}

// NotifyConfig 通知配置
type NotifyConfig struct {
	// NATSURL 非空时把通知镜像到 NATS 主题
	NATSURL string

	// NATSSubject 发布主题，默认由 notify 包决定
	NATSSubject string
}

// Config 应用配置
type Config struct {
	// BaseURL 后端 API 根地址
	BaseURL string

	// AuthProvider 认证提供方；为空时请求不带令牌
	AuthProvider auth.IProvider

	Cache  CacheConfig
	Notify NotifyConfig

	// Navigator 路由实现；为空时跳过导航副作用
	Navigator store.INavigator

	// Debounce 查询防抖窗口
	Debounce time.Duration

	// Timeout HTTP 请求超时
	Timeout time.Duration

	Logger logging.Logger
}

// App 应用根对象
type App struct {
	logger logging.Logger

	Auth          *auth.Manager
	Client        *rest.Client
	Notifications *notify.Center
	Customers     *customers.Feature

	// 其余模块的集合客户端
	CustomerOrders    rest.IResource[model.CustomerOrder]
	Deliveries        rest.IResource[model.Delivery]
	Products          rest.IResource[model.Product]
	BillsOfMaterials  rest.IResource[model.BillOfMaterial]
	ProductionOrders  rest.IResource[model.ProductionOrder]
	RawMaterials      rest.IResource[model.RawMaterial]
	Suppliers         rest.IResource[model.Supplier]
	SupplierMaterials rest.IResource[model.SupplierMaterial]
	SupplyOrders      rest.IResource[model.SupplyOrder]

	// Users 系统用户管理（管理模块）
	Users rest.IResource[model.User]

	cacheBackend cache.IBackend
	natsSink     *notify.NATSSink
}

// New 装配应用
func New(cfg Config) (*App, error) {
	if cfg.Logger == nil {
		cfg.Logger = logging.GetLogger().WithFields(logging.String("component", "app"))
	}

	a := &App{logger: cfg.Logger}

	if cfg.AuthProvider != nil {
		a.Auth = auth.NewManager(auth.ManagerConfig{Provider: cfg.AuthProvider})
	}

	var tokens rest.ITokenSource
	if a.Auth != nil {
		tokens = a.Auth
	}
	a.Client = rest.NewClient(rest.Config{
		BaseURL: cfg.BaseURL,
		Tokens:  tokens,
		Timeout: cfg.Timeout,
	})

	backend, err := newCacheBackend(cfg.Cache)
	if err != nil {
		return nil, err
	}
	a.cacheBackend = backend

	a.Notifications = notify.NewCenter(cfg.Logger)
	if cfg.Notify.NATSURL != "" {
		a.natsSink = notify.NewNATSSink(notify.NATSConfig{
			URL:     cfg.Notify.NATSURL,
			Subject: cfg.Notify.NATSSubject,
		})
		a.Notifications.AddSink(a.natsSink)
	}

	a.Customers = customers.New(customers.Config{
		Resource:  newResource[model.Customer](a, "customers"),
		Notifier:  a.Notifications,
		Navigator: cfg.Navigator,
		Debounce:  cfg.Debounce,
	})

	a.CustomerOrders = newResource[model.CustomerOrder](a, "customer-orders")
	a.Deliveries = newResource[model.Delivery](a, "deliveries")
	a.Products = newResource[model.Product](a, "products")
	a.BillsOfMaterials = newResource[model.BillOfMaterial](a, "bills-of-materials")
	a.ProductionOrders = newResource[model.ProductionOrder](a, "production-orders")
	a.RawMaterials = newResource[model.RawMaterial](a, "raw-materials")
	a.Suppliers = newResource[model.Supplier](a, "suppliers")
	a.SupplierMaterials = newResource[model.SupplierMaterial](a, "supplier-materials")
	a.SupplyOrders = newResource[model.SupplyOrder](a, "supply-orders")
	a.Users = newResource[model.User](a, "users")

	return a, nil
}

// newResource 创建集合客户端，按需套上缓存装饰器
func newResource[T domain.IObject[int64]](a *App, collection string) rest.IResource[T] {
	resource := rest.NewResource[T](a.Client, collection)
	if a.cacheBackend == nil {
		return resource
	}
	return rest.NewCachedResource[T](resource, a.cacheBackend, collection, nil)
}

func newCacheBackend(cfg CacheConfig) (cache.IBackend, error) {
	switch cfg.Kind {
	case CacheNone:
		return nil, nil

	case CacheRedis:
		return rediscache.NewBackend(rediscache.Config{
			Addr:     cfg.RedisAddr,
			Username: cfg.RedisUsername,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.TTL,
		})

	case CacheSQLite:
		return sqlitecache.NewBackend(sqlitecache.Config{
			DSN: cfg.SQLiteDSN,
			TTL: cfg.TTL,
		})

	case CacheMemory, "":
		return cache.NewMemoryBackend(cache.MemoryConfig{
			MaxEntries: cfg.MaxEntries,
			DefaultTTL: cfg.TTL,
		}), nil

	default:
		return nil, errors.NewError(errors.ErrCodeInvalidInput, "未知的缓存后端类型: "+cfg.Kind)
	}
}

// Start 启动应用
//
// 刷新认证快照（失败进入不可用状态而非报错）、连接通知发布器、
// 启动客户状态管线。
func (a *App) Start(ctx context.Context) error {
	if a.natsSink != nil {
		if err := a.natsSink.Start(ctx); err != nil {
			return err
		}
	}
	if a.Auth != nil {
		snapshot := a.Auth.Refresh(ctx)
		a.logger.Info(ctx, "auth state resolved",
			logging.String("state", snapshot.State.String()))
	}
	a.Customers.Start(ctx)
	return nil
}

// Close 按装配的相反顺序释放资源
func (a *App) Close() error {
	var firstErr error

	if err := a.Customers.Close(); err != nil {
		firstErr = err
	}
	if a.natsSink != nil {
		if err := a.natsSink.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.cacheBackend != nil {
		if err := a.cacheBackend.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
