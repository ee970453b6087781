// Package customers 提供客户模块的状态管线装配
//
// 把通用的 store 管线绑定到客户实体：注入客户集合客户端、跳转路由
// 与用户消息话术，并在派发入口处补上两道客户端护栏——提交前校验
// 与"有进行中订单不可删除"的前置检查（镜像服务端的 409 约束）。
package customers

import (
	"context"
	"fmt"
	"time"

	"supplyflow/logging"
	"supplyflow/model"
	"supplyflow/notify"
	"supplyflow/rest"
	"supplyflow/store"
)

// 路由约定
const (
	ListRoute = "/delivery/customers"
)

// DetailRoute 客户详情路由
func DetailRoute(id int64) string {
	return fmt.Sprintf("%s/%d", ListRoute, id)
}

// Config 客户模块配置
type Config struct {
	Resource rest.IResource[model.Customer]
	Notifier notify.INotifier

	// Navigator 为空时跳过导航副作用
	Navigator store.INavigator

	// Debounce 查询防抖窗口，<=0 时使用 store.DefaultDebounce
	Debounce time.Duration

	// QueueSize 动作队列长度，<=0 时使用 store 默认值
	QueueSize int

	Logger logging.Logger
}

// Feature 客户模块
type Feature struct {
	store     *store.Store[model.Customer]
	effects   *store.Effects[model.Customer]
	selectors *store.Selectors[model.Customer]
	notifier  notify.INotifier
	logger    logging.Logger
}

// New 装配客户模块
func New(cfg Config) *Feature {
	if cfg.Logger == nil {
		cfg.Logger = logging.GetLogger().WithFields(logging.String("component", "customers"))
	}

	s := store.NewStore[model.Customer](store.Config{
		QueueSize: cfg.QueueSize,
		Logger:    cfg.Logger,
	})
	effects := store.NewEffects(store.EffectsConfig[model.Customer]{
		Store:       s,
		Resource:    cfg.Resource,
		Notifier:    cfg.Notifier,
		Navigator:   cfg.Navigator,
		Routes:      store.Routes{List: ListRoute, Detail: DetailRoute},
		Debounce:    cfg.Debounce,
		EntityLabel: "客户",
		Logger:      cfg.Logger,
	})

	return &Feature{
		store:     s,
		effects:   effects,
		selectors: store.NewSelectors(s),
		notifier:  cfg.Notifier,
		logger:    cfg.Logger,
	}
}

// Start 启动状态管线
func (f *Feature) Start(ctx context.Context) {
	f.store.Start(ctx)
	f.effects.Start(ctx)
}

// Close 停止管线并等待在途请求退出
func (f *Feature) Close() error {
	if err := f.effects.Close(); err != nil {
		return err
	}
	return f.store.Close()
}

// Selectors 只读视图
func (f *Feature) Selectors() *store.Selectors[model.Customer] {
	return f.selectors
}

// SetSearchParams 变更查询参数（防抖后触发重载）
func (f *Feature) SetSearchParams(patch rest.Patch) {
	f.store.Dispatch(store.SetSearchParams[model.Customer](patch))
}

// ResetFilters 恢复默认查询参数
func (f *Feature) ResetFilters() {
	f.store.Dispatch(store.ResetFilters[model.Customer]())
}

// LoadList 立即触发列表加载
func (f *Feature) LoadList() {
	f.store.Dispatch(store.LoadList[model.Customer]())
}

// LoadByID 加载客户详情
func (f *Feature) LoadByID(id int64) {
	f.store.Dispatch(store.LoadByID[model.Customer](id))
}

// Select 直接选中一个已加载的客户（不发请求）
func (f *Feature) Select(customer model.Customer) {
	f.store.Dispatch(store.SelectEntity(customer))
}

// ClearSelected 清除选中客户
func (f *Feature) ClearSelected() {
	f.store.Dispatch(store.ClearSelected[model.Customer]())
}

// Create 校验后触发创建
//
// 校验失败时直接返回错误，不派发意图、不发网络请求。
func (f *Feature) Create(customer model.Customer) error {
	if err := customer.Validate(); err != nil {
		return err
	}
	f.store.Dispatch(store.Create(customer))
	return nil
}

// Update 校验后触发更新
func (f *Feature) Update(customer model.Customer) error {
	if err := customer.Validate(); err != nil {
		return err
	}
	f.store.Dispatch(store.Update(customer.ID, customer))
	return nil
}

// Delete 触发删除
//
// 有进行中订单的客户在客户端即被拦下：发一条警告通知、不派发
// 意图，与服务端的 409 依赖约束保持同一契约。
func (f *Feature) Delete(ctx context.Context, customer model.Customer) {
	if customer.HasActiveOrders {
		f.logger.Debug(ctx, "delete blocked by active orders",
			logging.Int64("customer_id", customer.ID))
		if f.notifier != nil {
			f.notifier.Notify(ctx, notify.Warn("无法删除",
				fmt.Sprintf("客户 %s 存在进行中的订单，无法删除", customer.Name)))
		}
		return
	}
	f.store.Dispatch(store.Delete[model.Customer](customer.ID))
}

// ResetLastOperation 清除最近操作记录
func (f *Feature) ResetLastOperation() {
	f.store.Dispatch(store.ResetLastOperation[model.Customer]())
}

// ClearError 显式清除错误
func (f *Feature) ClearError() {
	f.store.Dispatch(store.ClearError[model.Customer]())
}
