package store

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"supplyflow/domain"
	"supplyflow/errors"
	"supplyflow/logging"
	"supplyflow/notify"
	"supplyflow/rest"
)

// INavigator 导航接口（由外层路由实现）
type INavigator interface {
	Navigate(ctx context.Context, route string)
}

// NavigatorFunc 函数式导航实现
type NavigatorFunc func(ctx context.Context, route string)

func (f NavigatorFunc) Navigate(ctx context.Context, route string) { f(ctx, route) }

// Routes 写操作成功后的跳转目标
type Routes struct {
	// List 创建成功后跳转的列表路由
	List string

	// Detail 更新成功后跳转的详情路由
	Detail func(id int64) string
}

// DefaultDebounce 查询参数变化后的静默窗口
const DefaultDebounce = 500 * time.Millisecond

// EffectsConfig 效果编排器配置
type EffectsConfig[T domain.IObject[int64]] struct {
	Store    *Store[T]
	Resource rest.IResource[T]
	Notifier notify.INotifier

	// Navigator 为空时跳过导航副作用
	Navigator INavigator
	Routes    Routes

	// Debounce 查询防抖窗口，<=0 时使用 DefaultDebounce
	Debounce time.Duration

	// EntityLabel 用户消息中的实体名称，如 "客户"；默认 "记录"
	EntityLabel string

	Logger logging.Logger
}

// Effects 效果编排器
//
// 订阅存储的动作流：意图动作触发远端调用，结果以成功/失败动作回发。
// 并发策略集中在这里：
//   - 查询意图经防抖窗口合并，静默期后只触发一次列表加载
//   - 列表与详情加载为"最新者胜"：每次请求记录递增的代号，响应到达
//     时代号已被超越则整个丢弃——包括失败响应。被超越请求的错误不
//     派发失败动作也不产生通知，"每个失败恰好一条通知"只对未被
//     超越的请求成立
//   - 创建与更新为"忙时忽略"：同类请求在途时新意图直接丢弃，杜绝
//     双击重复提交
//   - 删除允许并发，各自独立完成并触发重载
//
// 失败从不自动重试，由用户重新触发。副作用（通知、导航）只存在于
// 这里，归约器保持纯净。
type Effects[T domain.IObject[int64]] struct {
	store     *Store[T]
	resource  rest.IResource[T]
	notifier  notify.INotifier
	navigator INavigator
	routes    Routes
	debounce  time.Duration
	label     string
	logger    logging.Logger

	ctx    context.Context
	cancel context.CancelFunc

	// 读槽位的请求代号：响应代号落后于当前代号即视为被超越
	listGen   atomic.Uint64
	detailGen atomic.Uint64

	// 写槽位的忙碌护栏
	createBusy atomic.Bool
	updateBusy atomic.Bool

	debounceMu    sync.Mutex
	debounceTimer *time.Timer

	wg        sync.WaitGroup
	startOnce sync.Once
	closeOnce sync.Once
}

// NewEffects 创建效果编排器
func NewEffects[T domain.IObject[int64]](cfg EffectsConfig[T]) *Effects[T] {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.EntityLabel == "" {
		cfg.EntityLabel = "记录"
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.GetLogger().WithFields(logging.String("component", "store.effects"))
	}

	return &Effects[T]{
		store:     cfg.Store,
		resource:  cfg.Resource,
		notifier:  cfg.Notifier,
		navigator: cfg.Navigator,
		routes:    cfg.Routes,
		debounce:  cfg.Debounce,
		label:     cfg.EntityLabel,
		logger:    cfg.Logger,
	}
}

// Start 订阅存储并开始处理动作
func (e *Effects[T]) Start(ctx context.Context) {
	e.startOnce.Do(func() {
		e.ctx, e.cancel = context.WithCancel(ctx)
		e.store.Subscribe(e.handle)
	})
}

// Close 取消在途请求并等待全部效果协程退出
func (e *Effects[T]) Close() error {
	e.closeOnce.Do(func() {
		if e.cancel != nil {
			e.cancel()
		}
		e.debounceMu.Lock()
		if e.debounceTimer != nil {
			e.debounceTimer.Stop()
		}
		e.debounceMu.Unlock()
	})
	e.wg.Wait()
	return nil
}

func (e *Effects[T]) handle(action Action[T], state State[T]) {
	switch action.Type {

	case TypeSetSearchParams, TypeResetFilters:
		e.scheduleReload()

	case TypeLoadList:
		e.loadList(state.Query)

	case TypeLoadByID:
		e.loadByID(action.EntityID)

	case TypeCreate:
		e.create(action.Entity)

	case TypeUpdate:
		e.update(action.EntityID, action.Entity)

	case TypeDelete:
		e.delete(action.EntityID)

	case TypeCreateSuccess:
		e.notifySuccess(fmt.Sprintf("%s创建成功", e.label))
		e.navigate(e.routes.List)
		e.store.Dispatch(LoadList[T]())

	case TypeUpdateSuccess:
		e.notifySuccess(fmt.Sprintf("%s更新成功", e.label))
		if e.routes.Detail != nil {
			e.navigate(e.routes.Detail(action.EntityID))
		}

	case TypeDeleteSuccess:
		e.notifySuccess(fmt.Sprintf("%s删除成功", e.label))
		e.store.Dispatch(LoadList[T]())

	case TypeLoadListFailure, TypeLoadByIDFailure,
		TypeCreateFailure, TypeUpdateFailure, TypeDeleteFailure:
		// 所有失败集中在这里转成恰好一条用户通知
		e.notifyFailure(action.Err)
	}
}

// scheduleReload 重置防抖定时器
//
// 连续的查询变更互相顶替，静默期满后只派发一次 loadList。
func (e *Effects[T]) scheduleReload() {
	e.debounceMu.Lock()
	defer e.debounceMu.Unlock()

	if e.debounceTimer != nil {
		e.debounceTimer.Stop()
	}
	e.debounceTimer = time.AfterFunc(e.debounce, func() {
		e.store.Dispatch(LoadList[T]())
	})
}

func (e *Effects[T]) loadList(query rest.SearchParams) {
	gen := e.listGen.Add(1)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		page, err := e.resource.List(e.ctx, query)
		if e.listGen.Load() != gen {
			// 已被更新的请求超越，丢弃
			e.logger.Debug(e.ctx, "stale list response discarded", logging.Uint64("generation", gen))
			return
		}
		if err != nil {
			e.store.Dispatch(LoadListFailure[T](e.toOpError(SlotList, err)))
			return
		}
		e.store.Dispatch(LoadListSuccess(page))
	}()
}

func (e *Effects[T]) loadByID(id int64) {
	gen := e.detailGen.Add(1)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		entity, err := e.resource.GetByID(e.ctx, id)
		if e.detailGen.Load() != gen {
			e.logger.Debug(e.ctx, "stale detail response discarded", logging.Uint64("generation", gen))
			return
		}
		if err != nil {
			e.store.Dispatch(LoadByIDFailure[T](e.toOpError(SlotDetail, err)))
			return
		}
		e.store.Dispatch(LoadByIDSuccess(entity))
	}()
}

func (e *Effects[T]) create(entity T) {
	if !e.createBusy.CompareAndSwap(false, true) {
		e.logger.Debug(e.ctx, "create already in flight, intent ignored")
		return
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer e.createBusy.Store(false)

		created, err := e.resource.Create(e.ctx, entity)
		if err != nil {
			e.store.Dispatch(CreateFailure[T](e.toOpError(SlotCreate, err)))
			return
		}
		e.store.Dispatch(CreateSuccess(created))
	}()
}

func (e *Effects[T]) update(id int64, entity T) {
	if !e.updateBusy.CompareAndSwap(false, true) {
		e.logger.Debug(e.ctx, "update already in flight, intent ignored")
		return
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer e.updateBusy.Store(false)

		updated, err := e.resource.Update(e.ctx, id, entity)
		if err != nil {
			e.store.Dispatch(UpdateFailure[T](e.toOpError(SlotUpdate, err)))
			return
		}
		e.store.Dispatch(UpdateSuccess(updated))
	}()
}

func (e *Effects[T]) delete(id int64) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		if err := e.resource.Delete(e.ctx, id); err != nil {
			e.store.Dispatch(DeleteFailure[T](e.toOpError(SlotDelete, err)))
			return
		}
		e.store.Dispatch(DeleteSuccess[T](id))
	}()
}

func (e *Effects[T]) navigate(route string) {
	if e.navigator == nil || route == "" {
		return
	}
	e.navigator.Navigate(e.ctx, route)
}

func (e *Effects[T]) notifySuccess(detail string) {
	if e.notifier == nil {
		return
	}
	e.notifier.Notify(e.ctx, notify.Success("操作成功", detail))
}

// notifyFailure 把结构化错误翻译成恰好一条用户通知
func (e *Effects[T]) notifyFailure(opErr *OpError) {
	if e.notifier == nil || opErr == nil {
		return
	}

	detail := opErr.Message

	switch {
	case opErr.Slot == SlotDelete && opErr.Status == http.StatusConflict:
		// 409 删除冲突有专门的话术，不落入通用失败文案
		detail = fmt.Sprintf("无法删除：该%s存在关联数据", e.label)

	case len(opErr.Fields) > 0:
		pairs := make([]string, 0, len(opErr.Fields))
		for field, message := range opErr.Fields {
			pairs = append(pairs, field+": "+message)
		}
		sort.Strings(pairs)
		detail = strings.Join(pairs, "；")

	case opErr.Detail != "":
		detail = opErr.Detail
	}

	if detail == "" {
		detail = "操作失败，请稍后重试"
	}

	e.notifier.Notify(e.ctx, notify.Error("操作失败", detail))
}

// toOpError 把客户端错误转成归约器可存储的结构化形式
func (e *Effects[T]) toOpError(slot Slot, err error) *OpError {
	return &OpError{
		Slot:    slot,
		Status:  errors.StatusOf(err),
		Message: err.Error(),
		Detail:  errors.DetailOf(err),
		Fields:  errors.FieldErrorsOf(err),
	}
}
