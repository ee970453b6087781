package store

import (
	"sync"

	"supplyflow/domain"
	"supplyflow/rest"
)

// PaginationInfo 分页摘要
type PaginationInfo struct {
	TotalElements int64
	TotalPages    int
	Page          int
	Size          int
}

// Selectors 派生读视图
//
// 所有读取都经由这里，从不直接触碰原始状态。派生值按状态版本号
// 记忆化：版本未变时返回缓存结果，切片保持原引用，下游可用引用
// 比较跳过多余的重算。
type Selectors[T domain.IObject[int64]] struct {
	store *Store[T]

	mu       sync.Mutex
	version  uint64
	hasCache bool
	cached   derived[T]
}

type derived[T domain.IObject[int64]] struct {
	items      []T
	selected   *T
	query      rest.SearchParams
	pagination PaginationInfo
	isBusy     bool
	err        *OpError
	lastOp     LastOperation
}

// NewSelectors 创建选择器
func NewSelectors[T domain.IObject[int64]](store *Store[T]) *Selectors[T] {
	return &Selectors[T]{store: store}
}

// snapshot 取当前派生视图，版本未变时复用缓存
func (s *Selectors[T]) snapshot() derived[T] {
	state := s.store.State()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasCache && state.Version == s.version {
		return s.cached
	}

	s.cached = derived[T]{
		items:    state.Items,
		selected: state.Selected,
		query:    state.Query,
		pagination: PaginationInfo{
			TotalElements: state.TotalElements,
			TotalPages:    state.TotalPages,
			Page:          state.Query.Page,
			Size:          state.Query.Size,
		},
		isBusy: state.Flags.Any(),
		err:    state.Err,
		lastOp: state.LastOp,
	}
	s.version = state.Version
	s.hasCache = true
	return s.cached
}

// Items 当前页数据
func (s *Selectors[T]) Items() []T { return s.snapshot().items }

// Selected 当前选中实体
func (s *Selectors[T]) Selected() *T { return s.snapshot().selected }

// Query 当前查询参数
func (s *Selectors[T]) Query() rest.SearchParams { return s.snapshot().query }

// PaginationInfo 分页摘要
func (s *Selectors[T]) PaginationInfo() PaginationInfo { return s.snapshot().pagination }

// IsBusy 是否有任一操作在途
func (s *Selectors[T]) IsBusy() bool { return s.snapshot().isBusy }

// Error 当前错误，无错误时为 nil
func (s *Selectors[T]) Error() *OpError { return s.snapshot().err }

// LastOperation 最近一次写操作的结果
func (s *Selectors[T]) LastOperation() LastOperation { return s.snapshot().lastOp }
