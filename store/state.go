// Package store 提供单向数据流的客户端状态管线
//
// 管线由四部分组成：
//   - 动作（action.go）：封闭的意图/结果事件集合
//   - 状态与归约器（state.go / reducer.go）：唯一的状态变更入口，纯函数
//   - 效果编排器（effects.go）：监听意图、调用远端客户端、回发结果动作，
//     负责防抖、并发策略与用户通知
//   - 选择器（selectors.go）：带记忆化的派生读视图
//
// 状态是单写多读的：归约器是唯一写者，读者只通过选择器取快照，
// 从不持有可变引用。
package store

import (
	"supplyflow/domain"
	"supplyflow/rest"
)

// Slot 操作槽位
//
// 每个槽位是一条独立的操作通道，有自己的加载标志。
type Slot string

const (
	SlotList   Slot = "list"
	SlotDetail Slot = "detail"
	SlotCreate Slot = "create"
	SlotUpdate Slot = "update"
	SlotDelete Slot = "delete"
)

// Flags 各槽位的在途标志
//
// 不变式：意图派发时置真，对应的成功/失败结果到达时置假，
// 不存在永久悬挂的标志。
type Flags struct {
	List   bool
	Detail bool
	Create bool
	Update bool
	Delete bool
}

// Any 是否有任一操作在途
func (f Flags) Any() bool {
	return f.List || f.Detail || f.Create || f.Update || f.Delete
}

// OpStatus 最近操作的结果状态
type OpStatus string

const (
	OpStatusNone    OpStatus = ""
	OpStatusSuccess OpStatus = "success"
	OpStatusFailure OpStatus = "failure"
)

// LastOperation 最近一次写操作的结果
//
// 只服务于 UI 反馈（提示内容、跳转决策），不影响查询与数据的正确性。
type LastOperation struct {
	Slot     Slot
	Status   OpStatus
	EntityID int64
}

// OpError 结构化的操作错误
//
// 归约器只存储、不解释；到用户消息的翻译发生在效果编排器。
type OpError struct {
	Slot    Slot
	Status  int
	Message string
	Detail  string
	Fields  map[string]string
}

// State 状态快照
//
// 整个快照不可变：归约器每次都返回新值，切片与指针只在对应槽位
// 变化时才替换，未触及的部分保持原引用，便于下游做引用比较。
type State[T domain.IObject[int64]] struct {
	// Query 当前查询参数，仅由 setSearchParams/resetFilters 替换
	Query rest.SearchParams

	// Items 当前页数据，列表成功时整页替换
	Items         []T
	TotalElements int64
	TotalPages    int

	// Selected 当前选中的实体，详情成功时替换
	Selected *T

	Flags   Flags
	Err     *OpError
	LastOp  LastOperation
	Version uint64
}

// NewState 返回初始状态
func NewState[T domain.IObject[int64]]() State[T] {
	return State[T]{Query: rest.DefaultSearchParams()}
}
