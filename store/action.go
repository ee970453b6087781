package store

import (
	"time"

	"github.com/google/uuid"

	"supplyflow/domain"
	"supplyflow/rest"
)

// Type 动作类型
type Type string

const (
	// 查询意图
	TypeSetSearchParams Type = "setSearchParams"
	TypeResetFilters    Type = "resetFilters"

	// 列表生命周期
	TypeLoadList        Type = "loadList"
	TypeLoadListSuccess Type = "loadListSuccess"
	TypeLoadListFailure Type = "loadListFailure"

	// 详情生命周期
	TypeLoadByID        Type = "loadById"
	TypeLoadByIDSuccess Type = "loadByIdSuccess"
	TypeLoadByIDFailure Type = "loadByIdFailure"
	TypeSelectEntity    Type = "selectEntity"
	TypeClearSelected   Type = "clearSelected"

	// 创建生命周期
	TypeCreate        Type = "create"
	TypeCreateSuccess Type = "createSuccess"
	TypeCreateFailure Type = "createFailure"

	// 更新生命周期
	TypeUpdate        Type = "update"
	TypeUpdateSuccess Type = "updateSuccess"
	TypeUpdateFailure Type = "updateFailure"

	// 删除生命周期
	TypeDelete        Type = "delete"
	TypeDeleteSuccess Type = "deleteSuccess"
	TypeDeleteFailure Type = "deleteFailure"

	// 工具动作
	TypeResetLastOperation Type = "resetLastOperation"
	TypeClearError         Type = "clearError"
)

// Action 一条动作消息
//
// 封闭集合中的带标签事件，只携带处理它所需的载荷。三组写生命周期
// 形状一致：意图带命令载荷，成功带结果实体（删除带 ID），失败带
// 结构化错误——这种一致性让归约器保持小巧、效果编排器保持通用。
type Action[T domain.IObject[int64]] struct {
	ID   string
	Type Type
	At   time.Time

	Patch    rest.Patch    // setSearchParams
	Page     *rest.Page[T] // loadListSuccess
	Entity   T             // 详情/创建/更新的载荷与结果
	EntityID int64         // loadById、update、delete
	Err      *OpError      // 各失败动作
}

func newAction[T domain.IObject[int64]](t Type) Action[T] {
	return Action[T]{ID: uuid.New().String(), Type: t, At: time.Now()}
}

// SetSearchParams 浅合并查询参数
func SetSearchParams[T domain.IObject[int64]](patch rest.Patch) Action[T] {
	a := newAction[T](TypeSetSearchParams)
	a.Patch = patch
	return a
}

// ResetFilters 恢复默认查询参数
func ResetFilters[T domain.IObject[int64]]() Action[T] {
	return newAction[T](TypeResetFilters)
}

// LoadList 触发列表加载
func LoadList[T domain.IObject[int64]]() Action[T] {
	return newAction[T](TypeLoadList)
}

// LoadListSuccess 列表加载成功
func LoadListSuccess[T domain.IObject[int64]](page *rest.Page[T]) Action[T] {
	a := newAction[T](TypeLoadListSuccess)
	a.Page = page
	return a
}

// LoadListFailure 列表加载失败
func LoadListFailure[T domain.IObject[int64]](err *OpError) Action[T] {
	a := newAction[T](TypeLoadListFailure)
	a.Err = err
	return a
}

// LoadByID 触发详情加载
func LoadByID[T domain.IObject[int64]](id int64) Action[T] {
	a := newAction[T](TypeLoadByID)
	a.EntityID = id
	return a
}

// LoadByIDSuccess 详情加载成功
func LoadByIDSuccess[T domain.IObject[int64]](entity T) Action[T] {
	a := newAction[T](TypeLoadByIDSuccess)
	a.Entity = entity
	return a
}

// LoadByIDFailure 详情加载失败
func LoadByIDFailure[T domain.IObject[int64]](err *OpError) Action[T] {
	a := newAction[T](TypeLoadByIDFailure)
	a.Err = err
	return a
}

// SelectEntity 直接选中一个已加载的实体（不发请求）
func SelectEntity[T domain.IObject[int64]](entity T) Action[T] {
	a := newAction[T](TypeSelectEntity)
	a.Entity = entity
	return a
}

// ClearSelected 清除选中实体
func ClearSelected[T domain.IObject[int64]]() Action[T] {
	return newAction[T](TypeClearSelected)
}

// Create 触发创建
func Create[T domain.IObject[int64]](entity T) Action[T] {
	a := newAction[T](TypeCreate)
	a.Entity = entity
	return a
}

// CreateSuccess 创建成功，携带服务端分配 ID 后的实体
func CreateSuccess[T domain.IObject[int64]](entity T) Action[T] {
	a := newAction[T](TypeCreateSuccess)
	a.Entity = entity
	a.EntityID = entity.GetID()
	return a
}

// CreateFailure 创建失败
func CreateFailure[T domain.IObject[int64]](err *OpError) Action[T] {
	a := newAction[T](TypeCreateFailure)
	a.Err = err
	return a
}

// Update 触发更新
func Update[T domain.IObject[int64]](id int64, entity T) Action[T] {
	a := newAction[T](TypeUpdate)
	a.EntityID = id
	a.Entity = entity
	return a
}

// UpdateSuccess 更新成功，携带服务端的最新实体
func UpdateSuccess[T domain.IObject[int64]](entity T) Action[T] {
	a := newAction[T](TypeUpdateSuccess)
	a.Entity = entity
	a.EntityID = entity.GetID()
	return a
}

// UpdateFailure 更新失败
func UpdateFailure[T domain.IObject[int64]](err *OpError) Action[T] {
	a := newAction[T](TypeUpdateFailure)
	a.Err = err
	return a
}

// Delete 触发删除
func Delete[T domain.IObject[int64]](id int64) Action[T] {
	a := newAction[T](TypeDelete)
	a.EntityID = id
	return a
}

// DeleteSuccess 删除成功
func DeleteSuccess[T domain.IObject[int64]](id int64) Action[T] {
	a := newAction[T](TypeDeleteSuccess)
	a.EntityID = id
	return a
}

// DeleteFailure 删除失败
func DeleteFailure[T domain.IObject[int64]](err *OpError) Action[T] {
	a := newAction[T](TypeDeleteFailure)
	a.Err = err
	return a
}

// ResetLastOperation 清除最近操作记录
func ResetLastOperation[T domain.IObject[int64]]() Action[T] {
	return newAction[T](TypeResetLastOperation)
}

// ClearError 显式清除错误
func ClearError[T domain.IObject[int64]]() Action[T] {
	return newAction[T](TypeClearError)
}
