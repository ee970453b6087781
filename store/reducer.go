package store

import (
	"supplyflow/domain"
	"supplyflow/rest"
)

// Reduce 纯状态转换函数
//
// 对每个 (state, action) 组合恰好定义一个后继状态；未知动作是恒等
// 变换。从不修改入参：需要变更的切片先拷贝，未触及的字段保持原
// 引用。错误清除策略：任何意图为新尝试清除错误，任何成功也清除
// 错误——单一错误槽永远只展示最近一次失败。
func Reduce[T domain.IObject[int64]](state State[T], action Action[T]) State[T] {
	next := state

	switch action.Type {

	case TypeSetSearchParams:
		next.Query = state.Query.Merge(action.Patch)

	case TypeResetFilters:
		next.Query = rest.DefaultSearchParams()

	case TypeLoadList:
		next.Flags.List = true
		next.Err = nil

	case TypeLoadListSuccess:
		next.Flags.List = false
		next.Err = nil
		next.Items = action.Page.Content
		next.TotalElements = action.Page.TotalElements
		next.TotalPages = action.Page.TotalPages

	case TypeLoadListFailure:
		next.Flags.List = false
		next.Err = action.Err

	case TypeLoadByID:
		next.Flags.Detail = true
		next.Err = nil

	case TypeLoadByIDSuccess:
		next.Flags.Detail = false
		next.Err = nil
		entity := action.Entity
		next.Selected = &entity

	case TypeLoadByIDFailure:
		next.Flags.Detail = false
		next.Err = action.Err

	case TypeSelectEntity:
		entity := action.Entity
		next.Selected = &entity

	case TypeClearSelected:
		next.Selected = nil

	case TypeCreate:
		next.Flags.Create = true
		next.Err = nil

	case TypeCreateSuccess:
		// 不直接改列表，由效果编排器触发重载
		next.Flags.Create = false
		next.Err = nil
		next.LastOp = LastOperation{Slot: SlotCreate, Status: OpStatusSuccess, EntityID: action.EntityID}

	case TypeCreateFailure:
		next.Flags.Create = false
		next.Err = action.Err
		next.LastOp = LastOperation{Slot: SlotCreate, Status: OpStatusFailure}

	case TypeUpdate:
		next.Flags.Update = true
		next.Err = nil

	case TypeUpdateSuccess:
		next.Flags.Update = false
		next.Err = nil
		next.Items = patchByID(state.Items, action.Entity)
		if state.Selected != nil && (*state.Selected).GetID() == action.Entity.GetID() {
			entity := action.Entity
			next.Selected = &entity
		}
		next.LastOp = LastOperation{Slot: SlotUpdate, Status: OpStatusSuccess, EntityID: action.EntityID}

	case TypeUpdateFailure:
		next.Flags.Update = false
		next.Err = action.Err
		next.LastOp = LastOperation{Slot: SlotUpdate, Status: OpStatusFailure}

	case TypeDelete:
		next.Flags.Delete = true
		next.Err = nil

	case TypeDeleteSuccess:
		next.Flags.Delete = false
		next.Err = nil
		next.Items = removeByID(state.Items, action.EntityID)
		next.LastOp = LastOperation{Slot: SlotDelete, Status: OpStatusSuccess, EntityID: action.EntityID}

	case TypeDeleteFailure:
		next.Flags.Delete = false
		next.Err = action.Err
		next.LastOp = LastOperation{Slot: SlotDelete, Status: OpStatusFailure}

	case TypeResetLastOperation:
		next.LastOp = LastOperation{}

	case TypeClearError:
		next.Err = nil

	default:
		return state
	}

	next.Version = state.Version + 1
	return next
}

// patchByID 按 ID 替换元素，返回新切片；无匹配时返回原切片
func patchByID[T domain.IObject[int64]](items []T, entity T) []T {
	for i, item := range items {
		if item.GetID() == entity.GetID() {
			patched := make([]T, len(items))
			copy(patched, items)
			patched[i] = entity
			return patched
		}
	}
	return items
}

// removeByID 按 ID 移除元素，返回新切片；无匹配时返回原切片（幂等）
func removeByID[T domain.IObject[int64]](items []T, id int64) []T {
	for i, item := range items {
		if item.GetID() == id {
			filtered := make([]T, 0, len(items)-1)
			filtered = append(filtered, items[:i]...)
			filtered = append(filtered, items[i+1:]...)
			return filtered
		}
	}
	return items
}
