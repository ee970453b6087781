package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"supplyflow/model"
	"supplyflow/rest"
)

func listOf(customers ...model.Customer) *rest.Page[model.Customer] {
	return &rest.Page[model.Customer]{
		Content:       customers,
		TotalElements: int64(len(customers)),
		TotalPages:    1,
		Size:          10,
		Number:        0,
	}
}

func stateWith(customers ...model.Customer) State[model.Customer] {
	return Reduce(NewState[model.Customer](), LoadListSuccess(listOf(customers...)))
}

func TestReduce_PureAndDoesNotMutateInput(t *testing.T) {
	initial := stateWith(
		model.Customer{ID: 1, Name: "Acme"},
		model.Customer{ID: 2, Name: "Globex"},
	)
	action := UpdateSuccess(model.Customer{ID: 1, Name: "Renamed"})

	first := Reduce(initial, action)
	second := Reduce(initial, action)

	// 两次调用结果结构相同，入参不变
	require.Equal(t, first.Items, second.Items)
	require.Equal(t, "Acme", initial.Items[0].Name)
	require.Equal(t, "Renamed", first.Items[0].Name)
}

func TestReduce_UnknownActionIsIdentity(t *testing.T) {
	initial := stateWith(model.Customer{ID: 1, Name: "Acme"})

	next := Reduce(initial, Action[model.Customer]{Type: "unknown"})

	require.Equal(t, initial, next)
}

func TestReduce_FlagSymmetry(t *testing.T) {
	type flagOf func(Flags) bool
	cases := []struct {
		name            string
		intent, resolve Action[model.Customer]
		flag            flagOf
	}{
		{"list", LoadList[model.Customer](), LoadListSuccess(listOf()), func(f Flags) bool { return f.List }},
		{"detail", LoadByID[model.Customer](1), LoadByIDSuccess(model.Customer{ID: 1}), func(f Flags) bool { return f.Detail }},
		{"create", Create(model.Customer{}), CreateSuccess(model.Customer{ID: 1}), func(f Flags) bool { return f.Create }},
		{"update", Update(1, model.Customer{ID: 1}), UpdateSuccess(model.Customer{ID: 1}), func(f Flags) bool { return f.Update }},
		{"delete", Delete[model.Customer](1), DeleteSuccess[model.Customer](1), func(f Flags) bool { return f.Delete }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			state := NewState[model.Customer]()
			require.False(t, tc.flag(state.Flags))

			state = Reduce(state, tc.intent)
			require.True(t, tc.flag(state.Flags))

			state = Reduce(state, tc.resolve)
			require.False(t, tc.flag(state.Flags))
		})
	}
}

func TestReduce_FailureClearsFlagAndStoresError(t *testing.T) {
	state := Reduce(NewState[model.Customer](), LoadList[model.Customer]())
	failure := &OpError{Slot: SlotList, Status: 500, Message: "服务器错误"}

	state = Reduce(state, LoadListFailure[model.Customer](failure))

	require.False(t, state.Flags.List)
	require.Equal(t, failure, state.Err)
}

func TestReduce_IntentClearsStaleError(t *testing.T) {
	state := NewState[model.Customer]()
	state.Err = &OpError{Slot: SlotCreate, Status: 400, Message: "校验失败"}

	state = Reduce(state, LoadList[model.Customer]())

	require.Nil(t, state.Err)
}

func TestReduce_AnySuccessClearsError(t *testing.T) {
	state := NewState[model.Customer]()
	state.Err = &OpError{Slot: SlotDelete, Status: 409, Message: "冲突"}

	// 不同槽位的成功同样清除共享错误槽
	state = Reduce(state, LoadListSuccess(listOf()))

	require.Nil(t, state.Err)
}

func TestReduce_ListReplacementIdempotent(t *testing.T) {
	page := listOf(model.Customer{ID: 1}, model.Customer{ID: 2})

	state := stateWith(model.Customer{ID: 9})
	state = Reduce(state, LoadListSuccess(page))
	state = Reduce(state, LoadListSuccess(page))

	require.Equal(t, page.Content, state.Items)
	require.Equal(t, int64(2), state.TotalElements)
	require.Equal(t, 1, state.TotalPages)
}

func TestReduce_UpdatePatchesOnlyMatchingItem(t *testing.T) {
	initial := stateWith(
		model.Customer{ID: 3, Name: "Acme"},
		model.Customer{ID: 5, Name: "Globex"},
		model.Customer{ID: 7, Name: "Initech"},
	)

	next := Reduce(initial, UpdateSuccess(model.Customer{ID: 5, Name: "X"}))

	require.Equal(t, "X", next.Items[1].Name)
	require.Equal(t, initial.Items[0], next.Items[0])
	require.Equal(t, initial.Items[2], next.Items[2])
	require.Equal(t, LastOperation{Slot: SlotUpdate, Status: OpStatusSuccess, EntityID: 5}, next.LastOp)
}

func TestReduce_UpdatePatchesSelectedOnIDMatch(t *testing.T) {
	state := stateWith(model.Customer{ID: 5, Name: "Globex"})
	state = Reduce(state, LoadByIDSuccess(model.Customer{ID: 5, Name: "Globex"}))

	next := Reduce(state, UpdateSuccess(model.Customer{ID: 5, Name: "X"}))
	require.Equal(t, "X", next.Selected.Name)

	// ID 不匹配时选中实体不动
	other := Reduce(state, UpdateSuccess(model.Customer{ID: 9, Name: "Y"}))
	require.Equal(t, "Globex", other.Selected.Name)
}

func TestReduce_DeleteRemovalIdempotent(t *testing.T) {
	initial := stateWith(
		model.Customer{ID: 1},
		model.Customer{ID: 2},
		model.Customer{ID: 3},
	)

	once := Reduce(initial, DeleteSuccess[model.Customer](2))
	require.Len(t, once.Items, 2)
	for _, item := range once.Items {
		require.NotEqual(t, int64(2), item.ID)
	}

	// 再删同一 ID：列表不变（幂等）
	twice := Reduce(once, DeleteSuccess[model.Customer](2))
	require.Equal(t, once.Items, twice.Items)
}

func TestReduce_SetSearchParamsMergesAndResetsPage(t *testing.T) {
	state := NewState[model.Customer]()
	state = Reduce(state, SetSearchParams[model.Customer](rest.Patch{Page: rest.IntPtr(4)}))
	require.Equal(t, 4, state.Query.Page)

	// 搜索词变化时页码归零
	state = Reduce(state, SetSearchParams[model.Customer](rest.Patch{Search: rest.StringPtr("acme")}))
	require.Equal(t, 0, state.Query.Page)
	require.Equal(t, "acme", state.Query.Search)
}

func TestReduce_ResetFiltersRestoresDefaults(t *testing.T) {
	state := NewState[model.Customer]()
	state = Reduce(state, SetSearchParams[model.Customer](rest.Patch{
		Search: rest.StringPtr("acme"),
		Size:   rest.IntPtr(50),
	}))

	state = Reduce(state, ResetFilters[model.Customer]())

	require.Equal(t, rest.DefaultSearchParams(), state.Query)
}

func TestReduce_SelectEntityWithoutRequest(t *testing.T) {
	state := Reduce(NewState[model.Customer](), SelectEntity(model.Customer{ID: 4, Name: "Acme"}))

	require.NotNil(t, state.Selected)
	require.Equal(t, int64(4), state.Selected.ID)
	require.False(t, state.Flags.Detail)
}

func TestReduce_ClearSelectedAndResetLastOperation(t *testing.T) {
	state := Reduce(NewState[model.Customer](), LoadByIDSuccess(model.Customer{ID: 1}))
	require.NotNil(t, state.Selected)

	state = Reduce(state, ClearSelected[model.Customer]())
	require.Nil(t, state.Selected)

	state = Reduce(state, DeleteSuccess[model.Customer](1))
	require.Equal(t, OpStatusSuccess, state.LastOp.Status)

	state = Reduce(state, ResetLastOperation[model.Customer]())
	require.Equal(t, LastOperation{}, state.LastOp)
}

func TestReduce_CreateSuccessDoesNotTouchList(t *testing.T) {
	initial := stateWith(model.Customer{ID: 1})

	next := Reduce(initial, CreateSuccess(model.Customer{ID: 2, Name: "New"}))

	// 创建成功不直接改列表，由效果编排器触发重载
	require.Equal(t, initial.Items, next.Items)
	require.Equal(t, LastOperation{Slot: SlotCreate, Status: OpStatusSuccess, EntityID: 2}, next.LastOp)
}
