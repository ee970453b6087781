package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"supplyflow/errors"
	"supplyflow/logging"
	"supplyflow/model"
)

type staticTokens struct{ token string }

func (s staticTokens) Token(ctx context.Context) (string, error) { return s.token, nil }

func newTestResource(t *testing.T, handler http.HandlerFunc) *Resource[model.Customer] {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(Config{
		BaseURL: server.URL,
		Tokens:  staticTokens{token: "test-token"},
		Logger:  logging.NewNoopLogger(),
	})
	return NewResource[model.Customer](client, "customers")
}

func TestResource_ListSendsQueryAndToken(t *testing.T) {
	var gotPath, gotAuth, gotQuery string
	resource := newTestResource(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(Page[model.Customer]{
			Content:       []model.Customer{{ID: 1, Name: "Acme"}},
			TotalElements: 1,
			TotalPages:    1,
			Size:          10,
			Number:        0,
		})
	})

	page, err := resource.List(context.Background(), SearchParams{Page: 0, Size: 10, Sort: "name,asc", Search: "acme"})

	require.NoError(t, err)
	require.Equal(t, "/customers", gotPath)
	require.Equal(t, "Bearer test-token", gotAuth)
	require.Contains(t, gotQuery, "search=acme")
	require.Contains(t, gotQuery, "page=0")
	require.Len(t, page.Content, 1)
	require.Equal(t, int64(1), page.TotalElements)
}

func TestResource_ListRejectsInvalidParams(t *testing.T) {
	resource := newTestResource(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("非法参数不应发出请求")
	})

	_, err := resource.List(context.Background(), SearchParams{Page: -1, Size: 10})
	require.True(t, errors.IsValidation(err))
}

func TestResource_GetByID(t *testing.T) {
	resource := newTestResource(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/customers/42", r.URL.Path)
		_ = json.NewEncoder(w).Encode(model.Customer{ID: 42, Name: "Acme", City: "Lyon"})
	})

	customer, err := resource.GetByID(context.Background(), 42)

	require.NoError(t, err)
	require.Equal(t, int64(42), customer.GetID())
	require.Equal(t, "Lyon", customer.City)
}

func TestResource_GetByIDNotFound(t *testing.T) {
	resource := newTestResource(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "客户不存在"})
	})

	_, err := resource.GetByID(context.Background(), 999)
	require.True(t, errors.IsNotFound(err))
}

func TestResource_CreateReturnsServerEntity(t *testing.T) {
	resource := newTestResource(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body model.Customer
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		body.ID = 7 // 服务端分配 ID
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(body)
	})

	created, err := resource.Create(context.Background(), model.Customer{Name: "Globex"})

	require.NoError(t, err)
	require.Equal(t, int64(7), created.ID)
	require.Equal(t, "Globex", created.Name)
}

func TestResource_CreateValidationErrorCarriesFields(t *testing.T) {
	resource := newTestResource(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message":     "参数校验失败",
			"fieldErrors": map[string]string{"name": "名称不能为空"},
		})
	})

	_, err := resource.Create(context.Background(), model.Customer{})

	require.True(t, errors.IsValidation(err))
	fields := errors.FieldErrorsOf(err)
	require.Equal(t, "名称不能为空", fields["name"])
}

func TestResource_UpdatePutsToItemPath(t *testing.T) {
	resource := newTestResource(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/customers/3", r.URL.Path)
		_ = json.NewEncoder(w).Encode(model.Customer{ID: 3, Name: "Renamed"})
	})

	updated, err := resource.Update(context.Background(), 3, model.Customer{ID: 3, Name: "Renamed"})

	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)
}

func TestResource_DeleteNoContent(t *testing.T) {
	resource := newTestResource(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, resource.Delete(context.Background(), 5))
}

func TestResource_DeleteConflict(t *testing.T) {
	resource := newTestResource(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "存在关联订单"})
	})

	err := resource.Delete(context.Background(), 5)
	require.True(t, errors.IsConflict(err))
}

func TestResource_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // 立即关闭，任何请求都拒绝连接

	client := NewClient(Config{BaseURL: server.URL, Logger: logging.NewNoopLogger()})
	resource := NewResource[model.Customer](client, "customers")

	_, err := resource.GetByID(context.Background(), 1)
	require.True(t, errors.IsNetwork(err))
}
