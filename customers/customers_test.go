package customers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"supplyflow/errors"
	"supplyflow/logging"
	"supplyflow/model"
	"supplyflow/notify"
	"supplyflow/rest"
)

// memoryResource 内存中的客户集合
type memoryResource struct {
	mu        sync.Mutex
	customers map[int64]model.Customer
	nextID    int64
	deletes   int
	lists     int
}

func newMemoryResource(customers ...model.Customer) *memoryResource {
	r := &memoryResource{customers: make(map[int64]model.Customer), nextID: 100}
	for _, c := range customers {
		r.customers[c.ID] = c
	}
	return r
}

func (r *memoryResource) List(ctx context.Context, params rest.SearchParams) (*rest.Page[model.Customer], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	content := make([]model.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		content = append(content, c)
	}
	return &rest.Page[model.Customer]{
		Content:       content,
		TotalElements: int64(len(content)),
		TotalPages:    1,
		Size:          params.Size,
		Number:        params.Page,
	}, nil
}

func (r *memoryResource) GetByID(ctx context.Context, id int64) (model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return model.Customer{}, errors.ErrNotFound
	}
	return c, nil
}

func (r *memoryResource) Create(ctx context.Context, entity model.Customer) (model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entity.ID = r.nextID
	r.nextID++
	r.customers[entity.ID] = entity
	return entity, nil
}

func (r *memoryResource) Update(ctx context.Context, id int64, entity model.Customer) (model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers[id] = entity
	return entity, nil
}

func (r *memoryResource) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletes++
	delete(r.customers, id)
	return nil
}

func (r *memoryResource) deleteCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deletes
}

// collectingNotifier 记录通知
type collectingNotifier struct {
	mu            sync.Mutex
	notifications []notify.Notification
}

func (n *collectingNotifier) Notify(ctx context.Context, notification notify.Notification) {
	n.mu.Lock()
	n.notifications = append(n.notifications, notification)
	n.mu.Unlock()
}

func (n *collectingNotifier) all() []notify.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Notification(nil), n.notifications...)
}

func newFeature(t *testing.T, resource *memoryResource) (*Feature, *collectingNotifier) {
	t.Helper()
	notifier := &collectingNotifier{}
	feature := New(Config{
		Resource: resource,
		Notifier: notifier,
		Debounce: 20 * time.Millisecond,
		Logger:   logging.NewNoopLogger(),
	})
	feature.Start(context.Background())
	t.Cleanup(func() { _ = feature.Close() })
	return feature, notifier
}

func TestFeature_DeleteGuardBlocksCustomerWithActiveOrders(t *testing.T) {
	resource := newMemoryResource(model.Customer{
		ID: 7, Name: "Acme", HasActiveOrders: true,
	})
	feature, notifier := newFeature(t, resource)

	feature.Delete(context.Background(), model.Customer{ID: 7, Name: "Acme", HasActiveOrders: true})

	// 警告通知先行，删除意图根本不派发，也没有网络调用
	require.Eventually(t, func() bool {
		return len(notifier.all()) == 1
	}, time.Second, 5*time.Millisecond)

	notification := notifier.all()[0]
	require.Equal(t, notify.SeverityWarn, notification.Severity)
	require.Contains(t, notification.Detail, "进行中的订单")

	time.Sleep(50 * time.Millisecond)
	require.Equal(t, 0, resource.deleteCount())
	require.False(t, feature.Selectors().IsBusy())
}

func TestFeature_DeleteWithoutActiveOrdersProceeds(t *testing.T) {
	resource := newMemoryResource(model.Customer{ID: 3, Name: "Globex"})
	feature, _ := newFeature(t, resource)

	feature.Delete(context.Background(), model.Customer{ID: 3, Name: "Globex"})

	require.Eventually(t, func() bool {
		return resource.deleteCount() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestFeature_CreateRejectsInvalidCustomerLocally(t *testing.T) {
	resource := newMemoryResource()
	feature, _ := newFeature(t, resource)

	err := feature.Create(model.Customer{Name: ""})

	require.True(t, errors.IsValidation(err))
	time.Sleep(50 * time.Millisecond)
	require.False(t, feature.Selectors().IsBusy())
}

func TestFeature_CreateThenReload(t *testing.T) {
	resource := newMemoryResource()
	feature, notifier := newFeature(t, resource)

	require.NoError(t, feature.Create(model.Customer{
		Name: "Initech", Address: "1 rue de la Paix", City: "Paris",
	}))

	// 创建成功 → 成功通知 + 列表重载
	require.Eventually(t, func() bool {
		return len(feature.Selectors().Items()) == 1
	}, time.Second, 5*time.Millisecond)

	notifications := notifier.all()
	require.NotEmpty(t, notifications)
	require.Equal(t, notify.SeveritySuccess, notifications[0].Severity)
}

func TestFeature_SearchDebouncedReload(t *testing.T) {
	resource := newMemoryResource(model.Customer{ID: 1, Name: "Acme"})
	feature, _ := newFeature(t, resource)

	feature.SetSearchParams(rest.Patch{Search: rest.StringPtr("ac")})
	feature.SetSearchParams(rest.Patch{Search: rest.StringPtr("acme")})

	require.Eventually(t, func() bool {
		return len(feature.Selectors().Items()) == 1
	}, time.Second, 5*time.Millisecond)

	require.Equal(t, "acme", feature.Selectors().Query().Search)
}
