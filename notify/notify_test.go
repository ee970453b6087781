package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"supplyflow/logging"
)

// recordingSink 记录收到的通知
type recordingSink struct {
	mu            sync.Mutex
	notifications []Notification
}

func (s *recordingSink) Receive(ctx context.Context, n Notification) {
	s.mu.Lock()
	s.notifications = append(s.notifications, n)
	s.mu.Unlock()
}

func (s *recordingSink) all() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Notification(nil), s.notifications...)
}

func TestCenter_FillsDefaults(t *testing.T) {
	center := NewCenter(logging.NewNoopLogger())
	sink := &recordingSink{}
	center.AddSink(sink)

	center.Notify(context.Background(), Success("成功", "客户创建成功"))

	got := sink.all()
	require.Len(t, got, 1)
	require.NotEmpty(t, got[0].ID)
	require.False(t, got[0].CreatedAt.IsZero())
	require.Equal(t, DefaultLife, got[0].Life)
	require.Equal(t, SeveritySuccess, got[0].Severity)
}

func TestCenter_ErrorLife(t *testing.T) {
	center := NewCenter(logging.NewNoopLogger())
	sink := &recordingSink{}
	center.AddSink(sink)

	center.Notify(context.Background(), Error("错误", "保存失败"))

	got := sink.all()
	require.Len(t, got, 1)
	require.Equal(t, DefaultErrorLife, got[0].Life)
}

func TestCenter_FanOut(t *testing.T) {
	center := NewCenter(logging.NewNoopLogger())
	first := &recordingSink{}
	second := &recordingSink{}
	center.AddSink(first)
	center.AddSink(second)

	center.Notify(context.Background(), Warn("警告", "存在关联订单"))

	require.Len(t, first.all(), 1)
	require.Len(t, second.all(), 1)
}

func TestCenter_PanickingSinkDoesNotBlockOthers(t *testing.T) {
	center := NewCenter(logging.NewNoopLogger())
	center.AddSink(SinkFunc(func(ctx context.Context, n Notification) {
		panic("sink failure")
	}))
	survivor := &recordingSink{}
	center.AddSink(survivor)

	center.Notify(context.Background(), Success("成功", ""))

	require.Len(t, survivor.all(), 1)
}

func TestCenter_PresetLifeKept(t *testing.T) {
	center := NewCenter(logging.NewNoopLogger())
	sink := &recordingSink{}
	center.AddSink(sink)

	n := Success("成功", "")
	n.Life = 42 * time.Second
	center.Notify(context.Background(), n)

	require.Equal(t, 42*time.Second, sink.all()[0].Life)
}
