// Package notify 提供用户可见通知的发布与分发
//
// 通知是操作结果面向用户的投影：成功提示短暂展示，失败提示停留
// 更久。包内提供进程内的扇出中心，并可挂接 NATS 发布器把通知
// 镜像到外部主题供审计或桌面端消费。
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"supplyflow/logging"
)

// Severity 通知级别
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarn    Severity = "warn"
	SeverityError   Severity = "error"
)

// 默认展示时长
const (
	DefaultLife      = 3 * time.Second
	DefaultErrorLife = 10 * time.Second
)

// Notification 一条用户通知
type Notification struct {
	ID        string        `json:"id"`
	Severity  Severity      `json:"severity"`
	Summary   string        `json:"summary"`
	Detail    string        `json:"detail"`
	Life      time.Duration `json:"life"`
	CreatedAt time.Time     `json:"createdAt"`
}

// Success 构造成功通知
func Success(summary, detail string) Notification {
	return Notification{Severity: SeveritySuccess, Summary: summary, Detail: detail, Life: DefaultLife}
}

// Warn 构造警告通知
func Warn(summary, detail string) Notification {
	return Notification{Severity: SeverityWarn, Summary: summary, Detail: detail, Life: DefaultErrorLife}
}

// Error 构造错误通知
func Error(summary, detail string) Notification {
	return Notification{Severity: SeverityError, Summary: summary, Detail: detail, Life: DefaultErrorLife}
}

// INotifier 通知发布接口
type INotifier interface {
	Notify(ctx context.Context, n Notification)
}

// ISink 通知接收端
//
// Center 扇出时逐个调用，接收端不得阻塞。
type ISink interface {
	Receive(ctx context.Context, n Notification)
}

// SinkFunc 函数式接收端
type SinkFunc func(ctx context.Context, n Notification)

func (f SinkFunc) Receive(ctx context.Context, n Notification) { f(ctx, n) }

// Center 进程内通知中心
//
// 发布时补全 ID 与时间戳并扇出到所有接收端。接收端的 panic 不会
// 影响其他接收端。
type Center struct {
	logger logging.Logger

	mu    sync.RWMutex
	sinks []ISink
}

// NewCenter 创建通知中心
func NewCenter(logger logging.Logger) *Center {
	if logger == nil {
		logger = logging.GetLogger().WithFields(logging.String("component", "notify"))
	}
	return &Center{logger: logger}
}

// AddSink 注册接收端
func (c *Center) AddSink(sink ISink) {
	c.mu.Lock()
	c.sinks = append(c.sinks, sink)
	c.mu.Unlock()
}

// Notify 发布一条通知
func (c *Center) Notify(ctx context.Context, n Notification) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if n.Life <= 0 {
		if n.Severity == SeverityError || n.Severity == SeverityWarn {
			n.Life = DefaultErrorLife
		} else {
			n.Life = DefaultLife
		}
	}

	c.logger.Debug(ctx, "notification published",
		logging.String("severity", string(n.Severity)),
		logging.String("summary", n.Summary))

	c.mu.RLock()
	sinks := make([]ISink, len(c.sinks))
	copy(sinks, c.sinks)
	c.mu.RUnlock()

	for _, sink := range sinks {
		c.deliver(ctx, sink, n)
	}
}

func (c *Center) deliver(ctx context.Context, sink ISink, n Notification) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error(ctx, "notification sink panicked", logging.Any("panic", r))
		}
	}()
	sink.Receive(ctx, n)
}
