package notify

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/nats-io/nats.go"

	"supplyflow/errors"
	"supplyflow/logging"
)

// NATSConfig NATS 发布器配置
type NATSConfig struct {
	// URL NATS 服务器地址；Conn 非空时忽略
	URL string

	// Subject 发布主题，默认 "supplyflow.notifications"
	Subject string

	// Conn 复用已有连接；为空时按 URL 自建并在 Close 时断开
	Conn *nats.Conn

	Logger logging.Logger
}

// NATSSink 把通知镜像到 NATS 主题
//
// 发布失败只记日志，从不影响本地通知分发。
type NATSSink struct {
	cfg      NATSConfig
	logger   logging.Logger
	ownsConn bool

	mu   sync.RWMutex
	conn *nats.Conn
}

// NewNATSSink 创建 NATS 发布器
func NewNATSSink(cfg NATSConfig) *NATSSink {
	if cfg.Subject == "" {
		cfg.Subject = "supplyflow.notifications"
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.GetLogger().WithFields(logging.String("component", "notify.nats"))
	}
	return &NATSSink{cfg: cfg, logger: cfg.Logger}
}

// Start 建立连接
func (s *NATSSink) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		return nil
	}
	if s.cfg.Conn != nil {
		s.conn = s.cfg.Conn
		return nil
	}

	conn, err := nats.Connect(s.cfg.URL,
		nats.Name("supplyflow-notify"),
		nats.MaxReconnects(-1))
	if err != nil {
		return errors.WrapError(err, errors.ErrCodeQueue, "NATS 连接失败")
	}
	s.conn = conn
	s.ownsConn = true
	return nil
}

// Receive 实现 ISink
func (s *NATSSink) Receive(ctx context.Context, n Notification) {
	s.mu.RLock()
	conn := s.conn
	s.mu.RUnlock()
	if conn == nil {
		return
	}

	data, err := json.Marshal(n)
	if err != nil {
		return
	}
	if err := conn.Publish(s.cfg.Subject, data); err != nil {
		s.logger.Warn(ctx, "notification publish failed",
			logging.String("subject", s.cfg.Subject),
			logging.Error(err))
	}
}

// Close 断开自建连接
func (s *NATSSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ownsConn && s.conn != nil {
		s.conn.Close()
	}
	s.conn = nil
	return nil
}
