package auth

import (
	"context"
	"sync"

	"supplyflow/logging"
	"supplyflow/patterns/retry"
)

// ManagerConfig 认证管理器配置
type ManagerConfig struct {
	Provider IProvider
	Logger   logging.Logger

	// ProbeRetry 可用性探测的重试配置，零值使用 retry.DefaultConfig
	ProbeRetry retry.Config
}

// Manager 认证管理器
//
// 在 IProvider 之上维护一份显式的认证状态快照：探测失败不抛给
// 调用方，而是进入 StateUnavailable，守卫与请求层按状态降级。
type Manager struct {
	provider   IProvider
	logger     logging.Logger
	probeRetry retry.Config

	mu       sync.RWMutex
	snapshot Snapshot
}

// NewManager 创建认证管理器
func NewManager(cfg ManagerConfig) *Manager {
	if cfg.Logger == nil {
		cfg.Logger = logging.GetLogger().WithFields(logging.String("component", "auth"))
	}
	if cfg.ProbeRetry.MaxAttempts <= 0 {
		cfg.ProbeRetry = retry.DefaultConfig()
	}

	return &Manager{
		provider:   cfg.Provider,
		logger:     cfg.Logger,
		probeRetry: cfg.ProbeRetry,
		snapshot:   Snapshot{State: StateUnknown},
	}
}

// Refresh 探测认证后端并更新状态快照
//
// 探测带指数退避重试；全部失败时进入 StateUnavailable 而非报错，
// 这是"认证后端不可用时优雅降级"要求的落点。
func (m *Manager) Refresh(ctx context.Context) Snapshot {
	var loggedIn bool

	err := retry.Do(ctx, func(ctx context.Context) error {
		var probeErr error
		loggedIn, probeErr = m.provider.IsLoggedIn(ctx)
		return probeErr
	}, m.probeRetry)

	if err != nil {
		m.logger.Warn(ctx, "auth backend unavailable", logging.Error(err))
		return m.setSnapshot(Snapshot{State: StateUnavailable})
	}

	if !loggedIn {
		return m.setSnapshot(Snapshot{State: StateUnauthenticated})
	}

	profile, err := m.provider.Profile(ctx)
	if err != nil {
		// 登录探测成功但取资料失败，视为后端部分不可用
		m.logger.Warn(ctx, "failed to load user profile", logging.Error(err))
		return m.setSnapshot(Snapshot{State: StateUnavailable})
	}

	return m.setSnapshot(Snapshot{State: StateAuthenticated, Profile: profile})
}

// Snapshot 返回最近一次探测的状态快照
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

// Token 获取访问令牌（透传提供方）
func (m *Manager) Token(ctx context.Context) (string, error) {
	return m.provider.Token(ctx)
}

// Login 触发登录并刷新快照
func (m *Manager) Login(ctx context.Context) error {
	if err := m.provider.Login(ctx); err != nil {
		return err
	}
	m.Refresh(ctx)
	return nil
}

// Logout 触发登出并刷新快照
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.provider.Logout(ctx); err != nil {
		return err
	}
	m.setSnapshot(Snapshot{State: StateUnauthenticated})
	return nil
}

// HasRole 检查当前用户是否持有指定角色
//
// 非 StateAuthenticated 状态一律返回 false。
func (m *Manager) HasRole(role string) bool {
	snapshot := m.Snapshot()
	if snapshot.State != StateAuthenticated {
		return false
	}
	return snapshot.Profile.HasRole(role)
}

func (m *Manager) setSnapshot(snapshot Snapshot) Snapshot {
	m.mu.Lock()
	m.snapshot = snapshot
	m.mu.Unlock()
	return snapshot
}
