package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"supplyflow/logging"
	"supplyflow/patterns/retry"
)

// flakyProvider 前 N 次探测失败的提供方
type flakyProvider struct {
	StaticProvider
	failuresLeft int
	probes       int
}

func (p *flakyProvider) IsLoggedIn(ctx context.Context) (bool, error) {
	p.probes++
	if p.failuresLeft > 0 {
		p.failuresLeft--
		return false, errors.New("connection refused")
	}
	return p.StaticProvider.IsLoggedIn(ctx)
}

func fastRetry() retry.Config {
	return retry.Config{
		MaxAttempts:   3,
		InitialDelay:  time.Millisecond,
		BackoffFactor: 2.0,
		MaxDelay:      5 * time.Millisecond,
	}
}

func TestManager_RefreshAuthenticated(t *testing.T) {
	provider := NewStaticProvider("token-1", Profile{
		Username: "marie",
		Roles:    []string{RoleDelivery},
	})
	manager := NewManager(ManagerConfig{Provider: provider, Logger: logging.NewNoopLogger()})

	snapshot := manager.Refresh(context.Background())

	require.Equal(t, StateAuthenticated, snapshot.State)
	require.Equal(t, "marie", snapshot.Profile.Username)
	require.True(t, manager.HasRole(RoleDelivery))
	require.False(t, manager.HasRole(RoleAdmin))
}

func TestManager_RefreshUnauthenticated(t *testing.T) {
	provider := NewStaticProvider("", Profile{})
	manager := NewManager(ManagerConfig{Provider: provider, Logger: logging.NewNoopLogger()})

	snapshot := manager.Refresh(context.Background())

	require.Equal(t, StateUnauthenticated, snapshot.State)
	require.False(t, manager.HasRole(RoleAdmin))
}

func TestManager_ProbeRetriesThenSucceeds(t *testing.T) {
	provider := &flakyProvider{
		StaticProvider: *NewStaticProvider("token-1", Profile{Username: "marie"}),
		failuresLeft:   2,
	}
	manager := NewManager(ManagerConfig{
		Provider:   provider,
		Logger:     logging.NewNoopLogger(),
		ProbeRetry: fastRetry(),
	})

	snapshot := manager.Refresh(context.Background())

	require.Equal(t, StateAuthenticated, snapshot.State)
	require.Equal(t, 3, provider.probes)
}

func TestManager_UnavailableAfterAllRetries(t *testing.T) {
	provider := &flakyProvider{
		StaticProvider: *NewStaticProvider("token-1", Profile{}),
		failuresLeft:   10,
	}
	manager := NewManager(ManagerConfig{
		Provider:   provider,
		Logger:     logging.NewNoopLogger(),
		ProbeRetry: fastRetry(),
	})

	snapshot := manager.Refresh(context.Background())

	require.Equal(t, StateUnavailable, snapshot.State)
	// 不可用状态下任何角色守卫都不放行
	require.False(t, manager.HasRole(RoleAdmin))
}

func TestManager_LoginLogout(t *testing.T) {
	provider := NewStaticProvider("", Profile{Username: "marie"})
	manager := NewManager(ManagerConfig{Provider: provider, Logger: logging.NewNoopLogger()})
	ctx := context.Background()

	require.NoError(t, manager.Login(ctx))
	require.Equal(t, StateAuthenticated, manager.Snapshot().State)

	require.NoError(t, manager.Logout(ctx))
	require.Equal(t, StateUnauthenticated, manager.Snapshot().State)
}

func TestProfile_DisplayName(t *testing.T) {
	require.Equal(t, "Marie Curie", Profile{FirstName: "Marie", LastName: "Curie"}.DisplayName())
	require.Equal(t, "marie", Profile{Username: "marie"}.DisplayName())
	require.Equal(t, "Guest", Profile{}.DisplayName())
}
