// Package auth 封装身份提供方协作者
//
// 身份提供方本身（Keycloak 等）是外部系统；本包只定义访问接口与
// 显式的认证状态模型，供管道在请求上附加令牌、以及上层守卫按
// 状态分支，不依赖异常控制流。
package auth

import (
	"context"

	"supplyflow/errors"
)

// 角色常量（与后端角色映射一致）
const (
	RoleAdmin       = "admin"
	RoleProduction  = "production"
	RoleProcurement = "procurement"
	RoleDelivery    = "delivery"
)

// State 认证状态
//
// 显式建模"认证后端不可用"，守卫按状态分支而非捕获异常。
type State int

const (
	StateUnknown State = iota // 尚未探测
	StateAuthenticated
	StateUnauthenticated
	StateUnavailable // 认证后端不可达，降级运行
)

// String 返回状态标签
func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Profile 用户资料
type Profile struct {
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Roles     []string `json:"roles"`
}

// DisplayName 返回用于界面展示的名称
func (p Profile) DisplayName() string {
	if p.FirstName != "" && p.LastName != "" {
		return p.FirstName + " " + p.LastName
	}
	if p.Username != "" {
		return p.Username
	}
	return "Guest"
}

// HasRole 检查是否持有指定角色
func (p Profile) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Snapshot 认证状态快照
type Snapshot struct {
	State   State
	Profile Profile // 仅 StateAuthenticated 时有效
}

// IProvider 身份提供方接口（外部协作者）
type IProvider interface {
	// IsLoggedIn 检查当前是否已登录；后端不可达时返回错误
	IsLoggedIn(ctx context.Context) (bool, error)

	// Login 触发登录流程
	Login(ctx context.Context) error

	// Logout 触发登出流程
	Logout(ctx context.Context) error

	// Token 获取当前访问令牌
	Token(ctx context.Context) (string, error)

	// Profile 获取当前用户资料（含角色）
	Profile(ctx context.Context) (Profile, error)
}

// StaticProvider 静态身份提供方
//
// 持有固定令牌与资料，用于开发环境、CLI 工具及测试。
type StaticProvider struct {
	AccessToken string
	User        Profile
	LoggedIn    bool
}

// NewStaticProvider 创建静态身份提供方
func NewStaticProvider(token string, profile Profile) *StaticProvider {
	return &StaticProvider{AccessToken: token, User: profile, LoggedIn: token != ""}
}

func (p *StaticProvider) IsLoggedIn(ctx context.Context) (bool, error) {
	return p.LoggedIn, nil
}

func (p *StaticProvider) Login(ctx context.Context) error {
	p.LoggedIn = true
	return nil
}

func (p *StaticProvider) Logout(ctx context.Context) error {
	p.LoggedIn = false
	return nil
}

func (p *StaticProvider) Token(ctx context.Context) (string, error) {
	if !p.LoggedIn {
		return "", errors.NewError(errors.ErrCodeUnauthorized, "未登录")
	}
	return p.AccessToken, nil
}

func (p *StaticProvider) Profile(ctx context.Context) (Profile, error) {
	if !p.LoggedIn {
		return Profile{}, errors.NewError(errors.ErrCodeUnauthorized, "未登录")
	}
	return p.User, nil
}
