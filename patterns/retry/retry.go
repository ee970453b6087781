package retry

import (
	"context"
	"time"
)

// Operation 可重试的操作函数类型
type Operation func(ctx context.Context) error

// Config 重试配置
type Config struct {
	MaxAttempts   int           // 最大尝试次数（包括首次）
	InitialDelay  time.Duration // 初始退避延迟
	BackoffFactor float64       // 退避倍数（指数退避）
	MaxDelay      time.Duration // 最大延迟
}

// DefaultConfig 返回默认配置
//
// 默认值：
//   - MaxAttempts: 3（1次初始 + 2次重试）
//   - InitialDelay: 100ms
//   - BackoffFactor: 2.0（指数退避）
//   - MaxDelay: 2s
func DefaultConfig() Config {
	return Config{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		BackoffFactor: 2.0,
		MaxDelay:      2 * time.Second,
	}
}

// Do 执行带重试的操作
//
// 任意一次尝试成功即返回 nil；全部失败时返回最后一次的错误。
// 退避等待期间支持上下文取消。
//
// 注意：业务请求（列表/详情/增删改）不走重试，失败交由用户重新触发；
// 此工具仅用于基础设施探测类操作（如认证后端可用性探测）。
func Do(ctx context.Context, op Operation, cfg Config) error {
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		// 检查上下文是否已取消
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := op(ctx)
		if err == nil {
			return nil
		}

		lastErr = err

		// 最后一次尝试不需要等待
		if attempt < cfg.MaxAttempts {
			// 计算退避延迟（指数退避）
			delay := time.Duration(float64(cfg.InitialDelay) *
				pow(cfg.BackoffFactor, float64(attempt-1)))

			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return lastErr
}

// pow 简单的幂运算实现（避免引入 math 包）
func pow(base, exp float64) float64 {
	if exp == 0 {
		return 1
	}
	result := base
	for i := 1; i < int(exp); i++ {
		result *= base
	}
	return result
}
