package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testConfig() Config {
	return Config{
		MaxAttempts:   3,
		InitialDelay:  1 * time.Millisecond,
		BackoffFactor: 2.0,
		MaxDelay:      10 * time.Millisecond,
	}
}

func TestDo_Success(t *testing.T) {
	attempts := 0

	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return nil // 第一次就成功
	}, testConfig())

	if err != nil {
		t.Fatalf("Expected success, got error: %v", err)
	}
	if attempts != 1 {
		t.Fatalf("Expected 1 attempt, got %d", attempts)
	}
}

func TestDo_RetryAndSuccess(t *testing.T) {
	attempts := 0

	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 2 {
			return errors.New("temporary error")
		}
		return nil // 第二次成功
	}, testConfig())

	if err != nil {
		t.Fatalf("Expected success after retry, got error: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("Expected 2 attempts, got %d", attempts)
	}
}

func TestDo_AllAttemptsFail(t *testing.T) {
	attempts := 0
	expectedErr := errors.New("persistent error")

	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return expectedErr
	}, testConfig())

	if !errors.Is(err, expectedErr) {
		t.Fatalf("Expected last error, got: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("Expected 3 attempts, got %d", attempts)
	}
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0

	err := Do(ctx, func(ctx context.Context) error {
		attempts++
		cancel() // 第一次失败后取消
		return errors.New("fail")
	}, testConfig())

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got: %v", err)
	}
	if attempts != 1 {
		t.Fatalf("Expected 1 attempt, got %d", attempts)
	}
}
