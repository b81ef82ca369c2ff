package tarot

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultStoreTimeout 单次存储调用的超时时间
const DefaultStoreTimeout = 5 * time.Second

// withTimeout 让存储调用与超时竞争。超时后立即返回 ErrTimeout，
// 后台调用的结果被丢弃，fn 不得修改调用方持有的数据
func withTimeout[T any](ctx context.Context, d time.Duration, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	if d <= 0 {
		d = DefaultStoreTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type result struct {
		val T
		err error
	}
	done := make(chan result, 1)
	go func() {
		val, err := fn(ctx)
		done <- result{val, err}
	}()

	select {
	case res := <-done:
		if res.err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			var zero T
			return zero, fmt.Errorf("%w: %s after %s", ErrTimeout, op, d)
		}
		return res.val, res.err
	case <-ctx.Done():
		var zero T
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, fmt.Errorf("%w: %s after %s", ErrTimeout, op, d)
		}
		return zero, ctx.Err()
	}
}

// execWithTimeout 无返回值版本
func execWithTimeout(ctx context.Context, d time.Duration, op string, fn func(ctx context.Context) error) error {
	_, err := withTimeout(ctx, d, op, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}
