package pool

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// FanOutStats 批量执行结果
type FanOutStats struct {
	Succeeded int `json:"sent"`
	Failed    int `json:"failed"`
}

// FanOut 以最多 limit 个并发执行 fn，单项失败不影响其他项
// ctx 取消后尚未开始的项计为失败
func FanOut[T any](ctx context.Context, limit int, items []T, fn func(ctx context.Context, item T) error) FanOutStats {
	if limit <= 0 {
		limit = 1
	}

	var succeeded, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(limit)

	for _, item := range items {
		item := item
		g.Go(func() error {
			if ctx.Err() != nil {
				failed.Add(1)
				return nil
			}
			if err := fn(ctx, item); err != nil {
				failed.Add(1)
				return nil
			}
			succeeded.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	return FanOutStats{Succeeded: int(succeeded.Load()), Failed: int(failed.Load())}
}
