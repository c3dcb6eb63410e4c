// Package blockpool 把线程阻塞型调用（如非响应式的数据库驱动）隔离在一个
// 独立的、有并发上界的弹性工作池里，避免其占用驱动非阻塞扇出的 goroutine 预算。
package blockpool

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Pool 是一个有界弹性池：worker 按需创建，数量由信号量封顶。
type Pool struct {
	sem *semaphore.Weighted
}

// New 创建一个最多允许 maxWorkers 个并发阻塞调用的池。
func New(maxWorkers int64) *Pool {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	return &Pool{sem: semaphore.NewWeighted(maxWorkers)}
}

// Future 承载一次已提交调用的结果。
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Wait 阻塞直到调用完成或 ctx 取消。
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Submit 把一个阻塞单元提交到池里并立即返回 Future。
// 拿不到 worker 席位时会等待，ctx 取消则 Future 以 ctx.Err() 完成。
func Submit[T any](ctx context.Context, p *Pool, fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		if err := p.sem.Acquire(ctx, 1); err != nil {
			f.err = err
			return
		}
		defer p.sem.Release(1)
		f.val, f.err = fn()
	}()
	return f
}

// Do 是 Submit+Wait 的便捷形式。
func Do[T any](ctx context.Context, p *Pool, fn func() (T, error)) (T, error) {
	return Submit(ctx, p, fn).Wait(ctx)
}
