// Package flight 提供按 key 去重并回放结果的取数原语。
//
// 与 golang.org/x/sync/singleflight 不同，已完成的调用结果会被保留：
// 迟到的消费者拿到的是同一份完整结果，而不是触发第二次取数。
// 因此 Group 只应在单个请求的生命周期内使用，不能当作跨请求缓存。
package flight

import (
	"context"
	"sync"
)

type call[V any] struct {
	done chan struct{}
	val  V
	err  error
}

// Group 保证同一个 key 的取数函数至多执行一次。
// 零值即可使用。
type Group[K comparable, V any] struct {
	mu    sync.Mutex
	calls map[K]*call[V]
}

// Do 执行（或等待）key 对应的取数，所有消费者观察到同一份结果或同一个错误。
// 只有等待方会响应 ctx 取消；正在执行的取数由 fn 自己的 ctx 控制。
func (g *Group[K, V]) Do(ctx context.Context, key K, fn func(ctx context.Context) (V, error)) (V, error) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[K]*call[V])
	}
	if c, ok := g.calls[key]; ok {
		g.mu.Unlock()
		select {
		case <-c.done:
			return c.val, c.err
		case <-ctx.Done():
			var zero V
			return zero, ctx.Err()
		}
	}

	c := &call[V]{done: make(chan struct{})}
	g.calls[key] = c
	g.mu.Unlock()

	c.val, c.err = fn(ctx)
	close(c.done)
	return c.val, c.err
}

// Keys 返回已经发起过取数的 key 数量。
func (g *Group[K, V]) Keys() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}
