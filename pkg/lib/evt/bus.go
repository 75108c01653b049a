package evt

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"

	pkgif "github.com/dep2p/go-evbus/pkg/interfaces"
	"github.com/dep2p/go-evbus/pkg/lib/assert"
	"github.com/dep2p/go-evbus/pkg/lib/evbox"
	"github.com/dep2p/go-evbus/pkg/lib/log"
	"github.com/dep2p/go-evbus/pkg/lib/msgqueue"
	"github.com/dep2p/go-evbus/pkg/lib/typeid"
)

var logger = log.Logger("lib/evt")

// ============================================================================
// Bus 实现
// ============================================================================

// Bus 分组 G 的单消费者事件队列
type Bus[G any] struct {
	name     string
	registry *typeid.Registry
	reporter pkgif.QueueReporter
	// reporting 为 false 时跳过发布路径上的类型名解析
	reporting bool

	mu     sync.Mutex // 保护 events、handlers 的写入、sealed/closed
	events msgqueue.Queue[evbox.Box]
	sealed bool
	closed bool

	// handlers 当前处理器表，只在 mu 内替换
	handlers atomic.Pointer[table]

	processing atomic.Bool
}

var _ pkgif.Processor = (*Bus[struct{}])(nil)

// New 创建总线
func New[G any](opts ...Option) *Bus[G] {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}

	b := &Bus[G]{
		name:     s.name,
		registry: s.registry,
		reporter: s.reporter,
	}
	_, nop := s.reporter.(pkgif.NopReporter)
	b.reporting = !nop
	b.handlers.Store(emptyTable)
	return b
}

func (b *Bus[G]) target() *Bus[G] {
	return b
}

// Name 返回总线名称
func (b *Bus[G]) Name() string {
	return b.name
}

// Registry 返回总线使用的类型标识注册表
func (b *Bus[G]) Registry() *typeid.Registry {
	return b.registry
}

// View 返回只能发布的视图
func (b *Bus[G]) View() View[G] {
	return NewView(b)
}

// ============================================================================
// 发布
// ============================================================================

// Push 发布事件，任意 goroutine 可调用
//
// 总线停止接收后返回 ErrClosed，事件被立即销毁。
func Push[T Event[G], G any](p Publisher[G], ev T) error {
	b := p.target()
	id := typeid.Of[T](b.registry)
	return b.enqueue(evbox.New(id, ev))
}

// Emplace 原地构造并发布事件：从零值开始由 init 填充
func Emplace[T Event[G], G any](p Publisher[G], init func(*T)) error {
	b := p.target()
	id := typeid.Of[T](b.registry)
	return b.enqueue(evbox.Emplace(id, init))
}

func (b *Bus[G]) enqueue(box evbox.Box) error {
	b.mu.Lock()
	if b.sealed {
		b.mu.Unlock()
		name := b.registry.Name(box.ID())
		box.Destroy()
		b.reporter.LogReject(b.name, name)
		logger.Debug("总线已停止接收，发布被拒绝", "bus", b.name, "event", name)
		return ErrClosed
	}
	b.events.Enqueue(box)
	b.mu.Unlock()

	if b.reporting {
		b.reporter.LogPush(b.name, b.registry.Name(box.ID()))
	}
	return nil
}

// Pending 返回写侧待处理事件数量
func (b *Bus[G]) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.events.Pending()
}

// ============================================================================
// 绑定
// ============================================================================

// Bind 为事件类型 T 绑定闭包处理器
//
// T 已有处理器时触发契约违反，已有绑定保持不变。
func Bind[T Event[G], G any](b *Bus[G], fn func(T)) {
	assert.Require(fn != nil, ErrNilHandler, "bus %q: Bind with nil func", b.name)
	id := typeid.Of[T](b.registry)
	b.bind(entry{id: id, h: funcHandler[T]{id: id, name: b.registry.Name(id), fn: fn}})
}

// BindMethod 为事件类型 T 绑定对象方法处理器
//
//	evt.BindMethod(bus, tracker, (*Tracker).OnPing)
func BindMethod[T Event[G], O any, G any](b *Bus[G], owner *O, method func(*O, T)) {
	assert.Require(owner != nil && method != nil, ErrNilHandler, "bus %q: BindMethod with nil owner or method", b.name)
	id := typeid.Of[T](b.registry)
	b.bind(entry{id: id, h: methodHandler[T, O]{id: id, name: b.registry.Name(id), obj: owner, method: method}})
}

// Unbind 解除事件类型 T 的处理器
//
// T 未绑定时触发契约违反。
func Unbind[T Event[G], G any](b *Bus[G]) {
	b.unbind(typeid.Of[T](b.registry))
}

// IsBound 判断事件类型 T 是否已绑定
func IsBound[T Event[G], G any](b *Bus[G]) bool {
	id, ok := typeid.Lookup[T](b.registry)
	return ok && b.handlers.Load().get(id) != nil
}

func (b *Bus[G]) bind(entries ...entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	assert.Require(!b.closed, ErrClosed, "bus %q: bind after Close", b.name)
	cur := b.handlers.Load()
	for _, e := range entries {
		assert.Require(cur.get(e.id) == nil, ErrAlreadyBound, "bus %q: %s", b.name, b.registry.Name(e.id))
	}
	b.handlers.Store(cur.with(entries...))
}

func (b *Bus[G]) unbind(ids ...typeid.ID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cur := b.handlers.Load()
	for _, id := range ids {
		assert.Require(cur.get(id) != nil, ErrNotBound, "bus %q: %s", b.name, b.registry.Name(id))
	}
	b.handlers.Store(cur.without(ids...))
}

// Bound 返回已绑定的事件类型数量
func (b *Bus[G]) Bound() int {
	return b.handlers.Load().count
}

// ============================================================================
// 处理
// ============================================================================

// Process 排空当前批次并分发，返回分发数量
//
// 只能由唯一的消费者 goroutine 调用；并发或在处理器内重入调用触发契约违反。
// 锁只在交换缓冲区与获取处理器表快照期间持有，分发针对该快照进行。
// 处理器在分发期间发布的事件留到下一次 Process。
// 事件类型没有处理器时触发契约违反，不会静默丢弃。
func (b *Bus[G]) Process() int {
	assert.Require(b.processing.CompareAndSwap(false, true), ErrConcurrentProcess, "bus %q", b.name)
	defer b.processing.Store(false)

	start := time.Now()

	b.mu.Lock()
	snapshot := b.handlers.Load()
	n := b.events.Drain(&b.mu, func(box *evbox.Box) {
		b.dispatch(snapshot, box)
	})
	if n == 0 {
		b.mu.Unlock()
		return 0
	}

	b.reporter.LogDrain(b.name, n, time.Since(start))
	return n
}

func (b *Bus[G]) dispatch(snapshot *table, box *evbox.Box) {
	h := snapshot.get(box.ID())
	if h == nil {
		assert.Fail(ErrUnhandled, "bus %q: %s", b.name, b.registry.Name(box.ID()))
	}

	start := time.Now()
	h.handle(box)
	b.reporter.LogDispatch(b.name, h.eventName(), time.Since(start))
}

// ============================================================================
// 关闭
// ============================================================================

// Seal 停止接收新事件，之后的 Push/Emplace 返回 ErrClosed
//
// 已入队的事件仍可由 Process 排空。
func (b *Bus[G]) Seal() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sealed = true
}

// Closed 是否已调用 Close
func (b *Bus[G]) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Close 关闭总线并检查销毁前置条件
//
// 写侧必须为空且所有处理器已解绑，否则返回聚合错误
// （ErrPendingEvents / ErrHandlersBound）。未排空的事件会被销毁丢弃。
// 重复调用返回 nil。Process 执行期间（包括在处理器内）调用触发契约违反，
// 总线保持打开。
func (b *Bus[G]) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	assert.Require(!b.processing.Load(), ErrConcurrentProcess, "bus %q: Close during Process", b.name)
	b.sealed = true
	b.closed = true

	var err error
	if n := b.events.Pending(); n > 0 {
		err = multierr.Append(err, fmt.Errorf("bus %q: %d events: %w", b.name, n, ErrPendingEvents))
		b.events.Reset(func(box *evbox.Box) { box.Destroy() })
	}
	if n := b.handlers.Load().count; n > 0 {
		err = multierr.Append(err, fmt.Errorf("bus %q: %d handlers: %w", b.name, n, ErrHandlersBound))
	}
	err = multierr.Append(err, b.events.Close())

	if err != nil {
		logger.Warn("总线关闭时存在违反", "bus", b.name, "error", err)
	} else {
		logger.Debug("总线已关闭", "bus", b.name)
	}
	return err
}
