package evt

import (
	"fmt"
	"sync/atomic"

	"github.com/dep2p/go-evbus/pkg/lib/assert"
	"github.com/dep2p/go-evbus/pkg/lib/typeid"
)

// ============================================================================
// 处理器所有者
// ============================================================================

// Owner 处理同一分组多个事件类型的对象
//
// 实现方嵌入 Binding 并在 EventHandlers 中用 On 声明全部处理器。
// 所有声明共享同一个 HandlerSet[G]，因此整组处理器作为一个整体在编译期
// 与总线分组 G 校验。
//
//	type Tracker struct {
//	    evt.Binding
//	}
//
//	func (t *Tracker) EventHandlers(s *evt.HandlerSet[Tracking]) {
//	    evt.On(s, t.onFrame)
//	    evt.On(s, t.onPose)
//	}
type Owner[G any] interface {
	EventHandlers(s *HandlerSet[G])
	binding() *Binding
}

// Binding 所有者绑定状态，嵌入到所有者结构体中
//
// 绑定与解绑必须从未绑定开始交替进行；所有者的生命周期结束前必须解绑。
type Binding struct {
	bound atomic.Bool
	bus   any         // 绑定所在的总线，只在总线锁内读写
	ids   []typeid.ID // 绑定时安装的事件类型
}

func (bd *Binding) binding() *Binding {
	return bd
}

// Bound 是否已绑定
func (bd *Binding) Bound() bool {
	return bd.bound.Load()
}

// HandlerSet 所有者声明的处理器集合
type HandlerSet[G any] struct {
	registry *typeid.Registry
	entries  []entry
}

// On 在集合中声明事件类型 T 的处理器
//
// 同一集合重复声明同一类型触发契约违反。
func On[T Event[G], G any](s *HandlerSet[G], fn func(T)) {
	assert.Require(fn != nil, ErrNilHandler, "On[%T] with nil func", *new(T))
	id := typeid.Of[T](s.registry)
	for _, e := range s.entries {
		assert.Require(e.id != id, ErrDuplicateHandler, "%s", s.registry.Name(id))
	}
	s.entries = append(s.entries, entry{id: id, h: funcHandler[T]{id: id, name: s.registry.Name(id), fn: fn}})
}

// Len 返回集合中声明的事件类型数量
func (s *HandlerSet[G]) Len() int {
	return len(s.entries)
}

// BindOwner 绑定所有者声明的全部处理器
//
// 所有者必须处于未绑定状态。全部类型在同一次加锁内检查并安装：
// 任一类型已有处理器时触发契约违反，且不安装任何处理器。
func (b *Bus[G]) BindOwner(o Owner[G]) {
	assert.Require(o != nil, ErrNilHandler, "bus %q: BindOwner(nil)", b.name)
	bd := o.binding()
	assert.Require(!bd.Bound(), ErrOwnerBound, "bus %q: %T", b.name, o)

	set := &HandlerSet[G]{registry: b.registry}
	o.EventHandlers(set)

	ids := make([]typeid.ID, len(set.entries))
	for i, e := range set.entries {
		ids[i] = e.id
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	assert.Require(!b.closed, ErrClosed, "bus %q: BindOwner after Close", b.name)
	assert.Require(bd.bound.CompareAndSwap(false, true), ErrOwnerBound, "bus %q: %T", b.name, o)
	cur := b.handlers.Load()
	for _, e := range set.entries {
		if cur.get(e.id) != nil {
			bd.bound.Store(false)
			assert.Fail(ErrAlreadyBound, "bus %q: %T: %s", b.name, o, b.registry.Name(e.id))
		}
	}
	b.handlers.Store(cur.with(set.entries...))
	bd.bus = b
	bd.ids = ids

	logger.Debug("所有者已绑定", "bus", b.name, "owner", typeName(o), "events", len(ids))
}

// UnbindOwner 解除所有者绑定时安装的全部处理器
//
// 所有者必须已绑定在本总线上。
func (b *Bus[G]) UnbindOwner(o Owner[G]) {
	assert.Require(o != nil, ErrNilHandler, "bus %q: UnbindOwner(nil)", b.name)
	bd := o.binding()

	b.mu.Lock()
	defer b.mu.Unlock()

	assert.Require(bd.Bound(), ErrOwnerNotBound, "bus %q: %T", b.name, o)
	assert.Require(bd.bus == any(b), ErrForeignOwner, "bus %q: %T", b.name, o)

	cur := b.handlers.Load()
	for _, id := range bd.ids {
		assert.Require(cur.get(id) != nil, ErrNotBound, "bus %q: %T: %s", b.name, o, b.registry.Name(id))
	}
	b.handlers.Store(cur.without(bd.ids...))

	bd.ids = nil
	bd.bus = nil
	bd.bound.Store(false)

	logger.Debug("所有者已解绑", "bus", b.name, "owner", typeName(o))
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
