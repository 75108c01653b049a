package evt

import (
	"github.com/dep2p/go-evbus/pkg/lib/assert"
	"github.com/dep2p/go-evbus/pkg/lib/evbox"
	"github.com/dep2p/go-evbus/pkg/lib/typeid"
)

// handler 消费一个已知类型的事件盒并销毁它
type handler interface {
	handle(box *evbox.Box)
	// eventName 绑定时解析的事件类型名，用于指标标签
	eventName() string
}

// funcHandler 闭包处理器
type funcHandler[T any] struct {
	id   typeid.ID
	name string
	fn   func(T)
}

func (h funcHandler[T]) eventName() string { return h.name }

func (h funcHandler[T]) handle(box *evbox.Box) {
	assert.Debug(box.ID() == h.id, evbox.ErrTypeMismatch, "box id %d dispatched to handler for id %d", box.ID(), h.id)
	h.fn(evbox.As[T](box))
	box.Destroy()
}

// methodHandler 绑定对象方法处理器，method 为方法表达式，例如 (*Tracker).OnPing
type methodHandler[T any, O any] struct {
	id     typeid.ID
	name   string
	obj    *O
	method func(*O, T)
}

func (h methodHandler[T, O]) eventName() string { return h.name }

func (h methodHandler[T, O]) handle(box *evbox.Box) {
	assert.Debug(box.ID() == h.id, evbox.ErrTypeMismatch, "box id %d dispatched to handler for id %d", box.ID(), h.id)
	h.method(h.obj, evbox.As[T](box))
	box.Destroy()
}
