package evt

import "github.com/dep2p/go-evbus/pkg/lib/assert"

// View 只能发布的总线句柄
//
// 不拥有总线，不得比所引用的总线存活更久。交给只应发布事件、
// 不应观察或修改处理器表的组件使用：
//
//	view := bus.View()
//	_ = evt.Push(view, Ping{Value: 1})
type View[G any] struct {
	bus *Bus[G]
}

// NewView 创建视图，bus 不得为 nil
func NewView[G any](bus *Bus[G]) View[G] {
	assert.Require(bus != nil, ErrNilBus, "NewView(nil)")
	return View[G]{bus: bus}
}

func (v View[G]) target() *Bus[G] {
	assert.Require(v.bus != nil, ErrNilBus, "use of zero View")
	return v.bus
}

// Name 返回所引用总线的名称
func (v View[G]) Name() string {
	return v.target().Name()
}

// Valid 是否引用了总线
func (v View[G]) Valid() bool {
	return v.bus != nil
}
