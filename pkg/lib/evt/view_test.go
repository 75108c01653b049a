package evt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestView_Publish 测试通过视图发布
func TestView_Publish(t *testing.T) {
	bus := newTestBus(t)
	view := bus.View()

	total := 0
	Bind(bus, func(p Ping) { total += p.Value })

	require.NoError(t, Push(view, Ping{Value: 4}))
	require.NoError(t, Emplace(view, func(p *Ping) { p.Value = 6 }))
	assert.True(t, view.Valid())
	assert.Equal(t, bus.Name(), view.Name())

	bus.Process()
	assert.Equal(t, 10, total)
}

// TestView_AfterSeal 测试视图发布到已停止的总线
func TestView_AfterSeal(t *testing.T) {
	bus := newTestBus(t)
	view := NewView(bus)
	bus.Seal()

	assert.ErrorIs(t, Push(view, Ping{}), ErrClosed)
}

// TestView_NeverNull 测试视图不得引用 nil 总线
func TestView_NeverNull(t *testing.T) {
	requireViolation(t, ErrNilBus, func() { NewView[testGroup](nil) })

	var zero View[testGroup]
	assert.False(t, zero.Valid())
	requireViolation(t, ErrNilBus, func() { _ = Push(zero, Ping{}) })
}
