package evt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tracker 处理两个事件类型的所有者
type tracker struct {
	Binding
	pings int
	texts []string
}

func (tr *tracker) EventHandlers(s *HandlerSet[testGroup]) {
	On(s, tr.onPing)
	On(s, tr.onPong)
}

func (tr *tracker) onPing(p Ping) { tr.pings += p.Value }
func (tr *tracker) onPong(p Pong) { tr.texts = append(tr.texts, p.Text) }

// dupOwner 重复声明同一类型
type dupOwner struct {
	Binding
}

func (d *dupOwner) EventHandlers(s *HandlerSet[testGroup]) {
	On(s, func(Ping) {})
	On(s, func(Ping) {})
}

// ============================================================================
// 所有者绑定测试
// ============================================================================

// TestOwner_BindUnbind 测试所有者批量绑定与解绑
func TestOwner_BindUnbind(t *testing.T) {
	bus := newTestBus(t)
	tr := &tracker{}

	assert.False(t, tr.Bound())
	bus.BindOwner(tr)
	assert.True(t, tr.Bound())
	assert.Equal(t, 2, bus.Bound())

	require.NoError(t, Push(bus, Ping{Value: 2}))
	require.NoError(t, Push(bus, Pong{Text: "hi"}))
	require.NoError(t, Push(bus, Ping{Value: 3}))
	bus.Process()

	assert.Equal(t, 5, tr.pings)
	assert.Equal(t, []string{"hi"}, tr.texts)

	bus.UnbindOwner(tr)
	assert.False(t, tr.Bound())
	assert.Equal(t, 0, bus.Bound())
	require.NoError(t, bus.Close())
}

// TestOwner_AlternationEnforced 测试绑定与解绑必须交替
func TestOwner_AlternationEnforced(t *testing.T) {
	bus := newTestBus(t)
	tr := &tracker{}

	requireViolation(t, ErrOwnerNotBound, func() { bus.UnbindOwner(tr) })

	bus.BindOwner(tr)
	requireViolation(t, ErrOwnerBound, func() { bus.BindOwner(tr) })
	assert.Equal(t, 2, bus.Bound())

	bus.UnbindOwner(tr)
	requireViolation(t, ErrOwnerNotBound, func() { bus.UnbindOwner(tr) })

	// 可以再次绑定
	bus.BindOwner(tr)
	bus.UnbindOwner(tr)
}

// TestOwner_AllOrNothing 测试任一类型已绑定时不安装任何处理器
func TestOwner_AllOrNothing(t *testing.T) {
	bus := newTestBus(t)
	Bind(bus, func(Pong) {})

	tr := &tracker{}
	requireViolation(t, ErrAlreadyBound, func() { bus.BindOwner(tr) })
	assert.False(t, tr.Bound())
	assert.Equal(t, 1, bus.Bound())
	assert.False(t, IsBound[Ping](bus), "Ping must not be installed")
}

// TestOwner_DuplicateDeclaration 测试同一集合重复声明
func TestOwner_DuplicateDeclaration(t *testing.T) {
	bus := newTestBus(t)
	d := &dupOwner{}

	requireViolation(t, ErrDuplicateHandler, func() { bus.BindOwner(d) })
	assert.False(t, d.Bound())
	assert.Equal(t, 0, bus.Bound())
}

// TestOwner_ForeignBus 测试在另一条总线上解绑
func TestOwner_ForeignBus(t *testing.T) {
	a, b := newTestBus(t), newTestBus(t)
	tr := &tracker{}

	a.BindOwner(tr)
	requireViolation(t, ErrOwnerBound, func() { b.BindOwner(tr) })
	requireViolation(t, ErrForeignOwner, func() { b.UnbindOwner(tr) })
	assert.True(t, tr.Bound())

	a.UnbindOwner(tr)
}

// TestOwner_NilOwner 测试 nil 所有者
func TestOwner_NilOwner(t *testing.T) {
	bus := newTestBus(t)
	requireViolation(t, ErrNilHandler, func() { bus.BindOwner(nil) })
	requireViolation(t, ErrNilHandler, func() { bus.UnbindOwner(nil) })
}

// TestOwner_CloseWhileBound 测试仍绑定的所有者导致关闭报告违反
func TestOwner_CloseWhileBound(t *testing.T) {
	bus := newTestBus(t)
	tr := &tracker{}
	bus.BindOwner(tr)

	assert.ErrorIs(t, bus.Close(), ErrHandlersBound)
	bus.UnbindOwner(tr)
	assert.Equal(t, 0, bus.Bound())
}

// TestHandlerSet_Len 测试集合计数
func TestHandlerSet_Len(t *testing.T) {
	bus := newTestBus(t)
	s := &HandlerSet[testGroup]{registry: bus.Registry()}
	(&tracker{}).EventHandlers(s)
	assert.Equal(t, 2, s.Len())
}
