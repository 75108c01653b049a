package evt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-evbus/pkg/lib/assert"
	"github.com/dep2p/go-evbus/pkg/lib/typeid"
)

// testGroup 测试分组
type testGroup struct{}

// otherGroup 另一个分组，仅用于区分
type otherGroup struct{}

type Ping struct {
	In[testGroup]
	Value int
}

type Pong struct {
	In[testGroup]
	Text string
}

type Large struct {
	In[testGroup]
	A, B, C, D int64
}

type Foreign struct {
	In[otherGroup]
}

type disposable struct {
	In[testGroup]
	released *int
	payload  [32]byte
}

func (d *disposable) Dispose() {
	*d.released++
}

// newTestBus 创建使用独立注册表的总线
func newTestBus(t *testing.T, opts ...Option) *Bus[testGroup] {
	t.Helper()
	opts = append([]Option{WithName(t.Name()), WithRegistry(typeid.NewRegistry())}, opts...)
	return New[testGroup](opts...)
}

// requireViolation 执行 fn 并断言触发了指定的契约违反
func requireViolation(t *testing.T, target error, fn func()) {
	t.Helper()
	var r any
	func() {
		defer func() { r = recover() }()
		fn()
	}()
	cv, ok := assert.AsViolation(r)
	require.True(t, ok, "expected contract violation, got %v", r)
	require.ErrorIs(t, cv, target)
}
