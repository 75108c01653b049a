package evbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	libassert "github.com/dep2p/go-evbus/pkg/lib/assert"
)

type small struct{ v int32 }

type large struct {
	a, b, c int64
	name    string
}

type frame struct {
	pixels   []byte
	released *int
}

func (f *frame) Dispose() {
	*f.released++
}

type token struct{ released *int }

func (t token) Dispose() {
	*t.released++
}

// recoverViolation 执行 fn 并返回捕获的契约违反
func recoverViolation(t *testing.T, fn func()) *libassert.ContractViolation {
	t.Helper()
	var r any
	func() {
		defer func() { r = recover() }()
		fn()
	}()
	cv, ok := libassert.AsViolation(r)
	require.True(t, ok, "expected contract violation, got %v", r)
	return cv
}

// ============================================================================
// 存储策略测试
// ============================================================================

// TestStorageFor 测试按大小选择存储策略
func TestStorageFor(t *testing.T) {
	assert.Equal(t, Inline, StorageFor[small]())
	assert.Equal(t, Inline, StorageFor[int]())
	assert.Equal(t, Inline, StorageFor[struct{}]())
	assert.Equal(t, Indirect, StorageFor[large]())
	assert.Equal(t, Indirect, StorageFor[frame]())
	assert.Equal(t, "inline", Inline.String())
	assert.Equal(t, "indirect", Indirect.String())
	assert.Equal(t, "none", Storage(0).String())
}

// TestBox_InlineRoundTrip 测试内联存储读写
func TestBox_InlineRoundTrip(t *testing.T) {
	b := New(3, small{v: 9})

	assert.Equal(t, Inline, b.Storage())
	assert.Equal(t, 3, int(b.ID()))
	assert.True(t, Is[small](&b))
	assert.False(t, Is[large](&b))
	assert.Equal(t, small{v: 9}, As[small](&b))
	assert.Equal(t, "evbox.small", b.TypeName())

	b.Destroy()
	assert.True(t, b.Spent())
	assert.False(t, Is[small](&b))
	assert.Empty(t, b.TypeName())
}

// TestBox_IndirectRoundTrip 测试堆存储读写
func TestBox_IndirectRoundTrip(t *testing.T) {
	want := large{a: 1, b: 2, c: 3, name: "pose"}
	b := New(0, want)

	assert.Equal(t, Indirect, b.Storage())
	assert.Equal(t, want, As[large](&b))
	assert.Equal(t, "evbox.large", b.TypeName())
	b.Destroy()
	assert.True(t, b.Spent())
}

// TestBox_Emplace 测试原地构造
func TestBox_Emplace(t *testing.T) {
	b := Emplace(1, func(l *large) {
		l.name = "in place"
		l.c = 7
	})
	got := As[large](&b)
	assert.Equal(t, "in place", got.name)
	assert.Equal(t, int64(7), got.c)
	b.Destroy()

	z := Emplace[small](2, nil)
	assert.Equal(t, small{}, As[small](&z))
	z.Destroy()
}

// ============================================================================
// 销毁测试
// ============================================================================

// TestBox_DisposeIndirect 测试堆存储事件销毁时调用 Dispose
func TestBox_DisposeIndirect(t *testing.T) {
	released := 0
	b := New(0, frame{pixels: make([]byte, 16), released: &released})

	b.Destroy()
	assert.Equal(t, 1, released)
}

// TestBox_DisposeInline 测试内联存储事件销毁时调用 Dispose
func TestBox_DisposeInline(t *testing.T) {
	released := 0
	b := New(0, token{released: &released})
	require.Equal(t, Inline, b.Storage())

	b.Destroy()
	assert.Equal(t, 1, released)
}

// ============================================================================
// 契约违反测试
// ============================================================================

// TestBox_TypeMismatch 测试类型不匹配
func TestBox_TypeMismatch(t *testing.T) {
	b := New(0, small{v: 1})
	cv := recoverViolation(t, func() { As[large](&b) })
	assert.ErrorIs(t, cv, ErrTypeMismatch)

	h := New(0, large{})
	cv = recoverViolation(t, func() { As[small](&h) })
	assert.ErrorIs(t, cv, ErrTypeMismatch)
}

// TestBox_DoubleDestroy 测试重复销毁
func TestBox_DoubleDestroy(t *testing.T) {
	b := New(0, small{})
	b.Destroy()

	cv := recoverViolation(t, b.Destroy)
	assert.ErrorIs(t, cv, ErrSpent)

	cv = recoverViolation(t, func() { As[small](&b) })
	assert.ErrorIs(t, cv, ErrSpent)
}

// TestBox_ZeroValueIsSpent 测试零值事件盒
func TestBox_ZeroValueIsSpent(t *testing.T) {
	var b Box
	assert.True(t, b.Spent())
	recoverViolation(t, b.Destroy)
}
