// Package evbox 实现类型擦除的事件盒
//
// Box 持有且仅持有一个事件实例，在发布与分发之间承载事件。
// 存储策略在构造时按事件大小选择：
//   - Inline：事件不大于一个指针宽度，值直接存入接口字
//   - Indirect：显式堆分配 *T，盒内仅存指针，出队与缓冲交换只移动指针
//
// 构造时捕获该具体类型的释放操作，因此 Destroy 无需调用方再次提供类型，
// 类型不匹配不会造成静默的内存错误。
package evbox

import (
	"errors"
	"reflect"
	"unsafe"

	"github.com/dep2p/go-evbus/pkg/lib/assert"
	"github.com/dep2p/go-evbus/pkg/lib/typeid"
)

// ============================================================================
// 错误定义
// ============================================================================

var (
	// ErrTypeMismatch 以不同于构造时的类型访问事件盒
	ErrTypeMismatch = errors.New("evbox: type mismatch")
	// ErrSpent 访问或销毁已销毁的事件盒
	ErrSpent = errors.New("evbox: box already destroyed")
)

// ptrSize 指针宽度，内联阈值
const ptrSize = unsafe.Sizeof(uintptr(0))

// Storage 存储策略
type Storage uint8

const (
	// Inline 值直接存放
	Inline Storage = iota + 1
	// Indirect 值在堆上，盒内存放 *T
	Indirect
)

// String 返回存储策略名称
func (s Storage) String() string {
	switch s {
	case Inline:
		return "inline"
	case Indirect:
		return "indirect"
	default:
		return "none"
	}
}

// Disposer 需要在销毁时释放资源的事件可实现此接口
//
// Destroy 会在清空存储前调用 Dispose，等价于事件的析构。
type Disposer interface {
	Dispose()
}

// Box 类型擦除事件盒
//
// 零值 Box 视为已销毁。Box 按值存放在队列中，分发时通过指针访问。
type Box struct {
	word    any // T 或 *T
	release func(any)
	id      typeid.ID
	storage Storage
}

// StorageFor 返回类型 T 的存储策略
func StorageFor[T any]() Storage {
	var zero T
	if unsafe.Sizeof(zero) <= ptrSize {
		return Inline
	}
	return Indirect
}

// New 以值构造事件盒
func New[T any](id typeid.ID, v T) Box {
	b := Box{id: id, storage: StorageFor[T](), release: release[T]}
	if b.storage == Inline {
		b.word = v
	} else {
		p := new(T)
		*p = v
		b.word = p
	}
	return b
}

// Emplace 原地构造事件盒：从零值开始，由 init 填充
func Emplace[T any](id typeid.ID, init func(*T)) Box {
	b := Box{id: id, storage: StorageFor[T](), release: release[T]}
	p := new(T)
	if init != nil {
		init(p)
	}
	if b.storage == Inline {
		b.word = *p
	} else {
		b.word = p
	}
	return b
}

// As 返回盒中事件的副本
//
// 前置条件：T 与构造时的类型一致。不一致时触发契约违反。
func As[T any](b *Box) T {
	assert.Require(b.release != nil, ErrSpent, "As[%s] on destroyed box (id=%d)", typeName[T](), b.id)

	var (
		v  T
		ok bool
	)
	if b.storage == Inline {
		v, ok = b.word.(T)
	} else {
		var p *T
		if p, ok = b.word.(*T); ok {
			v = *p
		}
	}
	assert.Require(ok, ErrTypeMismatch, "As[%s] on box holding %s", typeName[T](), b.TypeName())
	return v
}

// Is 判断盒中事件是否为类型 T
func Is[T any](b *Box) bool {
	if b.release == nil {
		return false
	}
	if b.storage == Inline {
		_, ok := b.word.(T)
		return ok
	}
	_, ok := b.word.(*T)
	return ok
}

// Destroy 销毁事件盒
//
// 调用构造时捕获的释放操作，之后盒即失效，不得再次读取或销毁。
func (b *Box) Destroy() {
	assert.Require(b.release != nil, ErrSpent, "double destroy (id=%d)", b.id)
	b.release(b.word)
	b.word = nil
	b.release = nil
}

// ID 返回事件类型标识
func (b *Box) ID() typeid.ID {
	return b.id
}

// Storage 返回存储策略
func (b *Box) Storage() Storage {
	return b.storage
}

// Spent 是否已销毁
func (b *Box) Spent() bool {
	return b.release == nil
}

// TypeName 返回盒中事件的动态类型名，已销毁返回空字符串
func (b *Box) TypeName() string {
	if b.word == nil {
		return ""
	}
	t := reflect.TypeOf(b.word)
	if b.storage == Indirect && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.String()
}

// release 类型特定的释放操作
func release[T any](word any) {
	switch w := word.(type) {
	case *T:
		if d, ok := any(w).(Disposer); ok {
			d.Dispose()
		}
		var zero T
		*w = zero
	case T:
		if d, ok := any(&w).(Disposer); ok {
			d.Dispose()
		}
	}
}

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}
