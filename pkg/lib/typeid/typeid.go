// Package typeid 为事件类型分配进程内稳定的整数标识
//
// 标识在类型首次出现时惰性分配，从 0 开始单调递增且不复用。
// 标识仅在同一个 Registry 内唯一，不保证跨进程或跨构建稳定。
//
// Registry 是可构造的实例而非全局单例，独立的测试或子系统可以使用隔离的实例；
// Default 仅作为便利的共享实例。
package typeid

import (
	"reflect"
	"sync"
)

// ID 事件类型标识
type ID int32

// Invalid 无效标识
const Invalid ID = -1

// Default 默认共享 Registry
var Default = NewRegistry()

// Registry 类型标识注册表
//
// 查找路径为 sync.Map 无锁读；首次分配在互斥锁内复查后写入，
// 因此不同类型的首次调用并发发生时分配仍然无竞态。
type Registry struct {
	ids sync.Map // reflect.Type -> ID

	mu    sync.RWMutex
	names []string // 按 ID 索引的类型名
}

// NewRegistry 创建空的 Registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Of 返回类型 T 在 r 中的标识，首次调用时分配
func Of[T any](r *Registry) ID {
	return r.OfType(reflect.TypeOf((*T)(nil)).Elem())
}

// OfType 返回动态类型 t 的标识，首次调用时分配
func (r *Registry) OfType(t reflect.Type) ID {
	if id, ok := r.ids.Load(t); ok {
		return id.(ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// 复查：另一个 goroutine 可能已经完成分配
	if id, ok := r.ids.Load(t); ok {
		return id.(ID)
	}

	id := ID(len(r.names))
	r.names = append(r.names, t.String())
	r.ids.Store(t, id)
	return id
}

// Lookup 查询类型 T 的标识，不分配
func Lookup[T any](r *Registry) (ID, bool) {
	id, ok := r.ids.Load(reflect.TypeOf((*T)(nil)).Elem())
	if !ok {
		return Invalid, false
	}
	return id.(ID), true
}

// Name 返回标识对应的类型名，未知标识返回空字符串
func (r *Registry) Name(id ID) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id < 0 || int(id) >= len(r.names) {
		return ""
	}
	return r.names[id]
}

// Len 返回已分配的标识数量
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}
