package evt

import "github.com/dep2p/go-evbus/pkg/lib/typeid"

// table 处理器表
//
// 不可变：按 typeid 索引的切片（标识连续分配），修改时复制。
// 分发方持有某个版本的指针即获得一致的快照。
type table struct {
	slots []handler
	count int
}

var emptyTable = &table{}

func (t *table) get(id typeid.ID) handler {
	if id < 0 || int(id) >= len(t.slots) {
		return nil
	}
	return t.slots[id]
}

func (t *table) clone(size int) *table {
	if size < len(t.slots) {
		size = len(t.slots)
	}
	next := &table{slots: make([]handler, size), count: t.count}
	copy(next.slots, t.slots)
	return next
}

// with 返回加入 entries 后的新表，调用方保证这些标识均未绑定
func (t *table) with(entries ...entry) *table {
	size := len(t.slots)
	for _, e := range entries {
		if int(e.id) >= size {
			size = int(e.id) + 1
		}
	}
	next := t.clone(size)
	for _, e := range entries {
		next.slots[e.id] = e.h
		next.count++
	}
	return next
}

// without 返回移除 ids 后的新表，调用方保证这些标识均已绑定
func (t *table) without(ids ...typeid.ID) *table {
	next := t.clone(0)
	for _, id := range ids {
		next.slots[id] = nil
		next.count--
	}
	return next
}

// entry 待绑定的 (类型, 处理器)
type entry struct {
	id typeid.ID
	h  handler
}
