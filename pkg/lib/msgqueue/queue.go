// Package msgqueue 实现单消费者、多生产者的双缓冲 FIFO 队列
//
// 队列本身不持有锁：写侧由外部锁保护（通常与所属组件的其他状态共用一把锁），
// 读侧仅由正在执行的 Drain 独占。Drain 在锁内 O(1) 交换两个缓冲区后即释放锁，
// 遍历过程中生产者可以继续入队而不会阻塞。
package msgqueue

import (
	"errors"
	"sync"

	"github.com/dep2p/go-evbus/pkg/lib/assert"
)

// ErrNotEmpty 关闭时写侧缓冲区仍有未处理的消息
var ErrNotEmpty = errors.New("msgqueue: write buffer not empty")

// errLockNotHeld 调用 Drain 时未持有锁
var errLockNotHeld = errors.New("msgqueue: lock not held")

// Queue 双缓冲队列
//
// 零值可用。
type Queue[T any] struct {
	write []T
	read  []T
}

// Enqueue 追加消息到写侧缓冲区
//
// 调用方必须持有保护队列的锁。均摊 O(1)，从不访问读侧缓冲区。
func (q *Queue[T]) Enqueue(item T) {
	q.write = append(q.write, item)
}

// Pending 返回写侧缓冲区中的消息数量
//
// 调用方必须持有保护队列的锁。
func (q *Queue[T]) Pending() int {
	return len(q.write)
}

// Drain 处理当前批次的所有消息
//
// 进入时调用方必须持有 l：
//   - 写侧为空：立即返回 0，l 仍被持有
//   - 否则交换读写缓冲区，释放 l，按入队顺序对每条消息调用 fn，
//     清空读侧后返回处理数量，此时 l 已释放
//
// Drain 期间入队的消息（包括 fn 内部入队的）进入新的写侧，只会被下一次 Drain 处理。
// fn 发生 panic 时读侧仍会被清空。
func (q *Queue[T]) Drain(l sync.Locker, fn func(*T)) int {
	assert.Debug(!probeUnlocked(l), errLockNotHeld, "Drain called without holding the lock")

	if len(q.write) == 0 {
		return 0
	}

	q.write, q.read = q.read, q.write
	l.Unlock()

	defer q.resetRead()
	for i := range q.read {
		fn(&q.read[i])
	}
	return len(q.read)
}

// Close 检查销毁前置条件：写侧缓冲区必须为空
//
// 调用方必须持有保护队列的锁。只释放写侧；读侧归正在执行的 Drain 所有。
func (q *Queue[T]) Close() error {
	if len(q.write) != 0 {
		return ErrNotEmpty
	}
	q.write = nil
	return nil
}

// Reset 丢弃写侧缓冲区中的全部消息，丢弃前对每条消息调用 fn
//
// 调用方必须持有保护队列的锁。用于关闭时释放未处理的消息，返回丢弃数量。
func (q *Queue[T]) Reset(fn func(*T)) int {
	n := len(q.write)
	if fn != nil {
		for i := range q.write {
			fn(&q.write[i])
		}
	}
	clear(q.write)
	q.write = q.write[:0]
	return n
}

// resetRead 清空读侧并保留容量，零值化元素以便 GC 回收
func (q *Queue[T]) resetRead() {
	clear(q.read)
	q.read = q.read[:0]
}

// probeUnlocked 探测锁是否未被持有（仅调试构建使用）
func probeUnlocked(l sync.Locker) bool {
	type tryLocker interface{ TryLock() bool }
	tl, ok := l.(tryLocker)
	if !ok {
		return false
	}
	if tl.TryLock() {
		l.Unlock()
		return true
	}
	return false
}
