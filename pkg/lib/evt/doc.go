// Package evt 实现进程内、类型安全的单消费者事件队列
//
// 任意 goroutine 发布事件，唯一的消费者 goroutine 周期性调用 Process
// 排空队列并把每个事件交给该类型唯一的处理器。
//
// # 分组
//
// 每条总线以一个分组标签类型 G 参数化，事件通过嵌入 In[G] 声明所属分组：
//
//	type Tracking struct{}
//
//	type Ping struct {
//	    evt.In[Tracking]
//	    Value int
//	}
//
// 发布、绑定、解绑分组之外的事件类型在编译期被拒绝。
//
// # 快速开始
//
//	bus := evt.New[Tracking](evt.WithName("tracking"))
//
//	evt.Bind(bus, func(p Ping) { total += p.Value })
//
//	// 任意 goroutine
//	_ = evt.Push(bus, Ping{Value: 5})
//
//	// 消费者 goroutine，例如主循环每次迭代
//	bus.Process()
//
// # 单订阅者
//
// 每个事件类型在一条总线上同时只能有一个处理器，这是分发表的设计约定，
// 不是广播器。需要多订阅者时应另建总线变体，而不是改变本总线的约定。
//
// # 并发
//
// 一把互斥锁同时保护写侧缓冲区与处理器表：
//   - Push/Emplace/Bind/Unbind：任意 goroutine，在锁内完成 O(1) 临界区
//   - Process：仅消费者，锁内交换缓冲区并获取处理器表快照后立即释放锁
//
// 分发针对排空时刻的处理器表快照进行（不可变表，写时复制）。
// 因此在某次 Process 进行中完成的 Unbind 不会阻止该批次投递到旧处理器，
// 进行中的 Bind 从下一次 Process 开始生效。
//
// # 契约违反
//
// 重复绑定、解绑未绑定类型、分发时无处理器、并发调用 Process 等编程错误
// 通过 assert 包触发 panic（*assert.ContractViolation）。
// 关闭后的发布属于可恢复状态，返回 ErrClosed。
package evt
