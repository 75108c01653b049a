// Package interfaces 定义 evbus 公共接口
//
// 本文件定义 Processor 接口：消费者泵驱动的、与事件分组无关的总线视图。
package interfaces

//go:generate mockgen -source=eventbus.go -destination=mocks/mock_processor.go -package=mocks

// Processor 单消费者事件队列
//
// evt.Bus[G] 对任意分组 G 都实现本接口。除 Name/Pending/Seal 外，
// 方法只能由唯一的消费者 goroutine 调用。
type Processor interface {
	// Name 返回总线名称
	Name() string

	// Process 处理当前批次的事件，返回分发数量
	Process() int

	// Pending 返回写侧待处理事件数量（任意 goroutine）
	Pending() int

	// Seal 停止接收新事件，之后的发布返回 ErrClosed（任意 goroutine）
	Seal()

	// Close 关闭总线并检查销毁前置条件
	Close() error
}
