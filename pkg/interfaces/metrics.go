// Package interfaces 定义 evbus 公共接口
//
// 本文件定义 QueueReporter 接口，用于记录事件队列指标。
package interfaces

import "time"

// QueueReporter 事件队列指标记录器
//
// 所有方法必须并发安全：LogPush/LogReject 在生产者 goroutine 调用，
// 其余在消费者 goroutine 调用。
type QueueReporter interface {
	// LogPush 记录一次成功入队
	LogPush(bus, event string)

	// LogReject 记录一次因总线关闭而被拒绝的发布
	LogReject(bus, event string)

	// LogDispatch 记录一次处理器调用及其耗时
	LogDispatch(bus, event string, d time.Duration)

	// LogDrain 记录一次批次排空的数量与耗时
	LogDrain(bus string, n int, d time.Duration)

	// LogPending 记录写侧待处理事件数量
	LogPending(bus string, n int)
}

// NopReporter 不记录任何指标
type NopReporter struct{}

var _ QueueReporter = NopReporter{}

// LogPush 实现 QueueReporter
func (NopReporter) LogPush(string, string) {}

// LogReject 实现 QueueReporter
func (NopReporter) LogReject(string, string) {}

// LogDispatch 实现 QueueReporter
func (NopReporter) LogDispatch(string, string, time.Duration) {}

// LogDrain 实现 QueueReporter
func (NopReporter) LogDrain(string, int, time.Duration) {}

// LogPending 实现 QueueReporter
func (NopReporter) LogPending(string, int) {}
