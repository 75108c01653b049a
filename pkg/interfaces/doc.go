// Package interfaces 定义 evbus 组件之间的公共接口
//
// 接口文件与实现目录一一对应：
//   - eventbus.go       - Processor，可被 Pump 驱动的总线（pkg/lib/evt）
//   - metrics.go        - QueueReporter，队列指标上报（internal/core/metrics）
//
// 依赖方向：pkg/lib/evt 与 internal/core/* 只依赖本包中的接口，
// 具体实现通过 Fx 在 internal/core/*/module.go 中注入。
//
// Mock 由 mockgen 生成，位于 mocks/ 子目录。
package interfaces
