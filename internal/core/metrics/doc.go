// Package metrics 提供事件总线的监控指标收集
//
// Collector 实现 interfaces.QueueReporter，把每条总线的发布、拒绝、分发、
// 排空批次记录到私有的 Prometheus 注册表：
//
//	evbus_events_pushed_total{bus,event}
//	evbus_events_rejected_total{bus,event}
//	evbus_events_dispatched_total{bus,event}
//	evbus_dispatch_seconds{bus}
//	evbus_drain_batch_size{bus}
//	evbus_pending_events{bus}
//
// # 快速开始
//
//	c := metrics.NewCollector("evbus")
//	bus := evt.New[Tracking](evt.WithName("tracking"), evt.WithReporter(c))
//
//	http.Handle("/metrics", c.Handler())
//
//	for _, s := range c.Snapshot() {
//	    fmt.Printf("%s: %d dispatched, %.1f/s\n", s.Bus, s.Dispatched, s.DispatchRate)
//	}
//
// # Fx 模块
//
// Module 根据 config.MetricsConfig 提供 *Collector 与 interfaces.QueueReporter；
// 禁用时 Collector 为 nil，Reporter 为 interfaces.NopReporter。
//
// # 并发安全
//
// 所有 Log* 方法可从任意 goroutine 调用。
package metrics
