// Package eventbus 管理运行时内的事件总线
//
// Hub 持有所有总线共享的资源：类型标识注册表、指标 reporter 与消费者泵。
// 通过 Open 创建的总线使用这些共享资源，并自动挂载到泵上。
//
// # 快速开始
//
//	hub := eventbus.NewHub(typeid.NewRegistry(), reporter, pump)
//	bus, err := eventbus.Open[Tracking](hub, "tracking")
//
// # Fx 模块
//
//	app := fx.New(
//	    metrics.Module,
//	    loop.Module(),
//	    eventbus.Module(),
//	    fx.Invoke(func(hub *eventbus.Hub) {
//	        bus, _ := eventbus.Open[Tracking](hub, "tracking")
//	        // ...
//	    }),
//	)
//
// # 架构定位
//
// 依赖关系：
//   - 依赖：pkg/lib/evt, internal/core/loop, pkg/interfaces
//   - 被依赖：根包 evbus
package eventbus
