// Package evbus 提供进程内、类型安全的单消费者事件队列运行时
//
// 事件按分组（group）组织：一条总线只接受其分组的事件类型，处理器在
// 唯一的消费者 goroutine 上按 FIFO 顺序执行。总线本身位于 pkg/lib/evt，
// 本包把多条总线、指标收集与消费者泵组装成一个可启动、可停止的 Runtime。
//
// # 快速开始
//
//	type Tracking struct{}
//
//	type FrameCaptured struct {
//	    evt.In[Tracking]
//	    Seq uint64
//	}
//
//	rt, err := evbus.New(evbus.WithConfig(cfg))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	bus, err := evbus.NewBus[Tracking](rt, "tracking")
//	evt.Bind(bus, func(f FrameCaptured) { ... })
//
//	if err := rt.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Stop(context.Background())
//
//	// 任意 goroutine
//	_ = evt.Push(bus.View(), FrameCaptured{Seq: 1})
//
// # 组件
//
//	┌──────────────────────────────────────────────────────────┐
//	│  Runtime        evbus.New() / rt.Start() / rt.Stop()      │
//	├──────────────────────────────────────────────────────────┤
//	│  eventbus.Hub   共享注册表 + reporter，创建并挂载总线      │
//	│  loop.Pump      唯一消费者：按节奏 Process，关闭时排空      │
//	│  metrics        Prometheus QueueReporter                  │
//	├──────────────────────────────────────────────────────────┤
//	│  evt.Bus[G]     双缓冲队列 + 处理器表                      │
//	│  evbox / typeid / msgqueue                                │
//	└──────────────────────────────────────────────────────────┘
//
// # 关闭顺序
//
// Stop 先 Seal 所有总线（之后的发布返回 evt.ErrClosed），排空剩余事件，
// 执行通过 rt.Pump().OnDrained 注册的回调（通常用于解绑处理器），
// 最后 Close 所有总线。仍有积压或处理器未解绑的总线会以聚合错误报告。
package evbus
