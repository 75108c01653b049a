// Package lib 包含基础设施工具库
//
// 本目录包含与运行时组件无关的通用工具库：
//
//   - evt: 类型安全的单消费者事件队列（核心）
//   - evbox: 类型擦除的事件盒
//   - msgqueue: 双缓冲消息队列
//   - typeid: 进程内事件类型标识
//   - assert: 契约检查
//   - log: 日志封装
//
// # 使用示例
//
//	import (
//	    "github.com/dep2p/go-evbus/pkg/lib/evt"
//	    "github.com/dep2p/go-evbus/pkg/lib/log"
//	)
package lib
