// Package demo 提供演示用的跟踪流水线负载
//
// 模拟相机采集线程向跟踪器发布帧事件：多个生产者 goroutine 以限定速率
// 发布 FrameCaptured，Tracker 在消费者 goroutine 上处理帧并再发布
// PoseEstimated，后者在下一次 Process 时送达。
package demo

import (
	"github.com/google/uuid"

	"github.com/dep2p/go-evbus/pkg/lib/evt"
)

// Tracking 跟踪流水线的事件分组
type Tracking struct{}

// FrameCaptured 相机采集到一帧
type FrameCaptured struct {
	evt.In[Tracking]
	Camera int
	Seq    uint64
	ID     uuid.UUID
}

// PoseEstimated 跟踪器根据帧估计出的位姿
type PoseEstimated struct {
	evt.In[Tracking]
	Tracker int
	X, Y, Z float64
}

// StatusText 生产者状态文本
type StatusText struct {
	evt.In[Tracking]
	Text string
}

// Shutdown 生产者全部退出
type Shutdown struct {
	evt.In[Tracking]
}
