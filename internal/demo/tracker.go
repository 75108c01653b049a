package demo

import (
	"errors"
	"sync/atomic"

	"github.com/dep2p/go-evbus/pkg/lib/evt"
	"github.com/dep2p/go-evbus/pkg/lib/log"
)

var logger = log.Logger("demo")

// TrackerStats 跟踪器计数
type TrackerStats struct {
	Frames     int64
	Poses      int64
	Statuses   int64
	OutOfOrder int64 // 同一相机的帧序号未递增
	Dropped    int64 // 总线停止接收后无法发布的位姿
	Shutdowns  int64
}

// Tracker 处理 Tracking 分组全部事件的所有者
//
// 处理器只在消费者 goroutine 上运行；Stats 可从任意 goroutine 读取。
type Tracker struct {
	evt.Binding

	out     evt.View[Tracking]
	lastSeq map[int]uint64

	frames     atomic.Int64
	poses      atomic.Int64
	statuses   atomic.Int64
	outOfOrder atomic.Int64
	dropped    atomic.Int64
	shutdowns  atomic.Int64
}

// NewTracker 创建跟踪器，位姿发布到 out
func NewTracker(out evt.View[Tracking]) *Tracker {
	return &Tracker{
		out:     out,
		lastSeq: make(map[int]uint64),
	}
}

// EventHandlers 声明处理器
func (t *Tracker) EventHandlers(s *evt.HandlerSet[Tracking]) {
	evt.On(s, t.onFrame)
	evt.On(s, t.onPose)
	evt.On(s, t.onStatus)
	evt.On(s, t.onShutdown)
}

func (t *Tracker) onFrame(f FrameCaptured) {
	t.frames.Add(1)
	if last, ok := t.lastSeq[f.Camera]; ok && f.Seq <= last {
		t.outOfOrder.Add(1)
	}
	t.lastSeq[f.Camera] = f.Seq

	// 在下一次 Process 送达
	err := evt.Push(t.out, PoseEstimated{
		Tracker: f.Camera,
		X:       float64(f.Seq),
		Y:       float64(f.Camera),
	})
	if errors.Is(err, evt.ErrClosed) {
		t.dropped.Add(1)
	}
}

func (t *Tracker) onPose(PoseEstimated) {
	t.poses.Add(1)
}

func (t *Tracker) onStatus(s StatusText) {
	t.statuses.Add(1)
	logger.Debug("生产者状态", "text", s.Text)
}

func (t *Tracker) onShutdown(Shutdown) {
	t.shutdowns.Add(1)
	logger.Info("生产者已全部结束", "frames", t.frames.Load())
}

// Stats 返回计数快照
func (t *Tracker) Stats() TrackerStats {
	return TrackerStats{
		Frames:     t.frames.Load(),
		Poses:      t.poses.Load(),
		Statuses:   t.statuses.Load(),
		OutOfOrder: t.outOfOrder.Load(),
		Dropped:    t.dropped.Load(),
		Shutdowns:  t.shutdowns.Load(),
	}
}
