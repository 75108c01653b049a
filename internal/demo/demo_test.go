package demo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-evbus/config"
	"github.com/dep2p/go-evbus/pkg/lib/evt"
	"github.com/dep2p/go-evbus/pkg/lib/typeid"
)

func newTrackingBus(t *testing.T) *evt.Bus[Tracking] {
	t.Helper()
	return evt.New[Tracking](evt.WithName(t.Name()), evt.WithRegistry(typeid.NewRegistry()))
}

// drainAll 反复 Process 直到没有事件
func drainAll(bus *evt.Bus[Tracking]) int {
	total := 0
	for {
		n := bus.Process()
		if n == 0 {
			return total
		}
		total += n
	}
}

// ============================================================================
// Tracker 测试
// ============================================================================

// TestTracker_PoseDeliveredNextProcess 测试位姿在下一次 Process 送达
func TestTracker_PoseDeliveredNextProcess(t *testing.T) {
	bus := newTrackingBus(t)
	tr := NewTracker(bus.View())
	bus.BindOwner(tr)
	defer bus.UnbindOwner(tr)

	require.NoError(t, evt.Push(bus, FrameCaptured{Camera: 1, Seq: 1, ID: uuid.New()}))
	require.NoError(t, evt.Push(bus, FrameCaptured{Camera: 1, Seq: 2, ID: uuid.New()}))

	assert.Equal(t, 2, bus.Process())
	st := tr.Stats()
	assert.Equal(t, int64(2), st.Frames)
	assert.Equal(t, int64(0), st.Poses)

	assert.Equal(t, 2, bus.Process())
	assert.Equal(t, int64(2), tr.Stats().Poses)
}

// TestTracker_OutOfOrder 测试帧序号回退被计数
func TestTracker_OutOfOrder(t *testing.T) {
	bus := newTrackingBus(t)
	tr := NewTracker(bus.View())
	bus.BindOwner(tr)
	defer bus.UnbindOwner(tr)

	for _, seq := range []uint64{1, 2, 2, 5, 3} {
		require.NoError(t, evt.Push(bus, FrameCaptured{Camera: 0, Seq: seq}))
	}
	require.NoError(t, evt.Push(bus, FrameCaptured{Camera: 1, Seq: 1}))
	drainAll(bus)

	st := tr.Stats()
	assert.Equal(t, int64(6), st.Frames)
	assert.Equal(t, int64(2), st.OutOfOrder)
}

// TestTracker_DropsAfterSeal 测试关闭过程中的位姿被丢弃并计数
func TestTracker_DropsAfterSeal(t *testing.T) {
	bus := newTrackingBus(t)
	tr := NewTracker(bus.View())
	bus.BindOwner(tr)

	require.NoError(t, evt.Push(bus, FrameCaptured{Camera: 0, Seq: 1}))
	require.NoError(t, evt.Push(bus, StatusText{Text: "warming up"}))
	require.NoError(t, evt.Push(bus, Shutdown{}))
	bus.Seal()
	drainAll(bus)

	st := tr.Stats()
	assert.Equal(t, int64(1), st.Frames)
	assert.Equal(t, int64(1), st.Dropped)
	assert.Equal(t, int64(0), st.Poses)
	assert.Equal(t, int64(1), st.Statuses)
	assert.Equal(t, int64(1), st.Shutdowns)

	bus.UnbindOwner(tr)
	require.NoError(t, bus.Close())
}

// ============================================================================
// Fleet 测试
// ============================================================================

// TestFleet_Run 测试多生产者限速发布并全部送达
func TestFleet_Run(t *testing.T) {
	bus := newTrackingBus(t)
	tr := NewTracker(bus.View())
	bus.BindOwner(tr)

	fleet := NewFleet(bus.View(), config.DemoConfig{
		Producers: 3,
		Rate:      2000,
		Burst:     50,
		Duration:  config.Duration(150 * time.Millisecond),
	})

	type outcome struct {
		res FleetResult
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := fleet.Run(context.Background())
		done <- outcome{res, err}
	}()

	var out outcome
loop:
	for {
		select {
		case out = <-done:
			break loop
		default:
			bus.Process()
			time.Sleep(time.Millisecond)
		}
	}
	drainAll(bus)

	require.NoError(t, out.err)
	assert.NotEqual(t, uuid.Nil, out.res.Session)
	assert.Positive(t, out.res.Sent)
	assert.Zero(t, out.res.Rejected)

	st := tr.Stats()
	assert.Equal(t, out.res.Sent, st.Frames)
	assert.Equal(t, st.Frames, st.Poses)
	assert.Zero(t, st.OutOfOrder)
	assert.Equal(t, int64(1), st.Shutdowns)

	bus.UnbindOwner(tr)
	require.NoError(t, bus.Close())
}

// TestFleet_SealedBus 测试总线停止接收时生产者正常退出
func TestFleet_SealedBus(t *testing.T) {
	bus := newTrackingBus(t)
	bus.Seal()

	fleet := NewFleet(bus.View(), config.DemoConfig{
		Producers: 4,
		Rate:      100,
		Burst:     1,
	})
	res, err := fleet.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, res.Sent)
	assert.Equal(t, int64(4), res.Rejected)
	require.NoError(t, bus.Close())
}

// TestFleet_ContextCanceled 测试 ctx 取消时停止
func TestFleet_ContextCanceled(t *testing.T) {
	bus := newTrackingBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fleet := NewFleet(bus.View(), config.DefaultDemoConfig())
	res, err := fleet.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, res.Sent)

	// 只有 Shutdown 入队
	assert.Equal(t, 1, bus.Pending())
	tr := NewTracker(bus.View())
	bus.BindOwner(tr)
	drainAll(bus)
	assert.Equal(t, int64(1), tr.Stats().Shutdowns)
	bus.UnbindOwner(tr)
}
