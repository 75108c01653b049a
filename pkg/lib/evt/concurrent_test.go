package evt

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// 并发测试
// ============================================================================

// TestConcurrent_Producers 测试多生产者单消费者
func TestConcurrent_Producers(t *testing.T) {
	bus := newTestBus(t)

	const producers, perProducer = 8, 250
	last := make(map[int]int)
	received := 0
	Bind(bus, func(l Large) {
		p, seq := int(l.A), int(l.B)
		if prev, ok := last[p]; ok {
			assert.Greater(t, seq, prev, "per-producer FIFO")
		}
		last[p] = seq
		received++
	})

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func(p int) {
			defer wg.Done()
			view := bus.View()
			for i := 0; i < perProducer; i++ {
				assert.NoError(t, Push(view, Large{A: int64(p), B: int64(i)}))
			}
		}(p)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

loop:
	for {
		select {
		case <-done:
			break loop
		default:
			bus.Process()
		}
	}
	bus.Process()

	assert.Equal(t, producers*perProducer, received)
	Unbind[Large](bus)
	require.NoError(t, bus.Close())
}

// TestConcurrent_BindDuringProcess 测试分发针对快照进行
func TestConcurrent_BindDuringProcess(t *testing.T) {
	bus := newTestBus(t)

	var pongs atomic.Int32
	var once sync.Once
	Bind(bus, func(Ping) {
		// 另一个 goroutine 在分发进行中绑定 Pong
		once.Do(func() {
			bound := make(chan struct{})
			go func() {
				defer close(bound)
				Bind(bus, func(Pong) { pongs.Add(1) })
			}()
			<-bound
		})
	})

	// 同一批次中的 Pong 按快照分发，此时快照中没有 Pong 处理器
	require.NoError(t, Push(bus, Ping{}))
	require.NoError(t, Push(bus, Pong{}))
	requireViolation(t, ErrUnhandled, func() { bus.Process() })
	assert.True(t, IsBound[Pong](bus))

	// 新绑定在下一次 Process 生效
	require.NoError(t, Push(bus, Pong{}))
	assert.Equal(t, 1, bus.Process())
	assert.Equal(t, int32(1), pongs.Load())
}

// TestConcurrent_UnbindDuringProcess 测试进行中的解绑不影响当前批次
func TestConcurrent_UnbindDuringProcess(t *testing.T) {
	bus := newTestBus(t)

	hits := 0
	Bind(bus, func(p Ping) {
		hits++
		if p.Value == 1 {
			Unbind[Ping](bus)
		}
	})

	require.NoError(t, Push(bus, Ping{Value: 1}))
	require.NoError(t, Push(bus, Ping{Value: 2}))
	assert.Equal(t, 2, bus.Process())
	assert.Equal(t, 2, hits, "snapshot keeps delivering the drained batch")
	assert.False(t, IsBound[Ping](bus))

	require.NoError(t, Push(bus, Ping{Value: 3}))
	requireViolation(t, ErrUnhandled, func() { bus.Process() })
}

// TestConcurrent_ProcessFromTwoGoroutines 测试并发 Process 被拒绝
func TestConcurrent_ProcessFromTwoGoroutines(t *testing.T) {
	bus := newTestBus(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	Bind(bus, func(Ping) {
		close(entered)
		<-release
	})
	require.NoError(t, Push(bus, Ping{}))

	finished := make(chan int)
	go func() { finished <- bus.Process() }()

	<-entered
	requireViolation(t, ErrConcurrentProcess, func() { bus.Process() })
	close(release)
	assert.Equal(t, 1, <-finished)
}

// TestConcurrent_SealWhileProducing 测试生产者在关闭过程中收到 ErrClosed
func TestConcurrent_SealWhileProducing(t *testing.T) {
	bus := newTestBus(t)
	var delivered atomic.Int64
	Bind(bus, func(Ping) { delivered.Add(1) })

	var (
		accepted atomic.Int64
		rejected atomic.Int64
		wg       sync.WaitGroup
	)
	start := make(chan struct{})
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			for i := 0; i < 1000; i++ {
				if err := Push(bus, Ping{Value: i}); err != nil {
					assert.ErrorIs(t, err, ErrClosed)
					rejected.Add(1)
					continue
				}
				accepted.Add(1)
			}
		}()
	}

	close(start)
	bus.Process()
	bus.Seal()
	wg.Wait()
	for bus.Process() > 0 {
	}

	assert.Equal(t, int64(4000), accepted.Load()+rejected.Load())
	assert.Equal(t, accepted.Load(), delivered.Load(), "every accepted event is delivered")
	Unbind[Ping](bus)
	require.NoError(t, bus.Close())
}
