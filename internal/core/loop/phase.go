package loop

import (
	"context"
	"fmt"
	"sync"
)

// ============================================================================
//                              阶段定义
// ============================================================================

// Phase 泵的生命周期阶段
type Phase int

const (
	// PhaseCreated 已创建，未启动
	PhaseCreated Phase = iota

	// PhaseRunning 消费者 goroutine 按节奏处理
	PhaseRunning

	// PhaseDraining 已停止接收新事件，正在排空剩余批次
	PhaseDraining

	// PhaseStopped 所有总线已关闭
	PhaseStopped
)

// String 返回阶段字符串表示
func (p Phase) String() string {
	switch p {
	case PhaseCreated:
		return "created"
	case PhaseRunning:
		return "running"
	case PhaseDraining:
		return "draining"
	case PhaseStopped:
		return "stopped"
	default:
		return fmt.Sprintf("unknown(%d)", p)
	}
}

// ============================================================================
//                              阶段追踪
// ============================================================================

// phases 只能向前推进的阶段追踪器
//
// 每个阶段对应一个信号 channel，推进时关闭途经的所有阶段信号。
type phases struct {
	mu      sync.RWMutex
	current Phase
	signals map[Phase]chan struct{}

	onChange []func(old, new Phase)
}

func newPhases() *phases {
	p := &phases{
		current: PhaseCreated,
		signals: make(map[Phase]chan struct{}),
	}
	for ph := PhaseCreated; ph <= PhaseStopped; ph++ {
		p.signals[ph] = make(chan struct{})
	}
	close(p.signals[PhaseCreated])
	return p
}

func (p *phases) get() Phase {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// advance 推进到 target，返回推进前的阶段
//
// 不能后退；target 等于当前阶段时返回 false。
func (p *phases) advance(target Phase) (Phase, bool) {
	p.mu.Lock()
	old := p.current
	if target <= old {
		p.mu.Unlock()
		return old, false
	}
	for ph := old + 1; ph <= target; ph++ {
		close(p.signals[ph])
	}
	p.current = target
	callbacks := make([]func(old, new Phase), len(p.onChange))
	copy(callbacks, p.onChange)
	p.mu.Unlock()

	logger.Debug("泵阶段推进", "from", old.String(), "to", target.String())
	for _, cb := range callbacks {
		cb(old, target)
	}
	return old, true
}

func (p *phases) wait(ctx context.Context, target Phase) error {
	p.mu.RLock()
	ch := p.signals[target]
	p.mu.RUnlock()

	if ch == nil {
		return fmt.Errorf("invalid phase: %d", target)
	}

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *phases) subscribe(cb func(old, new Phase)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChange = append(p.onChange, cb)
}
