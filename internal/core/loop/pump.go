package loop

import (
	"context"
	"fmt"
	"sync"

	"github.com/benbjohnson/clock"
	"go.uber.org/multierr"

	"github.com/dep2p/go-evbus/config"
	pkgif "github.com/dep2p/go-evbus/pkg/interfaces"
	"github.com/dep2p/go-evbus/pkg/lib/log"
)

var logger = log.Logger("core/loop")

// Option 泵选项
type Option func(*Pump)

// WithClock 指定节奏使用的时钟
func WithClock(clk clock.Clock) Option {
	return func(p *Pump) {
		p.clock = clk
	}
}

// WithReporter 指定积压上报的 reporter
func WithReporter(r pkgif.QueueReporter) Option {
	return func(p *Pump) {
		p.reporter = r
	}
}

// ============================================================================
// Pump
// ============================================================================

// Pump 所有已挂载总线的唯一消费者
//
// Start 之后由一个 goroutine 按 Interval 对每条总线调用 Process；
// 未启动时宿主可以自己调用 Tick 驱动。任何时刻最多只有一次 Tick 在执行，
// 因此同一条总线的 Process 不会并发。
type Pump struct {
	cfg      config.LoopConfig
	clock    clock.Clock
	reporter pkgif.QueueReporter
	phases   *phases

	// tickMu 串行化 Tick，持有期间调用 Process
	tickMu sync.Mutex

	mu        sync.Mutex
	procs     []pkgif.Processor
	onDrained []func()
	closing   bool // Stop 已开始，之后 Attach 返回 ErrStopped

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewPump 创建泵
func NewPump(cfg config.LoopConfig, opts ...Option) *Pump {
	p := &Pump{
		cfg:      cfg,
		clock:    clock.New(),
		reporter: pkgif.NopReporter{},
		phases:   newPhases(),
		stopCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ============================================================================
// 挂载
// ============================================================================

// Attach 挂载总线，启动前后均可调用
//
// 名称必须唯一；进入关闭流程后返回 ErrStopped。
func (p *Pump) Attach(proc pkgif.Processor) error {
	if proc == nil {
		return ErrNilProcessor
	}
	name := proc.Name()
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closing {
		return ErrStopped
	}
	for _, existing := range p.procs {
		if existing.Name() == name {
			return fmt.Errorf("%w: %s", ErrDuplicateProcessor, name)
		}
	}
	p.procs = append(p.procs, proc)
	logger.Debug("总线已挂载", "bus", name)
	return nil
}

// Detach 卸载总线并返回它，总线的关闭由调用方负责
//
// 返回后泵不会再调用该总线。会等待进行中的 Tick，不能在处理器内调用。
func (p *Pump) Detach(name string) (pkgif.Processor, bool) {
	p.tickMu.Lock()
	defer p.tickMu.Unlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	for i, proc := range p.procs {
		if proc.Name() == name {
			p.procs = append(p.procs[:i:i], p.procs[i+1:]...)
			logger.Debug("总线已卸载", "bus", name)
			return proc, true
		}
	}
	return nil, false
}

// Processors 返回已挂载总线的名称
func (p *Pump) Processors() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, len(p.procs))
	for i, proc := range p.procs {
		names[i] = proc.Name()
	}
	return names
}

// OnDrained 注册排空完成、关闭总线之前执行的回调
//
// 用于解绑处理器：排空需要处理器仍然绑定，而 Close 要求它们已解绑。
func (p *Pump) OnDrained(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onDrained = append(p.onDrained, fn)
}

func (p *Pump) snapshot() []pkgif.Processor {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]pkgif.Processor, len(p.procs))
	copy(out, p.procs)
	return out
}

// ============================================================================
// 处理
// ============================================================================

// Tick 对每条总线执行一次 Process，返回分发总数
func (p *Pump) Tick() int {
	p.tickMu.Lock()
	defer p.tickMu.Unlock()

	total := 0
	for _, proc := range p.snapshot() {
		total += proc.Process()
		p.reporter.LogPending(proc.Name(), proc.Pending())
	}
	return total
}

// Start 启动消费者 goroutine
//
// ctx 只约束启动本身，循环持续到 Stop。
func (p *Pump) Start(_ context.Context) error {
	if _, ok := p.phases.advance(PhaseRunning); !ok {
		if p.phases.get() >= PhaseDraining {
			return ErrStopped
		}
		return ErrAlreadyStarted
	}

	p.wg.Add(1)
	go p.run()

	logger.Info("消费者泵已启动", "interval", p.cfg.Interval.Duration(), "buses", len(p.Processors()))
	return nil
}

func (p *Pump) run() {
	defer p.wg.Done()

	ticker := p.clock.Ticker(p.cfg.Interval.Duration())
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.Tick()
		}
	}
}

// Stop 停止泵并关闭所有总线
//
// 流程：停止消费者 goroutine，Seal 所有总线，反复 Tick 直到连续
// MaxIdleSpins 轮没有分发且没有积压（或 DrainTimeout / ctx 到期），
// 执行 OnDrained 回调，最后 Close 所有总线并聚合错误。
// 重复调用返回 nil。
func (p *Pump) Stop(ctx context.Context) error {
	p.mu.Lock()
	if p.closing {
		p.mu.Unlock()
		return nil
	}
	p.closing = true
	p.mu.Unlock()

	old, ok := p.phases.advance(PhaseDraining)
	if !ok {
		return nil
	}
	close(p.stopCh)
	if old == PhaseRunning {
		p.wg.Wait()
	}

	procs := p.snapshot()
	for _, proc := range procs {
		proc.Seal()
	}

	drained := p.drain(ctx, procs)

	p.mu.Lock()
	hooks := p.onDrained
	p.onDrained = nil
	p.mu.Unlock()
	for _, fn := range hooks {
		fn()
	}

	var err error
	for _, proc := range procs {
		if cerr := proc.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("close %s: %w", proc.Name(), cerr))
		}
	}

	p.phases.advance(PhaseStopped)
	if err != nil {
		logger.Warn("消费者泵已停止，部分总线未干净关闭", "drained", drained, "error", err)
	} else {
		logger.Info("消费者泵已停止", "drained", drained)
	}
	return err
}

// drain 排空剩余事件，返回排空期间的分发总数
func (p *Pump) drain(ctx context.Context, procs []pkgif.Processor) int {
	deadline := p.clock.Now().Add(p.cfg.DrainTimeout.Duration())
	total, idle := 0, 0
	for idle < p.cfg.MaxIdleSpins {
		if ctx.Err() != nil || p.clock.Now().After(deadline) {
			logger.Warn("排空超时", "dispatched", total)
			break
		}
		n := p.Tick()
		total += n
		if n == 0 && pendingTotal(procs) == 0 {
			idle++
		} else {
			idle = 0
		}
	}
	return total
}

func pendingTotal(procs []pkgif.Processor) int {
	n := 0
	for _, proc := range procs {
		n += proc.Pending()
	}
	return n
}

// ============================================================================
// 阶段
// ============================================================================

// Phase 返回当前阶段
func (p *Pump) Phase() Phase {
	return p.phases.get()
}

// WaitPhase 等待到达指定阶段
func (p *Pump) WaitPhase(ctx context.Context, target Phase) error {
	return p.phases.wait(ctx, target)
}

// OnPhaseChange 注册阶段变更回调，在推进阶段的 goroutine 上同步调用
func (p *Pump) OnPhaseChange(cb func(old, new Phase)) {
	p.phases.subscribe(cb)
}
