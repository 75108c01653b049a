package evbus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/fx"

	"github.com/dep2p/go-evbus/config"
	"github.com/dep2p/go-evbus/internal/core/eventbus"
	"github.com/dep2p/go-evbus/internal/core/loop"
	"github.com/dep2p/go-evbus/internal/core/metrics"
	pkgif "github.com/dep2p/go-evbus/pkg/interfaces"
	"github.com/dep2p/go-evbus/pkg/lib/evt"
	"github.com/dep2p/go-evbus/pkg/lib/log"
	"github.com/dep2p/go-evbus/pkg/lib/typeid"
)

var logger = log.Logger("evbus")

// ════════════════════════════════════════════════════════════════════════════
//                              生命周期常量
// ════════════════════════════════════════════════════════════════════════════

const (
	// startTimeout Fx App 启动超时
	startTimeout = 15 * time.Second
)

// ════════════════════════════════════════════════════════════════════════════
//                              Runtime
// ════════════════════════════════════════════════════════════════════════════

// Runtime 事件总线运行时
//
// 持有共享的类型注册表、指标收集器与消费者泵。总线通过 NewBus 创建，
// 启动前后都可以创建。
type Runtime struct {
	mu      sync.Mutex
	cfg     *config.Config
	app     *fx.App
	started bool
	closed  bool

	// 由 Fx 注入
	hub       *eventbus.Hub
	collector *metrics.Collector
}

// New 创建运行时
//
// 创建但不启动，需要调用 Start() 启动消费者泵。
//
// 示例：
//
//	rt, err := evbus.New(
//	    evbus.WithConfig(cfg),
//	    evbus.WithVerboseFx(),
//	)
func New(opts ...Option) (*Runtime, error) {
	o := newOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	rt := &Runtime{cfg: o.config}
	app, err := buildFxApp(o, rt)
	if err != nil {
		return nil, fmt.Errorf("build fx app: %w", err)
	}
	rt.app = app
	return rt, nil
}

// Start 启动运行时
func (r *Runtime) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRuntimeClosed
	}
	if r.started {
		return ErrAlreadyStarted
	}

	startCtx, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()
	if err := r.app.Start(startCtx); err != nil {
		logger.Error("运行时启动失败", "error", err)
		return fmt.Errorf("start: %w", err)
	}

	r.started = true
	logger.Info("运行时已启动", "buses", len(r.hub.Opened()))
	return nil
}

// Stop 停止运行时并关闭所有总线
//
// 返回的错误聚合了未干净关闭的总线（积压事件、仍绑定的处理器）。
// 重复调用返回 nil。
func (r *Runtime) Stop(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	if !r.started {
		return ErrNotStarted
	}

	r.closed = true
	if err := r.app.Stop(ctx); err != nil {
		return fmt.Errorf("stop: %w", err)
	}
	logger.Info("运行时已停止")
	return nil
}

// Config 返回运行时配置
func (r *Runtime) Config() *config.Config {
	return r.cfg
}

// Registry 返回共享的类型标识注册表
func (r *Runtime) Registry() *typeid.Registry {
	return r.hub.Registry()
}

// Reporter 返回共享的指标 reporter
func (r *Runtime) Reporter() pkgif.QueueReporter {
	return r.hub.Reporter()
}

// Metrics 返回指标收集器，指标禁用时为 nil
func (r *Runtime) Metrics() *metrics.Collector {
	return r.collector
}

// Pump 返回消费者泵
func (r *Runtime) Pump() *loop.Pump {
	return r.hub.Pump()
}

// ════════════════════════════════════════════════════════════════════════════
//                              总线
// ════════════════════════════════════════════════════════════════════════════

// NewBus 创建分组 G 的总线并挂载到运行时的消费者泵
//
// 总线共享运行时的注册表与 reporter。名称必须唯一；运行时停止后返回错误。
func NewBus[G any](rt *Runtime, name string) (*evt.Bus[G], error) {
	rt.mu.Lock()
	closed := rt.closed
	rt.mu.Unlock()
	if closed {
		return nil, ErrRuntimeClosed
	}
	return eventbus.Open[G](rt.hub, name)
}
