package metrics

import (
	"context"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-evbus/config"
	pkgif "github.com/dep2p/go-evbus/pkg/interfaces"
)

// Params Metrics 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
	Clock      clock.Clock    `optional:"true"`
}

// Result Metrics 提供的组件
//
// 指标禁用时 Collector 为 nil，Reporter 为 NopReporter。
type Result struct {
	fx.Out

	Collector *Collector
	Reporter  pkgif.QueueReporter
}

// ConfigFromUnified 从统一配置获取指标配置
func ConfigFromUnified(cfg *config.Config) config.MetricsConfig {
	if cfg == nil {
		return config.DefaultMetricsConfig()
	}
	return cfg.Metrics
}

// Module 是 metrics 的 Fx 模块
var Module = fx.Module("metrics",
	fx.Provide(NewFromParams),
	fx.Invoke(registerLifecycle),
)

// NewFromParams 从参数创建 Collector
func NewFromParams(p Params) Result {
	cfg := ConfigFromUnified(p.UnifiedCfg)
	if !cfg.Enabled {
		logger.Debug("指标收集已禁用")
		return Result{Reporter: pkgif.NopReporter{}}
	}

	var opts []Option
	if p.Clock != nil {
		opts = append(opts, WithClock(p.Clock))
	}
	c := NewCollector(cfg.Namespace, opts...)
	return Result{Collector: c, Reporter: c}
}

type lifecycleInput struct {
	fx.In

	LC         fx.Lifecycle
	UnifiedCfg *config.Config `optional:"true"`
	Collector  *Collector     `optional:"true"`
}

// registerLifecycle 注册快照日志的生命周期
func registerLifecycle(input lifecycleInput) {
	if input.Collector == nil {
		return
	}
	interval := ConfigFromUnified(input.UnifiedCfg).SnapshotInterval.Duration()

	var stop func()
	input.LC.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			stop = input.Collector.StartLogging(interval)
			return nil
		},
		OnStop: func(_ context.Context) error {
			if stop != nil {
				stop()
			}
			return nil
		},
	})
}
