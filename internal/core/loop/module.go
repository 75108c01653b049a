package loop

import (
	"context"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-evbus/config"
	pkgif "github.com/dep2p/go-evbus/pkg/interfaces"
)

// Params Pump 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config      `optional:"true"`
	Clock      clock.Clock         `optional:"true"`
	Reporter   pkgif.QueueReporter `optional:"true"`
}

// ConfigFromUnified 从统一配置获取泵配置
func ConfigFromUnified(cfg *config.Config) config.LoopConfig {
	if cfg == nil {
		return config.DefaultLoopConfig()
	}
	return cfg.Loop
}

// NewFromParams 从参数创建 Pump
func NewFromParams(p Params) *Pump {
	var opts []Option
	if p.Clock != nil {
		opts = append(opts, WithClock(p.Clock))
	}
	if p.Reporter != nil {
		opts = append(opts, WithReporter(p.Reporter))
	}
	return NewPump(ConfigFromUnified(p.UnifiedCfg), opts...)
}

// Module 返回 Fx 模块
//
// 提供 *Pump 作为全局单例，应用启动时启动消费者 goroutine，
// 停止时排空并关闭所有已挂载的总线。
func Module() fx.Option {
	return fx.Module("loop",
		fx.Provide(NewFromParams),
		fx.Invoke(registerLifecycleHooks),
	)
}

// lifecycleHooksParams 生命周期钩子参数
type lifecycleHooksParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Pump      *Pump
}

// registerLifecycleHooks 注册生命周期钩子
func registerLifecycleHooks(params lifecycleHooksParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return params.Pump.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return params.Pump.Stop(ctx)
		},
	})
}
