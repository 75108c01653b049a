package eventbus

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-evbus/internal/core/loop"
	pkgif "github.com/dep2p/go-evbus/pkg/interfaces"
	"github.com/dep2p/go-evbus/pkg/lib/typeid"
)

// ============================================================================
// Fx 模块
// ============================================================================

// Params Hub 依赖参数
type Params struct {
	fx.In

	Registry *typeid.Registry    `optional:"true"`
	Reporter pkgif.QueueReporter `optional:"true"`
	Pump     *loop.Pump
}

// Module 返回 Fx 模块
//
// 未注入注册表时为每个应用创建独立的注册表。
func Module() fx.Option {
	return fx.Module("eventbus",
		fx.Provide(ProvideHub),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideHub 提供 Hub 实例
func ProvideHub(p Params) *Hub {
	registry := p.Registry
	if registry == nil {
		registry = typeid.NewRegistry()
	}
	return NewHub(registry, p.Reporter, p.Pump)
}

// registerLifecycle 注册生命周期
func registerLifecycle(lc fx.Lifecycle, hub *Hub) {
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			logger.Debug("事件总线已停止", "buses", len(hub.Opened()), "types", hub.Registry().Len())
			return nil
		},
	})
}
