package evbus

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-evbus/config"
	"github.com/dep2p/go-evbus/internal/core/eventbus"
	"github.com/dep2p/go-evbus/internal/core/loop"
	"github.com/dep2p/go-evbus/internal/core/metrics"
	"github.com/dep2p/go-evbus/pkg/lib/log"
)

var fxLogger = log.Logger("evbus/fx")

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：
//  1. 配置与时钟注入
//  2. metrics（QueueReporter）
//  3. loop（消费者泵）
//  4. eventbus（Hub，依赖前两者）
//  5. 用户自定义 Fx 选项
func buildFxApp(o *options, rt *Runtime) (*fx.App, error) {
	// ════════════════════════════════════════════════════════════════════════
	// 1. 配置验证（前置）
	// ════════════════════════════════════════════════════════════════════════
	if err := config.ValidateAll(o.config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	modules := []fx.Option{
		fx.Supply(o.config),
	}
	if o.clock != nil {
		clk := o.clock
		modules = append(modules, fx.Provide(func() clock.Clock { return clk }))
	}

	// ════════════════════════════════════════════════════════════════════════
	// 2. 核心模块
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules,
		metrics.Module,
		loop.Module(),
		eventbus.Module(),
	)

	// ════════════════════════════════════════════════════════════════════════
	// 3. 用户自定义 Fx 选项
	// ════════════════════════════════════════════════════════════════════════
	if len(o.userFxOptions) > 0 {
		modules = append(modules, o.userFxOptions...)
	}

	// ════════════════════════════════════════════════════════════════════════
	// 4. Runtime 组件注入
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules, fx.Populate(&rt.hub, &rt.collector))

	// ════════════════════════════════════════════════════════════════════════
	// 5. Fx 日志
	// ════════════════════════════════════════════════════════════════════════
	zl := zap.NewNop()
	if o.verboseFx {
		dev, err := zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("fx logger: %w", err)
		}
		zl = dev
		fxLogger.Debug("已启用 Fx 容器日志")
	}
	modules = append(modules, fx.WithLogger(func() fxevent.Logger {
		return &fxevent.ZapLogger{Logger: zl}
	}))

	app := fx.New(modules...)
	if err := app.Err(); err != nil {
		return nil, err
	}
	return app, nil
}
