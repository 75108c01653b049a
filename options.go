package evbus

import (
	"errors"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-evbus/config"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	config        *config.Config
	clock         clock.Clock
	verboseFx     bool
	userFxOptions []fx.Option
}

func newOptions() *options {
	return &options{config: config.NewConfig()}
}

// WithConfig 使用完整配置
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return errors.New("nil config")
		}
		o.config = cfg
		return nil
	}
}

// WithClock 指定泵节奏与指标速率使用的时钟
//
// 主要用于测试，配合 clock.NewMock() 手动推进。
func WithClock(clk clock.Clock) Option {
	return func(o *options) error {
		if clk == nil {
			return errors.New("nil clock")
		}
		o.clock = clk
		return nil
	}
}

// WithVerboseFx 输出 Fx 容器日志（zap development logger）
func WithVerboseFx() Option {
	return func(o *options) error {
		o.verboseFx = true
		return nil
	}
}

// WithFxOption 追加自定义 Fx 选项
//
// 可以注入额外组件或用 fx.Invoke 在启动前访问 *eventbus.Hub。
func WithFxOption(opts ...fx.Option) Option {
	return func(o *options) error {
		o.userFxOptions = append(o.userFxOptions, opts...)
		return nil
	}
}
