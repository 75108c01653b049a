package evt

import (
	pkgif "github.com/dep2p/go-evbus/pkg/interfaces"
	"github.com/dep2p/go-evbus/pkg/lib/typeid"
)

// ============================================================================
// 总线选项
// ============================================================================

// Option 总线选项
type Option func(*settings)

type settings struct {
	name     string
	registry *typeid.Registry
	reporter pkgif.QueueReporter
}

func defaultSettings() settings {
	return settings{
		name:     "default",
		registry: typeid.Default,
		reporter: pkgif.NopReporter{},
	}
}

// WithName 设置总线名称，用于日志与指标标签
func WithName(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.name = name
		}
	}
}

// WithRegistry 使用指定的类型标识注册表（默认 typeid.Default）
func WithRegistry(r *typeid.Registry) Option {
	return func(s *settings) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithReporter 设置指标记录器
func WithReporter(r pkgif.QueueReporter) Option {
	return func(s *settings) {
		if r != nil {
			s.reporter = r
		}
	}
}
