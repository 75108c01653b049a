package config

import (
	"errors"
	"fmt"
)

// ValidateAll 验证整个配置的有效性
//
// 这是 Config.Validate() 的别名，额外处理 nil。
func ValidateAll(c *Config) error {
	if c == nil {
		return errors.New("config is nil")
	}
	return c.Validate()
}

// ValidateAndFix 验证配置并尝试自动修复常见问题
//
// 可修复的问题：
//   - 非正的处理间隔 -> 使用默认值
//   - 空的指标命名空间 -> "evbus"
//   - 空的日志级别 -> "info"
func ValidateAndFix(c *Config) (*Config, error) {
	if c == nil {
		return NewConfig(), nil
	}

	if c.Loop.Interval <= 0 {
		c.Loop.Interval = DefaultLoopConfig().Interval
	}
	if c.Loop.MaxIdleSpins < 1 {
		c.Loop.MaxIdleSpins = DefaultLoopConfig().MaxIdleSpins
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultMetricsConfig().Namespace
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogConfig().Level
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed after fixes: %w", err)
	}
	return c, nil
}
