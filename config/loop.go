package config

import (
	"fmt"
	"time"
)

// LoopConfig 消费者泵配置
//
// 泵是所有总线唯一的消费者：每个 Interval 对每条已挂载的总线调用一次 Process。
type LoopConfig struct {
	// Interval 两次处理之间的间隔
	// 默认 10ms
	Interval Duration `json:"interval"`

	// DrainTimeout 关闭时排空剩余事件的最长时间
	// 超时后仍有事件的总线在 Close 时报告 pending 错误
	// 默认 2s
	DrainTimeout Duration `json:"drain_timeout"`

	// MaxIdleSpins 关闭排空时连续空批次的上限
	// 所有总线连续这么多轮返回 0 即认为排空完成
	// 默认 2
	MaxIdleSpins int `json:"max_idle_spins"`
}

// DefaultLoopConfig 返回默认泵配置
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{
		Interval:     Duration(10 * time.Millisecond),
		DrainTimeout: Duration(2 * time.Second),
		MaxIdleSpins: 2,
	}
}

// Validate 验证泵配置
func (c *LoopConfig) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("loop: interval must be positive, got %s", c.Interval)
	}
	if c.DrainTimeout < 0 {
		return fmt.Errorf("loop: drain_timeout cannot be negative")
	}
	if c.MaxIdleSpins < 1 {
		return fmt.Errorf("loop: max_idle_spins must be at least 1")
	}
	return nil
}
