package config

import (
	"fmt"
	"time"
)

// DemoConfig 演示程序的生产者负载
type DemoConfig struct {
	// Producers 生产者 goroutine 数量
	Producers int `json:"producers"`

	// Rate 每个生产者每秒发布的事件数
	Rate float64 `json:"rate"`

	// Burst 令牌桶容量
	Burst int `json:"burst"`

	// Duration 运行时长，0 表示直到收到信号
	Duration Duration `json:"duration"`
}

// DefaultDemoConfig 返回默认演示配置
func DefaultDemoConfig() DemoConfig {
	return DemoConfig{
		Producers: 2,
		Rate:      100,
		Burst:     10,
		Duration:  Duration(5 * time.Second),
	}
}

// Validate 验证演示配置
func (c *DemoConfig) Validate() error {
	if c.Producers < 1 {
		return fmt.Errorf("demo: producers must be at least 1")
	}
	if c.Rate <= 0 {
		return fmt.Errorf("demo: rate must be positive")
	}
	if c.Burst < 1 {
		return fmt.Errorf("demo: burst must be at least 1")
	}
	if c.Duration < 0 {
		return fmt.Errorf("demo: duration cannot be negative")
	}
	return nil
}
