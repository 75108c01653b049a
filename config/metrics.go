package config

import (
	"fmt"
	"net"
	"regexp"
	"time"
)

var metricNamespace = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// MetricsConfig Prometheus 指标配置
type MetricsConfig struct {
	// Enabled 启用指标收集，禁用时使用空 reporter
	Enabled bool `json:"enabled"`

	// Namespace 指标名前缀
	// 默认 "evbus"
	Namespace string `json:"namespace"`

	// ListenAddr /metrics 监听地址，空表示不暴露
	// 例如 "127.0.0.1:9464"
	ListenAddr string `json:"listen_addr,omitempty"`

	// SnapshotInterval 周期性输出各总线统计快照的间隔，0 表示关闭
	SnapshotInterval Duration `json:"snapshot_interval"`
}

// DefaultMetricsConfig 返回默认指标配置
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:          true,
		Namespace:        "evbus",
		SnapshotInterval: Duration(30 * time.Second),
	}
}

// Validate 验证指标配置
func (c *MetricsConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if !metricNamespace.MatchString(c.Namespace) {
		return fmt.Errorf("metrics: invalid namespace %q", c.Namespace)
	}
	if c.SnapshotInterval < 0 {
		return fmt.Errorf("metrics: snapshot_interval cannot be negative")
	}
	if c.ListenAddr != "" {
		if _, _, err := net.SplitHostPort(c.ListenAddr); err != nil {
			return fmt.Errorf("metrics: invalid listen_addr %q: %w", c.ListenAddr, err)
		}
	}
	return nil
}
