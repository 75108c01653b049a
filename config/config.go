// Package config 提供统一的配置管理
//
// 本包采用混合配置模式：
//   - 主 Config 结构体嵌入所有子配置
//   - 每个子配置在独立文件中定义
//   - 支持从 JSON 文件和 EVBUS_* 环境变量加载
//   - 支持预设配置（realtime/default/batch）
//
// 使用示例：
//
//	cfg := config.NewConfig()
//	cfg.Loop.Interval = config.Duration(5 * time.Millisecond)
//
//	// 从文件加载并应用环境变量
//	cfg, err := config.LoadFile("evbus.json")
//	if err == nil {
//	    err = config.ApplyEnv(cfg, os.LookupEnv)
//	}
package config

// Config 是 evbus 运行时的完整配置结构
//
// 配置按照功能模块组织：
//   - Loop: 消费者泵的节奏与关闭排空
//   - Metrics: Prometheus 指标
//   - Log: 日志级别与输出
//   - Demo: 演示程序的生产者负载
type Config struct {
	// Loop 消费者泵配置
	Loop LoopConfig `json:"loop"`

	// Metrics 指标配置
	Metrics MetricsConfig `json:"metrics"`

	// Log 日志配置
	Log LogConfig `json:"log"`

	// Demo 演示负载配置
	Demo DemoConfig `json:"demo"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		Loop:    DefaultLoopConfig(),
		Metrics: DefaultMetricsConfig(),
		Log:     DefaultLogConfig(),
		Demo:    DefaultDemoConfig(),
	}
}

// Validate 验证配置的有效性
//
// 检查所有子配置，返回遇到的第一个错误。
func (c *Config) Validate() error {
	if err := c.Loop.Validate(); err != nil {
		return err
	}
	if err := c.Metrics.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.Demo.Validate(); err != nil {
		return err
	}
	return nil
}
