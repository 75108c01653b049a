package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// FromJSON 从 JSON 数据创建配置
//
// 未出现的字段保留默认值。
//
// 示例 JSON:
//
//	{
//	  "loop": {"interval": "5ms", "drain_timeout": "1s"},
//	  "metrics": {"enabled": true, "listen_addr": "127.0.0.1:9464"},
//	  "log": {"level": "debug"}
//	}
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// LoadFile 从 JSON 文件加载配置
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := FromJSON(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ToJSON 序列化配置
func (c *Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// ApplyPreset 应用预设配置
//
// 支持的预设：
//   - "realtime": 1ms 节奏，适合帧级别的事件
//   - "default": 默认值
//   - "batch": 50ms 节奏，批次更大、唤醒更少
func ApplyPreset(cfg *Config, presetName string) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	switch presetName {
	case "realtime":
		cfg.Loop.Interval = Duration(time.Millisecond)
		cfg.Loop.DrainTimeout = Duration(500 * time.Millisecond)
		cfg.Loop.MaxIdleSpins = 4
	case "default":
		cfg.Loop = DefaultLoopConfig()
	case "batch":
		cfg.Loop.Interval = Duration(50 * time.Millisecond)
		cfg.Loop.DrainTimeout = Duration(5 * time.Second)
		cfg.Loop.MaxIdleSpins = 1
	case "":
		// 空预设，不做任何操作
	default:
		return fmt.Errorf("unknown preset: %s", presetName)
	}
	return nil
}
