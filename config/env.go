package config

import (
	"fmt"
	"strconv"
	"time"
)

// EnvPrefix 环境变量前缀
const EnvPrefix = "EVBUS_"

// LookupFunc 环境变量查询函数，签名与 os.LookupEnv 一致
type LookupFunc func(key string) (string, bool)

// ApplyEnv 用 EVBUS_* 环境变量覆盖配置
//
// 支持的变量：
//
//	EVBUS_PRESET               预设名称
//	EVBUS_LOOP_INTERVAL        处理间隔，如 "5ms"
//	EVBUS_LOOP_DRAIN_TIMEOUT   关闭排空超时
//	EVBUS_METRICS_ENABLED      启用指标 (true/false)
//	EVBUS_METRICS_ADDR         /metrics 监听地址
//	EVBUS_LOG_LEVEL            日志级别
//	EVBUS_LOG_FILE             日志文件路径
//	EVBUS_DEMO_PRODUCERS       生产者数量
//	EVBUS_DEMO_RATE            每个生产者的速率
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	if v, ok := lookup(EnvPrefix + "PRESET"); ok {
		if err := ApplyPreset(cfg, v); err != nil {
			return err
		}
	}

	if err := envDuration(lookup, "LOOP_INTERVAL", &cfg.Loop.Interval); err != nil {
		return err
	}
	if err := envDuration(lookup, "LOOP_DRAIN_TIMEOUT", &cfg.Loop.DrainTimeout); err != nil {
		return err
	}
	if v, ok := lookup(EnvPrefix + "METRICS_ENABLED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sMETRICS_ENABLED: %w", EnvPrefix, err)
		}
		cfg.Metrics.Enabled = b
	}
	if v, ok := lookup(EnvPrefix + "METRICS_ADDR"); ok {
		cfg.Metrics.ListenAddr = v
	}
	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok {
		cfg.Log.Level = v
	}
	if v, ok := lookup(EnvPrefix + "LOG_FILE"); ok {
		cfg.Log.File = v
	}
	if v, ok := lookup(EnvPrefix + "DEMO_PRODUCERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sDEMO_PRODUCERS: %w", EnvPrefix, err)
		}
		cfg.Demo.Producers = n
	}
	if v, ok := lookup(EnvPrefix + "DEMO_RATE"); ok {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sDEMO_RATE: %w", EnvPrefix, err)
		}
		cfg.Demo.Rate = r
	}
	return nil
}

func envDuration(lookup LookupFunc, key string, dst *Duration) error {
	v, ok := lookup(EnvPrefix + key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
	}
	*dst = Duration(d)
	return nil
}
