package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// 默认配置
// ============================================================================

// TestNewConfig 测试创建默认配置
func TestNewConfig(t *testing.T) {
	cfg := NewConfig()
	require.NotNil(t, cfg)
	assert.NoError(t, cfg.Validate())

	assert.Equal(t, 10*time.Millisecond, cfg.Loop.Interval.Duration())
	assert.Equal(t, 2*time.Second, cfg.Loop.DrainTimeout.Duration())
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "evbus", cfg.Metrics.Namespace)
	assert.Equal(t, "info", cfg.Log.Level)
}

// TestConfig_ValidateErrors 测试各子配置的校验
func TestConfig_ValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero interval", func(c *Config) { c.Loop.Interval = 0 }},
		{"negative drain timeout", func(c *Config) { c.Loop.DrainTimeout = Duration(-time.Second) }},
		{"no idle spins", func(c *Config) { c.Loop.MaxIdleSpins = 0 }},
		{"bad namespace", func(c *Config) { c.Metrics.Namespace = "ev-bus" }},
		{"bad listen addr", func(c *Config) { c.Metrics.ListenAddr = "9464" }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"no producers", func(c *Config) { c.Demo.Producers = 0 }},
		{"zero rate", func(c *Config) { c.Demo.Rate = 0 }},
		{"zero burst", func(c *Config) { c.Demo.Burst = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

// TestMetricsConfig_DisabledSkipsChecks 测试禁用指标时不校验其余字段
func TestMetricsConfig_DisabledSkipsChecks(t *testing.T) {
	cfg := MetricsConfig{Enabled: false, Namespace: "bad-name"}
	assert.NoError(t, cfg.Validate())
}

// ============================================================================
// 加载
// ============================================================================

// TestFromJSON 测试 JSON 加载保留未出现字段的默认值
func TestFromJSON(t *testing.T) {
	cfg, err := FromJSON([]byte(`{
		"loop": {"interval": "5ms"},
		"metrics": {"listen_addr": "127.0.0.1:9464"},
		"log": {"level": "debug"}
	}`))
	require.NoError(t, err)

	assert.Equal(t, 5*time.Millisecond, cfg.Loop.Interval.Duration())
	assert.Equal(t, 2*time.Second, cfg.Loop.DrainTimeout.Duration())
	assert.Equal(t, "127.0.0.1:9464", cfg.Metrics.ListenAddr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())

	_, err = FromJSON([]byte(`{"loop": {"interval": "soon"}}`))
	assert.Error(t, err)
}

// TestLoadFile 测试从文件加载
func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evbus.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"demo": {"producers": 8}}`), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Demo.Producers)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// TestConfig_ToJSON 测试序列化后可重新加载
func TestConfig_ToJSON(t *testing.T) {
	cfg := NewConfig()
	cfg.Loop.Interval = Duration(3 * time.Millisecond)

	data, err := cfg.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"interval": "3ms"`)

	back, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

// ============================================================================
// Duration
// ============================================================================

// TestDuration_JSON 测试字符串和纳秒两种格式
func TestDuration_JSON(t *testing.T) {
	var v struct {
		A Duration `json:"a"`
		B Duration `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": "1m30s", "b": 1000}`), &v))
	assert.Equal(t, 90*time.Second, v.A.Duration())
	assert.Equal(t, time.Microsecond, v.B.Duration())

	assert.Error(t, json.Unmarshal([]byte(`{"a": true}`), &v))
}

// TestDuration_Set 测试作为命令行参数使用
func TestDuration_Set(t *testing.T) {
	var d Duration
	require.NoError(t, d.Set("250ms"))
	assert.Equal(t, "250ms", d.String())
	assert.Error(t, d.Set("later"))
}

// ============================================================================
// 预设与环境变量
// ============================================================================

// TestApplyPreset 测试预设
func TestApplyPreset(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, ApplyPreset(cfg, "realtime"))
	assert.Equal(t, time.Millisecond, cfg.Loop.Interval.Duration())

	require.NoError(t, ApplyPreset(cfg, "batch"))
	assert.Equal(t, 50*time.Millisecond, cfg.Loop.Interval.Duration())

	require.NoError(t, ApplyPreset(cfg, "default"))
	assert.Equal(t, DefaultLoopConfig(), cfg.Loop)

	assert.Error(t, ApplyPreset(cfg, "turbo"))
	assert.Error(t, ApplyPreset(nil, "batch"))
}

// TestApplyEnv 测试环境变量覆盖
func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"EVBUS_PRESET":          "batch",
		"EVBUS_LOOP_INTERVAL":   "20ms",
		"EVBUS_METRICS_ENABLED": "false",
		"EVBUS_METRICS_ADDR":    ":9464",
		"EVBUS_LOG_LEVEL":       "warn",
		"EVBUS_DEMO_PRODUCERS":  "4",
		"EVBUS_DEMO_RATE":       "12.5",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := NewConfig()
	require.NoError(t, ApplyEnv(cfg, lookup))

	assert.Equal(t, 20*time.Millisecond, cfg.Loop.Interval.Duration(), "explicit var wins over preset")
	assert.Equal(t, 5*time.Second, cfg.Loop.DrainTimeout.Duration())
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9464", cfg.Metrics.ListenAddr)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 4, cfg.Demo.Producers)
	assert.Equal(t, 12.5, cfg.Demo.Rate)
}

// TestApplyEnv_Invalid 测试非法环境变量值
func TestApplyEnv_Invalid(t *testing.T) {
	for _, kv := range [][2]string{
		{"EVBUS_LOOP_INTERVAL", "fast"},
		{"EVBUS_METRICS_ENABLED", "maybe"},
		{"EVBUS_DEMO_PRODUCERS", "many"},
		{"EVBUS_PRESET", "turbo"},
	} {
		t.Run(kv[0], func(t *testing.T) {
			lookup := func(k string) (string, bool) {
				if k == kv[0] {
					return kv[1], true
				}
				return "", false
			}
			assert.Error(t, ApplyEnv(NewConfig(), lookup))
		})
	}
}

// TestValidateAndFix 测试自动修复
func TestValidateAndFix(t *testing.T) {
	cfg := NewConfig()
	cfg.Loop.Interval = 0
	cfg.Metrics.Namespace = ""
	cfg.Log.Level = ""

	fixed, err := ValidateAndFix(cfg)
	require.NoError(t, err)
	assert.Equal(t, DefaultLoopConfig().Interval, fixed.Loop.Interval)
	assert.Equal(t, "evbus", fixed.Metrics.Namespace)

	fixed, err = ValidateAndFix(nil)
	require.NoError(t, err)
	assert.NotNil(t, fixed)

	assert.Error(t, ValidateAll(nil))
}
