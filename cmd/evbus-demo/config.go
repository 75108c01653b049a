package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dep2p/go-evbus/config"
	"github.com/dep2p/go-evbus/pkg/lib/log"
)

// ============================================================================
//                              配置加载（CLI 专用）
// ============================================================================

// cliOverrides 命令行中显式设置的值
type cliOverrides struct {
	duration    config.Duration
	durationSet bool
}

// parseFlags 解析命令行参数
func parseFlags() (*cliOverrides, error) {
	cli := &cliOverrides{}
	flag.Var(&cli.duration, "duration", "运行时长，如 10s（0 = 直到 Ctrl+C）")
	flag.Parse()
	cli.durationSet = isFlagSet("duration")
	if flag.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", flag.Args())
	}
	return cli, nil
}

// loadConfig 依次应用配置文件、环境变量、命令行参数
func loadConfig(cli *cliOverrides) (*config.Config, error) {
	cfg := config.NewConfig()
	if *configFile != "" {
		var err error
		cfg, err = config.LoadFile(*configFile)
		if err != nil {
			return nil, err
		}
	}

	if err := config.ApplyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	if *producers > 0 {
		cfg.Demo.Producers = *producers
	}
	if *ratePerSec > 0 {
		cfg.Demo.Rate = *ratePerSec
	}
	if cli.durationSet {
		cfg.Demo.Duration = cli.duration
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *metricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.ListenAddr = *metricsAddr
	}

	// 文件或环境变量中留空的字段回落到默认值
	return config.ValidateAndFix(cfg)
}

// setupLogging 按配置设置全局日志，返回关闭函数
func setupLogging(c config.LogConfig) (func(), error) {
	level, err := log.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	if c.File == "" {
		log.SetLevel(level)
		return func() {}, nil
	}

	file, err := os.OpenFile(c.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("打开日志文件失败: %w", err)
	}
	log.SetOutputWithLevel(file, level)
	return func() { _ = file.Close() }, nil
}

// isFlagSet 检查命令行参数是否被显式设置
func isFlagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
