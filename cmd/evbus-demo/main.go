// Package main 提供 evbus 演示程序入口
//
// 启动一个 evbus 运行时，多个限速生产者 goroutine 模拟相机采集并发布帧事件，
// 跟踪器在唯一的消费者 goroutine 上处理。结束时打印各总线的统计。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"

	"github.com/dep2p/go-evbus"
	"github.com/dep2p/go-evbus/internal/core/metrics"
	"github.com/dep2p/go-evbus/internal/demo"
	"github.com/dep2p/go-evbus/pkg/lib/log"
)

var logger = log.Logger("evbus/cmd")

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════
//
// 优先级：命令行参数 > EVBUS_* 环境变量 > 配置文件 > 默认值
//
// ═══════════════════════════════════════════════════════════════════════════
var (
	configFile  = flag.String("config", "", "配置文件路径 (JSON)")
	producers   = flag.Int("producers", 0, "生产者数量（0 = 使用配置）")
	ratePerSec  = flag.Float64("rate", 0, "每个生产者每秒事件数（0 = 使用配置）")
	logLevel    = flag.String("log-level", "", "日志级别 debug/info/warn/error")
	metricsAddr = flag.String("metrics-addr", "", "/metrics 监听地址，如 127.0.0.1:9464")
	verboseFx   = flag.Bool("verbose-fx", false, "输出 Fx 容器日志")
	showVersion = flag.Bool("version", false, "显示版本信息")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cli, err := parseFlags()
	if err != nil {
		return err
	}

	if *showVersion {
		fmt.Println(evbus.VersionInfo())
		return nil
	}

	cfg, err := loadConfig(cli)
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}

	closeLog, err := setupLogging(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	opts := []evbus.Option{evbus.WithConfig(cfg)}
	if *verboseFx {
		opts = append(opts, evbus.WithVerboseFx())
	}
	rt, err := evbus.New(opts...)
	if err != nil {
		return fmt.Errorf("创建运行时失败: %w", err)
	}

	bus, err := evbus.NewBus[demo.Tracking](rt, "tracking")
	if err != nil {
		return err
	}
	tracker := demo.NewTracker(bus.View())
	bus.BindOwner(tracker)
	rt.Pump().OnDrained(func() { bus.UnbindOwner(tracker) })

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rt.Start(ctx); err != nil {
		return err
	}
	logger.Info("启动 evbus 演示", "version", evbus.Version, "producers", cfg.Demo.Producers, "rate", cfg.Demo.Rate)

	if collector := rt.Metrics(); collector != nil && cfg.Metrics.ListenAddr != "" {
		srv, err := serveMetrics(cfg.Metrics.ListenAddr, collector)
		if err != nil {
			_ = rt.Stop(context.Background())
			return err
		}
		defer shutdownServer(srv)
	}

	res, runErr := demo.NewFleet(bus.View(), cfg.Demo).Run(ctx)

	stopCtx, cancel := context.WithTimeout(context.Background(), cfg.Loop.DrainTimeout.Duration()+5*time.Second)
	defer cancel()
	stopErr := rt.Stop(stopCtx)

	printSummary(res, tracker.Stats(), rt.Metrics())
	return multierr.Combine(runErr, stopErr)
}

// serveMetrics 在 addr 上暴露 /metrics
func serveMetrics(addr string, c *metrics.Collector) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("监听 metrics 地址失败: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics 服务异常退出", "error", err)
		}
	}()
	logger.Info("metrics 已暴露", "addr", ln.Addr().String())
	return srv, nil
}

func shutdownServer(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}

// printSummary 打印运行结果
func printSummary(res demo.FleetResult, st demo.TrackerStats, c *metrics.Collector) {
	fmt.Printf("session   %s\n", res.Session)
	fmt.Printf("sent      %d frames\n", res.Sent)
	fmt.Printf("tracked   %d frames, %d poses, %d status, %d dropped, %d out of order\n",
		st.Frames, st.Poses, st.Statuses, st.Dropped, st.OutOfOrder)
	if c == nil {
		return
	}
	for _, s := range c.Snapshot() {
		fmt.Printf("bus %-10s pushed=%d dispatched=%d rejected=%d drains=%d rate=%.1f/s\n",
			s.Bus, s.Pushed, s.Dispatched, s.Rejected, s.Drains, s.DispatchRate)
	}
}
