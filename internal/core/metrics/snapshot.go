package metrics

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// ============================================================================
// 周期性快照日志
// ============================================================================

// snapshotLoop 周期性输出 Snapshot
type snapshotLoop struct {
	c        *Collector
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// StartLogging 启动周期性快照日志，interval <= 0 时不启动
func (c *Collector) StartLogging(interval time.Duration) func() {
	if interval <= 0 {
		return func() {}
	}

	s := &snapshotLoop{c: c, interval: interval}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx)

	logger.Info("指标快照日志已启动", "interval", interval)
	return s.stop
}

func (s *snapshotLoop) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := s.c.clock.Ticker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.c.logSnapshot()
		}
	}
}

func (s *snapshotLoop) stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}

// logSnapshot 每条总线输出一行
func (c *Collector) logSnapshot() {
	for _, st := range c.Snapshot() {
		logger.Info("总线指标快照",
			"bus", st.Bus,
			"pushed", st.Pushed,
			"dispatched", st.Dispatched,
			"rejected", st.Rejected,
			"drains", st.Drains,
			"pending", st.Pending,
			"ratePerSec", formatFloat(st.DispatchRate),
		)
	}
}

// formatFloat 格式化浮点数（保留2位小数）
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
