package metrics

import (
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	pkgif "github.com/dep2p/go-evbus/pkg/interfaces"
	"github.com/dep2p/go-evbus/pkg/lib/log"
)

var logger = log.Logger("core/metrics")

// 确保 Collector 实现 QueueReporter 接口
var _ pkgif.QueueReporter = (*Collector)(nil)

// Option Collector 选项
type Option func(*Collector)

// WithClock 指定速率计算使用的时钟
func WithClock(clk clock.Clock) Option {
	return func(c *Collector) {
		c.clock = clk
	}
}

// Collector 基于 Prometheus 的队列指标收集器
type Collector struct {
	registry *prometheus.Registry
	clock    clock.Clock

	pushed          *prometheus.CounterVec
	rejected        *prometheus.CounterVec
	dispatched      *prometheus.CounterVec
	dispatchSeconds *prometheus.HistogramVec
	drainBatch      *prometheus.HistogramVec
	pending         *prometheus.GaugeVec

	buses sync.Map // string -> *busCounters
}

// busCounters 单条总线的本地计数，供 Snapshot 使用
type busCounters struct {
	pushed     atomic.Int64
	rejected   atomic.Int64
	dispatched atomic.Int64
	drains     atomic.Int64
	pending    atomic.Int64
	rate       *RateMeter
}

// NewCollector 创建收集器并注册全部指标到私有注册表
func NewCollector(namespace string, opts ...Option) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		clock:    clock.New(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.pushed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_pushed_total",
			Help:      "Count of events accepted into a bus queue.",
		},
		[]string{"bus", "event"},
	)
	c.rejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_rejected_total",
			Help:      "Count of events rejected because the bus stopped accepting.",
		},
		[]string{"bus", "event"},
	)
	c.dispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dispatched_total",
			Help:      "Count of events delivered to their handler.",
		},
		[]string{"bus", "event"},
	)
	c.dispatchSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_seconds",
			Help:      "Handler execution time per event.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		},
		[]string{"bus"},
	)
	c.drainBatch = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "drain_batch_size",
			Help:      "Events delivered by one non-empty Process call.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		},
		[]string{"bus"},
	)
	c.pending = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_events",
			Help:      "Events waiting on the write side of a bus queue.",
		},
		[]string{"bus"},
	)

	c.registry.MustRegister(c.pushed, c.rejected, c.dispatched, c.dispatchSeconds, c.drainBatch, c.pending)
	return c
}

func (c *Collector) bus(name string) *busCounters {
	if v, ok := c.buses.Load(name); ok {
		return v.(*busCounters)
	}
	v, _ := c.buses.LoadOrStore(name, &busCounters{rate: NewRateMeter(c.clock)})
	return v.(*busCounters)
}

// ============================================================================
// QueueReporter 实现
// ============================================================================

// LogPush 记录入队
func (c *Collector) LogPush(bus, event string) {
	c.pushed.WithLabelValues(bus, event).Inc()
	c.bus(bus).pushed.Add(1)
}

// LogReject 记录被拒绝的发布
func (c *Collector) LogReject(bus, event string) {
	c.rejected.WithLabelValues(bus, event).Inc()
	c.bus(bus).rejected.Add(1)
}

// LogDispatch 记录一次分发
func (c *Collector) LogDispatch(bus, event string, d time.Duration) {
	c.dispatched.WithLabelValues(bus, event).Inc()
	c.dispatchSeconds.WithLabelValues(bus).Observe(d.Seconds())

	bc := c.bus(bus)
	bc.dispatched.Add(1)
	bc.rate.Add(1)
}

// LogDrain 记录一个非空批次
func (c *Collector) LogDrain(bus string, n int, _ time.Duration) {
	c.drainBatch.WithLabelValues(bus).Observe(float64(n))
	c.bus(bus).drains.Add(1)
}

// LogPending 记录写侧积压
func (c *Collector) LogPending(bus string, n int) {
	c.pending.WithLabelValues(bus).Set(float64(n))
	c.bus(bus).pending.Store(int64(n))
}

// ============================================================================
// 查询
// ============================================================================

// Registry 返回私有注册表
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler 返回暴露私有注册表的 HTTP handler
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Snapshot 返回按总线名称排序的统计快照
func (c *Collector) Snapshot() []Stats {
	var out []Stats
	c.buses.Range(func(k, v any) bool {
		bc := v.(*busCounters)
		out = append(out, Stats{
			Bus:          k.(string),
			Pushed:       bc.pushed.Load(),
			Rejected:     bc.rejected.Load(),
			Dispatched:   bc.dispatched.Load(),
			Drains:       bc.drains.Load(),
			Pending:      bc.pending.Load(),
			DispatchRate: bc.rate.Rate(),
		})
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Bus < out[j].Bus })
	return out
}

// Forget 删除一条总线的全部指标
func (c *Collector) Forget(bus string) {
	c.buses.Delete(bus)
	labels := prometheus.Labels{"bus": bus}
	c.pushed.DeletePartialMatch(labels)
	c.rejected.DeletePartialMatch(labels)
	c.dispatched.DeletePartialMatch(labels)
	c.dispatchSeconds.DeletePartialMatch(labels)
	c.drainBatch.DeletePartialMatch(labels)
	c.pending.DeletePartialMatch(labels)
}
