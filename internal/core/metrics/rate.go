package metrics

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// ============================================================================
// RateMeter - 速率计算器
// ============================================================================

const rateBuckets = 60

// RateMeter 速率计算器（基于滑动窗口）
//
// 使用 60 个 1 秒桶来计算最近 60 秒的平均速率。
type RateMeter struct {
	clock clock.Clock

	mu       sync.Mutex
	buckets  [rateBuckets]int64
	lastIdx  int       // 当前桶索引
	lastTime time.Time // 当前桶起始时间
}

// NewRateMeter 创建速率计算器
func NewRateMeter(clk clock.Clock) *RateMeter {
	return &RateMeter{
		clock:    clk,
		lastTime: clk.Now(),
	}
}

// Add 累加到当前桶
func (r *RateMeter) Add(n int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.advance()
	r.buckets[r.lastIdx] += n
}

// Rate 返回平均速率（每秒）
func (r *RateMeter) Rate() float64 {
	return float64(r.Total()) / rateBuckets
}

// Total 返回窗口内的总量
func (r *RateMeter) Total() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.advance()
	var total int64
	for _, v := range r.buckets {
		total += v
	}
	return total
}

// Reset 重置速率计算器
func (r *RateMeter) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buckets = [rateBuckets]int64{}
	r.lastIdx = 0
	r.lastTime = r.clock.Now()
}

// advance 把过期的桶清零，调用方持有 mu
func (r *RateMeter) advance() {
	elapsed := r.clock.Since(r.lastTime)
	if elapsed < time.Second {
		return
	}

	seconds := int(elapsed / time.Second)
	if seconds >= rateBuckets {
		// 超过整个窗口没有数据
		r.buckets = [rateBuckets]int64{}
		r.lastIdx = 0
		r.lastTime = r.clock.Now()
		return
	}
	for i := 0; i < seconds; i++ {
		r.lastIdx = (r.lastIdx + 1) % rateBuckets
		r.buckets[r.lastIdx] = 0
	}
	r.lastTime = r.lastTime.Add(time.Duration(seconds) * time.Second)
}
