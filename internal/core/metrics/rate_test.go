package metrics

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
)

// TestRateMeter_Window 测试滑动窗口
func TestRateMeter_Window(t *testing.T) {
	mock := clock.NewMock()
	r := NewRateMeter(mock)

	r.Add(10)
	mock.Add(time.Second)
	r.Add(20)
	assert.Equal(t, int64(30), r.Total())
	assert.Equal(t, 0.5, r.Rate())

	// 第一个桶滑出窗口
	mock.Add(59 * time.Second)
	assert.Equal(t, int64(20), r.Total())

	// 整个窗口过期
	mock.Add(61 * time.Second)
	assert.Equal(t, int64(0), r.Total())
}

// TestRateMeter_SubSecond 测试一秒内累加到同一桶
func TestRateMeter_SubSecond(t *testing.T) {
	mock := clock.NewMock()
	r := NewRateMeter(mock)

	for i := 0; i < 5; i++ {
		r.Add(1)
		mock.Add(100 * time.Millisecond)
	}
	assert.Equal(t, int64(5), r.Total())

	r.Reset()
	assert.Equal(t, int64(0), r.Total())
}
