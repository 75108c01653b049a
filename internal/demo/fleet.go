package demo

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/dep2p/go-evbus/config"
	"github.com/dep2p/go-evbus/pkg/lib/evt"
)

// statusEvery 每个生产者每发布多少帧附带一条状态文本
const statusEvery = 100

// FleetResult 一次运行的结果
type FleetResult struct {
	Session  uuid.UUID
	Sent     int64 // 成功入队的帧
	Rejected int64 // 因总线停止接收而退出的生产者数
}

// Fleet 一组限速的帧生产者
type Fleet struct {
	out evt.View[Tracking]
	cfg config.DemoConfig
}

// NewFleet 创建生产者组
func NewFleet(out evt.View[Tracking], cfg config.DemoConfig) *Fleet {
	return &Fleet{out: out, cfg: cfg}
}

// Run 运行所有生产者直到 ctx 结束、Duration 到期或总线停止接收
//
// evt.ErrClosed 视为正常退出，不作为错误返回。
func (f *Fleet) Run(ctx context.Context) (FleetResult, error) {
	res := FleetResult{Session: uuid.New()}
	if f.cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.cfg.Duration.Duration())
		defer cancel()
	}

	logger.Info("生产者组已启动",
		"session", res.Session,
		"producers", f.cfg.Producers,
		"rate", f.cfg.Rate)

	var sent, rejected atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < f.cfg.Producers; i++ {
		camera := i
		g.Go(func() error {
			n, err := f.produce(gctx, camera)
			sent.Add(n)
			if errors.Is(err, evt.ErrClosed) {
				rejected.Add(1)
				return nil
			}
			return err
		})
	}
	err := g.Wait()

	res.Sent = sent.Load()
	res.Rejected = rejected.Load()
	if perr := evt.Push(f.out, Shutdown{}); perr != nil && !errors.Is(perr, evt.ErrClosed) {
		err = multierr.Append(err, perr)
	}

	logger.Info("生产者组已结束", "session", res.Session, "sent", res.Sent, "rejected", res.Rejected)
	return res, err
}

// produce 单个相机的采集循环，返回成功入队的帧数
func (f *Fleet) produce(ctx context.Context, camera int) (int64, error) {
	lim := rate.NewLimiter(rate.Limit(f.cfg.Rate), f.cfg.Burst)

	var sent int64
	for seq := uint64(1); ; seq++ {
		if err := lim.Wait(ctx); err != nil {
			// ctx 结束
			return sent, nil
		}
		err := evt.Push(f.out, FrameCaptured{Camera: camera, Seq: seq, ID: uuid.New()})
		if err != nil {
			return sent, err
		}
		sent++

		if seq%statusEvery == 0 {
			err = evt.Emplace(f.out, func(s *StatusText) {
				s.Text = fmt.Sprintf("camera %d: %d frames", camera, seq)
			})
			if err != nil {
				return sent, err
			}
		}
	}
}
