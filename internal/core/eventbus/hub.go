package eventbus

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dep2p/go-evbus/internal/core/loop"
	pkgif "github.com/dep2p/go-evbus/pkg/interfaces"
	"github.com/dep2p/go-evbus/pkg/lib/evt"
	"github.com/dep2p/go-evbus/pkg/lib/log"
	"github.com/dep2p/go-evbus/pkg/lib/typeid"
)

var logger = log.Logger("core/eventbus")

// ErrEmptyName 总线名称为空
var ErrEmptyName = errors.New("eventbus: empty bus name")

// ============================================================================
// Hub
// ============================================================================

// Hub 运行时共享的总线资源
type Hub struct {
	registry *typeid.Registry
	reporter pkgif.QueueReporter
	pump     *loop.Pump

	mu     sync.Mutex
	opened []string
}

// NewHub 创建 Hub，reporter 为 nil 时使用 NopReporter
func NewHub(registry *typeid.Registry, reporter pkgif.QueueReporter, pump *loop.Pump) *Hub {
	if reporter == nil {
		reporter = pkgif.NopReporter{}
	}
	return &Hub{
		registry: registry,
		reporter: reporter,
		pump:     pump,
	}
}

// Open 创建使用共享资源的总线并挂载到泵
//
// 名称在同一个 Hub 内必须唯一。
func Open[G any](h *Hub, name string) (*evt.Bus[G], error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	bus := evt.New[G](h.Options(name)...)
	if err := h.pump.Attach(bus); err != nil {
		return nil, fmt.Errorf("open bus %q: %w", name, err)
	}

	h.mu.Lock()
	h.opened = append(h.opened, name)
	h.mu.Unlock()

	logger.Debug("总线已创建", "bus", name)
	return bus, nil
}

// Options 返回使用共享注册表与 reporter 的总线选项
func (h *Hub) Options(name string) []evt.Option {
	return []evt.Option{
		evt.WithName(name),
		evt.WithRegistry(h.registry),
		evt.WithReporter(h.reporter),
	}
}

// Registry 返回共享的类型标识注册表
func (h *Hub) Registry() *typeid.Registry {
	return h.registry
}

// Reporter 返回共享的指标 reporter
func (h *Hub) Reporter() pkgif.QueueReporter {
	return h.reporter
}

// Pump 返回消费者泵
func (h *Hub) Pump() *loop.Pump {
	return h.pump
}

// Opened 返回通过 Open 创建过的总线名称
func (h *Hub) Opened() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.opened))
	copy(out, h.opened)
	return out
}
