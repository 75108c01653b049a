package evt

import "errors"

// ============================================================================
// 错误定义
// ============================================================================

var (
	// ErrClosed 总线已停止接收事件
	ErrClosed = errors.New("evt: bus closed")

	// ErrPendingEvents 关闭时仍有未排空的事件
	ErrPendingEvents = errors.New("evt: undrained events at close")

	// ErrHandlersBound 关闭时仍有已绑定的处理器
	ErrHandlersBound = errors.New("evt: handlers still bound at close")
)

// 契约违反（经 assert 包以 panic 形式报告）
var (
	// ErrAlreadyBound 事件类型已有处理器
	ErrAlreadyBound = errors.New("evt: handler already bound")

	// ErrNotBound 事件类型没有处理器
	ErrNotBound = errors.New("evt: handler not bound")

	// ErrUnhandled 分发时事件类型没有处理器
	ErrUnhandled = errors.New("evt: unhandled event")

	// ErrConcurrentProcess Process 被并发或重入调用
	ErrConcurrentProcess = errors.New("evt: concurrent Process call")

	// ErrOwnerBound 处理器所有者已绑定
	ErrOwnerBound = errors.New("evt: owner already bound")

	// ErrOwnerNotBound 处理器所有者未绑定
	ErrOwnerNotBound = errors.New("evt: owner not bound")

	// ErrForeignOwner 处理器所有者绑定在另一条总线上
	ErrForeignOwner = errors.New("evt: owner bound to another bus")

	// ErrNilHandler 处理器或所有者为 nil
	ErrNilHandler = errors.New("evt: nil handler")

	// ErrNilBus 视图未引用总线
	ErrNilBus = errors.New("evt: nil bus")

	// ErrDuplicateHandler 同一个处理器集合中重复声明事件类型
	ErrDuplicateHandler = errors.New("evt: duplicate event type in handler set")
)
