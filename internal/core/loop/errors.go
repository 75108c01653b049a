package loop

import "errors"

var (
	// ErrAlreadyStarted 泵已启动
	ErrAlreadyStarted = errors.New("loop: already started")

	// ErrStopped 泵已进入关闭流程
	ErrStopped = errors.New("loop: stopped")

	// ErrDuplicateProcessor 同名总线已挂载
	ErrDuplicateProcessor = errors.New("loop: duplicate processor name")

	// ErrNilProcessor 挂载 nil
	ErrNilProcessor = errors.New("loop: nil processor")
)
