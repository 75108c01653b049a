// Package assert 提供契约检查
//
// 契约违反（重复绑定、未处理事件、类型不匹配等）属于编程错误而非可恢复错误，
// 统一以 *ContractViolation 触发 panic：
//   - Require：始终启用，发布构建中同样保证崩溃
//   - Debug：仅在 evbusdebug 构建标签下启用，用于冗余或昂贵的检查
//
// 可恢复的状态（例如总线已关闭）通过普通 error 返回，不经过本包。
package assert

import (
	"errors"
	"fmt"

	"github.com/dep2p/go-evbus/pkg/lib/log"
)

var logger = log.Logger("lib/assert")

// ErrContractViolation 所有契约违反的根错误
var ErrContractViolation = errors.New("contract violation")

// ContractViolation 契约违反
//
// Err 为具体的哨兵错误（如 evt.ErrAlreadyBound），Msg 为上下文描述。
type ContractViolation struct {
	Err error
	Msg string
}

// Error 实现 error 接口
func (c *ContractViolation) Error() string {
	if c.Err == nil {
		return "contract violation: " + c.Msg
	}
	return fmt.Sprintf("contract violation: %v: %s", c.Err, c.Msg)
}

// Unwrap 同时匹配 ErrContractViolation 与具体哨兵错误
func (c *ContractViolation) Unwrap() []error {
	if c.Err == nil {
		return []error{ErrContractViolation}
	}
	return []error{ErrContractViolation, c.Err}
}

// Require 断言条件成立，否则记录日志并 panic
func Require(cond bool, err error, format string, args ...any) {
	if cond {
		return
	}
	fail(err, format, args...)
}

// Debug 仅在 evbusdebug 构建中检查条件
func Debug(cond bool, err error, format string, args ...any) {
	if !Enabled || cond {
		return
	}
	fail(err, format, args...)
}

// Fail 无条件触发契约违反
func Fail(err error, format string, args ...any) {
	fail(err, format, args...)
}

func fail(err error, format string, args ...any) {
	cv := &ContractViolation{Err: err, Msg: fmt.Sprintf(format, args...)}
	logger.Error("契约检查失败", "error", cv)
	panic(cv)
}

// AsViolation 从 recover() 的返回值中提取 *ContractViolation
func AsViolation(r any) (*ContractViolation, bool) {
	err, ok := r.(error)
	if !ok {
		return nil, false
	}
	var cv *ContractViolation
	if errors.As(err, &cv) {
		return cv, true
	}
	return nil, false
}
