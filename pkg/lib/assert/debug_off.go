//go:build !evbusdebug

package assert

// Enabled 是否启用 Debug 检查
const Enabled = false
