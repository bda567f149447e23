//go:build !darwin

package permissions

// checkPermissions 非 macOS 系统不需要额外授权
func checkPermissions() Status {
	return Status{Accessibility: true, ScreenRecording: true}
}

// RequestAccessibility 请求辅助功能权限
func RequestAccessibility() bool {
	return true
}

// OpenSettings 非 macOS 无需打开设置
func OpenSettings(Status) {}
