// Package permissions 检查全局键鼠监听与截图所需的系统权限
package permissions

import "strings"

// Status 权限状态
type Status struct {
	// Accessibility 全局键鼠监听需要
	Accessibility bool `json:"accessibility"`
	// ScreenRecording 截图需要
	ScreenRecording bool `json:"screen_recording"`
}

// AllGranted 是否全部授权
func (s Status) AllGranted() bool {
	return s.Accessibility && s.ScreenRecording
}

// Check 检查当前权限
func Check() Status {
	return checkPermissions()
}

// Instructions 缺失权限的授权说明，全部授权时返回空字符串
func Instructions(status Status) string {
	if status.AllGranted() {
		return ""
	}

	var b strings.Builder
	b.WriteString("需要授权以下权限才能正常工作:\n\n")
	if !status.Accessibility {
		b.WriteString("- 辅助功能权限 (用于监听触发键和鼠标位置)\n")
		b.WriteString("  系统设置 > 隐私与安全性 > 辅助功能\n\n")
	}
	if !status.ScreenRecording {
		b.WriteString("- 屏幕录制权限 (用于截取识别区域)\n")
		b.WriteString("  系统设置 > 隐私与安全性 > 屏幕录制\n\n")
	}
	b.WriteString("授权后需要重启程序才能生效。")
	return b.String()
}

// Ensure 检查权限，缺失时返回说明
func Ensure() (bool, string) {
	status := Check()
	return status.AllGranted(), Instructions(status)
}
