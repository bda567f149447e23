// Package screen 提供截图后端：robotgo、kbinani/screenshot 与静态图片
package screen

import (
	"fmt"
	"image"
	"strings"

	"github.com/go-vgo/robotgo"

	"github.com/zoeyai/itemscope/pkg/region"
)

// Capturer 截图协作者
// Capture 返回的图像尺寸等于区域尺寸，像素为物理像素
type Capturer interface {
	// Monitors 当前连接的显示器
	Monitors() ([]region.Monitor, error)
	// Capture 截取区域
	Capture(r region.Region) (image.Image, error)
}

// 后端名称
const (
	BackendRobotgo    = "robotgo"
	BackendScreenshot = "screenshot"
)

// New 按名称创建截图后端
func New(backend string) (Capturer, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendRobotgo:
		return RobotgoCapturer{}, nil
	case BackendScreenshot, "kbinani":
		return ScreenshotCapturer{}, nil
	default:
		return nil, fmt.Errorf("不支持的截图后端: %s", backend)
	}
}

// RobotgoCapturer 基于 robotgo 的截图后端
type RobotgoCapturer struct{}

// Monitors 获取显示器列表
func (RobotgoCapturer) Monitors() ([]region.Monitor, error) {
	n := robotgo.DisplaysNum()
	if n <= 0 {
		return nil, fmt.Errorf("未检测到显示器")
	}
	monitors := make([]region.Monitor, 0, n)
	for i := 0; i < n; i++ {
		x, y, w, h := robotgo.GetDisplayBounds(i)
		monitors = append(monitors, region.Monitor{Index: i, Left: x, Top: y, Width: w, Height: h})
	}
	return monitors, nil
}

// Capture 截取屏幕区域
func (RobotgoCapturer) Capture(r region.Region) (image.Image, error) {
	if r.Empty() {
		return nil, fmt.Errorf("截取区域为空: %s", r)
	}
	img, err := robotgo.CaptureImg(r.Left, r.Top, r.Width, r.Height)
	if err != nil {
		return nil, fmt.Errorf("截取区域失败: %w", err)
	}
	return img, nil
}
