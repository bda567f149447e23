package screen

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"

	"github.com/zoeyai/itemscope/pkg/region"
)

// ScreenshotCapturer 基于 kbinani/screenshot 的截图后端
// 不依赖 robotgo 的 C 运行库，适合 robotgo 截图异常的环境
type ScreenshotCapturer struct{}

// Monitors 获取显示器列表
func (ScreenshotCapturer) Monitors() ([]region.Monitor, error) {
	n := screenshot.NumActiveDisplays()
	if n <= 0 {
		return nil, fmt.Errorf("未检测到显示器")
	}
	monitors := make([]region.Monitor, 0, n)
	for i := 0; i < n; i++ {
		b := screenshot.GetDisplayBounds(i)
		monitors = append(monitors, region.Monitor{
			Index:  i,
			Left:   b.Min.X,
			Top:    b.Min.Y,
			Width:  b.Dx(),
			Height: b.Dy(),
		})
	}
	return monitors, nil
}

// Capture 截取屏幕区域
func (ScreenshotCapturer) Capture(r region.Region) (image.Image, error) {
	if r.Empty() {
		return nil, fmt.Errorf("截取区域为空: %s", r)
	}
	img, err := screenshot.CaptureRect(r.Rect())
	if err != nil {
		return nil, fmt.Errorf("截取区域失败: %w", err)
	}
	return img, nil
}
