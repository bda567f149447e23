package screen

import (
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"

	"github.com/zoeyai/itemscope/pkg/region"
)

// ImageCapturer 把一张静态图片当作单个显示器
// 用于离线识别已保存的截图，以及测试
type ImageCapturer struct {
	img     *image.NRGBA
	monitor region.Monitor
}

// NewImageCapturer 创建静态截图后端
// monitorWidth > 0 时按该宽度上报显示器（截图来自其他分辨率时使用）
func NewImageCapturer(img image.Image, monitorWidth int) *ImageCapturer {
	src := imaging.Clone(img)
	b := src.Bounds()
	m := region.Monitor{Width: b.Dx(), Height: b.Dy()}
	if monitorWidth > 0 {
		m.Width = monitorWidth
	}
	return &ImageCapturer{img: src, monitor: m}
}

// LoadImageCapturer 从文件加载静态截图
func LoadImageCapturer(path string, monitorWidth int) (*ImageCapturer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开截图失败: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("解码截图失败: %w", err)
	}
	return NewImageCapturer(img, monitorWidth), nil
}

// Monitors 返回唯一的虚拟显示器
func (c *ImageCapturer) Monitors() ([]region.Monitor, error) {
	return []region.Monitor{c.monitor}, nil
}

// Bounds 整张图片对应的区域
func (c *ImageCapturer) Bounds() region.Region {
	b := c.img.Bounds()
	return region.Region{Left: b.Min.X, Top: b.Min.Y, Width: b.Dx(), Height: b.Dy()}
}

// Capture 裁剪区域，超出图片的部分被截断
func (c *ImageCapturer) Capture(r region.Region) (image.Image, error) {
	rect := r.Rect().Intersect(c.img.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("截取区域 %s 超出图片范围", r)
	}
	return imaging.Crop(c.img, rect), nil
}
