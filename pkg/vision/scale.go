package vision

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
)

// ScalingConfig 缩放适配配置
type ScalingConfig struct {
	// OriginalWidth 图鉴素材制作时的屏幕宽度
	OriginalWidth int
}

// ScalingAdapter 把截图缩放到图鉴素材的制作分辨率
type ScalingAdapter struct {
	originalWidth int
}

// NewScalingAdapter 创建缩放适配器
func NewScalingAdapter(cfg ScalingConfig) (*ScalingAdapter, error) {
	if cfg.OriginalWidth <= 0 {
		return nil, fmt.Errorf("original_width 必须大于 0: %d", cfg.OriginalWidth)
	}
	return &ScalingAdapter{originalWidth: cfg.OriginalWidth}, nil
}

// Ratio 缩放比例 = 素材分辨率宽度 / 显示器宽度
func (s *ScalingAdapter) Ratio(frameWidth int) float64 {
	if frameWidth <= 0 {
		return 1
	}
	return float64(s.originalWidth) / float64(frameWidth)
}

// ScaledSize 按比例四舍五入后的尺寸
func ScaledSize(width, height int, ratio float64) (int, int) {
	return int(math.Round(float64(width) * ratio)), int(math.Round(float64(height) * ratio))
}

// Scale 最近邻缩放截图
// frameWidth 为产生截图的显示器宽度，<= 0 时使用截图自身宽度
func (s *ScalingAdapter) Scale(frame image.Image, frameWidth int) (*image.RGBA, error) {
	if frame == nil {
		return nil, fmt.Errorf("截图为空")
	}
	b := frame.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("截图尺寸为 0")
	}
	if frameWidth <= 0 {
		frameWidth = b.Dx()
	}

	w, h := ScaledSize(b.Dx(), b.Dy(), s.Ratio(frameWidth))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("缩放后尺寸无效: %dx%d", w, h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), frame, b, draw.Src, nil)
	return dst, nil
}
