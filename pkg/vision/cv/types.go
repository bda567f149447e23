package cv

import "fmt"

const (
	// CannyLowThreshold 边缘检测低阈值
	CannyLowThreshold = 50
	// CannyHighThreshold 边缘检测高阈值
	CannyHighThreshold = 200
	// DefaultRatio 特征点比率测试系数
	DefaultRatio = 0.75
)

// ImageSizeError 图像尺寸错误：搜索图像大于源图像
type ImageSizeError struct {
	SourceSize [2]int
	SearchSize [2]int
}

func (e *ImageSizeError) Error() string {
	return fmt.Sprintf("搜索图像尺寸 %dx%d 大于源图像 %dx%d",
		e.SearchSize[0], e.SearchSize[1], e.SourceSize[0], e.SourceSize[1])
}

// ImageTypeError 图像类型不一致（通道数不同等）
type ImageTypeError struct {
	SourceChannels int
	SearchChannels int
}

func (e *ImageTypeError) Error() string {
	return fmt.Sprintf("图像通道数不一致: 源图像 %d, 搜索图像 %d", e.SourceChannels, e.SearchChannels)
}
