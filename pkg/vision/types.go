// Package vision 提供图像标准化与缩放适配
//
// 图鉴素材和实时截图都经过同一套变换后才进入匹配：
// 背景透明化、可选的透明区域裁剪、掩码提取、表示模式转换（RGB/灰度/边缘）。
package vision

import (
	"fmt"
	"strings"
)

// NormalizationMode 图像表示模式
type NormalizationMode string

const (
	// ModeRGB 三通道 RGB
	ModeRGB NormalizationMode = "rgb"
	// ModeGray 单通道灰度
	ModeGray NormalizationMode = "gray"
	// ModeEdge 灰度后 Canny 二值边缘图，适合纹理多变但轮廓稳定的物品
	ModeEdge NormalizationMode = "edge"
)

// ParseMode 解析表示模式，空字符串视为灰度
func ParseMode(s string) (NormalizationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "gray", "grey":
		return ModeGray, nil
	case "rgb", "color", "colour":
		return ModeRGB, nil
	case "edge", "edges", "canny":
		return ModeEdge, nil
	default:
		return "", fmt.Errorf("不支持的图像表示模式: %s", s)
	}
}

// String 返回字符串表示
func (m NormalizationMode) String() string {
	return string(m)
}
