// Package region 根据指针与按键事件解析截图区域
//
// 一次手势 = 按下触发键、可选地移动指针、松开触发键。
// 位移小于灵敏度视为点按（复用上次区域或全屏），否则取拖拽矩形。
package region

import (
	"errors"
	"fmt"
	"image"
)

// ErrRegionUnresolved 无法得到有效区域（从未观察到指针位置，或区域面积为 0）
var ErrRegionUnresolved = errors.New("无法解析截图区域")

// CaptureOutOfBoundsError 区域左上角不在任何显示器内
type CaptureOutOfBoundsError struct {
	Region Region
}

func (e *CaptureOutOfBoundsError) Error() string {
	return fmt.Sprintf("截图区域 %s 不属于任何显示器", e.Region)
}

// Point 屏幕坐标
type Point struct {
	X, Y int
}

// Region 屏幕坐标系下的矩形
type Region struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Empty 面积是否为 0
func (r Region) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Rect 转换为 image.Rectangle
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Left+r.Width, r.Top+r.Height)
}

// String 返回字符串表示
func (r Region) String() string {
	return fmt.Sprintf("{left:%d top:%d width:%d height:%d}", r.Left, r.Top, r.Width, r.Height)
}

// Monitor 一个显示器的位置与尺寸
type Monitor struct {
	Index  int
	Left   int
	Top    int
	Width  int
	Height int
}

// Bounds 显示器区域
func (m Monitor) Bounds() Region {
	return Region{Left: m.Left, Top: m.Top, Width: m.Width, Height: m.Height}
}

// Contains 半开区间判断：左上边界包含，右下边界不包含
func (m Monitor) Contains(p Point) bool {
	return p.X >= m.Left && p.X < m.Left+m.Width &&
		p.Y >= m.Top && p.Y < m.Top+m.Height
}

// EventKind 输入事件类型
type EventKind int

const (
	// PointerMove 指针移动
	PointerMove EventKind = iota
	// KeyPress 按键按下
	KeyPress
	// KeyRelease 按键松开
	KeyRelease
)

// String 返回字符串表示
func (k EventKind) String() string {
	switch k {
	case PointerMove:
		return "PointerMoved"
	case KeyPress:
		return "KeyDown"
	case KeyRelease:
		return "KeyUp"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event 输入事件
type Event struct {
	Kind EventKind
	X, Y int
	Key  string
}

// PointerMoved 指针移动事件
func PointerMoved(x, y int) Event {
	return Event{Kind: PointerMove, X: x, Y: y}
}

// KeyDown 按键按下事件
func KeyDown(key string) Event {
	return Event{Kind: KeyPress, Key: key}
}

// KeyUp 按键松开事件
func KeyUp(key string) Event {
	return Event{Kind: KeyRelease, Key: key}
}

// String 返回字符串表示
func (e Event) String() string {
	if e.Kind == PointerMove {
		return fmt.Sprintf("%s(%d,%d)", e.Kind, e.X, e.Y)
	}
	return fmt.Sprintf("%s(%s)", e.Kind, e.Key)
}
