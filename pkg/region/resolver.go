package region

import (
	"fmt"

	"github.com/zoeyai/itemscope/internal/logger"
)

// Config 区域解析配置
type Config struct {
	// TriggerKey 触发键名称
	TriggerKey string
	// PixelSensibility 任一轴位移小于此值视为点按
	PixelSensibility int
	// KeepLastRegion 点按时复用上一次区域
	KeepLastRegion bool
	// AlwaysFullscreen 始终截取全部显示器
	AlwaysFullscreen bool
}

// PointerState 解析器状态，nil 指针表示未设置
type PointerState struct {
	Position   *Point
	PressStart *Point
	Pressing   bool
	LastRegion *Region
}

// Step 纯状态转移：(状态, 事件) -> (新状态, 可选区域)
// 只有松开触发键时才可能产出区域；解析失败返回 ErrRegionUnresolved，状态回到空闲
func Step(cfg Config, monitors []Monitor, s PointerState, ev Event) (PointerState, *Region, error) {
	switch ev.Kind {
	case PointerMove:
		s.Position = &Point{X: ev.X, Y: ev.Y}
		return s, nil, nil

	case KeyPress:
		if s.Pressing {
			return s, nil, nil
		}
		if ev.Key == cfg.TriggerKey {
			s.Pressing = true
			s.PressStart = s.Position
			logger.Debug("按下 %s, 起点 %v", ev.Key, pointString(s.PressStart))
		} else {
			s.PressStart = nil
			logger.Debug("其他按键 %s, 取消手势", ev.Key)
		}
		return s, nil, nil

	case KeyRelease:
		if !s.Pressing || ev.Key != cfg.TriggerKey {
			return s, nil, nil
		}
		s.Pressing = false
		logger.Debug("松开 %s, 位置 %v", ev.Key, pointString(s.Position))

		r, err := Resolve(cfg, monitors, s)
		if err != nil {
			return s, nil, err
		}
		s.LastRegion = &r
		return s, &r, nil
	}
	return s, nil, nil
}

// Resolve 按当前状态计算截图区域
func Resolve(cfg Config, monitors []Monitor, s PointerState) (Region, error) {
	if s.Position == nil {
		return Region{}, ErrRegionUnresolved
	}

	var r Region
	switch {
	case cfg.AlwaysFullscreen:
		r = FullDisplay(monitors)
	case isClick(cfg, s):
		if cfg.KeepLastRegion && s.LastRegion != nil {
			r = *s.LastRegion
			logger.Debug("点按, 复用上次区域 %s", r)
		} else {
			r = FullDisplay(monitors)
			logger.Debug("点按, 使用全部显示器 %s", r)
		}
	default:
		start, pos := *s.PressStart, *s.Position
		r = Region{
			Left:   min(start.X, pos.X),
			Top:    min(start.Y, pos.Y),
			Width:  abs(pos.X - start.X),
			Height: abs(pos.Y - start.Y),
		}
	}

	if r.Empty() {
		return Region{}, ErrRegionUnresolved
	}
	return r, nil
}

// isClick 无起点，或任一轴位移小于灵敏度
func isClick(cfg Config, s PointerState) bool {
	if s.PressStart == nil {
		return true
	}
	return abs(s.PressStart.X-s.Position.X) < cfg.PixelSensibility ||
		abs(s.PressStart.Y-s.Position.Y) < cfg.PixelSensibility
}

// FullDisplay 所有显示器的包围盒
func FullDisplay(monitors []Monitor) Region {
	if len(monitors) == 0 {
		return Region{}
	}
	left, top := monitors[0].Left, monitors[0].Top
	right, bottom := left+monitors[0].Width, top+monitors[0].Height
	for _, m := range monitors[1:] {
		left = min(left, m.Left)
		top = min(top, m.Top)
		right = max(right, m.Left+m.Width)
		bottom = max(bottom, m.Top+m.Height)
	}
	return Region{Left: left, Top: top, Width: right - left, Height: bottom - top}
}

// MonitorFor 返回包含区域左上角的第一个显示器
func MonitorFor(r Region, monitors []Monitor) (Monitor, error) {
	corner := Point{X: r.Left, Y: r.Top}
	for _, m := range monitors {
		if m.Contains(corner) {
			return m, nil
		}
	}
	return Monitor{}, &CaptureOutOfBoundsError{Region: r}
}

// Resolver 持有状态的区域解析器
// 只应由输入监听所在的 goroutine 调用
type Resolver struct {
	cfg      Config
	monitors []Monitor
	state    PointerState
}

// NewResolver 创建区域解析器
func NewResolver(cfg Config, monitors []Monitor) *Resolver {
	return &Resolver{cfg: cfg, monitors: monitors}
}

// Handle 处理一个事件，松开触发键时返回区域
func (r *Resolver) Handle(ev Event) (*Region, error) {
	next, region, err := Step(r.cfg, r.monitors, r.state, ev)
	r.state = next
	return region, err
}

// State 当前状态
func (r *Resolver) State() PointerState {
	return r.state
}

// Monitors 当前显示器列表
func (r *Resolver) Monitors() []Monitor {
	return r.monitors
}

// SetMonitors 更新显示器列表（显示器热插拔后调用）
func (r *Resolver) SetMonitors(monitors []Monitor) {
	r.monitors = monitors
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func pointString(p *Point) string {
	if p == nil {
		return "<未知>"
	}
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}
