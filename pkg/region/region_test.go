package region

import (
	"errors"
	"testing"
)

var twoMonitors = []Monitor{
	{Index: 0, Left: 0, Top: 0, Width: 1920, Height: 1080},
	{Index: 1, Left: 1920, Top: -200, Width: 1280, Height: 1024},
}

func defaultCfg() Config {
	return Config{TriggerKey: "rctrl", PixelSensibility: 10, KeepLastRegion: true}
}

// gesture 依次发送事件，返回最后一次产出的区域与错误
func gesture(t *testing.T, r *Resolver, events ...Event) (*Region, error) {
	t.Helper()
	var (
		last    *Region
		lastErr error
	)
	for _, ev := range events {
		region, err := r.Handle(ev)
		if region != nil || err != nil {
			last, lastErr = region, err
		}
	}
	return last, lastErr
}

func TestFullDisplay(t *testing.T) {
	got := FullDisplay(twoMonitors)
	want := Region{Left: 0, Top: -200, Width: 3200, Height: 1280}
	if got != want {
		t.Errorf("FullDisplay = %s, 期望 %s", got, want)
	}
	if !FullDisplay(nil).Empty() {
		t.Error("没有显示器时应为空区域")
	}
}

func TestDragRegion(t *testing.T) {
	r := NewResolver(defaultCfg(), twoMonitors)
	region, err := gesture(t, r,
		PointerMoved(100, 100),
		KeyDown("rctrl"),
		PointerMoved(180, 150),
		PointerMoved(250, 180),
		KeyUp("rctrl"),
	)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	want := Region{Left: 100, Top: 100, Width: 150, Height: 80}
	if region == nil || *region != want {
		t.Fatalf("拖拽区域 = %v, 期望 %s", region, want)
	}
	if r.State().Pressing {
		t.Error("松开后应回到空闲")
	}
	if r.State().LastRegion == nil || *r.State().LastRegion != want {
		t.Error("应记录上次区域")
	}
}

func TestReverseDrag(t *testing.T) {
	r := NewResolver(defaultCfg(), twoMonitors)
	region, _ := gesture(t, r,
		PointerMoved(250, 180),
		KeyDown("rctrl"),
		PointerMoved(100, 100),
		KeyUp("rctrl"),
	)
	want := Region{Left: 100, Top: 100, Width: 150, Height: 80}
	if region == nil || *region != want {
		t.Errorf("反向拖拽区域 = %v, 期望 %s", region, want)
	}
}

func TestClickFallsBackToFullDisplay(t *testing.T) {
	r := NewResolver(defaultCfg(), twoMonitors)
	region, err := gesture(t, r, PointerMoved(100, 100), KeyDown("rctrl"), KeyUp("rctrl"))
	if err != nil {
		t.Fatal(err)
	}
	if region == nil || *region != FullDisplay(twoMonitors) {
		t.Errorf("无上次区域时点按应截全屏, 实际 %v", region)
	}
}

func TestClickReusesLastRegion(t *testing.T) {
	r := NewResolver(defaultCfg(), twoMonitors)
	first, _ := gesture(t, r,
		PointerMoved(100, 100), KeyDown("rctrl"), PointerMoved(250, 180), KeyUp("rctrl"),
	)

	// 一轴位移足够但另一轴不足，仍视为点按
	second, err := gesture(t, r,
		PointerMoved(500, 500), KeyDown("rctrl"), PointerMoved(700, 505), KeyUp("rctrl"),
	)
	if err != nil {
		t.Fatal(err)
	}
	if second == nil || *second != *first {
		t.Errorf("点按应复用上次区域 %s, 实际 %v", first, second)
	}
}

func TestClickWithoutKeepLastRegion(t *testing.T) {
	cfg := defaultCfg()
	cfg.KeepLastRegion = false
	r := NewResolver(cfg, twoMonitors)
	gesture(t, r, PointerMoved(100, 100), KeyDown("rctrl"), PointerMoved(250, 180), KeyUp("rctrl"))

	region, _ := gesture(t, r, KeyDown("rctrl"), KeyUp("rctrl"))
	if region == nil || *region != FullDisplay(twoMonitors) {
		t.Errorf("关闭复用时点按应截全屏, 实际 %v", region)
	}
}

func TestAlwaysFullscreen(t *testing.T) {
	cfg := defaultCfg()
	cfg.AlwaysFullscreen = true
	r := NewResolver(cfg, twoMonitors)
	region, _ := gesture(t, r,
		PointerMoved(100, 100), KeyDown("rctrl"), PointerMoved(250, 180), KeyUp("rctrl"),
	)
	if region == nil || *region != FullDisplay(twoMonitors) {
		t.Errorf("始终全屏时应忽略拖拽, 实际 %v", region)
	}
}

func TestOtherKeyNeverPresses(t *testing.T) {
	r := NewResolver(defaultCfg(), twoMonitors)
	region, err := gesture(t, r,
		PointerMoved(100, 100),
		KeyDown("a"),
		PointerMoved(250, 180),
		KeyUp("rctrl"),
	)
	if region != nil || err != nil {
		t.Errorf("非触发键不应产生截图, 区域=%v 错误=%v", region, err)
	}
	if r.State().Pressing || r.State().PressStart != nil {
		t.Errorf("状态应保持空闲且清空起点: %+v", r.State())
	}
}

func TestKeysWhilePressingAreIgnored(t *testing.T) {
	r := NewResolver(defaultCfg(), twoMonitors)
	region, _ := gesture(t, r,
		PointerMoved(100, 100),
		KeyDown("rctrl"),
		KeyDown("rctrl"),
		KeyDown("shift"),
		PointerMoved(250, 180),
		KeyUp("shift"),
		KeyUp("rctrl"),
	)
	want := Region{Left: 100, Top: 100, Width: 150, Height: 80}
	if region == nil || *region != want {
		t.Errorf("按住期间的其他按键不应影响手势, 实际 %v", region)
	}
}

func TestUnresolvedWithoutPosition(t *testing.T) {
	r := NewResolver(defaultCfg(), twoMonitors)
	region, err := gesture(t, r, KeyDown("rctrl"), KeyUp("rctrl"))
	if region != nil || !errors.Is(err, ErrRegionUnresolved) {
		t.Fatalf("未观察到指针时应返回 ErrRegionUnresolved, 区域=%v 错误=%v", region, err)
	}
	if r.State().Pressing {
		t.Error("失败后应回到空闲，准备下一次手势")
	}
	if r.State().LastRegion != nil {
		t.Error("失败不应记录上次区域")
	}
}

func TestUnresolvedZeroArea(t *testing.T) {
	r := NewResolver(defaultCfg(), nil)
	_, err := gesture(t, r, PointerMoved(5, 5), KeyDown("rctrl"), KeyUp("rctrl"))
	if !errors.Is(err, ErrRegionUnresolved) {
		t.Errorf("零面积区域应返回 ErrRegionUnresolved, 实际 %v", err)
	}
}

func TestStepIsPure(t *testing.T) {
	start := PointerState{}
	s1, _, _ := Step(defaultCfg(), twoMonitors, start, PointerMoved(1, 2))
	if start.Position != nil {
		t.Error("Step 不应修改输入状态")
	}
	if s1.Position == nil || *s1.Position != (Point{X: 1, Y: 2}) {
		t.Errorf("指针位置未更新: %+v", s1)
	}
}

func TestMonitorFor(t *testing.T) {
	cases := []struct {
		region Region
		want   int
		ok     bool
	}{
		{Region{Left: 0, Top: 0, Width: 10, Height: 10}, 0, true},
		{Region{Left: 1919, Top: 1079, Width: 10, Height: 10}, 0, true},
		{Region{Left: 1920, Top: 0, Width: 10, Height: 10}, 1, true},
		{Region{Left: 1920, Top: -200, Width: 10, Height: 10}, 1, true},
		{Region{Left: 100, Top: 1080, Width: 10, Height: 10}, 0, false},
		{Region{Left: 3200, Top: 0, Width: 10, Height: 10}, 0, false},
	}
	for _, c := range cases {
		m, err := MonitorFor(c.region, twoMonitors)
		if !c.ok {
			var oob *CaptureOutOfBoundsError
			if !errors.As(err, &oob) || oob.Region != c.region {
				t.Errorf("%s 应越界, 实际 %v", c.region, err)
			}
			continue
		}
		if err != nil || m.Index != c.want {
			t.Errorf("%s 应属于显示器 %d, 实际 %d (%v)", c.region, c.want, m.Index, err)
		}
	}
}
