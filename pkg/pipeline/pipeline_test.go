package pipeline

import (
	"context"
	"errors"
	"image"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/zoeyai/itemscope/pkg/auto/screen"
	"github.com/zoeyai/itemscope/pkg/catalogue"
	"github.com/zoeyai/itemscope/pkg/match"
	"github.com/zoeyai/itemscope/pkg/region"
	"github.com/zoeyai/itemscope/pkg/vision"
)

type recordingPresenter struct {
	mu       sync.Mutex
	messages []string
	results  [][]match.Result
}

func (p *recordingPresenter) ShowMessage(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
}

func (p *recordingPresenter) ShowResults(results []match.Result) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.results = append(p.results, results)
}

func (p *recordingPresenter) lastMessage() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.messages) == 0 {
		return ""
	}
	return p.messages[len(p.messages)-1]
}

// fakeMatcher 记录收到的截图尺寸
type fakeMatcher struct {
	sizes   []image.Point
	results []match.Result
	err     error
}

func (m *fakeMatcher) MatchImage(img image.Image) ([]match.Result, error) {
	m.sizes = append(m.sizes, img.Bounds().Size())
	return m.results, m.err
}

type chanSource struct {
	events chan region.Event
}

func (s *chanSource) Start(ctx context.Context) (<-chan region.Event, error) {
	return s.events, nil
}

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+3] = 200, 255
	}
	return img
}

func newRunner(t *testing.T, monitorWidth int, matcher Matcher, p Presenter) *Runner {
	t.Helper()
	scaler, err := vision.NewScalingAdapter(vision.ScalingConfig{OriginalWidth: 1920})
	if err != nil {
		t.Fatal(err)
	}
	return NewRunner(screen.NewImageCapturer(solid(960, 540), monitorWidth), scaler, matcher, p)
}

func oneResult() []match.Result {
	return []match.Result{{Item: &catalogue.Item{Slug: "helmet"}, Score: 0.97}}
}

func TestRunnerScalesByMonitorWidth(t *testing.T) {
	p := &recordingPresenter{}
	m := &fakeMatcher{results: oneResult()}
	runner := newRunner(t, 0, m, p)

	results, err := runner.Run(context.Background(), region.Region{Left: 100, Top: 100, Width: 150, Height: 80})
	if err != nil {
		t.Fatalf("识别失败: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("结果数量错误: %v", results)
	}
	// 显示器宽 960，素材宽 1920，比例 2.0
	if len(m.sizes) != 1 || m.sizes[0] != (image.Point{X: 300, Y: 160}) {
		t.Errorf("截图应按比例 2.0 缩放, 实际 %v", m.sizes)
	}
	if len(p.messages) == 0 || p.messages[0] != MessageSearching {
		t.Errorf("匹配前应提示搜索中: %v", p.messages)
	}
	if len(p.results) != 1 {
		t.Error("结果应交给展示端")
	}
}

func TestRunnerOutOfBounds(t *testing.T) {
	p := &recordingPresenter{}
	m := &fakeMatcher{results: oneResult()}
	runner := newRunner(t, 0, m, p)

	_, err := runner.Run(context.Background(), region.Region{Left: 5000, Top: 0, Width: 10, Height: 10})
	var oob *region.CaptureOutOfBoundsError
	if !errors.As(err, &oob) {
		t.Fatalf("应返回 CaptureOutOfBoundsError, 实际 %v", err)
	}
	if len(m.sizes) != 0 {
		t.Error("越界时不应进行匹配")
	}
	if p.lastMessage() != MessageNothing {
		t.Errorf("失败应展示为没有结果: %v", p.messages)
	}
}

func TestRunnerMatchErrorAndEmpty(t *testing.T) {
	p := &recordingPresenter{}
	runner := newRunner(t, 0, &fakeMatcher{err: errors.New("boom")}, p)
	if _, err := runner.Run(context.Background(), region.Region{Width: 10, Height: 10}); err == nil {
		t.Error("匹配错误应返回")
	}
	if p.lastMessage() != MessageNothing {
		t.Errorf("匹配错误应展示为没有结果: %v", p.messages)
	}

	p = &recordingPresenter{}
	runner = newRunner(t, 0, &fakeMatcher{}, p)
	if _, err := runner.Run(context.Background(), region.Region{Width: 10, Height: 10}); err != nil {
		t.Errorf("空结果不是错误: %v", err)
	}
	if p.lastMessage() != MessageNothing || len(p.results) != 0 {
		t.Errorf("空结果应展示为没有结果: %v", p.messages)
	}
}

func TestRunnerCancelled(t *testing.T) {
	p := &recordingPresenter{}
	m := &fakeMatcher{results: oneResult()}
	runner := newRunner(t, 0, m, p)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := runner.Run(ctx, region.Region{Width: 10, Height: 10}); !errors.Is(err, context.Canceled) {
		t.Errorf("已取消的 ctx 应返回 Canceled, 实际 %v", err)
	}
}

func TestRunnerSavesCaptures(t *testing.T) {
	dir := t.TempDir()
	scaler, _ := vision.NewScalingAdapter(vision.ScalingConfig{OriginalWidth: 960})
	runner := NewRunner(screen.NewImageCapturer(solid(96, 54), 0), scaler,
		&fakeMatcher{results: oneResult()}, &recordingPresenter{}, WithCaptureDir(dir))
	if _, err := runner.Run(context.Background(), region.Region{Width: 10, Height: 10}); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Errorf("应保存一张截图: %v %v", entries, err)
	}
}

func TestListenerRunsPipelineOnGesture(t *testing.T) {
	p := &recordingPresenter{}
	m := &fakeMatcher{results: oneResult()}
	runner := newRunner(t, 0, m, p)
	monitors, _ := runner.Monitors()
	resolver := region.NewResolver(region.Config{TriggerKey: "rctrl", PixelSensibility: 10, KeepLastRegion: true}, monitors)

	src := &chanSource{events: make(chan region.Event, 16)}
	for _, ev := range []region.Event{
		// 从未移动指针：本次手势被跳过，循环继续
		region.KeyDown("rctrl"),
		region.KeyUp("rctrl"),
		// 正常拖拽
		region.PointerMoved(100, 100),
		region.KeyDown("rctrl"),
		region.PointerMoved(250, 180),
		region.KeyUp("rctrl"),
		// 点按复用上次区域
		region.KeyDown("rctrl"),
		region.KeyUp("rctrl"),
		// 越界拖拽：失败但不退出
		region.PointerMoved(2000, 10),
		region.KeyDown("rctrl"),
		region.PointerMoved(2100, 100),
		region.KeyUp("rctrl"),
	} {
		src.events <- ev
	}
	close(src.events)

	listener := NewListener(src, resolver, runner)
	if err := listener.Run(context.Background()); err != nil {
		t.Fatalf("监听循环异常退出: %v", err)
	}

	want := []image.Point{{X: 300, Y: 160}, {X: 300, Y: 160}}
	if len(m.sizes) != len(want) || m.sizes[0] != want[0] || m.sizes[1] != want[1] {
		t.Errorf("应执行两次识别, 实际 %v", m.sizes)
	}
	if len(p.results) != 2 {
		t.Errorf("应展示两次结果, 实际 %d", len(p.results))
	}
	if p.lastMessage() != MessageNothing {
		t.Errorf("越界手势应展示为没有结果: %v", p.messages)
	}
}

func TestListenerStopsOnCancel(t *testing.T) {
	runner := newRunner(t, 0, &fakeMatcher{}, &recordingPresenter{})
	resolver := region.NewResolver(region.Config{TriggerKey: "rctrl"}, nil)
	listener := NewListener(&chanSource{events: make(chan region.Event)}, resolver, runner)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- listener.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("取消后应正常退出: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("取消后监听循环未退出")
	}
}
