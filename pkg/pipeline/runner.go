// Package pipeline 串联一次手势的完整流程：
// 显示器归属 → 截图 → 缩放 → 标准化 → 匹配 → 展示
package pipeline

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/zoeyai/itemscope/internal/logger"
	"github.com/zoeyai/itemscope/pkg/auto/screen"
	"github.com/zoeyai/itemscope/pkg/match"
	"github.com/zoeyai/itemscope/pkg/region"
	"github.com/zoeyai/itemscope/pkg/vision"
)

// 展示给用户的提示
const (
	MessageReady     = "Ready !"
	MessageWaiting   = "Waiting..."
	MessageSearching = "Searching..."
	MessageNothing   = "Nothing found !"
)

// Presenter 展示协作者
type Presenter interface {
	ShowMessage(msg string)
	ShowResults(results []match.Result)
}

// Matcher 对截图做标准化与匹配，*match.Engine 实现了该接口
type Matcher interface {
	MatchImage(img image.Image) ([]match.Result, error)
}

// Option 配置选项函数类型
type Option func(*Runner)

// WithCaptureDir 每次截图都保存到目录，便于离线复现
func WithCaptureDir(dir string) Option {
	return func(r *Runner) {
		r.captureDir = dir
	}
}

// Runner 同步执行一次识别
type Runner struct {
	capturer   screen.Capturer
	scaler     *vision.ScalingAdapter
	matcher    Matcher
	presenter  Presenter
	captureDir string
}

// NewRunner 创建执行器
func NewRunner(capturer screen.Capturer, scaler *vision.ScalingAdapter, matcher Matcher, presenter Presenter, opts ...Option) *Runner {
	r := &Runner{
		capturer:  capturer,
		scaler:    scaler,
		matcher:   matcher,
		presenter: presenter,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Monitors 截图后端的显示器列表
func (r *Runner) Monitors() ([]region.Monitor, error) {
	return r.capturer.Monitors()
}

// Run 对区域执行一次识别并交给展示端
// 任何失败都会以"没有结果"展示，错误同时返回给调用方
func (r *Runner) Run(ctx context.Context, area region.Region) ([]match.Result, error) {
	results, err := r.run(ctx, area)
	if err != nil {
		logger.Warn("识别失败: %v", err)
		r.presenter.ShowMessage(MessageNothing)
		return nil, err
	}
	if len(results) == 0 {
		r.presenter.ShowMessage(MessageNothing)
		return results, nil
	}
	r.presenter.ShowResults(results)
	return results, nil
}

func (r *Runner) run(ctx context.Context, area region.Region) ([]match.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	monitors, err := r.capturer.Monitors()
	if err != nil {
		return nil, fmt.Errorf("获取显示器失败: %w", err)
	}
	monitor, err := region.MonitorFor(area, monitors)
	if err != nil {
		return nil, err
	}

	r.presenter.ShowMessage(MessageSearching)

	startTime := time.Now()
	frame, err := r.capturer.Capture(area)
	elapsed := float64(time.Since(startTime).Milliseconds())
	if err != nil {
		logger.LogEvent("CAPT", false, elapsed, err.Error())
		return nil, err
	}
	logger.LogEvent("CAPT", true, elapsed, fmt.Sprintf("%s 显示器 %d", area, monitor.Index))

	if r.captureDir != "" {
		if path, err := screen.SaveCapture(r.captureDir, frame); err != nil {
			logger.Warn("保存截图失败: %v", err)
		} else {
			logger.Debug("截图已保存: %s", path)
		}
	}

	scaled, err := r.scaler.Scale(frame, monitor.Width)
	if err != nil {
		return nil, fmt.Errorf("缩放截图失败: %w", err)
	}

	startTime = time.Now()
	results, err := r.matcher.MatchImage(scaled)
	elapsed = float64(time.Since(startTime).Milliseconds())
	if err != nil {
		logger.LogEvent("MTCH", false, elapsed, err.Error())
		return nil, err
	}
	logger.LogEvent("MTCH", true, elapsed, fmt.Sprintf("%d 个结果", len(results)))
	return results, nil
}
