package pipeline

import (
	"context"
	"errors"

	"github.com/zoeyai/itemscope/internal/logger"
	"github.com/zoeyai/itemscope/pkg/auto/input"
	"github.com/zoeyai/itemscope/pkg/region"
)

// Listener 输入监听循环
// 在同一个 goroutine 里更新解析器状态并同步执行识别，识别期间不处理新事件
type Listener struct {
	source   input.Source
	resolver *region.Resolver
	runner   *Runner
}

// NewListener 创建监听循环
func NewListener(source input.Source, resolver *region.Resolver, runner *Runner) *Listener {
	return &Listener{source: source, resolver: resolver, runner: runner}
}

// Run 阻塞直到 ctx 取消或事件源关闭
func (l *Listener) Run(ctx context.Context) error {
	events, err := l.source.Start(ctx)
	if err != nil {
		return err
	}
	l.runner.presenter.ShowMessage(MessageWaiting)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			l.handle(ctx, ev)
		}
	}
}

func (l *Listener) handle(ctx context.Context, ev region.Event) {
	area, err := l.resolver.Handle(ev)
	if err != nil {
		if errors.Is(err, region.ErrRegionUnresolved) {
			logger.Debug("跳过本次手势: %v", err)
		} else {
			logger.Warn("区域解析失败: %v", err)
		}
		return
	}
	if area == nil {
		return
	}

	logger.Debug("截图区域: %s", area)
	if _, err := l.runner.Run(ctx, *area); err != nil {
		logger.Debug("本次手势未完成: %v", err)
	}
}
