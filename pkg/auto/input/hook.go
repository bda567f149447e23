// Package input 把系统输入钩子转换为区域解析事件
package input

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-vgo/robotgo"
	hook "github.com/robotn/gohook"

	"github.com/zoeyai/itemscope/internal/logger"
	"github.com/zoeyai/itemscope/pkg/region"
)

// Source 输入协作者
// Start 返回的事件通道在 ctx 取消或钩子结束后关闭
type Source interface {
	Start(ctx context.Context) (<-chan region.Event, error)
}

// HookSource 基于 gohook 的全局键鼠监听
// 进程内同一时刻只能有一个钩子在运行
type HookSource struct {
	keys   *KeyMap
	buffer int
}

// NewHookSource 创建监听源，triggerKey 为触发键名称（如 rctrl）
func NewHookSource(triggerKey string) (*HookSource, error) {
	keys, err := NewKeyMap(triggerKey)
	if err != nil {
		return nil, err
	}
	return &HookSource{keys: keys, buffer: 64}, nil
}

var hookMu sync.Mutex

// Start 启动钩子
// 先发送一次当前指针位置，保证未移动鼠标时也能解析区域
func (s *HookSource) Start(ctx context.Context) (<-chan region.Event, error) {
	if !hookMu.TryLock() {
		return nil, fmt.Errorf("输入钩子已在运行")
	}

	raw := hook.Start()
	out := make(chan region.Event, s.buffer)

	go func() {
		defer hookMu.Unlock()
		defer close(out)
		defer hook.End()

		x, y := robotgo.Location()
		select {
		case out <- region.PointerMoved(x, y):
		case <-ctx.Done():
			return
		}

		for {
			select {
			case <-ctx.Done():
				logger.Debug("输入钩子已停止")
				return
			case ev, ok := <-raw:
				if !ok {
					return
				}
				re, ok := s.keys.Translate(ev)
				if !ok {
					continue
				}
				select {
				case out <- re:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	logger.Info("输入钩子已启动, 触发键: %s", s.keys.Trigger())
	return out, nil
}
