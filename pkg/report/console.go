// Package report 提供展示协作者：控制台输出与 PNG 结果图
package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/zoeyai/itemscope/internal/logger"
	"github.com/zoeyai/itemscope/pkg/match"
	"github.com/zoeyai/itemscope/pkg/pipeline"
)

// ConsolePresenter 把结果逐行写到终端
type ConsolePresenter struct {
	mu       sync.Mutex
	out      io.Writer
	strategy match.Strategy
}

// NewConsolePresenter 创建控制台展示端，out 为 nil 时写到标准输出
func NewConsolePresenter(out io.Writer, strategy match.Strategy) *ConsolePresenter {
	if out == nil {
		out = os.Stdout
	}
	return &ConsolePresenter{out: out, strategy: strategy}
}

// ShowMessage 显示提示
func (p *ConsolePresenter) ShowMessage(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "» %s\n", msg)
}

// ShowResults 显示排序后的结果
func (p *ConsolePresenter) ShowResults(results []match.Result) {
	p.mu.Lock()
	defer p.mu.Unlock()

	names := make([]string, 0, len(results))
	for i, r := range results {
		fmt.Fprintf(p.out, "%2d. %-32s %s\n", i+1, displayName(r), FormatScore(r.Score, p.strategy))
		if desc := strings.TrimSpace(r.Item.Desc); desc != "" {
			fmt.Fprintf(p.out, "    %s\n", desc)
		}
		names = append(names, displayName(r))
	}
	logger.Info("Matched items are %v", names)
}

// FormatScore 按策略格式化分数
func FormatScore(score float64, strategy match.Strategy) string {
	if strategy == match.StrategyFeature {
		return fmt.Sprintf("%d matches", int(score))
	}
	return fmt.Sprintf("%.1f%%", score*100)
}

func displayName(r match.Result) string {
	if r.Item.Name != "" {
		return r.Item.Name
	}
	return r.Item.Slug
}

// Multi 把消息与结果广播给多个展示端
type Multi []pipeline.Presenter

// ShowMessage 广播提示
func (m Multi) ShowMessage(msg string) {
	for _, p := range m {
		p.ShowMessage(msg)
	}
}

// ShowResults 广播结果
func (m Multi) ShowResults(results []match.Result) {
	for _, p := range m {
		p.ShowResults(results)
	}
}
