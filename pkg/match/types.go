// Package match 在图鉴上对截图做排序匹配
//
// 两种可互换的策略共用同一份标准化截图：
//   - 模板策略：带掩码的归一化平方差相关，分数为置信度 [0,1]，降序
//   - 特征策略：SIFT 描述子 + 比率测试，分数为好匹配数，升序
//
// 只要图鉴非空且截图有效，两种策略都保证返回至少一个结果。
package match

import (
	"fmt"

	"github.com/zoeyai/itemscope/pkg/catalogue"
	"github.com/zoeyai/itemscope/pkg/vision"
)

// Strategy 匹配策略
type Strategy int

const (
	// StrategyTemplate 模板相关匹配
	StrategyTemplate Strategy = iota
	// StrategyFeature 特征点匹配
	StrategyFeature
)

// MinGoodMatches 特征策略的接受线
const MinGoodMatches = 8

// String 返回字符串表示
func (s Strategy) String() string {
	switch s {
	case StrategyTemplate:
		return "template"
	case StrategyFeature:
		return "feature"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// Config 匹配引擎配置
type Config struct {
	Strategy Strategy
	// Mode 截图需要标准化成的表示，必须与图鉴一致
	Mode vision.NormalizationMode
	// Threshold 模板策略的最低置信度（严格大于）
	Threshold float64
	// MaxResults 结果上限，0 表示不限
	MaxResults int
}

// Result 一条匹配结果
// 模板策略下 Score 为置信度，特征策略下为好匹配数
type Result struct {
	Item  *catalogue.Item
	Score float64
}

// String 返回字符串表示
func (r Result) String() string {
	return fmt.Sprintf("%s (%d,%d) : %g", r.Item.Slug, r.Item.Shape.X, r.Item.Shape.Y, r.Score)
}

// ComparisonError 单个物品比较失败
// 不会中止整批匹配，该物品按最低分处理
type ComparisonError struct {
	Slug string
	Err  error
}

func (e *ComparisonError) Error() string {
	return fmt.Sprintf("物品 %s 比较失败: %v", e.Slug, e.Err)
}

func (e *ComparisonError) Unwrap() error {
	return e.Err
}
