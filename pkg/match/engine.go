package match

import (
	"fmt"
	"image"
	"time"

	"gocv.io/x/gocv"

	"github.com/zoeyai/itemscope/internal/logger"
	"github.com/zoeyai/itemscope/pkg/catalogue"
	"github.com/zoeyai/itemscope/pkg/vision"
	"github.com/zoeyai/itemscope/pkg/vision/cv"
)

// Engine 匹配引擎
// 同一时刻只允许一次 Match 调用，特征检测器不可并发使用
type Engine struct {
	cfg   Config
	index *catalogue.Index

	detector cv.KeypointDetector
	matcher  *cv.KeypointMatching
	// features 与 index.Items() 一一对应，仅特征策略使用
	features []*cv.Features
}

// NewEngine 创建匹配引擎
// 特征策略会在这里预先计算全部物品的特征点
func NewEngine(cfg Config, index *catalogue.Index) (*Engine, error) {
	if index == nil {
		return nil, fmt.Errorf("图鉴为空")
	}
	if cfg.Mode == "" {
		cfg.Mode = index.Mode()
	}
	if cfg.Mode != index.Mode() {
		return nil, fmt.Errorf("表示模式不一致: 引擎 %s, 图鉴 %s", cfg.Mode, index.Mode())
	}

	e := &Engine{cfg: cfg, index: index}
	switch cfg.Strategy {
	case StrategyTemplate:
	case StrategyFeature:
		if err := e.prepareFeatures(); err != nil {
			e.Close()
			return nil, err
		}
	default:
		return nil, fmt.Errorf("不支持的匹配策略: %s", cfg.Strategy)
	}

	logger.Debug("匹配引擎就绪: 策略=%s 模式=%s 物品=%d", cfg.Strategy, cfg.Mode, index.Len())
	return e, nil
}

func (e *Engine) prepareFeatures() error {
	startTime := time.Now()
	e.detector = cv.NewSIFTDetector()
	e.matcher = cv.NewKeypointMatching(cv.DefaultRatio)

	e.features = make([]*cv.Features, 0, e.index.Len())
	for _, item := range e.index.Items() {
		feats, err := cv.DetectFeatures(e.detector, item.Image, item.Mask)
		if err != nil {
			return fmt.Errorf("物品 %s 特征检测失败: %w", item.Slug, err)
		}
		e.features = append(e.features, feats)
	}
	logger.Info("物品特征已计算 (%.0fms)", float64(time.Since(startTime).Milliseconds()))
	return nil
}

// Config 返回引擎配置
func (e *Engine) Config() Config {
	return e.cfg
}

// Mode 截图应标准化成的表示
func (e *Engine) Mode() vision.NormalizationMode {
	return e.cfg.Mode
}

// Match 对已标准化的截图运行当前策略，返回排序后的结果
func (e *Engine) Match(query gocv.Mat) ([]Result, error) {
	if query.Empty() {
		return nil, fmt.Errorf("截图为空")
	}

	switch e.cfg.Strategy {
	case StrategyFeature:
		scored, err := e.scoreFeatures(query)
		if err != nil {
			return nil, err
		}
		return limit(rankFeature(scored), e.cfg.MaxResults, true), nil
	default:
		scored := e.scoreTemplates(query)
		return limit(rankTemplate(scored, e.cfg.Threshold), e.cfg.MaxResults, false), nil
	}
}

// MatchImage 标准化截图后匹配
func (e *Engine) MatchImage(img image.Image) ([]Result, error) {
	query, err := vision.Normalize(img, e.cfg.Mode)
	if err != nil {
		return nil, fmt.Errorf("截图标准化失败: %w", err)
	}
	defer query.Close()
	return e.Match(query)
}

// scoreTemplates 逐个物品做模板相关，失败的物品记 0 分
func (e *Engine) scoreTemplates(query gocv.Mat) []Result {
	items := e.index.Items()
	scored := make([]Result, 0, len(items))
	for _, item := range items {
		score := 0.0
		res, err := cv.NewTemplateMatching(item.Image, query, item.Mask).FindBestResult()
		if err != nil {
			logger.Warn("%v", &ComparisonError{Slug: item.Slug, Err: err})
		} else {
			score = res.Confidence
		}
		r := Result{Item: item, Score: score}
		logger.Info("%s", r)
		scored = append(scored, r)
	}
	return scored
}

// scoreFeatures 统计每个物品与截图的好匹配数
func (e *Engine) scoreFeatures(query gocv.Mat) ([]Result, error) {
	noMask := gocv.NewMat()
	defer noMask.Close()

	frame, err := cv.DetectFeatures(e.detector, query, noMask)
	if err != nil {
		return nil, fmt.Errorf("截图特征检测失败: %w", err)
	}
	defer frame.Close()

	items := e.index.Items()
	scored := make([]Result, 0, len(items))
	for i, item := range items {
		good := 0
		if e.features[i].Empty() {
			logger.Debug("%v", &ComparisonError{Slug: item.Slug, Err: fmt.Errorf("没有特征点")})
		} else {
			good = e.matcher.CountGoodMatches(e.features[i], frame)
		}
		r := Result{Item: item, Score: float64(good)}
		logger.Info("%s", r)
		scored = append(scored, r)
	}
	return scored, nil
}

// Close 释放特征资源，不关闭图鉴
func (e *Engine) Close() {
	for _, f := range e.features {
		f.Close()
	}
	e.features = nil
	if e.detector != nil {
		e.detector.Close()
		e.detector = nil
	}
}
