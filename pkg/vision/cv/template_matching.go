package cv

import (
	"fmt"
	"image"
	"math"
	"time"

	"gocv.io/x/gocv"
)

// MatchResult 单次模板匹配结果
type MatchResult struct {
	// Rect 最佳匹配区域（源图像坐标）
	Rect image.Rectangle `json:"rect"`
	// Confidence 匹配置信度 (0-1)
	Confidence float64 `json:"confidence"`
	// Time 匹配耗时（毫秒）
	Time float64 `json:"time,omitempty"`
}

// TemplateMatching 带掩码的归一化平方差模板匹配器
type TemplateMatching struct {
	imSearch gocv.Mat
	imSource gocv.Mat
	mask     gocv.Mat
}

// NewTemplateMatching 创建模板匹配器
// search 为物品图，source 为截图，mask 与 search 同尺寸（可为空 Mat）
func NewTemplateMatching(search, source, mask gocv.Mat) *TemplateMatching {
	return &TemplateMatching{
		imSearch: search,
		imSource: source,
		mask:     mask,
	}
}

// FindBestResult 查找残差最小的位置，置信度 = 1 - minVal
func (t *TemplateMatching) FindBestResult() (*MatchResult, error) {
	startTime := time.Now()

	if t.imSearch.Empty() || t.imSource.Empty() {
		return nil, fmt.Errorf("图像为空")
	}
	if err := checkSourceLargerThanSearch(t.imSource, t.imSearch); err != nil {
		return nil, err
	}
	if err := checkSameChannels(t.imSource, t.imSearch); err != nil {
		return nil, err
	}
	if !t.mask.Empty() && (t.mask.Rows() != t.imSearch.Rows() || t.mask.Cols() != t.imSearch.Cols()) {
		return nil, fmt.Errorf("掩码尺寸 %dx%d 与模板 %dx%d 不一致",
			t.mask.Cols(), t.mask.Rows(), t.imSearch.Cols(), t.imSearch.Rows())
	}

	result := gocv.NewMat()
	defer result.Close()
	gocv.MatchTemplate(t.imSource, t.imSearch, &result, gocv.TmSqdiffNormed, t.mask)
	if result.Empty() {
		return nil, fmt.Errorf("模板匹配结果为空")
	}

	// 平方差：残差越小越好
	minVal, _, minLoc, _ := gocv.MinMaxLoc(result)

	w, h := t.imSearch.Cols(), t.imSearch.Rows()
	return &MatchResult{
		Rect:       image.Rect(minLoc.X, minLoc.Y, minLoc.X+w, minLoc.Y+h),
		Confidence: residualToConfidence(float64(minVal)),
		Time:       float64(time.Since(startTime).Milliseconds()),
	}, nil
}

// residualToConfidence 归一化残差转置信度，并限制在 [0,1]
func residualToConfidence(minVal float64) float64 {
	if math.IsNaN(minVal) || math.IsInf(minVal, 0) {
		return 0
	}
	confidence := 1 - minVal
	if confidence < 0 {
		return 0
	}
	if confidence > 1 {
		return 1
	}
	return confidence
}
