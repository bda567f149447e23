package cv

import (
	"fmt"
	"sort"

	"gocv.io/x/gocv"
)

// KeypointDetector 特征点检测器接口
type KeypointDetector interface {
	// Detect 在掩码范围内检测特征点并计算描述子
	Detect(img, mask gocv.Mat) ([]gocv.KeyPoint, gocv.Mat)
	// Close 释放资源
	Close()
}

// Features 一幅图像的特征点与描述子
type Features struct {
	Keypoints   []gocv.KeyPoint
	Descriptors gocv.Mat
}

// Empty 是否没有可用描述子
func (f *Features) Empty() bool {
	return f == nil || len(f.Keypoints) == 0 || f.Descriptors.Empty()
}

// Close 释放描述子
func (f *Features) Close() {
	if f != nil {
		f.Descriptors.Close()
	}
}

// SIFTDetector SIFT 特征点检测器
type SIFTDetector struct {
	sift gocv.SIFT
}

// NewSIFTDetector 创建 SIFT 检测器
func NewSIFTDetector() *SIFTDetector {
	return &SIFTDetector{sift: gocv.NewSIFT()}
}

// Detect 检测特征点
func (s *SIFTDetector) Detect(img, mask gocv.Mat) ([]gocv.KeyPoint, gocv.Mat) {
	return s.sift.DetectAndCompute(img, mask)
}

// Close 释放资源
func (s *SIFTDetector) Close() {
	s.sift.Close()
}

// DetectFeatures 检测特征，mask 为空 Mat 时检测整幅图像
func DetectFeatures(detector KeypointDetector, img, mask gocv.Mat) (*Features, error) {
	if img.Empty() {
		return nil, fmt.Errorf("图像为空")
	}
	kp, desc := detector.Detect(img, mask)
	return &Features{Keypoints: kp, Descriptors: desc}, nil
}

// KeypointMatching 基于比率测试的特征点匹配器
type KeypointMatching struct {
	ratio    float64
	normType gocv.NormType
}

// NewKeypointMatching 创建特征点匹配器，ratio <= 0 时使用 0.75
func NewKeypointMatching(ratio float64) *KeypointMatching {
	if ratio <= 0 {
		ratio = DefaultRatio
	}
	return &KeypointMatching{ratio: ratio, normType: gocv.NormL2}
}

// CountGoodMatches 统计通过比率测试的匹配数
// 对 search 的每个描述子取 source 中最近的两个，最近距离 < ratio × 次近距离时计为一个好匹配
func (k *KeypointMatching) CountGoodMatches(search, source *Features) int {
	return len(k.GoodMatches(search, source))
}

// GoodMatches 返回通过比率测试的匹配，按距离升序
func (k *KeypointMatching) GoodMatches(search, source *Features) []gocv.DMatch {
	if search.Empty() || source.Empty() {
		return nil
	}
	if source.Descriptors.Rows() < 2 {
		return nil
	}

	matcher := gocv.NewBFMatcherWithParams(k.normType, false)
	defer matcher.Close()

	matches := matcher.KnnMatch(search.Descriptors, source.Descriptors, 2)
	return filterGoodMatches(matches, k.ratio)
}

// filterGoodMatches 筛选好的匹配点
func filterGoodMatches(matches [][]gocv.DMatch, ratio float64) []gocv.DMatch {
	var good []gocv.DMatch
	for _, m := range matches {
		if len(m) >= 2 && float64(m[0].Distance) < ratio*float64(m[1].Distance) {
			good = append(good, m[0])
		}
	}

	// 按距离排序
	sort.SliceStable(good, func(i, j int) bool {
		return good[i].Distance < good[j].Distance
	})

	return good
}
