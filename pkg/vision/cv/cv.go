// Package cv 封装 gocv 的图像匹配原语
//
// 本包中的彩色 Mat 一律为 RGB 通道顺序（而非 OpenCV 默认的 BGR），
// 由 ImageToRGBMat 构建，灰度与边缘图均由其派生。
//
// 支持以下匹配方法:
//   - 带掩码的归一化平方差模板匹配 (TM_SQDIFF_NORMED)
//   - SIFT 特征点匹配（比率测试计数）
//
// 基本用法:
//
//	m := cv.NewTemplateMatching(itemMat, screenMat, maskMat)
//	confidence, err := m.Confidence()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("置信度: %.3f\n", confidence)
package cv
