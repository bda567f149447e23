package cv

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"
)

// ImageToRGBMat 将 image.Image 转换为 RGB 顺序的 8UC3 Mat
// 透明度被忽略，调用方通过掩码处理透明像素
func ImageToRGBMat(img image.Image) (gocv.Mat, error) {
	if img == nil {
		return gocv.Mat{}, fmt.Errorf("图像为空")
	}
	src := imaging.Clone(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	if w == 0 || h == 0 {
		return gocv.Mat{}, fmt.Errorf("图像尺寸为 0")
	}

	data := make([]byte, 0, w*h*3)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for x := 0; x < w; x++ {
			data = append(data, row[x*4], row[x*4+1], row[x*4+2])
		}
	}
	return matFromBytes(h, w, gocv.MatTypeCV8UC3, data)
}

// GrayToMat 将单通道图像转换为 8UC1 Mat
func GrayToMat(img *image.Gray) (gocv.Mat, error) {
	if img == nil {
		return gocv.Mat{}, fmt.Errorf("图像为空")
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w == 0 || h == 0 {
		return gocv.Mat{}, fmt.Errorf("图像尺寸为 0")
	}

	data := make([]byte, 0, w*h)
	for y := 0; y < h; y++ {
		off := y * img.Stride
		data = append(data, img.Pix[off:off+w]...)
	}
	return matFromBytes(h, w, gocv.MatTypeCV8UC1, data)
}

// matFromBytes 构建 Mat 并复制底层数据，避免引用 Go 切片
func matFromBytes(rows, cols int, mt gocv.MatType, data []byte) (gocv.Mat, error) {
	mat, err := gocv.NewMatFromBytes(rows, cols, mt, data)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("图像转换失败: %w", err)
	}
	defer mat.Close()
	return mat.Clone(), nil
}

// ToGray 转换为灰度图（输入为 RGB 顺序）
func ToGray(src gocv.Mat) gocv.Mat {
	if src.Channels() == 1 {
		return src.Clone()
	}
	dst := gocv.NewMat()
	gocv.CvtColor(src, &dst, gocv.ColorRGBToGray)
	return dst
}

// ToEdges 先转灰度再做固定阈值的 Canny 边缘检测，输出二值边缘图
func ToEdges(src gocv.Mat) gocv.Mat {
	gray := ToGray(src)
	defer gray.Close()

	dst := gocv.NewMat()
	gocv.Canny(gray, &dst, CannyLowThreshold, CannyHighThreshold)
	return dst
}

// GetResolution 获取图像分辨率 (width, height)
func GetResolution(img gocv.Mat) (int, int) {
	return img.Cols(), img.Rows()
}

// ResizeNearest 最近邻缩放，不引入插值模糊
func ResizeNearest(img gocv.Mat, width, height int) gocv.Mat {
	dst := gocv.NewMat()
	gocv.Resize(img, &dst, image.Point{X: width, Y: height}, 0, 0, gocv.InterpolationNearestNeighbor)
	return dst
}

// CountNonZero 统计非零像素数量
func CountNonZero(img gocv.Mat) int {
	if img.Channels() != 1 {
		gray := ToGray(img)
		defer gray.Close()
		return gocv.CountNonZero(gray)
	}
	return gocv.CountNonZero(img)
}

// checkSourceLargerThanSearch 检查源图像是否不小于搜索图像
func checkSourceLargerThanSearch(source, search gocv.Mat) error {
	if source.Rows() < search.Rows() || source.Cols() < search.Cols() {
		return &ImageSizeError{
			SourceSize: [2]int{source.Cols(), source.Rows()},
			SearchSize: [2]int{search.Cols(), search.Rows()},
		}
	}
	return nil
}

// checkSameChannels 检查两幅图像通道数一致
func checkSameChannels(source, search gocv.Mat) error {
	if source.Channels() != search.Channels() {
		return &ImageTypeError{
			SourceChannels: source.Channels(),
			SearchChannels: search.Channels(),
		}
	}
	return nil
}
