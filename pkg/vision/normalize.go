package vision

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"

	"github.com/zoeyai/itemscope/pkg/vision/cv"
)

// transparentPixel 背景像素被替换成的颜色
var transparentPixel = color.NRGBA{R: 255, G: 255, B: 255, A: 0}

// MakeTransparent 以左上角像素的 RGB 作为背景色
// 与之 RGB 完全相等的像素（忽略 alpha）变为全透明，其余像素变为全不透明。
// 不做任何容差处理，抗锯齿边缘会保留下来。
func MakeTransparent(img image.Image) *image.NRGBA {
	dst := imaging.Clone(img)
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	if w == 0 || h == 0 {
		return dst
	}

	bg := [3]uint8{dst.Pix[0], dst.Pix[1], dst.Pix[2]}
	for y := 0; y < h; y++ {
		row := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		for x := 0; x < w; x++ {
			p := row[x*4 : x*4+4]
			if p[0] == bg[0] && p[1] == bg[1] && p[2] == bg[2] {
				p[0], p[1], p[2], p[3] = transparentPixel.R, transparentPixel.G, transparentPixel.B, transparentPixel.A
			} else {
				p[3] = 255
			}
		}
	}
	return dst
}

// AlphaMask alpha > 0 的像素为 255，其余为 0
func AlphaMask(img image.Image) *image.Gray {
	src := imaging.Clone(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	mask := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if src.Pix[y*src.Stride+x*4+3] > 0 {
				mask.Pix[y*mask.Stride+x] = 255
			}
		}
	}
	return mask
}

// AlphaBounds 返回不透明像素的包围盒，全透明时返回空矩形
func AlphaBounds(img image.Image) image.Rectangle {
	src := imaging.Clone(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	minX, minY, maxX, maxY := w, h, -1, -1
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if src.Pix[y*src.Stride+x*4+3] == 0 {
				continue
			}
			minX = min(minX, x)
			minY = min(minY, y)
			maxX = max(maxX, x)
			maxY = max(maxY, y)
		}
	}
	if maxX < 0 {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// TrimToAlpha 裁剪到不透明像素的包围盒；全透明时原样返回
func TrimToAlpha(img image.Image) *image.NRGBA {
	bounds := AlphaBounds(img)
	if bounds.Empty() {
		return imaging.Clone(img)
	}
	return imaging.Crop(img, bounds.Add(img.Bounds().Min))
}

// Normalize 将图像转换为指定表示模式的 Mat（彩色为 RGB 顺序）
func Normalize(img image.Image, mode NormalizationMode) (gocv.Mat, error) {
	rgb, err := cv.ImageToRGBMat(img)
	if err != nil {
		return gocv.Mat{}, err
	}

	switch mode {
	case ModeRGB:
		return rgb, nil
	case ModeGray:
		defer rgb.Close()
		return cv.ToGray(rgb), nil
	case ModeEdge:
		defer rgb.Close()
		return cv.ToEdges(rgb), nil
	default:
		rgb.Close()
		return gocv.Mat{}, fmt.Errorf("不支持的图像表示模式: %s", mode)
	}
}

// MaskMat 由 alpha 通道生成 8UC1 掩码 Mat
func MaskMat(img image.Image) (gocv.Mat, error) {
	return cv.GrayToMat(AlphaMask(img))
}
