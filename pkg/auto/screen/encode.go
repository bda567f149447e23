package screen

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Encode 按格式编码图像
// format: "png"（默认）或 "jpeg"；quality 为 JPEG 质量 1-100，默认 80
func Encode(w io.Writer, img image.Image, format string, quality int) error {
	if img == nil {
		return fmt.Errorf("图像为空")
	}
	if quality <= 0 || quality > 100 {
		quality = 80
	}

	switch strings.ToLower(format) {
	case "", "png":
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("PNG 编码失败: %w", err)
		}
	case "jpeg", "jpg":
		if err := jpeg.Encode(w, img, &jpeg.Options{Quality: quality}); err != nil {
			return fmt.Errorf("JPEG 编码失败: %w", err)
		}
	default:
		return fmt.Errorf("不支持的图像格式: %s", format)
	}
	return nil
}

// SaveImage 保存图像，格式由扩展名决定
func SaveImage(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("创建目录失败: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建文件失败: %w", err)
	}
	defer f.Close()

	format := strings.TrimPrefix(filepath.Ext(path), ".")
	return Encode(f, img, format, 90)
}

// SaveCapture 把截图保存到目录，文件名带时间戳
func SaveCapture(dir string, img image.Image) (string, error) {
	name := fmt.Sprintf("capture-%s.png", time.Now().Format("20060102-150405.000"))
	path := filepath.Join(dir, name)
	if err := SaveImage(path, img); err != nil {
		return "", err
	}
	return path, nil
}
