package catalogue

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // 注册 GIF 解码器
	_ "image/jpeg" // 注册 JPEG 解码器
	_ "image/png"  // 注册 PNG 解码器
	"io/fs"
	"time"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"

	"github.com/zoeyai/itemscope/internal/logger"
	"github.com/zoeyai/itemscope/pkg/vision"
)

// Config 图鉴构建配置
type Config struct {
	// Mode 匹配策略需要的图像表示
	Mode vision.NormalizationMode
	// TrimToAlpha 是否先裁剪到不透明区域
	TrimToAlpha bool
	// SizeRatio 默认缩放比例（物品自带 ratio 时优先）
	SizeRatio float64
	// SmallSizeRatio 预览图相对 Shape 的缩放比例
	SmallSizeRatio float64
}

// Item 图鉴中的一个物品，构建后只读
type Item struct {
	Slug string
	Name string
	Desc string
	// Ratio 实际使用的缩放比例
	Ratio float64
	// Shape 缩放后的 (宽, 高)，Image 与 Mask 均为此尺寸
	Shape image.Point
	// Image 标准化后的物品图
	Image gocv.Mat
	// Mask 二值掩码，不透明处为 255
	Mask gocv.Mat
	// Source 透明化并缩放后的 NRGBA 图像
	Source *image.NRGBA
	// Preview 展示用的小图
	Preview image.Image
	// SetPreview 套装图（可能为空）
	SetPreview image.Image
}

// Close 释放 Mat 资源
func (it *Item) Close() {
	it.Image.Close()
	it.Mask.Close()
}

// String 返回字符串表示
func (it *Item) String() string {
	return fmt.Sprintf("Item(%s %dx%d)", it.Slug, it.Shape.X, it.Shape.Y)
}

// Index 图鉴索引
// 构建完成后只读，可在多个 goroutine 间共享
type Index struct {
	items  []*Item
	bySlug map[string]*Item
	mode   vision.NormalizationMode
}

// Build 按记录顺序构建图鉴，任一素材失败即中止
func Build(records []Record, source AssetSource, cfg Config) (*Index, error) {
	startTime := time.Now()

	if cfg.SizeRatio <= 0 {
		cfg.SizeRatio = 1
	}
	if cfg.SmallSizeRatio <= 0 {
		cfg.SmallSizeRatio = 0.5
	}

	idx := &Index{
		bySlug: make(map[string]*Item, len(records)),
		mode:   cfg.Mode,
	}
	for _, rec := range records {
		if _, dup := idx.bySlug[rec.Slug]; dup {
			idx.Close()
			return nil, fmt.Errorf("物品 slug 重复: %s", rec.Slug)
		}
		item, err := buildItem(rec, source, cfg)
		if err != nil {
			idx.Close()
			return nil, err
		}
		idx.items = append(idx.items, item)
		idx.bySlug[item.Slug] = item
		logger.Debug("物品已加载: %s", item)
	}

	logger.Info("%d images loaded (%.0fms)", len(idx.items), float64(time.Since(startTime).Milliseconds()))
	return idx, nil
}

// buildItem 构建单个物品
func buildItem(rec Record, source AssetSource, cfg Config) (*Item, error) {
	ref := ItemRef(rec.Slug)
	img, err := decodeAsset(source, ref)
	if err != nil {
		return nil, &AssetDecodeError{Slug: rec.Slug, Ref: ref, Err: err}
	}

	processed := vision.MakeTransparent(img)
	if cfg.TrimToAlpha {
		processed = vision.TrimToAlpha(processed)
	}

	ratio := cfg.SizeRatio
	if rec.Ratio != nil && *rec.Ratio > 0 {
		ratio = *rec.Ratio
	}
	b := processed.Bounds()
	w, h := vision.ScaledSize(b.Dx(), b.Dy(), ratio)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("物品 %s 缩放后尺寸无效: %dx%d", rec.Slug, w, h)
	}
	resized := imaging.Resize(processed, w, h, imaging.NearestNeighbor)

	normalized, err := vision.Normalize(resized, cfg.Mode)
	if err != nil {
		return nil, fmt.Errorf("物品 %s 标准化失败: %w", rec.Slug, err)
	}
	mask, err := vision.MaskMat(resized)
	if err != nil {
		normalized.Close()
		return nil, fmt.Errorf("物品 %s 生成掩码失败: %w", rec.Slug, err)
	}

	item := &Item{
		Slug:    rec.Slug,
		Name:    rec.Name,
		Desc:    rec.Desc,
		Ratio:   ratio,
		Shape:   image.Point{X: w, Y: h},
		Image:   normalized,
		Mask:    mask,
		Source:  resized,
		Preview: preview(resized, cfg.SmallSizeRatio),
	}

	if rec.Set != nil && rec.Set.Slug != "" {
		setImg, err := decodeAsset(source, ItemSetRefName(rec.Set.Slug))
		switch {
		case err == nil:
			item.SetPreview = imaging.Clone(setImg)
		case errors.Is(err, fs.ErrNotExist):
			logger.Debug("物品 %s 的套装图不存在: %s", rec.Slug, rec.Set.Slug)
		default:
			item.Close()
			return nil, &AssetDecodeError{Slug: rec.Slug, Ref: ItemSetRefName(rec.Set.Slug), Err: err}
		}
	}

	return item, nil
}

// decodeAsset 读取并解码素材
func decodeAsset(source AssetSource, ref string) (image.Image, error) {
	data, err := source.Open(ref)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("解码失败: %w", err)
	}
	return img, nil
}

// preview 生成展示用小图，尺寸至少 1x1
func preview(img *image.NRGBA, ratio float64) image.Image {
	b := img.Bounds()
	w, h := vision.ScaledSize(b.Dx(), b.Dy(), ratio)
	return transform.Resize(img, max(w, 1), max(h, 1), transform.CatmullRom)
}

// Items 按图鉴顺序返回全部物品
func (idx *Index) Items() []*Item {
	return idx.items
}

// Len 物品数量
func (idx *Index) Len() int {
	return len(idx.items)
}

// Get 按 slug 查找物品
func (idx *Index) Get(slug string) (*Item, bool) {
	it, ok := idx.bySlug[slug]
	return it, ok
}

// Mode 物品图使用的表示模式
func (idx *Index) Mode() vision.NormalizationMode {
	return idx.mode
}

// Close 释放所有物品资源
func (idx *Index) Close() {
	for _, it := range idx.items {
		it.Close()
	}
	idx.items = nil
	idx.bySlug = map[string]*Item{}
}
