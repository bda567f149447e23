package report

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/zoeyai/itemscope/internal/logger"
	"github.com/zoeyai/itemscope/pkg/auto/screen"
	"github.com/zoeyai/itemscope/pkg/match"
)

// SheetOptions 结果图样式
type SheetOptions struct {
	Width      int
	RowPad     int
	FontSize   float64
	// Background 背景色，Foreground 文字颜色
	Background color.Color
	Foreground color.Color
	Strategy   match.Strategy
}

// DefaultSheetOptions 默认样式，配色取自原覆盖层的深色主题
func DefaultSheetOptions() SheetOptions {
	return SheetOptions{
		Width:      520,
		RowPad:     8,
		FontSize:   14,
		Background: color.RGBA{0x1e, 0x1e, 0x1e, 0xff},
		Foreground: color.RGBA{0xee, 0xee, 0xee, 0xff},
	}
}

var (
	fontOnce sync.Once
	textFont *truetype.Font
	fontErr  error
)

// loadFont 解析内置的 Go Regular 字体
func loadFont() (*truetype.Font, error) {
	fontOnce.Do(func() {
		textFont, fontErr = freetype.ParseFont(goregular.TTF)
	})
	return textFont, fontErr
}

// 分数色带两端：低分红、高分绿，在 HCL 空间插值
var (
	weakColor   = colorful.Color{R: 0.85, G: 0.2, B: 0.2}
	strongColor = colorful.Color{R: 0.2, G: 0.8, B: 0.3}
)

// ScoreColor 按强度 [0,1] 返回色带上的颜色
func ScoreColor(strength float64) color.Color {
	strength = max(0, min(1, strength))
	return weakColor.BlendHcl(strongColor, strength).Clamped()
}

// strengths 把分数换算成 [0,1] 的强度
// 置信度本身就是强度，好匹配数按本次最大值归一
func strengths(results []match.Result, strategy match.Strategy) []float64 {
	out := make([]float64, len(results))
	if strategy != match.StrategyFeature {
		for i, r := range results {
			out[i] = r.Score
		}
		return out
	}
	top := 0.0
	for _, r := range results {
		top = max(top, r.Score)
	}
	for i, r := range results {
		if top > 0 {
			out[i] = r.Score / top
		}
	}
	return out
}

// RenderSheet 渲染结果图：每行为预览图、名称、分数条
func RenderSheet(results []match.Result, opts SheetOptions) (*image.RGBA, error) {
	f, err := loadFont()
	if err != nil {
		return nil, fmt.Errorf("加载字体失败: %w", err)
	}
	if opts.Width <= 0 {
		opts.Width = DefaultSheetOptions().Width
	}
	if opts.FontSize <= 0 {
		opts.FontSize = DefaultSheetOptions().FontSize
	}
	lineHeight := int(opts.FontSize * 1.5)

	heights := make([]int, len(results))
	total := opts.RowPad
	for i, r := range results {
		h := 2 * lineHeight
		if r.Item.Preview != nil {
			h = max(h, r.Item.Preview.Bounds().Dy())
		}
		if r.Item.SetPreview != nil {
			h = max(h, r.Item.SetPreview.Bounds().Dy())
		}
		heights[i] = h
		total += h + opts.RowPad
	}
	if len(results) == 0 {
		total += lineHeight
	}

	sheet := image.NewRGBA(image.Rect(0, 0, opts.Width, total))
	draw.Draw(sheet, sheet.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(f)
	ctx.SetFontSize(opts.FontSize)
	ctx.SetClip(sheet.Bounds())
	ctx.SetDst(sheet)
	ctx.SetSrc(image.NewUniform(opts.Foreground))
	ctx.SetHinting(font.HintingFull)

	drawText := func(x, y int, text string) error {
		pt := freetype.Pt(x, y+int(ctx.PointToFixed(opts.FontSize)>>6))
		_, err := ctx.DrawString(text, pt)
		return err
	}

	if len(results) == 0 {
		if err := drawText(opts.RowPad, opts.RowPad, "Nothing found !"); err != nil {
			return nil, fmt.Errorf("绘制文字失败: %w", err)
		}
		return sheet, nil
	}

	strength := strengths(results, opts.Strategy)
	y := opts.RowPad
	for i, r := range results {
		x := opts.RowPad
		if p := r.Item.Preview; p != nil {
			pb := p.Bounds()
			draw.Draw(sheet, image.Rect(x, y, x+pb.Dx(), y+pb.Dy()), p, pb.Min, draw.Over)
			x += pb.Dx() + opts.RowPad
		}
		if p := r.Item.SetPreview; p != nil {
			pb := p.Bounds()
			draw.Draw(sheet, image.Rect(x, y, x+pb.Dx(), y+pb.Dy()), p, pb.Min, draw.Over)
			x += pb.Dx() + opts.RowPad
		}

		if err := drawText(x, y, displayName(r)); err != nil {
			return nil, fmt.Errorf("绘制文字失败: %w", err)
		}
		if err := drawText(x, y+lineHeight, FormatScore(r.Score, opts.Strategy)); err != nil {
			return nil, fmt.Errorf("绘制文字失败: %w", err)
		}

		// 分数条
		barX := x + 110
		barW := opts.Width - barX - opts.RowPad
		if barW > 0 {
			filled := int(float64(barW) * strength[i])
			barY := y + lineHeight + lineHeight/4
			bar := image.Rect(barX, barY, barX+filled, barY+lineHeight/2)
			draw.Draw(sheet, bar, image.NewUniform(ScoreColor(strength[i])), image.Point{}, draw.Src)
		}

		y += heights[i] + opts.RowPad
	}
	return sheet, nil
}

// SheetPresenter 每次识别后把结果图写到文件
type SheetPresenter struct {
	path string
	opts SheetOptions
}

// NewSheetPresenter 创建结果图展示端
func NewSheetPresenter(path string, opts SheetOptions) *SheetPresenter {
	return &SheetPresenter{path: path, opts: opts}
}

// ShowMessage 结果图只记录结果，提示只写日志
func (p *SheetPresenter) ShowMessage(msg string) {
	logger.Debug("%s", msg)
}

// ShowResults 渲染并保存结果图
func (p *SheetPresenter) ShowResults(results []match.Result) {
	sheet, err := RenderSheet(results, p.opts)
	if err != nil {
		logger.Warn("渲染结果图失败: %v", err)
		return
	}
	if err := screen.SaveImage(p.path, sheet); err != nil {
		logger.Warn("保存结果图失败: %v", err)
		return
	}
	logger.Info("结果图已保存: %s", p.path)
}
