package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/breakline/breaker"
	"github.com/ByLCY/breakline/renderer"
	"github.com/ByLCY/breakline/sheet"
)

const (
	frameWidth    = 0.5
	viewWidth     = 0.35
	breakWidth    = 0.25
	segmentLength = 3.0  // 矩形断开线每个折线段的长度（mm）
	depthScale    = 0.25 // 断开深度到折线振幅（mm）的系数
)

var (
	frameColor   = canvas.Hex("#202020")
	removedColor = canvas.Hex("#e6e6e6")
	breakColor   = canvas.Hex("#c0392b")
	noFill       = color.RGBA{0, 0, 0, 0}
)

// Renderer 使用 github.com/tdewolff/canvas 绘制图纸预览，每张图纸一页。
type Renderer struct{}

var _ renderer.Renderer = (*Renderer)(nil)

// NewRenderer 创建渲染器。
func NewRenderer() *Renderer { return &Renderer{} }

// Render 将图纸渲染为 PDF 字节。
func (r *Renderer) Render(result *sheet.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Sheets) == 0 {
		return nil, fmt.Errorf("缺少可渲染的图纸")
	}

	var buf bytes.Buffer
	first := result.Sheets[0]
	writer := pdf.New(&buf, first.Width, first.Height, nil)
	writer.SetInfo(result.Meta.Title, result.Meta.Subject, result.Name, result.Meta.Author, result.Meta.Creator)
	for i, sh := range result.Sheets {
		if i > 0 {
			writer.NewPage(sh.Width, sh.Height)
		}
		c := canvas.New(sh.Width, sh.Height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianI) // 与图纸坐标一致，原点在左下角
		r.drawSheet(ctx, sh)
		c.RenderTo(writer)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawSheet(ctx *canvas.Context, sh *sheet.Sheet) {
	ctx.SetFillColor(noFill)
	ctx.SetStrokeColor(frameColor)
	ctx.SetStrokeWidth(frameWidth)
	ctx.DrawPath(sh.Border, sh.Border, canvas.Rectangle(sh.Width-2*sh.Border, sh.Height-2*sh.Border))

	for _, view := range sh.Boxes {
		breaks := sh.BreaksFor(view.Name)
		// 先画移除区域作为背景
		for _, b := range breaks {
			drawRemoved(ctx, view, b.Request)
		}
		ctx.SetFillColor(noFill)
		ctx.SetStrokeColor(colorFromSheet(view.Color))
		ctx.SetStrokeWidth(viewWidth)
		ctx.DrawPath(view.Center.X-view.Width/2, view.Center.Y-view.Height/2, canvas.Rectangle(view.Width, view.Height))
		for _, b := range breaks {
			drawBreakLines(ctx, view, b.Request)
		}
	}
}

func drawRemoved(ctx *canvas.Context, view *sheet.ViewBox, req breaker.BreakRequest) {
	ctx.SetFillColor(removedColor)
	ctx.SetStrokeColor(noFill)
	ctx.SetStrokeWidth(0)
	left, bottom := view.Center.X-view.Width/2, view.Center.Y-view.Height/2
	extent := req.Extent()
	if req.Orientation == breaker.Vertical {
		ctx.DrawPath(left, req.Start.Y, canvas.Rectangle(view.Width, extent))
		return
	}
	ctx.DrawPath(req.Start.X, bottom, canvas.Rectangle(extent, view.Height))
}

// drawBreakLines 在断开起止位置各画一条断开线。
// 请求中非变化轴固定为 0，线的另一端范围取视图自身的边界。
func drawBreakLines(ctx *canvas.Context, view *sheet.ViewBox, req breaker.BreakRequest) {
	ctx.SetFillColor(noFill)
	ctx.SetStrokeColor(breakColor)
	ctx.SetStrokeWidth(breakWidth)
	amplitude := float64(req.Depth) * depthScale

	left, bottom := view.Center.X-view.Width/2, view.Center.Y-view.Height/2
	if req.Orientation == breaker.Vertical {
		pts := breakPolyline(view.Width, amplitude, req.Style, req.Symbols)
		path := polylinePath(pts)
		ctx.DrawPath(left, req.Start.Y, path)
		ctx.DrawPath(left, req.End.Y, path)
		return
	}
	// 水平断开的断开线是竖线：沿 x 轴生成后旋转 90°
	pts := breakPolyline(view.Height, amplitude, req.Style, req.Symbols)
	path := polylinePath(pts).Transform(canvas.Identity.Rotate(90))
	ctx.DrawPath(req.Start.X, bottom, path)
	ctx.DrawPath(req.End.X, bottom, path)
}

// breakPolyline 生成沿 +x 方向、长度为 length 的断开线折点。
// 矩形样式为连续锯齿；结构样式为直线，等距插入 symbols 个 Z 形符号。
func breakPolyline(length, amplitude float64, style breaker.BreakStyle, symbols int) [][2]float64 {
	if length <= 0 {
		return nil
	}
	if style == breaker.Structural {
		return structuralPolyline(length, amplitude, symbols)
	}
	n := int(math.Max(2, math.Round(length/segmentLength)))
	step := length / float64(n)
	pts := make([][2]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		y := 0.0
		if i > 0 && i < n {
			y = amplitude
			if i%2 == 0 {
				y = -amplitude
			}
		}
		pts = append(pts, [2]float64{float64(i) * step, y})
	}
	return pts
}

func structuralPolyline(length, amplitude float64, symbols int) [][2]float64 {
	if symbols < 1 {
		symbols = 1
	}
	spacing := length / float64(symbols+1)
	half := math.Min(amplitude, spacing/4)
	pts := [][2]float64{{0, 0}}
	for i := 1; i <= symbols; i++ {
		x := float64(i) * spacing
		pts = append(pts,
			[2]float64{x - half, 0},
			[2]float64{x - half/2, amplitude},
			[2]float64{x + half/2, -amplitude},
			[2]float64{x + half, 0},
		)
	}
	return append(pts, [2]float64{length, 0})
}

func polylinePath(pts [][2]float64) *canvas.Path {
	p := &canvas.Path{}
	for i, pt := range pts {
		if i == 0 {
			p.MoveTo(pt[0], pt[1])
			continue
		}
		p.LineTo(pt[0], pt[1])
	}
	return p
}

func colorFromSheet(c sheet.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}
