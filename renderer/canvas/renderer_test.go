package canvasrenderer

import (
	"bytes"
	"context"
	"math"
	"testing"

	"github.com/ByLCY/breakline/breaker"
	"github.com/ByLCY/breakline/dsl"
	"github.com/ByLCY/breakline/settings"
	"github.com/ByLCY/breakline/sheet"
)

const previewSheet = `drawing Shaft v1 {
  meta { title: "Shaft" }
  sheet A3 {
    view Front {
      camera: front
      width: 300mm
      height: 40mm
      center: [210mm, 150mm]
    }
    view Side {
      camera: right
      width: 40mm
      height: 40mm
      center: [390mm, 150mm]
    }
  }
  sheet A4 portrait {
    view Column {
      camera: front
      width: 30mm
      height: 200mm
      center: [105mm, 148mm]
    }
  }
}`

func buildPreview(t *testing.T) *sheet.Result {
	t.Helper()
	doc, err := dsl.ParseString(previewSheet)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	res, err := sheet.Build(doc, nil)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return res
}

func TestRenderProducesPDF(t *testing.T) {
	res := buildPreview(t)
	cfg := settings.New()
	for i, sh := range res.Sheets {
		if i == 1 {
			cfg.SetStyle(settings.StyleStructural)
			cfg.SetSymbols(2)
		}
		req, err := breaker.AutoBreak(sh.Views(), cfg.Snapshot())
		if err != nil {
			t.Fatalf("sheet %d AutoBreak error: %v", i, err)
		}
		if _, err := sh.AddBreak(context.Background(), req); err != nil {
			t.Fatalf("sheet %d AddBreak error: %v", i, err)
		}
	}

	out, err := NewRenderer().Render(res)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output is not a PDF: %q", out[:min(len(out), 16)])
	}
}

func TestRenderRejectsEmptyResult(t *testing.T) {
	if _, err := NewRenderer().Render(nil); err == nil {
		t.Fatalf("expected error for nil result")
	}
	if _, err := NewRenderer().Render(&sheet.Result{}); err == nil {
		t.Fatalf("expected error for result without sheets")
	}
}

// TestRectangularPolyline 验证锯齿线首尾落在轴线上、振幅不超过设定值且覆盖全长。
func TestRectangularPolyline(t *testing.T) {
	pts := breakPolyline(40, 1.25, breaker.Rectangular, 1)
	if len(pts) < 3 {
		t.Fatalf("expected zig-zag points, got %d", len(pts))
	}
	first, last := pts[0], pts[len(pts)-1]
	if first != [2]float64{0, 0} || math.Abs(last[0]-40) > 1e-9 || last[1] != 0 {
		t.Fatalf("端点错误: first=%v last=%v", first, last)
	}
	for i, p := range pts {
		if math.Abs(p[1]) > 1.25+1e-9 {
			t.Fatalf("point %d exceeds amplitude: %v", i, p)
		}
		if i > 0 && p[0] <= pts[i-1][0] {
			t.Fatalf("points must advance along x: %v", pts)
		}
	}
}

// TestStructuralPolylineSymbols 每个 Z 形符号贡献 4 个折点，符号数 <1 时按 1 处理。
func TestStructuralPolylineSymbols(t *testing.T) {
	for _, symbols := range []int{1, 2, 3} {
		pts := breakPolyline(60, 1.25, breaker.Structural, symbols)
		if want := 2 + 4*symbols; len(pts) != want {
			t.Fatalf("symbols=%d: got %d points want %d", symbols, len(pts), want)
		}
	}
	if pts := breakPolyline(60, 1.25, breaker.Structural, 0); len(pts) != 6 {
		t.Fatalf("symbols=0 应按 1 个符号绘制, got %d points", len(pts))
	}
	if pts := breakPolyline(0, 1, breaker.Rectangular, 1); pts != nil {
		t.Fatalf("zero length should yield no points")
	}
}
