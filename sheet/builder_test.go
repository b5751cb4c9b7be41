package sheet

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ByLCY/breakline/autobreak"
	"github.com/ByLCY/breakline/breaker"
	"github.com/ByLCY/breakline/dsl"
	"github.com/ByLCY/breakline/settings"
)

const bracketSheet = `drawing Bracket v1 {
  meta {
    title: "Bracket ${part.number}"
  }
  settings {
    style: structural
    gap: 0.8; symbols: 2; range: 60%
  }
  sheet A3 {
    name: "Sheet:Main"
    view Front {
      camera: front
      width: "${part.length:120}mm"
      height: 4cm
      center: [150mm, 120mm]
      color: #336699
    }
    view Iso {
      camera: iso-top-right
      width: 300mm
      height: 200mm
      center: [300, 200]
    }
  }
  sheet A4 portrait active {
    view Top {
      camera: top
      width: 20mm
      height: 90mm
      center: [-10mm, 50mm]
      breaks: 1
    }
  }
}`

func build(t *testing.T, text string, data any) *Result {
	t.Helper()
	doc, err := dsl.ParseString(text)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	res, err := Build(doc, data)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return res
}

func TestBuildSheets(t *testing.T) {
	var data any
	_ = json.Unmarshal([]byte(`{"part":{"number":"BR-7","length":180}}`), &data)
	res := build(t, bracketSheet, data)

	if res.Meta.Title != "Bracket BR-7" {
		t.Fatalf("标题替换失败: %q", res.Meta.Title)
	}
	if len(res.Sheets) != 2 || res.Active != 1 {
		t.Fatalf("期望 2 张图纸且第二张激活, got %d active=%d", len(res.Sheets), res.Active)
	}

	main := res.Sheets[0]
	if main.Name != "Sheet:Main" || !eq(main.Width, 420) || !eq(main.Height, 297) {
		t.Fatalf("A3 默认应为横向: %+v", main)
	}
	if len(main.Boxes) != 2 {
		t.Fatalf("期望 2 个视图, got %d", len(main.Boxes))
	}
	front := main.Boxes[0]
	if !eq(front.Width, 180) || !eq(front.Height, 40) {
		t.Fatalf("front 尺寸错误: %gx%g", front.Width, front.Height)
	}
	if front.Raw.Height.Unit != UnitCM || front.Raw.Height.Value != 4 {
		t.Fatalf("应保留原始单位: %+v", front.Raw.Height)
	}
	if front.Color != (Color{R: 0x33, G: 0x66, B: 0x99}) {
		t.Fatalf("颜色解析错误: %+v", front.Color)
	}
	if main.Boxes[1].Camera != breaker.CameraIsoTopRight {
		t.Fatalf("相机方向解析错误: %s", main.Boxes[1].Camera)
	}

	second := res.Sheets[1]
	if !eq(second.Width, 210) || !eq(second.Height, 297) {
		t.Fatalf("portrait 尺寸错误: %gx%g", second.Width, second.Height)
	}
	top := second.Boxes[0]
	if !eq(top.Center.X, -10) || top.BreakCount != 1 {
		t.Fatalf("top 视图解析错误: %+v", top)
	}
}

func TestBuildOverrides(t *testing.T) {
	res := build(t, bracketSheet, nil)
	o := res.Overrides
	if o.Empty() || o.Style == nil || *o.Style != 1 || *o.Gap != 0.8 || *o.Symbols != 2 || *o.Range != 60 {
		t.Fatalf("settings 覆盖项解析错误: %+v", o)
	}
	cfg := settings.New()
	o.ApplyTo(cfg)
	if got := cfg.Snapshot(); got != (settings.Values{Style: 1, Gap: 0.8, Symbols: 2, Range: 60}) {
		t.Fatalf("覆盖项未写入配置: %+v", got)
	}

	// 无数据时使用占位符默认值
	if !eq(res.Sheets[0].Boxes[0].Width, 120) {
		t.Fatalf("默认宽度未生效: %g", res.Sheets[0].Boxes[0].Width)
	}
}

func TestBuildErrors(t *testing.T) {
	cases := map[string]string{
		"unknown size":   `drawing X { sheet B9 { } }`,
		"no sheet":       `drawing X { meta { title: "x" } }`,
		"bad camera":     "drawing X { sheet A4 { view V {\n camera: sideways\n width: 1\n height: 1\n } } }",
		"bad width":      "drawing X { sheet A4 { view V {\n width: \"wide\"\n } } }",
		"duplicate view": "drawing X { sheet A4 {\n view V { width: 1; height: 1 }\n view V { width: 2; height: 2 }\n } }",
		"bad setting":    "drawing X { settings { depth: 3 }\n sheet A4 { } }",
	}
	for name, text := range cases {
		doc, err := dsl.ParseString(text)
		if err != nil {
			t.Fatalf("%s: parse failed: %v", name, err)
		}
		if _, err := Build(doc, nil); err == nil {
			t.Fatalf("%s: expected build error", name)
		}
	}
}

func TestHostAppliesBreak(t *testing.T) {
	res := build(t, `drawing X {
  sheet A3 {
    view Front {
      camera: front
      width: 100mm
      height: 50mm
      center: [10mm, 5mm]
    }
  }
}`, nil)
	host := NewHost(res)
	sheet, err := host.ActiveSheet(context.Background())
	if err != nil {
		t.Fatalf("ActiveSheet error: %v", err)
	}
	req, err := breaker.AutoBreak(sheet.Views(), defaultValues())
	if err != nil {
		t.Fatalf("AutoBreak error: %v", err)
	}
	id, err := sheet.AddBreak(context.Background(), req)
	if err != nil || id == "" {
		t.Fatalf("AddBreak failed: id=%q err=%v", id, err)
	}

	sh := res.Sheets[0]
	if sh.Boxes[0].BreakCount != 1 {
		t.Fatalf("断开次数未递增")
	}
	breaks := sh.BreaksFor("Front")
	if len(breaks) != 1 || !eq(breaks[0].Before, 100) || !eq(breaks[0].After, 100-90+0.6) {
		t.Fatalf("断开记录错误: %+v", breaks)
	}
	if _, err := breaker.AutoBreak(sheet.Views(), defaultValues()); breaker.Reason(err) != breaker.ReasonAlreadyBroken {
		t.Fatalf("再次断开应被拒绝, got %v", err)
	}
	if _, err := sheet.AddBreak(context.Background(), breaker.BreakRequest{View: "Missing"}); err == nil {
		t.Fatalf("未知视图应返回错误")
	}
}

func TestHostWithoutSheets(t *testing.T) {
	_, err := NewHost(&Result{}).ActiveSheet(context.Background())
	if err == nil || !strings.Contains(err.Error(), autobreak.ErrNoActiveDrawing.Error()) {
		t.Fatalf("expected ErrNoActiveDrawing, got %v", err)
	}
}

func TestWriteDebugJSON(t *testing.T) {
	res := build(t, bracketSheet, nil)
	path := filepath.Join(t.TempDir(), "out", "debug.json")
	if err := WriteDebugJSON(res, path); err != nil {
		t.Fatalf("WriteDebugJSON error: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read debug json: %v", err)
	}
	for _, want := range []string{`"camera": "iso-top-right"`, `"views"`, `"unit": "cm"`} {
		if !strings.Contains(string(raw), want) {
			t.Fatalf("debug json 缺少 %s", want)
		}
	}
}

func defaultValues() settings.Values { return settings.New().Snapshot() }

func eq(a, b float64) bool {
	d := a - b
	return d < 1e-6 && d > -1e-6
}
