package sheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/breakline/binding"
	"github.com/ByLCY/breakline/breaker"
	"github.com/ByLCY/breakline/dsl"
)

const defaultBorder = 10.0

var sheetPresets = map[string][2]float64{
	"A0": {841, 1189},
	"A1": {594, 841},
	"A2": {420, 594},
	"A3": {297, 420},
	"A4": {210, 297},
}

var defaultViewColor = Color{R: 30, G: 30, B: 30}

// Build 根据描述文件生成图纸模型；data 为可选的 JSON 数据，用于替换 ${...} 占位符。
func Build(doc *dsl.Drawing, data any) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("图纸描述为空")
	}
	res := &Result{
		Name:     doc.Name,
		Revision: doc.Revision,
		Meta:     DocumentMeta{Creator: "breakline"},
	}

	for _, section := range doc.Sections {
		switch {
		case section.Meta != nil:
			collectMeta(section.Meta.Block, data, &res.Meta)
		case section.Settings != nil:
			if err := collectOverrides(section.Settings.Block, data, &res.Overrides); err != nil {
				return nil, err
			}
		case section.Sheet != nil:
			sh, active, err := buildSheet(section.Sheet, len(res.Sheets)+1, data)
			if err != nil {
				return nil, err
			}
			if active {
				res.Active = len(res.Sheets)
			}
			res.Sheets = append(res.Sheets, sh)
		}
	}
	if len(res.Sheets) == 0 {
		return nil, fmt.Errorf("图纸描述中缺少 sheet 段落")
	}
	return res, nil
}

func buildSheet(section *dsl.SheetSection, index int, data any) (*Sheet, bool, error) {
	width, height, active, err := resolveSheetSize(section.Spec)
	if err != nil {
		return nil, false, err
	}
	sh := &Sheet{
		Name:   fmt.Sprintf("Sheet:%d", index),
		Size:   strings.ToUpper(section.Spec.Size),
		Width:  width,
		Height: height,
		Border: defaultBorder,
	}
	if section.Block == nil {
		return sh, active, nil
	}

	seen := map[string]bool{}
	for _, stmt := range section.Block.Statements {
		if stmt.Assignment != nil {
			if strings.ToLower(stmt.Assignment.Key) == "name" {
				sh.Name = valueToString(stmt.Assignment.Value, data)
			}
			continue
		}
		cmd := stmt.Command
		if cmd == nil || cmd.Name != "view" {
			continue
		}
		view, err := parseView(cmd, data)
		if err != nil {
			return nil, false, err
		}
		if seen[view.Name] {
			return nil, false, fmt.Errorf("%s: 视图名称 %s 重复", cmd.Pos, view.Name)
		}
		seen[view.Name] = true
		sh.Boxes = append(sh.Boxes, view)
	}
	return sh, active, nil
}

func resolveSheetSize(spec dsl.SheetSpec) (float64, float64, bool, error) {
	base, ok := sheetPresets[strings.ToUpper(spec.Size)]
	if !ok {
		return 0, 0, false, fmt.Errorf("暂不支持的图纸尺寸：%s", spec.Size)
	}
	// 预设为纵向尺寸，工程图默认横向。
	width, height := base[1], base[0]
	active := false
	for _, token := range spec.Params {
		switch strings.ToLower(token.Value) {
		case "portrait":
			width, height = base[0], base[1]
		case "landscape":
			width, height = base[1], base[0]
		case "active":
			active = true
		}
	}
	return width, height, active, nil
}

func parseView(cmd *dsl.Command, data any) (*ViewBox, error) {
	if len(cmd.Args) == 0 {
		return nil, fmt.Errorf("%s: view 缺少名称", cmd.Pos)
	}
	view := &ViewBox{
		Name:   binding.Interpolate(cmd.Args[0].Value, data),
		Camera: breaker.CameraFront,
		Color:  defaultViewColor,
		Raw:    &RawUnits{},
	}
	if cmd.Block == nil {
		return nil, fmt.Errorf("%s: view %s 缺少尺寸定义", cmd.Pos, view.Name)
	}

	for _, stmt := range cmd.Block.Statements {
		as := stmt.Assignment
		if as == nil {
			continue
		}
		key := strings.ToLower(as.Key)
		switch key {
		case "camera":
			name := valueToString(as.Value, data)
			view.Camera = breaker.ParseCameraOrientation(name)
			if view.Camera == breaker.CameraUnknown {
				return nil, fmt.Errorf("%s: view %s 的相机方向 %q 无法识别", cmd.Pos, view.Name, name)
			}
		case "width", "height":
			l, err := ParseLength(valueToString(as.Value, data))
			if err != nil {
				return nil, fmt.Errorf("%s: view %s 的 %s: %w", cmd.Pos, view.Name, key, err)
			}
			if key == "width" {
				view.Width, view.Raw.Width = l.ToMM(), l
			} else {
				view.Height, view.Raw.Height = l.ToMM(), l
			}
		case "center":
			pt, err := parsePoint(as.Value, data)
			if err != nil {
				return nil, fmt.Errorf("%s: view %s 的 center: %w", cmd.Pos, view.Name, err)
			}
			view.Center = pt
		case "breaks":
			n, err := strconv.Atoi(valueToString(as.Value, data))
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%s: view %s 的 breaks 必须为非负整数", cmd.Pos, view.Name)
			}
			view.BreakCount = n
		case "color":
			c, err := parseColor(valueToString(as.Value, data))
			if err != nil {
				return nil, fmt.Errorf("%s: view %s: %w", cmd.Pos, view.Name, err)
			}
			view.Color = c
		}
	}
	if view.Width < 0 || view.Height < 0 {
		return nil, fmt.Errorf("%s: view %s 的尺寸不能为负", cmd.Pos, view.Name)
	}
	return view, nil
}

func parsePoint(val *dsl.Value, data any) (breaker.Point, error) {
	if val == nil || val.Array == nil || len(val.Array.Values) != 2 {
		return breaker.Point{}, fmt.Errorf("需要形如 [x, y] 的坐标")
	}
	x, err := ParseLength(valueToString(val.Array.Values[0], data))
	if err != nil {
		return breaker.Point{}, err
	}
	y, err := ParseLength(valueToString(val.Array.Values[1], data))
	if err != nil {
		return breaker.Point{}, err
	}
	return breaker.Point{X: x.ToMM(), Y: y.ToMM()}, nil
}

func collectMeta(block *dsl.Block, data any, meta *DocumentMeta) {
	if block == nil {
		return
	}
	for _, stmt := range block.Statements {
		if stmt.Assignment == nil {
			continue
		}
		val := valueToString(stmt.Assignment.Value, data)
		switch strings.ToLower(stmt.Assignment.Key) {
		case "title":
			meta.Title = val
		case "author":
			meta.Author = val
		case "subject":
			meta.Subject = val
		case "creator":
			meta.Creator = val
		}
	}
}

func collectOverrides(block *dsl.Block, data any, o *Overrides) error {
	if block == nil {
		return nil
	}
	for _, stmt := range block.Statements {
		if stmt.Assignment == nil {
			continue
		}
		key := strings.ToLower(stmt.Assignment.Key)
		raw := valueToString(stmt.Assignment.Value, data)
		switch key {
		case "style":
			style, err := parseStyle(raw)
			if err != nil {
				return err
			}
			o.Style = &style
		case "gap", "range":
			f, err := strconv.ParseFloat(strings.TrimSuffix(raw, "%"), 64)
			if err != nil {
				return fmt.Errorf("settings.%s 不是有效数字: %q", key, raw)
			}
			if key == "gap" {
				o.Gap = &f
			} else {
				o.Range = &f
			}
		case "symbols":
			n, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("settings.symbols 不是整数: %q", raw)
			}
			o.Symbols = &n
		default:
			return fmt.Errorf("未知的 settings 项：%s", stmt.Assignment.Key)
		}
	}
	return nil
}

// parseStyle 接受名称或整数；整数原样交给配置层归一化。
func parseStyle(raw string) (int, error) {
	switch strings.ToLower(raw) {
	case "rectangular":
		return 0, nil
	case "structural":
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("settings.style 无法识别: %q", raw)
	}
	return n, nil
}

func parseColor(value string) (Color, error) {
	hex := strings.TrimPrefix(value, "#")
	if len(hex) == 3 {
		hex = strings.Repeat(hex[0:1], 2) + strings.Repeat(hex[1:2], 2) + strings.Repeat(hex[2:3], 2)
	}
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	rgb, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	return Color{R: int(rgb >> 16 & 0xff), G: int(rgb >> 8 & 0xff), B: int(rgb & 0xff)}, nil
}

// valueToString 展开值并替换占位符。
func valueToString(val *dsl.Value, data any) string {
	if val == nil {
		return ""
	}
	var out string
	switch {
	case val.String != nil:
		out = string(*val.String)
	case val.Number != nil:
		out = *val.Number
	case val.Color != nil:
		out = *val.Color
	case val.Expr != nil:
		var builder strings.Builder
		for _, part := range val.Expr.Parts {
			builder.WriteString(part.Value)
		}
		out = builder.String()
	}
	return strings.TrimSpace(binding.Interpolate(out, data))
}
