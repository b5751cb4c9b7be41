package sheet

import (
	"sync"

	"github.com/ByLCY/breakline/breaker"
	"github.com/ByLCY/breakline/settings"
)

// 该文件定义图纸模型，供断开流程、渲染与调试 JSON 共用。坐标单位均为 mm，原点在图纸左下角。

// Result 保存解析后的整套图纸。
type Result struct {
	Name      string       `json:"name"`
	Revision  string       `json:"revision,omitempty"`
	Meta      DocumentMeta `json:"meta"`
	Overrides Overrides    `json:"overrides"`
	Sheets    []*Sheet     `json:"sheets"`
	Active    int          `json:"active"` // 当前激活图纸的下标
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	Subject string `json:"subject"`
	Creator string `json:"creator"`
}

// Overrides 记录描述文件 settings 段落中出现的参数，未出现的字段为 nil。
type Overrides struct {
	Style   *int     `json:"style,omitempty"`
	Gap     *float64 `json:"gap,omitempty"`
	Symbols *int     `json:"symbols,omitempty"`
	Range   *float64 `json:"range,omitempty"`
}

// Empty 表示没有任何覆盖项。
func (o Overrides) Empty() bool {
	return o.Style == nil && o.Gap == nil && o.Symbols == nil && o.Range == nil
}

// ApplyTo 通过 setter 写入覆盖项，越界值按配置层规则归一化。
func (o Overrides) ApplyTo(cfg *settings.Settings) {
	if o.Gap != nil {
		cfg.SetGap(*o.Gap)
	}
	if o.Range != nil {
		cfg.SetRange(*o.Range)
	}
	if o.Style != nil {
		cfg.SetStyle(*o.Style)
	}
	if o.Symbols != nil {
		cfg.SetSymbols(*o.Symbols)
	}
}

// Sheet 是一张图纸及其上的视图。
type Sheet struct {
	mu sync.Mutex

	Name   string      `json:"name"`
	Size   string      `json:"size"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Border float64     `json:"border"` // 图框内缩距离
	Boxes  []*ViewBox  `json:"views"`
	Breaks []BreakInfo `json:"breaks,omitempty"`
}

// ViewBox 是图纸上的一个矩形视图。
type ViewBox struct {
	Name       string                    `json:"name"`
	Camera     breaker.CameraOrientation `json:"camera"`
	Center     breaker.Point             `json:"center"`
	Width      float64                   `json:"width"`
	Height     float64                   `json:"height"`
	Color      Color                     `json:"color"`
	BreakCount int                       `json:"breakCount"`
	Raw        *RawUnits                 `json:"raw,omitempty"`
}

// RawUnits 保留作者书写的尺寸单位。
type RawUnits struct {
	Width  Length `json:"width"`
	Height Length `json:"height"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// BreakInfo 记录一次已应用的断开操作。
type BreakInfo struct {
	ID      string               `json:"id"`
	View    string               `json:"view"`
	Request breaker.BreakRequest `json:"request"`
	Before  float64              `json:"before"` // 断开前沿变化轴的尺寸
	After   float64              `json:"after"`  // 断开后（移除区域并加上间隙）的尺寸
}
