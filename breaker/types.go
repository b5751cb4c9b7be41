package breaker

import (
	"math"
	"strings"
)

// 该文件定义引擎输入（视图）与输出（断开请求）的数据结构，坐标单位均为图纸单位。

// Point 为图纸坐标系中的二维点。
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CameraOrientation 表示生成视图时使用的相机方向。
type CameraOrientation int

const (
	CameraUnknown CameraOrientation = iota
	CameraFront
	CameraBack
	CameraTop
	CameraBottom
	CameraLeft
	CameraRight
	CameraArbitrary
	CameraIsoTopRight
	CameraIsoTopLeft
	CameraIsoBottomRight
	CameraIsoBottomLeft
	CameraAuxiliary
	CameraSection
	CameraDetail
)

var cameraNames = map[CameraOrientation]string{
	CameraUnknown:        "unknown",
	CameraFront:          "front",
	CameraBack:           "back",
	CameraTop:            "top",
	CameraBottom:         "bottom",
	CameraLeft:           "left",
	CameraRight:          "right",
	CameraArbitrary:      "arbitrary",
	CameraIsoTopRight:    "iso-top-right",
	CameraIsoTopLeft:     "iso-top-left",
	CameraIsoBottomRight: "iso-bottom-right",
	CameraIsoBottomLeft:  "iso-bottom-left",
	CameraAuxiliary:      "auxiliary",
	CameraSection:        "section",
	CameraDetail:         "detail",
}

func (c CameraOrientation) String() string {
	if name, ok := cameraNames[c]; ok {
		return name
	}
	return "unknown"
}

// MarshalText 让相机方向在调试 JSON 中以名称输出。
func (c CameraOrientation) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// ParseCameraOrientation 将名称（不区分大小写）转换为相机方向，未知名称返回 CameraUnknown。
func ParseCameraOrientation(name string) CameraOrientation {
	key := strings.ToLower(strings.TrimSpace(name))
	for c, n := range cameraNames {
		if n == key {
			return c
		}
	}
	return CameraUnknown
}

// standardCameras 为允许断开的标准视图方向。
var standardCameras = map[CameraOrientation]struct{}{
	CameraFront:     {},
	CameraBack:      {},
	CameraTop:       {},
	CameraBottom:    {},
	CameraLeft:      {},
	CameraRight:     {},
	CameraArbitrary: {},
}

// IsStandard 判断相机方向是否属于标准方向集合。
func (c CameraOrientation) IsStandard() bool {
	_, ok := standardCameras[c]
	return ok
}

// View 是引擎所需的只读视图描述，由宿主侧转换得到。
type View struct {
	Name       string            `json:"name"`
	Width      float64           `json:"width"`
	Height     float64           `json:"height"`
	Center     Point             `json:"center"`
	Camera     CameraOrientation `json:"camera"`
	BreakCount int               `json:"breakCount"`
}

// Area 返回视图面积。
func (v View) Area() float64 { return v.Width * v.Height }

// Degenerate 表示视图尺寸不可用（任一边 <=0 或非有限数）。
func (v View) Degenerate() bool {
	return !finitePositive(v.Width) || !finitePositive(v.Height)
}

func finitePositive(f float64) bool {
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// BreakOrientation 决定断开线穿过哪条轴。
type BreakOrientation int

const (
	Horizontal BreakOrientation = iota
	Vertical
)

func (o BreakOrientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

func (o BreakOrientation) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// BreakStyle 为断开符号样式。
type BreakStyle int

const (
	Rectangular BreakStyle = iota
	Structural
)

// StyleFromInt 将配置中的整数样式转换为 BreakStyle，未知值回退为 Rectangular。
func StyleFromInt(v int) BreakStyle {
	switch v {
	case 1:
		return Structural
	default:
		return Rectangular
	}
}

func (s BreakStyle) String() string {
	if s == Structural {
		return "structural"
	}
	return "rectangular"
}

func (s BreakStyle) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// BreakRequest 是交给宿主创建断开操作所需的完整描述。
type BreakRequest struct {
	View        string           `json:"view"`
	Orientation BreakOrientation `json:"orientation"`
	Start       Point            `json:"start"`
	End         Point            `json:"end"`
	Style       BreakStyle       `json:"style"`
	Depth       int              `json:"depth"`
	Gap         float64          `json:"gap"`
	Symbols     int              `json:"symbols"`
	Propagate   bool             `json:"propagate"` // 同步到关联视图
	Ratio       float64          `json:"ratio"`
}

// Extent 返回断开区域沿变化轴的长度。
func (r BreakRequest) Extent() float64 {
	if r.Orientation == Vertical {
		return r.End.Y - r.Start.Y
	}
	return r.End.X - r.Start.X
}
