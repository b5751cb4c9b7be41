package sheet

import (
	"fmt"
	"strconv"
	"strings"
)

// 图纸内部统一使用毫米；Length 保留作者书写时的单位，便于调试输出。

// Unit 表示长度在描述文件中的原始单位。
type Unit int

const (
	UnitNone Unit = iota // 未写单位，按毫米处理
	UnitMM
	UnitCM
	UnitIN
	UnitPT
)

// 点与毫米的换算系数。
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

func (u Unit) String() string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	default:
		return ""
	}
}

func (u Unit) MarshalText() ([]byte, error) { return []byte(u.String()), nil }

// Length 同时保存数值与单位。
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// ToMM 将长度换算为毫米，无单位时视为毫米。
func (l Length) ToMM() float64 {
	switch l.Unit {
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * 25.4
	case UnitPT:
		return l.Value * PtToMm
	default:
		return l.Value
	}
}

// ToPT 将长度换算为点。
func (l Length) ToPT() float64 {
	if l.Unit == UnitPT {
		return l.Value
	}
	return l.ToMM() * MmToPt
}

var unitSuffixes = []struct {
	s string
	u Unit
}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}}

// ParseLength 解析带单位的长度字符串，例如 "12.5mm"、"-2cm"、"40"。
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(value), " ", ""))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	unit := UnitNone
	num := v
	for _, suf := range unitSuffixes {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSuffix(v, suf.s)
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q", value)
	}
	return Length{Value: f, Unit: unit}, nil
}
