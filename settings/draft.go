package settings

import (
	"fmt"
	"strconv"
	"strings"
)

// Draft 是设置编辑器中的待保存状态：间隙以文本输入，移除百分比以整数滑块输入。
type Draft struct {
	Style   int
	Gap     string
	Symbols int
	Range   int
}

// NewDraft 从当前配置复制一份草稿。
func NewDraft(s *Settings) *Draft {
	v := s.Snapshot()
	return &Draft{
		Style:   v.Style,
		Gap:     strconv.FormatFloat(v.Gap, 'f', -1, 64),
		Symbols: v.Symbols,
		Range:   int(v.Range),
	}
}

// CanSave 仅在间隙文本能解析为数字时为 true。
func (d *Draft) CanSave() bool {
	_, err := d.gap()
	return err == nil
}

// Save 按间隙、百分比、样式、符号数的顺序写回配置。
func (d *Draft) Save(s *Settings) error {
	gap, err := d.gap()
	if err != nil {
		return err
	}
	s.SetGap(gap)
	s.SetRange(float64(d.Range))
	s.SetStyle(d.Style)
	s.SetSymbols(d.Symbols)
	return nil
}

func (d *Draft) gap() (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(d.Gap), 64)
	if err != nil {
		return 0, fmt.Errorf("间隙 %q 不是有效数字: %w", d.Gap, err)
	}
	return v, nil
}
