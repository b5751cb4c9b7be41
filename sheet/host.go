package sheet

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ByLCY/breakline/autobreak"
	"github.com/ByLCY/breakline/breaker"
)

var (
	_ autobreak.Host  = (*Host)(nil)
	_ autobreak.Sheet = (*Sheet)(nil)
)

// ID 返回图纸名称。
func (s *Sheet) ID() string { return s.Name }

// Views 将图纸上的视图转换为引擎使用的只读描述。
func (s *Sheet) Views() []breaker.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]breaker.View, 0, len(s.Boxes))
	for _, v := range s.Boxes {
		out = append(out, breaker.View{
			Name:       v.Name,
			Width:      v.Width,
			Height:     v.Height,
			Center:     v.Center,
			Camera:     v.Camera,
			BreakCount: v.BreakCount,
		})
	}
	return out
}

// AddBreak 在目标视图上记录断开操作并返回操作 ID。
func (s *Sheet) AddBreak(ctx context.Context, req breaker.BreakRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	view := s.find(req.View)
	if view == nil {
		return "", fmt.Errorf("图纸 %s 中不存在视图 %s", s.Name, req.View)
	}
	extent := req.Extent()
	if extent <= 0 {
		return "", fmt.Errorf("视图 %s 的断开区域无效: %g", req.View, extent)
	}

	before := view.Width
	if req.Orientation == breaker.Vertical {
		before = view.Height
	}
	info := BreakInfo{
		ID:      uuid.NewString(),
		View:    view.Name,
		Request: req,
		Before:  before,
		After:   before - extent + req.Gap,
	}
	s.Breaks = append(s.Breaks, info)
	view.BreakCount++
	return info.ID, nil
}

// BreaksFor 返回某个视图上已应用的断开。
func (s *Sheet) BreaksFor(view string) []BreakInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []BreakInfo
	for _, b := range s.Breaks {
		if b.View == view {
			out = append(out, b)
		}
	}
	return out
}

func (s *Sheet) find(name string) *ViewBox {
	for _, v := range s.Boxes {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// Host 将解析出的图纸包装为断开流程所需的宿主。
type Host struct {
	res *Result
}

// NewHost 创建宿主。
func NewHost(res *Result) *Host { return &Host{res: res} }

// ActiveSheet 返回当前激活的图纸。
func (h *Host) ActiveSheet(ctx context.Context) (autobreak.Sheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if h.res == nil || len(h.res.Sheets) == 0 {
		return nil, autobreak.ErrNoActiveDrawing
	}
	idx := h.res.Active
	if idx < 0 || idx >= len(h.res.Sheets) {
		return nil, fmt.Errorf("激活图纸下标 %d 越界: %w", idx, autobreak.ErrNoActiveDrawing)
	}
	return h.res.Sheets[idx], nil
}
