package breaker

import (
	"fmt"
	"sort"

	"github.com/ByLCY/breakline/settings"
)

const (
	// MinBreakExtent 为断开线沿变化轴的最小绝对长度（图纸单位），不可配置。
	MinBreakExtent = 5.0
	// BreakDepth 为传给宿主的固定断开深度。
	BreakDepth = 5

	minRatio = 0.1
	maxRatio = 0.9
)

// FilterCandidates 去除非标准相机方向及尺寸退化的视图，返回新切片，不修改入参。
func FilterCandidates(views []View) []View {
	out := make([]View, 0, len(views))
	for _, v := range views {
		if !v.Camera.IsStandard() || v.Degenerate() {
			continue
		}
		out = append(out, v)
	}
	return out
}

// SelectBiggest 按面积降序挑选最大的视图；面积相等时不保证选中哪一个。
func SelectBiggest(candidates []View) (View, bool) {
	if len(candidates) == 0 {
		return View{}, false
	}
	sorted := make([]View, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Area() > sorted[j].Area()
	})
	return sorted[0], true
}

// ClassifyOrientation 宽度不小于高度时为水平断开，否则为竖直断开。
func ClassifyOrientation(v View) BreakOrientation {
	if v.Width >= v.Height {
		return Horizontal
	}
	return Vertical
}

// CheckFeasibility 判断视图在扣除间隙后是否仍满足最小断开长度，且尚未被断开。
func CheckFeasibility(v View, o BreakOrientation, gap float64) bool {
	if v.BreakCount != 0 {
		return false
	}
	return geometricallyFeasible(v, o, gap)
}

func geometricallyFeasible(v View, o BreakOrientation, gap float64) bool {
	if o == Vertical {
		return v.Height-gap >= MinBreakExtent
	}
	return v.Width-gap >= MinBreakExtent
}

// ComputeBreakPoints 根据移除百分比计算断开起止点。
// 请求长度不足 MinBreakExtent 时，比例会被提高到 MinBreakExtent/尺寸。
// 非变化轴固定为 0，这是宿主创建断开时期望的坐标约定。
// valid 为 false 时点仍然返回，但调用方必须放弃本次断开。
func ComputeBreakPoints(v View, o BreakOrientation, rangePercent float64) (start, end Point, ratio float64, valid bool) {
	ratio = rangePercent / 100

	dimension, center := v.Width, v.Center.X
	if o == Vertical {
		dimension, center = v.Height, v.Center.Y
	}
	if dimension*ratio < MinBreakExtent {
		ratio = MinBreakExtent / dimension
	}
	extent := dimension * ratio
	lo, hi := center-extent/2, center+extent/2

	if o == Vertical {
		start, end = Point{X: 0, Y: lo}, Point{X: 0, Y: hi}
	} else {
		start, end = Point{X: lo, Y: 0}, Point{X: hi, Y: 0}
	}
	valid = ratio >= minRatio && ratio <= maxRatio
	return start, end, ratio, valid
}

// AutoBreak 选出最合适的视图并生成断开请求，不会修改任何宿主状态。
// 已断开的视图优先报告 ErrAlreadyBroken，与其尺寸无关。
func AutoBreak(views []View, cfg settings.Values) (BreakRequest, error) {
	best, ok := SelectBiggest(FilterCandidates(views))
	if !ok {
		return BreakRequest{}, ErrNoUsableView
	}
	orientation := ClassifyOrientation(best)

	if best.BreakCount > 0 {
		return BreakRequest{}, fmt.Errorf("视图 %s: %w", best.Name, ErrAlreadyBroken)
	}
	if !CheckFeasibility(best, orientation, cfg.Gap) {
		return BreakRequest{}, fmt.Errorf("视图 %s (%s): %w", best.Name, orientation, ErrViewTooSmall)
	}

	start, end, ratio, valid := ComputeBreakPoints(best, orientation, cfg.Range)
	if !valid {
		return BreakRequest{}, fmt.Errorf("视图 %s 比例 %.3f: %w", best.Name, ratio, ErrInvalidBreakRatio)
	}

	return BreakRequest{
		View:        best.Name,
		Orientation: orientation,
		Start:       start,
		End:         end,
		Style:       StyleFromInt(cfg.Style),
		Depth:       BreakDepth,
		Gap:         cfg.Gap,
		Symbols:     cfg.Symbols,
		Propagate:   true,
		Ratio:       ratio,
	}, nil
}
