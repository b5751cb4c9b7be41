package autobreak

import "github.com/ByLCY/breakline/breaker"

// Message 返回原因对应的用户提示。
func Message(reason string) string {
	switch reason {
	case breaker.ReasonNoUsableView:
		return "无法应用自动断开：图纸上没有可用的视图"
	case breaker.ReasonViewTooSmall:
		return "无法应用自动断开：最大的视图太小，无法断开"
	case breaker.ReasonAlreadyBroken:
		return "无法应用自动断开：该视图已存在断开操作"
	case breaker.ReasonInvalidBreakRatio:
		return "无法应用自动断开：断开比例超出 10%-90% 的范围"
	case breaker.ReasonNone:
		return ""
	default:
		return "无法应用自动断开：" + reason
	}
}

func orientationLabel(o breaker.BreakOrientation) string {
	if o == breaker.Vertical {
		return "竖直"
	}
	return "水平"
}
