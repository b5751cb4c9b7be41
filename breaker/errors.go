package breaker

import "errors"

// 以下错误均为可预期的结果，调用方通过 errors.Is 判断原因。
var (
	ErrNoUsableView      = errors.New("没有可用的视图")
	ErrViewTooSmall      = errors.New("视图尺寸不足以断开")
	ErrAlreadyBroken     = errors.New("视图已存在断开操作")
	ErrInvalidBreakRatio = errors.New("断开比例超出允许范围")
)

// 原因标签，供日志与界面消息使用。
const (
	ReasonNone              = ""
	ReasonNoUsableView      = "NoUsableView"
	ReasonViewTooSmall      = "ViewTooSmall"
	ReasonAlreadyBroken     = "AlreadyBroken"
	ReasonInvalidBreakRatio = "InvalidBreakRatio"
)

// Reason 将引擎返回的错误映射为稳定的原因标签；非引擎错误返回空串。
func Reason(err error) string {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, ErrNoUsableView):
		return ReasonNoUsableView
	case errors.Is(err, ErrViewTooSmall):
		return ReasonViewTooSmall
	case errors.Is(err, ErrAlreadyBroken):
		return ReasonAlreadyBroken
	case errors.Is(err, ErrInvalidBreakRatio):
		return ReasonInvalidBreakRatio
	default:
		return ReasonNone
	}
}
