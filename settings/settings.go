package settings

import (
	"math"
	"sync"
)

// 断开样式取值。
const (
	StyleRectangular = 0
	StyleStructural  = 1
)

// 默认值与取值范围。
const (
	DefaultStyle   = StyleRectangular
	DefaultGap     = 0.6
	DefaultSymbols = 1
	DefaultRange   = 90.0

	MinSymbols = 1
	MaxSymbols = 3
	MinRange   = 10.0
	MaxRange   = 90.0
)

// Values 是某一时刻配置的一致快照，引擎只读取它。
type Values struct {
	Style   int     `toml:"style" json:"style"`
	Gap     float64 `toml:"gap" json:"gap"`
	Symbols int     `toml:"symbols" json:"symbols"`
	Range   float64 `toml:"range" json:"range"`
}

// Settings 保存四个断开参数，写入时对非法值做归一化而不是报错。
type Settings struct {
	mu      sync.RWMutex
	style   int
	gap     float64
	symbols int
	rng     float64
}

// New 返回默认配置：矩形样式、间隙 0.6、符号 1 个、移除 90%。
func New() *Settings {
	return &Settings{
		style:   DefaultStyle,
		gap:     DefaultGap,
		symbols: DefaultSymbols,
		rng:     DefaultRange,
	}
}

// FromValues 用快照构造配置，每个字段都会经过对应 setter 的归一化。
func FromValues(v Values) *Settings {
	s := New()
	s.Apply(v)
	return s
}

func (s *Settings) Style() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.style
}

// SetStyle 只接受 0（矩形）与 1（结构），其余值重置为矩形。
func (s *Settings) SetStyle(v int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.style = normalizeStyle(v)
}

func (s *Settings) Gap() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gap
}

// SetGap 不做限制，合法性由调用方保证。
func (s *Settings) SetGap(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gap = v
}

func (s *Settings) Symbols() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.symbols
}

// SetSymbols 超出 [1,3] 时重置为 1。
func (s *Settings) SetSymbols(v int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.symbols = normalizeSymbols(v)
}

func (s *Settings) Range() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rng
}

// SetRange 将移除百分比夹到 [10,90]。
func (s *Settings) SetRange(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng = clampRange(v)
}

// Snapshot 在同一把读锁下复制四个字段，不会读到写了一半的状态。
func (s *Settings) Snapshot() Values {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Values{Style: s.style, Gap: s.gap, Symbols: s.symbols, Range: s.rng}
}

// Apply 一次性写入全部字段。
func (s *Settings) Apply(v Values) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gap = v.Gap
	s.rng = clampRange(v.Range)
	s.style = normalizeStyle(v.Style)
	s.symbols = normalizeSymbols(v.Symbols)
}

func normalizeStyle(v int) int {
	switch v {
	case StyleRectangular, StyleStructural:
		return v
	default:
		return StyleRectangular
	}
}

func normalizeSymbols(v int) int {
	if v < MinSymbols || v > MaxSymbols {
		return DefaultSymbols
	}
	return v
}

func clampRange(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return DefaultRange
	case v < MinRange:
		return MinRange
	case v > MaxRange:
		return MaxRange
	default:
		return v
	}
}
