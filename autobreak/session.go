package autobreak

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ByLCY/breakline/breaker"
	"github.com/ByLCY/breakline/settings"
)

var (
	// ErrBusy 表示已有断开命令或设置编辑正在进行。
	ErrBusy = errors.New("断开命令或设置编辑正在进行")
	// ErrNoActiveDrawing 表示宿主当前没有可用的工程图。
	ErrNoActiveDrawing = errors.New("当前没有激活的工程图")
)

// Host 是宿主 CAD 会话的最小抽象。
type Host interface {
	ActiveSheet(ctx context.Context) (Sheet, error)
}

// Sheet 是宿主中一张图纸的只读视图列表与断开创建入口。
type Sheet interface {
	ID() string
	Views() []breaker.View
	AddBreak(ctx context.Context, req breaker.BreakRequest) (string, error)
}

// Outcome 描述一次断开命令的结果；引擎拒绝时 Applied 为 false 并给出原因。
type Outcome struct {
	Applied bool                 `json:"applied"`
	BreakID string               `json:"breakId,omitempty"`
	Sheet   string               `json:"sheet"`
	Request breaker.BreakRequest `json:"request"`
	Reason  string               `json:"reason,omitempty"`
	Message string               `json:"message"`
}

// Session 串联宿主、配置与引擎。断开与设置编辑互斥，且都不可重入。
type Session struct {
	host     Host
	settings *settings.Settings
	logger   *slog.Logger
	guard    sync.Mutex
}

// NewSession 创建会话；logger 为空时使用 slog.Default()。
func NewSession(host Host, cfg *settings.Settings, logger *slog.Logger) *Session {
	if cfg == nil {
		cfg = settings.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{host: host, settings: cfg, logger: logger}
}

// Settings 返回会话持有的配置。
func (s *Session) Settings() *settings.Settings { return s.settings }

// Apply 在当前图纸上执行一次自动断开。
// 引擎给出的拒绝原因通过 Outcome 返回；宿主错误才作为 error 返回。
func (s *Session) Apply(ctx context.Context) (Outcome, error) {
	if !s.guard.TryLock() {
		return Outcome{}, ErrBusy
	}
	defer s.guard.Unlock()

	if s.host == nil {
		return Outcome{}, ErrNoActiveDrawing
	}
	sheet, err := s.host.ActiveSheet(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("获取激活图纸失败: %w", err)
	}

	cfg := s.settings.Snapshot()
	views := sheet.Views()
	req, err := breaker.AutoBreak(views, cfg)
	if err != nil {
		reason := breaker.Reason(err)
		if reason == breaker.ReasonNone {
			return Outcome{}, err
		}
		s.logger.Info("自动断开被拒绝",
			slog.String("sheet", sheet.ID()),
			slog.Int("views", len(views)),
			slog.String("reason", reason),
			slog.String("detail", err.Error()))
		return Outcome{Sheet: sheet.ID(), Reason: reason, Message: Message(reason)}, nil
	}

	id, err := sheet.AddBreak(ctx, req)
	if err != nil {
		return Outcome{}, fmt.Errorf("在视图 %s 上创建断开失败: %w", req.View, err)
	}
	s.logger.Info("已应用自动断开",
		slog.String("sheet", sheet.ID()),
		slog.String("view", req.View),
		slog.String("orientation", req.Orientation.String()),
		slog.Float64("start", pick(req.Orientation, req.Start)),
		slog.Float64("end", pick(req.Orientation, req.End)),
		slog.Float64("ratio", req.Ratio),
		slog.String("id", id))

	return Outcome{
		Applied: true,
		BreakID: id,
		Sheet:   sheet.ID(),
		Request: req,
		Message: fmt.Sprintf("已在视图 %s 上应用%s断开", req.View, orientationLabel(req.Orientation)),
	}, nil
}

// Edit 打开一次设置编辑：edit 修改草稿，返回 nil 且草稿可保存时写回配置。
// 编辑期间 Apply 会直接返回 ErrBusy。
func (s *Session) Edit(ctx context.Context, edit func(*settings.Draft) error) error {
	if !s.guard.TryLock() {
		return ErrBusy
	}
	defer s.guard.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	draft := settings.NewDraft(s.settings)
	if err := edit(draft); err != nil {
		s.logger.Debug("设置编辑已取消", slog.String("error", err.Error()))
		return err
	}
	if err := draft.Save(s.settings); err != nil {
		return err
	}
	v := s.settings.Snapshot()
	s.logger.Debug("设置已保存",
		slog.Int("style", v.Style),
		slog.Float64("gap", v.Gap),
		slog.Int("symbols", v.Symbols),
		slog.Float64("range", v.Range))
	return nil
}

func pick(o breaker.BreakOrientation, p breaker.Point) float64 {
	if o == breaker.Vertical {
		return p.Y
	}
	return p.X
}
