package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ByLCY/breakline/autobreak"
	"github.com/ByLCY/breakline/dsl"
	"github.com/ByLCY/breakline/renderer"
	canvasrenderer "github.com/ByLCY/breakline/renderer/canvas"
	"github.com/ByLCY/breakline/settings"
	"github.com/ByLCY/breakline/sheet"
)

func main() {
	if err := rootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

type globalFlags struct {
	settingsFile string
	verbose      bool
}

func (g *globalFlags) logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if g.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (g *globalFlags) store() (*settings.Store, error) {
	return settings.NewStore(g.settingsFile)
}

func rootCmd(out io.Writer) *cobra.Command {
	g := &globalFlags{}
	cmd := &cobra.Command{
		Use:           "breakline",
		Short:         "为工程图中最大的视图自动添加断开",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cmd.PersistentFlags().StringVar(&g.settingsFile, "settings-file", "", "设置文件路径（默认位于 XDG 配置目录）")
	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "输出调试日志")

	cmd.AddCommand(applyCmd(g), settingsCmd(g))
	return cmd
}

type applyOptions struct {
	input      string
	output     string
	debug      string
	data       string
	noSave     bool
	globalOpts *globalFlags
}

func applyCmd(g *globalFlags) *cobra.Command {
	opts := &applyOptions{globalOpts: g}
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "在激活图纸上执行一次自动断开并生成预览",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var data any
			if opts.data != "" {
				if err := json.Unmarshal([]byte(opts.data), &data); err != nil {
					return fmt.Errorf("解析 data JSON 失败: %w", err)
				}
			}
			store, err := g.store()
			if err != nil {
				return err
			}
			logger := g.logger(cmd.ErrOrStderr())
			outcome, err := run(cmd.Context(), opts, data, store, canvasrenderer.NewRenderer(), logger)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), outcome.Message)
			if opts.output != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "已生成预览：%s\n", opts.output)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.input, "in", "examples/bracket.sheet", "图纸描述文件路径")
	cmd.Flags().StringVar(&opts.output, "out", "output/preview.pdf", "PDF 预览输出路径，为空时不渲染")
	cmd.Flags().StringVar(&opts.debug, "debug", "", "图纸模型调试 JSON 输出路径")
	cmd.Flags().StringVar(&opts.data, "data", "", "绑定到描述文件的 JSON 数据")
	cmd.Flags().BoolVar(&opts.noSave, "no-save-settings", false, "不把描述文件中的 settings 段落写回设置文件")
	return cmd
}

// run 串联解析、建模、断开与渲染。
func run(ctx context.Context, opts *applyOptions, data any, store *settings.Store, r renderer.Renderer, logger *slog.Logger) (autobreak.Outcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	file, err := os.Open(opts.input)
	if err != nil {
		return autobreak.Outcome{}, fmt.Errorf("无法打开图纸描述文件 %s: %w", opts.input, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return autobreak.Outcome{}, fmt.Errorf("解析图纸描述失败: %w", err)
	}
	res, err := sheet.Build(doc, data)
	if err != nil {
		return autobreak.Outcome{}, fmt.Errorf("构建图纸模型失败: %w", err)
	}

	cfg, err := store.Load()
	if err != nil {
		return autobreak.Outcome{}, err
	}
	if !res.Overrides.Empty() {
		res.Overrides.ApplyTo(cfg)
		if !opts.noSave {
			if err := store.Save(cfg); err != nil {
				return autobreak.Outcome{}, err
			}
			logger.Debug("已保存描述文件中的断开参数", slog.String("path", store.Path()))
		}
	}

	session := autobreak.NewSession(sheet.NewHost(res), cfg, logger)
	outcome, err := session.Apply(ctx)
	if err != nil {
		return autobreak.Outcome{}, err
	}

	if opts.debug != "" {
		if err := sheet.WriteDebugJSON(res, opts.debug); err != nil {
			return autobreak.Outcome{}, fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
	}
	if opts.output == "" || r == nil {
		return outcome, nil
	}

	pdfBytes, err := r.Render(res)
	if err != nil {
		return autobreak.Outcome{}, fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(opts.output), 0o755); err != nil {
		return autobreak.Outcome{}, fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(opts.output, pdfBytes, 0o644); err != nil {
		return autobreak.Outcome{}, fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	return outcome, nil
}

func settingsCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "查看或修改断开参数",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "显示当前断开参数",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := g.store()
			if err != nil {
				return err
			}
			cfg, err := store.Load()
			if err != nil {
				return err
			}
			printSettings(cmd.OutOrStdout(), store.Path(), cfg.Snapshot())
			return nil
		},
	})
	cmd.AddCommand(settingsSetCmd(g))
	return cmd
}

func settingsSetCmd(g *globalFlags) *cobra.Command {
	var (
		style   string
		gap     string
		symbols int
		rng     int
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "修改断开参数并写回设置文件",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := g.store()
			if err != nil {
				return err
			}
			cfg, err := store.Load()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			session := autobreak.NewSession(nil, cfg, g.logger(cmd.ErrOrStderr()))
			err = session.Edit(cmd.Context(), func(d *settings.Draft) error {
				if flags.Changed("style") {
					s, err := parseStyleFlag(style)
					if err != nil {
						return err
					}
					d.Style = s
				}
				if flags.Changed("gap") {
					d.Gap = gap
				}
				if flags.Changed("symbols") {
					d.Symbols = symbols
				}
				if flags.Changed("range") {
					d.Range = rng
				}
				return nil
			})
			if err != nil {
				return err
			}
			if err := store.Save(cfg); err != nil {
				return err
			}
			printSettings(cmd.OutOrStdout(), store.Path(), cfg.Snapshot())
			return nil
		},
	}
	cmd.Flags().StringVar(&style, "style", "", "断开样式：rectangular 或 structural")
	cmd.Flags().StringVar(&gap, "gap", "", "断开后保留的间隙")
	cmd.Flags().IntVar(&symbols, "symbols", settings.DefaultSymbols, "结构样式的符号数（1-3）")
	cmd.Flags().IntVar(&rng, "range", int(settings.DefaultRange), "移除百分比（10-90）")
	return cmd
}

func parseStyleFlag(s string) (int, error) {
	switch s {
	case "rectangular", "0":
		return settings.StyleRectangular, nil
	case "structural", "1":
		return settings.StyleStructural, nil
	default:
		return 0, fmt.Errorf("未知的断开样式 %q", s)
	}
}

func printSettings(w io.Writer, path string, v settings.Values) {
	style := "rectangular"
	if v.Style == settings.StyleStructural {
		style = "structural"
	}
	fmt.Fprintf(w, "设置文件: %s\n", path)
	fmt.Fprintf(w, "style   = %s\n", style)
	fmt.Fprintf(w, "gap     = %g\n", v.Gap)
	fmt.Fprintf(w, "symbols = %d\n", v.Symbols)
	fmt.Fprintf(w, "range   = %g\n", v.Range)
}
