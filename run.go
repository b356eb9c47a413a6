package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ByLCY/richtext/binding"
	"github.com/ByLCY/richtext/config"
	"github.com/ByLCY/richtext/layout"
	"github.com/ByLCY/richtext/markup"
	canvasrenderer "github.com/ByLCY/richtext/renderer/canvas"
	"github.com/ByLCY/richtext/richtext"
	"github.com/ByLCY/richtext/style"
)

// job 是一次排版请求，配置与命令行参数合并后的结果。
type job struct {
	Input  string
	Output string
	Debug  string
	Width  float64
	Align  layout.Alignment
	Syntax markup.Syntax
	Data   string
}

func runRender(ctx context.Context, cmd *cli.Command) error {
	e := envFromContext(ctx)
	cfg := e.Cfg

	cfg.Styles.Files = append(cfg.Styles.Files, cmd.StringSlice("styles")...)
	j := job{
		Input:  cmd.String("in"),
		Output: cmd.String("out"),
		Debug:  cmd.String("debug"),
		Width:  cfg.Layout.Width,
		Align:  cfg.Alignment(),
		Syntax: cfg.Syntax(),
		Data:   cmd.String("data"),
	}
	if cmd.IsSet("width") {
		j.Width = cmd.Float("width")
	}
	if cmd.IsSet("align") {
		a, err := layout.ParseAlignment(cmd.String("align"))
		if err != nil {
			return err
		}
		j.Align = a
	}
	if cmd.IsSet("syntax") {
		s, err := markup.ParseSyntax(cmd.String("syntax"))
		if err != nil {
			return err
		}
		j.Syntax = s
	}

	res, err := render(e.Log, cfg, j, os.Stdin)
	if err != nil {
		return err
	}
	e.Log.Info("排版完成", zap.Int("lines", len(res.Lines)), zap.Float64("height", res.Height))
	return nil
}

// render 串联样式加载、排版与输出。
func render(log *zap.Logger, cfg *config.Config, j job, stdin io.Reader) (*layout.Result, error) {
	text, err := readInput(j.Input, stdin)
	if err != nil {
		return nil, err
	}

	global, err := cfg.GlobalStyles()
	if err != nil {
		return nil, fmt.Errorf("加载样式表失败: %w", err)
	}
	style.SetGlobalStyles(global)

	faces := make(map[string]canvasrenderer.Resource, len(cfg.Fonts.Faces))
	for name, path := range cfg.Fonts.Faces {
		faces[name] = canvasrenderer.Resource{Path: path}
	}
	r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		BaseDir:  cfg.Fonts.BaseDir,
		Fonts:    faces,
		Fallback: cfg.Fonts.Fallback,
		Logger:   log,
	})

	sched := &richtext.FrameScheduler{}
	engine := richtext.New(richtext.Options{
		Scheduler: sched,
		Measurer:  r,
		Logger:    log,
		Syntax:    j.Syntax,
		Width:     j.Width,
		Align:     j.Align,
	})
	engine.SetText(text)
	if j.Data != "" {
		data, err := loadData(j.Data)
		if err != nil {
			return nil, err
		}
		engine.SetTextTransformer(data.Transformer())
	}
	sched.Tick()
	if err := engine.Err(); err != nil {
		return nil, fmt.Errorf("布局计算失败: %w", err)
	}
	res := engine.Layout()

	if j.Debug != "" {
		if err := os.MkdirAll(filepath.Dir(j.Debug), 0o755); err != nil {
			return nil, fmt.Errorf("创建调试目录失败: %w", err)
		}
		if err := layout.WriteDebugJSON(res, j.Debug); err != nil {
			return nil, fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
	}
	if j.Output != "" {
		pdfBytes, err := r.Render(res)
		if err != nil {
			return nil, fmt.Errorf("渲染 PDF 失败: %w", err)
		}
		if err := writeFile(j.Output, pdfBytes); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func readInput(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("无法读取标记文本 %s: %w", path, err)
	}
	return string(data), nil
}

func loadData(path string) (data *binding.Data, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开数据文件 %s: %w", path, err)
	}
	defer func() { err = multierr.Append(err, f.Close()) }()
	return binding.Load(f)
}

func writeFile(path string, data []byte) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("无法创建目标文件 %s: %w", path, err)
	}
	defer func() { err = multierr.Append(err, f.Close()) }()
	if _, err = f.Write(data); err != nil {
		return fmt.Errorf("写入文件 %s 失败: %w", path, err)
	}
	return nil
}
