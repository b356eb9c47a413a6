package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ByLCY/richtext/config"
)

// env 保存命令执行期间共享的配置与日志。
type env struct {
	Cfg   *config.Config
	Log   *zap.Logger
	start time.Time
}

type envKey struct{}

func envFromContext(ctx context.Context) *env {
	if e, ok := ctx.Value(envKey{}).(*env); ok {
		return e
	}
	return &env{Log: zap.NewNop()}
}

// initializeAppContext prepares configuration and logging after the command
// line has been parsed.
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error
	e := envFromContext(ctx)

	configFile := cmd.String("config")
	if e.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("无法准备配置: %w", err)
	}
	if cmd.Bool("verbose") {
		e.Cfg.Logging.ConsoleLogger.Level = "debug"
	}
	if e.Log, err = e.Cfg.Logging.Prepare(); err != nil {
		return ctx, fmt.Errorf("无法初始化日志: %w", err)
	}
	e.Log.Debug("程序启动", zap.Strings("args", os.Args), zap.String("runtime", runtime.Version()))
	if len(configFile) == 0 {
		e.Log.Debug("未指定配置文件，使用默认配置")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, _ *cli.Command) (err error) {
	e := envFromContext(ctx)
	if e.Log != nil {
		e.Log.Debug("程序结束", zap.Duration("elapsed", time.Since(e.start)))
		if er := e.Log.Sync(); er != nil && !isSyncOnConsole(er) {
			err = multierr.Append(err, fmt.Errorf("无法刷新日志: %w", er))
		}
	}
	return
}

// isSyncOnConsole 过滤对终端调用 fsync 时返回的无害错误。
func isSyncOnConsole(err error) bool {
	for _, e := range multierr.Errors(err) {
		if pe, ok := e.(*os.PathError); !ok || (pe.Path != "/dev/stdout" && pe.Path != "/dev/stderr") {
			return false
		}
	}
	return true
}

var errWasHandled bool

func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	e := envFromContext(ctx)
	if e.Log != nil && e.Cfg != nil {
		e.Log.Error("程序异常结束", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(
		context.WithValue(context.Background(), envKey{}, &env{start: time.Now()}),
		os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            config.AppName,
		Usage:           "lays out rich text markup and renders a PDF preview",
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		Action:          runRender,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log debug messages to console"},
			&cli.StringFlag{Name: "in", Aliases: []string{"i"}, Value: "-", Usage: "markup `FILE`, - reads STDIN"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "write PDF preview to `FILE`"},
			&cli.StringFlag{Name: "debug", Usage: "write layout tree as JSON to `FILE`"},
			&cli.FloatFlag{Name: "width", Usage: "wrap width in pixels, overrides configuration"},
			&cli.StringFlag{Name: "align", Usage: "line alignment: left, center or right"},
			&cli.StringFlag{Name: "syntax", Usage: "markup syntax: html or xml"},
			&cli.StringSliceFlag{Name: "styles", Aliases: []string{"s"}, Usage: "style sheet `FILE`, may be repeated"},
			&cli.StringFlag{Name: "data", Usage: "JSON `FILE` with values for ${path} placeholders"},
		},
		Commands: []*cli.Command{
			{
				Name:         "dumpconfig",
				Usage:        "Dumps either default or actual configuration (YAML)",
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
			},
		},
	}

	var err error
	// NOTE: os.Exit is called at the end of main to set exit code, make sure
	// there are no other deferred functions after that
	defer func() {
		stop()
		if err != nil {
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "程序异常结束: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) (err error) {
	e := envFromContext(ctx)

	var data []byte
	if cmd.Bool("default") {
		data = config.Default()
	} else if data, err = config.Dump(e.Cfg); err != nil {
		return fmt.Errorf("无法获取配置: %w", err)
	}

	fname := cmd.Args().Get(0)
	if len(fname) == 0 {
		_, err = os.Stdout.Write(data)
		return err
	}
	return writeFile(fname, data)
}
