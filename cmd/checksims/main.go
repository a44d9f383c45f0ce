package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"checksims/internal/diag"
)

var (
	// 发布时由构建注入
	version = "unknown"
	commit  = "-dirty-"
	date    = time.Now().Format("2006-01-02")

	appName     = "checksims"
	appLongName = "Discovers student submissions and tokenizes them for similarity checking"
)

const (
	exitRuntime = 1
	exitConfig  = 3
)

func init() {
	// 去掉 --version 的 -v 短名（留给 --log-level）
	cli.VersionFlag.(*cli.BoolFlag).Aliases = nil
}

func main() {
	ctx, stop, app := newApp()
	defer stop()
	err := app.RunContext(ctx, os.Args)
	if err != nil {
		if msg := err.Error(); msg != "" {
			_, _ = fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(exitCode(err))
	}
}

// global 为全局旗标目标与运行期共享状态。
type global struct {
	logLevel  string
	logFormat string
	config    string
	corrID    string
}

func newApp() (context.Context, context.CancelFunc, *cli.App) {
	g := &global{}
	app := &cli.App{
		Name:    appName,
		Usage:   appLongName,
		Version: fmt.Sprintf("%s, revision=%s, date=%s", version, commit, date),

		EnableBashCompletion: true,

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Aliases:     []string{"v"},
				Usage:       "log level (values: [debug, info, warn, error]); overrides config",
				Destination: &g.logLevel,
			},
			&cli.StringFlag{
				Name:        "log-format",
				Usage:       "sets the log format (values: [json, console]); overrides config",
				DefaultText: "console",
				Destination: &g.logFormat,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config.json; defaults to ./config.json when present",
				Destination: &g.config,
			},
		},
		Before: func(c *cli.Context) error {
			// 在任何 ENV 读取前加载 .env（不覆盖已有 ENV）
			if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
				return cli.Exit(fmt.Sprintf("load .env: %v", err), exitConfig)
			}
			g.corrID = uuid.NewString()
			// 引导期 logger：配置解析完成后由 run 按最终 level/format 重建
			logger, err := diag.NewLogger(appName, version, orDefault(g.logLevel, "info"), g.logFormat, errSyncer(c))
			if err != nil {
				return cli.Exit(fmt.Sprintf("before: %v", err), exitConfig)
			}
			c.Context = diag.NewLoggingContext(c.Context, logger.WithValues("corr_id", g.corrID))
			return nil
		},
		Action: func(c *cli.Context) error {
			return cli.ShowAppHelp(c)
		},
		Commands: []*cli.Command{
			newRunCommand(g),
			newInitConfigCommand(),
		},
		ExitErrHandler: func(c *cli.Context, err error) {
			if err != nil {
				diag.Logger(c.Context).Error(err, "fatal error", "code", string(diag.Classify(err)))
			}
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	return ctx, stop, app
}

// exitCode: cli.ExitCoder 携带的退出码优先，其余为运行期失败。
func exitCode(err error) int {
	var ec cli.ExitCoder
	if errors.As(err, &ec) && ec.ExitCode() != 0 {
		return ec.ExitCode()
	}
	return exitRuntime
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
