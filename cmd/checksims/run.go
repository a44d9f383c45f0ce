package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap/zapcore"

	cfgpkg "checksims/internal/config"
	"checksims/internal/diag"
	"checksims/internal/pipeline"
)

var pipelineRun = pipeline.Run

func newRunCommand(g *global) *cli.Command {
	var (
		flagGlob        string
		flagMode        string
		flagOrder       string
		flagSplitter    string
		flagPreprocess  cli.StringSlice
		flagRetainEmpty bool
		flagOutput      string
		flagMetricsFile string
		flagStatus      bool
	)
	return &cli.Command{
		Name:      "run",
		Usage:     "Discover submissions under the given roots and print a token report",
		ArgsUsage: "[root ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "glob", Aliases: []string{"g"}, Usage: "file name pattern, e.g. '*.{c,h}'", Destination: &flagGlob},
			&cli.StringFlag{Name: "mode", Usage: "dirs: one submission per subdirectory; dir: the root itself", Destination: &flagMode},
			&cli.StringFlag{Name: "order", Usage: "name or filesystem", Destination: &flagOrder},
			&cli.StringFlag{Name: "splitter", Aliases: []string{"s"}, Usage: "tokenizer: line, whitespace, char, words", Destination: &flagSplitter},
			&cli.StringSliceFlag{Name: "preprocess", Aliases: []string{"p"}, Usage: "preprocessor applied before splitting (repeatable): lowercase, dedup", Destination: &flagPreprocess},
			&cli.BoolFlag{Name: "retain-empty", Value: true, Usage: "keep submissions without tokens; --retain-empty=false discards them with a warning", Destination: &flagRetainEmpty},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "report file; '-' or empty writes stdout", Destination: &flagOutput},
			&cli.StringFlag{Name: "metrics-file", Usage: "write Prometheus text metrics here after the run", Destination: &flagMetricsFile},
			&cli.BoolFlag{Name: "status", Value: true, Usage: "progress hints on stderr", Destination: &flagStatus},
		},
		Action: func(c *cli.Context) error {
			start := time.Now()

			cfg, err := loadConfig(g.config)
			if err != nil {
				return cli.Exit(fmt.Sprintf("config: %v", err), exitConfig)
			}
			// CLI 覆盖
			over := cfgpkg.Config{
				Inputs:      c.Args().Slice(),
				Glob:        flagGlob,
				Mode:        flagMode,
				Order:       flagOrder,
				Output:      flagOutput,
				MetricsFile: flagMetricsFile,
				Logging:     cfgpkg.Logging{Level: g.logLevel, Format: g.logFormat},
				Components:  cfgpkg.Components{Splitter: flagSplitter},
			}
			if c.IsSet("preprocess") {
				over.Preprocessors = flagPreprocess.Value()
			}
			if c.IsSet("retain-empty") {
				over.RetainEmpty = &flagRetainEmpty
			}
			cfg = cfgpkg.Merge(cfg, over)

			if err := cfgpkg.Validate(cfg); err != nil {
				dumpConfig(c, cfg)
				return cli.Exit(err.Error(), exitConfig)
			}

			// 按最终 level/format 重建 logger（stderr + 轮转文件）
			sink, closeSink := logSink(c, cfg.Logging.Dir)
			defer closeSink()
			base, err := diag.NewLogger(appName, version, cfg.Logging.Level, cfg.Logging.Format, sink)
			if err != nil {
				return cli.Exit(err.Error(), exitConfig)
			}
			c.Context = diag.NewLoggingContext(c.Context, base.WithValues("corr_id", g.corrID))
			logger := diag.NewEvents(base, g.corrID)

			if err := preflightCheckOutputDir(cfg); err != nil {
				logger.Error("cli", diag.Classify(err), err, "output directory not writable", &start)
				return cli.Exit(fmt.Sprintf("output: %v", err), exitConfig)
			}
			comp, set, err := cfgpkg.Assemble(cfg)
			if err != nil {
				logger.Error("cli", diag.Classify(err), err, "assemble failed", &start)
				return cli.Exit(fmt.Sprintf("assemble: %v", err), exitConfig)
			}
			set.Stdout = c.App.Writer

			logger.Debug("config", "effective",
				"inputs_count", len(cfg.Inputs),
				"glob", cfg.Glob,
				"mode", cfg.Mode,
				"order", cfg.Order,
				"reader", cfg.Components.Reader,
				"splitter", cfg.Components.Splitter,
				"preprocessors", strings.Join(cfg.Preprocessors, ","),
				"retain_empty", set.RetainEmpty,
				"output", cfg.Output,
			)

			// 终端信息提示（非日志）
			term := diag.NewTerminal(c.App.ErrWriter, flagStatus)
			diag.SetTerminal(term)
			defer diag.SetTerminal(nil)
			term.RunStart(len(cfg.Inputs), cfg.Components.Splitter)

			t := logger.Start("pipeline", "run")
			rep, err := pipelineRun(c.Context, comp, set, logger)
			if err != nil {
				logger.Error("pipeline", diag.Classify(err), err, "first error", &start)
				term.RunFinish(false, time.Since(start))
				_ = writeMetrics(logger, cfg.MetricsFile)
				if pipeline.IsCancel(err) {
					return cli.Exit("", exitRuntime)
				}
				return cli.Exit(fmt.Sprintf("run failed: %v", err), exitRuntime)
			}
			t.Finish("run", int64(len(rep.Submissions)))
			term.RunFinish(true, time.Since(start))
			if err := writeMetrics(logger, cfg.MetricsFile); err != nil {
				return cli.Exit(fmt.Sprintf("metrics: %v", err), exitRuntime)
			}
			return nil
		},
	}
}

// loadConfig: Defaults ← JSON（--config / CHECKSIMS_CONFIG_FILE / CHECKSIMS_CONFIG_JSON / ./config.json）← ENV。
func loadConfig(path string) (cfgpkg.Config, error) {
	var raw []byte
	if s := os.Getenv(cfgpkg.EnvPrefix + "CONFIG_JSON"); s != "" {
		raw = []byte(s)
	}
	if path == "" {
		path = os.Getenv(cfgpkg.EnvPrefix + "CONFIG_FILE")
	}
	if path == "" {
		if _, err := os.Stat("config.json"); err == nil {
			path = "config.json"
		}
	}
	cfg := cfgpkg.Defaults()
	if path != "" || len(raw) > 0 {
		base, err := cfgpkg.LoadJSON(path, raw)
		if err != nil {
			return cfg, err
		}
		cfg = cfgpkg.Merge(cfg, base)
	}
	over, err := cfgpkg.EnvOverlay(os.Environ())
	if err != nil {
		return cfg, err
	}
	return cfgpkg.Merge(cfg, over), nil
}

func errSyncer(c *cli.Context) zapcore.WriteSyncer {
	if f, ok := c.App.ErrWriter.(*os.File); ok {
		return zapcore.Lock(f)
	}
	return zapcore.AddSync(c.App.ErrWriter)
}

// logSink: stderr，加上 dir 下的轮转文件（dir 为 "-" 或空时不写文件）。
func logSink(c *cli.Context, dir string) (zapcore.WriteSyncer, func()) {
	w := errSyncer(c)
	if dir == "" || dir == "-" {
		return w, func() {}
	}
	rf := diag.NewRotatingFile(dir, 10*1024*1024)
	return zapcore.NewMultiWriteSyncer(w, rf), func() { _ = rf.Close() }
}

func writeMetrics(logger *diag.Events, path string) error {
	if path == "" {
		return nil
	}
	if err := diag.WriteMetrics(path); err != nil {
		logger.Error("metrics", diag.Classify(err), err, "write metrics failed", nil)
		return err
	}
	return nil
}

func dumpConfig(c *cli.Context, cfg cfgpkg.Config) {
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(c.App.ErrWriter, "effective config:\n%s\n", b)
}

// preflightCheckOutputDir: 写文件报告时，启动前检查输出目录可写性。
// - 目录已存在：尝试创建并删除临时文件；
// - 目录不存在：检查父目录可写（创建并删除临时目录）。
func preflightCheckOutputDir(cfg cfgpkg.Config) error {
	out := strings.TrimSpace(cfg.Output)
	if out == "" || out == "-" {
		return nil
	}
	dir := filepath.Dir(out)
	if st, err := os.Stat(dir); err == nil && st.IsDir() {
		f, err := os.CreateTemp(dir, ".wcheck-*")
		if err != nil {
			return err
		}
		name := f.Name()
		_ = f.Close()
		_ = os.Remove(name)
		return nil
	} else if err == nil {
		return fmt.Errorf("path exists but is not a directory: %s", dir)
	} else if !os.IsNotExist(err) {
		return err
	}
	parent := filepath.Dir(dir)
	if parent == dir {
		return fmt.Errorf("cannot determine parent directory: %s", dir)
	}
	pst, err := os.Stat(parent)
	if err != nil {
		return err
	}
	if !pst.IsDir() {
		return fmt.Errorf("parent path is not a directory: %s", parent)
	}
	tmpd, err := os.MkdirTemp(parent, ".wcheck-*")
	if err != nil {
		return err
	}
	_ = os.RemoveAll(tmpd)
	return nil
}
