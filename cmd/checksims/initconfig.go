package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	cfgpkg "checksims/internal/config"
	"checksims/internal/diag"
)

// newInitConfigCommand 在目录中生成 config.json 与 .env 模板；已存在的 config.json 视为失败，.env 跳过。
func newInitConfigCommand() *cli.Command {
	return &cli.Command{
		Name:      "init-config",
		Usage:     "Write a runnable config.json and a .env template (never overwrites)",
		ArgsUsage: "[dir]",
		Action: func(c *cli.Context) error {
			dir := c.Args().First()
			if dir == "" {
				dir = "."
			}
			log := diag.Logger(c.Context)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return cli.Exit(fmt.Sprintf("init-config: %v", err), exitConfig)
			}
			cfgPath := filepath.Join(dir, "config.json")
			if err := cfgpkg.WriteConfigFile(cfgPath, cfgpkg.DefaultTemplateConfig()); err != nil {
				return cli.Exit(fmt.Sprintf("init-config: %v", err), exitConfig)
			}
			envPath := filepath.Join(dir, ".env")
			if err := cfgpkg.WriteDotEnv(envPath); err != nil {
				// .env 只是辅助模板，失败不影响退出码
				log.Error(err, ".env template skipped", "path", envPath)
			}
			log.Info("config template written", "path", cfgPath)
			return nil
		},
	}
}
