package config

import (
	"encoding/json"
	"os"
	"strings"
)

// DefaultTemplateConfig 返回一个“可运行”的默认配置模板：
// - 输入为 ./submissions，每个子目录一个提交；
// - 报告写 stdout，日志为 console；
// - 选项包含全部键，取安全中性默认值。
func DefaultTemplateConfig() Config {
	d := Defaults()
	cfg := Config{
		Inputs:        []string{"submissions"},
		Glob:          d.Glob,
		Mode:          d.Mode,
		Order:         d.Order,
		Preprocessors: []string{},
		RetainEmpty:   boolPtr(true),
		Output:        "",
		MetricsFile:   "",
		Logging:       d.Logging,
		Components:    d.Components,
	}
	cfg.Options.Reader = json.RawMessage(`{
  "buf_size": 65536,
  "max_bytes": 0,
  "normalize_newlines": false,
  "validate_utf8": false
}`)
	cfg.Options.Splitter = json.RawMessage(`{
  "keep_empty": false
}`)
	// output_dir 由 output 推导，此处不需要
	cfg.Options.Writer = json.RawMessage(`{
  "atomic": true,
  "perm_file": 0,
  "perm_dir": 0,
  "buf_size": 65536
}`)
	cfg.Options.Preprocessor = map[string]json.RawMessage{
		"lowercase":  json.RawMessage(`{"language": ""}`),
		"dedup":      json.RawMessage(`{}`),
		"commoncode": json.RawMessage(`{
  "common_dir": "",
  "glob": "*"
}`),
	}
	return cfg
}

// WriteConfigFile 以缩进 JSON 写出配置；path 为 "-" 时写 stdout。
// 已存在的文件不覆盖（返回 os.ErrExist 类错误）。
func WriteConfigFile(path string, c Config) error {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	if path == "-" {
		_, err = os.Stdout.Write(b)
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(b)
	return err
}

// WriteDotEnv 生成 .env 模板；文件已存在时跳过（不覆盖，不合并）。
func WriteDotEnv(path string) error {
	var b strings.Builder
	b.WriteString("# checksims .env 模板（由 init-config 生成）\n")
	b.WriteString("# 优先级：CLI > ENV(.env) > JSON\n")
	b.WriteString("# 空值表示未设置。\n\n")

	b.WriteString("# 配置来源（可二选一）\n")
	b.WriteString(EnvPrefix + "CONFIG_FILE=\n")
	b.WriteString(EnvPrefix + "CONFIG_JSON=\n\n")

	b.WriteString("# 运行参数覆盖\n")
	for _, k := range []string{"INPUTS", "GLOB", "MODE", "ORDER", "PREPROCESSORS", "RETAIN_EMPTY", "OUTPUT", "METRICS_FILE", "LOG_LEVEL", "LOG_FORMAT", "LOG_DIR"} {
		b.WriteString(EnvPrefix + k + "=\n")
	}
	b.WriteString("\n# 组件选择\n")
	for _, k := range []string{"READER", "SPLITTER", "WRITER"} {
		b.WriteString(EnvPrefix + "COMPONENTS_" + k + "=\n")
	}
	b.WriteString("\n# 组件选项（原样 JSON）\n")
	for _, k := range []string{"READER", "SPLITTER", "WRITER"} {
		b.WriteString(EnvPrefix + "OPTIONS_" + k + "_JSON=\n")
	}
	for _, k := range []string{"LOWERCASE", "DEDUP", "COMMONCODE"} {
		b.WriteString(EnvPrefix + "OPTIONS_PREPROCESSOR__" + k + "__JSON=\n")
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()
	_, err = f.WriteString(b.String())
	return err
}
