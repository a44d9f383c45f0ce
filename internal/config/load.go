package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"checksims/internal/pipeline"
	"checksims/pkg/submission"
)

// EnvPrefix 为所有覆盖项的环境变量前缀。
const EnvPrefix = "CHECKSIMS_"

// Defaults 返回带有安全默认值的 Config 雏形。
// Inputs 不设默认（必须由 JSON/ENV/CLI 提供）。
func Defaults() Config {
	return Config{
		Glob:        "*",
		Mode:        pipeline.ModeDirs,
		Order:       string(submission.OrderName),
		RetainEmpty: boolPtr(true),
		Logging:     Logging{Level: "info", Format: "console", Dir: "logs"},
		Components: Components{
			Reader:   "fs",
			Splitter: "line",
			Writer:   "fs",
		},
	}
}

// LoadJSON 从文件路径或原始 JSON 解析 Config（严格拒绝未知字段）。
func LoadJSON(path string, raw []byte) (Config, error) {
	var cfg Config
	var r io.Reader
	switch {
	case len(raw) > 0:
		r = bytes.NewReader(raw)
	case path != "":
		f, err := os.Open(path)
		if err != nil {
			return cfg, err
		}
		defer f.Close()
		r = f
	default:
		return cfg, errors.New("no config source provided")
	}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Merge 按优先级合并（后者覆盖前者）。
// 仅标量/字符串/原样 JSON 为“替换”；不做深度合并。
func Merge(base, over Config) Config {
	out := base
	if len(over.Inputs) > 0 {
		out.Inputs = cloneStrings(over.Inputs)
	}
	if s := strings.TrimSpace(over.Glob); s != "" {
		out.Glob = s
	}
	if s := strings.TrimSpace(over.Mode); s != "" {
		out.Mode = s
	}
	if s := strings.TrimSpace(over.Order); s != "" {
		out.Order = s
	}
	// 非 nil 即覆盖：允许显式传入空列表以清空预处理
	if over.Preprocessors != nil {
		out.Preprocessors = cloneStrings(over.Preprocessors)
	}
	if over.RetainEmpty != nil {
		out.RetainEmpty = boolPtr(*over.RetainEmpty)
	}
	if s := strings.TrimSpace(over.Output); s != "" {
		out.Output = s
	}
	if s := strings.TrimSpace(over.MetricsFile); s != "" {
		out.MetricsFile = s
	}
	if s := strings.TrimSpace(over.Logging.Level); s != "" {
		out.Logging.Level = s
	}
	if s := strings.TrimSpace(over.Logging.Format); s != "" {
		out.Logging.Format = s
	}
	if s := strings.TrimSpace(over.Logging.Dir); s != "" {
		out.Logging.Dir = s
	}

	// 组件名（空不覆盖）
	if over.Components.Reader != "" {
		out.Components.Reader = over.Components.Reader
	}
	if over.Components.Splitter != "" {
		out.Components.Splitter = over.Components.Splitter
	}
	if over.Components.Writer != "" {
		out.Components.Writer = over.Components.Writer
	}

	// Options（完整替换对应键）
	if len(over.Options.Reader) > 0 {
		out.Options.Reader = cloneRaw(over.Options.Reader)
	}
	if len(over.Options.Splitter) > 0 {
		out.Options.Splitter = cloneRaw(over.Options.Splitter)
	}
	if len(over.Options.Writer) > 0 {
		out.Options.Writer = cloneRaw(over.Options.Writer)
	}
	if len(over.Options.Preprocessor) > 0 {
		m := make(map[string]json.RawMessage, len(out.Options.Preprocessor)+len(over.Options.Preprocessor))
		for k, v := range out.Options.Preprocessor {
			m[k] = v
		}
		for k, v := range over.Options.Preprocessor {
			m[k] = cloneRaw(v)
		}
		out.Options.Preprocessor = m
	}
	return out
}

// EnvOverlay 从环境变量构建一个 Config 覆盖（仅解析有限键集合）。
// 规则：前缀 CHECKSIMS_；集合之外的键忽略。
// 支持：INPUTS, GLOB, MODE, ORDER, PREPROCESSORS, RETAIN_EMPTY, OUTPUT, METRICS_FILE,
// LOG_LEVEL, LOG_FORMAT, LOG_DIR, COMPONENTS_{READER,SPLITTER,WRITER},
// OPTIONS_{READER,SPLITTER,WRITER}_JSON 以及 OPTIONS_PREPROCESSOR__<name>__JSON。
func EnvOverlay(environ []string) (Config, error) {
	var over Config
	for _, kv := range environ {
		if !strings.HasPrefix(kv, EnvPrefix) {
			continue
		}
		eq := strings.IndexByte(kv, '=')
		if eq <= len(EnvPrefix) {
			continue
		}
		nk := strings.TrimPrefix(kv[:eq], EnvPrefix)
		val := kv[eq+1:]
		switch nk {
		case "INPUTS":
			if val != "" {
				over.Inputs = splitComma(val)
			}
		case "GLOB":
			over.Glob = strings.TrimSpace(val)
		case "MODE":
			over.Mode = strings.TrimSpace(val)
		case "ORDER":
			over.Order = strings.TrimSpace(val)
		case "PREPROCESSORS":
			if val != "" {
				over.Preprocessors = splitComma(val)
			}
		case "RETAIN_EMPTY":
			if s := strings.TrimSpace(val); s != "" {
				b, err := strconv.ParseBool(s)
				if err != nil {
					return over, fmt.Errorf("env %sRETAIN_EMPTY: %w", EnvPrefix, err)
				}
				over.RetainEmpty = boolPtr(b)
			}
		case "OUTPUT":
			over.Output = strings.TrimSpace(val)
		case "METRICS_FILE":
			over.MetricsFile = strings.TrimSpace(val)
		case "LOG_LEVEL":
			over.Logging.Level = strings.TrimSpace(val)
		case "LOG_FORMAT":
			over.Logging.Format = strings.TrimSpace(val)
		case "LOG_DIR":
			over.Logging.Dir = strings.TrimSpace(val)
		case "COMPONENTS_READER":
			over.Components.Reader = strings.TrimSpace(val)
		case "COMPONENTS_SPLITTER":
			over.Components.Splitter = strings.TrimSpace(val)
		case "COMPONENTS_WRITER":
			over.Components.Writer = strings.TrimSpace(val)
		case "OPTIONS_READER_JSON":
			over.Options.Reader = rawOrNil(val)
		case "OPTIONS_SPLITTER_JSON":
			over.Options.Splitter = rawOrNil(val)
		case "OPTIONS_WRITER_JSON":
			over.Options.Writer = rawOrNil(val)
		default:
			// OPTIONS_PREPROCESSOR__<name>__JSON
			if strings.HasPrefix(nk, "OPTIONS_PREPROCESSOR__") {
				parts := strings.Split(nk, "__")
				if len(parts) == 3 && parts[2] == "JSON" && parts[1] != "" {
					if raw := rawOrNil(val); raw != nil {
						if over.Options.Preprocessor == nil {
							over.Options.Preprocessor = map[string]json.RawMessage{}
						}
						over.Options.Preprocessor[strings.ToLower(parts[1])] = raw
					}
				}
			}
		}
	}
	return over, nil
}

func boolPtr(b bool) *bool { return &b }

// rawOrNil: 空值视为未设置，避免清空 config.json 中的选项。
func rawOrNil(s string) json.RawMessage {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return json.RawMessage(s)
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneRaw(in json.RawMessage) json.RawMessage {
	if len(in) == 0 {
		return nil
	}
	out := make([]byte, len(in))
	copy(out, in)
	return out
}

func splitComma(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
