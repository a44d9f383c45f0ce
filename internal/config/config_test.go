package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checksims/internal/pipeline"
	"checksims/pkg/contract"
	"checksims/pkg/submission"
)

// 解析完整 config.json
func TestLoadJSON(t *testing.T) {
	cfg, err := LoadJSON("../../testdata/config/basic.json", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"testdata/submissions"}, cfg.Inputs)
	assert.Equal(t, "*.java", cfg.Glob)
	assert.Equal(t, "words", cfg.Components.Splitter)
	assert.Equal(t, []string{"lowercase", "dedup"}, cfg.Preprocessors)
	assert.JSONEq(t, `{"language":"en"}`, string(cfg.Options.Preprocessor["lowercase"]))
	assert.NoError(t, Validate(cfg))
}

// 含非法字段
func TestLoadJSONUnknown(t *testing.T) {
	_, err := LoadJSON("", []byte(`{"unknown":1}`))
	assert.Error(t, err)
	_, err = LoadJSON("", nil)
	assert.Error(t, err)
	_, err = LoadJSON(filepath.Join(t.TempDir(), "missing.json"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// ENV 覆盖部分字段
func TestEnvOverlay(t *testing.T) {
	env := []string{
		"CHECKSIMS_INPUTS=a, b",
		"CHECKSIMS_GLOB=*.py",
		"CHECKSIMS_MODE=dir",
		"CHECKSIMS_ORDER=filesystem",
		"CHECKSIMS_PREPROCESSORS=lowercase",
		"CHECKSIMS_RETAIN_EMPTY=false",
		"CHECKSIMS_OUTPUT=out/report.json",
		"CHECKSIMS_METRICS_FILE=out/metrics.prom",
		"CHECKSIMS_LOG_LEVEL=debug",
		"CHECKSIMS_LOG_FORMAT=json",
		"CHECKSIMS_LOG_DIR=-",
		"CHECKSIMS_COMPONENTS_SPLITTER=char",
		"CHECKSIMS_OPTIONS_SPLITTER_JSON={\"skip_whitespace\":true}",
		"CHECKSIMS_OPTIONS_READER_JSON=",
		"CHECKSIMS_OPTIONS_PREPROCESSOR__LOWERCASE__JSON={\"language\":\"tr\"}",
		"CHECKSIMS_UNKNOWN=1",
		"OTHER_GLOB=ignored",
		"CHECKSIMS_=",
	}
	over, err := EnvOverlay(env)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, over.Inputs)
	assert.Equal(t, "*.py", over.Glob)
	assert.Equal(t, "dir", over.Mode)
	assert.Equal(t, "filesystem", over.Order)
	assert.Equal(t, []string{"lowercase"}, over.Preprocessors)
	require.NotNil(t, over.RetainEmpty)
	assert.False(t, *over.RetainEmpty)
	assert.Equal(t, "out/report.json", over.Output)
	assert.Equal(t, "out/metrics.prom", over.MetricsFile)
	assert.Equal(t, Logging{Level: "debug", Format: "json", Dir: "-"}, over.Logging)
	assert.Equal(t, "char", over.Components.Splitter)
	assert.JSONEq(t, `{"skip_whitespace":true}`, string(over.Options.Splitter))
	assert.Nil(t, over.Options.Reader, "空值不覆盖")
	assert.JSONEq(t, `{"language":"tr"}`, string(over.Options.Preprocessor["lowercase"]))
}

// 非法布尔值报错
func TestEnvOverlayRetainEmptyInvalid(t *testing.T) {
	_, err := EnvOverlay([]string{"CHECKSIMS_RETAIN_EMPTY=maybe"})
	assert.Error(t, err)
	over, err := EnvOverlay([]string{"CHECKSIMS_RETAIN_EMPTY="})
	require.NoError(t, err)
	assert.Nil(t, over.RetainEmpty)
}

// 优先级：后者覆盖前者；空值不覆盖
func TestMerge(t *testing.T) {
	base := Defaults()
	base.Options.Preprocessor = map[string]json.RawMessage{"dedup": json.RawMessage(`{}`)}
	over := Config{
		Inputs:        []string{"x"},
		Order:         "filesystem",
		Preprocessors: []string{"dedup"},
		Options: Options{
			Preprocessor: map[string]json.RawMessage{"lowercase": json.RawMessage(`{"language":"de"}`)},
		},
	}
	got := Merge(base, over)
	assert.Equal(t, []string{"x"}, got.Inputs)
	assert.Equal(t, "*", got.Glob)
	assert.Equal(t, pipeline.ModeDirs, got.Mode)
	assert.Equal(t, "filesystem", got.Order)
	assert.Equal(t, []string{"dedup"}, got.Preprocessors)
	assert.Len(t, got.Options.Preprocessor, 2)

	// 显式空列表清空预处理
	cleared := Merge(got, Config{Preprocessors: []string{}})
	assert.Empty(t, cleared.Preprocessors)
	// nil 不覆盖
	assert.Equal(t, []string{"dedup"}, Merge(got, Config{}).Preprocessors)

	require.NotNil(t, got.RetainEmpty)
	assert.True(t, *got.RetainEmpty)
	dropped := Merge(got, Config{RetainEmpty: boolPtr(false)})
	assert.False(t, *dropped.RetainEmpty)
	assert.False(t, *Merge(dropped, Config{}).RetainEmpty)
}

func TestSplitComma(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitComma("a, b , ,c"))
	assert.Nil(t, splitComma(""))
}

func TestDefaultsClone(t *testing.T) {
	d := Defaults()
	assert.Equal(t, "fs", d.Components.Reader)
	assert.Equal(t, "line", d.Components.Splitter)
	src := []byte("abc")
	dst := cloneRaw(src)
	src[0] = 'x'
	assert.Equal(t, "abc", string(dst))
}

func TestValidateErrors(t *testing.T) {
	assert.Error(t, Validate(Config{}), "空配置应失败")
	mut := map[string]func(*Config){
		"blank input":        func(c *Config) { c.Inputs = []string{" "} },
		"bad glob":           func(c *Config) { c.Glob = "[a-" },
		"bad mode":           func(c *Config) { c.Mode = "tree" },
		"bad order":          func(c *Config) { c.Order = "random" },
		"bad level":          func(c *Config) { c.Logging.Level = "loud" },
		"bad format":         func(c *Config) { c.Logging.Format = "xml" },
		"unknown reader":     func(c *Config) { c.Components.Reader = "s3" },
		"unknown splitter":   func(c *Config) { c.Components.Splitter = "ast" },
		"unknown writer":     func(c *Config) { c.Components.Writer = "http" },
		"unknown preprocess": func(c *Config) { c.Preprocessors = []string{"stem"} },
		"unknown pre option": func(c *Config) { c.Options.Preprocessor = map[string]json.RawMessage{"stem": nil} },
		"output is dir":      func(c *Config) { c.Output = "/" },
	}
	for name, m := range mut {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultTemplateConfig()
			m(&cfg)
			assert.Error(t, Validate(cfg))
		})
	}
	// 模板本身可通过校验
	assert.NoError(t, Validate(DefaultTemplateConfig()))
}

func TestValidateGlobError(t *testing.T) {
	cfg := DefaultTemplateConfig()
	cfg.Glob = "[a-"
	assert.ErrorIs(t, Validate(cfg), contract.ErrInvalidGlob)
}

// 装配：stdout 报告，无 Writer
func TestAssembleStdout(t *testing.T) {
	cfg := DefaultTemplateConfig()
	cfg.Preprocessors = []string{"lowercase", "dedup"}
	comp, set, err := Assemble(cfg)
	require.NoError(t, err)
	assert.NotNil(t, comp.Reader)
	assert.NotNil(t, comp.Splitter)
	assert.Len(t, comp.Preprocessors, 2)
	assert.Nil(t, comp.Writer)
	assert.Equal(t, pipeline.Settings{
		Inputs:      []string{"submissions"},
		Glob:        "*",
		Mode:        pipeline.ModeDirs,
		Order:       submission.OrderName,
		RetainEmpty: true,
	}, set)
}

// retain_empty：nil 视为保留；显式 false 传入 Settings
func TestAssembleRetainEmpty(t *testing.T) {
	cfg := DefaultTemplateConfig()
	cfg.RetainEmpty = nil
	_, set, err := Assemble(cfg)
	require.NoError(t, err)
	assert.True(t, set.RetainEmpty)

	cfg.RetainEmpty = boolPtr(false)
	_, set, err = Assemble(cfg)
	require.NoError(t, err)
	assert.False(t, set.RetainEmpty)
}

// 装配：output 推导 writer 的 output_dir 与报告名
func TestAssembleOutputFile(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultTemplateConfig()
	cfg.Output = filepath.Join(dir, "reports", "run.json")
	comp, set, err := Assemble(cfg)
	require.NoError(t, err)
	require.NotNil(t, comp.Writer)
	assert.Equal(t, contract.ArtifactID("run.json"), set.ReportID)
}

func TestAssembleBadOptions(t *testing.T) {
	cfg := DefaultTemplateConfig()
	cfg.Options.Splitter = json.RawMessage(`{"nope":1}`)
	_, _, err := Assemble(cfg)
	assert.Error(t, err)

	cfg = DefaultTemplateConfig()
	cfg.Preprocessors = []string{"lowercase"}
	cfg.Options.Preprocessor = map[string]json.RawMessage{"lowercase": json.RawMessage(`{"language":"!!"}`)}
	_, _, err = Assemble(cfg)
	assert.Error(t, err)

	cfg = DefaultTemplateConfig()
	cfg.Output = "out/report.json"
	cfg.Options.Writer = json.RawMessage(`[1]`)
	_, _, err = Assemble(cfg)
	assert.Error(t, err)
}

func TestWithOutputDir(t *testing.T) {
	raw, err := withOutputDir(json.RawMessage(`{"atomic":false,"output_dir":"old"}`), "new")
	require.NoError(t, err)
	assert.JSONEq(t, `{"atomic":false,"output_dir":"new"}`, string(raw))
	raw, err = withOutputDir(nil, ".")
	require.NoError(t, err)
	assert.JSONEq(t, `{"output_dir":"."}`, string(raw))
}

// 模板写出：不覆盖已存在文件
func TestWriteTemplates(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	require.NoError(t, WriteConfigFile(cfgPath, DefaultTemplateConfig()))
	loaded, err := LoadJSON(cfgPath, nil)
	require.NoError(t, err)
	assert.NoError(t, Validate(loaded))
	assert.ErrorIs(t, WriteConfigFile(cfgPath, DefaultTemplateConfig()), os.ErrExist)

	envPath := filepath.Join(dir, ".env")
	require.NoError(t, WriteDotEnv(envPath))
	b, err := os.ReadFile(envPath)
	require.NoError(t, err)
	assert.Contains(t, string(b), "CHECKSIMS_GLOB=")
	assert.Contains(t, string(b), "CHECKSIMS_OPTIONS_PREPROCESSOR__LOWERCASE__JSON=")
	assert.Contains(t, string(b), "CHECKSIMS_OPTIONS_PREPROCESSOR__COMMONCODE__JSON=")
	assert.Contains(t, string(b), "CHECKSIMS_RETAIN_EMPTY=")

	require.NoError(t, os.WriteFile(envPath, []byte("KEEP=1\n"), 0o644))
	require.NoError(t, WriteDotEnv(envPath))
	b, err = os.ReadFile(envPath)
	require.NoError(t, err)
	assert.Equal(t, "KEEP=1\n", string(b))
}
