package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"checksims/internal/pipeline"
	"checksims/pkg/contract"
	"checksims/pkg/registry"
	"checksims/pkg/submission"
)

// Validate 对最小必要边界做静态校验。
func Validate(cfg Config) error {
	if len(cfg.Inputs) == 0 {
		return errors.New("config: inputs empty")
	}
	for _, r := range cfg.Inputs {
		if strings.TrimSpace(r) == "" {
			return errors.New("config: input path cannot be empty")
		}
	}
	if _, err := submission.CompileGlob(effName(cfg.Glob, Defaults().Glob)); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch effName(cfg.Mode, Defaults().Mode) {
	case pipeline.ModeDirs, pipeline.ModeDir:
	default:
		return fmt.Errorf("config: mode %q must be %q or %q", cfg.Mode, pipeline.ModeDirs, pipeline.ModeDir)
	}
	switch submission.Order(effName(cfg.Order, Defaults().Order)) {
	case submission.OrderName, submission.OrderFilesystem:
	default:
		return fmt.Errorf("config: order %q must be %q or %q", cfg.Order, submission.OrderName, submission.OrderFilesystem)
	}
	switch strings.ToLower(cfg.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: logging.level %q invalid", cfg.Logging.Level)
	}
	switch strings.ToLower(cfg.Logging.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("config: logging.format %q invalid", cfg.Logging.Format)
	}
	// 组件名若为空，使用默认名（由 Defaults() 提供）。此处只要最终有值即可。
	if name := effName(cfg.Components.Reader, Defaults().Components.Reader); registry.Reader[name] == nil {
		return fmt.Errorf("config: reader %q not registered", name)
	}
	if name := effName(cfg.Components.Splitter, Defaults().Components.Splitter); registry.Splitter[name] == nil {
		return fmt.Errorf("config: splitter %q not registered", name)
	}
	if name := effName(cfg.Components.Writer, Defaults().Components.Writer); registry.Writer[name] == nil {
		return fmt.Errorf("config: writer %q not registered", name)
	}
	for _, name := range cfg.Preprocessors {
		if registry.Preprocessor[name] == nil {
			return fmt.Errorf("config: preprocessor %q not registered", name)
		}
	}
	for name := range cfg.Options.Preprocessor {
		if registry.Preprocessor[name] == nil {
			return fmt.Errorf("config: options for unknown preprocessor %q", name)
		}
	}
	if out := strings.TrimSpace(cfg.Output); out != "" && out != "-" {
		if base := filepath.Base(out); base == "." || base == string(filepath.Separator) {
			return fmt.Errorf("config: output %q must name a file", cfg.Output)
		}
	}
	return nil
}

// Assemble 构造 Components 与 Settings。
// 严格 Options 解析在 registry（工厂）层进行；此处只传 raw JSON。
// Output 非空时，其父目录注入 writer options 的 output_dir，基名作为报告工件名。
func Assemble(cfg Config) (pipeline.Components, pipeline.Settings, error) {
	if err := Validate(cfg); err != nil {
		return pipeline.Components{}, pipeline.Settings{}, err
	}

	d := Defaults()
	rn := effName(cfg.Components.Reader, d.Components.Reader)
	sn := effName(cfg.Components.Splitter, d.Components.Splitter)
	wn := effName(cfg.Components.Writer, d.Components.Writer)

	r, err := registry.Reader[rn](cfg.Options.Reader)
	if err != nil {
		return pipeline.Components{}, pipeline.Settings{}, fmt.Errorf("reader %s: %w", rn, err)
	}
	s, err := registry.Splitter[sn](cfg.Options.Splitter)
	if err != nil {
		return pipeline.Components{}, pipeline.Settings{}, fmt.Errorf("splitter %s: %w", sn, err)
	}
	pre := make([]contract.Preprocessor, 0, len(cfg.Preprocessors))
	for _, name := range cfg.Preprocessors {
		p, err := registry.Preprocessor[name](cfg.Options.Preprocessor[name])
		if err != nil {
			return pipeline.Components{}, pipeline.Settings{}, fmt.Errorf("preprocessor %s: %w", name, err)
		}
		pre = append(pre, p)
	}

	comp := pipeline.Components{Reader: r, Splitter: s, Preprocessors: pre}
	set := pipeline.Settings{
		Inputs:      cloneStrings(cfg.Inputs),
		Glob:        effName(cfg.Glob, d.Glob),
		Mode:        effName(cfg.Mode, d.Mode),
		Order:       submission.Order(effName(cfg.Order, d.Order)),
		RetainEmpty: cfg.RetainEmpty == nil || *cfg.RetainEmpty,
	}

	if out := strings.TrimSpace(cfg.Output); out != "" && out != "-" {
		raw, err := withOutputDir(cfg.Options.Writer, filepath.Dir(out))
		if err != nil {
			return pipeline.Components{}, pipeline.Settings{}, fmt.Errorf("writer %s: %w", wn, err)
		}
		w, err := registry.Writer[wn](raw)
		if err != nil {
			return pipeline.Components{}, pipeline.Settings{}, fmt.Errorf("writer %s: %w", wn, err)
		}
		comp.Writer = w
		set.ReportID = contract.ArtifactID(filepath.Base(out))
	}
	return comp, set, nil
}

// withOutputDir 在 writer options 中写入 output_dir（覆盖已有值），其余键原样保留。
func withOutputDir(raw json.RawMessage, dir string) (json.RawMessage, error) {
	m := map[string]json.RawMessage{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
	}
	v, err := json.Marshal(dir)
	if err != nil {
		return nil, err
	}
	m["output_dir"] = v
	return json.Marshal(m)
}

func effName(got, def string) string {
	if strings.TrimSpace(got) == "" {
		return def
	}
	return got
}
