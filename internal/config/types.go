package config

import (
	"encoding/json"
)

// Config: 运行期只读配置（一次解析，运行期不变）。
// JSON 使用 snake_case；未知字段在解析期失败。
type Config struct {
	// Inputs: 待发现的根目录。
	Inputs []string `json:"inputs"`
	// Glob: 文件名匹配模式（仅匹配基名）。
	Glob string `json:"glob"`
	// Mode: dirs 表示每个子目录一个提交；dir 表示根目录本身为一个提交。
	Mode string `json:"mode"`
	// Order: name（按名排序）或 filesystem（目录读取原序）。
	Order string `json:"order"`
	// Preprocessors: 按序串联在 Splitter 之前的预处理器名称。
	Preprocessors []string `json:"preprocessors"`
	// RetainEmpty: 保留 Token 为空的提交。nil 视为 true；false 时丢弃并记 warn。
	RetainEmpty *bool `json:"retain_empty,omitempty"`
	// Output: 报告文件路径；为空或 "-" 时写 stdout。
	Output string `json:"output"`
	// MetricsFile: 非空时在运行结束后写出 Prometheus 文本格式指标。
	MetricsFile string  `json:"metrics_file"`
	Logging     Logging `json:"logging"`

	// 组件名选择（空则使用默认名）。
	Components Components `json:"components"`

	// 各组件 Options 子树，原样 JSON 传入工厂。
	Options Options `json:"options"`
}

// Logging: 日志等级、格式与轮转文件目录（"-" 表示仅写 stderr）。
type Logging struct {
	Level  string `json:"level"`
	Format string `json:"format"`
	Dir    string `json:"dir"`
}

// Components: 组件名选择（注册表中的实现名）。
type Components struct {
	Reader   string `json:"reader"`
	Splitter string `json:"splitter"`
	Writer   string `json:"writer"`
}

// Options: 各组件的原样 JSON Options。
type Options struct {
	Reader   json.RawMessage `json:"reader"`
	Splitter json.RawMessage `json:"splitter"`
	Writer   json.RawMessage `json:"writer"`
	// Preprocessor: 按预处理器名称索引。
	Preprocessor map[string]json.RawMessage `json:"preprocessor"`
}
