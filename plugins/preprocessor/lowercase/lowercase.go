package lowercase

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"checksims/pkg/contract"
)

// Options 为小写化预处理的可选配置。
type Options struct {
	// Language: BCP 47 语言标签（如 "tr"）；为空使用语言无关规则。
	Language string `json:"language"`
}

// Lowercase 将全文转为小写。
type Lowercase struct {
	tag language.Tag
}

var _ contract.Preprocessor = (*Lowercase)(nil)

// New 创建小写化预处理器；语言标签非法时返回错误。
func New(opts *Options) (*Lowercase, error) {
	l := &Lowercase{tag: language.Und}
	if opts != nil && opts.Language != "" {
		tag, err := language.Parse(opts.Language)
		if err != nil {
			return nil, fmt.Errorf("lowercase: language %q: %w", opts.Language, err)
		}
		l.tag = tag
	}
	return l, nil
}

// Process 每次调用新建 Caser（Caser 有内部状态，不可跨调用共享）。
func (l *Lowercase) Process(content string) string {
	return cases.Lower(l.tag).String(content)
}
