package char

import (
	"unicode"

	"checksims/pkg/contract"
)

// Type 为本拆分器产出的 Token 类别。
const Type contract.TokenType = "character"

// Options 为字符拆分器的可选配置。
type Options struct {
	// SkipWhitespace: 丢弃空白字符。默认保留全部字符。
	SkipWhitespace bool `json:"skip_whitespace"`
}

// Splitter 每个 Unicode 码点一个 Token（非法 UTF-8 字节记为 U+FFFD）。
type Splitter struct {
	skipSpace bool
}

var _ contract.Splitter[string] = (*Splitter)(nil)

func New(opts *Options) *Splitter {
	s := &Splitter{}
	if opts != nil {
		s.skipSpace = opts.SkipWhitespace
	}
	return s
}

func (s *Splitter) SplitFile(content string) []contract.Token[string] {
	out := make([]contract.Token[string], 0, len(content))
	for _, r := range content {
		if s.skipSpace && unicode.IsSpace(r) {
			continue
		}
		out = append(out, contract.NewToken(string(r), Type))
	}
	return out
}
