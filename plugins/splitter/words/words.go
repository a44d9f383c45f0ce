package words

import (
	"regexp"
	"strings"

	"checksims/pkg/contract"
)

// Type 为本拆分器产出的 Token 类别。
const Type contract.TokenType = "words"

// Options 为单词拆分器的可选配置。
type Options struct {
	// Unicode: 以 Unicode 字母/数字定义单词。默认仅 ASCII [A-Za-z0-9]。
	Unicode bool `json:"unicode"`
}

var (
	asciiSep   = regexp.MustCompile(`[^A-Za-z0-9\-]+`)
	unicodeSep = regexp.MustCompile(`[^\p{L}\p{N}\-]+`)
)

// Splitter 以字母、数字与连字符组成单词，其余字符均视为分隔。
// 单独出现的连字符（如 "a - b"）不构成单词。
type Splitter struct {
	sep *regexp.Regexp
}

var _ contract.Splitter[string] = (*Splitter)(nil)

func New(opts *Options) *Splitter {
	if opts != nil && opts.Unicode {
		return &Splitter{sep: unicodeSep}
	}
	return &Splitter{sep: asciiSep}
}

func (s *Splitter) SplitFile(content string) []contract.Token[string] {
	fields := strings.Fields(s.sep.ReplaceAllString(content, " "))
	out := make([]contract.Token[string], 0, len(fields))
	for _, f := range fields {
		// 纯连字符字段（"-"、"--"）无论位置一律丢弃
		if strings.Trim(f, "-") == "" {
			continue
		}
		out = append(out, contract.NewToken(f, Type))
	}
	return out
}
