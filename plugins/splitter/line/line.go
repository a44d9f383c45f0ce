package line

import (
	"strings"

	"checksims/pkg/contract"
)

// Type 为本拆分器产出的 Token 类别。
const Type contract.TokenType = "line"

// Options 为行拆分器的可选配置。
type Options struct {
	// KeepEmpty: 保留去空白后为空的行。默认丢弃。
	KeepEmpty bool `json:"keep_empty"`
}

// Splitter 按 '\n' 拆分，每行去首尾空白后作为一个 Token。
type Splitter struct {
	keepEmpty bool
}

var _ contract.Splitter[string] = (*Splitter)(nil)

// New 创建行拆分器。
func New(opts *Options) *Splitter {
	s := &Splitter{}
	if opts != nil {
		s.keepEmpty = opts.KeepEmpty
	}
	return s
}

func (s *Splitter) SplitFile(content string) []contract.Token[string] {
	lines := strings.Split(content, "\n")
	out := make([]contract.Token[string], 0, len(lines))
	for _, l := range lines {
		// 先去空白再判空：仅含空白的行与空行同样丢弃（CRLF 下的空行亦然）
		l = strings.TrimSpace(l)
		if l == "" && !s.keepEmpty {
			continue
		}
		out = append(out, contract.NewToken(l, Type))
	}
	return out
}
