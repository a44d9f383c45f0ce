package whitespace

import (
	"strings"

	"checksims/pkg/contract"
)

// Type 为本拆分器产出的 Token 类别。
const Type contract.TokenType = "whitespace"

// Options 当前无配置项，保留以支持严格解码。
type Options struct{}

// Splitter 按任意连续空白拆分。
type Splitter struct{}

var _ contract.Splitter[string] = (*Splitter)(nil)

func New(*Options) *Splitter { return &Splitter{} }

func (s *Splitter) SplitFile(content string) []contract.Token[string] {
	fields := strings.Fields(content)
	out := make([]contract.Token[string], len(fields))
	for i, f := range fields {
		out[i] = contract.NewToken(f, Type)
	}
	return out
}
