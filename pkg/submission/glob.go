package submission

import (
	"fmt"

	"github.com/gobwas/glob"

	"checksims/pkg/contract"
)

// Matcher: 编译后的文件名匹配器，仅匹配基名（不含目录）。
type Matcher struct {
	pattern string
	g       glob.Glob
}

// CompileGlob 编译 glob 模式。
// 语法：* ? [abc] [!a-z] {a,b}；分隔符为 '/'，因此 * 不跨越目录。
func CompileGlob(pattern string) (*Matcher, error) {
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", contract.ErrInvalidGlob, pattern, err)
	}
	return &Matcher{pattern: pattern, g: g}, nil
}

// Match 判断基名是否命中。
func (m *Matcher) Match(name string) bool { return m.g.Match(name) }

func (m *Matcher) String() string { return m.pattern }
