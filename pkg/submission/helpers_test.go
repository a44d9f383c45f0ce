package submission

import (
	"cmp"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"checksims/pkg/contract"
)

// fieldsSplitter 按空白拆分，每个字段一个 Token。
var fieldsSplitter = contract.SplitterFunc[string](func(s string) []contract.Token[string] {
	var out []contract.Token[string]
	for _, f := range strings.Fields(s) {
		out = append(out, contract.NewToken(f, "whitespace"))
	}
	return out
})

// osReader 直接读取文件并记录调用路径。
type osReader struct {
	calls []string
	// failOn 非空时，路径包含该子串即返回 err。
	failOn string
	err    error
}

func (r *osReader) ReadFile(p string) (string, error) {
	r.calls = append(r.calls, p)
	if r.failOn != "" && strings.Contains(p, r.failOn) {
		return "", r.err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// writeTree 在 root 下按 "rel/path" → 内容 创建文件。
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func lexemes[T cmp.Ordered](tokens []contract.Token[T]) []T {
	out := make([]T, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Lexeme
	}
	return out
}
