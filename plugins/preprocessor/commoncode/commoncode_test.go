package commoncode

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checksims/pkg/contract"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// TestRemoveCommonLines 与公共代码相同的行被删除，其余行与空行保留。
func TestRemoveCommonLines(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "skeleton")
	writeFile(t, filepath.Join(dir, "Main.java"), "public class Main {\n  // TODO\n}\n")
	writeFile(t, filepath.Join(dir, "README.md"), "ignored line\n")

	r, err := New(&Options{CommonDir: dir, Glob: "*.java"})
	require.NoError(t, err)
	assert.Equal(t, "skeleton", r.Name())
	assert.Equal(t, 3, r.Len())

	got := r.Process("public class Main {\r\n\n    int x = 1;\n    // TODO\n}\nignored line\n}")
	assert.Equal(t, "\n    int x = 1;\nignored line\n", got)
}

// TestNoCommonDir 未配置目录时原样返回。
func TestNoCommonDir(t *testing.T) {
	for _, opts := range []*Options{nil, {}, {CommonDir: "  "}} {
		r, err := New(opts)
		require.NoError(t, err)
		assert.Zero(t, r.Len())
		assert.Equal(t, "a\nb\n", r.Process("a\nb\n"))
	}
}

// TestCommonDirNoMatch 目录内无匹配文件：空集合。
func TestCommonDirNoMatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "notes.txt"), "x\n")
	r, err := New(&Options{CommonDir: dir, Glob: "*.java"})
	require.NoError(t, err)
	assert.Zero(t, r.Len())
	assert.Equal(t, "x\n", r.Process("x\n"))
}

// TestCommonDirInvalid 目录不存在或为文件时报 ErrInvalidPath。
func TestCommonDirInvalid(t *testing.T) {
	_, err := New(&Options{CommonDir: filepath.Join(t.TempDir(), "missing")})
	assert.ErrorIs(t, err, contract.ErrInvalidPath)

	f := filepath.Join(t.TempDir(), "file.java")
	writeFile(t, f, "x\n")
	_, err = New(&Options{CommonDir: f})
	assert.ErrorIs(t, err, contract.ErrInvalidPath)

	_, err = New(&Options{CommonDir: t.TempDir(), Glob: "[a-"})
	assert.ErrorIs(t, err, contract.ErrInvalidGlob)
}
