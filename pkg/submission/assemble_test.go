package submission

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checksims/pkg/contract"
)

// TestFromFilesConcatenatesInOrder Token 数等于各文件之和，顺序为文件顺序。
func TestFromFilesConcatenatesInOrder(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"b.txt": "b1 b2", "a.txt": "a1", "c.txt": "c1 c2 c3"})
	files := []string{filepath.Join(dir, "b.txt"), filepath.Join(dir, "a.txt"), filepath.Join(dir, "c.txt")}

	r := &osReader{}
	s, ok, err := NewBuilder[string](r, fieldsSplitter, nil).FromFiles("alice", files)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 6, s.TokenCount())
	assert.Equal(t, []string{"b1", "b2", "a1", "c1", "c2", "c3"}, lexemes(s.Tokens()))
	assert.Equal(t, files, r.calls)
	require.Len(t, s.Files(), 3)
	assert.True(t, strings.HasSuffix(string(s.Files()[0]), "/b.txt"))
}

// TestFromFilesEmptyIsAbsent 空文件集返回“无提交”，不是错误。
func TestFromFilesEmptyIsAbsent(t *testing.T) {
	r := &osReader{}
	s, ok, err := FromFiles[string]("alice", nil, r, fieldsSplitter)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, s.TokenCount())
	assert.Empty(t, r.calls)

	// 空名称 + 空文件集同样是“无提交”
	_, ok, err = FromFiles[string]("", []string{}, r, fieldsSplitter)
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestFromFilesReadErrorPropagates 读取失败原样返回，后续文件不再读取。
func TestFromFilesReadErrorPropagates(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": "a", "b.txt": "b", "c.txt": "c"})
	boom := errors.New("boom")
	r := &osReader{failOn: "b.txt", err: boom}
	files := []string{filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt"), filepath.Join(dir, "c.txt")}

	s, ok, err := FromFiles[string]("alice", files, r, fieldsSplitter)
	assert.ErrorIs(t, err, boom)
	assert.False(t, ok)
	assert.Equal(t, 0, s.TokenCount())
	assert.Len(t, r.calls, 2)
}

// TestFromFilesMissingFile 文件不存在时返回底层 I/O 错误。
func TestFromFilesMissingFile(t *testing.T) {
	_, _, err := FromFiles[string]("alice", []string{filepath.Join(t.TempDir(), "nope.txt")}, &osReader{}, fieldsSplitter)
	require.Error(t, err)
	assert.False(t, errors.Is(err, contract.ErrInvalidPath))
}

// TestFromFilesEmptyName 非空文件集要求非空名称。
func TestFromFilesEmptyName(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": "a"})
	_, _, err := FromFiles[string]("", []string{filepath.Join(dir, "a.txt")}, &osReader{}, fieldsSplitter)
	assert.ErrorIs(t, err, contract.ErrInvalidInput)
}

// TestBuilderPreprocessors 预处理在拆分前执行。
func TestBuilderPreprocessors(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": "Hello World"})
	b := NewBuilder[string](&osReader{}, fieldsSplitter, &Options{
		Preprocessors: []contract.Preprocessor{contract.PreprocessorFunc(strings.ToLower)},
	})
	s, ok, err := b.FromFiles("alice", []string{filepath.Join(dir, "a.txt")})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"hello", "world"}, lexemes(s.Tokens()))
}
