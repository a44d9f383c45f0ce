package line

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSplitLines 去空白并丢弃空行。
func TestSplitLines(t *testing.T) {
	got := New(nil).SplitFile("  int a;\r\n\n\t\nreturn a;  \n")
	require.Len(t, got, 2)
	assert.Equal(t, "int a;", got[0].Lexeme)
	assert.Equal(t, "return a;", got[1].Lexeme)
	assert.Equal(t, Type, got[0].Type)
	assert.True(t, got[0].Valid)
}

// TestSplitLinesKeepEmpty 保留空行。
func TestSplitLinesKeepEmpty(t *testing.T) {
	got := New(&Options{KeepEmpty: true}).SplitFile("a\n\nb")
	require.Len(t, got, 3)
	assert.Equal(t, "", got[1].Lexeme)
}

// TestSplitLinesWhitespaceOnly 仅含空白的行按空行处理：默认丢弃，KeepEmpty 时为空 Token。
func TestSplitLinesWhitespaceOnly(t *testing.T) {
	content := "a\n   \n\t\r\nb\r\n\r\n"
	got := New(nil).SplitFile(content)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[1].Lexeme)

	kept := New(&Options{KeepEmpty: true}).SplitFile(content)
	require.Len(t, kept, 6)
	assert.Equal(t, "", kept[1].Lexeme)
	assert.Equal(t, "", kept[2].Lexeme)
}

// TestSplitLinesEmpty 空内容无 Token。
func TestSplitLinesEmpty(t *testing.T) {
	assert.Empty(t, New(nil).SplitFile(""))
}
