package char

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSplitChars 按码点拆分，多字节字符为一个 Token。
func TestSplitChars(t *testing.T) {
	got := New(nil).SplitFile("aé 中")
	require.Len(t, got, 4)
	assert.Equal(t, "é", got[1].Lexeme)
	assert.Equal(t, " ", got[2].Lexeme)
	assert.Equal(t, "中", got[3].Lexeme)
	assert.Equal(t, Type, got[0].Type)
}

// TestSplitCharsSkipWhitespace 丢弃空白字符。
func TestSplitCharsSkipWhitespace(t *testing.T) {
	got := New(&Options{SkipWhitespace: true}).SplitFile("A C\nG\tT")
	require.Len(t, got, 4)
	assert.Equal(t, "G", got[2].Lexeme)
}
