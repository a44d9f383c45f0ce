package lowercase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLowercase 默认语言无关规则。
func TestLowercase(t *testing.T) {
	l, err := New(nil)
	require.NoError(t, err)
	assert.Equal(t, "public class main { straße }", l.Process("PUBLIC Class Main { straße }"))
	assert.Equal(t, "école", l.Process("ÉCOLE"))
	// 可重复调用
	assert.Equal(t, "abc", l.Process("ABC"))
}

// TestLowercaseTurkish 土耳其语 I 的特殊规则。
func TestLowercaseTurkish(t *testing.T) {
	l, err := New(&Options{Language: "tr"})
	require.NoError(t, err)
	assert.Equal(t, "ıi", l.Process("Iİ"))
}

// TestLowercaseBadLanguage 非法语言标签。
func TestLowercaseBadLanguage(t *testing.T) {
	_, err := New(&Options{Language: "not a tag!"})
	assert.Error(t, err)
}
