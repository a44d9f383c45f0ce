package contract

import "cmp"

// Token: 比较的基本单元。
// 约束：
// 1) Lexeme 仅要求可比较/可排序，核心流程不读取其内容；
// 2) 新建 Token 默认有效（Valid=true）；
// 3) 值语义，复制即独立。
type Token[T cmp.Ordered] struct {
	Lexeme T
	Type   TokenType
	Valid  bool
}

// NewToken 构造一个有效 Token。
func NewToken[T cmp.Ordered](lexeme T, typ TokenType) Token[T] {
	return Token[T]{Lexeme: lexeme, Type: typ, Valid: true}
}

// Equal: 类型与词素相等即相等，忽略有效性。
func (t Token[T]) Equal(o Token[T]) bool {
	return t.Type == o.Type && t.Lexeme == o.Lexeme
}

// EqualValid: 在 Equal 基础上要求双方均有效。
// 两个相同但无效的 Token 返回 false（不满足自反性，慎用）。
func (t Token[T]) EqualValid(o Token[T]) bool {
	if !t.Valid || !o.Valid {
		return false
	}
	return t.Equal(o)
}

// Invalidate 返回标记为无效的副本。
func (t Token[T]) Invalidate() Token[T] {
	t.Valid = false
	return t
}

// Compare 先按类型、再按词素排序。
func (t Token[T]) Compare(o Token[T]) int {
	if c := cmp.Compare(t.Type, o.Type); c != 0 {
		return c
	}
	return cmp.Compare(t.Lexeme, o.Lexeme)
}
