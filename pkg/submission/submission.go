package submission

import (
	"cmp"
	"fmt"
	"slices"

	"checksims/pkg/contract"
)

// Submission: 一方提交的不可变命名 Token 序列。
// 约束：
// 1) 构造后 tokens 不再修改；
// 2) 每次读取序列均返回独立副本（O(n)，以安全换速度）；
// 3) 零值表示“无提交”，仅作为 ok=false 时的占位。
type Submission[T cmp.Ordered] struct {
	name   string
	tokens []contract.Token[T]
	files  []contract.FileID
}

// New 构造 Submission；tokens 在构造时拷贝，调用方后续修改不影响内部状态。
func New[T cmp.Ordered](name string, tokens []contract.Token[T]) Submission[T] {
	return Submission[T]{name: name, tokens: slices.Clone(tokens)}
}

// newOwned 接管 tokens/files 的所有权（仅供装配流程使用，调用方不得再持有引用）。
func newOwned[T cmp.Ordered](name string, tokens []contract.Token[T], files []contract.FileID) Submission[T] {
	return Submission[T]{name: name, tokens: tokens, files: files}
}

func (s Submission[T]) Name() string { return s.name }

// Tokens 返回 Token 序列的新副本。
func (s Submission[T]) Tokens() []contract.Token[T] {
	out := make([]contract.Token[T], len(s.tokens))
	copy(out, s.tokens)
	return out
}

func (s Submission[T]) TokenCount() int { return len(s.tokens) }

// Files 返回参与装配的文件（按装配顺序）的副本。
func (s Submission[T]) Files() []contract.FileID {
	out := make([]contract.FileID, len(s.files))
	copy(out, s.files)
	return out
}

// Equal: 名称相同且 Token 数相同即视为相等。
// 注意：不比较 Token 内容（已知的弱相等）。
func (s Submission[T]) Equal(o Submission[T]) bool {
	return s.name == o.name && len(s.tokens) == len(o.tokens)
}

func (s Submission[T]) String() string {
	return fmt.Sprintf("A submission with name %s and %d tokens", s.name, len(s.tokens))
}
