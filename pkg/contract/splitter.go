package contract

import "cmp"

// Splitter: 将单文件全文拆分为有序 Token 序列。
// 约束：
// 1) 全函数：不返回错误，无法识别的输入由实现自行丢弃；
// 2) 输出顺序即文件内顺序；
// 3) 无内部并发、幂等；
// 4) 返回的切片归调用方所有。
type Splitter[T cmp.Ordered] interface {
	SplitFile(content string) []Token[T]
}

// SplitterFunc 将普通函数适配为 Splitter。
type SplitterFunc[T cmp.Ordered] func(content string) []Token[T]

func (f SplitterFunc[T]) SplitFile(content string) []Token[T] { return f(content) }
