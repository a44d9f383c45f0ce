package contract

import "cmp"

// Preprocessor: 分词前的全文变换（例如小写化、空白去重）。
// 全函数，无副作用。
type Preprocessor interface {
	Process(content string) string
}

// PreprocessorFunc 将普通函数适配为 Preprocessor。
type PreprocessorFunc func(content string) string

func (f PreprocessorFunc) Process(content string) string { return f(content) }

// Preprocess 返回先按序执行 procs、再调用 s 的 Splitter。
// procs 为空时原样返回 s。
func Preprocess[T cmp.Ordered](s Splitter[T], procs ...Preprocessor) Splitter[T] {
	if len(procs) == 0 {
		return s
	}
	chain := make([]Preprocessor, len(procs))
	copy(chain, procs)
	return SplitterFunc[T](func(content string) []Token[T] {
		for _, p := range chain {
			content = p.Process(content)
		}
		return s.SplitFile(content)
	})
}
