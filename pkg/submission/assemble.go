package submission

import (
	"cmp"
	"fmt"
	"path/filepath"

	"checksims/pkg/contract"
)

// Order: 目录列举顺序策略。
type Order string

const (
	// OrderName 按名称字典序（默认，结果可复现）。
	OrderName Order = "name"
	// OrderFilesystem 保留文件系统原始列举顺序（依赖平台）。
	OrderFilesystem Order = "filesystem"
)

// Options 为 Builder 的可选配置（最小必要）。
type Options struct {
	// Order: 子目录与文件的处理顺序；空值等价于 OrderName。
	Order Order
	// Preprocessors: 分词前按序执行的全文变换。
	Preprocessors []contract.Preprocessor
}

// Builder 持有外部协作者，负责装配与发现。
// 无可变状态，可在不相交的目录树上并发复用。
type Builder[T cmp.Ordered] struct {
	reader   contract.FileReader
	splitter contract.Splitter[T]
	order    Order
}

// NewBuilder 创建 Builder。reader 与 splitter 必须非空。
func NewBuilder[T cmp.Ordered](reader contract.FileReader, splitter contract.Splitter[T], opts *Options) *Builder[T] {
	b := &Builder[T]{reader: reader, splitter: splitter, order: OrderName}
	if opts != nil {
		if opts.Order != "" {
			b.order = opts.Order
		}
		b.splitter = contract.Preprocess(splitter, opts.Preprocessors...)
	}
	return b
}

// FromFiles 依次读取并拆分 files，拼接为一个 Submission。
// - files 为空：返回 ok=false 且无错误（无可装配内容）；
// - 任一文件读取失败：丢弃已累积 Token，原样返回该错误；
// - 非空 files 但 name 为空：ErrInvalidInput。
func (b *Builder[T]) FromFiles(name string, files []string) (Submission[T], bool, error) {
	if len(files) == 0 {
		return Submission[T]{}, false, nil
	}
	if name == "" {
		return Submission[T]{}, false, fmt.Errorf("%w: submission name cannot be empty", contract.ErrInvalidInput)
	}
	var tokens []contract.Token[T]
	ids := make([]contract.FileID, 0, len(files))
	for _, f := range files {
		content, err := b.reader.ReadFile(f)
		if err != nil {
			return Submission[T]{}, false, err
		}
		tokens = append(tokens, b.splitter.SplitFile(content)...)
		ids = append(ids, contract.NormalizeFileID(f))
	}
	return newOwned(name, tokens, ids), true, nil
}

// FromFiles 使用默认选项装配，见 (*Builder).FromFiles。
func FromFiles[T cmp.Ordered](name string, files []string, reader contract.FileReader, splitter contract.Splitter[T]) (Submission[T], bool, error) {
	return NewBuilder(reader, splitter, nil).FromFiles(name, files)
}

// baseName 返回目录基名；"." 等相对根解析为绝对路径后取基名。
func baseName(dir string) string {
	name := filepath.Base(dir)
	if name == "." || name == ".." || name == string(filepath.Separator) {
		if abs, err := filepath.Abs(dir); err == nil {
			name = filepath.Base(abs)
		}
	}
	return name
}
