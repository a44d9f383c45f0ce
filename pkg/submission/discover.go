package submission

import (
	"cmp"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"checksims/pkg/contract"
)

// FromDir 将单个目录装配为一个 Submission（名称为目录基名）。
// 步骤：校验目录 → 编译 glob → 列举直接子项 → 按基名筛选非目录项 → FromFiles。
// 无命中文件时返回 ok=false 且无错误。
func (b *Builder[T]) FromDir(dir, pattern string) (Submission[T], bool, error) {
	if err := checkDir(dir); err != nil {
		return Submission[T]{}, false, err
	}
	m, err := CompileGlob(pattern)
	if err != nil {
		return Submission[T]{}, false, err
	}
	return b.fromDir(dir, m)
}

// FromDirs 对 root 的每个直接子目录执行 FromDir，收集所有非空结果。
// 任一子目录失败立即中止并原样返回该错误（不返回部分结果）。
func (b *Builder[T]) FromDirs(root, pattern string) ([]Submission[T], error) {
	if err := checkDir(root); err != nil {
		return nil, err
	}
	m, err := CompileGlob(pattern)
	if err != nil {
		return nil, err
	}
	entries, err := b.list(root)
	if err != nil {
		return nil, err
	}
	var subs []Submission[T]
	for _, e := range entries {
		p := filepath.Join(root, e.Name())
		if !isDir(p, e) {
			continue
		}
		s, ok, err := b.fromDir(p, m)
		if err != nil {
			return nil, err
		}
		if ok {
			subs = append(subs, s)
		}
	}
	return subs, nil
}

// FromDir 使用默认选项，见 (*Builder).FromDir。
func FromDir[T cmp.Ordered](dir, pattern string, reader contract.FileReader, splitter contract.Splitter[T]) (Submission[T], bool, error) {
	return NewBuilder(reader, splitter, nil).FromDir(dir, pattern)
}

// FromDirs 使用默认选项，见 (*Builder).FromDirs。
func FromDirs[T cmp.Ordered](root, pattern string, reader contract.FileReader, splitter contract.Splitter[T]) ([]Submission[T], error) {
	return NewBuilder(reader, splitter, nil).FromDirs(root, pattern)
}

func (b *Builder[T]) fromDir(dir string, m *Matcher) (Submission[T], bool, error) {
	entries, err := b.list(dir)
	if err != nil {
		return Submission[T]{}, false, err
	}
	var files []string
	for _, e := range entries {
		if !m.Match(e.Name()) {
			continue
		}
		p := filepath.Join(dir, e.Name())
		// 命中 glob 的子目录不是候选文件
		if isDir(p, e) {
			continue
		}
		files = append(files, p)
	}
	return b.FromFiles(baseName(dir), files)
}

// list 列举直接子项；OrderName 时按名称排序，否则保留原始顺序。
func (b *Builder[T]) list(dir string) ([]fs.DirEntry, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, err
	}
	if b.order != OrderFilesystem {
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	}
	return entries, nil
}

// checkDir 校验路径存在且为目录（跟随符号链接）。
func checkDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return &contract.InvalidPathError{Path: dir, Err: err}
	}
	if !info.IsDir() {
		return &contract.InvalidPathError{Path: dir}
	}
	return nil
}

// isDir 判断子项是否为目录；指向目录的符号链接同样视为目录。
func isDir(p string, e fs.DirEntry) bool {
	if e.IsDir() {
		return true
	}
	if e.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
