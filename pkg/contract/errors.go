package contract

import (
	"errors"
	"fmt"
	"path/filepath"
)

// 最小错误分类。
var (
	// ErrInvalidPath: 目标路径不存在或不是目录。
	ErrInvalidPath = errors.New("directory does not exist or is not a directory")
	// ErrInvalidGlob: glob 模式无法编译。
	ErrInvalidGlob = errors.New("invalid glob pattern")
	// ErrInvalidInput: 入参违反不变量（例如空名称）。
	ErrInvalidInput = errors.New("invalid input")
	// ErrFileTooLarge: 文件超出 Reader 配置的字节上限。
	ErrFileTooLarge = errors.New("file too large")
	// ErrPathInvalid: 工件标识映射为无效/越界路径（绝对路径或 '..' 逃逸）。
	ErrPathInvalid = errors.New("path invalid")
)

// InvalidPathError: 目录校验失败（发生在任何列举/读取之前）。
type InvalidPathError struct {
	Path string
	// Err 为底层 Stat 错误；路径存在但不是目录时为 nil。
	Err error
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("directory %s does not exist or is not a directory", filepath.Base(e.Path))
}

// Unwrap 同时暴露哨兵与底层错误，便于 errors.Is 判定。
func (e *InvalidPathError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidPath}
	}
	return []error{ErrInvalidPath, e.Err}
}
