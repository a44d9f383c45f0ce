package filesystem

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"checksims/pkg/contract"
)

// ErrNotRegular: 目标不是常规文件（目录、FIFO、设备等）。
var ErrNotRegular = errors.New("not a regular file")

// Options 为 FileSystem Reader 的可选配置（最小必要）。
type Options struct {
	// BufSize 为读缓冲区大小（字节）。默认 64KiB。
	BufSize int `json:"buf_size"`
	// MaxBytes: 单文件最大字节数。0 表示不限制。
	MaxBytes int64 `json:"max_bytes"`
	// NormalizeNewlines: 将 CRLF/CR 统一为 LF。默认保留原文。
	NormalizeNewlines bool `json:"normalize_newlines"`
	// ValidateUTF8: 非法 UTF-8 时返回错误。默认不校验。
	ValidateUTF8 bool `json:"validate_utf8"`
}

// FileSystem 实现基于本地文件系统的 FileReader。
// 约束：只读；句柄仅在单次 ReadFile 内存活；跟随指向常规文件的符号链接。
type FileSystem struct {
	bufSize   int
	maxBytes  int64
	normalize bool
	validate  bool
}

var _ contract.FileReader = (*FileSystem)(nil)

// New 创建 FileSystem Reader。
func New(opts *Options) *FileSystem {
	const defaultBuf = 64 * 1024
	r := &FileSystem{bufSize: defaultBuf}
	if opts == nil {
		return r
	}
	if opts.BufSize > 0 {
		r.bufSize = opts.BufSize
	}
	if opts.MaxBytes > 0 {
		r.maxBytes = opts.MaxBytes
	}
	r.normalize = opts.NormalizeNewlines
	r.validate = opts.ValidateUTF8
	return r
}

// ReadFile 读取 path 的完整文本。
func (r *FileSystem) ReadFile(path string) (string, error) {
	// os.Stat 跟随符号链接；失效链接在此返回错误
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", &fs.PathError{Op: "read", Path: path, Err: ErrNotRegular}
	}
	if r.maxBytes > 0 && info.Size() > r.maxBytes {
		return "", fmt.Errorf("%w: %s is %d bytes (max %d)", contract.ErrFileTooLarge, path, info.Size(), r.maxBytes)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var src io.Reader = bufio.NewReaderSize(f, r.bufSize)
	if r.maxBytes > 0 {
		// 读取期间文件可能增长，多读 1 字节用于判定越界
		src = io.LimitReader(src, r.maxBytes+1)
	}
	b, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}
	if r.maxBytes > 0 && int64(len(b)) > r.maxBytes {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", contract.ErrFileTooLarge, path, r.maxBytes)
	}
	s := string(b)
	if r.validate && !utf8.ValidString(s) {
		return "", fmt.Errorf("%w: invalid UTF-8 in %s", contract.ErrInvalidInput, path)
	}
	if r.normalize {
		s = normalizeNewlines(s)
	}
	return s, nil
}

// normalizeNewlines 归一 CRLF→LF、CR→LF。
func normalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
