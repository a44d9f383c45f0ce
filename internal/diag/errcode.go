package diag

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"checksims/pkg/contract"
)

// Code 是最小错误分类代码。
// 仅用于日志/指标汇总，与退出码解耦。
type Code string

const (
	CodeUnknown     Code = "unknown"
	CodeInvalidPath Code = "invalid_path"
	CodeInvariant   Code = "invariant"
	CodeCancel      Code = "cancel"
	CodeIO          Code = "io"
)

// Classify 将错误归为最小分类。
// 仅依赖哨兵错误与标准库错误类型，不做字符串匹配。
func Classify(err error) Code {
	if err == nil {
		return CodeUnknown
	}
	// 取消/超时优先
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return CodeCancel
	}
	// 根/子目录校验失败；须先于 *fs.PathError 判定（InvalidPathError 同时包裹 stat 错误）
	if errors.Is(err, contract.ErrInvalidPath) {
		return CodeInvalidPath
	}
	if errors.Is(err, contract.ErrInvalidInput) ||
		errors.Is(err, contract.ErrInvalidGlob) ||
		errors.Is(err, contract.ErrPathInvalid) {
		return CodeInvariant
	}
	if errors.Is(err, contract.ErrFileTooLarge) {
		return CodeIO
	}
	var perr *fs.PathError
	if errors.As(err, &perr) {
		return CodeIO
	}
	return CodeUnknown
}

// NowUTC 返回 RFC3339 UTC 时间字符串。
func NowUTC() string { return time.Now().UTC().Format(time.RFC3339) }
