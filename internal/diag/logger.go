package diag

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type key struct{}

var loggingKey key

// NewLoggingContext 将 logr.Logger 放入 ctx。
func NewLoggingContext(ctx context.Context, logger logr.Logger) context.Context {
	return context.WithValue(ctx, loggingKey, logger)
}

// Logger 取出 ctx 中的 logr.Logger；未设置时返回丢弃型 Logger。
func Logger(ctx context.Context) logr.Logger {
	logger, ok := ctx.Value(loggingKey).(logr.Logger)
	if !ok {
		return logr.Discard()
	}
	return logger
}

// NewLogger 构造 zap 支撑的 logr.Logger。
// level: debug|info|warn|error；format: console|json。
// w 为空时写 stderr；调用方可传入 zapcore.NewMultiWriteSyncer 组合多个落点。
func NewLogger(name, version, level, format string, w zapcore.WriteSyncer) (logr.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return logr.Logger{}, fmt.Errorf("log config: %w", err)
	}
	var enc zapcore.Encoder
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "console":
		ec := zap.NewDevelopmentEncoderConfig()
		ec.ConsoleSeparator = " | "
		enc = zapcore.NewConsoleEncoder(ec)
	case "json":
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	default:
		return logr.Logger{}, fmt.Errorf("log config: unknown format %q", format)
	}
	if w == nil {
		w = zapcore.Lock(os.Stderr)
	}
	z := zap.New(zapcore.NewCore(enc, w, zap.NewAtomicLevelAt(lvl)))
	logger := zapr.NewLogger(z).WithName(name)
	if version != "" {
		logger = logger.WithValues("version", version)
	}
	return logger, nil
}

func parseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown level %q", s)
	}
}

// Events 在 logr.Logger 之上提供 start/finish/error 事件词汇。
// 每条事件带 corr_id/comp/stage 字段；finish 同时记录耗时指标。
type Events struct {
	log    logr.Logger
	corrID string
}

// NewEvents 绑定关联 ID。
func NewEvents(log logr.Logger, corrID string) *Events {
	return &Events{log: log.WithValues("corr_id", corrID), corrID: corrID}
}

// CorrID 返回本次运行的关联 ID。
func (l *Events) CorrID() string { return l.corrID }

// Start 记录 start 事件；返回计时器用于 Finish。
func (l *Events) Start(comp, msg string, kv ...any) *Timer {
	l.log.Info(msg, append([]any{"comp", comp, "stage", "start"}, kv...)...)
	return &Timer{l: l, comp: comp, kv: kv, t0: time.Now()}
}

// Warn 记录 warn 事件。
// logr 无 warn 级别：zap 支撑时直接以 WarnLevel 写出，level=warn 下仍可见。
func (l *Events) Warn(comp, msg string, kv ...any) {
	kv = append([]any{"comp", comp, "stage", "warn"}, kv...)
	if u, ok := l.log.GetSink().(zapr.Underlier); ok {
		u.GetUnderlying().Sugar().Warnw(msg, kv...)
		return
	}
	l.log.Info(msg, kv...)
}

// Debug 仅在 level=debug 时输出。
func (l *Events) Debug(comp, msg string, kv ...any) {
	l.log.V(1).Info(msg, append([]any{"comp", comp, "stage", "debug"}, kv...)...)
}

// Error 记录 error 事件并累加错误指标。
func (l *Events) Error(comp string, code Code, err error, msg string, since *time.Time) {
	kv := []any{"comp", comp, "stage", "error", "code", string(code)}
	if since != nil {
		kv = append(kv, "dur_ms", time.Since(*since).Milliseconds())
	}
	l.log.Error(err, msg, kv...)
	IncOp(comp, "error", "error")
	IncError(comp, string(code))
}

// Timer 用于 start→finish 计时。
type Timer struct {
	l    *Events
	comp string
	kv   []any
	t0   time.Time
}

// Since 返回起点，供 Error 计算耗时。
func (t *Timer) Since() *time.Time {
	if t == nil {
		return nil
	}
	return &t.t0
}

// Finish 记录 finish；count 为本阶段产出数量。
func (t *Timer) Finish(msg string, count int64) {
	if t == nil || t.l == nil {
		return
	}
	dur := time.Since(t.t0).Milliseconds()
	kv := append([]any{"comp", t.comp, "stage", "finish", "dur_ms", dur, "count", count}, t.kv...)
	t.l.log.Info(msg, kv...)
	IncOp(t.comp, "finish", "success")
	ObserveDuration(t.comp, "finish", dur)
}
