package diag

import (
	"github.com/prometheus/client_golang/prometheus"
)

// 指标：
// - checksims_op_total{comp,stage,result}
// - checksims_error_total{comp,code}
// - checksims_op_duration_ms{comp,stage}
// - checksims_submissions_total / checksims_tokens_total
var (
	// Registry 为进程级独立注册表，不混入默认 Go/进程指标。
	Registry = prometheus.NewRegistry()

	opTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checksims_op_total",
		Help: "Operations by component, stage and result",
	}, []string{"comp", "stage", "result"})

	errorTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checksims_error_total",
		Help: "Errors by component and classified code",
	}, []string{"comp", "code"})

	opDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checksims_op_duration_ms",
		Help:    "Stage duration in milliseconds",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	}, []string{"comp", "stage"})

	submissionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checksims_submissions_total",
		Help: "Submissions discovered",
	})

	tokensTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checksims_tokens_total",
		Help: "Tokens across all discovered submissions",
	})
)

func init() {
	Registry.MustRegister(opTotal, errorTotal, opDuration, submissionsTotal, tokensTotal)
}

// IncOp 累加操作计数（result=success|error）。
func IncOp(comp, stage, result string) {
	opTotal.WithLabelValues(comp, stage, result).Inc()
}

// IncError 按分类累加错误计数。
func IncError(comp, code string) {
	errorTotal.WithLabelValues(comp, code).Inc()
}

// ObserveDuration 记录阶段耗时（毫秒）。
func ObserveDuration(comp, stage string, durMS int64) {
	opDuration.WithLabelValues(comp, stage).Observe(float64(durMS))
}

// AddSubmission 记录一个提交及其 Token 数。
func AddSubmission(tokens int) {
	submissionsTotal.Inc()
	tokensTotal.Add(float64(tokens))
}

// WriteMetrics 以 Prometheus 文本格式写出全部指标（原子替换）。
func WriteMetrics(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
