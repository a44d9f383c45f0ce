package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-logr/logr"

	"checksims/internal/diag"
	"checksims/pkg/contract"
	"checksims/pkg/submission"
)

// - 单线程：按 Inputs 顺序逐根发现，根之间检查 ctx。
// - 首错返回：任一根失败即中止，不输出部分报告。
// - 报告：全部根成功后一次性写出（Writer 或 stdout）。

const (
	// ModeDirs: 根下每个直接子目录为一个提交。
	ModeDirs = "dirs"
	// ModeDir: 根目录本身为一个提交。
	ModeDir = "dir"

	// LargeTokenCount: 超过该 Token 数的提交记 warn（比对代价显著上升）。
	LargeTokenCount = 7500
)

// Components 聚合运行所需的原子组件。
type Components struct {
	Reader        contract.FileReader
	Splitter      contract.Splitter[string]
	Preprocessors []contract.Preprocessor
	// Writer 为空时报告写入 Settings.Stdout。
	Writer contract.Writer
}

// Settings 运行期配置（最小必要）。
type Settings struct {
	Inputs []string
	Glob   string
	Mode   string
	Order  submission.Order
	// RetainEmpty: 保留 Token 数为 0 的提交；false 时丢弃并记 warn。
	RetainEmpty bool
	// ReportID: Writer 非空时的报告工件名。
	ReportID contract.ArtifactID
	// Stdout: 无 Writer 时的报告落点；nil 使用 os.Stdout。
	Stdout io.Writer
}

// Entry 为报告中的单个提交。
type Entry struct {
	Root       string   `json:"root"`
	Name       string   `json:"name"`
	TokenCount int      `json:"token_count"`
	Files      []string `json:"files"`
}

// Report 为一次运行的发现结果。
type Report struct {
	CorrID      string  `json:"corr_id,omitempty"`
	Glob        string  `json:"glob"`
	Mode        string  `json:"mode"`
	TotalTokens int     `json:"total_tokens"`
	Submissions []Entry `json:"submissions"`
}

// Run 执行：逐根发现 → 汇总报告 → 写出。
// 约束：
// - 核心发现逻辑同步、无内部并发；
// - 任一根出错时返回该错误（包裹根路径），不写报告。
func Run(ctx context.Context, comp Components, set Settings, logger *diag.Events) (Report, error) {
	if err := sanity(comp, set); err != nil {
		return Report{}, fmt.Errorf("sanity: %w", err)
	}
	if logger == nil {
		logger = diag.NewEvents(logr.Discard(), "")
	}
	if set.Glob == "" {
		set.Glob = "*"
	}
	b := submission.NewBuilder(comp.Reader, comp.Splitter, &submission.Options{
		Order:         set.Order,
		Preprocessors: comp.Preprocessors,
	})

	rep := Report{CorrID: logger.CorrID(), Glob: set.Glob, Mode: set.Mode, Submissions: []Entry{}}
	term := diag.GetTerminal()
	for _, root := range set.Inputs {
		if err := ctx.Err(); err != nil {
			return Report{}, err
		}
		term.RootStart(root)
		t0 := time.Now()
		tm := logger.Start("discovery", "discover", "root", root, "glob", set.Glob, "mode", set.Mode)
		subs, err := discover(b, root, set)
		if err != nil {
			logger.Error("discovery", diag.Classify(err), err, "discover failed", tm.Since())
			term.RootFinish(false, time.Since(t0))
			return Report{}, fmt.Errorf("discover %s: %w", root, err)
		}
		if set.Mode == ModeDir && len(subs) == 0 {
			logger.Warn("discovery", "no files matched; root skipped", "root", root)
		}
		kept := 0
		for _, s := range subs {
			if s.TokenCount() == 0 && !set.RetainEmpty {
				logger.Warn("discovery", "discarding empty submission", "name", s.Name(), "root", root)
				continue
			}
			kept++
			rep.Submissions = append(rep.Submissions, entryOf(root, s))
			rep.TotalTokens += s.TokenCount()
			diag.AddSubmission(s.TokenCount())
			term.SubmissionDone(s.Name(), s.TokenCount())
			logger.Debug("discovery", "submission", "name", s.Name(), "tokens", s.TokenCount(), "files", len(s.Files()))
			if s.TokenCount() > LargeTokenCount {
				logger.Warn("discovery", "submission has a very large token count; comparisons may be slow",
					"name", s.Name(), "tokens", s.TokenCount())
			}
		}
		tm.Finish("discover", int64(kept))
		term.RootFinish(true, time.Since(t0))
	}

	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	wt := logger.Start("writer", "write", "submissions", len(rep.Submissions))
	if err := writeReport(ctx, comp, set, rep); err != nil {
		logger.Error("writer", diag.Classify(err), err, "write failed", wt.Since())
		return Report{}, fmt.Errorf("writer write: %w", err)
	}
	wt.Finish("write", int64(len(rep.Submissions)))
	return rep, nil
}

func discover(b *submission.Builder[string], root string, set Settings) ([]submission.Submission[string], error) {
	if set.Mode == ModeDir {
		s, ok, err := b.FromDir(root, set.Glob)
		if err != nil || !ok {
			return nil, err
		}
		return []submission.Submission[string]{s}, nil
	}
	return b.FromDirs(root, set.Glob)
}

func entryOf(root string, s submission.Submission[string]) Entry {
	ids := s.Files()
	files := make([]string, len(ids))
	for i, id := range ids {
		files[i] = string(id)
	}
	return Entry{Root: root, Name: s.Name(), TokenCount: s.TokenCount(), Files: files}
}

// writeReport 以缩进 JSON 写出报告；Writer 优先，否则写 stdout。
func writeReport(ctx context.Context, comp Components, set Settings, rep Report) error {
	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	if comp.Writer != nil {
		return comp.Writer.Write(ctx, set.ReportID, bytes.NewReader(b))
	}
	out := set.Stdout
	if out == nil {
		out = os.Stdout
	}
	_, err = out.Write(b)
	return err
}

// sanity 校验组件与设置的最小完备性。
func sanity(comp Components, set Settings) error {
	if comp.Reader == nil || comp.Splitter == nil {
		return fmt.Errorf("%w: reader and splitter are required", contract.ErrInvalidInput)
	}
	if len(set.Inputs) == 0 {
		return fmt.Errorf("%w: no inputs", contract.ErrInvalidInput)
	}
	if set.Mode != ModeDirs && set.Mode != ModeDir {
		return fmt.Errorf("%w: unknown mode %q", contract.ErrInvalidInput, set.Mode)
	}
	if comp.Writer != nil && set.ReportID == "" {
		return fmt.Errorf("%w: report id required with a writer", contract.ErrInvalidInput)
	}
	for i, p := range comp.Preprocessors {
		if p == nil {
			return fmt.Errorf("%w: preprocessor %d is nil", contract.ErrInvalidInput, i)
		}
	}
	return nil
}

// IsCancel 报告 err 是否源自 ctx 取消或超时。
func IsCancel(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
