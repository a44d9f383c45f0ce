package commoncode

import (
	"fmt"
	"strings"

	"checksims/pkg/contract"
	"checksims/pkg/submission"
	rfs "checksims/plugins/reader/filesystem"
	sline "checksims/plugins/splitter/line"
)

// Options 为公共代码移除的可选配置。
type Options struct {
	// CommonDir: 公共代码目录（例如教师下发的框架代码）；为空时不做移除。
	CommonDir string `json:"common_dir"`
	// Glob: 公共目录中参与比对的文件；空值等价于 "*"。
	Glob string `json:"glob"`
}

// Remover 删除与公共代码相同的行。
// 比较以去首尾空白后的整行为单位；空行不参与比较，原样保留。
// 应排在其他预处理器之前，否则公共行与变换后的内容不再一致。
type Remover struct {
	name  string
	lines map[string]struct{}
}

var _ contract.Preprocessor = (*Remover)(nil)

// New 读取 CommonDir 下匹配 Glob 的文件，构建公共行集合。
// 目录不存在或不是目录时返回 contract.ErrInvalidPath；目录内无匹配文件时为空集合。
func New(opts *Options) (*Remover, error) {
	r := &Remover{lines: map[string]struct{}{}}
	if opts == nil || strings.TrimSpace(opts.CommonDir) == "" {
		return r, nil
	}
	glob := opts.Glob
	if glob == "" {
		glob = "*"
	}
	b := submission.NewBuilder[string](rfs.New(nil), sline.New(nil), nil)
	common, ok, err := b.FromDir(opts.CommonDir, glob)
	if err != nil {
		return nil, fmt.Errorf("common code: %w", err)
	}
	if !ok {
		return r, nil
	}
	r.name = common.Name()
	for _, tok := range common.Tokens() {
		r.lines[tok.Lexeme] = struct{}{}
	}
	return r, nil
}

// Name 返回公共代码提交名（目录基名）；未配置时为空。
func (r *Remover) Name() string { return r.name }

// Len 返回去重后的公共行数。
func (r *Remover) Len() int { return len(r.lines) }

func (r *Remover) Process(content string) string {
	if len(r.lines) == 0 {
		return content
	}
	var b strings.Builder
	b.Grow(len(content))
	for _, l := range strings.SplitAfter(content, "\n") {
		if t := strings.TrimSpace(l); t != "" {
			if _, common := r.lines[t]; common {
				continue
			}
		}
		b.WriteString(l)
	}
	return b.String()
}
