package dedup

import (
	"regexp"

	"checksims/pkg/contract"
)

// Options 当前无配置项，保留以支持严格解码。
type Options struct{}

var (
	blanks   = regexp.MustCompile(`[ \t]+`)
	crlfRuns = regexp.MustCompile(`(\r\n)+`)
	lfRuns   = regexp.MustCompile(`\n+`)
)

// Dedup 去除重复空白：连续空格/制表符折叠为单个空格，CRLF 归一为 LF，连续换行折叠为一个。
type Dedup struct{}

var _ contract.Preprocessor = (*Dedup)(nil)

func New(*Options) *Dedup { return &Dedup{} }

func (d *Dedup) Process(content string) string {
	content = blanks.ReplaceAllString(content, " ")
	content = crlfRuns.ReplaceAllString(content, "\n")
	return lfRuns.ReplaceAllString(content, "\n")
}
