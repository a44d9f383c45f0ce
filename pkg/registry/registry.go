package registry

import (
	"bytes"
	"encoding/json"

	"checksims/pkg/contract"
	pcommon "checksims/plugins/preprocessor/commoncode"
	pdedup "checksims/plugins/preprocessor/dedup"
	plower "checksims/plugins/preprocessor/lowercase"
	rfs "checksims/plugins/reader/filesystem"
	schar "checksims/plugins/splitter/char"
	sline "checksims/plugins/splitter/line"
	sws "checksims/plugins/splitter/whitespace"
	swords "checksims/plugins/splitter/words"
	wfs "checksims/plugins/writer/filesystem"
)

// strictUnmarshal: 使用 DisallowUnknownFields 严格解码，拒绝未知字段。
func strictUnmarshal(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		// 保持零值（默认选项）
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// NewReader 工厂签名：接收原样 JSON Options。
type NewReader func(raw json.RawMessage) (contract.FileReader, error)

// NewSplitter 工厂签名。当前插件的词元均为 string。
type NewSplitter func(raw json.RawMessage) (contract.Splitter[string], error)

// NewPreprocessor 工厂签名。
type NewPreprocessor func(raw json.RawMessage) (contract.Preprocessor, error)

// NewWriter 工厂签名。
type NewWriter func(raw json.RawMessage) (contract.Writer, error)

// Reader 工厂注册表（显式、零反射）。
var Reader = map[string]NewReader{
	// fs: 本地文件系统 Reader
	"fs": func(raw json.RawMessage) (contract.FileReader, error) {
		var opts rfs.Options
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return rfs.New(&opts), nil
	},
}

// Splitter 工厂注册表。
var Splitter = map[string]NewSplitter{
	// line: 按行，去首尾空白
	"line": func(raw json.RawMessage) (contract.Splitter[string], error) {
		var opts sline.Options
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return sline.New(&opts), nil
	},
	"whitespace": func(raw json.RawMessage) (contract.Splitter[string], error) {
		var opts sws.Options
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return sws.New(&opts), nil
	},
	// char: 每个 rune 一个 Token
	"char": func(raw json.RawMessage) (contract.Splitter[string], error) {
		var opts schar.Options
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return schar.New(&opts), nil
	},
	"words": func(raw json.RawMessage) (contract.Splitter[string], error) {
		var opts swords.Options
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return swords.New(&opts), nil
	},
}

// Preprocessor 工厂注册表。按配置顺序串联在 Splitter 之前。
var Preprocessor = map[string]NewPreprocessor{
	// commoncode: 删除与 common_dir 中公共代码相同的行
	"commoncode": func(raw json.RawMessage) (contract.Preprocessor, error) {
		var opts pcommon.Options
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return pcommon.New(&opts)
	},
	"lowercase": func(raw json.RawMessage) (contract.Preprocessor, error) {
		var opts plower.Options
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return plower.New(&opts)
	},
	// dedup: 折叠重复空白与空行
	"dedup": func(raw json.RawMessage) (contract.Preprocessor, error) {
		var opts pdedup.Options
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return pdedup.New(&opts), nil
	},
}

// Writer 工厂注册表。
var Writer = map[string]NewWriter{
	// fs: 文件系统 Writer（覆盖写/原子替换可配置）
	"fs": func(raw json.RawMessage) (contract.Writer, error) {
		var opts wfs.Options
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return wfs.New(&opts)
	},
}
