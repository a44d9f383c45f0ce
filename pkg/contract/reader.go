package contract

// FileReader: 原始文件读取抽象。
// 约束：
// 1) 一次调用读取单个文件的完整文本；
// 2) 文件句柄仅在调用内存活；
// 3) 读取失败返回 I/O 错误，不做重试；
// 4) 不做分词/业务解析。
type FileReader interface {
	ReadFile(path string) (string, error)
}

// FileReaderFunc 将普通函数适配为 FileReader。
type FileReaderFunc func(path string) (string, error)

func (f FileReaderFunc) ReadFile(path string) (string, error) { return f(path) }
