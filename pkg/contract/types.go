package contract

// FileID: 逻辑文件ID（规范化路径，跨平台一致）。
type FileID string

// TokenType: 产出 Token 的分词器类别（line/whitespace/character/words）。
type TokenType string

// ArtifactID: 持久化工件标识（例如报告文件的相对路径）。
// 与 FileID 复用同一表示。
type ArtifactID = FileID
