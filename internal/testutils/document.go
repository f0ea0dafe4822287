// Package testutils 提供读取器/写入器测试共用的辅助函数
package testutils

import (
	"testing"

	"github.com/nerdneilsfield/docpipe/internal/config"
	"github.com/nerdneilsfield/docpipe/internal/document"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// ParseDocument 用 goldmark 解析 src，返回写入器可直接使用的文档
//
// 默认启用 GFM 和脚注；传入 extensions 时只使用传入的扩展。
func ParseDocument(t testing.TB, src string, extensions ...goldmark.Extender) *document.Document {
	t.Helper()
	if len(extensions) == 0 {
		extensions = []goldmark.Extender{extension.GFM, extension.Footnote}
	}
	md := goldmark.New(goldmark.WithExtensions(extensions...))
	source := []byte(src)
	root := md.Parser().Parse(text.NewReader(source))
	return document.NewDocument("test", source, root)
}

// CreateTestConfig 创建通用测试配置
func CreateTestConfig(reader, writer string) *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.Reader = reader
	cfg.Writer = writer
	cfg.LogLevel = "error"
	cfg.Readers = map[string]map[string]interface{}{}
	cfg.Writers = map[string]map[string]interface{}{}
	return cfg
}
