// Package document 定义读取器/写入器接口、文档树以及按名称分发的工厂
//
// 读取器和写入器在各自包的 init 中通过 RegisterReader / RegisterWriter
// 注册自己，管线只通过 NewReader / NewWriter 按名称获取实例。
package document

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/yuin/goldmark/ast"
	"go.uber.org/zap"
)

// 类别名称
const (
	CategoryReader = "reader"
	CategoryWriter = "writer"
)

// Document 解析后的文档树
type Document struct {
	// ID 每次解析生成的唯一标识
	ID string

	// Reader 生成该文档的读取器名称
	Reader string

	// Source 解码后的 UTF-8 源文本，AST 中的片段指向它
	Source []byte

	// Root goldmark AST 根节点
	Root ast.Node

	// Meta 前置元数据（如 YAML front matter）
	Meta map[string]interface{}
}

// Title 返回元数据中的标题，没有则返回第一个标题节点的文本
func (d *Document) Title() string {
	if t, ok := d.Meta["title"].(string); ok && t != "" {
		return t
	}
	if d.Root == nil {
		return ""
	}
	var title string
	_ = ast.Walk(d.Root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if h, ok := n.(*ast.Heading); ok && entering {
			title = NodeText(h, d.Source)
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return title
}

// Reader 读取器：把输入解析为文档树
type Reader interface {
	// Parse 解析输入流
	Parse(ctx context.Context, input io.Reader) (*Document, error)
}

// Writer 写入器：把文档树渲染到输出
type Writer interface {
	// Render 渲染文档到 output
	Render(ctx context.Context, doc *Document, output io.Writer) error
}

// ReaderFactory 读取器工厂
type ReaderFactory func(opts Options) (Reader, error)

// WriterFactory 写入器工厂
type WriterFactory func(opts Options) (Writer, error)

// Options 传给工厂的构造参数
type Options struct {
	// Logger 为 nil 时使用 zap.NewNop()
	Logger *zap.Logger

	// Settings 该格式的配置项，由各实现用 DecodeSettings 解码
	Settings map[string]interface{}
}

// GetLogger 返回可用的 logger
func (o Options) GetLogger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

// NewDocument 创建文档并分配 ID
func NewDocument(reader string, source []byte, root ast.Node) *Document {
	return &Document{
		ID:     uuid.NewString(),
		Reader: reader,
		Source: source,
		Root:   root,
		Meta:   make(map[string]interface{}),
	}
}
