// Package dumper 以缩进树的形式输出文档 AST，用于调试读取器
package dumper

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/nerdneilsfield/docpipe/internal/document"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"go.uber.org/zap"
)

// Name 注册名称
const Name = "dumper"

// Settings 写入器配置
type Settings struct {
	PreviewWidth int  `mapstructure:"preview_width"` // 文本预览的最大显示宽度，0 表示不截断
	Meta         bool `mapstructure:"meta"`          // 输出元数据
}

// DefaultSettings 返回默认配置
func DefaultSettings() Settings {
	return Settings{PreviewWidth: 40, Meta: true}
}

// Writer AST 转储写入器
type Writer struct {
	settings Settings
	logger   *zap.Logger
}

// New 创建写入器，签名符合 document.WriterFactory
func New(opts document.Options) (document.Writer, error) {
	settings := DefaultSettings()
	if err := document.DecodeSettings(opts.Settings, &settings); err != nil {
		return nil, err
	}
	if settings.PreviewWidth < 0 {
		return nil, fmt.Errorf("preview_width must not be negative, got %d", settings.PreviewWidth)
	}
	return &Writer{settings: settings, logger: opts.GetLogger()}, nil
}

// Render 写出 AST 树
func (w *Writer) Render(ctx context.Context, doc *document.Document, output io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc == nil || doc.Root == nil {
		return &document.RenderError{Writer: Name, Reason: "empty document"}
	}

	bw := bufio.NewWriter(output)
	fmt.Fprintf(bw, "doc reader=%s id=%s\n", doc.Reader, doc.ID)
	if w.settings.Meta && len(doc.Meta) > 0 {
		keys := make([]string, 0, len(doc.Meta))
		for k := range doc.Meta {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(bw, "  @%s = %s\n", k, w.preview(fmt.Sprint(doc.Meta[k])))
		}
	}

	nodes := 0
	err := ast.Walk(doc.Root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		nodes++
		depth := 0
		for p := n.Parent(); p != nil; p = p.Parent() {
			depth++
		}
		bw.WriteString(strings.Repeat("  ", depth+1))
		bw.WriteString(w.describe(n, doc.Source))
		bw.WriteByte('\n')
		return ast.WalkContinue, nil
	})
	if err == nil {
		err = bw.Flush()
	}
	if err != nil {
		return &document.RenderError{Writer: Name, Reason: "write failed", Err: err}
	}

	w.logger.Debug("dumped document", zap.String("id", doc.ID), zap.Int("nodes", nodes))
	return nil
}

// describe 返回单个节点的一行描述：类型、属性与文本预览
func (w *Writer) describe(n ast.Node, source []byte) string {
	var attrs []string
	var content string

	switch node := n.(type) {
	case *ast.Text:
		content = string(node.Segment.Value(source))
		if node.HardLineBreak() {
			attrs = append(attrs, "hard-break")
		} else if node.SoftLineBreak() {
			attrs = append(attrs, "soft-break")
		}
	case *ast.String:
		content = string(node.Value)
	case *ast.Heading:
		attrs = append(attrs, "level="+strconv.Itoa(node.Level))
		if id, ok := node.AttributeString("id"); ok {
			if b, ok := id.([]byte); ok {
				attrs = append(attrs, "id="+string(b))
			}
		}
	case *ast.Emphasis:
		attrs = append(attrs, "level="+strconv.Itoa(node.Level))
	case *ast.List:
		if node.IsOrdered() {
			attrs = append(attrs, "ordered", "start="+strconv.Itoa(node.Start))
		}
		if node.IsTight {
			attrs = append(attrs, "tight")
		}
	case *ast.FencedCodeBlock:
		if lang := node.Language(source); len(lang) > 0 {
			attrs = append(attrs, "lang="+string(lang))
		}
		content = document.BlockLines(node, source)
	case *ast.CodeBlock, *ast.HTMLBlock:
		content = document.BlockLines(node, source)
	case *ast.Link:
		attrs = append(attrs, "dest="+string(node.Destination))
	case *ast.Image:
		attrs = append(attrs, "dest="+string(node.Destination))
	case *ast.AutoLink:
		content = string(node.URL(source))
	case *ast.RawHTML:
		content = string(node.Segments.Value(source))
	case *extast.TaskCheckBox:
		attrs = append(attrs, "checked="+strconv.FormatBool(node.IsChecked))
	case *extast.FootnoteLink:
		attrs = append(attrs, "index="+strconv.Itoa(node.Index))
	case *extast.Footnote:
		attrs = append(attrs, "index="+strconv.Itoa(node.Index), "ref="+string(node.Ref))
	default:
		// 数学公式等扩展块节点没有专门的字段，直接取原始行
		if n.Type() == ast.TypeBlock && !n.HasChildren() && n.Lines().Len() > 0 {
			content = document.BlockLines(n, source)
		}
	}

	line := n.Kind().String()
	if len(attrs) > 0 {
		line += " [" + strings.Join(attrs, " ") + "]"
	}
	if content != "" {
		line += " " + w.preview(content)
	}
	return line
}

// preview 按显示宽度截断后加引号，换行转义为 \n
func (w *Writer) preview(s string) string {
	if w.settings.PreviewWidth > 0 {
		s = runewidth.Truncate(s, w.settings.PreviewWidth, "…")
	}
	return strconv.Quote(s)
}
