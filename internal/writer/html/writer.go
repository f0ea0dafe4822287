// Package html 用 goldmark 渲染器把文档树输出为 HTML
package html

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	mathjax "github.com/litao91/goldmark-mathjax"
	"github.com/nerdneilsfield/docpipe/internal/document"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	ghtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
	"go.uber.org/zap"
)

// Name 注册名称
const Name = "html"

// Settings 写入器配置
type Settings struct {
	FullPage  bool   `mapstructure:"full_page"`  // 输出完整 HTML 页面，否则只输出片段
	Unsafe    bool   `mapstructure:"unsafe"`     // 保留原始 HTML
	XHTML     bool   `mapstructure:"xhtml"`      // 自闭合标签
	HardWraps bool   `mapstructure:"hard_wraps"` // 软换行输出为 <br>
	Lang      string `mapstructure:"lang"`
	CSS       string `mapstructure:"css"` // 内联到 <style> 的样式
}

// DefaultSettings 返回默认配置
func DefaultSettings() Settings {
	return Settings{FullPage: true, Lang: "en"}
}

func (s Settings) validate() error {
	// <style> 是原始文本元素，只能由结束标签终止
	if strings.Contains(s.CSS, "</") {
		return fmt.Errorf("css must not contain %q", "</")
	}
	return nil
}

// Writer HTML 写入器
type Writer struct {
	renderer renderer.Renderer
	settings Settings
	logger   *zap.Logger
}

// New 创建写入器，签名符合 document.WriterFactory
func New(opts document.Options) (document.Writer, error) {
	settings := DefaultSettings()
	if err := document.DecodeSettings(opts.Settings, &settings); err != nil {
		return nil, err
	}
	if err := settings.validate(); err != nil {
		return nil, err
	}
	return NewWriter(settings, opts.GetLogger()), nil
}

// NewWriter 按配置创建写入器
//
// 渲染器注册了 markdown 读取器可能产生的全部扩展节点。
func NewWriter(settings Settings, logger *zap.Logger) *Writer {
	var rendererOpts []renderer.Option
	if settings.Unsafe {
		rendererOpts = append(rendererOpts, ghtml.WithUnsafe())
	}
	if settings.XHTML {
		rendererOpts = append(rendererOpts, ghtml.WithXHTML())
	}
	if settings.HardWraps {
		rendererOpts = append(rendererOpts, ghtml.WithHardWraps())
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.DefinitionList,
			mathjax.MathJax,
		),
		goldmark.WithRendererOptions(rendererOpts...),
	)

	return &Writer{
		renderer: md.Renderer(),
		settings: settings,
		logger:   logger,
	}
}

// Render 渲染文档为 HTML
func (w *Writer) Render(ctx context.Context, doc *document.Document, output io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc == nil || doc.Root == nil {
		return &document.RenderError{Writer: Name, Reason: "empty document"}
	}

	bw := bufio.NewWriter(output)
	if w.settings.FullPage {
		w.header(bw, doc)
	}
	if err := w.renderer.Render(bw, doc.Source, doc.Root); err != nil {
		return &document.RenderError{Writer: Name, Reason: "render failed", Err: err}
	}
	if w.settings.FullPage {
		bw.WriteString("</body>\n</html>\n")
	}
	if err := bw.Flush(); err != nil {
		return &document.RenderError{Writer: Name, Reason: "write failed", Err: err}
	}

	w.logger.Debug("rendered html", zap.String("id", doc.ID), zap.Bool("full_page", w.settings.FullPage))
	return nil
}

func (w *Writer) header(bw *bufio.Writer, doc *document.Document) {
	bw.WriteString("<!DOCTYPE html>\n")
	fmt.Fprintf(bw, "<html lang=\"%s\">\n<head>\n<meta charset=\"utf-8\">\n", util.EscapeHTML([]byte(w.settings.Lang)))
	if title := doc.Title(); title != "" {
		fmt.Fprintf(bw, "<title>%s</title>\n", util.EscapeHTML([]byte(title)))
	}
	if w.settings.CSS != "" {
		fmt.Fprintf(bw, "<style>\n%s\n</style>\n", w.settings.CSS)
	}
	bw.WriteString("</head>\n<body>\n")
}
