// Package markdown 把文档规范化输出为 Markdown
//
// 与同名的读取器分属不同类别，两者互不冲突。格式化基于 markdownfmt，
// 输入是文档的源文本；front matter 原样保留在输出开头。
package markdown

import (
	"bytes"
	"context"
	"io"

	"github.com/Kunde21/markdownfmt/v3"
	mdfmt "github.com/Kunde21/markdownfmt/v3/markdown"
	"github.com/nerdneilsfield/docpipe/internal/document"
	"go.uber.org/zap"
)

// Name 注册名称
const Name = "markdown"

// Settings 写入器配置
type Settings struct {
	FormatGo          bool `mapstructure:"format_go"`          // 用 gofmt 格式化 go 代码块
	SoftWraps         bool `mapstructure:"soft_wraps"`         // 保留段落内的软换行
	UnderlineHeadings bool `mapstructure:"underline_headings"` // 一二级标题使用 setext 风格
}

// DefaultSettings 返回默认配置
func DefaultSettings() Settings {
	return Settings{FormatGo: true, SoftWraps: true}
}

// Writer Markdown 写入器
type Writer struct {
	opts   []mdfmt.Option
	logger *zap.Logger
}

// New 创建写入器，签名符合 document.WriterFactory
func New(opts document.Options) (document.Writer, error) {
	settings := DefaultSettings()
	if err := document.DecodeSettings(opts.Settings, &settings); err != nil {
		return nil, err
	}

	var mdOpts []mdfmt.Option
	if settings.FormatGo {
		mdOpts = append(mdOpts, mdfmt.WithCodeFormatters(mdfmt.GoCodeFormatter))
	}
	if settings.SoftWraps {
		mdOpts = append(mdOpts, mdfmt.WithSoftWraps())
	}
	if settings.UnderlineHeadings {
		mdOpts = append(mdOpts, mdfmt.WithUnderlineHeadings())
	}
	return &Writer{opts: mdOpts, logger: opts.GetLogger()}, nil
}

// Render 格式化并写出 Markdown
func (w *Writer) Render(ctx context.Context, doc *document.Document, output io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc == nil {
		return &document.RenderError{Writer: Name, Reason: "empty document"}
	}

	var frontMatter, body []byte = nil, doc.Source
	if len(doc.Meta) > 0 {
		frontMatter, body = splitFrontMatter(doc.Source)
	}

	formatted, err := markdownfmt.Process("", body, w.opts...)
	if err != nil {
		return &document.RenderError{Writer: Name, Reason: "markdown formatting failed", Err: err}
	}

	if len(frontMatter) > 0 {
		if _, err := output.Write(frontMatter); err != nil {
			return &document.RenderError{Writer: Name, Reason: "write failed", Err: err}
		}
	}
	if _, err := output.Write(formatted); err != nil {
		return &document.RenderError{Writer: Name, Reason: "write failed", Err: err}
	}

	w.logger.Debug("formatted markdown",
		zap.String("id", doc.ID),
		zap.Int("input_bytes", len(doc.Source)),
		zap.Int("output_bytes", len(frontMatter)+len(formatted)))
	return nil
}

var (
	fence     = []byte("---")
	fenceLine = []byte("---\n")
)

// splitFrontMatter 拆出开头的 YAML front matter（含分隔行和其后的空行）
func splitFrontMatter(source []byte) (frontMatter, body []byte) {
	if !bytes.HasPrefix(source, fenceLine) {
		return nil, source
	}
	rest := source[len(fenceLine):]
	for off := 0; off < len(rest); {
		end := bytes.IndexByte(rest[off:], '\n')
		line := rest[off:]
		if end >= 0 {
			line = rest[off : off+end]
		}
		if bytes.Equal(bytes.TrimRight(line, " \t"), fence) {
			cut := len(fenceLine) + off + len(line)
			if end >= 0 {
				cut++
			}
			// 分隔行之后的空行也属于 front matter
			for cut < len(source) && source[cut] == '\n' {
				cut++
			}
			return source[:cut], source[cut:]
		}
		if end < 0 {
			break
		}
		off += end + 1
	}
	return nil, source
}
