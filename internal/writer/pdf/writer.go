// Package pdf 把文档树排版为 PDF
//
// 使用 fpdf 的内置字体（cp1252 编码），不在该编码内的字符会被替换。
// 支持标题、段落、列表、引用、代码块、分隔线、表格与数学公式块。
package pdf

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/nerdneilsfield/docpipe/internal/document"
	"go.uber.org/zap"
)

// Name 注册名称
const Name = "pdf"

// Settings 写入器配置
type Settings struct {
	PageSize    string  `mapstructure:"page_size"`   // A4、Letter 等
	Orientation string  `mapstructure:"orientation"` // P 或 L
	FontFamily  string  `mapstructure:"font_family"` // Helvetica、Times、Courier
	FontSize    float64 `mapstructure:"font_size"`   // 正文字号 pt
	Margin      float64 `mapstructure:"margin"`      // 页边距 mm
	Compress    bool    `mapstructure:"compress"`
}

// DefaultSettings 返回默认配置
func DefaultSettings() Settings {
	return Settings{
		PageSize:    "A4",
		Orientation: "P",
		FontFamily:  "Helvetica",
		FontSize:    11,
		Margin:      20,
		Compress:    true,
	}
}

func (s Settings) validate() error {
	// 页面尺寸以 fpdf 内置的尺寸表为准
	if err := fpdf.New("P", "mm", s.PageSize, "").Error(); err != nil {
		return fmt.Errorf("invalid page_size %q: %w", s.PageSize, err)
	}
	switch strings.ToUpper(s.Orientation) {
	case "P", "L", "PORTRAIT", "LANDSCAPE":
	default:
		return fmt.Errorf("invalid orientation %q", s.Orientation)
	}
	if s.FontSize <= 0 {
		return fmt.Errorf("font_size must be positive, got %v", s.FontSize)
	}
	if s.Margin < 0 {
		return fmt.Errorf("margin must not be negative, got %v", s.Margin)
	}
	return nil
}

// Writer PDF 写入器
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
	if err := settings.validate(); err != nil {
		return nil, err
	}
	return &Writer{settings: settings, logger: opts.GetLogger()}, nil
}

// Render 排版文档并写出 PDF
func (w *Writer) Render(ctx context.Context, doc *document.Document, output io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc == nil || doc.Root == nil {
		return &document.RenderError{Writer: Name, Reason: "empty document"}
	}

	pdf := fpdf.New(w.settings.Orientation, "mm", w.settings.PageSize, "")
	pdf.SetMargins(w.settings.Margin, w.settings.Margin, w.settings.Margin)
	pdf.SetAutoPageBreak(true, w.settings.Margin)
	pdf.SetCompression(w.settings.Compress)
	pdf.SetCreator("docpipe", false)
	if title := doc.Title(); title != "" {
		pdf.SetTitle(title, true)
	}
	if author, ok := doc.Meta["author"].(string); ok {
		pdf.SetAuthor(author, true)
	}
	pdf.AddPage()

	l := &layout{
		pdf:      pdf,
		tr:       pdf.UnicodeTranslatorFromDescriptor(""),
		source:   doc.Source,
		settings: w.settings,
	}
	l.blocks(doc.Root, 0)

	if pdf.Err() {
		return &document.RenderError{Writer: Name, Reason: "layout failed", Err: pdf.Error()}
	}

	cw := &countingWriter{w: output}
	if err := pdf.Output(cw); err != nil {
		return &document.RenderError{Writer: Name, Reason: "output failed", Err: err}
	}

	w.logger.Debug("rendered pdf",
		zap.String("id", doc.ID),
		zap.Int("pages", pdf.PageCount()),
		zap.Int64("bytes", cw.n))
	return nil
}

// countingWriter 统计写出的字节数
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
