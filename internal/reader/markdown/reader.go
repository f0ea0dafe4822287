// Package markdown 提供功能完整的 Markdown 读取器
//
// 基于 goldmark，启用 GFM（表格、删除线、任务列表、自动链接）、脚注、
// 定义列表、MathJax 数学公式以及 YAML front matter。
package markdown

import (
	"bytes"
	"context"
	"io"

	mathjax "github.com/litao91/goldmark-mathjax"
	"github.com/nerdneilsfield/docpipe/internal/document"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"go.uber.org/zap"
)

// Name 注册名称
const Name = "markdown"

// Settings 读取器配置
type Settings struct {
	Math        bool `mapstructure:"math"`         // MathJax 公式
	FrontMatter bool `mapstructure:"front_matter"` // YAML front matter
	Typographer bool `mapstructure:"typographer"`  // 智能引号、破折号
	HeadingIDs  bool `mapstructure:"heading_ids"`  // 自动生成标题 ID
}

// DefaultSettings 返回默认配置
func DefaultSettings() Settings {
	return Settings{
		Math:        true,
		FrontMatter: true,
		HeadingIDs:  true,
	}
}

// Reader Markdown 读取器
type Reader struct {
	md       goldmark.Markdown
	withMeta goldmark.Markdown // 首行为 front matter 分隔线时使用
	settings Settings
	logger   *zap.Logger
}

// New 创建读取器，签名符合 document.ReaderFactory
func New(opts document.Options) (document.Reader, error) {
	settings := DefaultSettings()
	if err := document.DecodeSettings(opts.Settings, &settings); err != nil {
		return nil, err
	}
	return NewReader(settings, opts.GetLogger()), nil
}

// NewReader 按配置创建读取器
func NewReader(settings Settings, logger *zap.Logger) *Reader {
	exts := []goldmark.Extender{
		extension.GFM,
		extension.Footnote,
		extension.DefinitionList,
	}
	if settings.Math {
		exts = append(exts, mathjax.MathJax)
	}
	if settings.Typographer {
		exts = append(exts, extension.Typographer)
	}

	var parserOpts []parser.Option
	if settings.HeadingIDs {
		parserOpts = append(parserOpts, parser.WithAutoHeadingID())
	}

	r := &Reader{
		md: goldmark.New(
			goldmark.WithExtensions(exts...),
			goldmark.WithParserOptions(parserOpts...),
		),
		settings: settings,
		logger:   logger,
	}
	if settings.FrontMatter {
		r.withMeta = goldmark.New(
			goldmark.WithExtensions(append(exts[:len(exts):len(exts)], meta.Meta)...),
			goldmark.WithParserOptions(parserOpts...),
		)
	}
	return r
}

// hasFrontMatter 报告 source 是否以 --- 分隔线开头
//
// goldmark-meta 把任意全由 - 组成的首行当作分隔线，单个 - 开头的列表会被误判。
func hasFrontMatter(source []byte) bool {
	line, _, _ := bytes.Cut(source, []byte("\n"))
	line = bytes.TrimSpace(line)
	return len(line) >= 3 && len(bytes.Trim(line, "-")) == 0
}

// Parse 解析 Markdown 内容为文档树
func (r *Reader) Parse(ctx context.Context, input io.Reader) (*document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	source, err := document.ReadSource(input)
	if err != nil {
		return nil, &document.ParseError{Reader: Name, Reason: "read failed", Err: err}
	}

	md := r.md
	frontMatter := r.withMeta != nil && hasFrontMatter(source)
	if frontMatter {
		md = r.withMeta
	}

	pctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(source), parser.WithContext(pctx))

	doc := document.NewDocument(Name, source, root)
	if frontMatter {
		fm, err := meta.TryGet(pctx)
		if err != nil {
			return nil, &document.ParseError{Reader: Name, Reason: "invalid front matter", Err: err}
		}
		for k, v := range fm {
			doc.Meta[k] = v
		}
	}

	r.logger.Debug("parsed document",
		zap.String("id", doc.ID),
		zap.Int("bytes", len(source)),
		zap.Int("metadata", len(doc.Meta)),
		zap.Int("blocks", root.ChildCount()))

	return doc, nil
}

