// Package mdsimple 提供只支持 CommonMark 的简单 Markdown 读取器
package mdsimple

import (
	"context"
	"io"

	"github.com/nerdneilsfield/docpipe/internal/document"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/text"
	"go.uber.org/zap"
)

// Name 注册名称
const Name = "mdsimple"

// Reader 不启用任何扩展的 Markdown 读取器
type Reader struct {
	md     goldmark.Markdown
	logger *zap.Logger
}

// New 创建读取器，签名符合 document.ReaderFactory
func New(opts document.Options) (document.Reader, error) {
	// 没有可配置项，但仍然拒绝未知键
	var settings struct{}
	if err := document.DecodeSettings(opts.Settings, &settings); err != nil {
		return nil, err
	}
	return &Reader{md: goldmark.New(), logger: opts.GetLogger()}, nil
}

// Parse 解析 CommonMark 内容
func (r *Reader) Parse(ctx context.Context, input io.Reader) (*document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	source, err := document.ReadSource(input)
	if err != nil {
		return nil, &document.ParseError{Reader: Name, Reason: "read failed", Err: err}
	}

	root := r.md.Parser().Parse(text.NewReader(source))
	doc := document.NewDocument(Name, source, root)

	r.logger.Debug("parsed document", zap.String("id", doc.ID), zap.Int("bytes", len(source)))
	return doc, nil
}
