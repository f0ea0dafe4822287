package document

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark/ast"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadSource 读取全部输入并解码为 UTF-8
//
// 带 BOM 的 UTF-8 / UTF-16LE / UTF-16BE 输入会被转换，BOM 被去掉；
// 没有 BOM 的输入按 UTF-8 原样返回。
func ReadSource(input io.Reader) ([]byte, error) {
	data, err := io.ReadAll(input)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	if len(data) < 2 {
		return data, nil
	}

	// BOMOverride 在看到 BOM 时切换到对应解码器，否则使用 UTF-8 回退
	dec := xunicode.BOMOverride(xunicode.UTF8.NewDecoder())
	res, _, err := transform.Bytes(dec, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode input: %w", err)
	}
	// 统一换行符
	res = bytes.ReplaceAll(res, []byte("\r\n"), []byte("\n"))
	return res, nil
}

// NodeText 返回节点下所有文本的拼接
func NodeText(n ast.Node, source []byte) string {
	var b strings.Builder
	writeNodeText(&b, n, source)
	return b.String()
}

func writeNodeText(b *strings.Builder, n ast.Node, source []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		default:
			writeNodeText(b, c, source)
		}
	}
}

// BlockLines 返回块节点（代码块等）的原始行
func BlockLines(n ast.Node, source []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	return b.String()
}
