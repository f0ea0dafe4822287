package pdf

import (
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	mathjax "github.com/litao91/goldmark-mathjax"
	"github.com/nerdneilsfield/docpipe/internal/document"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
)

const (
	codeFamily  = "Courier"
	listIndent  = 6.0 // mm
	quoteIndent = 8.0 // mm
)

// 各级标题相对正文的字号倍数
var headingScale = [...]float64{2.0, 1.6, 1.35, 1.2, 1.1, 1.0}

// layout 遍历 AST 并逐块输出到 fpdf
type layout struct {
	pdf      *fpdf.Fpdf
	tr       func(string) string
	source   []byte
	settings Settings
}

// lineHeight pt 字号转换为 mm 行高（约 1.4 倍行距）
func lineHeight(size float64) float64 {
	return size * 0.5
}

func (l *layout) blocks(parent ast.Node, indent float64) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		l.block(n, indent)
	}
}

func (l *layout) block(n ast.Node, indent float64) {
	base := l.settings.FontSize

	switch n := n.(type) {
	case *ast.Heading:
		level := n.Level
		if level > len(headingScale) {
			level = len(headingScale)
		}
		l.pdf.Ln(lineHeight(base) / 2)
		l.text(indent, l.settings.FontFamily, "B", base*headingScale[level-1], document.NodeText(n, l.source), false)
	case *ast.Paragraph, *ast.TextBlock:
		l.text(indent, l.settings.FontFamily, "", base, l.inline(n), false)
	case *ast.FencedCodeBlock, *ast.CodeBlock, *mathjax.MathBlock:
		l.code(indent, document.BlockLines(n, l.source))
	case *ast.List:
		l.list(n, indent)
	case *ast.Blockquote:
		l.pdf.SetTextColor(96, 96, 96)
		l.blocks(n, indent+quoteIndent)
		l.pdf.SetTextColor(0, 0, 0)
	case *ast.ThematicBreak:
		l.rule()
	case *extast.Table:
		l.table(n, indent)
	case *extast.DefinitionTerm:
		l.text(indent, l.settings.FontFamily, "B", base, document.NodeText(n, l.source), false)
	case *extast.DefinitionDescription:
		l.blocks(n, indent+listIndent)
	case *extast.FootnoteList:
		l.rule()
		l.blocks(n, indent)
	case *extast.Footnote:
		l.item(fmt.Sprintf("[%d] ", n.Index), n, indent)
	case *ast.HTMLBlock:
		// 原始 HTML 不排版
	default:
		if n.Type() == ast.TypeBlock && n.HasChildren() {
			l.blocks(n, indent)
		}
	}
}

// inline 返回段落文本，任务列表项带上复选框标记
func (l *layout) inline(n ast.Node) string {
	s := document.NodeText(n, l.source)
	if cb, ok := n.FirstChild().(*extast.TaskCheckBox); ok {
		if cb.IsChecked {
			return "[x] " + s
		}
		return "[ ] " + s
	}
	return s
}

func (l *layout) text(indent float64, family, style string, size float64, s string, fill bool) {
	l.pdf.SetFont(family, style, size)
	l.pdf.SetX(l.settings.Margin + indent)
	l.pdf.MultiCell(0, lineHeight(size), l.tr(s), "", "L", fill)
	l.pdf.Ln(lineHeight(size) / 3)
}

func (l *layout) code(indent float64, s string) {
	l.pdf.SetFillColor(242, 242, 242)
	l.text(indent, codeFamily, "", l.settings.FontSize*0.9, strings.TrimRight(s, "\n"), true)
}

func (l *layout) list(list *ast.List, indent float64) {
	number := list.Start
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "• "
		if list.IsOrdered() {
			marker = fmt.Sprintf("%d%c ", number, list.Marker)
			number++
		}
		l.item(marker, item, indent)
	}
}

// item 第一段文字跟在 prefix 后面，其余子块缩进一级
func (l *layout) item(prefix string, item ast.Node, indent float64) {
	c := item.FirstChild()
	switch c.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		l.text(indent, l.settings.FontFamily, "", l.settings.FontSize, prefix+l.inline(c), false)
		c = c.NextSibling()
	default:
		l.text(indent, l.settings.FontFamily, "", l.settings.FontSize, prefix, false)
	}
	for ; c != nil; c = c.NextSibling() {
		l.block(c, indent+listIndent)
	}
}

func (l *layout) table(t *extast.Table, indent float64) {
	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, document.NodeText(cell, l.source))
		}
		style := ""
		if _, ok := row.(*extast.TableHeader); ok {
			style = "B"
		}
		l.text(indent, l.settings.FontFamily, style, l.settings.FontSize, strings.Join(cells, " | "), false)
	}
}

func (l *layout) rule() {
	pageWidth, _ := l.pdf.GetPageSize()
	left, _, right, _ := l.pdf.GetMargins()
	y := l.pdf.GetY() + 2
	l.pdf.SetDrawColor(160, 160, 160)
	l.pdf.Line(left, y, pageWidth-right, y)
	l.pdf.SetY(y + 2)
}
