package mdsimple

import (
	"context"
	"strings"
	"testing"

	"github.com/nerdneilsfield/docpipe/internal/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark/ast"
	"go.uber.org/zap/zaptest"
)

func TestParse(t *testing.T) {
	r, err := New(document.Options{Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)

	src := "# Heading\n\nSome *text*.\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n```sh\necho hi\n```\n"
	doc, err := r.Parse(context.Background(), strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, Name, doc.Reader)
	assert.Equal(t, "Heading", doc.Title())
	assert.Empty(t, doc.Meta)

	var kinds []ast.NodeKind
	for c := doc.Root.FirstChild(); c != nil; c = c.NextSibling() {
		kinds = append(kinds, c.Kind())
	}
	// 没有表格扩展，表格行作为普通段落
	assert.Equal(t, []ast.NodeKind{
		ast.KindHeading,
		ast.KindParagraph,
		ast.KindParagraph,
		ast.KindFencedCodeBlock,
	}, kinds)
}

func TestNewRejectsSettings(t *testing.T) {
	_, err := New(document.Options{Settings: map[string]interface{}{"math": true}})
	assert.Error(t, err)
}

func TestParseCancelled(t *testing.T) {
	r, err := New(document.Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Parse(ctx, strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRegistered(t *testing.T) {
	assert.Contains(t, document.ReaderNames(), Name)
	r, err := document.NewReader(Name, document.Options{})
	require.NoError(t, err)
	assert.IsType(t, &Reader{}, r)

	// 写入器类别里没有 mdsimple
	_, err = document.NewWriter(Name, document.Options{})
	assert.ErrorIs(t, err, document.ErrUnsupportedFormat)
}
