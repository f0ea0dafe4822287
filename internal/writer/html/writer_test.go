package html

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/nerdneilsfield/docpipe/internal/document"
	"github.com/nerdneilsfield/docpipe/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const sample = "# Release Notes & More\n\nSome ~~old~~ new text[^1].\n\n" +
	"| k | v |\n|---|---|\n| a | 1 |\n| b | 2 |\n\n- [x] shipped\n- [ ] pending\n\n" +
	"<div class=\"raw\">raw</div>\n\n[^1]: footnote body\n"

func render(t *testing.T, settings map[string]interface{}, doc *document.Document) (string, *goquery.Document) {
	t.Helper()
	w, err := New(document.Options{Logger: zaptest.NewLogger(t), Settings: settings})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, w.Render(context.Background(), doc, &buf))

	out := buf.String()
	dom, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	return out, dom
}

func TestRenderFullPage(t *testing.T) {
	out, dom := render(t, nil, testutils.ParseDocument(t, sample))

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Equal(t, "Release Notes & More", dom.Find("head title").Text())
	assert.Equal(t, "en", dom.Find("html").AttrOr("lang", ""))
	assert.Equal(t, "Release Notes & More", dom.Find("body h1").Text())
	assert.Equal(t, "old", dom.Find("del").Text())
	assert.Equal(t, 2, dom.Find("table tbody tr").Length())
	assert.Equal(t, 2, dom.Find("input[type=checkbox]").Length())
	assert.Equal(t, 1, dom.Find("input[checked]").Length())
	assert.Equal(t, 1, dom.Find("div.footnotes li").Length())

	// 默认不输出原始 HTML
	assert.Equal(t, 0, dom.Find("div.raw").Length())
}

func TestRenderFragmentUnsafe(t *testing.T) {
	out, dom := render(t, map[string]interface{}{
		"full_page": false,
		"unsafe":    true,
	}, testutils.ParseDocument(t, sample))

	assert.NotContains(t, out, "<!DOCTYPE html>")
	assert.NotContains(t, out, "<title>")
	assert.Equal(t, 1, dom.Find("div.raw").Length())
}

func TestRenderCSS(t *testing.T) {
	_, dom := render(t, map[string]interface{}{"css": "body { margin: 0 }"}, testutils.ParseDocument(t, "text"))
	assert.Contains(t, dom.Find("head style").Text(), "margin: 0")
	// 没有标题时不输出 <title>
	assert.Equal(t, 0, dom.Find("title").Length())
}

func TestNewRejectsUnknownSettings(t *testing.T) {
	_, err := New(document.Options{Settings: map[string]interface{}{"fullpage": true}})
	assert.Error(t, err)
}

func TestNewRejectsClosingTagInCSS(t *testing.T) {
	_, err := New(document.Options{Settings: map[string]interface{}{
		"css": "p {}</style><script>alert(1)</script>",
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "css")
}

func TestRenderCancelled(t *testing.T) {
	w := NewWriter(DefaultSettings(), zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, w.Render(ctx, testutils.ParseDocument(t, "x"), &bytes.Buffer{}), context.Canceled)
}

func TestRegistered(t *testing.T) {
	assert.Contains(t, document.WriterNames(), Name)
}
