package formats

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/nerdneilsfield/docpipe/internal/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestAllFormatsRegistered(t *testing.T) {
	assert.ElementsMatch(t, []string{"markdown", "mdsimple"}, document.ReaderNames())
	assert.ElementsMatch(t, []string{"pdf", "dumper", "html", "markdown"}, document.WriterNames())
}

func TestRegistrationSources(t *testing.T) {
	for _, d := range document.Readers().Descriptors() {
		assert.Contains(t, d.Module, "internal/reader/"+d.Name, d.Name)
		assert.Equal(t, d.Name+"/register.go", d.File)
	}
	for _, d := range document.Writers().Descriptors() {
		assert.Contains(t, d.Module, "internal/writer/"+d.Name, d.Name)
	}
}

func TestEveryPairConverts(t *testing.T) {
	const src = "# Title\n\nSome *text* with a [link](https://example.com).\n\n- one\n- two\n"
	log := zaptest.NewLogger(t)

	for _, from := range document.ReaderNames() {
		for _, to := range document.WriterNames() {
			t.Run(from+"->"+to, func(t *testing.T) {
				r, err := document.NewReader(from, document.Options{Logger: log})
				require.NoError(t, err)
				w, err := document.NewWriter(to, document.Options{Logger: log})
				require.NoError(t, err)

				doc, err := r.Parse(context.Background(), strings.NewReader(src))
				require.NoError(t, err)

				var buf bytes.Buffer
				require.NoError(t, w.Render(context.Background(), doc, &buf))
				assert.NotZero(t, buf.Len())
			})
		}
	}
}

func TestUnknownWriterListsRegistered(t *testing.T) {
	_, err := document.NewWriter("epub", document.Options{})
	require.ErrorIs(t, err, document.ErrUnsupportedFormat)

	var uerr *document.UnsupportedFormatError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, document.WriterNames(), uerr.Known)
}
