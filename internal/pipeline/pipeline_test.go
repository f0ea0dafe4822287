package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nerdneilsfield/docpipe/internal/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// MockReader 模拟读取器
type MockReader struct {
	mock.Mock
}

func (m *MockReader) Parse(ctx context.Context, input io.Reader) (*document.Document, error) {
	args := m.Called(ctx, input)
	if doc := args.Get(0); doc != nil {
		return doc.(*document.Document), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockWriter 模拟写入器，成功时写出 payload
type MockWriter struct {
	mock.Mock
	payload string
}

func (m *MockWriter) Render(ctx context.Context, doc *document.Document, output io.Writer) error {
	args := m.Called(ctx, doc, output)
	if m.payload != "" {
		if _, err := io.WriteString(output, m.payload); err != nil {
			return err
		}
	}
	return args.Error(0)
}

func TestRun(t *testing.T) {
	doc := document.NewDocument("fake", []byte("src"), nil)

	reader := new(MockReader)
	reader.On("Parse", mock.Anything, mock.Anything).Return(doc, nil)
	writer := &MockWriter{payload: "rendered"}
	writer.On("Render", mock.Anything, doc, mock.Anything).Return(nil)

	p := FromComponents(reader, writer, zaptest.NewLogger(t))

	var out bytes.Buffer
	res, err := p.Run(context.Background(), strings.NewReader("input"), &out)
	require.NoError(t, err)

	assert.Equal(t, "rendered", out.String())
	assert.Equal(t, int64(len("rendered")), res.Bytes)
	assert.Same(t, doc, res.Document)
	reader.AssertExpectations(t)
	writer.AssertExpectations(t)
}

func TestRunParseErrorSkipsRender(t *testing.T) {
	perr := &document.ParseError{Reader: "fake", Reason: "bad input"}
	reader := new(MockReader)
	reader.On("Parse", mock.Anything, mock.Anything).Return(nil, perr)
	writer := new(MockWriter)

	p := FromComponents(reader, writer, nil)
	_, err := p.Run(context.Background(), strings.NewReader(""), io.Discard)

	var target *document.ParseError
	require.True(t, errors.As(err, &target))
	writer.AssertNotCalled(t, "Render", mock.Anything, mock.Anything, mock.Anything)
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.md")
	out := filepath.Join(dir, "out.bin")
	require.NoError(t, os.WriteFile(in, []byte("# hi"), 0o644))

	doc := document.NewDocument("fake", []byte("# hi"), nil)
	reader := new(MockReader)
	reader.On("Parse", mock.Anything, mock.Anything).Return(doc, nil)
	writer := &MockWriter{payload: "output bytes"}
	writer.On("Render", mock.Anything, doc, mock.Anything).Return(nil)

	res, err := FromComponents(reader, writer, zaptest.NewLogger(t)).ConvertFile(context.Background(), in, out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "output bytes", string(data))
	assert.Equal(t, int64(len(data)), res.Bytes)
}

func TestConvertFileRemovesPartialOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.md")
	out := filepath.Join(dir, "out.pdf")
	require.NoError(t, os.WriteFile(in, []byte("x"), 0o644))

	doc := document.NewDocument("fake", []byte("x"), nil)
	reader := new(MockReader)
	reader.On("Parse", mock.Anything, mock.Anything).Return(doc, nil)
	writer := &MockWriter{payload: "half"}
	writer.On("Render", mock.Anything, doc, mock.Anything).
		Return(&document.RenderError{Writer: "fake", Reason: "boom"})

	_, err := FromComponents(reader, writer, zaptest.NewLogger(t)).ConvertFile(context.Background(), in, out)
	require.Error(t, err)
	assert.NoFileExists(t, out)
}

func TestConvertFileParseErrorCreatesNoOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.md")
	out := filepath.Join(dir, "out.pdf")
	require.NoError(t, os.WriteFile(in, []byte("x"), 0o644))

	reader := new(MockReader)
	reader.On("Parse", mock.Anything, mock.Anything).Return(nil, errors.New("broken"))

	_, err := FromComponents(reader, new(MockWriter), nil).ConvertFile(context.Background(), in, out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), in)
	assert.NoFileExists(t, out)
}

func TestConvertFileMissingInput(t *testing.T) {
	_, err := FromComponents(new(MockReader), new(MockWriter), nil).
		ConvertFile(context.Background(), filepath.Join(t.TempDir(), "nope.md"), "-")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConvertStdio(t *testing.T) {
	doc := document.NewDocument("fake", nil, nil)
	reader := new(MockReader)
	reader.On("Parse", mock.Anything, mock.Anything).Return(doc, nil)
	writer := &MockWriter{payload: "to stdout"}
	writer.On("Render", mock.Anything, doc, mock.Anything).Return(nil)

	p := FromComponents(reader, writer, nil)
	var stdout bytes.Buffer
	p.stdin = strings.NewReader("from stdin")
	p.stdout = &stdout

	_, err := p.ConvertFile(context.Background(), StdioPath, StdioPath)
	require.NoError(t, err)
	assert.Equal(t, "to stdout", stdout.String())
	reader.AssertCalled(t, "Parse", mock.Anything, p.stdin)
}

func TestRenderErrorWrappedOnEveryPath(t *testing.T) {
	doc := document.NewDocument("fake", nil, nil)
	rerr := &document.RenderError{Writer: "fake", Reason: "layout failed"}
	reader := new(MockReader)
	reader.On("Parse", mock.Anything, mock.Anything).Return(doc, nil)
	writer := new(MockWriter)
	writer.On("Render", mock.Anything, doc, mock.Anything).Return(rerr)

	p := FromComponents(reader, writer, zaptest.NewLogger(t))
	p.stdin = strings.NewReader("")
	p.stdout = io.Discard

	_, runErr := p.Run(context.Background(), strings.NewReader(""), io.Discard)
	_, stdioErr := p.ConvertFile(context.Background(), StdioPath, StdioPath)
	out := filepath.Join(t.TempDir(), "out.txt")
	_, fileErr := p.ConvertFile(context.Background(), StdioPath, out)

	for _, err := range []error{runErr, stdioErr, fileErr} {
		require.Error(t, err)
		assert.ErrorIs(t, err, rerr)
		assert.Contains(t, err.Error(), "failed to render document")
	}
	assert.NoFileExists(t, out)
	writer.AssertNumberOfCalls(t, "Render", 3)
}

func TestParseErrorNamesInput(t *testing.T) {
	reader := new(MockReader)
	reader.On("Parse", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))
	p := FromComponents(reader, new(MockWriter), nil)
	p.stdin = strings.NewReader("")

	_, err := p.Run(context.Background(), strings.NewReader(""), io.Discard)
	assert.EqualError(t, err, "failed to parse document: boom")

	_, err = p.ConvertFile(context.Background(), StdioPath, StdioPath)
	assert.EqualError(t, err, "failed to parse <stdio>: boom")
}

func TestNewUnsupportedFormat(t *testing.T) {
	_, err := New(Options{From: "nope", To: "nope"})
	assert.ErrorIs(t, err, document.ErrUnsupportedFormat)

	var uerr *document.UnsupportedFormatError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, document.CategoryReader, uerr.Category)
}
