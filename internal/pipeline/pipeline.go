// Package pipeline 把读取器与写入器串成一次转换：加载 → 解析 → 渲染 → 输出
package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/nerdneilsfield/docpipe/internal/document"
	"go.uber.org/zap"
)

// StdioPath 表示标准输入/标准输出的路径
const StdioPath = "-"

// Options 管线配置
type Options struct {
	From           string                 // 读取器名称
	To             string                 // 写入器名称
	ReaderSettings map[string]interface{} // 传给读取器工厂
	WriterSettings map[string]interface{} // 传给写入器工厂
	Logger         *zap.Logger

	// Stdin/Stdout 在路径为 "-" 时使用，为 nil 时取 os.Stdin/os.Stdout
	Stdin  io.Reader
	Stdout io.Writer
}

// Result 一次转换的结果
type Result struct {
	Document *document.Document
	Bytes    int64 // 写出的字节数
	Elapsed  time.Duration
}

// Pipeline 一对读取器和写入器
type Pipeline struct {
	reader document.Reader
	writer document.Writer
	from   string
	to     string
	stdin  io.Reader
	stdout io.Writer
	logger *zap.Logger
}

// New 按名称创建读取器和写入器
//
// 名称未注册时返回的错误满足 errors.Is(err, document.ErrUnsupportedFormat)。
func New(opts Options) (*Pipeline, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	reader, err := document.NewReader(opts.From, document.Options{Logger: log, Settings: opts.ReaderSettings})
	if err != nil {
		return nil, err
	}
	writer, err := document.NewWriter(opts.To, document.Options{Logger: log, Settings: opts.WriterSettings})
	if err != nil {
		return nil, err
	}

	p := FromComponents(reader, writer, log)
	p.from, p.to = opts.From, opts.To
	if opts.Stdin != nil {
		p.stdin = opts.Stdin
	}
	if opts.Stdout != nil {
		p.stdout = opts.Stdout
	}
	return p, nil
}

// FromComponents 用已有的读取器和写入器创建管线
func FromComponents(reader document.Reader, writer document.Writer, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		reader: reader,
		writer: writer,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		logger: logger.Named("pipeline"),
	}
}

// Run 从 input 解析文档并渲染到 output
func (p *Pipeline) Run(ctx context.Context, input io.Reader, output io.Writer) (*Result, error) {
	start := time.Now()

	doc, err := p.parse(ctx, input, "document")
	if err != nil {
		return nil, err
	}
	n, err := p.render(ctx, doc, output)
	if err != nil {
		return nil, err
	}
	return p.finish(doc, n, start, "document converted"), nil
}

// ConvertFile 转换文件，路径为 "-" 时使用标准输入/输出
//
// 解析成功后才创建输出文件；渲染失败时删除不完整的输出。
func (p *Pipeline) ConvertFile(ctx context.Context, inputPath, outputPath string) (*Result, error) {
	start := time.Now()

	input, closeInput, err := p.openInput(inputPath)
	if err != nil {
		return nil, err
	}
	defer closeInput()

	doc, err := p.parse(ctx, input, displayPath(inputPath))
	if err != nil {
		return nil, err
	}

	n, err := p.emit(ctx, doc, outputPath)
	if err != nil {
		return nil, err
	}

	return p.finish(doc, n, start, "file converted",
		zap.String("input", displayPath(inputPath)),
		zap.String("output", displayPath(outputPath))), nil
}

func (p *Pipeline) parse(ctx context.Context, input io.Reader, what string) (*document.Document, error) {
	doc, err := p.reader.Parse(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", what, err)
	}
	return doc, nil
}

// render 渲染到 output 并返回写出的字节数
func (p *Pipeline) render(ctx context.Context, doc *document.Document, output io.Writer) (int64, error) {
	cw := &countingWriter{w: output}
	if err := p.writer.Render(ctx, doc, cw); err != nil {
		return 0, fmt.Errorf("failed to render document: %w", err)
	}
	return cw.n, nil
}

func (p *Pipeline) finish(doc *document.Document, n int64, start time.Time, msg string, fields ...zap.Field) *Result {
	res := &Result{Document: doc, Bytes: n, Elapsed: time.Since(start)}
	p.logger.Info(msg, append(fields,
		zap.String("from", p.from),
		zap.String("to", p.to),
		zap.String("id", doc.ID),
		zap.Int64("bytes", res.Bytes),
		zap.Duration("elapsed", res.Elapsed))...)
	return res
}

func (p *Pipeline) openInput(path string) (io.Reader, func(), error) {
	if path == StdioPath {
		return p.stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

// emit 渲染到输出路径并返回写出的字节数
func (p *Pipeline) emit(ctx context.Context, doc *document.Document, path string) (n int64, err error) {
	if path == StdioPath {
		bw := bufio.NewWriter(p.stdout)
		if n, err = p.render(ctx, doc, bw); err != nil {
			return 0, err
		}
		return n, bw.Flush()
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
		if err != nil {
			if rerr := os.Remove(path); rerr != nil && !os.IsNotExist(rerr) {
				p.logger.Warn("failed to remove partial output", zap.String("path", path), zap.Error(rerr))
			}
		}
	}()

	bw := bufio.NewWriter(f)
	if n, err = p.render(ctx, doc, bw); err != nil {
		return 0, err
	}
	if err = bw.Flush(); err != nil {
		return 0, fmt.Errorf("failed to write output file: %w", err)
	}
	return n, nil
}

func displayPath(path string) string {
	if path == StdioPath {
		return "<stdio>"
	}
	return path
}

// countingWriter 统计写出的字节数
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}
