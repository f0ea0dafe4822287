package document

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedFormat 请求的格式名未注册
var ErrUnsupportedFormat = errors.New("unsupported format")

// UnsupportedFormatError 工厂分发时找不到名称
type UnsupportedFormatError struct {
	Category    string
	Name        string
	Known       []string // 该类别下所有已注册名称（注册顺序）
	Suggestions []string // 与 Name 相近的名称
}

func (e *UnsupportedFormatError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "unsupported %s format: %s", e.Category, e.Name)
	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, " (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	if len(e.Known) > 0 {
		fmt.Fprintf(&b, "; available: %s", strings.Join(e.Known, ", "))
	}
	return b.String()
}

// Is 使 errors.Is(err, ErrUnsupportedFormat) 成立
func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// ParseError 读取器解析失败
type ParseError struct {
	Reader string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s reader: %s: %v", e.Reader, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s reader: %s", e.Reader, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// RenderError 写入器渲染失败
type RenderError struct {
	Writer string
	Reason string
	Err    error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s writer: %s: %v", e.Writer, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s writer: %s", e.Writer, e.Reason)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
