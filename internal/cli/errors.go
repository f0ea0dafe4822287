package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/nerdneilsfield/docpipe/internal/document"
	"github.com/spf13/cobra"
)

// 退出码
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUnsupported = 2
)

// Execute 运行命令，出错时把错误写到 stderr 并返回退出码
func Execute(cmd *cobra.Command) int {
	err := cmd.Execute()
	if err == nil {
		return ExitOK
	}
	PrintError(cmd.ErrOrStderr(), err)
	return ExitCode(err)
}

// ExitCode 把错误映射为进程退出码
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, document.ErrUnsupportedFormat):
		return ExitUnsupported
	default:
		return ExitFailure
	}
}

// PrintError 输出错误；格式不支持时列出可用名称和相近名称
func PrintError(w io.Writer, err error) {
	red := color.New(color.FgRed, color.Bold)

	var uerr *document.UnsupportedFormatError
	if !errors.As(err, &uerr) {
		red.Fprintf(w, "error: %v\n", err)
		return
	}

	red.Fprintf(w, "unsupported %s format: %s\n", uerr.Category, uerr.Name)
	if len(uerr.Suggestions) > 0 {
		color.New(color.FgYellow).Fprintf(w, "did you mean: %s?\n", strings.Join(uerr.Suggestions, ", "))
	}
	if len(uerr.Known) > 0 {
		fmt.Fprintf(w, "available %ss: %s\n", uerr.Category, strings.Join(uerr.Known, ", "))
	} else {
		fmt.Fprintf(w, "no %ss are registered\n", uerr.Category)
	}
}
