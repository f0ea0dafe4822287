package cli

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nerdneilsfield/docpipe/internal/document"
	"github.com/nerdneilsfield/docpipe/internal/registry"
	"github.com/spf13/cobra"
)

// newFormatsCommand 创建 formats 命令
func newFormatsCommand() *cobra.Command {
	var namesOnly bool

	cmd := &cobra.Command{
		Use:   "formats",
		Short: "列出已注册的读取器和写入器",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if namesOnly {
				return printFormatNames(cmd.OutOrStdout())
			}
			return printFormats(cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&namesOnly, "names", false, "每行输出一个 <类别>/<名称>，便于脚本处理")
	return cmd
}

// printFormats 以表格输出所有注册项及其来源
func printFormats(w io.Writer) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Category", "Name", "Module", "Source"})
	appendRows(tw, document.Readers().Descriptors())
	tw.AppendSeparator()
	appendRows(tw, document.Writers().Descriptors())
	tw.Render()
	return nil
}

func appendRows[F any](tw table.Writer, ds []registry.Descriptor[F]) {
	for _, d := range ds {
		tw.AppendRow(table.Row{d.Category, d.Name, d.Module, d.Source()})
	}
}

func printFormatNames(w io.Writer) error {
	for _, name := range document.ReaderNames() {
		if _, err := io.WriteString(w, document.CategoryReader+"/"+name+"\n"); err != nil {
			return err
		}
	}
	for _, name := range document.WriterNames() {
		if _, err := io.WriteString(w, document.CategoryWriter+"/"+name+"\n"); err != nil {
			return err
		}
	}
	return nil
}
