package cli

import (
	"fmt"

	"github.com/nerdneilsfield/docpipe/internal/config"
	"github.com/nerdneilsfield/docpipe/internal/document"
	"github.com/nerdneilsfield/docpipe/internal/logger"
	"github.com/nerdneilsfield/docpipe/internal/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootOptions 命令行标志
type rootOptions struct {
	cfgFile     string
	from        string
	to          string
	logLevel    string
	debug       bool
	listFormats bool
}

// NewRootCommand 创建根命令
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	o := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "docpipe [flags] input_file output_file",
		Short: "docpipe 把 Markdown 文档转换为 PDF、HTML 等格式",
		Long: `docpipe 通过可插拔的读取器和写入器转换文档。

读取器和写入器按名称选择（--from / --to），输入或输出为 "-" 时使用标准输入/输出。
运行 "docpipe formats" 查看所有可用格式。`,
		Example: `  docpipe README.md README.pdf
  docpipe -t html notes.md notes.html
  cat notes.md | docpipe -f mdsimple -t dumper - -`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			// 列表模式不需要参数
			if o.listFormats {
				return nil
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.listFormats {
				return printFormats(cmd.OutOrStdout())
			}
			return runConvert(cmd, o, args[0], args[1])
		},
	}

	addGlobalFlags(rootCmd, o)
	rootCmd.Flags().BoolVar(&o.listFormats, "list-formats", false, "列出支持的读取器和写入器")

	_ = rootCmd.RegisterFlagCompletionFunc("from", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return document.ReaderNames(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("to", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return document.WriterNames(), cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newFormatsCommand())
	rootCmd.AddCommand(newConfigCommand(o))

	return rootCmd
}

// addGlobalFlags 添加全局标志
func addGlobalFlags(rootCmd *cobra.Command, o *rootOptions) {
	rootCmd.PersistentFlags().StringVar(&o.cfgFile, "config", "", "配置文件路径")
	rootCmd.PersistentFlags().StringVarP(&o.from, "from", "f", config.DefaultReader, "读取器名称")
	rootCmd.PersistentFlags().StringVarP(&o.to, "to", "t", config.DefaultWriter, "写入器名称")
	rootCmd.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "日志级别 (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&o.debug, "debug", false, "启用调试模式")
}

// loadConfig 加载配置并应用命令行覆盖
func loadConfig(cmd *cobra.Command, o *rootOptions) (*config.Config, error) {
	cfg, err := config.LoadConfig(o.cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	updateConfigFromFlags(cmd, o, cfg)
	return cfg, nil
}

// updateConfigFromFlags 使用命令行参数更新配置
func updateConfigFromFlags(cmd *cobra.Command, o *rootOptions, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("from") {
		cfg.Reader = o.from
	}
	if flags.Changed("to") {
		cfg.Writer = o.to
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("debug") {
		cfg.Debug = o.debug
	}
}

func runConvert(cmd *cobra.Command, o *rootOptions, inputPath, outputPath string) error {
	cfg, err := loadConfig(cmd, o)
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Debug: cfg.Debug, Format: cfg.LogFormat})
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Sync()
	}()

	document.LogRegistrations(log)
	if cfg.File != "" {
		log.Debug("loaded config", zap.String("file", cfg.File))
	}

	p, err := pipeline.New(pipeline.Options{
		From:           cfg.Reader,
		To:             cfg.Writer,
		ReaderSettings: cfg.ReaderSettings(cfg.Reader),
		WriterSettings: cfg.WriterSettings(cfg.Writer),
		Logger:         log,
		Stdin:          cmd.InOrStdin(),
		Stdout:         cmd.OutOrStdout(),
	})
	if err != nil {
		return err
	}

	_, err = p.ConvertFile(cmd.Context(), inputPath, outputPath)
	return err
}
