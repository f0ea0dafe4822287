package cli

import (
	"github.com/spf13/cobra"
)

// newConfigCommand 创建 config 命令，输出合并了文件、环境变量和标志之后的配置
func newConfigCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "以 TOML 格式显示当前生效的配置",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, o)
			if err != nil {
				return err
			}
			return cfg.WriteTOML(cmd.OutOrStdout())
		},
	}
}
