package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerdneilsfield/docpipe/internal/cli"
	// 链接所有内置读取器和写入器
	_ "github.com/nerdneilsfield/docpipe/internal/formats"
)

// Version information
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// 创建根命令
	rootCmd := cli.NewRootCommand(Version, Commit, BuildDate)
	rootCmd.SetContext(ctx)

	// 执行命令
	code := cli.Execute(rootCmd)
	stop()
	os.Exit(code)
}
