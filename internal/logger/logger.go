package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config 日志配置
type Config struct {
	// Level 日志级别名称（debug/info/warn/error），为空时为 info
	Level string
	// Debug 为 true 时强制 debug 级别
	Debug bool
	// Format json 或 console
	Format string
}

// NewLogger 创建一个新的日志记录器
func NewLogger(debug bool) *zap.Logger {
	log, err := New(Config{Debug: debug})
	if err != nil {
		panic("初始化日志系统失败: " + err.Error())
	}
	return log
}

// New 按配置创建日志记录器，输出到 stderr
func New(cfg Config) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if cfg.Debug {
		level = zapcore.DebugLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	config.DisableStacktrace = true
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	switch strings.ToLower(cfg.Format) {
	case "", "json":
	case "console":
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	return config.Build()
}

// ParseLevel 解析日志级别名称
func ParseLevel(name string) (zapcore.Level, error) {
	if name == "" {
		return zapcore.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(name))); err != nil {
		return level, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

// Enabled 报告 log 在 level 级别是否会输出，用于保护开销较大的调试输出
func Enabled(log *zap.Logger, level zapcore.Level) bool {
	if log == nil {
		return false
	}
	return log.Core().Enabled(level)
}
