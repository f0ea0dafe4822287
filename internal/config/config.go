package config

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// 默认值
const (
	DefaultReader    = "markdown"
	DefaultWriter    = "pdf"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"

	configName = ".docpipe"
	envPrefix  = "DOCPIPE"
)

// Config 保存 docpipe 的所有配置
type Config struct {
	Reader    string `mapstructure:"reader" toml:"reader"`         // 默认读取器
	Writer    string `mapstructure:"writer" toml:"writer"`         // 默认写入器
	LogLevel  string `mapstructure:"log_level" toml:"log_level"`   // 日志级别
	LogFormat string `mapstructure:"log_format" toml:"log_format"` // json 或 console
	Debug     bool   `mapstructure:"debug" toml:"debug"`

	// 按格式名的配置项，原样传给对应工厂
	Readers map[string]map[string]interface{} `mapstructure:"readers" toml:"readers,omitempty"`
	Writers map[string]map[string]interface{} `mapstructure:"writers" toml:"writers,omitempty"`

	// 实际读取的配置文件，没有则为空
	File string `mapstructure:"-" toml:"-"`
}

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("reader", DefaultReader)
	v.SetDefault("writer", DefaultWriter)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_format", DefaultLogFormat)
	v.SetDefault("debug", false)
}

// LoadConfig 从文件加载配置
//
// configPath 为空时依次查找 $HOME/.docpipe.{yaml,toml,json} 和 ./.docpipe.*，
// 找不到文件时使用默认值。环境变量 DOCPIPE_* 覆盖文件中的值。
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(configName)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	config.File = v.ConfigFileUsed()

	return &config, nil
}

// NewDefaultConfig 创建一个新的默认配置
func NewDefaultConfig() *Config {
	return &Config{
		Reader:    DefaultReader,
		Writer:    DefaultWriter,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
	}
}

// ReaderSettings 返回指定读取器的配置项
func (c *Config) ReaderSettings(name string) map[string]interface{} {
	return c.Readers[strings.ToLower(name)]
}

// WriterSettings 返回指定写入器的配置项
func (c *Config) WriterSettings(name string) map[string]interface{} {
	return c.Writers[strings.ToLower(name)]
}

// WriteTOML 以 TOML 格式输出配置
func (c *Config) WriteTOML(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
