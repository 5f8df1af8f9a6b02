// Package config 命令行与服务共用的配置加载
//
// 优先级（高到低）：环境变量（TPM_VALIDATE_ 前缀）、配置文件、默认值。
// 环境变量中的层级以下划线分隔，如 TPM_VALIDATE_LOG_LEVEL=debug。
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"tpm-common-validation/pkg/logger"
)

// EnvPrefix 环境变量前缀
const EnvPrefix = "TPM_VALIDATE"

var (
	// ErrReadConfig 配置文件无法读取或解析
	ErrReadConfig = errors.New("cannot read config")

	// ErrInvalidConfig 配置项不合法
	ErrInvalidConfig = errors.New("invalid config")
)

// Config 全部配置
type Config struct {
	Log     logger.Config `mapstructure:"log"`
	Schema  SchemaConfig  `mapstructure:"schema"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// SchemaConfig Schema Catalog 来源
type SchemaConfig struct {
	// Builtin 是否包含预置 Schema
	Builtin bool `mapstructure:"builtin"`
	// Files 额外的 Schema 文件（YAML/JSON）
	Files []string `mapstructure:"files"`
	// Dirs 额外的 Schema 目录
	Dirs []string `mapstructure:"dirs"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	// Textfile 非空时在命令结束后写出 Prometheus 文本格式（node_exporter textfile collector）
	Textfile string `mapstructure:"textfile"`
}

// setDefaults 设置默认值
// 所有键都需要有默认值，否则无法通过环境变量覆盖
func setDefaults(v *viper.Viper) {
	def := logger.DefaultConfig()
	v.SetDefault("log.level", def.Level)
	v.SetDefault("log.format", def.Format)
	v.SetDefault("log.output", def.Output)
	v.SetDefault("log.max_size_mb", def.MaxSizeMB)
	v.SetDefault("log.max_backups", def.MaxBackups)
	v.SetDefault("log.max_age_days", def.MaxAgeDays)
	v.SetDefault("log.compress", def.Compress)

	v.SetDefault("schema.builtin", true)
	v.SetDefault("schema.files", []string{})
	v.SetDefault("schema.dirs", []string{})

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", "tpm")
	v.SetDefault("metrics.textfile", "")
}

// New 创建带默认值与环境变量绑定的 viper 实例
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load 加载配置，path 为空时只使用默认值与环境变量
func Load(path string) (*Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadConfig, err)
		}
	}
	return FromViper(v)
}

// FromViper 从已配置的 viper 实例解码并检查配置
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 检查配置
func (c *Config) Validate() error {
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("%w: log: %v", ErrInvalidConfig, err)
	}
	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return fmt.Errorf("%w: metrics.namespace is required when metrics are enabled", ErrInvalidConfig)
	}
	for _, f := range c.Schema.Files {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("%w: schema.files must not contain empty paths", ErrInvalidConfig)
		}
	}
	for _, d := range c.Schema.Dirs {
		if strings.TrimSpace(d) == "" {
			return fmt.Errorf("%w: schema.dirs must not contain empty paths", ErrInvalidConfig)
		}
	}
	return nil
}

// SchemaViper 返回 Schema 来源的 viper 子树，供 catalog.FromConfig 使用
func (c *Config) SchemaViper() *viper.Viper {
	v := viper.New()
	v.Set("builtin", c.Schema.Builtin)
	v.Set("files", c.Schema.Files)
	v.Set("dirs", c.Schema.Dirs)
	return v
}
