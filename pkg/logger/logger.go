// Package logger 基于 zap 的日志构建，文件输出经 lumberjack 按大小切割
package logger

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// 输出格式
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// 标准输出目标，其余取值视为文件路径
const (
	OutputStdout = "stdout"
	OutputStderr = "stderr"
)

var (
	// ErrInvalidLevel 无法识别的日志级别
	ErrInvalidLevel = errors.New("invalid log level")

	// ErrInvalidFormat 无法识别的日志格式
	ErrInvalidFormat = errors.New("invalid log format")
)

// Config 日志配置
type Config struct {
	// Level 日志级别：debug、info、warn、error
	Level string `mapstructure:"level"`
	// Format 输出格式：json 或 console
	Format string `mapstructure:"format"`
	// Output stdout、stderr 或文件路径
	Output string `mapstructure:"output"`

	// 以下仅在输出到文件时生效
	MaxSizeMB  int  `mapstructure:"max_size_mb"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAgeDays int  `mapstructure:"max_age_days"`
	Compress   bool `mapstructure:"compress"`
}

// DefaultConfig 默认配置：info 级别，console 格式，输出到 stderr
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     FormatConsole,
		Output:     OutputStderr,
		MaxSizeMB:  100,
		MaxBackups: 3,
		MaxAgeDays: 28,
	}
}

// Validate 检查配置
func (c Config) Validate() error {
	if _, err := c.level(); err != nil {
		return err
	}
	if _, err := c.encoder(); err != nil {
		return err
	}
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		return fmt.Errorf("log rotation settings must not be negative")
	}
	return nil
}

func (c Config) level() (zapcore.Level, error) {
	if c.Level == "" {
		return zapcore.InfoLevel, nil
	}
	lvl, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return lvl, fmt.Errorf("%w: %s", ErrInvalidLevel, c.Level)
	}
	return lvl, nil
}

func (c Config) encoder() (zapcore.Encoder, error) {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	switch strings.ToLower(c.Format) {
	case FormatJSON:
		return zapcore.NewJSONEncoder(encCfg), nil
	case FormatConsole, "":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewConsoleEncoder(encCfg), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrInvalidFormat, c.Format)
}

func (c Config) writer() zapcore.WriteSyncer {
	switch c.Output {
	case OutputStdout:
		return zapcore.Lock(os.Stdout)
	case OutputStderr, "":
		return zapcore.Lock(os.Stderr)
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   c.Output,
		MaxSize:    c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAgeDays,
		Compress:   c.Compress,
	})
}

// New 按配置创建 logger
func New(cfg Config) (*zap.Logger, error) {
	lvl, err := cfg.level()
	if err != nil {
		return nil, err
	}
	enc, err := cfg.encoder()
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(enc, cfg.writer(), zap.NewAtomicLevelAt(lvl))
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}
