package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tpm-common-validation/pkg/config"
	"tpm-common-validation/pkg/logger"
	"tpm-common-validation/pkg/metrics"
	"tpm-common-validation/pkg/validator"
	"tpm-common-validation/pkg/validator/catalog"
)

// errInvalid 存在未通过校验的文档，只影响退出码
var errInvalid = errors.New("validation failed")

// app 命令共享的运行环境
type app struct {
	cfg       *config.Config
	log       *zap.Logger
	validator *validator.Validator
	registry  *prometheus.Registry
}

// newApp 加载配置并组装 logger、Catalog 与 Validator
// logLevel 非空时覆盖配置中的日志级别
func newApp(configPath, logLevel string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.FromConfig(cfg.SchemaViper(), nil)
	if err != nil {
		return nil, err
	}

	opts := []validator.Option{validator.WithCatalog(cat), validator.WithLogger(log)}

	a := &app{cfg: cfg, log: log}
	if cfg.Metrics.Enabled {
		a.registry = prometheus.NewRegistry()
		obs, err := metrics.NewPrometheusObserver(cfg.Metrics.Namespace, a.registry)
		if err != nil {
			return nil, err
		}
		opts = append(opts, validator.WithObserver(obs))
	}
	a.validator = validator.New(opts...)

	log.Debug("schema catalog loaded", zap.Strings("schemas", cat.Names()))
	return a, nil
}

// close 写出指标文件并刷新日志
func (a *app) close() error {
	var err error
	if a.registry != nil && a.cfg.Metrics.Textfile != "" {
		err = prometheus.WriteToTextfile(a.cfg.Metrics.Textfile, a.registry)
	}
	_ = a.log.Sync()
	return err
}

// newRootCmd 构建命令树，返回的 finish 在命令结束后（无论成功与否）调用
func newRootCmd() (*cobra.Command, func() error) {
	var (
		configPath string
		logLevel   string
		a          *app
	)

	rootCmd := &cobra.Command{
		Use:           "tpmvalidate",
		Short:         "Validate trade promotion documents against declarative schemas",
		Long:          `tpmvalidate checks JSON documents (users, products, promotions, orders, ...) against the schema catalog and reports every failing field.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = newApp(configPath, logLevel)
			return err
		},
	}

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (YAML/JSON/TOML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")

	current := func() *app { return a }
	rootCmd.AddCommand(
		newValidateCmd(current),
		newSchemasCmd(current),
		newPasswordCmd(),
	)

	finish := func() error {
		if a == nil {
			return nil
		}
		return a.close()
	}
	return rootCmd, finish
}

// Execute runs the root command and maps failures to exit codes.
func Execute() {
	rootCmd, finish := newRootCmd()
	err := rootCmd.Execute()
	if ferr := finish(); ferr != nil && err == nil {
		err = ferr
	}
	if err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
