package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	ETL    ETLConfig    `yaml:"etl" mapstructure:"etl"`
	AWS    AWSConfig    `yaml:"aws" mapstructure:"aws"`
	Runlog RunlogConfig `yaml:"runlog" mapstructure:"runlog"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// ETLConfig configures the extraction pipelines and their policies.
type ETLConfig struct {
	Input             string `yaml:"input" mapstructure:"input"`
	Output            string `yaml:"output" mapstructure:"output"`
	Workers           int    `yaml:"workers" mapstructure:"workers"`
	PageFilter        string `yaml:"page_filter" mapstructure:"page_filter"`
	JoinKey           string `yaml:"join_key" mapstructure:"join_key"`
	JoinType          string `yaml:"join_type" mapstructure:"join_type"`
	UserDedup         string `yaml:"user_dedup" mapstructure:"user_dedup"`
	LenientTimestamps bool   `yaml:"lenient_timestamps" mapstructure:"lenient_timestamps"`
}

// AWSConfig holds object-store credentials, handed to the storage backend at
// construction. Nothing writes these into the process environment.
type AWSConfig struct {
	AccessKeyID     string `yaml:"access_key_id" mapstructure:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key" mapstructure:"secret_access_key"`
	Region          string `yaml:"region" mapstructure:"region"`
	Endpoint        string `yaml:"endpoint" mapstructure:"endpoint"`
}

// RunlogConfig configures the local run-history database.
type RunlogConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SONGLAKE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("runlog.path", "songlake.db")
	v.SetDefault("etl.workers", 4)
	v.SetDefault("etl.page_filter", "NextSong")
	v.SetDefault("etl.join_key", "title")
	v.SetDefault("etl.join_type", "inner")
	v.SetDefault("etl.user_dedup", "tuple")
	v.SetDefault("etl.lenient_timestamps", false)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
