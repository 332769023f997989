// Package config loads application configuration and initializes logging.
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
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Ledger   LedgerConfig   `yaml:"ledger" mapstructure:"ledger"`
	Serper   SerperConfig   `yaml:"serper" mapstructure:"serper"`
	Linkfind LinkfindConfig `yaml:"linkfind" mapstructure:"linkfind"`
	Export   ExportConfig   `yaml:"export" mapstructure:"export"`
	Batch    BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the append-only profile store.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LedgerConfig configures the batch run ledger backend.
type LedgerConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // "sqlite" or "postgres"
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// SerperConfig holds Serper.dev search API settings.
type SerperConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// LinkfindConfig configures the LinkedIn enrichment pass.
type LinkfindConfig struct {
	SleepSecs      float64 `yaml:"sleep_secs" mapstructure:"sleep_secs"`
	MaxQueries     int     `yaml:"max_queries" mapstructure:"max_queries"`
	ScoreThreshold int     `yaml:"score_threshold" mapstructure:"score_threshold"`
	Retries        int     `yaml:"retries" mapstructure:"retries"`
}

// ExportConfig configures tabular export.
type ExportConfig struct {
	Format   string `yaml:"format" mapstructure:"format"`     // "csv" or "xlsx"
	Patterns string `yaml:"patterns" mapstructure:"patterns"` // optional YAML pattern override file
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
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
	v.SetEnvPrefix("PROFILE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.path", "profiles.jsonl")
	v.SetDefault("ledger.driver", "sqlite")
	v.SetDefault("ledger.database_url", "profile-cli.db")
	v.SetDefault("serper.base_url", "https://google.serper.dev")
	v.SetDefault("linkfind.sleep_secs", 2.0)
	v.SetDefault("linkfind.max_queries", 8)
	v.SetDefault("linkfind.score_threshold", 5)
	v.SetDefault("linkfind.retries", 3)
	v.SetDefault("export.format", "csv")
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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
