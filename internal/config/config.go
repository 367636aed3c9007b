// Package config loads relay configuration from file and environment.
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
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Lindy  LindyConfig  `yaml:"lindy" mapstructure:"lindy"`
	Sheets SheetsConfig `yaml:"sheets" mapstructure:"sheets"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// ServerConfig configures the relay HTTP server.
type ServerConfig struct {
	Port      int    `yaml:"port" mapstructure:"port"`
	PublicURL string `yaml:"public_url" mapstructure:"public_url"`
}

// LindyConfig configures the outbound trigger call and callback auth. An
// empty Secret is a valid open configuration (demo mode): callback auth is
// bypassed and the trigger is sent unauthenticated.
type LindyConfig struct {
	WebhookURL         string `yaml:"webhook_url" mapstructure:"webhook_url"`
	Secret             string `yaml:"secret" mapstructure:"secret"`
	AuthHeader         string `yaml:"auth_header" mapstructure:"auth_header"`
	TriggerTimeoutSecs int    `yaml:"trigger_timeout_secs" mapstructure:"trigger_timeout_secs"`
}

// SheetsConfig configures spreadsheet fetching.
type SheetsConfig struct {
	FetchTimeoutSecs int `yaml:"fetch_timeout_secs" mapstructure:"fetch_timeout_secs"`
	MaxParallel      int `yaml:"max_parallel" mapstructure:"max_parallel"`
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
	v.SetEnvPrefix("RELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Empty-string defaults register the key so AutomaticEnv
	// picks it up; an empty secret is the open demo-mode configuration.
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.public_url", "")
	v.SetDefault("lindy.webhook_url", "")
	v.SetDefault("lindy.secret", "")
	v.SetDefault("lindy.auth_header", "")
	v.SetDefault("lindy.trigger_timeout_secs", 60)
	v.SetDefault("sheets.fetch_timeout_secs", 30)
	v.SetDefault("sheets.max_parallel", 5)
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
