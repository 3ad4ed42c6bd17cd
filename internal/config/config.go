// Package config loads application configuration from config.yaml and
// LOOKUP_-prefixed environment variables, and initializes the global zap
// logger.
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
	Agent      AgentConfig      `yaml:"agent" mapstructure:"agent"`
	Pipeline   PipelineConfig   `yaml:"pipeline" mapstructure:"pipeline"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Fetch      FetchConfig      `yaml:"fetch" mapstructure:"fetch"`
	Notion     NotionConfig     `yaml:"notion" mapstructure:"notion"`
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// AgentConfig holds the enrichment agent service settings.
type AgentConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	Key         string  `yaml:"key" mapstructure:"key"`
	MaxSteps    int     `yaml:"max_steps" mapstructure:"max_steps"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// PipelineConfig configures the two-phase enrichment run: file paths,
// per-row retry, backoff, and snapshot cadence. Sleeps are in seconds.
type PipelineConfig struct {
	Input       string `yaml:"input" mapstructure:"input"`
	CoreOutput  string `yaml:"core_output" mapstructure:"core_output"`
	FinalOutput string `yaml:"final_output" mapstructure:"final_output"`

	PartialEvery     int     `yaml:"partial_every" mapstructure:"partial_every"`
	RowRetries       int     `yaml:"row_retries" mapstructure:"row_retries"`
	RetryStartSleep  float64 `yaml:"retry_start_sleep" mapstructure:"retry_start_sleep"`
	RetryBackoffBase float64 `yaml:"retry_backoff_base" mapstructure:"retry_backoff_base"`
	RetryMaxSleep    float64 `yaml:"retry_max_sleep" mapstructure:"retry_max_sleep"`
	TargetContacts   int     `yaml:"target_contacts" mapstructure:"target_contacts"`

	RunRoot        string `yaml:"run_root" mapstructure:"run_root"`
	CheckpointSync bool   `yaml:"checkpoint_sync" mapstructure:"checkpoint_sync"`
}

// StoreConfig configures the run catalog backend.
type StoreConfig struct {
	Driver string     `yaml:"driver" mapstructure:"driver"`
	DSN    string     `yaml:"dsn" mapstructure:"dsn"`
	Pool   PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// PoolConfig sizes the Postgres connection pool.
type PoolConfig struct {
	MaxConns int `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int `yaml:"min_conns" mapstructure:"min_conns"`
}

// FetchConfig configures remote input downloads.
type FetchConfig struct {
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Concurrency int     `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// NotionConfig holds Notion export credentials.
type NotionConfig struct {
	Token      string `yaml:"token" mapstructure:"token"`
	DatabaseID string `yaml:"database_id" mapstructure:"database_id"`
}

// SalesforceConfig holds Salesforce JWT auth settings.
type SalesforceConfig struct {
	LoginURL string `yaml:"login_url" mapstructure:"login_url"`
	Username string `yaml:"username" mapstructure:"username"`
	ClientID string `yaml:"client_id" mapstructure:"client_id"`
	KeyPath  string `yaml:"key_path" mapstructure:"key_path"`
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
	v.SetEnvPrefix("LOOKUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("agent.base_url", "http://127.0.0.1:8701")
	v.SetDefault("agent.max_steps", 120)
	v.SetDefault("agent.timeout_secs", 120)
	v.SetDefault("pipeline.input", "input.csv")
	v.SetDefault("pipeline.core_output", "output.core.csv")
	v.SetDefault("pipeline.final_output", "output.with_contacts.csv")
	v.SetDefault("pipeline.partial_every", 20)
	v.SetDefault("pipeline.row_retries", 5)
	v.SetDefault("pipeline.retry_start_sleep", 1.0)
	v.SetDefault("pipeline.retry_backoff_base", 1.8)
	v.SetDefault("pipeline.retry_max_sleep", 12.0)
	v.SetDefault("pipeline.target_contacts", 3)
	v.SetDefault("pipeline.run_root", "runs")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "lookup.db")
	v.SetDefault("store.pool.max_conns", 4)
	v.SetDefault("store.pool.min_conns", 1)
	v.SetDefault("fetch.timeout_secs", 60)
	v.SetDefault("fetch.concurrency", 4)
	v.SetDefault("fetch.rate_limit", 5.0)
	v.SetDefault("notion.database_id", "")
	v.SetDefault("salesforce.login_url", "https://login.salesforce.com")
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
