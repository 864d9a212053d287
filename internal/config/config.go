package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/lead-intel/internal/intel"
	"github.com/sells-group/lead-intel/internal/store"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Engine     intel.Config     `yaml:"engine" mapstructure:"engine"`
	Ingest     IngestConfig     `yaml:"ingest" mapstructure:"ingest"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	Notion     NotionConfig     `yaml:"notion" mapstructure:"notion"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the snapshot database backend.
type StoreConfig struct {
	Driver      string           `yaml:"driver" mapstructure:"driver"`
	Path        string           `yaml:"path" mapstructure:"path"`
	DatabaseURL string           `yaml:"database_url" mapstructure:"database_url"`
	Pool        store.PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// IngestConfig configures dataset loading.
type IngestConfig struct {
	// AliasesFile points at an optional YAML file of extra header
	// spellings accepted during column resolution.
	AliasesFile string `yaml:"aliases_file" mapstructure:"aliases_file"`
	// Sheet selects the XLSX sheet by name; empty means the first sheet.
	Sheet string `yaml:"sheet" mapstructure:"sheet"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// SalesforceConfig holds Salesforce JWT auth settings.
type SalesforceConfig struct {
	ClientID string `yaml:"client_id" mapstructure:"client_id"`
	Username string `yaml:"username" mapstructure:"username"`
	KeyPath  string `yaml:"key_path" mapstructure:"key_path"`
	LoginURL string `yaml:"login_url" mapstructure:"login_url"`
}

// NotionConfig holds Notion API credentials and database IDs.
type NotionConfig struct {
	Token   string `yaml:"token" mapstructure:"token"`
	LeadDB  string `yaml:"lead_db" mapstructure:"lead_db"`
	QueueDB string `yaml:"queue_db" mapstructure:"queue_db"`
}

// AnthropicConfig holds Anthropic API settings for the briefing command.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
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
	v.SetEnvPrefix("LEADINTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "lead-intel.db")
	v.SetDefault("engine.hot_top_n", 12)
	v.SetDefault("engine.value_top_n", 20)
	v.SetDefault("engine.hot_priority_floor", 10)
	v.SetDefault("engine.value_floor", 10)
	v.SetDefault("engine.intent_min_signals", 2)
	v.SetDefault("engine.active_days", 7)
	v.SetDefault("server.port", 8080)
	v.SetDefault("salesforce.login_url", "https://login.salesforce.com")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 1024)
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

// Validate checks that the fields the given mode depends on are set.
// Modes: "store" (snapshot persistence), "serve" (HTTP API), "sync"
// (CRM/workspace push), "brief" (AI briefing).
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "store":
		problems = append(problems, c.storeProblems()...)
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
		problems = append(problems, c.storeProblems()...)
	case "sync":
		if c.Salesforce.ClientID == "" && c.Notion.Token == "" {
			problems = append(problems, "salesforce or notion credentials are required")
		}
		if c.Salesforce.ClientID != "" {
			if c.Salesforce.Username == "" {
				problems = append(problems, "salesforce.username is required")
			}
			if c.Salesforce.KeyPath == "" {
				problems = append(problems, "salesforce.key_path is required")
			}
		}
		if c.Notion.Token != "" && c.Notion.QueueDB == "" {
			problems = append(problems, "notion.queue_db is required")
		}
	case "brief":
		if c.Anthropic.Key == "" {
			problems = append(problems, "anthropic.key is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) storeProblems() []string {
	switch c.Store.Driver {
	case "sqlite":
		if c.Store.Path == "" {
			return []string{"store.path is required for sqlite"}
		}
	case "postgres":
		if c.Store.DatabaseURL == "" {
			return []string{"store.database_url is required for postgres"}
		}
	default:
		return []string{"store.driver must be sqlite or postgres"}
	}
	return nil
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
