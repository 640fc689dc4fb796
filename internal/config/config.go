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
	Places     PlacesConfig     `yaml:"places" mapstructure:"places"`
	Serper     SerperConfig     `yaml:"serper" mapstructure:"serper"`
	AI         AIConfig         `yaml:"ai" mapstructure:"ai"`
	Fetch      FetchConfig      `yaml:"fetch" mapstructure:"fetch"`
	Pipeline   PipelineConfig   `yaml:"pipeline" mapstructure:"pipeline"`
	Sink       SinkConfig       `yaml:"sink" mapstructure:"sink"`
	Notion     NotionConfig     `yaml:"notion" mapstructure:"notion"`
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	SMTP       SMTPConfig       `yaml:"smtp" mapstructure:"smtp"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Schedule   ScheduleConfig   `yaml:"schedule" mapstructure:"schedule"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// PlacesConfig holds Google Places API settings.
type PlacesConfig struct {
	Key       string  `yaml:"key" mapstructure:"key"`
	BaseURL   string  `yaml:"base_url" mapstructure:"base_url"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// SerperConfig holds Serper search API settings (fallback discovery).
type SerperConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Country string `yaml:"country" mapstructure:"country"`
}

// AIConfig selects the language model used for extraction and drafting.
type AIConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"`
	Key      string `yaml:"key" mapstructure:"key"`
	Model    string `yaml:"model" mapstructure:"model"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
}

// FetchConfig configures website retrieval.
type FetchConfig struct {
	TimeoutSecs  int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent    string `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64  `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	Concurrency  int    `yaml:"concurrency" mapstructure:"concurrency"`
}

// PipelineConfig configures lead generation runs.
type PipelineConfig struct {
	DefaultMaxResults int `yaml:"default_max_results" mapstructure:"default_max_results"`
	RunTimeoutSecs    int `yaml:"run_timeout_secs" mapstructure:"run_timeout_secs"`
}

// SinkConfig selects where generated leads are persisted. Driver may name
// several sinks separated by commas ("xlsx,sqlite"); every one is written.
type SinkConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	Sheet       string `yaml:"sheet" mapstructure:"sheet"`
	DBPath      string `yaml:"db_path" mapstructure:"db_path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// Drivers splits Driver into its sink names, lowercased, without blanks,
// "none" or repeats.
func (s SinkConfig) Drivers() []string {
	var out []string
	seen := make(map[string]bool)
	for _, d := range strings.Split(s.Driver, ",") {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" || d == SinkNone || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}

// SQLitePath is the database file for the sqlite sink: DBPath when set,
// otherwise Path.
func (s SinkConfig) SQLitePath() string {
	if s.DBPath != "" {
		return s.DBPath
	}
	return s.Path
}

// NotionConfig holds Notion API credentials for the notion sink.
type NotionConfig struct {
	Token     string  `yaml:"token" mapstructure:"token"`
	LeadDB    string  `yaml:"lead_db" mapstructure:"lead_db"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// SalesforceConfig holds Salesforce JWT auth settings.
type SalesforceConfig struct {
	ClientID  string  `yaml:"client_id" mapstructure:"client_id"`
	Username  string  `yaml:"username" mapstructure:"username"`
	KeyPath   string  `yaml:"key_path" mapstructure:"key_path"`
	LoginURL  string  `yaml:"login_url" mapstructure:"login_url"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// SMTPConfig configures outbound mail.
type SMTPConfig struct {
	Host      string  `yaml:"host" mapstructure:"host"`
	Port      int     `yaml:"port" mapstructure:"port"`
	Username  string  `yaml:"username" mapstructure:"username"`
	Password  string  `yaml:"password" mapstructure:"password"`
	FromEmail string  `yaml:"from_email" mapstructure:"from_email"`
	FromName  string  `yaml:"from_name" mapstructure:"from_name"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// ScheduleConfig configures recurring lead generation.
type ScheduleConfig struct {
	Cron       string   `yaml:"cron" mapstructure:"cron"`
	Queries    []string `yaml:"queries" mapstructure:"queries"`
	MaxResults int      `yaml:"max_results" mapstructure:"max_results"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from config.yaml (optional), environment
// variables prefixed with LEADGEN_, and defaults.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("places.base_url", "https://places.googleapis.com/v1")
	v.SetDefault("places.rate_limit", 10)
	v.SetDefault("serper.base_url", "https://google.serper.dev")
	v.SetDefault("ai.provider", "anthropic")
	v.SetDefault("fetch.timeout_secs", 15)
	v.SetDefault("fetch.max_body_bytes", 2<<20)
	v.SetDefault("fetch.concurrency", 5)
	v.SetDefault("pipeline.default_max_results", 10)
	v.SetDefault("pipeline.run_timeout_secs", 600)
	v.SetDefault("sink.driver", "none")
	v.SetDefault("sink.path", "leads.xlsx")
	v.SetDefault("sink.sheet", "Leads")
	v.SetDefault("notion.rate_limit", 3)
	v.SetDefault("salesforce.login_url", "https://login.salesforce.com")
	v.SetDefault("salesforce.rate_limit", 5)
	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.from_name", "SiteScout AI")
	v.SetDefault("smtp.rate_limit", 1)
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("schedule.cron", "0 9 * * 1")
	v.SetDefault("schedule.max_results", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Keys without defaults are invisible to AutomaticEnv during Unmarshal.
	for _, key := range []string{
		"places.key", "serper.key", "serper.country", "ai.key", "ai.model", "ai.base_url",
		"fetch.user_agent", "sink.db_path", "sink.database_url", "notion.token", "notion.lead_db",
		"salesforce.client_id", "salesforce.username", "salesforce.key_path",
		"smtp.username", "smtp.password", "smtp.from_email", "schedule.queries",
	} {
		_ = v.BindEnv(key)
	}

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
