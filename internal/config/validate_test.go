package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Places.Key = "places-key"
	cfg.AI.Provider = "anthropic"
	cfg.AI.Key = "sk-ant-key"
	cfg.Fetch.Concurrency = 5
	cfg.Pipeline.DefaultMaxResults = 10
	cfg.Sink.Driver = SinkNone
	cfg.Server.Port = 8000
	return cfg
}

func TestValidateGenerate_AllPresent(t *testing.T) {
	assert.NoError(t, validDefaults().Validate("generate"))
}

func TestValidateGenerate_SerperOnly(t *testing.T) {
	cfg := validDefaults()
	cfg.Places.Key = ""
	cfg.Serper.Key = "serper-key"
	assert.NoError(t, cfg.Validate("generate"))
}

func TestValidateGenerate_MissingFields(t *testing.T) {
	cfg := validDefaults()
	cfg.Places.Key = ""
	cfg.AI.Key = ""
	cfg.AI.Provider = "cohere"

	err := cfg.Validate("generate")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "places.key or serper.key is required")
	assert.Contains(t, err.Error(), "ai.key is required")
	assert.Contains(t, err.Error(), `ai.provider "cohere" is not supported`)
}

func TestValidateMaxResultsBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Pipeline.DefaultMaxResults = 0
	assert.ErrorContains(t, cfg.Validate("generate"), "default_max_results must be between 1 and 50")

	cfg.Pipeline.DefaultMaxResults = 51
	assert.ErrorContains(t, cfg.Validate("generate"), "default_max_results must be between 1 and 50")

	cfg.Pipeline.DefaultMaxResults = 50
	assert.NoError(t, cfg.Validate("generate"))
}

func TestValidateSinkDrivers(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"xlsx ok", func(c *Config) { c.Sink.Driver = SinkXLSX; c.Sink.Path = "leads.xlsx" }, ""},
		{"xlsx no path", func(c *Config) { c.Sink.Driver = SinkXLSX }, "sink.path is required for xlsx"},
		{"sqlite no path", func(c *Config) { c.Sink.Driver = SinkSQLite }, "sink.path is required for sqlite"},
		{"postgres no url", func(c *Config) { c.Sink.Driver = SinkPostgres }, "sink.database_url is required"},
		{"notion no token", func(c *Config) { c.Sink.Driver = SinkNotion }, "notion.token and notion.lead_db"},
		{"salesforce no creds", func(c *Config) { c.Sink.Driver = SinkSalesforce }, "salesforce.client_id"},
		{"unknown", func(c *Config) { c.Sink.Driver = "bigquery" }, `sink.driver "bigquery" is not supported`},
		{"list ok", func(c *Config) {
			c.Sink.Driver = "xlsx, sqlite"
			c.Sink.Path = "leads.xlsx"
			c.Sink.DBPath = "leads.db"
		}, ""},
		{"list shares path", func(c *Config) {
			c.Sink.Driver = "xlsx,sqlite"
			c.Sink.Path = "leads.xlsx"
		}, "sink.db_path is required"},
		{"list unknown member", func(c *Config) {
			c.Sink.Driver = "xlsx,bigquery"
			c.Sink.Path = "leads.xlsx"
		}, `sink.driver "bigquery" is not supported`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validDefaults()
			tt.mutate(cfg)
			err := cfg.Validate("generate")
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateSchedule(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("schedule")
	assert.ErrorContains(t, err, "schedule.cron is required")
	assert.ErrorContains(t, err, "schedule.queries is required")

	cfg.Schedule.Cron = "0 9 * * 1"
	cfg.Schedule.Queries = []string{"gyms in bageshwar"}
	assert.NoError(t, cfg.Validate("schedule"))
}

func TestValidateSend(t *testing.T) {
	cfg := &Config{}
	assert.ErrorContains(t, cfg.Validate("send"), "smtp.username")

	cfg.SMTP = SMTPConfig{Username: "u", Password: "p", FromEmail: "me@shop.in"}
	assert.NoError(t, cfg.Validate("send"))
}

func TestValidateUnknownMode(t *testing.T) {
	err := validDefaults().Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestSinkDrivers(t *testing.T) {
	assert.Nil(t, SinkConfig{Driver: ""}.Drivers())
	assert.Nil(t, SinkConfig{Driver: "none"}.Drivers())
	assert.Equal(t, []string{"xlsx"}, SinkConfig{Driver: "XLSX"}.Drivers())
	assert.Equal(t, []string{"xlsx", "sqlite"}, SinkConfig{Driver: " xlsx , sqlite,xlsx,,none"}.Drivers())
}

func TestSinkSQLitePath(t *testing.T) {
	assert.Equal(t, "leads.xlsx", SinkConfig{Path: "leads.xlsx"}.SQLitePath())
	assert.Equal(t, "leads.db", SinkConfig{Path: "leads.xlsx", DBPath: "leads.db"}.SQLitePath())
}

func TestValidateSinkMode(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate("sink")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sink.driver is required")

	cfg.Sink.Driver = SinkSQLite
	cfg.Sink.Path = "leads.db"
	assert.NoError(t, cfg.Validate("sink"))
}
