package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rotisserie/eris"
)

// Sink drivers.
const (
	SinkNone       = "none"
	SinkXLSX       = "xlsx"
	SinkSQLite     = "sqlite"
	SinkPostgres   = "postgres"
	SinkNotion     = "notion"
	SinkSalesforce = "salesforce"
)

// MaxResultsLimit is the largest batch a single run may request.
const MaxResultsLimit = 50

// Validate checks that the settings required by mode are present. Modes are
// "generate", "serve", "schedule", "send" and "sink".
func (c *Config) Validate(mode string) error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	switch mode {
	case "generate", "serve", "schedule":
		if c.Places.Key == "" && c.Serper.Key == "" {
			add("places.key or serper.key is required")
		}
		if c.AI.Key == "" {
			add("ai.key is required")
		}
		switch strings.ToLower(c.AI.Provider) {
		case "", "anthropic", "openai", "gemini":
		default:
			add("ai.provider %q is not supported", c.AI.Provider)
		}
		if c.Pipeline.DefaultMaxResults < 1 || c.Pipeline.DefaultMaxResults > MaxResultsLimit {
			add("pipeline.default_max_results must be between 1 and %d", MaxResultsLimit)
		}
		if c.Fetch.Concurrency < 1 {
			add("fetch.concurrency must be > 0")
		}
		c.validateSink(add)
	case "sink":
		if len(c.Sink.Drivers()) == 0 {
			add("sink.driver is required")
		}
		c.validateSink(add)
	case "send":
		if !c.SMTP.Configured() {
			add("smtp.username, smtp.password and smtp.from_email are required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if mode == "serve" && c.Server.Port <= 0 {
		add("server.port must be > 0")
	}
	if mode == "schedule" {
		if c.Schedule.Cron == "" {
			add("schedule.cron is required")
		}
		if len(c.Schedule.Queries) == 0 {
			add("schedule.queries is required")
		}
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) validateSink(add func(string, ...any)) {
	drivers := c.Sink.Drivers()
	for _, d := range drivers {
		switch d {
		case SinkXLSX:
			if c.Sink.Path == "" {
				add("sink.path is required for xlsx")
			}
		case SinkSQLite:
			if c.Sink.SQLitePath() == "" {
				add("sink.path is required for sqlite")
			}
		case SinkPostgres:
			if c.Sink.DatabaseURL == "" {
				add("sink.database_url is required for postgres")
			}
		case SinkNotion:
			if c.Notion.Token == "" || c.Notion.LeadDB == "" {
				add("notion.token and notion.lead_db are required for notion")
			}
		case SinkSalesforce:
			if c.Salesforce.ClientID == "" || c.Salesforce.KeyPath == "" {
				add("salesforce.client_id and salesforce.key_path are required for salesforce")
			}
		default:
			add("sink.driver %q is not supported", d)
		}
	}
	if slices.Contains(drivers, SinkXLSX) && slices.Contains(drivers, SinkSQLite) && c.Sink.DBPath == "" {
		add("sink.db_path is required when xlsx and sqlite are both enabled")
	}
}

// Configured reports whether SMTP credentials are present.
func (s SMTPConfig) Configured() bool {
	return s.Username != "" && s.Password != "" && s.FromEmail != ""
}
