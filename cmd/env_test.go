package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/sink"
)

func TestBuildDiscoverer(t *testing.T) {
	c := &config.Config{}
	assert.Equal(t, "chain()", buildDiscoverer(c).Name())

	c.Places.Key = "places-key"
	c.Serper.Key = "serper-key"
	assert.Equal(t, "chain(google_places,serper)", buildDiscoverer(c).Name())

	c.Places.Key = ""
	assert.Equal(t, "chain(serper)", buildDiscoverer(c).Name())
}

func TestBuildSink_None(t *testing.T) {
	s, closeFn, err := buildSink(context.Background(), &config.Config{})
	require.NoError(t, err)
	assert.Nil(t, closeFn)
	assert.IsType(t, sink.Nop{}, s)
}

func TestBuildSink_XLSX(t *testing.T) {
	c := &config.Config{Sink: config.SinkConfig{Driver: config.SinkXLSX, Path: filepath.Join(t.TempDir(), "leads.xlsx")}}
	s, _, err := buildSink(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, "xlsx", s.Name())
}

func TestBuildSink_SQLite(t *testing.T) {
	c := &config.Config{Sink: config.SinkConfig{Driver: config.SinkSQLite, Path: filepath.Join(t.TempDir(), "leads.db")}}
	s, closeFn, err := buildSink(context.Background(), c)
	require.NoError(t, err)
	require.NotNil(t, closeFn)
	defer closeFn()
	assert.Equal(t, "sqlite", s.Name())
}

func TestBuildSink_List(t *testing.T) {
	dir := t.TempDir()
	c := &config.Config{Sink: config.SinkConfig{
		Driver: "xlsx,sqlite",
		Path:   filepath.Join(dir, "leads.xlsx"),
		DBPath: filepath.Join(dir, "leads.db"),
	}}
	s, closeFn, err := buildSink(context.Background(), c)
	require.NoError(t, err)
	require.NotNil(t, closeFn)
	defer closeFn()

	require.IsType(t, sink.Multi{}, s)
	assert.Equal(t, "multi(xlsx,sqlite)", s.Name())
	require.NoError(t, s.AppendRows(context.Background(), []model.Lead{{BusinessName: "Iron Temple Gym"}}))

	leads, err := sink.List(context.Background(), s, 10)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Iron Temple Gym", leads[0].BusinessName)
}

func TestBuildSink_ListWithUnknownDriver(t *testing.T) {
	c := &config.Config{Sink: config.SinkConfig{
		Driver: "sqlite,mongo",
		Path:   filepath.Join(t.TempDir(), "leads.db"),
	}}
	_, closeFn, err := buildSink(context.Background(), c)
	require.Error(t, err)
	assert.Nil(t, closeFn)
	assert.Contains(t, err.Error(), `"mongo"`)
}

func TestBuildSink_Notion(t *testing.T) {
	c := &config.Config{
		Sink:   config.SinkConfig{Driver: config.SinkNotion},
		Notion: config.NotionConfig{Token: "secret", LeadDB: "db-id"},
	}
	s, _, err := buildSink(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, "notion", s.Name())
}

func TestBuildSink_Errors(t *testing.T) {
	_, _, err := buildSink(context.Background(), &config.Config{Sink: config.SinkConfig{Driver: "mongo"}})
	assert.Error(t, err)

	_, _, err = buildSink(context.Background(), &config.Config{Sink: config.SinkConfig{Driver: config.SinkPostgres, DatabaseURL: "postgres://%%bad"}})
	assert.Error(t, err)

	_, _, err = buildSink(context.Background(), &config.Config{
		Sink:       config.SinkConfig{Driver: config.SinkSalesforce},
		Salesforce: config.SalesforceConfig{ClientID: "cid", KeyPath: filepath.Join(t.TempDir(), "missing.pem")},
	})
	assert.Error(t, err)
}

func TestRunTimeout(t *testing.T) {
	c := &config.Config{}
	assert.Zero(t, runTimeout(c))

	c.Pipeline.RunTimeoutSecs = 30
	assert.Equal(t, 30*time.Second, runTimeout(c))

	ctx, cancel := withRunTimeout(context.Background(), 0)
	defer cancel()
	_, ok := ctx.Deadline()
	assert.False(t, ok)
}

func TestNewMailer_FromConfig(t *testing.T) {
	c := &config.Config{SMTP: config.SMTPConfig{Host: "smtp.gmail.com", Port: 587}}
	assert.False(t, newMailer(c).IsConfigured())

	c.SMTP.Username = "u"
	c.SMTP.Password = "p"
	c.SMTP.FromEmail = "me@x.com"
	assert.True(t, newMailer(c).IsConfigured())
}
