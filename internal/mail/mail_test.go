package mail

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/model"
)

type fakeTransport struct {
	mu   sync.Mutex
	sent []Message
	fail map[string]bool
}

func (f *fakeTransport) Send(_ context.Context, msg Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[msg.To] {
		return errors.New("mailbox unavailable")
	}
	f.sent = append(f.sent, msg)
	return nil
}

func TestSendBulk_AllDelivered(t *testing.T) {
	ft := &fakeTransport{}
	m := NewWithTransport(ft, true)

	res := m.SendBulk(context.Background(), []Recipient{
		{Email: "a@x.com", Body: "hi a"},
		{Email: "b@x.com", Body: "hi b"},
	}, "Hello")

	assert.Equal(t, 2, res.Sent)
	assert.Equal(t, 0, res.Failed)
	assert.Empty(t, res.Errors)
	require.Len(t, ft.sent, 2)
	assert.Equal(t, Message{To: "a@x.com", Subject: "Hello", Body: "hi a"}, ft.sent[0])
}

func TestSendBulk_DefaultSubject(t *testing.T) {
	ft := &fakeTransport{}
	m := NewWithTransport(ft, true)

	m.SendBulk(context.Background(), []Recipient{{Email: "a@x.com", Body: "b"}}, "  ")

	require.Len(t, ft.sent, 1)
	assert.Equal(t, DefaultSubject, ft.sent[0].Subject)
}

func TestSendBulk_MixedFailures(t *testing.T) {
	ft := &fakeTransport{fail: map[string]bool{"bad@x.com": true}}
	m := NewWithTransport(ft, true)

	res := m.SendBulk(context.Background(), []Recipient{
		{Email: "ok@x.com", Body: "1"},
		{Email: "bad@x.com", Body: "2"},
		{Email: "", Body: "3"},
	}, "S")

	assert.Equal(t, 1, res.Sent)
	assert.Equal(t, 2, res.Failed)
	assert.Equal(t, []string{"bad@x.com"}, res.Errors)
}

func TestSendBulk_NotConfigured(t *testing.T) {
	ft := &fakeTransport{}
	m := NewWithTransport(ft, false)

	res := m.SendBulk(context.Background(), []Recipient{
		{Email: "a@x.com", Body: "1"},
		{Email: "b@x.com", Body: "2"},
	}, "S")

	assert.False(t, m.IsConfigured())
	assert.Equal(t, 0, res.Sent)
	assert.Equal(t, 2, res.Failed)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, res.Errors)
	assert.Empty(t, ft.sent)
}

func TestSendBulk_Empty(t *testing.T) {
	m := NewWithTransport(&fakeTransport{}, true)
	res := m.SendBulk(context.Background(), nil, "S")
	assert.Equal(t, Result{Errors: []string{}}, res)
}

func TestSendBulk_CanceledWhileRateLimited(t *testing.T) {
	ft := &fakeTransport{}
	m := NewWithTransport(ft, true, WithRateLimit(0.001))

	ctx, cancel := context.WithCancel(context.Background())
	// First send consumes the burst; the second must wait and is canceled.
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	res := m.SendBulk(ctx, []Recipient{
		{Email: "a@x.com", Body: "1"},
		{Email: "b@x.com", Body: "2"},
	}, "S")

	assert.Equal(t, 1, res.Sent)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, []string{"b@x.com"}, res.Errors)
}

func TestRecipientsFromLeads(t *testing.T) {
	leads := []model.Lead{
		{BusinessName: "A", Email: "a@x.com", ColdEmail: "hello"},
		{BusinessName: "B", Email: "", ColdEmail: "hello"},
		{BusinessName: "C", Email: "c@x.com", ColdEmail: ""},
	}

	got := RecipientsFromLeads(leads)
	assert.Equal(t, []Recipient{{Email: "a@x.com", Body: "hello"}}, got)
	assert.Empty(t, RecipientsFromLeads(nil))
}

func TestSMTPOptions_Configured(t *testing.T) {
	full := SMTPOptions{Host: "smtp.x.com", Port: 587, Username: "u", Password: "p", FromEmail: "f@x.com"}
	assert.True(t, full.Configured())

	missing := full
	missing.Password = ""
	assert.False(t, missing.Configured())

	noFrom := full
	noFrom.FromEmail = ""
	assert.False(t, noFrom.Configured())
}

func TestNewMailer_UsesSMTPConfiguration(t *testing.T) {
	m := NewMailer(SMTPOptions{Host: "smtp.x.com", Port: 587})
	assert.False(t, m.IsConfigured())
	_, ok := m.transport.(*SMTPTransport)
	assert.True(t, ok)
}

func TestCompose(t *testing.T) {
	tr := NewSMTPTransport(SMTPOptions{FromEmail: "me@x.com", FromName: "SiteScout AI"})
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	raw := string(tr.compose(Message{To: "you@y.com", Subject: "Hi there", Body: "line1\nline2"}, now))

	assert.Contains(t, raw, "From: \"SiteScout AI\" <me@x.com>\r\n")
	assert.Contains(t, raw, "To: <you@y.com>\r\n")
	assert.Contains(t, raw, "Subject: Hi there\r\n")
	assert.Contains(t, raw, "Content-Type: text/plain; charset=utf-8\r\n")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\nline1\r\nline2\r\n"))
}

func TestSMTPTransport_DialError(t *testing.T) {
	tr := NewSMTPTransport(SMTPOptions{Host: "127.0.0.1", Port: 1, Username: "u", Password: "p", FromEmail: "f@x.com"})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := tr.Send(ctx, Message{To: "a@x.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp: dial")
}
