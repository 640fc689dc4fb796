// Package mail delivers drafted outreach emails.
package mail

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// DefaultSubject is used when a bulk send has no subject.
const DefaultSubject = "Business Opportunity"

// Message is a single plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Recipient pairs an address with its personalised body.
type Recipient struct {
	Email string `json:"email"`
	Body  string `json:"body"`
}

// Result summarises a bulk send. Errors lists the addresses whose delivery
// failed; recipients without an address count as failed but are not listed.
type Result struct {
	Sent   int      `json:"sent"`
	Failed int      `json:"failed"`
	Errors []string `json:"errors"`
}

// Transport delivers one message.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// Mailer sends outreach emails through a Transport.
type Mailer struct {
	transport  Transport
	configured bool
	limiter    *rate.Limiter
}

// Option configures a Mailer.
type Option func(*Mailer)

// WithRateLimit paces deliveries to rps messages per second.
func WithRateLimit(rps float64) Option {
	return func(m *Mailer) {
		if rps > 0 {
			m.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// NewMailer creates a Mailer that sends through an SMTP server.
func NewMailer(opts SMTPOptions, mailerOpts ...Option) *Mailer {
	return NewWithTransport(NewSMTPTransport(opts), opts.Configured(), mailerOpts...)
}

// NewWithTransport creates a Mailer around an arbitrary transport.
func NewWithTransport(t Transport, configured bool, opts ...Option) *Mailer {
	m := &Mailer{transport: t, configured: configured}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// IsConfigured reports whether credentials are present.
func (m *Mailer) IsConfigured() bool {
	return m.configured
}

// Send delivers one message, reporting success. Failures are logged.
func (m *Mailer) Send(ctx context.Context, msg Message) bool {
	log := zap.L().With(zap.String("to", msg.To))

	if !m.configured {
		log.Warn("mail: smtp not configured, skipping email")
		return false
	}
	if m.limiter != nil {
		if err := m.limiter.Wait(ctx); err != nil {
			log.Error("mail: rate limit wait", zap.Error(err))
			return false
		}
	}
	if err := m.transport.Send(ctx, msg); err != nil {
		log.Error("mail: send failed", zap.Error(err))
		return false
	}

	log.Info("mail: email sent")
	return true
}

// SendBulk sends each recipient its body under subject, one at a time.
func (m *Mailer) SendBulk(ctx context.Context, recipients []Recipient, subject string) Result {
	if strings.TrimSpace(subject) == "" {
		subject = DefaultSubject
	}

	res := Result{Errors: []string{}}
	for _, r := range recipients {
		if r.Email == "" {
			res.Failed++
			continue
		}
		if m.Send(ctx, Message{To: r.Email, Subject: subject, Body: r.Body}) {
			res.Sent++
			continue
		}
		res.Failed++
		res.Errors = append(res.Errors, r.Email)
	}

	zap.L().Info("mail: bulk send completed",
		zap.Int("sent", res.Sent),
		zap.Int("failed", res.Failed),
	)
	return res
}

// RecipientsFromLeads selects leads that have both an address and a drafted
// email.
func RecipientsFromLeads(leads []model.Lead) []Recipient {
	var out []Recipient
	for _, l := range leads {
		if l.Email != "" && l.ColdEmail != "" {
			out = append(out, Recipient{Email: l.Email, Body: l.ColdEmail})
		}
	}
	return out
}
