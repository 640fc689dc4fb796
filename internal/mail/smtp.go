package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// implicitTLSPort is the SMTPS port; every other port negotiates STARTTLS.
const implicitTLSPort = 465

const dialTimeout = 15 * time.Second

// SMTPOptions configures the SMTP transport.
type SMTPOptions struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// Configured reports whether every required setting is present.
func (o SMTPOptions) Configured() bool {
	return o.Host != "" && o.Port > 0 && o.Username != "" && o.Password != "" && o.FromEmail != ""
}

// SMTPTransport sends mail with net/smtp.
type SMTPTransport struct {
	opts SMTPOptions
}

// NewSMTPTransport creates an SMTPTransport.
func NewSMTPTransport(opts SMTPOptions) *SMTPTransport {
	return &SMTPTransport{opts: opts}
}

// Send implements Transport.
func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	addr := net.JoinHostPort(t.opts.Host, strconv.Itoa(t.opts.Port))
	tlsCfg := &tls.Config{ServerName: t.opts.Host, MinVersion: tls.VersionTLS12}

	dialer := &net.Dialer{Timeout: dialTimeout}
	var conn net.Conn
	var err error
	if t.opts.Port == implicitTLSPort {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: tlsCfg}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return eris.Wrapf(err, "smtp: dial %s", addr)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, t.opts.Host)
	if err != nil {
		_ = conn.Close()
		return eris.Wrap(err, "smtp: handshake")
	}
	defer client.Close() //nolint:errcheck

	if t.opts.Port != implicitTLSPort {
		if err := client.StartTLS(tlsCfg); err != nil {
			return eris.Wrap(err, "smtp: starttls")
		}
	}
	if err := client.Auth(smtp.PlainAuth("", t.opts.Username, t.opts.Password, t.opts.Host)); err != nil {
		return eris.Wrap(err, "smtp: auth")
	}
	if err := client.Mail(t.opts.FromEmail); err != nil {
		return eris.Wrap(err, "smtp: mail from")
	}
	if err := client.Rcpt(msg.To); err != nil {
		return eris.Wrapf(err, "smtp: rcpt %s", msg.To)
	}

	w, err := client.Data()
	if err != nil {
		return eris.Wrap(err, "smtp: data")
	}
	if _, err := w.Write(t.compose(msg, time.Now())); err != nil {
		_ = w.Close()
		return eris.Wrap(err, "smtp: write body")
	}
	if err := w.Close(); err != nil {
		return eris.Wrap(err, "smtp: close body")
	}
	return eris.Wrap(client.Quit(), "smtp: quit")
}

// compose renders msg as an RFC 5322 plain-text message.
func (t *SMTPTransport) compose(msg Message, now time.Time) []byte {
	from := (&mail.Address{Name: t.opts.FromName, Address: t.opts.FromEmail}).String()
	to := (&mail.Address{Address: msg.To}).String()

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", now.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")
	b.WriteString(normalizeNewlines(msg.Body))
	if !strings.HasSuffix(msg.Body, "\n") {
		b.WriteString("\r\n")
	}
	return []byte(b.String())
}

// normalizeNewlines converts bare LF line endings to CRLF.
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "\r\n")
}
