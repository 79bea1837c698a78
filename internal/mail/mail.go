// Package mail sends notification email on a best-effort basis. Callers
// log failures and move on; delivery is never part of a request's
// success criteria.
package mail

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends one plain-text message.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends through a configured relay.
type SMTPMailer struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// New returns an SMTP mailer, or a no-op mailer when no host is
// configured.
func New(host string, port int, user, pass, from string) Mailer {
	if host == "" {
		return NopMailer{}
	}
	return &SMTPMailer{Host: host, Port: port, User: user, Pass: pass, From: from}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)

	var auth smtp.Auth
	if m.User != "" {
		auth = smtp.PlainAuth("", m.User, m.Pass, m.Host)
	}

	msg := strings.Join([]string{
		"From: " + m.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(addr, auth, m.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// NopMailer drops every message. Used when SMTP is unconfigured and in
// tests.
type NopMailer struct{}

func (NopMailer) Send(to, subject, body string) error { return nil }
