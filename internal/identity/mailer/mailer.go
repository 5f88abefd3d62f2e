// Package mailer delivers transactional email (password reset links).
package mailer

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/resend/resend-go"
)

// DefaultTimeout bounds a single delivery attempt.
const DefaultTimeout = 10 * time.Second

var ErrNotConfigured = errors.New("mailer: not configured")

// Mailer sends the messages the identity service needs.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, username, token string) error
}

// Message is a rendered email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// ResetLink builds the link the rider follows to choose a new password.
func ResetLink(baseURL, token string) string {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		return token
	}
	return base + "/reset-password?token=" + url.QueryEscape(token)
}

// PasswordResetMessage renders the reset email.
func PasswordResetMessage(baseURL, to, username, token string) Message {
	link := ResetLink(baseURL, token)
	name := username
	if name == "" {
		name = "there"
	}
	return Message{
		To:      to,
		Subject: "Reset your password",
		HTML: fmt.Sprintf(
			"<p>Hi %s,</p><p>Click to reset your password. The link expires in one hour.</p><p><a href=\"%s\">Reset Password</a></p><p>If you did not ask for this you can ignore this email.</p>",
			html.EscapeString(name), html.EscapeString(link)),
		Text: fmt.Sprintf("Hi %s,\n\nReset your password: %s\n\nThe link expires in one hour. If you did not ask for this you can ignore this email.\n", name, link),
	}
}

// Resend delivers through the Resend API.
type Resend struct {
	from       string
	appBaseURL string
	timeout    time.Duration
	send       func(*resend.SendEmailRequest) error
}

func NewResend(apiKey, from, appBaseURL string) (*Resend, error) {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(from) == "" {
		return nil, ErrNotConfigured
	}
	client := resend.NewClient(apiKey)
	return &Resend{
		from:       from,
		appBaseURL: appBaseURL,
		timeout:    DefaultTimeout,
		send: func(req *resend.SendEmailRequest) error {
			_, err := client.Emails.Send(req)
			return err
		},
	}, nil
}

func (r *Resend) SendPasswordReset(ctx context.Context, to, username, token string) error {
	msg := PasswordResetMessage(r.appBaseURL, to, username, token)
	return r.deliver(ctx, msg)
}

// deliver runs the blocking SDK call in a goroutine so ctx and the timeout
// bound how long the caller waits.
func (r *Resend) deliver(ctx context.Context, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req := &resend.SendEmailRequest{
		From:    r.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}

	done := make(chan error, 1)
	go func() { done <- r.send(req) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("resend: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("resend: %w", ctx.Err())
	}
}

// Log writes messages to the logger instead of sending them. Used in
// development and tests when no API key is configured.
type Log struct {
	logger     *slog.Logger
	appBaseURL string
}

func NewLog(logger *slog.Logger, appBaseURL string) *Log {
	return &Log{logger: logger, appBaseURL: appBaseURL}
}

func (l *Log) SendPasswordReset(ctx context.Context, to, username, token string) error {
	msg := PasswordResetMessage(l.appBaseURL, to, username, token)
	l.logger.InfoContext(ctx, "password reset email (not sent)",
		"to", msg.To,
		"subject", msg.Subject,
		"link", ResetLink(l.appBaseURL, token),
	)
	return nil
}
