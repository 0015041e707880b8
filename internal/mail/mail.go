// Package mail delivers the transactional emails sent for intake submissions.
package mail

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	gomail "github.com/wneessen/go-mail"

	"github.com/Flofactionllc/flofaction-website-sub000/internal/apperr"
)

type Message struct {
	To      string
	ReplyTo string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPMailer struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

func (s SMTPMailer) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMsg()
	if err := m.From(s.From); err != nil {
		return apperr.Vendor("smtp", "build message", err)
	}
	if err := m.To(msg.To); err != nil {
		return apperr.Vendor("smtp", "build message", err)
	}
	if msg.ReplyTo != "" {
		if err := m.ReplyTo(msg.ReplyTo); err != nil {
			return apperr.Vendor("smtp", "build message", err)
		}
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.Body)

	opts := []gomail.Option{
		gomail.WithPort(s.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if s.Timeout > 0 {
		opts = append(opts, gomail.WithTimeout(s.Timeout))
	}
	if s.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.Username),
			gomail.WithPassword(s.Password),
		)
	}
	c, err := gomail.NewClient(s.Host, opts...)
	if err != nil {
		return apperr.Vendor("smtp", "connect", err)
	}
	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		return apperr.Vendor("smtp", "send", err)
	}
	return nil
}

// LogMailer records the message instead of delivering it. It is wired when no SMTP
// host is configured and always reports success.
type LogMailer struct {
	Logger zerolog.Logger
}

func (l LogMailer) Send(ctx context.Context, msg Message) error {
	l.Logger.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Int("body_bytes", len(msg.Body)).
		Msg("email not sent: smtp disabled")
	return nil
}
