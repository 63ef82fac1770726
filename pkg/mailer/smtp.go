package mailer

import (
	"context"
	"fmt"

	"gopkg.in/mail.v2"
)

type smtpMailer struct {
	from   string
	dialer *mail.Dialer
}

func NewSMTPMailer(opts Options) Mailer {
	from := opts.From
	if opts.FromName != "" {
		from = fmt.Sprintf("%s <%s>", opts.FromName, opts.From)
	}

	return &smtpMailer{
		from:   from,
		dialer: mail.NewDialer(opts.Host, opts.Port, opts.Username, opts.Password),
	}
}

func (s *smtpMailer) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := mail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
