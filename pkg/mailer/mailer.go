package mailer

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Message is a single transactional email.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Mailer delivers a message through a mail relay.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

const (
	DriverSMTP     = "smtp"
	DriverSendgrid = "sendgrid"
	DriverConsole  = "console"
)

type Options struct {
	Driver   string
	FromName string
	From     string

	Host     string
	Port     int
	Username string
	Password string

	SendgridAPIKey string
}

// New picks the mail driver configured for the process.
func New(opts Options, logger *zap.Logger) (Mailer, error) {
	switch opts.Driver {
	case DriverSMTP:
		if opts.Host == "" {
			return nil, fmt.Errorf("smtp mailer requires MAIL_HOST")
		}
		return NewSMTPMailer(opts), nil
	case DriverSendgrid:
		if opts.SendgridAPIKey == "" {
			return nil, fmt.Errorf("sendgrid mailer requires SENDGRID_API_KEY")
		}
		return NewSendgridMailer(opts), nil
	case DriverConsole, "":
		return NewConsoleMailer(logger), nil
	default:
		return nil, fmt.Errorf("unknown mail driver %q", opts.Driver)
	}
}

func (m Message) validate() error {
	if m.To == "" {
		return fmt.Errorf("mail recipient is empty")
	}
	if m.Subject == "" {
		return fmt.Errorf("mail subject is empty")
	}
	return nil
}
