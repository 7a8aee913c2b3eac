package notification

import (
	"gopkg.in/gomail.v2"

	"github.com/portal-labs/project-portal/internal"
)

// Mailer delivers one message. Implementations do not retry; the service
// owns the attempt counter.
type Mailer interface {
	Send(recipient, subject, body string) error
}

// SMTPMailer sends plain-text mail through the configured relay.
type SMTPMailer struct {
	dialer      *gomail.Dialer
	fromAddress string
	fromName    string
}

func NewSMTPMailer(cfg internal.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer:      gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
	}
}

func (m *SMTPMailer) Send(recipient, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.fromAddress, m.fromName)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}
