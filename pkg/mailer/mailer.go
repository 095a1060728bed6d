package mailer

import (
	"gopkg.in/gomail.v2"

	"github.com/vsu-ncs/conduct-api/pkg/config"
)

// Sender delivers a single HTML email.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

// SMTPSender sends mail through a configured SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender builds a sender from SMTP configuration.
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Send composes and delivers one message.
func (s *SMTPSender) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)
	return s.dialer.DialAndSend(m)
}
