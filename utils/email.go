package utils

import (
	"fmt"

	"github.com/meinhoongagan/petcare/config"
	"gopkg.in/gomail.v2"
)

// Mailer sends HTML mail.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer delivers mail through the configured SMTP server.
type SMTPMailer struct {
	Host     string
	Port     int
	User     string
	Password string
}

func NewSMTPMailer(cfg config.Config) *SMTPMailer {
	return &SMTPMailer{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.EmailUser,
		Password: cfg.EmailPass,
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	if m.Host == "" {
		return fmt.Errorf("smtp host not configured")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.User)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	d := gomail.NewDialer(m.Host, m.Port, m.User, m.Password)
	return d.DialAndSend(msg)
}
