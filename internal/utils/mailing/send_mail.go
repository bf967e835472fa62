package mailing

import (
	"strconv"

	"gopkg.in/gomail.v2"
)

type MailConfig struct {
	AppURL       string
	SMTPHost     string
	SMTPPort     string
	SMTPSender   string
	SMTPEmail    string
	SMTPPassword string
}

// Mailer sends a single HTML email. Injected so tests can substitute fakes.
type Mailer interface {
	Send(toEmail string, subject string, body string) error
}

type smtpMailer struct {
	config MailConfig
}

func NewMailer(config MailConfig) Mailer {
	return &smtpMailer{config: config}
}

func (m *smtpMailer) Send(toEmail string, subject string, body string) error {
	mailer := gomail.NewMessage()
	mailer.SetHeader("From", m.config.SMTPEmail)
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)

	port, err := strconv.Atoi(m.config.SMTPPort)
	if err != nil {
		return err
	}
	dialer := gomail.NewDialer(
		m.config.SMTPHost,
		port,
		m.config.SMTPEmail,
		m.config.SMTPPassword,
	)

	return dialer.DialAndSend(mailer)
}
