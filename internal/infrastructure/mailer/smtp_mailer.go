package mailer

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/alam0164088/chef-star/internal/config"
)

// SMTPMailer delivers messages over SMTP using gomail.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

var dialAndSend = func(d *gomail.Dialer, m *gomail.Message) error {
	return d.DialAndSend(m)
}

// NewSMTPMailer creates an SMTP mailer
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send delivers the message, attaching the HTML body as an alternative
// part when present.
func (s *SMTPMailer) Send(ctx context.Context, msg *Message) error {
	from := msg.From
	if from == "" {
		from = s.cfg.From
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	err := dialAndSend(d, m)
	observeSend(err)
	if err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}
