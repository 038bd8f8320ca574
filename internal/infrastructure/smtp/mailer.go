package smtp

import (
	"fmt"
	"time"

	"github.com/email-verification-api/internal/config"
	"gopkg.in/gomail.v2"
)

// Mailer sends verification emails. Declared as an interface so the
// application layer can be tested without an SMTP server.
type Mailer interface {
	SendVerificationEmail(to, firstName, code, token string) error
}

type mailer struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
	brand    string
	baseURL  string
	expiry   time.Duration
}

func NewMailer(cfg *config.Config) Mailer {
	return &mailer{
		dialer:   gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:     cfg.SMTPFrom,
		fromName: cfg.SMTPFromName,
		brand:    cfg.SMTPFromName,
		baseURL:  cfg.FrontendBaseURL,
		expiry:   cfg.CodeExpiry,
	}
}

func (m *mailer) SendVerificationEmail(to, firstName, code, token string) error {
	body, err := renderVerificationEmail(m.brand, m.baseURL, firstName, code, token, m.expiry)
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, m.fromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Confirm your email - %s", m.brand))
	msg.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	return nil
}
