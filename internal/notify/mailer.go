package notify

import (
	"fmt"
	"log/slog"

	"github.com/jewelen/marketplace-backend/internal/config"
	gomail "gopkg.in/gomail.v2"
)

// Mailer delivers transactional email (OTP, password reset).
type Mailer interface {
	Send(to, subject, html string) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.SMTPFrom,
	}
}

func (m *SMTPMailer) Send(to, subject, html string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

// LogMailer is used when SMTP is not configured; it logs instead of
// sending so local development does not need a mail server.
type LogMailer struct{}

func (LogMailer) Send(to, subject, _ string) error {
	slog.Info("mail suppressed (SMTP not configured)", "to", to, "subject", subject)
	return nil
}

// OTPEmail renders the registration verification mail.
func OTPEmail(name, otp string) string {
	return fmt.Sprintf(`<div style="font-family: sans-serif; text-align: center; padding: 20px;">
  <h2>Welcome to Jewelen!</h2>
  <p>Hi %s, thank you for registering. Please use the following OTP to verify your email.</p>
  <p style="font-size: 24px; font-weight: bold;">%s</p>
  <p>This OTP is valid for 10 minutes.</p>
</div>`, name, otp)
}

// ResetEmail renders the password-reset mail.
func ResetEmail(resetURL string) string {
	return fmt.Sprintf(`<div style="font-family: sans-serif; padding: 20px;">
  <h2>Password Reset Request</h2>
  <p>You requested a password reset. Please click this link to reset your password:</p>
  <a href="%s">%s</a>
  <p>This link is valid for 10 minutes.</p>
</div>`, resetURL, resetURL)
}
