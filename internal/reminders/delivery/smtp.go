package delivery

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	routines "github.com/nemodouble/godlife/internal/routines/domain"
)

// MailSender sends composed mail messages. gomail.Dialer satisfies it.
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// RecipientLookup resolves owner settings that carry the e-mail address.
type RecipientLookup interface {
	Handle(ctx context.Context, ownerID string) (*routines.UserSettings, error)
}

// SMTPConfig configures the SMTP messenger.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

var mailSubjects = map[routines.Locale]string{
	routines.LocaleKorean:  "[GodLife] 루틴 알림",
	routines.LocaleEnglish: "[GodLife] Routine reminder",
}

// SMTPMessenger e-mails reminders to owners that configured an address.
type SMTPMessenger struct {
	sender     MailSender
	from       string
	recipients RecipientLookup
}

// NewSMTPDialer creates a gomail dialer. Port 465 uses implicit TLS, other
// ports upgrade with STARTTLS.
func NewSMTPDialer(cfg SMTPConfig) *gomail.Dialer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.Port == 465
	d.TLSConfig = &tls.Config{ServerName: cfg.Host}
	return d
}

// NewSMTPMessenger creates an e-mail messenger.
func NewSMTPMessenger(sender MailSender, from string, recipients RecipientLookup) *SMTPMessenger {
	return &SMTPMessenger{sender: sender, from: from, recipients: recipients}
}

func (m *SMTPMessenger) Send(ctx context.Context, ownerID, text string) error {
	settings, err := m.recipients.Handle(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("load recipient: %w", err)
	}
	if settings == nil || strings.TrimSpace(settings.Email) == "" {
		return fmt.Errorf("%w: %s", ErrNoRecipient, ownerID)
	}

	subject, ok := mailSubjects[settings.Locale]
	if !ok {
		subject = mailSubjects[routines.LocaleKorean]
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", settings.Email)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", text)

	if err := m.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
