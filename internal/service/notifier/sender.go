package notifier

import (
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/vertiguard/vertiguard-api/internal/config"
	"github.com/vertiguard/vertiguard-api/internal/model"
)

// Sender is one delivery channel. Address picks the deliverable
// address for a contact (email for SMTP, phone for the simulated
// channel) so the fan-out can count contacts with no usable address as
// failed attempts without knowing channel details.
type Sender interface {
	Channel() string
	Address(contact *model.EmergencyContact) (string, bool)
	Send(to, subject, body string) error
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender delivers alerts as transactional email.
func NewSMTPSender(cfg config.SMTPConfig) Sender {
	return &smtpSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpSender) Channel() string { return "email" }

func (s *smtpSender) Address(contact *model.EmergencyContact) (string, bool) {
	if contact.Email == nil || *contact.Email == "" {
		return "", false
	}
	return *contact.Email, true
}

func (s *smtpSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

type simulatedSender struct {
	logger *zerolog.Logger
}

// NewSimulatedSender logs messages instead of delivering them,
// addressed to the contact's phone number as the original SMS path
// was. Used in dev and test configurations.
func NewSimulatedSender(logger *zerolog.Logger) Sender {
	return &simulatedSender{logger: logger}
}

func (s *simulatedSender) Channel() string { return "sms" }

func (s *simulatedSender) Address(contact *model.EmergencyContact) (string, bool) {
	if contact.Phone == nil || *contact.Phone == "" {
		return "", false
	}
	return *contact.Phone, true
}

func (s *simulatedSender) Send(to, subject, body string) error {
	s.logger.Info().
		Str("to", to).
		Str("subject", subject).
		Str("body", body).
		Msg("simulated notification sent")
	return nil
}
