// Package email sends transactional mail (invites) over SMTP.
package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"

	mail "github.com/go-mail/mail"

	"github.com/Project-Legacy-LA/legacy-la/internal/observability/logger"
)

// Message is one outgoing email. Text and HTML are sent as
// multipart/alternative when both are set.
type Message struct {
	To      string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, m Message) error
}

var (
	ErrMissingRecipient = errors.New("email: recipient is required")
	ErrMissingSubject   = errors.New("email: subject is required")
	ErrMissingFrom      = errors.New("email: from address is not configured")
)

func (m Message) validate() error {
	if m.To == "" {
		return ErrMissingRecipient
	}
	if m.Subject == "" {
		return ErrMissingSubject
	}
	return nil
}

type SMTPConfig struct {
	Host               string
	Port               int
	Username           string
	Password           string
	From               string
	TLSMode            string // "auto" | "starttls" | "ssl" | "none"
	InsecureSkipVerify bool
}

// SMTPSender implements Sender with go-mail.
type SMTPSender struct {
	cfg  SMTPConfig
	dial func(d *mail.Dialer, m *mail.Message) error
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.TLSMode == "" {
		cfg.TLSMode = "auto"
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &SMTPSender{cfg: cfg, dial: func(d *mail.Dialer, m *mail.Message) error { return d.DialAndSend(m) }}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	if s.cfg.From == "" {
		return ErrMissingFrom
	}
	log := logger.From(ctx).With(
		logger.Component("email.smtp"),
		logger.String("host", s.cfg.Host),
		logger.Int("port", s.cfg.Port),
	)

	m := mail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	if msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
	}
	if msg.HTML != "" {
		if msg.Text == "" {
			m.SetBody("text/html", msg.HTML)
		} else {
			m.AddAlternative("text/html", msg.HTML)
		}
	}

	d := s.dialer()
	if err := s.dial(d, m); err != nil {
		log.Error("smtp send failed", logger.Err(err))
		return fmt.Errorf("smtp send: %w", err)
	}
	log.Info("email sent", logger.String("subject", msg.Subject))
	return nil
}

func (s *SMTPSender) dialer() *mail.Dialer {
	d := mail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	d.TLSConfig = &tls.Config{
		ServerName:         s.cfg.Host,
		InsecureSkipVerify: s.cfg.InsecureSkipVerify, // dev only
	}
	switch s.cfg.TLSMode {
	case "ssl":
		d.SSL = true
	case "none":
		d.StartTLSPolicy = mail.NoStartTLS
	case "starttls":
		d.StartTLSPolicy = mail.MandatoryStartTLS
	default:
		d.SSL = s.cfg.Port == 465
	}
	return d
}

// LogSender writes messages to the log instead of sending them. Used when
// SMTP is not configured.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, m Message) error {
	if err := m.validate(); err != nil {
		return err
	}
	logger.From(ctx).Info("email not sent, smtp disabled",
		logger.Component("email.log"),
		logger.String("to", m.To),
		logger.String("subject", m.Subject),
		logger.String("text", m.Text),
	)
	return nil
}

// FromConfig returns an SMTPSender when a host is configured, LogSender otherwise.
func FromConfig(cfg SMTPConfig) Sender {
	if cfg.Host == "" {
		return LogSender{}
	}
	return NewSMTPSender(cfg)
}
