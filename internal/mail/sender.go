package mail

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/medlink/portal-server-go/internal/config"
	apperrors "github.com/medlink/portal-server-go/internal/errors"
)

// Sender delivers outbound mail. Callers treat delivery as fire-and-forget:
// a send failure never rolls back the operation that requested it.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type SMTPSender struct {
	host     string
	port     string
	account  string
	password string
	from     string
}

func NewSMTPSender(cfg *config.Config) *SMTPSender {
	return &SMTPSender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		account:  cfg.SMTPAccount,
		password: cfg.SMTPPassword,
		from:     cfg.MailFrom,
	}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	var auth smtp.Auth
	if s.account != "" {
		auth = smtp.PlainAuth("", s.account, s.password, s.host)
	}

	addr := net.JoinHostPort(s.host, s.port)
	if err := smtp.SendMail(addr, auth, s.from, []string{to}, []byte(msg.String())); err != nil {
		return apperrors.External("smtp", err)
	}
	return nil
}

// LogSender is the fallback when SMTP is not configured. It logs the mail
// instead of delivering it, which is also what local development wants.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, to, subject, body string) error {
	log.Info().
		Str("to", to).
		Str("subject", subject).
		Str("body", body).
		Msg("mail delivery skipped (SMTP not configured)")
	return nil
}

// NewSender picks the SMTP sender when a host is configured, LogSender
// otherwise.
func NewSender(cfg *config.Config) Sender {
	if cfg.SMTPHost == "" {
		return LogSender{}
	}
	return NewSMTPSender(cfg)
}
