package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/kebairia/sqlbackup/internal/config"
)

const emailSubject = "Backup Notification"

// Email delivers the summary over SMTP with STARTTLS.
type Email struct {
	cfg config.EmailConfig
}

// NewEmail builds the email notifier.
func NewEmail(cfg config.EmailConfig) *Email {
	return &Email{cfg: cfg}
}

func (e *Email) Name() string { return "email" }

func (e *Email) Enabled() bool {
	return e.cfg.Enabled && e.cfg.SMTPServer != "" && len(e.cfg.ToAddresses) > 0
}

func (e *Email) Send(ctx context.Context, message string) error {
	addr := fmt.Sprintf("%s:%d", e.cfg.SMTPServer, e.cfg.SMTPPort)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", e.cfg.FromAddress)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(e.cfg.ToAddresses, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", emailSubject)
	fmt.Fprintf(&msg, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(message)

	var auth smtp.Auth
	if e.cfg.Username != "" {
		auth = smtp.PlainAuth("", e.cfg.Username, e.cfg.Password, e.cfg.SMTPServer)
	}

	// net/smtp has no context support; respect an already-cancelled ctx
	// before the blocking dial.
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := smtp.SendMail(addr, auth, e.cfg.FromAddress, e.cfg.ToAddresses, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
