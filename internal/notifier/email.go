package notifier

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"time"
)

// Notifier delivers formatted reports to whoever watches the engine.
type Notifier interface {
	Send(subject, htmlBody string) error
	SendWithRetry(ctx context.Context, subject, htmlBody string, maxRetries int) error
}

// EmailNotifier sends HTML reports over SMTP with STARTTLS-capable auth.
type EmailNotifier struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

func NewEmailNotifier(host string, port int, username, password, from, to string) *EmailNotifier {
	return &EmailNotifier{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
		To:       to,
	}
}

// Send delivers one HTML message to the configured recipient.
func (e *EmailNotifier) Send(subject, htmlBody string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", e.From)
	fmt.Fprintf(&msg, "To: %s\r\n", e.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", e.Host, e.Port)
	var auth smtp.Auth
	if e.Username != "" {
		auth = smtp.PlainAuth("", e.Username, e.Password, e.Host)
	}
	if err := smtp.SendMail(addr, auth, e.From, []string{e.To}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// SendWithRetry sends a message with exponential backoff retry.
func (e *EmailNotifier) SendWithRetry(ctx context.Context, subject, htmlBody string, maxRetries int) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if err := e.Send(subject, htmlBody); err != nil {
			lastErr = err
			backoff := time.Duration(1<<uint(i)) * time.Second
			log.Printf("[WARN] email send failed (attempt %d/%d): %v, retrying in %v", i+1, maxRetries+1, err, backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				continue
			}
		}
		return nil
	}
	return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}

// Noop discards every message; used when no SMTP host is configured.
type Noop struct{}

func (Noop) Send(subject, _ string) error {
	log.Printf("[INFO] notifier disabled, dropping message %q", subject)
	return nil
}

func (Noop) SendWithRetry(_ context.Context, subject, _ string, _ int) error {
	log.Printf("[INFO] notifier disabled, dropping message %q", subject)
	return nil
}
