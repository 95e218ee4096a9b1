package mailer

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"time"
)

// Mailer delivers finished reports over SMTP (STARTTLS + plain auth).
type Mailer struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// NewMailer creates a Mailer for the given account and recipients.
func NewMailer(host string, port int, username, password, from string, to []string) *Mailer {
	if username == "" {
		username = from
	}
	return &Mailer{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
		To:       to,
	}
}

// Send delivers one HTML report to all configured recipients.
func (m *Mailer) Send(subject, htmlBody string) error {
	msg := buildMessage(m.From, m.To, subject, htmlBody)
	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
	if err := smtp.SendMail(addr, auth, m.From, m.To, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// SendWithRetry sends a report with exponential backoff retry.
func (m *Mailer) SendWithRetry(ctx context.Context, subject, htmlBody string, maxRetries int) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if err := m.Send(subject, htmlBody); err != nil {
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

// buildMessage assembles an RFC 5322 message with a base64-encoded HTML
// body. Base64 keeps every line under the 998-character limit regardless
// of table width.
func buildMessage(from string, to []string, subject, htmlBody string) string {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(to, ", ")))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("Content-Transfer-Encoding: base64\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(encodeBase64WithLineBreaks(htmlBody))
	msg.WriteString("\r\n")
	return msg.String()
}

// encodeBase64WithLineBreaks wraps base64 output at 76 characters per
// RFC 2045.
func encodeBase64WithLineBreaks(s string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(s))
	var b strings.Builder
	for len(encoded) > 76 {
		b.WriteString(encoded[:76])
		b.WriteString("\r\n")
		encoded = encoded[76:]
	}
	b.WriteString(encoded)
	return b.String()
}
