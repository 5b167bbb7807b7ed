package mailer

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"sync"
)

// Mailer delivers magic-link sign-in emails
type Mailer interface {
	SendMagicLink(to, link string) error
}

// SMTPMailer sends mail through a plain SMTP relay
type SMTPMailer struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// NewSMTPMailer creates a new SMTPMailer
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
	}
}

// SendMagicLink sends the sign-in link to the given address
func (m *SMTPMailer) SendMagicLink(to, link string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.From)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	b.WriteString("Subject: Your sign-in link\r\n")
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&b, "Click the link below to sign in to the lucky draw dashboard:\r\n\r\n%s\r\n\r\n", link)
	b.WriteString("The link is valid for 15 minutes and can be used once.\r\n")

	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}
	if err := smtp.SendMail(addr, auth, m.From, []string{to}, []byte(b.String())); err != nil {
		return fmt.Errorf("failed to send magic link to %s: %w", to, err)
	}
	return nil
}

// MockMailer logs links instead of sending them, for local development and
// tests.
type MockMailer struct {
	mu   sync.Mutex
	sent []string
}

// NewMockMailer creates a new MockMailer
func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

// SendMagicLink records the link and logs it
func (m *MockMailer) SendMagicLink(to, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, link)
	log.Printf("[MOCK MAIL] magic link for %s: %s", to, link)
	return nil
}

// Sent returns the links recorded so far
func (m *MockMailer) Sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.sent))
	copy(out, m.sent)
	return out
}
