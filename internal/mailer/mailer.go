// Package mailer sends transactional e-mail (verification codes, ticket
// notifications) over plain SMTP.  When SMTP is not configured the mailer
// degrades to logging the message body, so development instances and tests
// never need a mail server and registration still works end to end.
package mailer

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
)

// Mailer holds SMTP connection settings.  A zero-value Host marks the
// mailer as unconfigured.
type Mailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// NewFromEnv builds a Mailer from SMTP_HOST, SMTP_PORT, SMTP_USERNAME,
// SMTP_PASSWORD and SMTP_FROM.  All fields may be empty.
func NewFromEnv() *Mailer {
	return &Mailer{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     os.Getenv("SMTP_PORT"),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
}

// Configured reports whether the mailer can actually deliver mail.
func (m *Mailer) Configured() bool {
	return m.Host != "" && m.Port != "" && m.From != ""
}

// Send delivers a plain-text message.  Unconfigured mailers log the message
// and report success; delivery is always best-effort from the caller's
// point of view.
func (m *Mailer) Send(to, subject, body string) error {
	if !m.Configured() {
		log.Printf("mailer: SMTP not configured, would send to=%s subject=%q body=%q", to, subject, body)
		return nil
	}
	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}
	msg := []byte(fmt.Sprintf("To: %s\r\nFrom: %s\r\nSubject: %s\r\n\r\n%s\r\n", to, m.From, subject, body))
	if err := smtp.SendMail(m.Host+":"+m.Port, auth, m.From, []string{to}, msg); err != nil {
		log.Printf("mailer: send to %s failed: %v", to, err)
		return err
	}
	return nil
}

// SendVerificationCode mails the 6-digit registration code.
func (m *Mailer) SendVerificationCode(to, code string) error {
	return m.Send(to, "Your verification code",
		fmt.Sprintf("Your verification code is %s. It expires in 15 minutes.", code))
}

// SendTicketCreated notifies a recipient about a new ticket.
func (m *Mailer) SendTicketCreated(to, uid, createdBy, priority, note string) error {
	return m.Send(to, fmt.Sprintf("New ticket %s", uid),
		fmt.Sprintf("Ticket %s was created by %s (priority %s).\n\n%s", uid, createdBy, priority, note))
}
