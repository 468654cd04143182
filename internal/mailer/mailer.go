// Package mailer delivers one-time passcodes to students.
package mailer

import (
	"fmt"
	"log/slog"
	"net/smtp"
)

// Sender delivers a passcode to a contact. Implementations decide the
// transport; callers only see delivery failure.
type Sender interface {
	SendCode(contact, code string) error
}

// SMTPSender sends codes by email through a plain SMTP relay.
type SMTPSender struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

func (s *SMTPSender) SendCode(contact, code string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Your verification code\r\n\r\nYour one-time code is %s. It expires in 10 minutes.\r\n",
		s.From, contact, code,
	)
	var auth smtp.Auth
	if s.User != "" {
		auth = smtp.PlainAuth("", s.User, s.Pass, s.Host)
	}
	if err := smtp.SendMail(s.Host+":"+s.Port, auth, s.From, []string{contact}, []byte(msg)); err != nil {
		return fmt.Errorf("send otp mail: %w", err)
	}
	return nil
}

// LogSender writes the code to the log instead of delivering it. It backs
// phone contacts, which have no SMS provider wired, and local development.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) SendCode(contact, code string) error {
	s.Logger.Info("otp issued", "contact", contact, "code", code)
	return nil
}
