package utils

import (
	"fmt"
	"net/smtp"
)

type SMTPClient struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func NewSMTPClient(host string, port int, user, pass, from string) *SMTPClient {
	if port == 0 {
		port = 587
	}
	return &SMTPClient{Host: host, Port: port, User: user, Password: pass, From: from}
}

// Send delivers a plain-text message. One synchronous attempt, no retry.
func (s *SMTPClient) Send(to, subject, body string) error {
	return s.send(to, subject, "text/plain", body)
}

// SendVerification delivers the OTP mail used by every verification flow.
func (s *SMTPClient) SendVerification(to, code string) error {
	body := fmt.Sprintf(
		"<h2>Email Verification</h2>\r\n"+
			"<p>Your verification code is: <strong>%s</strong></p>\r\n"+
			"<p>This code will expire in 10 minutes.</p>", code)
	return s.send(to, "Blood Donation - Email Verification", "text/html", body)
}

func (s *SMTPClient) send(to, subject, contentType, body string) error {
	if s == nil || s.Host == "" || s.User == "" {
		return fmt.Errorf("smtp not configured")
	}
	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	auth := smtp.PlainAuth("", s.User, s.Password, s.Host)
	msg := []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"Content-Type: " + contentType + "; charset=utf-8\r\n" +
		"\r\n" + body + "\r\n")
	return smtp.SendMail(addr, auth, s.From, []string{to}, msg)
}
