package utils

import (
	"fmt"
	"net/smtp"
	"os"
)

// SMTPSender delivers OTP codes over plain SMTP using the SMTP_* env
// configuration.
type SMTPSender struct {
	host string
	port string
	user string
	pass string
	from string
}

func NewSMTPSenderFromEnv() *SMTPSender {
	return &SMTPSender{
		host: os.Getenv("SMTP_HOST"),
		port: os.Getenv("SMTP_PORT"),
		user: os.Getenv("SMTP_USER"),
		pass: os.Getenv("SMTP_PASS"),
		from: os.Getenv("SMTP_FROM"),
	}
}

func (s *SMTPSender) Send(email, code string) error {
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	subject := "Your Bazaar seller verification code"
	body := fmt.Sprintf("Your verification code is: %s (valid for 10 minutes)", code)

	msg := []byte(
		"From: " + s.from + "\r\n" +
			"To: " + email + "\r\n" +
			"Subject: " + subject + "\r\n" +
			"Content-Type: text/plain; charset=\"utf-8\"\r\n" +
			"\r\n" +
			body + "\r\n")

	auth := smtp.PlainAuth("", s.user, s.pass, s.host)
	return smtp.SendMail(addr, auth, s.from, []string{email}, msg)
}
