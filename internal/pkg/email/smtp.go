// internal/pkg/email/smtp.go
package email

import (
	"bytes"
	"fmt"
	"net/smtp"
	"strings"
)

// sendSMTPEmail sends email using SMTP
func (s *EmailService) sendSMTPEmail(email *Email) error {
	if s.config.External.Email.SMTPHost == "" {
		return fmt.Errorf("SMTP configuration incomplete: missing host")
	}

	var auth smtp.Auth
	if s.config.External.Email.SMTPUser != "" {
		auth = smtp.PlainAuth("",
			s.config.External.Email.SMTPUser,
			s.config.External.Email.SMTPPass,
			s.config.External.Email.SMTPHost)
	}

	fromEmail := s.config.External.Email.FromEmail
	from := fromEmail
	if name := s.config.External.Email.FromName; name != "" {
		from = fmt.Sprintf("%s <%s>", name, fromEmail)
	}

	headers := make(map[string]string)
	headers["From"] = from
	headers["To"] = strings.Join(email.To, ", ")
	headers["Subject"] = email.Subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=\"utf-8\""

	var msg bytes.Buffer
	for key, value := range headers {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", key, value))
	}
	msg.WriteString("\r\n")
	msg.WriteString(email.HTMLContent)

	serverAddr := fmt.Sprintf("%s:%d", s.config.External.Email.SMTPHost, s.config.External.Email.SMTPPort)
	return smtp.SendMail(serverAddr, auth, fromEmail, email.To, msg.Bytes())
}
