package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"net/url"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
	FrontendURL  string
}

// Sender is the subset used by background jobs
type Sender interface {
	SendRemittanceNotification(to string, n RemittanceNotice) error
}

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config, send: smtp.SendMail}
}

// Configured reports whether an SMTP host is set
func (s *EmailService) Configured() bool {
	return s.config.SMTPHost != ""
}

// SendPasswordResetEmail sends a password reset email
func (s *EmailService) SendPasswordResetEmail(toEmail, token string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s&email=%s",
		s.config.FrontendURL,
		url.QueryEscape(token),
		url.QueryEscape(toEmail),
	)

	body, err := render(passwordResetTemplate, map[string]string{
		"Email":    toEmail,
		"ResetURL": resetURL,
	})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(toEmail, s.buildHTMLEmail(toEmail, "Reset Your Password - StewardPro", body))
}

// RemittanceNotice is the data shown in a remittance notification
type RemittanceNotice struct {
	ChurchName       string
	OrganizationName string
	RemittanceNo     string
	RemittanceDate   string
	PeriodFrom       string
	PeriodTo         string
	Total            string
	Lines            []RemittanceNoticeLine
}

// RemittanceNoticeLine is one item row in the notification
type RemittanceNoticeLine struct {
	Type        string
	Description string
	Amount      string
}

// SendRemittanceNotification informs the receiving organization of a remittance
func (s *EmailService) SendRemittanceNotification(to string, n RemittanceNotice) error {
	body, err := render(remittanceTemplate, n)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("Remittance %s from %s", n.RemittanceNo, n.ChurchName)
	return s.sendEmail(to, s.buildHTMLEmail(to, subject, body))
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)
	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)

	if err := s.send(addr, auth, s.config.FromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// buildHTMLEmail builds an HTML email message
func (s *EmailService) buildHTMLEmail(to, subject, htmlBody string) []byte {
	headers := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n",
		s.config.FromName,
		s.config.FromEmail,
		to,
		subject,
	)

	return []byte(headers + htmlBody)
}

func render(tpl string, data any) (string, error) {
	tmpl, err := template.New("email").Parse(tpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const passwordResetTemplate = `<!DOCTYPE html>
<html lang="en">
<body style="font-family: 'Segoe UI', Tahoma, sans-serif; background-color: #f4f7fa; padding: 32px;">
  <div style="max-width: 560px; margin: 0 auto; background: #ffffff; border-radius: 10px; padding: 32px;">
    <h2 style="color: #1a1a2e;">Reset your StewardPro password</h2>
    <p style="color: #4a5568;">We received a request to reset the password for <strong>{{.Email}}</strong>.</p>
    <p style="color: #4a5568;">The link below expires in <strong>1 hour</strong>.</p>
    <p><a href="{{.ResetURL}}" style="background: #2b6cb0; color: #ffffff; padding: 12px 24px; border-radius: 6px; text-decoration: none;">Reset Password</a></p>
    <p style="color: #a0aec0; font-size: 13px;">If you did not request this, ignore this email.</p>
  </div>
</body>
</html>`

const remittanceTemplate = `<!DOCTYPE html>
<html lang="en">
<body style="font-family: 'Segoe UI', Tahoma, sans-serif; background-color: #f4f7fa; padding: 32px;">
  <div style="max-width: 600px; margin: 0 auto; background: #ffffff; border-radius: 10px; padding: 32px;">
    <h2 style="color: #1a1a2e;">Remittance {{.RemittanceNo}}</h2>
    <p style="color: #4a5568;">{{.ChurchName}} has prepared a remittance to <strong>{{.OrganizationName}}</strong>
      dated {{.RemittanceDate}} covering {{.PeriodFrom}} to {{.PeriodTo}}.</p>
    <table style="width: 100%; border-collapse: collapse;">
      <tr><th align="left">Type</th><th align="left">Description</th><th align="right">Amount</th></tr>
      {{range .Lines}}<tr><td>{{.Type}}</td><td>{{.Description}}</td><td align="right">{{.Amount}}</td></tr>{{end}}
      <tr><td colspan="2"><strong>Total</strong></td><td align="right"><strong>{{.Total}}</strong></td></tr>
    </table>
  </div>
</body>
</html>`
