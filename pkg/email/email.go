package email

import (
	"bytes"
	"fmt"
	"go-talentflow-backend/config"
	"html/template"
	"net/smtp"
)

// EmailService handles sending emails via SMTP
type EmailService struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
}

// VerificationEmailData holds the data for account verification emails
type VerificationEmailData struct {
	Code          string
	ValidMinutes  int
	RecipientName string
}

// FeedbackEmailData holds the data for application feedback emails
type FeedbackEmailData struct {
	JobTitle    string
	CompanyName string
	Message     string
}

// NewEmailService creates a new email service with SMTP configuration
func NewEmailService(cfg *config.Config) *EmailService {
	from := cfg.SMTPFromEmail
	if from == "" {
		from = cfg.SMTPUsername // Brevo accepts the login email as sender
	}
	return &EmailService{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: from,
	}
}

// verificationEmailTemplate is the HTML template for account verification emails
const verificationEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Verify Your Account</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0066cc; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .code-box { background: white; padding: 15px; border-left: 4px solid #0066cc; margin-top: 10px; font-size: 28px; letter-spacing: 6px; text-align: center; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Verify Your Account</h1>
        </div>
        <div class="content">
            <p>Hello{{if .RecipientName}} {{.RecipientName}}{{end}},</p>
            <p>Use the code below to verify your TalentFlow account. It expires in {{.ValidMinutes}} minutes.</p>
            <div class="code-box">{{.Code}}</div>
        </div>
        <div class="footer">
            <p>If you did not create an account, you can safely ignore this email.</p>
        </div>
    </div>
</body>
</html>`

// feedbackEmailTemplate is the HTML template for application feedback emails
const feedbackEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Update on Your Application</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0066cc; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .field { margin-bottom: 15px; }
        .label { font-weight: bold; color: #555; }
        .message-box { background: white; padding: 15px; border-left: 4px solid #0066cc; margin-top: 10px; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Update on Your Application</h1>
        </div>
        <div class="content">
            <div class="field">
                <div class="label">Position:</div>
                <div class="value">{{.JobTitle}}{{if .CompanyName}} at {{.CompanyName}}{{end}}</div>
            </div>
            <div class="field">
                <div class="label">Message:</div>
                <div class="message-box">{{.Message}}</div>
            </div>
        </div>
        <div class="footer">
            <p>This email was sent by TalentFlow on behalf of the company.</p>
        </div>
    </div>
</body>
</html>`

// SendVerificationEmail sends an account verification code to the recipient
func (s *EmailService) SendVerificationEmail(to string, data VerificationEmailData) error {
	return s.send(to, "Verify your TalentFlow account", verificationEmailTemplate, data)
}

// SendFeedbackEmail notifies a candidate about feedback on their application
func (s *EmailService) SendFeedbackEmail(to string, data FeedbackEmailData) error {
	subject := fmt.Sprintf("Update on your application: %s", data.JobTitle)
	return s.send(to, subject, feedbackEmailTemplate, data)
}

func (s *EmailService) send(to, subject, tmplText string, data interface{}) error {
	// Parse and execute the template
	tmpl, err := template.New("email").Parse(tmplText)
	if err != nil {
		return fmt.Errorf("failed to parse email template: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	// Construct MIME message
	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		s.fromEmail,
		to,
		subject,
		body.String(),
	))

	// Setup SMTP authentication
	auth := smtp.PlainAuth("", s.username, s.password, s.host)

	// Send the email
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := smtp.SendMail(addr, auth, s.fromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != ""
}
