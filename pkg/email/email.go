package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"banjara-intake-backend/config"
)

// EmailService handles sending emails via SMTP
type EmailService struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
	toEmail   string

	// sendMail is smtp.SendMail outside tests
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// Attachment is a link to an uploaded file shown in the email
type Attachment struct {
	Label string
	URL   string
}

// SubmissionEmailData holds the data for new-submission emails
type SubmissionEmailData struct {
	SubmissionID string
	Category     string
	Name         string
	Location     string
	Contact      string
	SubmittedAt  time.Time
	Fields       map[string]string
	Attachments  []Attachment
	ReviewURL    string
}

// NewEmailService creates a new email service from the SMTP configuration
func NewEmailService(cfg *config.Config) *EmailService {
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUsername
	}
	return &EmailService{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: from,
		toEmail:   cfg.NotifyEmailTo,
		sendMail:  smtp.SendMail,
	}
}

var submissionEmailTemplate = template.Must(template.New("submission").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New {{.Category}} submission</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #8a4b14; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .label { font-weight: bold; color: #555; }
        td { padding: 4px 8px; vertical-align: top; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>New {{.Category}} submission</h1>
        </div>
        <div class="content">
            <table>
                <tr><td class="label">Name</td><td>{{.Name}}</td></tr>
                {{if .Location}}<tr><td class="label">Location</td><td>{{.Location}}</td></tr>{{end}}
                <tr><td class="label">Contact</td><td>{{.Contact}}</td></tr>
                {{range $k, $v := .Fields}}<tr><td class="label">{{$k}}</td><td>{{$v}}</td></tr>
                {{end}}
                <tr><td class="label">Submitted</td><td>{{.SubmittedAt.Format "02 Jan 2006 15:04 MST"}}</td></tr>
            </table>
            {{range .Attachments}}<p><a href="{{.URL}}">{{.Label}}</a></p>
            {{end}}
            {{if .ReviewURL}}<p><a href="{{.ReviewURL}}">Open in review dashboard</a></p>{{end}}
        </div>
        <div class="footer">
            <p>Submission {{.SubmissionID}}</p>
        </div>
    </div>
</body>
</html>`))

// BuildSubmissionMessage renders the MIME message for data
func (s *EmailService) BuildSubmissionMessage(data SubmissionEmailData) ([]byte, error) {
	var body bytes.Buffer
	if err := submissionEmailTemplate.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("failed to execute email template: %w", err)
	}

	subject := fmt.Sprintf("New %s submission: %s", data.Category, data.Name)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		s.fromEmail,
		s.toEmail,
		subject,
		body.String(),
	))
	return msg, nil
}

// SendSubmissionEmail sends a new-submission summary to the configured recipient
func (s *EmailService) SendSubmissionEmail(data SubmissionEmailData) error {
	msg, err := s.BuildSubmissionMessage(data)
	if err != nil {
		return err
	}

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := s.sendMail(addr, auth, s.fromEmail, []string{s.toEmail}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != "" && s.toEmail != ""
}
