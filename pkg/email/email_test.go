package email

import (
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"banjara-intake-backend/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService() *EmailService {
	return NewEmailService(&config.Config{
		SMTPHost:      "smtp.example.com",
		SMTPPort:      "587",
		SMTPUsername:  "bot@example.com",
		SMTPPassword:  "secret",
		NotifyEmailTo: "team@example.com",
	})
}

func sampleData() SubmissionEmailData {
	return SubmissionEmailData{
		SubmissionID: "abc-123",
		Category:     "Kitchen Equipment",
		Name:         "Lotus <Inn>",
		Contact:      "+91 9000000002",
		SubmittedAt:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Attachments:  []Attachment{{Label: "Document", URL: "https://files.example.com/documents/1.pdf"}},
	}
}

func TestBuildSubmissionMessage(t *testing.T) {
	msg, err := testService().BuildSubmissionMessage(sampleData())
	require.NoError(t, err)

	s := string(msg)
	assert.Contains(t, s, "To: team@example.com\r\n")
	assert.Contains(t, s, "Subject: New Kitchen Equipment submission: Lotus <Inn>\r\n")
	assert.Contains(t, s, "Lotus &lt;Inn&gt;")
	assert.Contains(t, s, "https://files.example.com/documents/1.pdf")
	assert.NotContains(t, s, "Location")
}

func TestSendSubmissionEmail(t *testing.T) {
	svc := testService()
	var gotAddr string
	var gotTo []string
	svc.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo = addr, to
		assert.True(t, strings.HasPrefix(string(msg), "From: bot@example.com"))
		return nil
	}

	require.NoError(t, svc.SendSubmissionEmail(sampleData()))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"team@example.com"}, gotTo)

	svc.sendMail = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("dial") }
	assert.ErrorContains(t, svc.SendSubmissionEmail(sampleData()), "failed to send email")
}

func TestIsConfigured(t *testing.T) {
	assert.True(t, testService().IsConfigured())
	assert.False(t, NewEmailService(&config.Config{}).IsConfigured())
}
