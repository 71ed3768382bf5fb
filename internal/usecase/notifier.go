package usecase

import (
	"context"
	"fmt"
	"strconv"

	"banjara-intake-backend/internal/domain"
	"banjara-intake-backend/pkg/email"
)

// SubmissionMailer is the part of *email.EmailService the notifier needs.
type SubmissionMailer interface {
	IsConfigured() bool
	SendSubmissionEmail(data email.SubmissionEmailData) error
}

type emailNotifier struct {
	mailer      SubmissionMailer
	reviewerURL string
}

// NewEmailNotifier returns nil when the mailer has no SMTP configuration, so
// intake skips notification entirely.
func NewEmailNotifier(mailer SubmissionMailer, reviewerURL string) domain.SubmissionNotifier {
	if mailer == nil || !mailer.IsConfigured() {
		return nil
	}
	return &emailNotifier{mailer: mailer, reviewerURL: reviewerURL}
}

func (n *emailNotifier) NotifySubmission(ctx context.Context, s domain.Submission) error {
	data, err := submissionEmailData(s)
	if err != nil {
		return err
	}
	if n.reviewerURL != "" {
		cat, _ := domain.CategoryFor(s.Kind)
		data.ReviewURL = fmt.Sprintf("%s/%s/%s", n.reviewerURL, cat.Slug, s.ID())
	}

	done := make(chan error, 1)
	go func() { done <- n.mailer.SendSubmissionEmail(data) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func submissionEmailData(s domain.Submission) (email.SubmissionEmailData, error) {
	cat, ok := domain.CategoryFor(s.Kind)
	if !ok {
		return email.SubmissionEmailData{}, domain.ErrUnknownKind
	}

	data := email.SubmissionEmailData{
		SubmissionID: s.ID(),
		Category:     cat.Label,
		Name:         s.DisplayName(),
		Location:     s.Location(),
		SubmittedAt:  s.CreatedAt(),
		Fields:       map[string]string{},
	}

	switch {
	case s.JobSeeker != nil:
		js := s.JobSeeker
		data.Contact = js.Phone
		data.Fields["Job profile"] = js.JobProfile
		if js.Age != nil {
			data.Fields["Age"] = strconv.Itoa(*js.Age)
		}
		if js.ExperienceYears != nil {
			data.Fields["Experience (years)"] = strconv.Itoa(*js.ExperienceYears)
		}
		if js.ExpectedSalary != nil {
			data.Fields["Expected salary"] = *js.ExpectedSalary
		}
		if js.Photo != nil {
			data.Attachments = append(data.Attachments, email.Attachment{Label: "Photo", URL: js.Photo.URL})
		}
		data.Attachments = append(data.Attachments, email.Attachment{Label: "Resume", URL: js.Resume.URL})
	case s.Business != nil:
		b := s.Business
		data.Contact = b.ContactNumber
		data.Fields["Owner"] = b.OwnerName
		if b.Logo != nil {
			data.Attachments = append(data.Attachments, email.Attachment{Label: "Logo", URL: b.Logo.URL})
		}
		data.Attachments = append(data.Attachments, email.Attachment{Label: "Document", URL: b.Document.URL})
	}

	return data, nil
}
