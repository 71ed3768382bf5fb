package usecase_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"banjara-intake-backend/internal/domain"
	"banjara-intake-backend/internal/usecase"
	"banjara-intake-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator() *usecase.SubmissionValidator {
	return usecase.NewSubmissionValidator(validation.New())
}

func violationsOf(t *testing.T, err error) *domain.ValidationError {
	t.Helper()
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	return verr
}

func TestValidateJobSeeker(t *testing.T) {
	sv := newValidator()

	t.Run("Should accept a complete payload and normalize it", func(t *testing.T) {
		p := validJobSeeker()
		p.FullName = "  Asha Rao  "
		p.ExperienceYears = "0"
		p.Location = "Mumbai, India"
		p.Photo = photoUpload()

		res, err := sv.ValidateJobSeeker(p)
		require.NoError(t, err)
		assert.Equal(t, "Asha Rao", res.Record.FullName)
		assert.Equal(t, intPtr(25), res.Record.Age)
		assert.Equal(t, intPtr(0), res.Record.ExperienceYears)
		assert.Equal(t, strPtr("Mumbai, India"), res.Record.Location)
		assert.Nil(t, res.Record.LastSalary)

		require.Len(t, res.Attachments, 2)
		assert.Equal(t, "photo", res.Attachments[0].Field)
		assert.Equal(t, domain.BucketPhotos, res.Attachments[0].Bucket)
		assert.Equal(t, ".png", res.Attachments[0].Extension)
		assert.Equal(t, "resume", res.Attachments[1].Field)
		assert.Equal(t, domain.BucketResumes, res.Attachments[1].Bucket)
	})

	t.Run("Should report every missing required field at once", func(t *testing.T) {
		_, err := sv.ValidateJobSeeker(&domain.JobSeekerPayload{FullName: "   "})
		verr := violationsOf(t, err)
		for _, field := range []string{"full_name", "job_profile", "phone", "resume"} {
			assert.True(t, verr.HasField(field), field)
		}
	})

	t.Run("Should reject under-age applicants", func(t *testing.T) {
		p := validJobSeeker()
		p.Age = "17"
		_, err := sv.ValidateJobSeeker(p)
		verr := violationsOf(t, err)
		assert.Equal(t, []domain.Violation{{Field: "age", Message: "must be 18 or older"}}, verr.Violations)
	})

	t.Run("Should accept age exactly 18 and absent age", func(t *testing.T) {
		p := validJobSeeker()
		p.Age = "18"
		_, err := sv.ValidateJobSeeker(p)
		assert.NoError(t, err)

		p.Age = ""
		res, err := sv.ValidateJobSeeker(p)
		require.NoError(t, err)
		assert.Nil(t, res.Record.Age)
	})

	t.Run("Should reject negative experience", func(t *testing.T) {
		p := validJobSeeker()
		p.ExperienceYears = "-1"
		_, err := sv.ValidateJobSeeker(p)
		verr := violationsOf(t, err)
		assert.Equal(t, []domain.Violation{{Field: "experience", Message: "cannot be negative"}}, verr.Violations)
	})

	t.Run("Should reject out-of-range numbers before any store call", func(t *testing.T) {
		p := validJobSeeker()
		p.Age = "3000000000"
		p.ExperienceYears = "5000000000"
		_, err := sv.ValidateJobSeeker(p)
		assert.Equal(t, []domain.Violation{
			{Field: "age", Message: "must be at most 100"},
			{Field: "experience", Message: "must be at most 80"},
		}, violationsOf(t, err).Violations)

		p = validJobSeeker()
		p.Age = "101"
		p.ExperienceYears = "-9999999999"
		_, err = sv.ValidateJobSeeker(p)
		assert.Equal(t, []domain.Violation{
			{Field: "age", Message: "must be at most 100"},
			{Field: "experience", Message: "cannot be negative"},
		}, violationsOf(t, err).Violations)
	})

	t.Run("Should accept the upper bounds", func(t *testing.T) {
		p := validJobSeeker()
		p.Age = "100"
		p.ExperienceYears = "80"
		res, err := sv.ValidateJobSeeker(p)
		require.NoError(t, err)
		assert.Equal(t, intPtr(100), res.Record.Age)
		assert.Equal(t, intPtr(80), res.Record.ExperienceYears)
	})

	t.Run("Should treat non-numeric optional numbers as violations", func(t *testing.T) {
		p := validJobSeeker()
		p.Age = "twenty"
		p.ExperienceYears = "2.5"
		p.LastSalary = "a lot"
		_, err := sv.ValidateJobSeeker(p)
		verr := violationsOf(t, err)
		assert.True(t, verr.HasField("age"))
		assert.True(t, verr.HasField("experience"))
		assert.True(t, verr.HasField("last_salary"))
	})

	t.Run("Should accept free-text phone numbers", func(t *testing.T) {
		for _, phone := range []string{"9000000001 / 9000000002", "022-1234567 ext 12", "Call 9000000001"} {
			p := validJobSeeker()
			p.Phone = phone
			res, err := sv.ValidateJobSeeker(p)
			require.NoError(t, err, phone)
			assert.Equal(t, phone, res.Record.Phone)
		}
	})

	t.Run("Should cap phone length", func(t *testing.T) {
		p := validJobSeeker()
		p.Phone = strings.Repeat("9", 41)
		_, err := sv.ValidateJobSeeker(p)
		assert.Equal(t, []domain.Violation{{Field: "phone", Message: "must be at most 40 characters"}}, violationsOf(t, err).Violations)
	})
}

func TestValidateAttachments(t *testing.T) {
	sv := newValidator()

	t.Run("Should accept a resume of exactly 10 MB", func(t *testing.T) {
		p := validJobSeeker()
		data := make([]byte, domain.MaxDocumentSize)
		copy(data, pdfBytes)
		p.Resume = &domain.FileUpload{Filename: "cv.pdf", Data: data}
		_, err := sv.ValidateJobSeeker(p)
		assert.NoError(t, err)
	})

	t.Run("Should reject a resume over 10 MB", func(t *testing.T) {
		p := validJobSeeker()
		data := make([]byte, domain.MaxDocumentSize+1)
		copy(data, pdfBytes)
		p.Resume = &domain.FileUpload{Filename: "cv.pdf", Data: data}
		_, err := sv.ValidateJobSeeker(p)
		verr := violationsOf(t, err)
		assert.Equal(t, "must be at most 10 MB", verr.Violations[0].Message)
	})

	t.Run("Should reject an empty resume", func(t *testing.T) {
		p := validJobSeeker()
		p.Resume = &domain.FileUpload{Filename: "cv.pdf"}
		_, err := sv.ValidateJobSeeker(p)
		assert.Equal(t, []domain.Violation{{Field: "resume", Message: "is required"}}, violationsOf(t, err).Violations)
	})

	t.Run("Should accept an image as the required document", func(t *testing.T) {
		p := validJobSeeker()
		p.Resume = &domain.FileUpload{Filename: "scan.png", Data: pngBytes}
		_, err := sv.ValidateJobSeeker(p)
		assert.NoError(t, err)
	})

	t.Run("Should reject a photo over 5 MB", func(t *testing.T) {
		p := validJobSeeker()
		data := make([]byte, domain.MaxImageSize+1)
		copy(data, pngBytes)
		p.Photo = &domain.FileUpload{Filename: "big.png", Data: data}
		_, err := sv.ValidateJobSeeker(p)
		verr := violationsOf(t, err)
		assert.Equal(t, []domain.Violation{{Field: "photo", Message: "must be at most 5 MB"}}, verr.Violations)
	})

	t.Run("Should reject a PDF as photo", func(t *testing.T) {
		p := validJobSeeker()
		p.Photo = &domain.FileUpload{Filename: "photo.pdf", Data: pdfBytes}
		_, err := sv.ValidateJobSeeker(p)
		assert.True(t, violationsOf(t, err).HasField("photo"))
	})

	t.Run("Should reject content that does not match the extension", func(t *testing.T) {
		p := validJobSeeker()
		p.Resume = &domain.FileUpload{Filename: "cv.pdf", Data: bytes.Repeat([]byte("MZ"), 10)}
		_, err := sv.ValidateJobSeeker(p)
		assert.True(t, violationsOf(t, err).HasField("resume"))
	})
}

func TestValidateBusiness(t *testing.T) {
	sv := newValidator()

	for _, kind := range []string{"staff", "kitchen", "ccg"} {
		t.Run("Should accept "+kind, func(t *testing.T) {
			p := validBusiness(kind)
			p.Logo = photoUpload()
			res, err := sv.ValidateBusiness(p)
			require.NoError(t, err)
			assert.Equal(t, domain.Kind(kind), res.Record.BusinessType)
			require.Len(t, res.Attachments, 2)
			assert.Equal(t, domain.BucketLogos, res.Attachments[0].Bucket)
			assert.Equal(t, domain.BucketDocuments, res.Attachments[1].Bucket)
		})
	}

	t.Run("Should reject an unknown business type", func(t *testing.T) {
		_, err := sv.ValidateBusiness(validBusiness("laundry"))
		assert.Equal(t, "business_type", violationsOf(t, err).Violations[0].Field)
	})

	t.Run("Should reject job seeker as business type", func(t *testing.T) {
		_, err := sv.ValidateBusiness(validBusiness("job-seekers"))
		assert.True(t, violationsOf(t, err).HasField("business_type"))
	})

	t.Run("Should require names, contact number and document", func(t *testing.T) {
		_, err := sv.ValidateBusiness(&domain.BusinessPayload{BusinessType: "kitchen"})
		verr := violationsOf(t, err)
		for _, field := range []string{"hotel_name", "owner_name", "contact_number", "document"} {
			assert.True(t, verr.HasField(field), field)
		}
		assert.False(t, verr.HasField("logo"))
	})
}
