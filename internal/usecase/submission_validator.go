package usecase

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"banjara-intake-backend/internal/domain"
	"banjara-intake-backend/pkg/security"
	"banjara-intake-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// Attachment is a file that passed validation and is ready for upload.
type Attachment struct {
	Field     string
	Bucket    string
	Filename  string
	Extension string
	Data      []byte
}

// ValidatedJobSeeker is a job-seeker payload after normalization. Record has
// no id, status or attachment references yet.
type ValidatedJobSeeker struct {
	Record      domain.JobSeekerSubmission
	Attachments []Attachment // optional attachment first, when present
}

// ValidatedBusiness is the business counterpart of ValidatedJobSeeker.
type ValidatedBusiness struct {
	Record      domain.BusinessSubmission
	Attachments []Attachment
}

// SubmissionValidator checks payloads before any store is touched. It never
// performs I/O.
type SubmissionValidator struct {
	validate *validator.Validate
}

func NewSubmissionValidator(validate *validator.Validate) *SubmissionValidator {
	return &SubmissionValidator{validate: validate}
}

// ValidateJobSeeker returns a *domain.ValidationError listing every violation.
func (sv *SubmissionValidator) ValidateJobSeeker(p *domain.JobSeekerPayload) (*ValidatedJobSeeker, error) {
	if p == nil {
		p = &domain.JobSeekerPayload{}
	}
	cat, _ := domain.CategoryFor(domain.KindJobSeeker)

	trimmed := *p
	trimmed.FullName = strings.TrimSpace(p.FullName)
	trimmed.Age = strings.TrimSpace(p.Age)
	trimmed.Location = strings.TrimSpace(p.Location)
	trimmed.JobProfile = strings.TrimSpace(p.JobProfile)
	trimmed.ExperienceYears = strings.TrimSpace(p.ExperienceYears)
	trimmed.Phone = strings.TrimSpace(p.Phone)
	trimmed.LastSalary = strings.TrimSpace(p.LastSalary)
	trimmed.ExpectedSalary = strings.TrimSpace(p.ExpectedSalary)

	violations := sv.structViolations(&trimmed)

	age, v := parseBoundedInt("age", trimmed.Age, 18, "must be 18 or older", maxAge)
	violations = append(violations, v...)
	exp, v := parseBoundedInt("experience", trimmed.ExperienceYears, 0, "cannot be negative", maxExperienceYears)
	violations = append(violations, v...)

	attachments, v := checkAttachments(cat, p.Photo, p.Resume)
	violations = append(violations, v...)

	if len(violations) > 0 {
		return nil, &domain.ValidationError{Violations: violations}
	}

	return &ValidatedJobSeeker{
		Record: domain.JobSeekerSubmission{
			FullName:        trimmed.FullName,
			Age:             age,
			Location:        optionalString(trimmed.Location),
			JobProfile:      trimmed.JobProfile,
			ExperienceYears: exp,
			Phone:           trimmed.Phone,
			LastSalary:      optionalString(trimmed.LastSalary),
			ExpectedSalary:  optionalString(trimmed.ExpectedSalary),
		},
		Attachments: attachments,
	}, nil
}

// ValidateBusiness returns a *domain.ValidationError listing every violation.
func (sv *SubmissionValidator) ValidateBusiness(p *domain.BusinessPayload) (*ValidatedBusiness, error) {
	if p == nil {
		p = &domain.BusinessPayload{}
	}

	var violations []domain.Violation

	kind, err := domain.ParseBusinessKind(p.BusinessType)
	if err != nil {
		violations = append(violations, domain.Violation{Field: "business_type", Message: "must be one of: staff, kitchen, ccg"})
		kind = domain.KindStaff // attachment rules are shared by every business kind
	}
	cat, _ := domain.CategoryFor(kind)

	trimmed := *p
	trimmed.HotelName = strings.TrimSpace(p.HotelName)
	trimmed.Location = strings.TrimSpace(p.Location)
	trimmed.OwnerName = strings.TrimSpace(p.OwnerName)
	trimmed.ContactNumber = strings.TrimSpace(p.ContactNumber)

	violations = append(violations, sv.structViolations(&trimmed)...)

	attachments, v := checkAttachments(cat, p.Logo, p.Document)
	violations = append(violations, v...)

	if len(violations) > 0 {
		return nil, &domain.ValidationError{Violations: violations}
	}

	return &ValidatedBusiness{
		Record: domain.BusinessSubmission{
			BusinessType:  kind,
			HotelName:     trimmed.HotelName,
			Location:      optionalString(trimmed.Location),
			OwnerName:     trimmed.OwnerName,
			ContactNumber: trimmed.ContactNumber,
		},
		Attachments: attachments,
	}, nil
}

func (sv *SubmissionValidator) structViolations(payload interface{}) []domain.Violation {
	err := sv.validate.Struct(payload)
	if err == nil {
		return nil
	}
	fieldErrors := validation.FieldErrors(err)
	if fieldErrors == nil {
		return []domain.Violation{{Field: "form", Message: err.Error()}}
	}
	out := make([]domain.Violation, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		out = append(out, domain.Violation{Field: fe.Field, Message: fe.Message})
	}
	return out
}

const (
	maxAge             = 100
	maxExperienceYears = 80
)

// parseBoundedInt parses an optional whole number in [floor, ceiling]. The
// ceiling keeps values inside the INTEGER columns they are stored in.
func parseBoundedInt(field, raw string, floor int, belowFloor string, ceiling int) (*int, []domain.Violation) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			if strings.HasPrefix(raw, "-") {
				return nil, []domain.Violation{{Field: field, Message: belowFloor}}
			}
			return nil, []domain.Violation{{Field: field, Message: fmt.Sprintf("must be at most %d", ceiling)}}
		}
		return nil, []domain.Violation{{Field: field, Message: "must be a whole number"}}
	}
	n := int(parsed)
	if n < floor {
		return nil, []domain.Violation{{Field: field, Message: belowFloor}}
	}
	if n > ceiling {
		return nil, []domain.Violation{{Field: field, Message: fmt.Sprintf("must be at most %d", ceiling)}}
	}
	return &n, nil
}

func checkAttachments(cat domain.Category, optional, required *domain.FileUpload) ([]Attachment, []domain.Violation) {
	var (
		attachments []Attachment
		violations  []domain.Violation
	)

	if optional != nil && len(optional.Data) > 0 {
		a, msg := checkFile(cat.OptionalField, cat.OptionalBucket, optional, domain.MaxImageSize, security.ClassImage)
		if msg != "" {
			violations = append(violations, domain.Violation{Field: cat.OptionalField, Message: msg})
		} else {
			attachments = append(attachments, a)
		}
	}

	if required == nil || len(required.Data) == 0 {
		violations = append(violations, domain.Violation{Field: cat.RequiredField, Message: "is required"})
		return attachments, violations
	}
	a, msg := checkFile(cat.RequiredField, cat.RequiredBucket, required, domain.MaxDocumentSize, security.ClassDocument)
	if msg != "" {
		violations = append(violations, domain.Violation{Field: cat.RequiredField, Message: msg})
	} else {
		attachments = append(attachments, a)
	}

	return attachments, violations
}

func checkFile(field, bucket string, f *domain.FileUpload, maxSize int, class security.FileClass) (Attachment, string) {
	if len(f.Data) > maxSize {
		return Attachment{}, fmt.Sprintf("must be at most %d MB", maxSize/(1024*1024))
	}
	res := security.ValidateFile(f.Filename, f.Data, class)
	if !res.Valid {
		return Attachment{}, res.Error
	}
	return Attachment{
		Field:     field,
		Bucket:    bucket,
		Filename:  filepath.Base(f.Filename),
		Extension: res.Extension,
		Data:      f.Data,
	}, ""
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
