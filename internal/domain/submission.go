package domain

import (
	"context"
	"time"
)

// AttachmentRef points at an uploaded object. It is owned by exactly one
// submission field and never changes after upload.
type AttachmentRef struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	URL    string `json:"url"`
}

// FileUpload is an attachment as received from the submitter.
type FileUpload struct {
	Filename    string
	ContentType string // declared by the client, may be empty
	Size        int64  // declared size from the multipart header
	Data        []byte
}

// JobSeekerPayload is the raw job-seeker form. Numeric fields stay strings
// until validation so bad input can be reported instead of dropped.
type JobSeekerPayload struct {
	FullName        string      `form:"full_name" validate:"required,max=200,no_emoji"`
	Age             string      `form:"age"`
	Location        string      `form:"location" validate:"max=200"`
	JobProfile      string      `form:"job_profile" validate:"required,max=200"`
	ExperienceYears string      `form:"experience"`
	Phone           string      `form:"phone" validate:"required,max=40"`
	LastSalary      string      `form:"last_salary" validate:"omitempty,numeric"`
	ExpectedSalary  string      `form:"expected_salary" validate:"omitempty,numeric"`
	Photo           *FileUpload `form:"-"`
	Resume          *FileUpload `form:"-"`
}

// BusinessPayload is the raw business requirement form shared by staff,
// kitchen and ccg.
type BusinessPayload struct {
	BusinessType  string      `form:"-"`
	HotelName     string      `form:"hotel_name" validate:"required,max=200,no_emoji"`
	Location      string      `form:"location" validate:"max=200"`
	OwnerName     string      `form:"owner_name" validate:"required,max=200,no_emoji"`
	ContactNumber string      `form:"contact_number" validate:"required,max=40"`
	Logo          *FileUpload `form:"-"`
	Document      *FileUpload `form:"-"`
}

// JobSeekerSubmission is a persisted job-seeker profile.
type JobSeekerSubmission struct {
	ID              string         `json:"id"`
	FullName        string         `json:"full_name"`
	Age             *int           `json:"age"`
	Location        *string        `json:"location"`
	JobProfile      string         `json:"job_profile"`
	ExperienceYears *int           `json:"experience_years"`
	Phone           string         `json:"phone"`
	LastSalary      *string        `json:"last_salary"`
	ExpectedSalary  *string        `json:"expected_salary"`
	Photo           *AttachmentRef `json:"photo"`
	Resume          AttachmentRef  `json:"resume"`
	Status          Status         `json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// BusinessSubmission is a persisted staff, kitchen or ccg requirement.
type BusinessSubmission struct {
	ID            string         `json:"id"`
	BusinessType  Kind           `json:"business_type"`
	HotelName     string         `json:"hotel_name"`
	Location      *string        `json:"location"`
	OwnerName     string         `json:"owner_name"`
	ContactNumber string         `json:"contact_number"`
	Logo          *AttachmentRef `json:"logo"`
	Document      AttachmentRef  `json:"document"`
	Status        Status         `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Submission wraps a record of any category. Exactly one of JobSeeker and
// Business is set, according to Kind.
type Submission struct {
	Kind      Kind                 `json:"kind"`
	JobSeeker *JobSeekerSubmission `json:"job_seeker,omitempty"`
	Business  *BusinessSubmission  `json:"business,omitempty"`
}

func (s Submission) ID() string {
	if s.JobSeeker != nil {
		return s.JobSeeker.ID
	}
	if s.Business != nil {
		return s.Business.ID
	}
	return ""
}

func (s Submission) Status() Status {
	if s.JobSeeker != nil {
		return s.JobSeeker.Status
	}
	if s.Business != nil {
		return s.Business.Status
	}
	return ""
}

func (s Submission) CreatedAt() time.Time {
	if s.JobSeeker != nil {
		return s.JobSeeker.CreatedAt
	}
	if s.Business != nil {
		return s.Business.CreatedAt
	}
	return time.Time{}
}

// DisplayName is the primary name field: full name or hotel name.
func (s Submission) DisplayName() string {
	if s.JobSeeker != nil {
		return s.JobSeeker.FullName
	}
	if s.Business != nil {
		return s.Business.HotelName
	}
	return ""
}

func (s Submission) Location() string {
	var loc *string
	if s.JobSeeker != nil {
		loc = s.JobSeeker.Location
	} else if s.Business != nil {
		loc = s.Business.Location
	}
	if loc == nil {
		return ""
	}
	return *loc
}

// ListFilter narrows a category listing. An empty Status matches every state.
type ListFilter struct {
	Search string `json:"search,omitempty"`
	Status Status `json:"status,omitempty"`
}

// StatusChange is one entry of a submission's status history.
type StatusChange struct {
	Kind         Kind      `json:"kind"`
	SubmissionID string    `json:"submission_id"`
	OldStatus    Status    `json:"old_status"`
	NewStatus    Status    `json:"new_status"`
	ChangedBy    string    `json:"changed_by"`
	ChangedAt    time.Time `json:"changed_at"`
}

// ExportRequest selects the rows and format of a reviewer export.
type ExportRequest struct {
	Kind   Kind
	Filter ListFilter
	Format string // xlsx or csv
}

// AttachmentStore uploads binary objects and resolves their public URLs.
type AttachmentStore interface {
	Upload(ctx context.Context, bucket, fileName string, data []byte, contentType string) (AttachmentRef, error)
	PublicURL(bucket, fileName string) string
}

// SubmissionRepository is the record store for all categories.
type SubmissionRepository interface {
	// CreateJobSeeker inserts s and fills in ID, CreatedAt and UpdatedAt.
	CreateJobSeeker(ctx context.Context, s *JobSeekerSubmission) error
	// CreateBusiness inserts s and fills in ID, CreatedAt and UpdatedAt.
	CreateBusiness(ctx context.Context, s *BusinessSubmission) error
	// List returns matching records ordered by created_at descending.
	List(ctx context.Context, kind Kind, filter ListFilter) ([]Submission, error)
	// GetByID returns ErrNotFound when id does not resolve within kind.
	GetByID(ctx context.Context, kind Kind, id string) (*Submission, error)
	// UpdateStatus sets the status and appends a history entry in one step.
	// OldStatus and ChangedAt are filled in on success.
	UpdateStatus(ctx context.Context, change *StatusChange) error
	ListStatusHistory(ctx context.Context, kind Kind, id string) ([]StatusChange, error)
	// CountByKind counts records created inside r, per kind.
	CountByKind(ctx context.Context, r TimeRange) (map[Kind]int64, error)
}

// SubmissionNotifier is told about every successfully stored submission.
type SubmissionNotifier interface {
	NotifySubmission(ctx context.Context, s Submission) error
}

// IntakeUsecase validates, uploads and stores new submissions.
type IntakeUsecase interface {
	SubmitJobSeeker(ctx context.Context, payload *JobSeekerPayload) (string, error)
	SubmitBusiness(ctx context.Context, payload *BusinessPayload) (string, error)
}

// ReviewUsecase is the read side of the review surface.
type ReviewUsecase interface {
	List(ctx context.Context, kind Kind, filter ListFilter) ([]Submission, error)
	Get(ctx context.Context, kind Kind, id string) (*Submission, error)
	History(ctx context.Context, kind Kind, id string) ([]StatusChange, error)
}

// WorkflowUsecase applies status transitions.
type WorkflowUsecase interface {
	SetStatus(ctx context.Context, kind Kind, id string, status Status) (*Submission, error)
}

// ExportUsecase renders a filtered category listing as a file.
type ExportUsecase interface {
	Export(ctx context.Context, req ExportRequest) ([]byte, string, error)
}
