package usecase_test

import (
	"context"
	"io"

	"banjara-intake-backend/internal/domain"
	"banjara-intake-backend/pkg/security/antivirus"

	"github.com/stretchr/testify/mock"
)

// Mock Repositories
type MockSubmissionRepo struct {
	mock.Mock
}

func (m *MockSubmissionRepo) CreateJobSeeker(ctx context.Context, s *domain.JobSeekerSubmission) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSubmissionRepo) CreateBusiness(ctx context.Context, s *domain.BusinessSubmission) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSubmissionRepo) List(ctx context.Context, kind domain.Kind, filter domain.ListFilter) ([]domain.Submission, error) {
	args := m.Called(ctx, kind, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Submission), args.Error(1)
}

func (m *MockSubmissionRepo) GetByID(ctx context.Context, kind domain.Kind, id string) (*domain.Submission, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissionRepo) UpdateStatus(ctx context.Context, change *domain.StatusChange) error {
	return m.Called(ctx, change).Error(0)
}

func (m *MockSubmissionRepo) ListStatusHistory(ctx context.Context, kind domain.Kind, id string) ([]domain.StatusChange, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatusChange), args.Error(1)
}

func (m *MockSubmissionRepo) CountByKind(ctx context.Context, r domain.TimeRange) (map[domain.Kind]int64, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.Kind]int64), args.Error(1)
}

type MockAttachmentStore struct {
	mock.Mock
}

func (m *MockAttachmentStore) Upload(ctx context.Context, bucket, fileName string, data []byte, contentType string) (domain.AttachmentRef, error) {
	args := m.Called(ctx, bucket, fileName, data, contentType)
	return args.Get(0).(domain.AttachmentRef), args.Error(1)
}

func (m *MockAttachmentStore) PublicURL(bucket, fileName string) string {
	return m.Called(bucket, fileName).String(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifySubmission(ctx context.Context, s domain.Submission) error {
	return m.Called(ctx, s).Error(0)
}

type MockScanner struct {
	mock.Mock
}

func (m *MockScanner) Scan(ctx context.Context, filename string, data io.Reader) antivirus.ScanResult {
	return m.Called(ctx, filename, data).Get(0).(antivirus.ScanResult)
}

func (m *MockScanner) Name() string {
	return "mock"
}

// Fixtures
var (
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<<>>\n%%EOF\n")
	pngBytes = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52}
)

func resumeUpload() *domain.FileUpload {
	return &domain.FileUpload{Filename: "resume.pdf", ContentType: "application/pdf", Data: pdfBytes}
}

func photoUpload() *domain.FileUpload {
	return &domain.FileUpload{Filename: "me.png", ContentType: "image/png", Data: pngBytes}
}

func validJobSeeker() *domain.JobSeekerPayload {
	return &domain.JobSeekerPayload{
		FullName:   "Asha Rao",
		Phone:      "+91 9000000001",
		JobProfile: "Chef",
		Age:        "25",
		Resume:     resumeUpload(),
	}
}

func validBusiness(kind string) *domain.BusinessPayload {
	return &domain.BusinessPayload{
		BusinessType:  kind,
		HotelName:     "Lotus Inn",
		OwnerName:     "R. Iyer",
		ContactNumber: "+91 9000000002",
		Document:      resumeUpload(),
	}
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }
