package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"banjara-intake-backend/internal/domain"
	"banjara-intake-backend/pkg/imaging"
	"banjara-intake-backend/pkg/logger"
	"banjara-intake-backend/pkg/metrics"
	"banjara-intake-backend/pkg/security"
	"banjara-intake-backend/pkg/security/antivirus"

	"github.com/google/uuid"
)

const notifyTimeout = 15 * time.Second

type intakeUsecase struct {
	repo      domain.SubmissionRepository
	store     domain.AttachmentStore
	validator *SubmissionValidator
	scanner   antivirus.Scanner
	notifier  domain.SubmissionNotifier
	imageOpts imaging.Options
	now       func() time.Time
	pending   sync.WaitGroup
}

// NotificationWaiter blocks until in-flight submission emails are done.
// Called on shutdown.
type NotificationWaiter interface {
	WaitNotifications()
}

// NewIntakeUsecase wires the intake pipeline. scanner and notifier may be nil.
func NewIntakeUsecase(
	repo domain.SubmissionRepository,
	store domain.AttachmentStore,
	validator *SubmissionValidator,
	scanner antivirus.Scanner,
	notifier domain.SubmissionNotifier,
	imageOpts imaging.Options,
) domain.IntakeUsecase {
	if scanner == nil {
		scanner = antivirus.NewNoOpScanner()
	}
	return &intakeUsecase{
		repo:      repo,
		store:     store,
		validator: validator,
		scanner:   scanner,
		notifier:  notifier,
		imageOpts: imageOpts,
		now:       time.Now,
	}
}

func (uc *intakeUsecase) SubmitJobSeeker(ctx context.Context, payload *domain.JobSeekerPayload) (id string, err error) {
	kind := domain.KindJobSeeker
	defer uc.observe(kind, time.Now(), &err)

	validated, err := uc.validator.ValidateJobSeeker(payload)
	if err != nil {
		return "", err
	}
	if err := uc.scan(ctx, validated.Attachments); err != nil {
		return "", err
	}

	refs, err := uc.upload(ctx, kind, validated.Attachments)
	if err != nil {
		return "", err
	}

	cat, _ := domain.CategoryFor(kind)
	record := validated.Record
	record.Photo = refs[cat.OptionalField]
	record.Resume = *refs[cat.RequiredField]
	record.Status = cat.InitialStatus()

	if err := uc.repo.CreateJobSeeker(ctx, &record); err != nil {
		logger.Log.Error("Failed to persist submission",
			"kind", kind, "collection", cat.Collection, "request_id", requestID(ctx), "error", err)
		return "", &domain.PersistError{Collection: cat.Collection, Err: err}
	}

	logger.Log.Info("Submission accepted", "kind", kind, "id", record.ID, "request_id", requestID(ctx))
	uc.notify(ctx, domain.Submission{Kind: kind, JobSeeker: &record})
	return record.ID, nil
}

func (uc *intakeUsecase) SubmitBusiness(ctx context.Context, payload *domain.BusinessPayload) (id string, err error) {
	kind, kindErr := domain.ParseBusinessKind(payloadBusinessType(payload))
	if kindErr != nil {
		kind = "unknown"
	}
	defer func(start time.Time) { uc.observe(kind, start, &err) }(time.Now())

	validated, err := uc.validator.ValidateBusiness(payload)
	if err != nil {
		return "", err
	}
	kind = validated.Record.BusinessType

	if err := uc.scan(ctx, validated.Attachments); err != nil {
		return "", err
	}

	refs, err := uc.upload(ctx, kind, validated.Attachments)
	if err != nil {
		return "", err
	}

	cat, _ := domain.CategoryFor(kind)
	record := validated.Record
	record.Logo = refs[cat.OptionalField]
	record.Document = *refs[cat.RequiredField]
	record.Status = cat.InitialStatus()

	if err := uc.repo.CreateBusiness(ctx, &record); err != nil {
		logger.Log.Error("Failed to persist submission",
			"kind", kind, "collection", cat.Collection, "request_id", requestID(ctx), "error", err)
		return "", &domain.PersistError{Collection: cat.Collection, Err: err}
	}

	logger.Log.Info("Submission accepted", "kind", kind, "id", record.ID, "request_id", requestID(ctx))
	uc.notify(ctx, domain.Submission{Kind: kind, Business: &record})
	return record.ID, nil
}

// scan runs every attachment through the malware scanner. Infected or
// unscannable files become violations on their field.
func (uc *intakeUsecase) scan(ctx context.Context, attachments []Attachment) error {
	var violations []domain.Violation
	for _, a := range attachments {
		res := uc.scanner.Scan(ctx, a.Filename, bytes.NewReader(a.Data))
		if !res.Infected {
			continue
		}
		if res.Error != nil {
			logger.Log.Warn("Attachment could not be scanned",
				"field", a.Field, "scanner", res.ScannerName, "request_id", requestID(ctx), "error", res.Error)
			violations = append(violations, domain.Violation{Field: a.Field, Message: "could not be scanned, please try again"})
			continue
		}
		logger.Log.Warn("Infected attachment rejected",
			"field", a.Field, "threat", res.ThreatName, "scanner", res.ScannerName, "request_id", requestID(ctx))
		violations = append(violations, domain.Violation{Field: a.Field, Message: "was rejected by the malware scanner"})
	}
	if len(violations) > 0 {
		return &domain.ValidationError{Violations: violations}
	}
	return nil
}

// upload stores attachments in order and stops at the first failure. The
// returned map is keyed by field name.
func (uc *intakeUsecase) upload(ctx context.Context, kind domain.Kind, attachments []Attachment) (map[string]*domain.AttachmentRef, error) {
	refs := make(map[string]*domain.AttachmentRef, len(attachments))
	for _, a := range attachments {
		data, ext := uc.normalizeImage(a)
		name := uc.fileName(ext)

		ref, err := uc.store.Upload(ctx, a.Bucket, name, data, security.ContentType(data))
		if err != nil {
			logger.Log.Error("Attachment upload failed",
				"kind", kind, "field", a.Field, "bucket", a.Bucket, "request_id", requestID(ctx), "error", err)
			return nil, &domain.UploadError{Field: a.Field, Bucket: a.Bucket, Err: err}
		}
		metrics.AttachmentBytes.WithLabelValues(a.Bucket).Observe(float64(len(data)))
		refs[a.Field] = &ref
	}
	return refs, nil
}

// normalizeImage downscales oversized JPEG and PNG images. Anything else, or
// an image that fails to decode, is uploaded as received.
func (uc *intakeUsecase) normalizeImage(a Attachment) ([]byte, string) {
	if !security.IsImageExtension(a.Extension) || uc.imageOpts.MaxDimension <= 0 {
		return a.Data, a.Extension
	}
	res, err := imaging.Fit(a.Data, uc.imageOpts)
	if err != nil {
		if !errors.Is(err, imaging.ErrUnsupportedFormat) {
			logger.Log.Debug("Image left as uploaded", "field", a.Field, "error", err)
		}
		return a.Data, a.Extension
	}
	if !res.Resized {
		return a.Data, a.Extension
	}
	return res.Data, res.Extension
}

// fileName is "<unix millis>-<random token><ext>"
func (uc *intakeUsecase) fileName(ext string) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%d-%s%s", uc.now().UnixMilli(), token, ext)
}

// notify sends the new-submission email in the background so the submitter
// is not held by SMTP.
func (uc *intakeUsecase) notify(ctx context.Context, s domain.Submission) {
	if uc.notifier == nil {
		return
	}
	reqID := requestID(ctx)
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)

	uc.pending.Add(1)
	go func() {
		defer uc.pending.Done()
		defer cancel()
		if err := uc.notifier.NotifySubmission(nctx, s); err != nil {
			logger.Log.Warn("Submission notification failed",
				"kind", s.Kind, "id", s.ID(), "request_id", reqID, "error", err)
		}
	}()
}

func (uc *intakeUsecase) WaitNotifications() {
	uc.pending.Wait()
}

func (uc *intakeUsecase) observe(kind domain.Kind, start time.Time, err *error) {
	metrics.IntakeDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	metrics.SubmissionsTotal.WithLabelValues(string(kind), outcome(*err)).Inc()
}

func outcome(err error) string {
	var (
		validationErr *domain.ValidationError
		uploadErr     *domain.UploadError
		persistErr    *domain.PersistError
	)
	switch {
	case err == nil:
		return metrics.OutcomeAccepted
	case errors.As(err, &validationErr):
		return metrics.OutcomeInvalid
	case errors.As(err, &uploadErr):
		return metrics.OutcomeUploadFailed
	case errors.As(err, &persistErr):
		return metrics.OutcomePersistFailed
	default:
		return "error"
	}
}

func payloadBusinessType(p *domain.BusinessPayload) string {
	if p == nil {
		return ""
	}
	return p.BusinessType
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(domain.KeyRequestID).(string)
	return id
}
