package usecase

import (
	"context"

	"banjara-intake-backend/internal/domain"
	"banjara-intake-backend/pkg/logger"
	"banjara-intake-backend/pkg/metrics"
	"banjara-intake-backend/pkg/security"
)

type workflowUsecase struct {
	repo  domain.SubmissionRepository
	audit *security.AuditLogger
}

// NewWorkflowUsecase records every status change on audit when it is non-nil.
func NewWorkflowUsecase(repo domain.SubmissionRepository, audit *security.AuditLogger) domain.WorkflowUsecase {
	return &workflowUsecase{repo: repo, audit: audit}
}

// SetStatus moves a submission to status. Any state of the category's set may
// follow any other; a status outside the set is rejected before the store is
// touched. Concurrent changes are last-writer-wins.
func (uc *workflowUsecase) SetStatus(ctx context.Context, kind domain.Kind, id string, status domain.Status) (*domain.Submission, error) {
	cat, err := categoryOf(kind)
	if err != nil {
		return nil, err
	}
	next, err := resolveStatus(cat, status)
	if err != nil {
		return nil, err
	}

	changedBy, _ := ctx.Value(domain.KeyReviewerName).(string)
	change := &domain.StatusChange{
		Kind:         kind,
		SubmissionID: id,
		NewStatus:    next,
		ChangedBy:    changedBy,
	}
	if err := uc.repo.UpdateStatus(ctx, change); err != nil {
		return nil, err
	}

	metrics.StatusChangesTotal.WithLabelValues(string(kind), string(next)).Inc()
	logger.Log.Info("Submission status changed",
		"kind", kind, "id", id, "from", change.OldStatus, "to", next, "by", changedBy, "request_id", requestID(ctx))
	uc.audit.StatusChanged(ctx, changedBy, cat.Collection, id, string(change.OldStatus), string(next), requestID(ctx))

	return uc.repo.GetByID(ctx, kind, id)
}
