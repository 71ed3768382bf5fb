package usecase

import (
	"context"
	"fmt"
	"strings"

	"banjara-intake-backend/internal/domain"
)

type reviewUsecase struct {
	repo domain.SubmissionRepository
}

func NewReviewUsecase(repo domain.SubmissionRepository) domain.ReviewUsecase {
	return &reviewUsecase{repo: repo}
}

// List returns the category's submissions newest first. Search matches the
// name or location case-insensitively and is ANDed with the status filter.
func (uc *reviewUsecase) List(ctx context.Context, kind domain.Kind, filter domain.ListFilter) ([]domain.Submission, error) {
	cat, err := categoryOf(kind)
	if err != nil {
		return nil, err
	}
	filter, err = normalizeFilter(cat, filter)
	if err != nil {
		return nil, err
	}

	items, err := uc.repo.List(ctx, kind, filter)
	if err != nil {
		return nil, fmt.Errorf("list %s submissions: %w", kind, err)
	}
	if items == nil {
		items = []domain.Submission{}
	}
	return items, nil
}

func (uc *reviewUsecase) Get(ctx context.Context, kind domain.Kind, id string) (*domain.Submission, error) {
	if _, err := categoryOf(kind); err != nil {
		return nil, err
	}
	return uc.repo.GetByID(ctx, kind, id)
}

// History returns the status changes of one submission, oldest first.
func (uc *reviewUsecase) History(ctx context.Context, kind domain.Kind, id string) ([]domain.StatusChange, error) {
	if _, err := uc.Get(ctx, kind, id); err != nil {
		return nil, err
	}
	changes, err := uc.repo.ListStatusHistory(ctx, kind, id)
	if err != nil {
		return nil, fmt.Errorf("status history of %s: %w", id, err)
	}
	if changes == nil {
		changes = []domain.StatusChange{}
	}
	return changes, nil
}

func categoryOf(kind domain.Kind) (domain.Category, error) {
	cat, ok := domain.CategoryFor(kind)
	if !ok {
		return domain.Category{}, fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}
	return cat, nil
}

// normalizeFilter trims the search text and resolves the status filter.
// "all" and empty disable status filtering.
func normalizeFilter(cat domain.Category, f domain.ListFilter) (domain.ListFilter, error) {
	out := domain.ListFilter{Search: strings.TrimSpace(f.Search)}

	raw := strings.TrimSpace(string(f.Status))
	if raw == "" || strings.EqualFold(raw, "all") {
		return out, nil
	}
	status, err := resolveStatus(cat, domain.Status(raw))
	if err != nil {
		return domain.ListFilter{}, err
	}
	out.Status = status
	return out, nil
}

// resolveStatus maps s onto the category's status set, ignoring case.
func resolveStatus(cat domain.Category, s domain.Status) (domain.Status, error) {
	for _, allowed := range cat.Statuses {
		if strings.EqualFold(string(allowed), strings.TrimSpace(string(s))) {
			return allowed, nil
		}
	}
	return "", &domain.InvalidStateError{Kind: cat.Kind, State: s, Allowed: cat.Statuses}
}
