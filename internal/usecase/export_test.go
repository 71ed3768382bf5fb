package usecase

import (
	"time"

	"banjara-intake-backend/internal/domain"
)

// NewDashboardUsecaseAt pins the clock for tests.
func NewDashboardUsecaseAt(repo domain.SubmissionRepository, loc *time.Location, now time.Time) domain.DashboardUsecase {
	return newDashboardUsecase(repo, loc, func() time.Time { return now })
}

// NewAuthUsecaseAt pins the clock for tests.
func NewAuthUsecaseAt(cfg AuthConfig, now func() time.Time) domain.AuthUsecase {
	uc := NewAuthUsecase(cfg).(*authUsecase)
	uc.now = now
	return uc
}
