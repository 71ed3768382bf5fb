package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"banjara-intake-backend/internal/domain"
	"banjara-intake-backend/pkg/apperror"
)

const dateLayout = "2006-01-02"

type dashboardUsecase struct {
	repo domain.SubmissionRepository
	loc  *time.Location
	now  func() time.Time
}

// NewDashboardUsecase counts submissions per category. loc decides where
// "today" starts.
func NewDashboardUsecase(repo domain.SubmissionRepository, loc *time.Location) domain.DashboardUsecase {
	return newDashboardUsecase(repo, loc, time.Now)
}

func newDashboardUsecase(repo domain.SubmissionRepository, loc *time.Location, now func() time.Time) *dashboardUsecase {
	if loc == nil {
		loc = time.Local
	}
	return &dashboardUsecase{repo: repo, loc: loc, now: now}
}

func (uc *dashboardUsecase) Counts(ctx context.Context, q domain.WindowQuery) (*domain.DashboardCounts, error) {
	window, err := domain.ParseWindow(string(q.Window))
	if err != nil {
		return nil, apperror.BadRequest("window must be one of: today, 7days, 30days, custom")
	}
	q.Window = window

	rng, err := ResolveWindow(q, uc.now(), uc.loc)
	if err != nil {
		return nil, err
	}

	counts, err := uc.repo.CountByKind(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("count submissions: %w", err)
	}

	out := &domain.DashboardCounts{
		Window: window,
		Range:  rng,
		Counts: make(map[domain.Kind]int64, len(domain.AllKinds())),
	}
	for _, kind := range domain.AllKinds() {
		n := counts[kind]
		out.Counts[kind] = n
		out.Total += n
	}
	return out, nil
}

// ResolveWindow turns a window into an inclusive creation-time range.
// today starts at local midnight in loc; 7days and 30days reach back from now;
// custom takes From and optionally To as YYYY-MM-DD or RFC3339.
func ResolveWindow(q domain.WindowQuery, now time.Time, loc *time.Location) (domain.TimeRange, error) {
	now = now.In(loc)

	switch q.Window {
	case domain.WindowToday:
		y, m, d := now.Date()
		return domain.TimeRange{From: time.Date(y, m, d, 0, 0, 0, 0, loc)}, nil
	case domain.WindowLast7Days:
		return domain.TimeRange{From: now.AddDate(0, 0, -7)}, nil
	case domain.WindowLast30Days, "":
		return domain.TimeRange{From: now.AddDate(0, 0, -30)}, nil
	case domain.WindowCustom:
		return customRange(q.From, q.To, loc)
	default:
		return domain.TimeRange{}, apperror.BadRequest(fmt.Sprintf("unknown window %q", q.Window))
	}
}

func customRange(from, to string, loc *time.Location) (domain.TimeRange, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" {
		return domain.TimeRange{}, apperror.BadRequest("custom window requires from")
	}

	start, err := parseBound(from, loc, false)
	if err != nil {
		return domain.TimeRange{}, apperror.BadRequest("from must be YYYY-MM-DD or RFC3339")
	}
	rng := domain.TimeRange{From: start}

	if to != "" {
		end, err := parseBound(to, loc, true)
		if err != nil {
			return domain.TimeRange{}, apperror.BadRequest("to must be YYYY-MM-DD or RFC3339")
		}
		if end.Before(start) {
			return domain.TimeRange{}, apperror.BadRequest("from must not be after to")
		}
		rng.To = end
	}
	return rng, nil
}

// parseBound reads a date or timestamp. A bare date used as the upper bound
// covers the whole day.
func parseBound(s string, loc *time.Location, upper bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	day, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return time.Time{}, err
	}
	if upper {
		return day.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
	}
	return day, nil
}
