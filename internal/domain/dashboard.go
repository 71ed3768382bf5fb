package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Window selects the creation-time range of dashboard counts.
type Window string

const (
	WindowToday      Window = "today"
	WindowLast7Days  Window = "7days"
	WindowLast30Days Window = "30days"
	WindowCustom     Window = "custom"
)

// ParseWindow accepts the canonical names plus the "lastNdays" spelling.
// An empty string selects the last 30 days.
func ParseWindow(s string) (Window, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today":
		return WindowToday, nil
	case "7days", "last7days", "last_7_days":
		return WindowLast7Days, nil
	case "", "30days", "last30days", "last_30_days":
		return WindowLast30Days, nil
	case "custom":
		return WindowCustom, nil
	default:
		return "", fmt.Errorf("unknown window %q", s)
	}
}

// TimeRange is inclusive on both ends. A zero To leaves the range open.
type TimeRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to,omitempty"`
}

// Contains reports whether t falls inside the range, boundaries included.
func (r TimeRange) Contains(t time.Time) bool {
	if t.Before(r.From) {
		return false
	}
	return r.To.IsZero() || !t.After(r.To)
}

// WindowQuery is the dashboard request as received from the reviewer.
type WindowQuery struct {
	Window Window
	From   string
	To     string
}

// DashboardCounts holds per-category submission counts for one window.
type DashboardCounts struct {
	Window Window         `json:"window"`
	Range  TimeRange      `json:"range"`
	Counts map[Kind]int64 `json:"counts"`
	Total  int64          `json:"total"`
}

// DashboardUsecase aggregates submission counts.
type DashboardUsecase interface {
	Counts(ctx context.Context, q WindowQuery) (*DashboardCounts, error)
}
