package usecase

import (
	"context"
	"sort"
	"time"
)

// Pinger is a dependency the health check can probe
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthReport is "ok" or the error text per dependency.
type HealthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type HealthUsecase interface {
	Check(ctx context.Context) (*HealthReport, bool)
}

type healthUsecase struct {
	deps    map[string]Pinger
	timeout time.Duration
}

// NewHealthUsecase probes every named dependency. Optional dependencies can
// be left out of deps when unconfigured.
func NewHealthUsecase(deps map[string]Pinger) HealthUsecase {
	return &healthUsecase{deps: deps, timeout: 2 * time.Second}
}

func (u *healthUsecase) Check(ctx context.Context) (*HealthReport, bool) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	names := make([]string, 0, len(u.deps))
	for name := range u.deps {
		names = append(names, name)
	}
	sort.Strings(names)

	report := &HealthReport{Status: "ok", Checks: make(map[string]string, len(names))}
	healthy := true
	for _, name := range names {
		if err := u.deps[name].Ping(ctx); err != nil {
			report.Checks[name] = err.Error()
			healthy = false
			continue
		}
		report.Checks[name] = "ok"
	}
	if !healthy {
		report.Status = "degraded"
	}
	return report, healthy
}
