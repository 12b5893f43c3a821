package health

import (
	"context"
	"sort"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an auxiliary check failed while the store is reachable.
	Degraded Status = "degraded"
	// Unhealthy indicates the store is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

const (
	checkDatabase       = "database"
	defaultCheckTimeout = 2 * time.Second
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

type namedCheck struct {
	name string
	fn   CheckFunc
}

// Service coordinates health checks.
type Service struct {
	db      DBPinger
	extra   []namedCheck
	timeout time.Duration
}

// New creates a Service around the store ping.
func New(db DBPinger) *Service {
	return &Service{db: db, timeout: defaultCheckTimeout}
}

// WithCheck adds an auxiliary probe. Its failure degrades but does not fail the report.
func (s *Service) WithCheck(name string, fn CheckFunc) *Service {
	if name != "" && name != checkDatabase && fn != nil {
		s.extra = append(s.extra, namedCheck{name: name, fn: fn})
		sort.Slice(s.extra, func(i, j int) bool { return s.extra[i].name < s.extra[j].name })
	}
	return s
}

// WithTimeout bounds each individual check.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, 1+len(s.extra))

	checks[checkDatabase] = s.run(ctx, s.db.Ping)
	for _, c := range s.extra {
		checks[c.name] = s.run(ctx, c.fn)
	}

	status := Healthy
	if checks[checkDatabase] == CheckError {
		status = Unhealthy
	} else {
		for _, v := range checks {
			if v == CheckError {
				status = Degraded
				break
			}
		}
	}

	return Report{Status: status, Checks: checks}
}

func (s *Service) run(ctx context.Context, fn func(context.Context) error) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
