package strdex

import (
	"context"

	healthuc "github.com/kailas-cloud/strdex/internal/usecase/health"
)

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// HealthStatus is the aggregated backend health.
type HealthStatus struct {
	Status string            // "ok" or "error"
	Checks map[string]string // component name to "ok" or "error"
}

// OK reports whether every check passed.
func (h HealthStatus) OK() bool {
	return h.Status == string(healthuc.Healthy)
}

// Health runs the backend checks.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)

	h := HealthStatus{
		Status: string(report.Status),
		Checks: make(map[string]string, len(report.Checks)),
	}
	for name, res := range report.Checks {
		h.Checks[name] = string(res)
	}
	return h
}
