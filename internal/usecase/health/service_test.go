package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

// --- Mocks ---

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

func failing(msg string) CheckFunc {
	return func(context.Context) error { return errors.New(msg) }
}

func passing(context.Context) error { return nil }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockDBPinger{}).WithCheck("translator", passing)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["database"] != CheckOK {
		t.Errorf("expected database %q, got %q", CheckOK, r.Checks["database"])
	}
	if r.Checks["translator"] != CheckOK {
		t.Errorf("expected translator %q, got %q", CheckOK, r.Checks["translator"])
	}
}

func TestCheck_DBError(t *testing.T) {
	svc := New(&mockDBPinger{err: errors.New("conn refused")}).WithCheck("translator", passing)
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks["database"] != CheckError {
		t.Errorf("expected database %q, got %q", CheckError, r.Checks["database"])
	}
	if r.Checks["translator"] != CheckOK {
		t.Errorf("expected translator %q, got %q", CheckOK, r.Checks["translator"])
	}
}

func TestCheck_AuxiliaryError(t *testing.T) {
	svc := New(&mockDBPinger{}).WithCheck("translator", failing("broken"))
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["translator"] != CheckError {
		t.Errorf("expected translator %q, got %q", CheckError, r.Checks["translator"])
	}
}

func TestCheck_BothFail(t *testing.T) {
	svc := New(&mockDBPinger{err: errors.New("db down")}).WithCheck("translator", failing("x"))
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
}

func TestCheck_OnlyDatabase(t *testing.T) {
	r := New(&mockDBPinger{}).Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if len(r.Checks) != 1 {
		t.Errorf("expected only the database check, got %v", r.Checks)
	}
}

func TestWithCheck_IgnoresInvalid(t *testing.T) {
	svc := New(&mockDBPinger{}).
		WithCheck("", passing).
		WithCheck("database", failing("shadow")).
		WithCheck("nil", nil)
	r := svc.Check(context.Background())

	if len(r.Checks) != 1 || r.Checks["database"] != CheckOK {
		t.Errorf("unexpected checks: %v", r.Checks)
	}
}

func TestCheck_TimeoutBoundsProbe(t *testing.T) {
	slow := func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}
	svc := New(&mockDBPinger{}).WithCheck("slow", slow).WithTimeout(10 * time.Millisecond)

	start := time.Now()
	r := svc.Check(context.Background())
	if time.Since(start) > time.Second {
		t.Fatal("check was not bounded by timeout")
	}
	if r.Checks["slow"] != CheckError {
		t.Errorf("expected slow %q, got %q", CheckError, r.Checks["slow"])
	}
}
