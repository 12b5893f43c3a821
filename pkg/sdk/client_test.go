package strdex

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	zapobserver "go.uber.org/zap/zaptest/observer"
)

func TestNew_NoBackend(t *testing.T) {
	if _, err := New(context.Background()); err == nil {
		t.Fatal("expected error when no backend configured")
	}
}

func TestCreateStore_UnknownDriver(t *testing.T) {
	cfg := &clientConfig{driver: "unknown"}
	if _, err := createStore(cfg); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestCreateStore_RedisWithoutAddr(t *testing.T) {
	cfg := &clientConfig{driver: driverRedis}
	if _, err := createStore(cfg); err == nil {
		t.Fatal("expected error for missing address")
	}
}

func TestClient_MemoryEndToEnd(t *testing.T) {
	ctx := context.Background()
	client, err := New(ctx, WithMemory(), WithKeyPrefix("sdk-test:"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer client.Close()

	svc := client.Strings()
	for _, v := range []string{"racecar", "hello world", "noon"} {
		if _, err := svc.Create(ctx, v); err != nil {
			t.Fatalf("Create(%q): %v", v, err)
		}
	}
	if _, err := svc.Create(ctx, "noon"); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("duplicate: expected ErrAlreadyExists, got %v", err)
	}

	got, err := svc.Get(ctx, "hello world")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Properties.WordCount != 2 {
		t.Errorf("WordCount = %d", got.Properties.WordCount)
	}

	list, err := svc.List(ctx, Filter{IsPalindrome: Bool(true)})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Value != "racecar" || list[1].Value != "noon" {
		t.Errorf("List() = %+v", list)
	}

	res, err := svc.Search(ctx, "palindromes shorter than 5")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Strings) != 1 || res.Strings[0].Value != "noon" {
		t.Errorf("Search() = %+v", res.Strings)
	}

	if err := svc.Delete(ctx, "noon"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, "noon"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete: expected ErrNotFound, got %v", err)
	}

	if err := client.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if h := client.Health(ctx); !h.OK() || h.Checks["database"] != "ok" {
		t.Errorf("Health() = %+v", h)
	}
}

func TestClient_MaxValueBytes(t *testing.T) {
	ctx := context.Background()
	client, err := New(ctx, WithMemory(), WithMaxValueBytes(3))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer client.Close()

	if _, err := client.Strings().Create(ctx, "abcd"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestClient_HealthAfterClose(t *testing.T) {
	ctx := context.Background()
	client, err := New(ctx, WithMemory())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	client.Close()

	if h := client.Health(ctx); h.OK() || h.Status != "error" {
		t.Errorf("Health() after Close = %+v", h)
	}
	if err := client.Ping(ctx); err == nil {
		t.Error("Ping after Close succeeded")
	}
}

func TestClient_Observability(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	core, logs := zapobserver.New(zap.DebugLevel)

	client, err := New(ctx, WithMemory(), WithPrometheus(reg), WithLogger(zap.New(core)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer client.Close()

	_, _ = client.Strings().Create(ctx, "x")
	_, _ = client.Strings().Get(ctx, "missing")

	ops, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(ops) != 2 {
		t.Errorf("registered families = %d, want 2", len(ops))
	}
	if logs.FilterMessage("operation completed").Len() != 1 {
		t.Errorf("completed logs = %d", logs.FilterMessage("operation completed").Len())
	}
	if logs.FilterMessage("operation failed").Len() != 1 {
		t.Errorf("failed logs = %d", logs.FilterMessage("operation failed").Len())
	}
}

func TestNewObserver_ReusesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("first observer: %v", err)
	}
	second, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("second observer: %v", err)
	}

	second.observe("create", time.Now(), nil)
	got := testutil.ToFloat64(first.metrics.operations.WithLabelValues("create", "ok"))
	if got != 1 {
		t.Errorf("shared counter = %f, want 1", got)
	}
}

func TestNewObserver_IncompatibleMetric(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "strdex",
		Subsystem: "sdk",
		Name:      "operations_total",
		Help:      "Total SDK operations by type and status.",
	}, []string{"operation", "status"}))

	if _, err := newObserver(nil, reg); err == nil {
		t.Fatal("expected error for incompatible collector")
	}
}

func TestObserver_NilSafe(t *testing.T) {
	var o *observer
	o.observe("ping", time.Now(), errors.New("x"))
}
