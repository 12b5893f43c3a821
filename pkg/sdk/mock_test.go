package strdex

import (
	"context"

	"github.com/kailas-cloud/strdex/internal/domain/filter"
	domrec "github.com/kailas-cloud/strdex/internal/domain/record"
)

type mockStringUC struct {
	createFn func(ctx context.Context, value string) (domrec.Record, error)
	getFn    func(ctx context.Context, value string) (domrec.Record, error)
	deleteFn func(ctx context.Context, value string) error
	listFn   func(ctx context.Context, spec filter.Spec) ([]domrec.Record, error)
	searchFn func(ctx context.Context, text string) ([]domrec.Record, filter.Spec, error)
}

func (m *mockStringUC) Create(ctx context.Context, value string) (domrec.Record, error) {
	return m.createFn(ctx, value)
}

func (m *mockStringUC) Get(ctx context.Context, value string) (domrec.Record, error) {
	return m.getFn(ctx, value)
}

func (m *mockStringUC) Delete(ctx context.Context, value string) error {
	return m.deleteFn(ctx, value)
}

func (m *mockStringUC) List(ctx context.Context, spec filter.Spec) ([]domrec.Record, error) {
	return m.listFn(ctx, spec)
}

func (m *mockStringUC) Search(ctx context.Context, text string) ([]domrec.Record, filter.Spec, error) {
	return m.searchFn(ctx, text)
}
