package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/estomatologia-api/internal/domain"
	"github.com/jhoicas/estomatologia-api/internal/domain/entity"
	"github.com/jhoicas/estomatologia-api/internal/domain/repository"
)

// InstrumentedStorage decora un repository.Storage midiendo cada operación.
type InstrumentedStorage struct {
	next    repository.Storage
	metrics *Metrics
	driver  string
}

var _ repository.Storage = (*InstrumentedStorage)(nil)

// InstrumentStorage envuelve next. Con m nil devuelve next sin decorar.
func InstrumentStorage(next repository.Storage, m *Metrics) repository.Storage {
	if m == nil {
		return next
	}
	return &InstrumentedStorage{next: next, metrics: m, driver: next.Driver()}
}

func (s *InstrumentedStorage) Driver() string { return s.driver }

func (s *InstrumentedStorage) Close() error { return s.next.Close() }

func (s *InstrumentedStorage) Append(ctx context.Context, sub *entity.Submission) (string, error) {
	start := time.Now()
	id, err := s.next.Append(ctx, sub)
	s.observe("append_submission", err, start)
	return id, err
}

func (s *InstrumentedStorage) List(ctx context.Context) ([]*entity.Submission, error) {
	start := time.Now()
	list, err := s.next.List(ctx)
	s.observe("list_submissions", err, start)
	return list, err
}

func (s *InstrumentedStorage) FindByID(ctx context.Context, id string) (*entity.Submission, error) {
	start := time.Now()
	sub, err := s.next.FindByID(ctx, id)
	s.observe("find_submission", err, start)
	return sub, err
}

func (s *InstrumentedStorage) Upsert(ctx context.Context, snap *entity.InventorySnapshot) (time.Time, error) {
	start := time.Now()
	savedAt, err := s.next.Upsert(ctx, snap)
	s.observe("upsert_inventory", err, start)
	return savedAt, err
}

func (s *InstrumentedStorage) Get(ctx context.Context, key, categoria string) (*entity.InventorySnapshot, error) {
	start := time.Now()
	snap, err := s.next.Get(ctx, key, categoria)
	s.observe("get_inventory", err, start)
	return snap, err
}

func (s *InstrumentedStorage) DeleteItems(ctx context.Context, key, categoria string, uids map[string]struct{}) (entity.DeleteResult, error) {
	start := time.Now()
	res, err := s.next.DeleteItems(ctx, key, categoria, uids)
	s.observe("delete_inventory_items", err, start)
	return res, err
}

func (s *InstrumentedStorage) observe(op string, err error, start time.Time) {
	s.metrics.ObserveStorage(s.driver, op, resultLabel(err), time.Since(start))
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	default:
		return "error"
	}
}
