package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/estomatologia-api/internal/domain"
	"github.com/jhoicas/estomatologia-api/internal/domain/entity"
	"github.com/jhoicas/estomatologia-api/internal/domain/inventory"
	"github.com/jhoicas/estomatologia-api/internal/domain/repository"
	"github.com/jhoicas/estomatologia-api/pkg/logger"
)

// Driver nombre del backend.
const Driver = "postgres"

var _ repository.Storage = (*Store)(nil)

// Store backend relacional sobre PostgreSQL.
//
// Política de retención: historial. Cada Upsert inserta una fila; Get lee la de saved_at
// máximo. DeleteItems corrige esa misma fila en lugar de insertar una nueva.
type Store struct {
	*SubmissionRepo
	pool *pgxpool.Pool
	tx   *TxRunner
	log  *logger.Logger
}

// NewStore construye el backend sobre un pool ya abierto y garantiza el esquema.
func NewStore(ctx context.Context, pool *pgxpool.Pool, log *logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("postgres")
	if err := EnsureSchema(ctx, pool); err != nil {
		return nil, err
	}
	return &Store{
		SubmissionRepo: NewSubmissionRepository(pool, log),
		pool:           pool,
		tx:             NewTxRunner(pool),
		log:            log,
	}, nil
}

func (s *Store) Driver() string { return Driver }

// Close cierra el pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Upsert inserta un nuevo snapshot en el historial de (key, categoria).
func (s *Store) Upsert(ctx context.Context, snap *entity.InventorySnapshot) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	row := *snap
	row.ID = 0
	row.Items = inventory.AssignUIDs(snap.Items)

	err := s.tx.RunForKey(ctx, row.Key, row.Categoria, func(ctx context.Context, repo *InventoryRepo) error {
		row.SavedAt = dbNow()
		return repo.Insert(ctx, &row)
	})
	if err != nil {
		return time.Time{}, wrapWrite(err)
	}
	*snap = row
	return row.SavedAt, nil
}

// Get devuelve la fila más reciente de (key, categoria), o nil si no hay datos.
// Una fila con items ilegibles se registra y se trata como ausente.
func (s *Store) Get(ctx context.Context, key, categoria string) (*entity.InventorySnapshot, error) {
	snap, err := NewInventoryRepository(s.pool).Latest(ctx, key, categoria, false)
	if errors.Is(err, domain.ErrMalformedData) {
		s.log.Warn().Str("key", key).Str("categoria", categoria).AnErr("cause", err).
			Msg("snapshot de inventario ilegible; se trata como sin datos")
		return nil, nil
	}
	return snap, err
}

// DeleteItems bloquea la fila más reciente, quita los uid y la actualiza en el mismo registro.
func (s *Store) DeleteItems(ctx context.Context, key, categoria string, uids map[string]struct{}) (entity.DeleteResult, error) {
	if err := ctx.Err(); err != nil {
		return entity.DeleteResult{}, err
	}
	var res entity.DeleteResult
	err := s.tx.RunForKey(ctx, key, categoria, func(ctx context.Context, repo *InventoryRepo) error {
		snap, err := repo.Latest(ctx, key, categoria, true)
		if err != nil {
			return err
		}
		if snap == nil {
			return domain.ErrNotFound
		}
		kept, modified := inventory.RemoveByUID(snap.Items, uids)
		res = entity.DeleteResult{Modified: modified, Remaining: len(kept)}
		if !modified {
			return nil
		}
		snap.Items = kept
		snap.SavedAt = dbNow()
		return repo.UpdateItems(ctx, snap)
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return entity.DeleteResult{}, err
		}
		return entity.DeleteResult{}, wrapWrite(err)
	}
	return res, nil
}

// wrapWrite marca como error de escritura cualquier fallo que no venga ya tipado.
func wrapWrite(err error) error {
	if errors.Is(err, domain.ErrStorageWrite) || errors.Is(err, domain.ErrStorageRead) ||
		errors.Is(err, domain.ErrMalformedData) || errors.Is(err, domain.ErrInvalidInput) {
		return err
	}
	return domain.StorageWriteError(fmt.Errorf("postgres: %w", err))
}
