package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/estomatologia-api/internal/domain"
	"github.com/jhoicas/estomatologia-api/internal/domain/entity"
	"github.com/jhoicas/estomatologia-api/internal/domain/inventory"
	"github.com/jhoicas/estomatologia-api/internal/domain/repository"
	"github.com/jhoicas/estomatologia-api/pkg/logger"
)

// Driver nombre del backend.
const Driver = "sqlite"

// timeLayout ancho fijo en UTC: el orden lexicográfico de TEXT coincide con el cronológico.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

var _ repository.Storage = (*Store)(nil)

// Store backend SQLite con historial de snapshots.
type Store struct {
	db  *sql.DB
	log *logger.Logger
	now func() time.Time
}

// New abre path, crea el esquema y devuelve el backend.
func New(path string, log *logger.Logger) (*Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, domain.StorageWriteError(err)
	}
	if err := EnsureSchema(db); err != nil {
		db.Close()
		return nil, domain.StorageWriteError(err)
	}
	return NewWithDB(db, log), nil
}

// NewWithDB usa una conexión ya abierta con el esquema aplicado.
func NewWithDB(db *sql.DB, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{
		db:  db,
		log: log.Component("sqlite"),
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Driver() string { return Driver }

func (s *Store) Close() error { return s.db.Close() }

// ── Envíos ───────────────────────────────────────────────────────────────────

func (s *Store) Append(ctx context.Context, sub *entity.Submission) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rec := *sub
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.ReceivedAt.IsZero() {
		rec.ReceivedAt = s.now()
	}
	rec.ReceivedAt = rec.ReceivedAt.UTC()
	rec.Items = inventory.AssignUIDs(rec.Items)

	payload, err := json.Marshal(&rec)
	if err != nil {
		return "", fmt.Errorf("serializar submission: %w", err)
	}
	_, err = s.db.ExecContext(context.WithoutCancel(ctx),
		`INSERT INTO submissions (id, payload, received_at) VALUES (?, ?, ?)`,
		rec.ID, string(payload), rec.ReceivedAt.Format(timeLayout))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return "", fmt.Errorf("%w: id de submission duplicado", domain.ErrInvalidInput)
		}
		return "", domain.StorageWriteError(fmt.Errorf("insert submission: %w", err))
	}
	*sub = rec
	return rec.ID, nil
}

func (s *Store) List(ctx context.Context) ([]*entity.Submission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, payload, received_at FROM submissions ORDER BY received_at DESC, seq DESC`)
	if err != nil {
		return nil, domain.StorageReadError(fmt.Errorf("list submissions: %w", err))
	}
	defer rows.Close()

	list := []*entity.Submission{}
	for rows.Next() {
		var id, payload, receivedAt string
		if err := rows.Scan(&id, &payload, &receivedAt); err != nil {
			return nil, domain.StorageReadError(fmt.Errorf("scan submission: %w", err))
		}
		list = append(list, s.decodeSubmission(id, payload, receivedAt))
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageReadError(err)
	}
	return list, nil
}

func (s *Store) FindByID(ctx context.Context, id string) (*entity.Submission, error) {
	var rowID, payload, receivedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, payload, received_at FROM submissions WHERE id = ? LIMIT 1`, id,
	).Scan(&rowID, &payload, &receivedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.StorageReadError(fmt.Errorf("get submission: %w", err))
	}
	return s.decodeSubmission(rowID, payload, receivedAt), nil
}

func (s *Store) decodeSubmission(id, payload, receivedAt string) *entity.Submission {
	sub := &entity.Submission{}
	if err := json.Unmarshal([]byte(payload), sub); err != nil {
		s.log.Warn().Str("submission_id", id).AnErr("cause", errors.Join(domain.ErrMalformedData, err)).
			Msg("payload de submission ilegible; se devuelve vacío")
		sub = &entity.Submission{}
	}
	sub.ID = id
	if t, err := time.Parse(timeLayout, receivedAt); err == nil {
		sub.ReceivedAt = t
	}
	if sub.Items == nil {
		sub.Items = []entity.LineItem{}
	}
	return sub
}

// ── Inventarios ──────────────────────────────────────────────────────────────

// Upsert inserta una fila nueva en el historial. savedAt se toma dentro de la transacción,
// después de obtener la única conexión, para que siempre sea posterior a cualquier corrección
// que se haya confirmado antes.
func (s *Store) Upsert(ctx context.Context, snap *entity.InventorySnapshot) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	row := *snap
	row.Items = inventory.AssignUIDs(snap.Items)
	items, err := json.Marshal(row.Items)
	if err != nil {
		return time.Time{}, fmt.Errorf("serializar items: %w", err)
	}

	ctx = context.WithoutCancel(ctx)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return time.Time{}, domain.StorageWriteError(fmt.Errorf("begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	row.SavedAt = s.now()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO inventarios (hospital_key, hospital_clave, hospital_nombre, categoria, items, saved_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		row.Key, row.HospitalClave, row.HospitalNombre, row.Categoria, string(items), row.SavedAt.Format(timeLayout))
	if err != nil {
		return time.Time{}, domain.StorageWriteError(fmt.Errorf("insert inventario: %w", err))
	}
	if id, err := res.LastInsertId(); err == nil {
		row.ID = id
	}
	if err := tx.Commit(); err != nil {
		return time.Time{}, domain.StorageWriteError(fmt.Errorf("commit transaction: %w", err))
	}
	*snap = row
	return row.SavedAt, nil
}

// Get devuelve la fila más reciente, o nil si no hay datos.
func (s *Store) Get(ctx context.Context, key, categoria string) (*entity.InventorySnapshot, error) {
	snap, err := latest(ctx, s.db, key, categoria)
	if errors.Is(err, domain.ErrMalformedData) {
		s.log.Warn().Str("key", key).Str("categoria", categoria).AnErr("cause", err).
			Msg("snapshot de inventario ilegible; se trata como sin datos")
		return nil, nil
	}
	return snap, err
}

// DeleteItems corrige la fila más reciente dentro de una transacción.
func (s *Store) DeleteItems(ctx context.Context, key, categoria string, uids map[string]struct{}) (entity.DeleteResult, error) {
	if err := ctx.Err(); err != nil {
		return entity.DeleteResult{}, err
	}
	ctx = context.WithoutCancel(ctx)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return entity.DeleteResult{}, domain.StorageWriteError(fmt.Errorf("begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	snap, err := latest(ctx, tx, key, categoria)
	if err != nil {
		return entity.DeleteResult{}, err
	}
	if snap == nil {
		return entity.DeleteResult{}, domain.ErrNotFound
	}
	kept, modified := inventory.RemoveByUID(snap.Items, uids)
	if !modified {
		return entity.DeleteResult{Modified: false, Remaining: len(snap.Items)}, nil
	}
	items, err := json.Marshal(kept)
	if err != nil {
		return entity.DeleteResult{}, fmt.Errorf("serializar items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE inventarios SET items = ?, saved_at = ? WHERE id = ?`,
		string(items), s.now().Format(timeLayout), snap.ID); err != nil {
		return entity.DeleteResult{}, domain.StorageWriteError(fmt.Errorf("update inventario: %w", err))
	}
	if err := tx.Commit(); err != nil {
		return entity.DeleteResult{}, domain.StorageWriteError(fmt.Errorf("commit transaction: %w", err))
	}
	return entity.DeleteResult{Modified: true, Remaining: len(kept)}, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func latest(ctx context.Context, q queryRower, key, categoria string) (*entity.InventorySnapshot, error) {
	var (
		snap           entity.InventorySnapshot
		items, savedAt string
	)
	err := q.QueryRowContext(ctx, `
		SELECT id, hospital_key, hospital_clave, hospital_nombre, categoria, items, saved_at
		FROM inventarios
		WHERE hospital_key = ? AND categoria = ?
		ORDER BY saved_at DESC, id DESC
		LIMIT 1`, key, categoria,
	).Scan(&snap.ID, &snap.Key, &snap.HospitalClave, &snap.HospitalNombre, &snap.Categoria, &items, &savedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.StorageReadError(fmt.Errorf("get inventario: %w", err))
	}
	if err := json.Unmarshal([]byte(items), &snap.Items); err != nil {
		return nil, errors.Join(domain.ErrMalformedData, fmt.Errorf("items de inventario %d: %w", snap.ID, err))
	}
	if snap.Items == nil {
		snap.Items = []entity.LineItem{}
	}
	snap.SavedAt, _ = time.Parse(timeLayout, savedAt)
	return &snap, nil
}
