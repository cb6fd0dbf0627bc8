package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/estomatologia-api/internal/domain"
	"github.com/jhoicas/estomatologia-api/internal/domain/entity"
)

// InventoryRepo acceso a la tabla inventarios. Las operaciones de escritura se usan dentro de
// TxRunner.RunForKey para que la clave quede bloqueada mientras se lee y se modifica.
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Acepta pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

const selectSnapshot = `
	SELECT id, hospital_key, hospital_clave, hospital_nombre, categoria, items, saved_at
	FROM inventarios
	WHERE hospital_key = $1 AND categoria = $2
	ORDER BY saved_at DESC, id DESC
	LIMIT 1`

// Latest devuelve la fila más reciente de (key, categoria) o nil si no hay ninguna.
// Con forUpdate bloquea la fila (SELECT FOR UPDATE) hasta el fin de la transacción.
func (r *InventoryRepo) Latest(ctx context.Context, key, categoria string, forUpdate bool) (*entity.InventorySnapshot, error) {
	query := selectSnapshot
	if forUpdate {
		query += " FOR UPDATE"
	}
	var (
		s     entity.InventorySnapshot
		items []byte
	)
	err := r.q.QueryRow(ctx, query, key, categoria).Scan(
		&s.ID, &s.Key, &s.HospitalClave, &s.HospitalNombre, &s.Categoria, &items, &s.SavedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.StorageReadError(fmt.Errorf("get inventario: %w", err))
	}
	if err := json.Unmarshal(items, &s.Items); err != nil {
		return nil, errors.Join(domain.ErrMalformedData, fmt.Errorf("items de inventario %d: %w", s.ID, err))
	}
	if s.Items == nil {
		s.Items = []entity.LineItem{}
	}
	s.SavedAt = s.SavedAt.UTC()
	return &s, nil
}

// Insert agrega una fila nueva al historial y completa snap.ID.
func (r *InventoryRepo) Insert(ctx context.Context, snap *entity.InventorySnapshot) error {
	items, err := json.Marshal(snap.Items)
	if err != nil {
		return fmt.Errorf("serializar items: %w", err)
	}
	query := `
		INSERT INTO inventarios (hospital_key, hospital_clave, hospital_nombre, categoria, items, saved_at)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6)
		RETURNING id`
	err = r.q.QueryRow(ctx, query,
		snap.Key, snap.HospitalClave, snap.HospitalNombre, snap.Categoria, string(items), snap.SavedAt,
	).Scan(&snap.ID)
	if err != nil {
		return domain.StorageWriteError(fmt.Errorf("insert inventario: %w", err))
	}
	return nil
}

// UpdateItems corrige en el mismo registro la lista de ítems (no crea historial).
func (r *InventoryRepo) UpdateItems(ctx context.Context, snap *entity.InventorySnapshot) error {
	items, err := json.Marshal(snap.Items)
	if err != nil {
		return fmt.Errorf("serializar items: %w", err)
	}
	query := `UPDATE inventarios SET items = $1::jsonb, saved_at = $2 WHERE id = $3`
	if _, err := r.q.Exec(ctx, query, string(items), snap.SavedAt, snap.ID); err != nil {
		return domain.StorageWriteError(fmt.Errorf("update inventario: %w", err))
	}
	return nil
}
